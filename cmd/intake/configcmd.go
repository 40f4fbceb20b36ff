package main

import (
	"intake/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var configCommand = &cli.Command{
	Name:   "config",
	Usage:  "Print the resolved configuration with secrets redacted",
	Action: printConfig,
}

func printConfig(cCtx *cli.Context) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	pp.Println(redactConfig(*config))

	return nil
}

// redactConfig replaces every secret value with a placeholder. Empty
// secrets stay empty so the dump still shows what is unset.
func redactConfig(config types.Config) types.Config {
	for _, secret := range []*string{
		&config.PGPassword,
		&config.S3SecretKey,
		&config.HubSpotKey,
		&config.MailerKey,
	} {
		if *secret != "" {
			*secret = "[redacted]"
		}
	}

	return config
}

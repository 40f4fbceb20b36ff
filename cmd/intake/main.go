package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "intake",
		Usage: "Contact-form intake endpoint",
		Commands: []*cli.Command{
			serveCommand,
			initDBCommand,
			recentCommand,
			nanoidCommand,
			configCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}

package main

import (
	"context"
	"fmt"

	"intake/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.PGHost == "" {
		return nil, fmt.Errorf("set PGHOST")
	}

	if c.S3Bucket == "" {
		return nil, fmt.Errorf("set S3BUCKET")
	}

	if c.FileBaseURL == "" {
		return nil, fmt.Errorf("set FILE_BASE_URL")
	}

	if c.MailerEnabled && c.MailerKey == "" {
		return nil, fmt.Errorf("set MAILER_KEY when MAILER_ENABLED is true")
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context, c *types.Config) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.S3Region),
	}

	// Static credentials for the S3-compatible endpoint; fall back to
	// the default chain when none are configured.
	if c.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.S3AccessKey, c.S3SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return awsConfig, nil
}

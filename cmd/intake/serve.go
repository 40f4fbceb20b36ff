package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intake/internal/crm"
	"intake/internal/db"
	"intake/internal/intake"
	"intake/internal/mailer"
	"intake/internal/server"
	"intake/internal/storage"
	"intake/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx, config)
	if err != nil {
		return err
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if config.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(config.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	node, _ := os.Hostname()

	files := storage.NewS3Store(s3Client, config.S3Bucket)
	submissionRepo := store.NewSubmissionRepository(pool)
	crmClient := crm.NewClient(config.HubSpotKey, config.HubSpotOwnerID, logger)
	notifier := mailer.New(mailer.Config{
		Enabled:     config.MailerEnabled,
		APIKey:      config.MailerKey,
		FromName:    config.MailerFromName,
		FromAddress: config.MailerFrom,
		ToAddress:   config.MailerTo,
	})
	logger.WithField("emails_enabled", notifier.Enabled()).Info("outbound mail configured")

	pipeline := intake.NewPipeline(config, node, files, submissionRepo, crmClient, notifier, logger)

	srv := server.New(config, logger, pipeline, files, submissionRepo, crmClient, node)

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

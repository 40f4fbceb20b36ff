package main

import (
	"context"
	"fmt"

	"intake/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// uploads holds one row per accepted submission. The email lands in the
// token column; created_at exists only for the diagnostic recent-rows
// query and is filled by the database.
const uploadsSchema = `
CREATE TABLE IF NOT EXISTS uploads (
	id           text PRIMARY KEY,
	token        text NOT NULL,
	file_name    text NOT NULL DEFAULT '',
	content_type text NOT NULL DEFAULT '',
	file_size    bigint NOT NULL DEFAULT -1,
	created_at   timestamptz NOT NULL DEFAULT now()
)`

var initDBCommand = &cli.Command{
	Name:   "init-db",
	Usage:  "Create the uploads table if it does not exist",
	Action: initDB,
}

func initDB(cCtx *cli.Context) error {
	ctx := context.Background()

	logger := logrus.New()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %q", config.PGSchema)); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := pool.Exec(ctx, uploadsSchema); err != nil {
		return fmt.Errorf("create uploads table: %w", err)
	}

	logger.WithField("schema", config.PGSchema).Info("uploads table ready")

	return nil
}

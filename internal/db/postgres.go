package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"intake/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect builds a pgx pool from the discrete PG* settings and verifies
// it with a ping. Connections inherit the configured search_path and a
// short connect timeout.
func Connect(ctx context.Context, config *types.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL(config))
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolConfig.ConnConfig.RuntimeParams["search_path"] = config.PGSchema
	poolConfig.ConnConfig.ConnectTimeout = 3 * time.Second
	poolConfig.MaxConnIdleTime = 15 * time.Minute
	poolConfig.MaxConnLifetime = 45 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

func databaseURL(config *types.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(config.PGUser, config.PGPassword),
		Host:   fmt.Sprintf("%s:%d", config.PGHost, config.PGPort),
		Path:   config.PGDatabase,
	}

	q := url.Values{}
	q.Set("sslmode", config.PGSSLMode)
	if config.PGRootCert != "" {
		q.Set("sslrootcert", config.PGRootCert)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

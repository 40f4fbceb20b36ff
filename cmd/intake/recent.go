package main

import (
	"context"
	"fmt"

	"intake/internal/db"
	"intake/internal/store"

	"github.com/urfave/cli/v2"
)

var recentCommand = &cli.Command{
	Name:  "recent",
	Usage: "List the newest recorded submissions",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "number of rows to print",
			Value:   10,
		},
	},
	Action: recent,
}

func recent(cCtx *cli.Context) error {
	ctx := context.Background()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	rows, err := store.NewSubmissionRepository(pool).Recent(ctx, cCtx.Uint64("limit"))
	if err != nil {
		return err
	}

	for _, row := range rows {
		fmt.Printf("%s\t%s\t%s\t%s\t%d\n", row.ID, row.Token, row.FileName, row.ContentType, row.FileSize)
	}

	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kitbuilder587/breachsearch/internal/config"
	"github.com/kitbuilder587/breachsearch/internal/repository/postgres"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the profile store schema",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadStore()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := postgres.New(ctx, cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}
			fmt.Println("Schema is up to date")
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kitbuilder587/breachsearch/internal/config"
	"github.com/kitbuilder587/breachsearch/internal/domain"
	"github.com/kitbuilder587/breachsearch/internal/repository/postgres"
	"github.com/kitbuilder587/breachsearch/internal/service"
)

func creditsCommand() *cli.Command {
	return &cli.Command{
		Name:  "credits",
		Usage: "Manage search credits",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Top up purchased searches for a profile",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Profile email",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "amount",
						Usage:    "Number of searches to add",
						Required: true,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return addCredits(ctx, c.String("email"), c.Int("amount"))
				},
			},
		},
	}
}

func addCredits(ctx context.Context, email string, amount int) error {
	cfg, err := config.LoadStore()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	db, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	accounts := service.NewAccountService(postgres.NewProfileRepo(db), cfg.Credits.FreeSearches, logger)
	profile, err := accounts.TopUp(ctx, email, amount)
	if err != nil {
		return fmt.Errorf("add credits: %w", err)
	}

	logger.Debug("profile updated", zap.String("user_id", profile.UserID))
	fmt.Printf("%s: %s searches remaining\n", profile.Email, domain.FormatRemaining(domain.ComputeRemaining(profile)))
	return nil
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "breachsearch",
		Usage: "Breach database search page",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			creditsCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"os"

	"github.com/sam4007/studylink-backend/cmd"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "studylinkd",
		Usage: "StudyLink messaging backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the API server and push worker",
				Action: func(c *cli.Context) error {
					return cmd.Run(c.String("config"))
				},
			},
			{
				Name:  "migrate",
				Usage: "apply the database schema",
				Action: func(c *cli.Context) error {
					return cmd.Migrate(c.String("config"))
				},
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("studylinkd exited")
	}
}

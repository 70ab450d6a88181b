package main

import (
	"context"
	"fmt"

	"github.com/sonnes/censor/config"
	"github.com/sonnes/censor/install"
	"github.com/urfave/cli/v3"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Add a starter censor.yml and an Actions workflow to the current repository",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Where to write the config, relative to the repository root",
				Value: config.DefaultPath,
			},
			&cli.BoolFlag{
				Name:  "no-workflow",
				Usage: "Only write the config",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Generate a workflow that reports instead of editing",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			res, err := install.Run(install.Config{
				ConfigPath: cmd.String("config"),
				Workflow:   !cmd.Bool("no-workflow"),
				DryRun:     cmd.Bool("dry-run"),
			})
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			for _, p := range res.Written {
				fmt.Fprintf(w, "  created  %s\n", p)
			}
			for _, p := range res.Skipped {
				fmt.Fprintf(w, "  exists   %s\n", p)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Edit the rules, commit both files and censor runs on the next issue or comment.")
			return nil
		},
	}
}

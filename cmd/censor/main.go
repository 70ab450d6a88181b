package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newRoot().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newRoot() *cli.Command {
	return &cli.Command{
		Name:  "censor",
		Usage: "Redact configured patterns from GitHub issues, pull requests and comments",
		Description: `
  ___ ___ _ _  ___ ___ _ _
 / _/ -_) ' \(_-</ _ \ '_|
 \__\___|_||_/__/\___/_|

 Rewrites what should not have been posted and says why.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log level: debug, info, warn, error",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: text, json, logfmt",
				Value: "text",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)

			switch f := cmd.String("log-format"); f {
			case "text":
				log.SetFormatter(log.TextFormatter)
			case "json":
				log.SetFormatter(log.JSONFormatter)
			case "logfmt":
				log.SetFormatter(log.LogfmtFormatter)
			default:
				return ctx, fmt.Errorf("unknown log format %q", f)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			checkCmd(),
			runCmd(),
			serveCmd(),
			initCmd(),
		},
	}
}

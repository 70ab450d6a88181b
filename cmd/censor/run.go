package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sonnes/censor/reader"
	ghreader "github.com/sonnes/censor/reader/github"
	"github.com/urfave/cli/v3"
)

func runCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "event-name",
			Usage:    "Webhook event name (issues, pull_request, issue_comment)",
			Sources:  cli.EnvVars("GITHUB_EVENT_NAME"),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "event-path",
			Usage:    "Path to the webhook payload",
			Sources:  cli.EnvVars("GITHUB_EVENT_PATH"),
			Required: true,
		},
		&cli.StringFlag{
			Name:  "o",
			Usage: "Output format: terminal, json, html, text",
			Value: "terminal",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Time allowed for handling the event",
			Value: defaultTimeout,
		},
	}

	return &cli.Command{
		Name:  "run",
		Usage: "Handle one event from a GitHub Actions run",
		Description: `Reads the payload GitHub Actions stores at GITHUB_EVENT_PATH, applies the
repository's censor.yml and edits the item when a rule fired.`,
		Flags: append(flags, githubFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rnd, err := newApp().renderer(cmd.String("o"))
			if err != nil {
				return err
			}

			name := cmd.String("event-name")
			ev, err := reader.ReadFile(&ghreader.Reader{}, name, cmd.String("event-path"))
			if errors.Is(err, reader.ErrUnsupportedEvent) {
				log.Info("nothing to do", "event", name)
				return nil
			}
			if err != nil {
				return err
			}
			ev.DeliveryID = uuid.NewString()

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			source, err := newSource(cmd, client)
			if err != nil {
				return err
			}
			h := newHandler(cmd, source, client)

			if d := cmd.Duration("timeout"); d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}

			out, err := h.Handle(ctx, ev)
			if out != nil {
				// The report ends up in the Actions log, which may be public.
				if rerr := rnd.Render(cmd.Root().Writer, out.Sanitized()); rerr != nil {
					return fmt.Errorf("render: %w", rerr)
				}
			}
			return err
		},
	}
}

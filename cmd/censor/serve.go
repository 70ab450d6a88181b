package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sonnes/censor/config"
	ghreader "github.com/sonnes/censor/reader/github"
	"github.com/sonnes/censor/server"
	"github.com/urfave/cli/v3"
)

const defaultTimeout = 30 * time.Second

func serveCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Usage:   "Port to listen on",
			Value:   8080,
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "secret",
			Usage:   "Webhook secret used to verify X-Hub-Signature-256",
			Sources: cli.EnvVars("CENSOR_WEBHOOK_SECRET"),
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Time allowed for handling one delivery",
			Value: defaultTimeout,
		},
	}

	return &cli.Command{
		Name:  "serve",
		Usage: "Receive GitHub webhooks and redact items as they arrive",
		Description: `Serves POST /webhook for the issues, pull_request and issue_comment events,
GET /healthz and GET /metrics. With --config the local file is used for every
repository and reloaded when it changes.`,
		Flags: append(flags, githubFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var source config.Source
			if path := cmd.String("config"); path != "" {
				cfg, err := config.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				static := config.NewStatic(cfg)
				go func() {
					if err := config.Watch(ctx, path, static.Store, log.Default()); err != nil {
						log.Error("config watcher stopped", "error", err)
					}
				}()
				source = static
			} else if source, err = newSource(cmd, client); err != nil {
				return err
			}

			secret := cmd.String("secret")
			if secret == "" {
				log.Warn("no webhook secret configured; signatures are not verified")
			}

			srv := &server.Server{
				Handler: newHandler(cmd, source, client),
				Reader:  &ghreader.Reader{},
				Secret:  []byte(secret),
				Timeout: cmd.Duration("timeout"),
				Metrics: server.NewMetrics(nil),
			}

			addr := fmt.Sprintf(":%d", cmd.Int("port"))
			log.Info("serving", "addr", "http://localhost"+addr, "dry_run", cmd.Bool("dry-run"))
			return srv.ListenAndServe(ctx, addr)
		},
	}
}

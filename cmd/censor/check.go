package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/sonnes/censor/config"
	"github.com/sonnes/censor/handler"
	"github.com/urfave/cli/v3"
)

// errRulesFired is returned by check --fail when the text was rewritten.
var errRulesFired = errors.New("rules fired")

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Apply a censor.yml to a file or stdin and report what would change",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to censor.yml",
				Value:   config.DefaultPath,
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Text to check (reads stdin when empty)",
			},
			&cli.StringFlag{
				Name:  "previous",
				Usage: "Previous revision of the text; rules matching it are skipped",
			},
			&cli.StringFlag{
				Name:  "o",
				Usage: "Output format: terminal, json, html, text",
				Value: "terminal",
			},
			&cli.BoolFlag{
				Name:  "fail",
				Usage: "Exit non-zero when any rule rewrote the text",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rnd, err := newApp().renderer(cmd.String("o"))
			if err != nil {
				return err
			}

			cfgPath := cmd.String("config")
			cfg, err := config.ReadFile(cfgPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", cfgPath, err)
			}
			if !cfg.Enabled() {
				log.Warn("no rules configured", "config", cfgPath)
			}

			current, err := readText(cmd.String("file"), cmd.Root().Reader)
			if err != nil {
				return err
			}
			var previous string
			if p := cmd.String("previous"); p != "" {
				if previous, err = readText(p, nil); err != nil {
					return err
				}
			}

			out, err := handler.Evaluate(cfg, current, previous)
			if err != nil {
				return err
			}

			if err := rnd.Render(cmd.Root().Writer, out); err != nil {
				return fmt.Errorf("render: %w", err)
			}

			if cmd.Bool("fail") && out.Changed() {
				return errRulesFired
			}
			return nil
		},
	}
}

// readText reads path, or stdin when path is empty.
func readText(path string, stdin io.Reader) (string, error) {
	if path == "" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

package main

import (
	"fmt"
	"io"

	"github.com/sonnes/censor/config"
	"github.com/sonnes/censor/core"
	"github.com/sonnes/censor/github"
	"github.com/sonnes/censor/handler"
	"github.com/sonnes/censor/render"
	htmlrender "github.com/sonnes/censor/render/html"
	jsonrender "github.com/sonnes/censor/render/json"
	"github.com/sonnes/censor/render/terminal"
	"github.com/urfave/cli/v3"
)

// app holds the renderer registry used by CLI commands.
type app struct {
	renderers map[string]func() render.Renderer
}

func newApp() *app {
	return &app{
		renderers: map[string]func() render.Renderer{
			"terminal": func() render.Renderer { return terminal.New() },
			"json":     func() render.Renderer { return jsonrender.New() },
			"html":     func() render.Renderer { return htmlrender.New() },
			"text":     func() render.Renderer { return textRenderer{} },
		},
	}
}

func (a *app) renderer(name string) (render.Renderer, error) {
	fn, ok := a.renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", name)
	}
	return fn(), nil
}

// textRenderer writes only the rewritten body, for use in pipes.
type textRenderer struct{}

func (textRenderer) Render(w io.Writer, o *core.Outcome) error {
	_, err := io.WriteString(w, o.After)
	return err
}

// githubFlags are shared by the commands that talk to the GitHub API.
func githubFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "token",
			Usage:   "GitHub token used to edit items, post notes and fetch censor.yml",
			Sources: cli.EnvVars("GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "api-url",
			Usage:   "GitHub REST API base URL",
			Value:   github.DefaultAPIURL,
			Sources: cli.EnvVars("GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Local censor.yml to use instead of the one in each repository",
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Usage:   "Compute edits and notes without calling GitHub",
			Sources: cli.EnvVars("CENSOR_DRY_RUN"),
		},
	}
}

// newClient builds a GitHub client from --token and --api-url. It returns
// nil without an error when no token is set and dry-run is on.
func newClient(cmd *cli.Command) (*github.Client, error) {
	token := cmd.String("token")
	if token == "" && cmd.Bool("dry-run") {
		return nil, nil
	}
	return github.New(github.Config{Token: token, APIURL: cmd.String("api-url")})
}

// newSource picks the config source: the local --config file when set,
// otherwise censor.yml fetched from the event's repository.
func newSource(cmd *cli.Command, client *github.Client) (config.Source, error) {
	if path := cmd.String("config"); path != "" {
		return config.FileSource{Path: path}, nil
	}
	if client == nil {
		return nil, fmt.Errorf("--config is required without a GitHub token")
	}
	return config.RepoSource{Fetcher: client}, nil
}

// newHandler wires the source and the publisher. A nil client is left out
// so the handler sees a nil Publisher.
func newHandler(cmd *cli.Command, source config.Source, client *github.Client) *handler.Handler {
	h := &handler.Handler{Source: source, DryRun: cmd.Bool("dry-run")}
	if client != nil {
		h.Publisher = client
	}
	return h
}

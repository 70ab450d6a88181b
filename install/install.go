// Package install sets up a repository for censor: a starter censor.yml and
// a GitHub Actions workflow that runs `censor run` on every issue, pull
// request and comment.
package install

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sonnes/censor/config"
)

// WorkflowPath is where the Actions workflow is written inside a repository.
const WorkflowPath = ".github/workflows/censor.yml"

// Config holds the settings for the init command.
type Config struct {
	Dir        string // git repository root (auto-detected if empty)
	ConfigPath string // relative to Dir; defaults to config.DefaultPath
	Workflow   bool   // also write the Actions workflow
	DryRun     bool   // write the workflow with CENSOR_DRY_RUN set
}

// Result lists the files Run created and the ones it left alone because
// they already existed. Paths are relative to the repository root.
type Result struct {
	Written []string
	Skipped []string
}

// Run executes the full init sequence. Existing files are never
// overwritten.
func Run(cfg Config) (*Result, error) {
	if cfg.Dir == "" {
		dir, err := gitRoot(".")
		if err != nil {
			return nil, fmt.Errorf("not a git repository (run from inside a repo): %w", err)
		}
		cfg.Dir = dir
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = config.DefaultPath
	}

	res := &Result{}

	steps := []struct {
		name string
		path string
		skip bool
		fn   func(path string) error
	}{
		{"write config", cfg.ConfigPath, false, func(path string) error { return config.Default().WriteFile(path) }},
		{"write workflow", WorkflowPath, !cfg.Workflow, func(path string) error { return writeWorkflow(path, cfg.ConfigPath, cfg.DryRun) }},
	}

	for _, s := range steps {
		if s.skip {
			continue
		}
		path := filepath.Join(cfg.Dir, s.path)
		if _, err := os.Stat(path); err == nil {
			res.Skipped = append(res.Skipped, s.path)
			continue
		}
		if err := s.fn(path); err != nil {
			return res, fmt.Errorf("%s: %w", s.name, err)
		}
		res.Written = append(res.Written, s.path)
	}

	return res, nil
}

// gitRoot returns the top-level directory of the git repo containing dir.
func gitRoot(dir string) (string, error) {
	return gitOutput(dir, "rev-parse", "--show-toplevel")
}

// gitOutput runs a git command and returns its stdout.
func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func writeWorkflow(path, configPath string, dryRun bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(buildWorkflow(configPath, dryRun)), 0o644)
}

// buildWorkflow generates the Actions workflow. The event payload and the
// token come from the runner's environment.
func buildWorkflow(configPath string, dryRun bool) string {
	dry := "false"
	if dryRun {
		dry = "true"
	}
	return fmt.Sprintf(`# Installed by censor init
name: censor

on:
  issues:
    types: [opened, edited]
  pull_request_target:
    types: [opened, edited]
  issue_comment:
    types: [created, edited]

permissions:
  contents: read
  issues: write
  pull-requests: write

jobs:
  censor:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
        with:
          sparse-checkout: %s
      - uses: actions/setup-go@v5
        with:
          go-version: stable
      - run: go run github.com/sonnes/censor/cmd/censor@latest run --config %s
        env:
          GITHUB_TOKEN: ${{ secrets.GITHUB_TOKEN }}
          CENSOR_DRY_RUN: %q
`, configPath, configPath, dry)
}

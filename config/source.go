package config

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sonnes/censor/core"
)

// ErrNotFound is returned by a Fetcher when the repository has no config.
var ErrNotFound = errors.New("config not found")

// Source resolves the config that applies to a repository.
type Source interface {
	Load(ctx context.Context, repo core.Repo) (*Config, error)
}

// FileSource reads the same local file for every repository.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context, _ core.Repo) (*Config, error) {
	return ReadFile(s.Path)
}

// Fetcher reads a file from a repository's default branch.
type Fetcher interface {
	FetchFile(ctx context.Context, repo core.Repo, path string) ([]byte, error)
}

// RepoSource loads the config committed to the event's repository.
type RepoSource struct {
	Fetcher Fetcher
	// Path overrides DefaultPath.
	Path string
}

func (s RepoSource) Load(ctx context.Context, repo core.Repo) (*Config, error) {
	path := s.Path
	if path == "" {
		path = DefaultPath
	}

	data, err := s.Fetcher.FetchFile(ctx, repo, path)
	if errors.Is(err, ErrNotFound) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", path, repo, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s in %s: %w", path, repo, err)
	}
	return cfg, nil
}

// Static holds one config for every repository. Store swaps it atomically,
// which lets Watch reload it while events are being handled.
type Static struct {
	cfg atomic.Pointer[Config]
}

// NewStatic creates a Static source holding cfg.
func NewStatic(cfg *Config) *Static {
	s := &Static{}
	s.Store(cfg)
	return s
}

func (s *Static) Load(_ context.Context, _ core.Repo) (*Config, error) {
	if cfg := s.cfg.Load(); cfg != nil {
		return cfg, nil
	}
	return &Config{}, nil
}

// Store replaces the held config.
func (s *Static) Store(cfg *Config) {
	s.cfg.Store(cfg)
}

// Package config reads and writes censor.yml, the per-repository file that
// declares the redaction rules and the note posted after an edit.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sonnes/censor/core"
	"github.com/sonnes/censor/redact"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config lives inside a repository.
const DefaultPath = ".github/censor.yml"

// ErrInvalid is wrapped by every error caused by the content of a config:
// malformed YAML, unknown presets, missing or uncompilable patterns.
var ErrInvalid = errors.New("invalid config")

// Config is the parsed content of a censor.yml file.
type Config struct {
	// Message is posted before the messages of the rules that fired.
	Message string `yaml:"message,omitempty"`
	// Presets names built-in rule sets (see redact.PresetNames). They run
	// before Rules.
	Presets []string `yaml:"presets,omitempty"`
	// Rules are applied in order. A nil list (key absent) disables the bot
	// unless presets are set; an empty list enables it without effect.
	Rules []core.Rule `yaml:"rules"`
}

// Enabled reports whether the config declares any rules.
func (c *Config) Enabled() bool {
	return c != nil && (c.Rules != nil || len(c.Presets) > 0)
}

// AllRules expands presets and appends the configured rules.
func (c *Config) AllRules() ([]core.Rule, error) {
	var rules []core.Rule
	for _, name := range c.Presets {
		preset, err := redact.Preset(name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, preset...)
	}
	return append(rules, c.Rules...), nil
}

// Redactor compiles the config's rules.
func (c *Config) Redactor() (*redact.Redactor, error) {
	rules, err := c.AllRules()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	r, err := redact.New(rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return r, nil
}

// Validate checks that every rule has a pattern, every preset exists and all
// patterns compile.
func (c *Config) Validate() error {
	for i, r := range c.Rules {
		if r.Pattern == "" {
			return fmt.Errorf("%w: rule %d: pattern is required", ErrInvalid, i)
		}
	}
	_, err := c.Redactor()
	return err
}

// Parse decodes and validates a censor.yml document. An empty document
// yields a disabled config.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Config
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ReadFile reads a config from disk. Returns a disabled Config if the file
// does not exist.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// WriteFile writes the config to disk atomically using a temporary file and
// rename.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".censor-*.yml")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}

// Default returns the starter config written by `censor init`.
func Default() *Config {
	return &Config{
		Message: "I just edited this for you.",
		Presets: []string{"secrets"},
		Rules: []core.Rule{
			{
				Pattern:     `(api_token=)\w+`,
				Replacement: "$1redacted",
				Message:     "Please do not post your API token.",
			},
		},
	}
}

// Package config loads walker settings from YAML with project, user and
// built-in precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/thomasrohde/walker/pkg/diagnostics"
	"github.com/thomasrohde/walker/pkg/evaluator"
)

// ProjectFile is the config file name looked up in the project directory.
const ProjectFile = ".walker.yaml"

// DefaultSource names the built-in configuration.
const DefaultSource = "<default>"

// Config is the effective configuration of a run.
type Config struct {
	Arity   string        `yaml:"arity"`
	Budget  BudgetConfig  `yaml:"budget"`
	Natives NativesConfig `yaml:"natives"`
	Log     LogConfig     `yaml:"log"`

	// Source is the file the configuration was read from.
	Source string `yaml:"-"`
}

// BudgetConfig holds evaluation limits. Zero or absent means unlimited.
type BudgetConfig struct {
	TimeMs       int64 `yaml:"timeMs,omitempty"`
	MaxCallDepth int64 `yaml:"maxCallDepth,omitempty"`
}

// NativesConfig selects which natives are installed. Entries name a group or
// a single native; "*" allows everything. Deny overrides allow.
type NativesConfig struct {
	Allow []string `yaml:"allow"`
	Deny  []string `yaml:"deny,omitempty"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Error reports an unreadable or invalid configuration file.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Diagnostic converts the error for presentation.
func (e *Error) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.EConfig, e.Error(), nil, diagnostics.HintFor(diagnostics.EConfig))
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Arity: evaluator.ArityFillNull.String(),
		Budget: BudgetConfig{
			TimeMs:       5000,
			MaxCallDepth: 2048,
		},
		Natives: NativesConfig{
			Allow: []string{"io", "time", "core", "math", "string", "object", "scope"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Source: DefaultSource,
	}
}

// Load reads the configuration with precedence:
// project (.walker.yaml) → user (~/.walker/config.yaml) → built-in default.
// A file that exists but cannot be parsed is an error, not a fallthrough.
func Load(projectDir string) (*Config, error) {
	candidates := []string{filepath.Join(projectDir, ProjectFile)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".walker", "config.yaml"))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &Error{Source: path, Err: err}
		}
		return Parse(data, path)
	}

	return Default(), nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte, source string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &Error{Source: source, Err: err}
	}
	cfg.Source = source
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, err := evaluator.ParseArityPolicy(c.Arity); err != nil {
		return &Error{Source: c.Source, Err: err}
	}
	if c.Budget.TimeMs < 0 || c.Budget.MaxCallDepth < 0 {
		return &Error{Source: c.Source, Err: errors.New("budget values must not be negative")}
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return &Error{Source: c.Source, Err: err}
		}
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return &Error{Source: c.Source, Err: fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)}
	}
	return nil
}

// ArityPolicy returns the configured policy. Config is validated on load, so
// an unparseable value falls back to the default.
func (c *Config) ArityPolicy() evaluator.ArityPolicy {
	p, _ := evaluator.ParseArityPolicy(c.Arity)
	return p
}

// ExecBudget converts the configured limits for the evaluator.
func (c *Config) ExecBudget() evaluator.Budget {
	var b evaluator.Budget
	if c.Budget.TimeMs > 0 {
		b.TimeMs = evaluator.Int64(c.Budget.TimeMs)
	}
	if c.Budget.MaxCallDepth > 0 {
		b.MaxCallDepth = evaluator.Int64(c.Budget.MaxCallDepth)
	}
	return b
}

// NativeAllowed reports whether the native name in group should be installed.
func (c *Config) NativeAllowed(group, name string) bool {
	for _, d := range c.Natives.Deny {
		if d == group || d == name || d == "*" {
			return false
		}
	}
	for _, a := range c.Natives.Allow {
		if a == group || a == name || a == "*" {
			return true
		}
	}
	return false
}

// LogLevel returns the logrus level, defaulting to info.
func (c *Config) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

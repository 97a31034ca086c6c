// Package config loads docschema settings from a .docschema.yaml file and
// DOCSCHEMA_* environment variables.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/docscan"
	"github.com/erraggy/docschema/validator"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".docschema.yaml"

// Config holds the settings shared by the CLI and the MCP server.
type Config struct {
	// RelaxedStringValidation accepts less specific actual types with a message.
	RelaxedStringValidation bool `yaml:"relaxedStringValidation"`
	// TreatWarningsAsErrors makes warnings fail validation.
	TreatWarningsAsErrors bool `yaml:"treatWarningsAsErrors"`
	// NoWarnings drops warnings from results.
	NoWarnings bool `yaml:"noWarnings"`
	// MaxDepth limits payload nesting; 0 keeps the validator default.
	MaxDepth int `yaml:"maxDepth"`
	// IgnorableProperties replaces the default ignorable annotations when set.
	IgnorableProperties []string `yaml:"ignorableProperties"`
	// Concurrency limits files scanned and blocks validated at once; 0 keeps
	// the scanner default.
	Concurrency int `yaml:"concurrency"`
	// MaxFileSize limits the size of a scanned file; 0 keeps the default.
	MaxFileSize int64 `yaml:"maxFileSize"`
	// Format is the default CLI output format: text, json or yaml.
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{Format: "text"}
}

// Load reads path, or FileName in the working directory when path is empty,
// then applies environment overrides. A missing default file is not an
// error; a missing explicit path is.
func Load(path string) (*Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path) //nolint:gosec // configuration path is provided by the user
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, &docerrors.ConfigError{Option: "file", Value: path, Message: "invalid YAML", Cause: err}
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, &docerrors.ConfigError{Option: "file", Value: path, Message: "cannot read configuration", Cause: err}
	}

	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides settings from DOCSCHEMA_* environment variables.
// Invalid values log a warning and leave the setting unchanged.
func (c *Config) ApplyEnv() {
	c.RelaxedStringValidation = EnvBool("DOCSCHEMA_RELAXED", c.RelaxedStringValidation)
	c.TreatWarningsAsErrors = EnvBool("DOCSCHEMA_STRICT", c.TreatWarningsAsErrors)
	c.NoWarnings = EnvBool("DOCSCHEMA_NO_WARNINGS", c.NoWarnings)
	c.MaxDepth = EnvInt("DOCSCHEMA_MAX_DEPTH", c.MaxDepth)
	c.Concurrency = EnvInt("DOCSCHEMA_CONCURRENCY", c.Concurrency)
	if v := os.Getenv("DOCSCHEMA_IGNORABLE"); v != "" {
		c.IgnorableProperties = splitList(v)
	}
	if v := os.Getenv("DOCSCHEMA_FORMAT"); v != "" {
		c.Format = v
	}
}

// Validate reports settings no component would accept.
func (c *Config) Validate() error {
	switch c.Format {
	case "", "text", "json", "yaml":
	default:
		return &docerrors.ConfigError{Option: "format", Value: c.Format, Message: "must be text, json or yaml"}
	}
	if c.MaxDepth < 0 {
		return &docerrors.ConfigError{Option: "maxDepth", Value: c.MaxDepth, Message: "must not be negative"}
	}
	if c.Concurrency < 0 {
		return &docerrors.ConfigError{Option: "concurrency", Value: c.Concurrency, Message: "must not be negative"}
	}
	if c.MaxFileSize < 0 {
		return &docerrors.ConfigError{Option: "maxFileSize", Value: c.MaxFileSize, Message: "must not be negative"}
	}
	return nil
}

// ValidatorOptions converts the settings into validator options.
func (c *Config) ValidatorOptions() []validator.Option {
	opts := []validator.Option{
		validator.WithRelaxedStringValidation(c.RelaxedStringValidation),
		validator.WithTreatWarningsAsErrors(c.TreatWarningsAsErrors),
		validator.WithIncludeWarnings(!c.NoWarnings),
	}
	if c.MaxDepth > 0 {
		opts = append(opts, validator.WithMaxDepth(c.MaxDepth))
	}
	if c.IgnorableProperties != nil {
		opts = append(opts, validator.WithIgnorableProperties(c.IgnorableProperties...))
	}
	return opts
}

// ScannerOptions converts the settings into scanner options.
func (c *Config) ScannerOptions() []docscan.Option {
	var opts []docscan.Option
	if c.Concurrency > 0 {
		opts = append(opts, docscan.WithConcurrency(c.Concurrency))
	}
	if c.MaxFileSize > 0 {
		opts = append(opts, docscan.WithMaxFileSize(c.MaxFileSize))
	}
	return opts
}

// EnvBool reads a boolean environment variable. Unset or invalid values
// return fallback; invalid values also log a warning.
func EnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

// EnvInt reads a positive integer environment variable, like EnvBool.
func EnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// EnvDuration reads a positive duration environment variable, like EnvBool.
func EnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Package config loads the TOML configuration used by the ocrkit CLI.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/wudi/ocrkit/langdata"
)

//go:embed sample_config.toml
var sampleConfig string

// Engine contains recognition engine settings.
type Engine struct {
	Language    string            `toml:"language"`
	DataDir     string            `toml:"data_dir"`
	PageSegMode int               `toml:"page_seg_mode"`
	Whitelist   string            `toml:"whitelist"`
	Variables   map[string]string `toml:"variables"`
}

// Preprocess contains image preparation settings applied before recognition.
type Preprocess struct {
	Binarize  bool    `toml:"binarize"`
	Threshold float64 `toml:"threshold"`
}

// Download contains traineddata download settings.
type Download struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for the CLI.
type Config struct {
	Engine     Engine     `toml:"engine"`
	Preprocess Preprocess `toml:"preprocess"`
	Download   Download   `toml:"download"`
	Logging    Logging    `toml:"logging"`
}

const (
	defaultLanguage       = "eng"
	defaultPageSegMode    = -1 // unset, engine default
	defaultThreshold      = 128.0
	defaultTimeoutSeconds = 300
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Engine: Engine{
			Language:    defaultLanguage,
			PageSegMode: defaultPageSegMode,
		},
		Preprocess: Preprocess{
			Threshold: defaultThreshold,
		},
		Download: Download{
			BaseURL:        langdata.DefaultBaseURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Sample returns the embedded sample configuration file.
func Sample() string { return sampleConfig }

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	return expandPath("~/.config/ocrkit/config.toml")
}

// Load parses the configuration at path. An empty path falls back to
// DefaultPath and yields plain defaults when no file exists there; an explicit
// path must exist. The returned string is the file actually read, empty when
// defaults were used.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolved, required, err := resolvePath(path)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		dec := toml.NewDecoder(file)
		if err := dec.Decode(&cfg); err != nil {
			return nil, "", fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		resolved = ""
	default:
		return nil, "", fmt.Errorf("open config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

func resolvePath(path string) (resolved string, required bool, err error) {
	if path != "" {
		resolved, err = expandPath(path)
		return resolved, true, err
	}
	resolved, err = DefaultPath()
	return resolved, false, err
}

func (c *Config) normalize() error {
	if c.Engine.DataDir != "" {
		expanded, err := expandPath(c.Engine.DataDir)
		if err != nil {
			return err
		}
		c.Engine.DataDir = expanded
	}
	c.Download.BaseURL = strings.TrimRight(c.Download.BaseURL, "/")
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, err := langdata.Normalize(c.Engine.Language); err != nil {
		return fmt.Errorf("engine.language: %w", err)
	}
	if c.Engine.PageSegMode < -1 || c.Engine.PageSegMode > 13 {
		return errors.New("engine.page_seg_mode must be between 0 and 13")
	}
	if c.Preprocess.Threshold < 0 || c.Preprocess.Threshold > 255 {
		return errors.New("preprocess.threshold must be between 0 and 255")
	}
	if c.Download.BaseURL == "" {
		return errors.New("download.base_url must be set")
	}
	if c.Download.TimeoutSeconds <= 0 {
		return errors.New("download.timeout_seconds must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	return nil
}

// SlogLevel maps the configured level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return filepath.Abs(path)
}

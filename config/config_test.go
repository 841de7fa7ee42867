package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/wudi/ocrkit/config"
	"github.com/wudi/ocrkit/langdata"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, resolved, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != "" {
		t.Errorf("resolved = %q, want empty for pure defaults", resolved)
	}
	if cfg.Engine.Language != "eng" {
		t.Errorf("language = %q, want eng", cfg.Engine.Language)
	}
	if cfg.Engine.PageSegMode != -1 {
		t.Errorf("page_seg_mode = %d, want -1", cfg.Engine.PageSegMode)
	}
	if cfg.Preprocess.Threshold != 128 {
		t.Errorf("threshold = %v, want 128", cfg.Preprocess.Threshold)
	}
	if cfg.Download.BaseURL != langdata.DefaultBaseURL {
		t.Errorf("base_url = %q", cfg.Download.BaseURL)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[engine]
language = "fr"
data_dir = "` + dir + `"

[engine.variables]
user_defined_dpi = "300"

[preprocess]
binarize = true
threshold = 100.0

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Engine.Language != "fr" {
		t.Errorf("language = %q", cfg.Engine.Language)
	}
	if cfg.Engine.Variables["user_defined_dpi"] != "300" {
		t.Errorf("variables = %v", cfg.Engine.Variables)
	}
	if !cfg.Preprocess.Binarize || cfg.Preprocess.Threshold != 100 {
		t.Errorf("preprocess = %+v", cfg.Preprocess)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want lowercased debug", cfg.Logging.Level)
	}
	// Unset sections keep their defaults.
	if cfg.Download.TimeoutSeconds != 300 {
		t.Errorf("timeout = %d, want default 300", cfg.Download.TimeoutSeconds)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, _, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected an error for an explicit missing path")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad language", func(c *config.Config) { c.Engine.Language = "notalang" }, "engine.language"},
		{"bad psm", func(c *config.Config) { c.Engine.PageSegMode = 14 }, "page_seg_mode"},
		{"bad threshold", func(c *config.Config) { c.Preprocess.Threshold = 300 }, "threshold"},
		{"no base url", func(c *config.Config) { c.Download.BaseURL = "" }, "base_url"},
		{"zero timeout", func(c *config.Config) { c.Download.TimeoutSeconds = 0 }, "timeout_seconds"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestSampleParses(t *testing.T) {
	cfg := config.Default()
	if err := toml.Unmarshal([]byte(config.Sample()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config does not validate: %v", err)
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for level, want := range cases {
		cfg := config.Default()
		cfg.Logging.Level = level
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", level, got, want)
		}
	}
}

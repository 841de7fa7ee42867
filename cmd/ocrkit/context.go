package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/wudi/ocrkit/config"
	"github.com/wudi/ocrkit/langdata"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/preprocess"
)

type commandContext struct {
	configFlag   *string
	langFlag     *string
	dataDirFlag  *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, langFlag, dataDirFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		langFlag:     langFlag,
		dataDirFlag:  dataDirFlag,
		logLevelFlag: logLevelFlag,
	}
}

// ensureConfig loads the configuration once and layers command-line overrides
// on top.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}

		if v := flagValue(c.langFlag); v != "" {
			cfg.Engine.Language = v
		}
		if v := flagValue(c.dataDirFlag); v != "" {
			cfg.Engine.DataDir = v
		}
		if v := flagValue(c.logLevelFlag); v != "" {
			cfg.Logging.Level = strings.ToLower(v)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func flagValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// logger builds a slog logger per the configured format and level, writing to
// stderr so recognition output on stdout stays clean.
func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler), nil
}

// dataDir resolves the traineddata directory, falling back to the langdata
// default when unconfigured.
func (c *commandContext) dataDir() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.Engine.DataDir != "" {
		return cfg.Engine.DataDir, nil
	}
	return langdata.DefaultDir(), nil
}

// newService assembles an ocr.Service from the effective configuration and
// any extra options. The registered default provider backs it.
func (c *commandContext) newService(extra ...ocr.ServiceOption) (*ocr.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}

	lang, err := langdata.Normalize(cfg.Engine.Language)
	if err != nil {
		return nil, fmt.Errorf("language %q: %w", cfg.Engine.Language, err)
	}

	opts := []ocr.ServiceOption{
		ocr.WithLanguage(lang),
		ocr.WithLogger(observability.NewSlogLogger(logger)),
	}
	if cfg.Engine.DataDir != "" {
		opts = append(opts, ocr.WithDataDir(cfg.Engine.DataDir))
	}
	if len(cfg.Engine.Variables) > 0 {
		opts = append(opts, ocr.WithVariables(cfg.Engine.Variables))
	}
	if cfg.Engine.PageSegMode >= 0 {
		opts = append(opts, ocr.WithPageSegMode(cfg.Engine.PageSegMode))
	}
	if cfg.Engine.Whitelist != "" {
		opts = append(opts, ocr.WithWhitelist(cfg.Engine.Whitelist))
	}
	opts = append(opts, extra...)
	return ocr.New(nil, opts...), nil
}

// newManager assembles a langdata.Manager for the resolved data directory.
func (c *commandContext) newManager() (*langdata.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	dir, err := c.dataDir()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: time.Duration(cfg.Download.TimeoutSeconds) * time.Second}
	return langdata.NewManager(dir,
		langdata.WithBaseURL(cfg.Download.BaseURL),
		langdata.WithHTTPClient(client),
		langdata.WithLogger(observability.NewSlogLogger(logger)),
	), nil
}

// recognizeOptions translates the preprocessing configuration into per-call
// options.
func (c *commandContext) recognizeOptions(preprocessFlag bool) ([]ocr.RecognizeOption, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var opts []ocr.RecognizeOption
	if preprocessFlag || cfg.Preprocess.Binarize {
		opts = append(opts, ocr.WithPreprocess(preprocess.WithThreshold(cfg.Preprocess.Threshold)))
	}
	return opts, nil
}

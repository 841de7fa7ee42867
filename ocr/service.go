package ocr

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wudi/ocrkit/engine"
	"github.com/wudi/ocrkit/observability"
)

// DefaultLanguage is the language a new Service is configured with.
const DefaultLanguage = "eng"

// Service orchestrates recognition jobs against one engine provider. It owns
// the shared primary handle: a mutex guards its creation, replacement and
// teardown, and serializes every recognition that runs on it, so the handle
// never serves two calls at once. Construct services explicitly with New and
// release them with Close; there is no ambient instance.
type Service struct {
	provider engine.Provider
	log      observability.Logger
	tracer   observability.Tracer

	dataDir   string
	variables map[string]string
	postProc  func(context.Context, *engine.Result) error

	flight      singleflight.Group
	disposables atomic.Int64

	mu      sync.Mutex
	lang    string
	primary engine.Handle
	loaded  bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l observability.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTracer attaches a tracer for recognition spans.
func WithTracer(t observability.Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithLanguage sets the initially configured language.
func WithLanguage(lang string) ServiceOption {
	return func(s *Service) {
		if lang != "" {
			s.lang = lang
		}
	}
}

// WithDataDir points the engine at a language-data directory.
func WithDataDir(dir string) ServiceOption {
	return func(s *Service) {
		s.dataDir = dir
	}
}

// WithVariables passes engine-specific knobs to every handle the service
// opens. The map is copied.
func WithVariables(vars map[string]string) ServiceOption {
	return func(s *Service) {
		for k, v := range vars {
			s.setVariable(k, v)
		}
	}
}

// WithPageSegMode sets Tesseract's page segmentation mode.
// See https://tesseract-ocr.github.io/tessdoc/ImproveQuality.html#page-segmentation-method for values.
func WithPageSegMode(mode int) ServiceOption {
	return func(s *Service) {
		s.setVariable("tessedit_pageseg_mode", strconv.Itoa(mode))
	}
}

// WithWhitelist restricts recognition to the provided characters.
func WithWhitelist(chars string) ServiceOption {
	return func(s *Service) {
		s.setVariable("tessedit_char_whitelist", chars)
	}
}

// WithPostProcessor installs a hook that runs over every successful result
// before it is returned. A hook error fails the call as a RecognitionError.
func WithPostProcessor(fn func(context.Context, *engine.Result) error) ServiceOption {
	return func(s *Service) {
		s.postProc = fn
	}
}

func (s *Service) setVariable(k, v string) {
	if s.variables == nil {
		s.variables = make(map[string]string)
	}
	s.variables[k] = v
}

// New constructs a Service around p. A nil p falls back to the registered
// default provider; if none is registered either, every operation fails with
// an InitError rather than panicking.
func New(p engine.Provider, opts ...ServiceOption) *Service {
	if p == nil {
		p = engine.Default()
	}
	s := &Service{
		provider: p,
		log:      observability.NopLogger{},
		tracer:   observability.NopTracer(),
		lang:     DefaultLanguage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Language returns the currently configured language.
func (s *Service) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// Ready reports whether a primary handle is alive.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.primary != nil
}

// EnsureReady makes the primary handle available for lang, initializing the
// engine if needed. An empty lang means the currently configured language.
//
// The call is idempotent: with a live handle already bound to lang it returns
// immediately. Concurrent calls for the same language share one in-flight
// initialization. Switching languages tears the old handle down before the new
// one is constructed. On failure the service resets to uninitialized and
// returns an InitError; the failure is not cached, so the next call retries.
func (s *Service) EnsureReady(ctx context.Context, lang string) error {
	s.mu.Lock()
	if lang == "" {
		lang = s.lang
	}
	if s.primary != nil && s.lang == lang {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	ctx, span := s.tracer.StartSpan(ctx, "ocr.ensure_ready")
	defer span.Finish()
	span.SetTag("language", lang)

	_, err, _ := s.flight.Do(lang, func() (interface{}, error) {
		return nil, s.initialize(ctx, lang)
	})
	if err != nil {
		span.SetError(err)
	}
	return err
}

// initialize runs inside the single-flight group. It holds the state mutex for
// the whole teardown/load/construct sequence, which also keeps it out of any
// recognition running on the primary handle.
func (s *Service) initialize(ctx context.Context, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A racing flight for another language may have landed here first.
	if s.primary != nil && s.lang == lang {
		return nil
	}

	start := time.Now()
	s.lang = lang

	if s.primary != nil {
		prev := s.primary
		s.primary = nil
		s.log.Info("tearing down engine handle", observability.String("lang", prev.Language()))
		if err := prev.Close(); err != nil {
			return &InitError{Language: lang, Err: fmt.Errorf("closing previous handle: %w", err)}
		}
	}

	if err := ctx.Err(); err != nil {
		return &InitError{Language: lang, Err: err}
	}

	if s.provider == nil {
		return &InitError{Language: lang, Err: errors.New("no engine provider")}
	}

	if !s.loaded {
		if err := s.provider.Load(ctx); err != nil {
			return &InitError{Language: lang, Err: fmt.Errorf("loading engine module: %w", err)}
		}
		s.loaded = true
	}

	h, err := s.provider.Open(ctx, s.handleConfig(lang, nil))
	if err != nil {
		return &InitError{Language: lang, Err: fmt.Errorf("opening engine handle: %w", err)}
	}
	s.primary = h

	s.log.Info("engine ready",
		observability.String("lang", lang),
		observability.String("provider", s.provider.Name()),
		observability.Duration(observability.MetricInitTime, time.Since(start)))
	return nil
}

// SetLanguage switches the configured language. Unchanged languages are a
// no-op; otherwise the call delegates to EnsureReady, which rebuilds the
// primary handle for the new language.
func (s *Service) SetLanguage(ctx context.Context, lang string) error {
	if lang == "" {
		return errors.New("ocr: language must not be empty")
	}
	s.mu.Lock()
	unchanged := s.lang == lang
	s.mu.Unlock()
	if unchanged {
		return nil
	}
	return s.EnsureReady(ctx, lang)
}

// Close releases the primary handle and resets the service to uninitialized.
// Idempotent. The provider module stays loaded, so a later EnsureReady only
// rebuilds the handle.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.primary == nil {
		return nil
	}
	prev := s.primary
	s.primary = nil
	if err := prev.Close(); err != nil {
		return fmt.Errorf("closing engine handle: %w", err)
	}
	s.log.Info("engine terminated", observability.String("lang", prev.Language()))
	return nil
}

// handleConfig assembles the construction config for a new handle. The
// variable map is copied so handles never share mutable state.
func (s *Service) handleConfig(lang string, progress engine.ProgressFunc) engine.Config {
	cfg := engine.Config{
		Language: lang,
		Progress: progress,
		DataDir:  s.dataDir,
	}
	if len(s.variables) > 0 {
		cfg.Variables = make(map[string]string, len(s.variables))
		for k, v := range s.variables {
			cfg.Variables[k] = v
		}
	}
	return cfg
}

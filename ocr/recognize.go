package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/wudi/ocrkit/engine"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/preprocess"
)

// RecognizeOption configures a single recognition call (and the batch and
// document variants).
type RecognizeOption func(*callConfig)

type callConfig struct {
	progress      engine.ProgressFunc
	batchProgress func(index int, ev engine.Event)
	pageProgress  func(page, total int, ev engine.Event)
	preprocess    bool
	prepOpts      []preprocess.Option
	pageBreak     string
}

func newCallConfig(opts []RecognizeOption) callConfig {
	cfg := callConfig{pageBreak: DefaultPageBreak}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithProgress registers a per-call progress sink. The call then runs on its
// own disposable handle instead of the shared one: a handle carries exactly one
// progress configuration for its lifetime, so isolating the call is what keeps
// its event stream from interleaving with anyone else's.
func WithProgress(fn engine.ProgressFunc) RecognizeOption {
	return func(c *callConfig) {
		c.progress = fn
	}
}

// WithPreprocess binarizes the input before recognition. Options are passed
// through to preprocess.Binarize.
func WithPreprocess(opts ...preprocess.Option) RecognizeOption {
	return func(c *callConfig) {
		c.preprocess = true
		c.prepOpts = opts
	}
}

// WithBatchProgress registers a per-item progress sink for RecognizeBatch.
// Index identifies the input the event belongs to.
func WithBatchProgress(fn func(index int, ev engine.Event)) RecognizeOption {
	return func(c *callConfig) {
		c.batchProgress = fn
	}
}

// WithPageProgress registers a per-page progress sink for RecognizeDocument.
// Pages are numbered from 1.
func WithPageProgress(fn func(page, total int, ev engine.Event)) RecognizeOption {
	return func(c *callConfig) {
		c.pageProgress = fn
	}
}

// WithPageBreak overrides the marker RecognizeDocument joins page texts with.
func WithPageBreak(marker string) RecognizeOption {
	return func(c *callConfig) {
		c.pageBreak = marker
	}
}

// Recognize runs one recognition job. It first ensures the engine is ready for
// the configured language; that initialization time counts toward the result's
// ProcessingTime. Without a progress sink the job runs on the shared primary
// handle, serialized against every other user of it. With WithProgress it runs
// on a disposable handle that is closed on every exit path. Engine failures
// surface as a *RecognitionError wrapping the cause; nothing is retried.
func (s *Service) Recognize(ctx context.Context, src engine.Source, opts ...RecognizeOption) (*engine.Result, error) {
	start := time.Now()
	cfg := newCallConfig(opts)

	ctx, span := s.tracer.StartSpan(ctx, "ocr.recognize")
	defer span.Finish()

	log := s.log.With(
		observability.String("call", uuid.NewString()),
		observability.String("source", src.Describe()))

	if err := s.EnsureReady(ctx, ""); err != nil {
		span.SetError(err)
		return nil, err
	}
	lang := s.Language()
	span.SetTag("language", lang)

	if cfg.preprocess {
		prepped, err := preprocessSource(src, cfg.prepOpts)
		if err != nil {
			werr := &RecognitionError{Language: lang, Err: err}
			span.SetError(werr)
			return nil, werr
		}
		src = prepped
	}

	var res *engine.Result
	var err error
	if cfg.progress == nil {
		log.Debug("recognizing on shared handle", observability.String("lang", lang))
		res, err = s.recognizePrimary(ctx, src)
	} else {
		log.Debug("recognizing on disposable handle", observability.String("lang", lang))
		res, err = s.recognizeDisposable(ctx, lang, src, cfg.progress)
	}
	if err != nil {
		werr := &RecognitionError{Language: lang, Err: err}
		span.SetError(werr)
		return nil, werr
	}

	if s.postProc != nil {
		if perr := s.postProc(ctx, res); perr != nil {
			werr := &RecognitionError{Language: lang, Err: fmt.Errorf("post-processing: %w", perr)}
			span.SetError(werr)
			return nil, werr
		}
	}

	res.ProcessingTime = time.Since(start)
	log.Debug("recognition complete",
		observability.Duration(observability.MetricRecognizeTime, res.ProcessingTime),
		observability.Float64(observability.MetricConfidence, res.Confidence),
		observability.Int("words", len(res.Words)))
	return res, nil
}

// recognizePrimary runs src on the shared handle while holding the state
// mutex, which also blocks teardown and language switches for the duration.
func (s *Service) recognizePrimary(ctx context.Context, src engine.Source) (*engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.primary == nil {
		return nil, errors.New("engine not initialized")
	}
	return s.primary.Recognize(ctx, src)
}

// recognizeDisposable opens a one-shot handle carrying the call's progress
// sink, recognizes on it, and closes it no matter how the call ends. It does
// not touch the state mutex, so progress-tracked calls never contend with
// shared-handle users.
func (s *Service) recognizeDisposable(ctx context.Context, lang string, src engine.Source, progress engine.ProgressFunc) (res *engine.Result, err error) {
	h, err := s.provider.Open(ctx, s.handleConfig(lang, progress))
	if err != nil {
		return nil, fmt.Errorf("opening disposable handle: %w", err)
	}
	s.log.Debug("disposable handle opened",
		observability.Int64(observability.MetricDisposableCount, s.disposables.Add(1)))
	defer func() {
		if cerr := h.Close(); cerr != nil {
			s.log.Warn("closing disposable handle", observability.Error("error", cerr))
		}
	}()
	return h.Recognize(ctx, src)
}

func preprocessSource(src engine.Source, opts []preprocess.Option) (engine.Source, error) {
	var img image.Image
	switch src.Kind() {
	case engine.SourceImage:
		img = src.Image()
	case engine.SourceBytes:
		decoded, _, err := preprocess.DecodeBytes(src.Bytes())
		if err != nil {
			return engine.Source{}, fmt.Errorf("decoding source for preprocessing: %w", err)
		}
		img = decoded
	case engine.SourcePath:
		decoded, _, err := preprocess.DecodeFile(src.Path())
		if err != nil {
			return engine.Source{}, fmt.Errorf("decoding source for preprocessing: %w", err)
		}
		img = decoded
	}
	if img == nil {
		return engine.Source{}, errors.New("source holds no image")
	}
	return engine.FromImage(preprocess.Binarize(img, opts...)), nil
}

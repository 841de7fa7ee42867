package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wudi/ocrkit/engine"
	"github.com/wudi/ocrkit/observability"
)

// DefaultPageBreak separates page texts in a Document's FullText. Form feed is
// what Tesseract itself emits between pages.
const DefaultPageBreak = "\f"

// Document aggregates the recognition of an ordered list of pages.
type Document struct {
	// Pages holds one result per input page, index-aligned.
	Pages []*engine.Result
	// FullText is the page texts joined with the page-break marker.
	FullText string
	// AvgConfidence is the arithmetic mean of the page confidences.
	AvgConfidence float64
	// TotalTime spans from the first page's start to the last page's
	// completion.
	TotalTime time.Duration
}

// RecognizeBatch recognizes srcs strictly in order, one at a time: a single
// engine handle cannot safely serve two simultaneous recognitions. On success
// the result slice has the same length as srcs and results[i] corresponds to
// srcs[i]. The first failing item aborts the whole batch with its error;
// results already produced are discarded, never returned partially.
//
// With WithBatchProgress each item runs on its own disposable handle and its
// events are forwarded tagged with the item index.
func (s *Service) RecognizeBatch(ctx context.Context, srcs []engine.Source, opts ...RecognizeOption) ([]*engine.Result, error) {
	cfg := newCallConfig(opts)

	ctx, span := s.tracer.StartSpan(ctx, "ocr.batch")
	defer span.Finish()
	span.SetTag("size", len(srcs))
	s.log.Debug("batch recognition", observability.Int(observability.MetricBatchSize, len(srcs)))

	results := make([]*engine.Result, 0, len(srcs))
	for i, src := range srcs {
		select {
		case <-ctx.Done():
			span.SetError(ctx.Err())
			return nil, ctx.Err()
		default:
		}

		itemOpts := perItemOptions(cfg)
		if cfg.batchProgress != nil {
			index := i
			itemOpts = append(itemOpts, WithProgress(func(ev engine.Event) {
				cfg.batchProgress(index, ev)
			}))
		}
		res, err := s.Recognize(ctx, src, itemOpts...)
		if err != nil {
			err = fmt.Errorf("image %d: %w", i, err)
			span.SetError(err)
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RecognizeDocument recognizes an ordered list of document pages sequentially
// and aggregates them. Progress callbacks receive a 1-based page number and
// the total page count. An empty page list returns ErrNoPages. Like
// RecognizeBatch, the first failing page aborts the whole document.
func (s *Service) RecognizeDocument(ctx context.Context, pages []engine.Source, opts ...RecognizeOption) (*Document, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	cfg := newCallConfig(opts)

	ctx, span := s.tracer.StartSpan(ctx, "ocr.document")
	defer span.Finish()
	span.SetTag("pages", len(pages))
	s.log.Debug("document recognition", observability.Int(observability.MetricDocumentPages, len(pages)))

	start := time.Now()
	results := make([]*engine.Result, 0, len(pages))
	for i, src := range pages {
		select {
		case <-ctx.Done():
			span.SetError(ctx.Err())
			return nil, ctx.Err()
		default:
		}

		pageNum := i + 1
		itemOpts := perItemOptions(cfg)
		if cfg.pageProgress != nil {
			itemOpts = append(itemOpts, WithProgress(func(ev engine.Event) {
				cfg.pageProgress(pageNum, len(pages), ev)
			}))
		}
		res, err := s.Recognize(ctx, src, itemOpts...)
		if err != nil {
			err = fmt.Errorf("page %d: %w", pageNum, err)
			span.SetError(err)
			return nil, err
		}
		results = append(results, res)
	}
	total := time.Since(start)

	texts := make([]string, 0, len(results))
	var confSum float64
	for _, res := range results {
		texts = append(texts, res.Text)
		confSum += res.Confidence
	}

	return &Document{
		Pages:         results,
		FullText:      strings.Join(texts, cfg.pageBreak),
		AvgConfidence: confSum / float64(len(results)),
		TotalTime:     total,
	}, nil
}

// perItemOptions carries the call-level settings of a batch or document call
// down to each per-item Recognize.
func perItemOptions(cfg callConfig) []RecognizeOption {
	var opts []RecognizeOption
	if cfg.preprocess {
		opts = append(opts, WithPreprocess(cfg.prepOpts...))
	}
	return opts
}

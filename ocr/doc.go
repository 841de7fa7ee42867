// Package ocr orchestrates recognition jobs against a pluggable engine
// provider. A Service owns one shared, language-bound engine handle whose
// lifecycle it manages (lazy memoized initialization, language switching,
// teardown) and dispatches single, batch and multi-page document jobs against
// it. The engine itself is a black box behind the engine.Provider contract;
// this package adds the sequencing, progress reporting and aggregation that
// callers need and nothing else: results are not persisted and failures are
// surfaced with their cause, never retried or degraded to partial output.
package ocr

// Package engine defines the contract between the OCR orchestration layer and
// pluggable recognition engines (for example, Tesseract via gosseract). A
// Provider knows how to load the underlying engine once and to open Handles,
// each bound to a single language for its whole lifetime. The interfaces are
// intentionally small and transport-agnostic so providers can be backed by
// native libraries, local binaries, or remote services without leaking
// provider-specific concerns into callers.
package engine

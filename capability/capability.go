// Package capability probes the host for the prerequisites of running a
// recognition engine. The probe is pure: it reads what the host offers and
// reports, without initializing anything. Callers gate on Report.Supported
// before constructing an orchestration service and skip recognition entirely
// when it is false.
package capability

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/wudi/ocrkit/engine"
)

// ErrUnsupported indicates the host cannot run the recognition engine.
var ErrUnsupported = errors.New("environment cannot run the recognition engine")

// Versioner is implemented by providers that can report the native engine
// version.
type Versioner interface {
	Version() string
}

// LanguageLister is implemented by providers that can list the language packs
// installed on the host.
type LanguageLister interface {
	Languages() ([]string, error)
}

// Report describes what the host offers.
type Report struct {
	Engine        string   // provider name, "" when none is registered
	EngineVersion string   // native engine version, "" when unknown
	EngineErr     error    // why the engine cannot run, nil when it can
	Languages     []string // installed language packs, nil when unknown
	OS            string
	Arch          string
	NumCPU        int
}

// Detect probes p and the host. A nil p reports an absent engine rather than
// panicking, so callers can pass engine.Default() unconditionally.
func Detect(p engine.Provider) Report {
	r := Report{
		OS:     runtime.GOOS,
		Arch:   runtime.GOARCH,
		NumCPU: runtime.NumCPU(),
	}
	if p == nil {
		r.EngineErr = errors.New("no engine provider registered")
		return r
	}
	r.Engine = p.Name()
	r.EngineErr = p.Check()
	if r.EngineErr != nil {
		return r
	}
	if v, ok := p.(Versioner); ok {
		r.EngineVersion = v.Version()
	}
	if l, ok := p.(LanguageLister); ok {
		if langs, err := l.Languages(); err == nil {
			r.Languages = langs
		}
	}
	return r
}

// Supported reports whether recognition can run on this host.
func (r Report) Supported() bool {
	return r.Engine != "" && r.EngineErr == nil
}

// Err returns nil when the host is supported, otherwise an error wrapping
// ErrUnsupported and the underlying cause.
func (r Report) Err() error {
	switch {
	case r.Engine == "" && r.EngineErr != nil:
		return fmt.Errorf("%w: %w", ErrUnsupported, r.EngineErr)
	case r.Engine == "":
		return fmt.Errorf("%w: no engine provider registered", ErrUnsupported)
	case r.EngineErr != nil:
		return fmt.Errorf("%w: engine %s: %w", ErrUnsupported, r.Engine, r.EngineErr)
	}
	return nil
}

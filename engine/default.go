package engine

var defaultProvider Provider

// Default returns the process-wide default provider, or nil when none is
// registered. Importing a provider package (e.g. engine/tesseract) registers
// one as a side effect.
func Default() Provider {
	return defaultProvider
}

// SetDefault sets the process-wide default provider. Intended for provider
// package init functions and test setup; it is not synchronized.
func SetDefault(p Provider) {
	defaultProvider = p
}

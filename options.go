package linre

import "github.com/coregx/linre/meta"

// Options control how a pattern is compiled.
type Options struct {
	// CaseSensitive distinguishes upper and lower case. When false the
	// pattern behaves as if it started with (?i).
	CaseSensitive bool

	// Engine tunes the underlying engine. Its CaseInsensitive field is
	// ignored in favor of CaseSensitive.
	Engine meta.Config
}

// DefaultOptions returns case-sensitive options with the default engine
// configuration.
func DefaultOptions() Options {
	return Options{
		CaseSensitive: true,
		Engine:        meta.DefaultConfig(),
	}
}

// CaseInsensitiveOptions returns DefaultOptions with case folding enabled.
func CaseInsensitiveOptions() Options {
	opts := DefaultOptions()
	opts.CaseSensitive = false
	return opts
}

// Config returns the engine configuration these options compile with.
func (o Options) Config() meta.Config {
	c := o.Engine
	c.CaseInsensitive = !o.CaseSensitive
	return c
}

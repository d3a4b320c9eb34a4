package lazy

import "fmt"

// ErrCacheFull is returned when the per-search cache cannot hold another
// state. The cache has been cleared by the time the error is returned.
var ErrCacheFull = &DFAError{
	Kind:    CacheFull,
	Message: "DFA state cache is full",
}

// ErrStateLimitExceeded is returned when a DFA state would contain more NFA
// states than Config.DeterminizationLimit.
var ErrStateLimitExceeded = &DFAError{
	Kind:    StateLimitExceeded,
	Message: "DFA state limit exceeded",
}

// ErrInvalidConfig is the kind sentinel for configuration errors.
var ErrInvalidConfig = &DFAError{
	Kind:    InvalidConfig,
	Message: "invalid DFA configuration",
}

// ErrUnsupported is returned by New for programs whose assertions the DFA
// cannot resolve, such as word boundaries.
var ErrUnsupported = &DFAError{
	Kind:    Unsupported,
	Message: "program not supported by the lazy DFA",
}

// ErrorKind classifies DFA errors
type ErrorKind uint8

const (
	// CacheFull means the cache reached Config.MaxStates
	CacheFull ErrorKind = iota

	// StateLimitExceeded means a state exceeded Config.DeterminizationLimit
	StateLimitExceeded

	// InvalidConfig means the configuration failed validation
	InvalidConfig

	// Unsupported means the program uses assertions the DFA does not handle
	Unsupported
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case CacheFull:
		return "CacheFull"
	case StateLimitExceeded:
		return "StateLimitExceeded"
	case InvalidConfig:
		return "InvalidConfig"
	case Unsupported:
		return "Unsupported"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// DFAError represents an error from the Lazy DFA
type DFAError struct {
	Kind    ErrorKind
	Message string
	Cause   error // Optional underlying error
}

// Error implements the error interface
func (e *DFAError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DFAError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *DFAError of the same kind, so
// errors.Is(err, ErrCacheFull) works for any cache-full error.
func (e *DFAError) Is(target error) bool {
	t, ok := target.(*DFAError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

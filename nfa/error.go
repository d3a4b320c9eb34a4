// Package nfa provides a Thompson NFA (Non-deterministic Finite Automaton)
// implementation for regex matching.
//
// This package implements the core Thompson NFA algorithm along with a PikeVM
// execution engine. The NFA is compiled from a syntax.Tree; literals and
// classes become UTF-8 byte automata, so the matchers work on raw bytes.
package nfa

import (
	"errors"
	"fmt"

	"github.com/coregx/linre/syntax"
)

// Common NFA errors
var (
	// ErrTooComplex indicates the pattern exceeds the state or recursion limits
	ErrTooComplex = errors.New("pattern too complex")

	// ErrInvalidConfig indicates invalid configuration was provided
	ErrInvalidConfig = errors.New("invalid NFA configuration")
)

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("NFA compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Code classifies the failure: the parser's code for syntax errors,
// ErrorPatternTooLarge for limit violations and ErrorInternal otherwise.
func (e *CompileError) Code() syntax.ErrorCode {
	var serr *syntax.Error
	switch {
	case errors.As(e.Err, &serr):
		return serr.Code
	case errors.Is(e.Err, ErrTooComplex):
		return syntax.ErrorPatternTooLarge
	}
	return syntax.ErrorInternal
}

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}

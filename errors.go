package linre

import (
	"errors"

	"github.com/coregx/linre/nfa"
	"github.com/coregx/linre/syntax"
)

// Code classifies a rejected pattern. Values are RE2's error codes;
// NoError (0) means the pattern is valid. ErrorCode returns it as an int.
type Code = syntax.ErrorCode

// Error codes, numbered as in RE2.
const (
	NoError                = syntax.NoError
	ErrorInternal          = syntax.ErrorInternal
	ErrorBadEscape         = syntax.ErrorBadEscape
	ErrorBadCharClass      = syntax.ErrorBadCharClass
	ErrorBadCharRange      = syntax.ErrorBadCharRange
	ErrorMissingBracket    = syntax.ErrorMissingBracket
	ErrorMissingParen      = syntax.ErrorMissingParen
	ErrorUnexpectedParen   = syntax.ErrorUnexpectedParen
	ErrorTrailingBackslash = syntax.ErrorTrailingBackslash
	ErrorRepeatArgument    = syntax.ErrorRepeatArgument
	ErrorRepeatSize        = syntax.ErrorRepeatSize
	ErrorRepeatOp          = syntax.ErrorRepeatOp
	ErrorBadPerlOp         = syntax.ErrorBadPerlOp
	ErrorBadUTF8           = syntax.ErrorBadUTF8
	ErrorBadNamedCapture   = syntax.ErrorBadNamedCapture
	ErrorPatternTooLarge   = syntax.ErrorPatternTooLarge
)

// Classify maps an error returned by this module to its Code. It is
// total: nil is NoError, and errors that carry no code (configuration
// errors, foreign errors) are ErrorInternal.
func Classify(err error) Code {
	if err == nil {
		return NoError
	}
	var cerr *nfa.CompileError
	if errors.As(err, &cerr) {
		return cerr.Code()
	}
	var serr *syntax.Error
	if errors.As(err, &serr) {
		return serr.Code
	}
	return ErrorInternal
}

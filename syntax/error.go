package syntax

import (
	"fmt"
	"strconv"
)

// ErrorCode classifies why a pattern was rejected.
//
// The numeric values are stable and identical to RE2's RE2::ErrorCode so
// callers that persisted or compared codes from the original engine keep
// working. NoError (0) means the pattern is valid.
type ErrorCode int

const (
	// NoError means the pattern parsed and compiled.
	NoError ErrorCode = iota

	// ErrorInternal is an unexpected engine failure.
	ErrorInternal

	// ErrorBadEscape is an unknown or malformed escape sequence.
	ErrorBadEscape

	// ErrorBadCharClass is a malformed class escape such as `\p{L`.
	ErrorBadCharClass

	// ErrorBadCharRange is a reversed range or an unknown class name.
	ErrorBadCharRange

	// ErrorMissingBracket is a `[` without its closing `]`.
	ErrorMissingBracket

	// ErrorMissingParen is a `(` without its closing `)`, or a malformed
	// flag group.
	ErrorMissingParen

	// ErrorUnexpectedParen is a `)` without an opening `(`.
	ErrorUnexpectedParen

	// ErrorTrailingBackslash is a `\` at the end of the pattern.
	ErrorTrailingBackslash

	// ErrorRepeatArgument is a repetition operator with nothing to repeat.
	ErrorRepeatArgument

	// ErrorRepeatSize is a counted repetition with invalid bounds.
	ErrorRepeatSize

	// ErrorRepeatOp is a repetition operator applied to another repetition.
	ErrorRepeatOp

	// ErrorBadPerlOp is an unsupported Perl construct such as look-around.
	ErrorBadPerlOp

	// ErrorBadUTF8 is invalid UTF-8 in the pattern.
	ErrorBadUTF8

	// ErrorBadNamedCapture is an invalid or duplicate group name.
	ErrorBadNamedCapture

	// ErrorPatternTooLarge means the pattern exceeds the program size or
	// nesting limits.
	ErrorPatternTooLarge
)

var codeText = [...]string{
	NoError:                "no error",
	ErrorInternal:          "unexpected error",
	ErrorBadEscape:         "invalid escape sequence",
	ErrorBadCharClass:      "invalid character class",
	ErrorBadCharRange:      "invalid character class range",
	ErrorMissingBracket:    "missing ]",
	ErrorMissingParen:      "missing )",
	ErrorUnexpectedParen:   "unexpected )",
	ErrorTrailingBackslash: "trailing \\",
	ErrorRepeatArgument:    "no argument for repetition operator",
	ErrorRepeatSize:        "invalid repetition size",
	ErrorRepeatOp:          "bad repetition operator",
	ErrorBadPerlOp:         "invalid perl operator",
	ErrorBadUTF8:           "invalid UTF-8",
	ErrorBadNamedCapture:   "invalid named capture group",
	ErrorPatternTooLarge:   "pattern too large - compile failed",
}

// String returns the human-readable description of the code.
func (c ErrorCode) String() string {
	if c >= 0 && int(c) < len(codeText) {
		return codeText[c]
	}
	return "error code " + strconv.Itoa(int(c))
}

// IsSyntax reports whether the code describes a malformed pattern, as
// opposed to a valid pattern that could not be compiled or an internal
// failure.
func (c ErrorCode) IsSyntax() bool {
	return c >= ErrorBadEscape && c <= ErrorBadNamedCapture
}

// Error describes a rejected pattern.
type Error struct {
	// Code classifies the failure.
	Code ErrorCode

	// Offset is the byte offset in the pattern where the problem was found,
	// or -1 when the failure has no single location.
	Offset int

	// Arg is the offending fragment of the pattern.
	Arg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Arg == "" {
		return "regexp: " + e.Code.String()
	}
	return fmt.Sprintf("regexp: %s: `%s`", e.Code, e.Arg)
}

// Is reports whether target is an *Error with the same code, so callers can
// write errors.Is(err, &syntax.Error{Code: syntax.ErrorMissingParen}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Package linre provides a linear-time regular expression engine for Go.
//
// linre answers one question: does a pattern match somewhere in a text? It
// parses RE2 syntax itself, reports RE2's numeric error codes for invalid
// patterns, and matches in time linear in the text for every pattern:
//   - Exact literal alternations run on an Aho-Corasick automaton
//   - Patterns whose only assertions are \A and \z run on a lazy DFA
//   - Everything else, and DFA overflow, runs on a PikeVM
//
// There is no backtracking engine, so patterns like (a*)*b cannot blow up.
//
// Basic usage:
//
//	// One-shot helpers backed by a shared program cache
//	linre.Validate(`\d+`)                  // true
//	linre.ErrorCode(`(a`)                  // 6 (missing paren)
//	linre.IsMatch(`^abc$`, "ABC", false)   // {ErrorCode: 0, IsMatch: true}
//
//	// Compile once, match many times
//	re, err := linre.Compile(`\d{3}-\d{4}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re.MatchString("call 555-1234") // true
//
// Compiled values are immutable and safe for concurrent use.
package linre

import (
	"github.com/coregx/linre/meta"
)

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := linre.MustCompile(`hello`)
//	if re.Match([]byte("hello world")) {
//	    println("matched!")
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Regexp is an alias for Regex, matching the standard library's type name.
type Regexp = Regex

// Compile compiles a regular expression pattern, case-sensitively.
//
// Syntax is RE2's. Returns an error if the pattern is invalid; Classify
// turns it into a Code.
//
// Example:
//
//	re, err := linre.Compile(`\d{3}-\d{4}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithOptions(pattern, DefaultOptions())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	var emailRegex = linre.MustCompile(`[a-z]+@[a-z]+\.[a-z]+`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("linre: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithOptions compiles a pattern with the given options.
//
// Example:
//
//	re, err := linre.CompileWithOptions("hello", linre.CaseInsensitiveOptions())
//	re.MatchString("HELLO") // true
func CompileWithOptions(pattern string, opts Options) (*Regex, error) {
	return CompileWithConfig(pattern, opts.Config())
}

// CompileWithConfig compiles a pattern with a custom engine configuration.
//
// Example:
//
//	config := linre.DefaultConfig()
//	config.MaxDFAStates = 100000 // Larger cache
//	re, err := linre.CompileWithConfig("(a|b|c)*d", config)
func CompileWithConfig(pattern string, config meta.Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}

	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// QuoteMeta returns a string that escapes all regular expression metacharacters
// inside the argument text; the returned string is a regular expression matching
// the literal text.
//
// Example:
//
//	escaped := linre.QuoteMeta("hello.world")
//	// escaped = "hello\\.world"
//	re := linre.MustCompile(escaped)
//	re.MatchString("hello.world") // true
func QuoteMeta(s string) string {
	// Special characters that need escaping in regex
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

// isSpecial returns true if c is in the special characters string.
func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// Match reports whether the byte slice b contains any match of the pattern.
//
// Example:
//
//	re := linre.MustCompile(`\d+`)
//	if re.Match([]byte("hello 123")) {
//	    println("contains digits")
//	}
func (r *Regex) Match(b []byte) bool {
	return r.engine.IsMatch(b)
}

// MatchString reports whether the string s contains any match of the pattern.
func (r *Regex) MatchString(s string) bool {
	return r.engine.IsMatchString(s)
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// Strategy returns the execution strategy the engine selected, for
// diagnostics.
func (r *Regex) Strategy() meta.Strategy {
	return r.engine.Strategy()
}

package linre

import (
	"sync"

	"github.com/coregx/linre/cache"
)

// MatchResult is the outcome of IsMatch. ErrorCode is non-zero when the
// pattern was rejected, in which case IsMatch is false.
type MatchResult struct {
	ErrorCode int
	IsMatch   bool
}

// Matcher answers Validate, ErrorCode and IsMatch queries for pattern
// strings, compiling each (pattern, case sensitivity) pair once through a
// program cache. A Matcher is safe for concurrent use.
type Matcher struct {
	cache *cache.Cache
	opts  Options
}

// NewMatcher returns a Matcher backed by c, compiling with DefaultOptions.
func NewMatcher(c *cache.Cache) *Matcher {
	return NewMatcherWithOptions(c, DefaultOptions())
}

// NewMatcherWithOptions returns a Matcher backed by c whose engines use
// opts.Engine. Case sensitivity is chosen per IsMatch call.
func NewMatcherWithOptions(c *cache.Cache, opts Options) *Matcher {
	return &Matcher{cache: c, opts: opts}
}

// Cache returns the program cache behind m.
func (m *Matcher) Cache() *cache.Cache {
	return m.cache
}

// Validate reports whether pattern compiles.
func (m *Matcher) Validate(pattern string) bool {
	return m.ErrorCode(pattern) == int(NoError)
}

// ErrorCode returns the RE2 error code of pattern compiled case-sensitively,
// or 0 when it compiles.
func (m *Matcher) ErrorCode(pattern string) int {
	opts := m.opts
	opts.CaseSensitive = true
	_, err := m.cache.GetOrCompile(pattern, opts.Config())
	return int(Classify(err))
}

// IsMatch reports whether pattern matches somewhere in text. An invalid
// pattern yields its error code and IsMatch false.
func (m *Matcher) IsMatch(pattern, text string, caseSensitive bool) MatchResult {
	opts := m.opts
	opts.CaseSensitive = caseSensitive
	engine, err := m.cache.GetOrCompile(pattern, opts.Config())
	if err != nil {
		return MatchResult{ErrorCode: int(Classify(err))}
	}
	return MatchResult{IsMatch: engine.IsMatchString(text)}
}

var defaultMatcher = sync.OnceValue(func() *Matcher {
	c, err := cache.New(cache.DefaultConfig())
	if err != nil {
		panic("linre: default cache: " + err.Error())
	}
	return NewMatcher(c)
})

// Validate reports whether pattern is a valid regular expression.
//
// Example:
//
//	linre.Validate(`a+b`) // true
//	linre.Validate(`a(b`) // false
func Validate(pattern string) bool {
	return defaultMatcher().Validate(pattern)
}

// ErrorCode returns the RE2 error code for pattern: 0 when it is valid,
// otherwise one of the Error* constants.
//
// Example:
//
//	linre.ErrorCode(`a\`) // 8 (ErrorTrailingBackslash)
func ErrorCode(pattern string) int {
	return defaultMatcher().ErrorCode(pattern)
}

// IsMatch reports whether pattern matches anywhere in text. Matching is a
// partial match: the pattern must anchor itself with ^ or $ to constrain
// where the match lies.
//
// Example:
//
//	linre.IsMatch(`bc`, "abcd", true)   // {0, true}
//	linre.IsMatch(`ABC`, "abc", false)  // {0, true}
//	linre.IsMatch(`(a`, "a", true)      // {6, false}
func IsMatch(pattern, text string, caseSensitive bool) MatchResult {
	return defaultMatcher().IsMatch(pattern, text, caseSensitive)
}

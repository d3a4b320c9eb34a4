package linre

import (
	"math"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wasilibs/go-re2"

	"github.com/coregx/linre/cache"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	c, err := cache.New(cache.DefaultConfig())
	require.NoError(t, err)
	return NewMatcher(c)
}

func TestIsMatch(t *testing.T) {
	tests := []struct {
		name          string
		pattern       string
		text          string
		caseSensitive bool
		want          MatchResult
	}{
		{"anchored", `^abc$`, "abc", true, MatchResult{0, true}},
		{"anchored rejects prefix", `^abc$`, "xabc", true, MatchResult{0, false}},
		{"partial", `bc`, "abcd", true, MatchResult{0, true}},
		{"case sensitive", `ABC`, "abc", true, MatchResult{0, false}},
		{"case insensitive", `ABC`, "abc", false, MatchResult{0, true}},
		{"empty pattern", ``, "", true, MatchResult{0, true}},
		{"empty pattern any text", ``, "xyz", true, MatchResult{0, true}},
		{"digits", `\d{3}-\d{4}`, "call 555-1234", true, MatchResult{0, true}},
		{"word boundary", `\bcat\b`, "concat", true, MatchResult{0, false}},
		{"multiline", `(?m)^b$`, "a\nb\nc", true, MatchResult{0, true}},
		{"literal set", `foo|bar|baz`, "xxbazxx", true, MatchResult{0, true}},
		{"literal set folded", `foo|bar`, "FOO", false, MatchResult{0, true}},
		{"inline case sensitive", `(?-i)ABC`, "abc", false, MatchResult{0, false}},
		{"inline case sensitive matches", `(?-i)ABC`, "ABC", false, MatchResult{0, true}},
		{"inline case sensitive group", `a(?-i:B)c`, "AbC", false, MatchResult{0, false}},
		{"inline case sensitive group matches", `a(?-i:B)c`, "ABC", false, MatchResult{0, true}},
		{"missing paren", `(a`, "a", true, MatchResult{6, false}},
		{"missing paren folded", `(a`, "a", false, MatchResult{6, false}},
		{"trailing backslash", `a\`, "a", true, MatchResult{8, false}},
	}

	m := newTestMatcher(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.IsMatch(tt.pattern, tt.text, tt.caseSensitive))
			assert.Equal(t, tt.want, IsMatch(tt.pattern, tt.text, tt.caseSensitive))
		})
	}
}

func TestValidateAndErrorCode(t *testing.T) {
	tests := []struct {
		pattern string
		want    Code
	}{
		{`abc`, NoError},
		{`a+b*c?`, NoError},
		{`(?i)straße`, NoError},
		{`[[:alpha:]]`, NoError},
		{`\pL`, NoError},
		{`(?P<name>x)`, NoError},
		{`\z`, NoError},
		{`\1`, ErrorBadEscape},
		{`\p{L`, ErrorBadCharClass},
		{`[z-a]`, ErrorBadCharRange},
		{`[a`, ErrorMissingBracket},
		{`(a`, ErrorMissingParen},
		{`a)`, ErrorUnexpectedParen},
		{`a\`, ErrorTrailingBackslash},
		{`*a`, ErrorRepeatArgument},
		{`a{2,1}`, ErrorRepeatSize},
		{`a**`, ErrorRepeatOp},
		{`(?=a)`, ErrorBadPerlOp},
		{"\xff", ErrorBadUTF8},
		{`(?P<n>a)(?P<n>b)`, ErrorBadNamedCapture},
		{`((a{100}){100}){100}`, ErrorRepeatSize},
		{`(a{30}){40}`, ErrorRepeatSize},
		{`(\pL|\pN|\pS|\pP|\pM){1000}`, ErrorPatternTooLarge},
		{`a{01}`, NoError},
		{`a{1000000000}`, NoError},
		{`a{100000000}`, ErrorRepeatSize},
		{`(?=`, ErrorMissingParen},
	}

	m := newTestMatcher(t)
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, int(tt.want), ErrorCode(tt.pattern))
			assert.Equal(t, int(tt.want), m.ErrorCode(tt.pattern))
			assert.Equal(t, tt.want == NoError, Validate(tt.pattern))
			assert.Equal(t, tt.want == NoError, m.Validate(tt.pattern))
		})
	}
}

// TestInvalidPatternsAgree checks that the three entry points tell the same
// story about a rejected pattern.
func TestInvalidPatternsAgree(t *testing.T) {
	for _, pattern := range []string{`(a`, `[b`, `x{3,2}`, `+`, `(?z)`, `a)`} {
		code := ErrorCode(pattern)
		assert.NotZero(t, code, pattern)
		assert.False(t, Validate(pattern), pattern)
		for _, cs := range []bool{true, false} {
			res := IsMatch(pattern, "anything", cs)
			assert.Equal(t, code, res.ErrorCode, pattern)
			assert.False(t, res.IsMatch, pattern)
		}
	}
}

func TestIsMatch_Deterministic(t *testing.T) {
	m := newTestMatcher(t)
	first := m.IsMatch(`(a|b)*abb`, "babaabb", true)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.IsMatch(`(a|b)*abb`, "babaabb", true))
		assert.Equal(t, first, IsMatch(`(a|b)*abb`, "babaabb", true))
	}
	assert.True(t, first.IsMatch)
}

func TestMatcher_UsesCache(t *testing.T) {
	m := newTestMatcher(t)

	m.IsMatch("abc", "abc", true)
	m.IsMatch("abc", "xyz", true)
	m.IsMatch("abc", "ABC", false)
	assert.True(t, m.Validate("abc"))

	stats := m.Cache().Stats()
	assert.Equal(t, uint64(2), stats.Misses, "one compile per case sensitivity")
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, 2, m.Cache().Len())
}

func TestMatcherWithOptions(t *testing.T) {
	c, err := cache.New(cache.Config{Policy: cache.PolicyUnbounded})
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Engine.EnableDFA = false
	opts.Engine.EnableLiterals = false
	m := NewMatcherWithOptions(c, opts)

	assert.Equal(t, MatchResult{0, true}, m.IsMatch(`a+b`, "xaab", true))
	assert.Equal(t, MatchResult{0, true}, m.IsMatch(`A+B`, "xaab", false))
	assert.Equal(t, 0, m.ErrorCode(`a+b`))
}

// TestIsMatch_Linear runs patterns that make backtracking engines explode
// and checks that match time grows in proportion to the text. Texts grow
// 16x; quadratic growth would take 256x as long.
func TestIsMatch_Linear(t *testing.T) {
	patterns := []string{`(a*)*b`, `(a|a)*b`, `(a+)+b`, `(a|aa)*c`, `^(\w+\s?)*$x`}

	for _, p := range patterns {
		for _, cs := range []bool{true, false} {
			var times []time.Duration
			for n := 1 << 14; n <= 1<<18; n <<= 2 {
				text := strings.Repeat("a", n)
				require.Equal(t, MatchResult{0, false}, IsMatch(p, text, cs), p)

				best := time.Duration(math.MaxInt64)
				for i := 0; i < 3; i++ {
					start := time.Now()
					IsMatch(p, text, cs)
					best = min(best, time.Since(start))
				}
				times = append(times, max(best, time.Microsecond))
			}
			ratio := float64(times[len(times)-1]) / float64(times[0])
			assert.Less(t, ratio, 128.0, "pattern %q caseSensitive %v: times %v", p, cs, times)
		}
	}
}

func TestIsMatch_Concurrent(t *testing.T) {
	m := newTestMatcher(t)
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				res := m.IsMatch(`(foo|bar)\d+`, "xx bar42", g%2 == 0)
				if !res.IsMatch || res.ErrorCode != 0 {
					t.Errorf("IsMatch = %+v", res)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 2, m.Cache().Len())
}

var differentialPatterns = []string{
	`a`, `abc`, `a|b|c`, `(a|ab)(c|bcd)`, `a*b+c?`, `[0-9]{2,4}`,
	`^x`, `x$`, `^$`, `straße`, `[^\x00-\x7f]+`, `(a|b)*abb`,
	`a{3}|b{2}`, `(?s).+`, `.*q$`, `^(foo|)bar`, `(x|^y)z`, `\bab`,
	`ab\B`, `(?m)^b`, `(?m)a$`, `\pL+\d`, `[[:alpha:]]+[[:digit:]]`,
	`\w+@\w+\.com`, `[k]`, `\Aab|cd\z`, `(?U)a+?b`, `[a-f\d]{4}`,
	`foo|bar|baz`, `\p{Greek}+`, `[^a-z]`, `.`, `(?i)ΣΑΣ`,
	`(?-i)Ab|c`, `x(?-i:Y)z`,
}

var differentialTexts = []string{
	"", "a", "b", "abc", "abcd", "aabbcc", "x", "xx", "yz", "xz",
	"123", "12345", "STRASSE", "straße", "STRAẞE", "αβγ", "é", "abababb",
	"aaa", "bb", "foobar", "bar", "\n", "q\n", "a\nb", "ab ab",
	"mail joe@example.com", "K", "\u212a", "xcd", "beef", "BAZ",
	"σας", "ΣΑΣ", "ςας",
}

func TestIsMatch_AgreesWithStdlib(t *testing.T) {
	for _, pattern := range differentialPatterns {
		for _, cs := range []bool{true, false} {
			p := pattern
			if !cs {
				p = "(?i)" + pattern
			}
			std := regexp.MustCompile(p)
			for _, text := range differentialTexts {
				got := IsMatch(pattern, text, cs)
				require.Zero(t, got.ErrorCode, pattern)
				assert.Equal(t, std.MatchString(text), got.IsMatch,
					"pattern %q text %q caseSensitive %v", pattern, text, cs)
			}
		}
	}
}

func TestIsMatch_AgreesWithRE2(t *testing.T) {
	for _, pattern := range differentialPatterns {
		for _, cs := range []bool{true, false} {
			p := pattern
			if !cs {
				p = "(?i)" + pattern
			}
			ref, err := re2.Compile(p)
			require.NoError(t, err, p)
			for _, text := range differentialTexts {
				got := IsMatch(pattern, text, cs)
				assert.Equal(t, ref.MatchString(text), got.IsMatch,
					"pattern %q text %q caseSensitive %v", pattern, text, cs)
			}
		}
	}
}

func TestValidate_AgreesWithRE2(t *testing.T) {
	patterns := []string{
		`abc`, `(a`, `a)`, `[a`, `[z-a]`, `a**`, `a{2,1}`, `a{1001}`,
		`\1`, `(?=x)`, `(?P<n>a)(?P<n>b)`, `\pN`, `\p{Foo}`, `x{2}{3}`,
		`(?i)abc`, `(?i`, `[[:word:]]`, `[[:foo:]]`, `\x{10FFFF}`,
		`(a{30}){40}`, `(a{10}){100}`, `a{01}`, `(?-i)ABC`,
	}
	for _, p := range patterns {
		_, err := re2.Compile(p)
		assert.Equal(t, err == nil, Validate(p), p)
	}
}

package linre

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/linre/meta"
	"github.com/coregx/linre/nfa"
	"github.com/coregx/linre/syntax"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"hello", "hello world", true},
		{"hello", "goodbye", false},
		{`\d+`, "abc 123", true},
		{`^\w+$`, "two words", false},
		{"foo|bar", "xbarx", true},
		{"(?i)HELLO", "hello", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, re.MatchString(tt.input))
			assert.Equal(t, tt.want, re.Match([]byte(tt.input)))
			assert.Equal(t, tt.pattern, re.String())
		})
	}
}

func TestCompile_Error(t *testing.T) {
	re, err := Compile("(a")
	assert.Nil(t, re)
	require.Error(t, err)
	assert.Equal(t, ErrorMissingParen, Classify(err))
}

func TestMustCompile(t *testing.T) {
	assert.NotPanics(t, func() { MustCompile("abc") })
	assert.PanicsWithValue(t, "linre: Compile(`a)`): "+compileErr(t, "a)").Error(), func() {
		MustCompile("a)")
	})
}

func compileErr(t *testing.T, pattern string) error {
	t.Helper()
	_, err := Compile(pattern)
	require.Error(t, err)
	return err
}

func TestCompileWithOptions(t *testing.T) {
	re, err := CompileWithOptions("hello", CaseInsensitiveOptions())
	require.NoError(t, err)
	assert.True(t, re.MatchString("HeLLo"))

	re, err = CompileWithOptions("hello", DefaultOptions())
	require.NoError(t, err)
	assert.False(t, re.MatchString("HeLLo"))

	// Options win over the engine's own flag.
	opts := DefaultOptions()
	opts.Engine.CaseInsensitive = true
	assert.False(t, opts.Config().CaseInsensitive)
}

func TestCompileWithConfig(t *testing.T) {
	config := DefaultConfig()
	config.EnableDFA = false
	config.EnableLiterals = false
	re, err := CompileWithConfig("foo|bar", config)
	require.NoError(t, err)
	assert.Equal(t, meta.UseNFA, re.Strategy())
	assert.True(t, re.MatchString("xbar"))

	re, err = Compile("foo|bar")
	require.NoError(t, err)
	assert.Equal(t, meta.UseLiterals, re.Strategy())

	re, err = Compile(`\d+x`)
	require.NoError(t, err)
	assert.Equal(t, meta.UseDFA, re.Strategy())

	config = DefaultConfig()
	config.MaxRecursionDepth = 1
	_, err = CompileWithConfig("a", config)
	var cfgErr *meta.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, ErrorInternal, Classify(err))
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"hello", "hello"},
		{"hello.world", `hello\.world`},
		{"1+1=2?", `1\+1=2\?`},
		{`a\b`, `a\\b`},
		{"[x]{2}(y)|^$*", `\[x\]\{2\}\(y\)\|\^\$\*`},
		{"日本.語", `日本\.語`},
	}

	for _, tt := range tests {
		got := QuoteMeta(tt.in)
		assert.Equal(t, tt.want, got)

		re, err := Compile(got)
		require.NoError(t, err, got)
		assert.True(t, re.MatchString(tt.in), "QuoteMeta(%q) does not match itself", tt.in)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, NoError, Classify(nil))
	assert.Equal(t, ErrorInternal, Classify(errors.New("boom")))
	assert.Equal(t, ErrorBadEscape, Classify(&syntax.Error{Code: syntax.ErrorBadEscape, Arg: `\y`}))
	assert.Equal(t, ErrorPatternTooLarge, Classify(&nfa.CompileError{Err: nfa.ErrTooComplex}))
	assert.Equal(t, ErrorRepeatOp, Classify(&nfa.CompileError{
		Err: &syntax.Error{Code: syntax.ErrorRepeatOp, Arg: "**"},
	}))

	_, err := Compile(`x{2,1}`)
	assert.Equal(t, ErrorRepeatSize, Classify(err))
	assert.True(t, Classify(err).IsSyntax())
}

func TestErrorCodes_MatchRE2(t *testing.T) {
	want := map[Code]int{
		NoError: 0, ErrorInternal: 1, ErrorBadEscape: 2, ErrorBadCharClass: 3,
		ErrorBadCharRange: 4, ErrorMissingBracket: 5, ErrorMissingParen: 6,
		ErrorUnexpectedParen: 7, ErrorTrailingBackslash: 8, ErrorRepeatArgument: 9,
		ErrorRepeatSize: 10, ErrorRepeatOp: 11, ErrorBadPerlOp: 12, ErrorBadUTF8: 13,
		ErrorBadNamedCapture: 14, ErrorPatternTooLarge: 15,
	}
	for code, n := range want {
		assert.Equal(t, n, int(code), code.String())
	}
}

package nfa

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/linre/syntax"
)

// mustCompile is a test helper that compiles a pattern or fails the test
func mustCompile(t *testing.T, pattern string) *NFA {
	t.Helper()
	compiler := NewDefaultCompiler()
	nfa, err := compiler.Compile(pattern)
	if err != nil {
		t.Fatalf("failed to compile pattern %q: %v", pattern, err)
	}
	return nfa
}

func TestCompile_Anchoring(t *testing.T) {
	tests := []struct {
		pattern  string
		anchored bool
	}{
		{"abc", false},
		{"^abc", true},
		{`\Aabc`, true},
		{"^a|^b", true},
		{"^a|b", false},
		{"(?m)^a", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			nfa := mustCompile(t, tt.pattern)
			if got := nfa.IsAlwaysAnchored(); got != tt.anchored {
				t.Errorf("IsAlwaysAnchored() = %v, want %v", got, tt.anchored)
			}
		})
	}
}

func TestCompile_LookSet(t *testing.T) {
	tests := []struct {
		pattern string
		want    LookSet
	}{
		{"abc", 0},
		{"^abc$", LookSet(0).Insert(LookStartText).Insert(LookEndText)},
		{`(?m)^a$`, LookSet(0).Insert(LookStartLine).Insert(LookEndLine)},
		{`\bfoo\B`, LookSet(0).Insert(LookWordBoundary).Insert(LookNoWordBoundary)},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := mustCompile(t, tt.pattern).LookSet(); got != tt.want {
				t.Errorf("LookSet() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCompile_ParseErrorKeepsCode(t *testing.T) {
	_, err := NewDefaultCompiler().Compile("(a")
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("Compile error = %T, want *CompileError", err)
	}
	if cerr.Code() != syntax.ErrorMissingParen {
		t.Errorf("Code() = %v, want %v", cerr.Code(), syntax.ErrorMissingParen)
	}
	if cerr.Pattern != "(a" {
		t.Errorf("Pattern = %q", cerr.Pattern)
	}
}

func TestCompile_TooLarge(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		config  CompilerConfig
	}{
		{"nested repeat", `((\pL|\pN|\pS|\pP|\pM){10}){100}`, DefaultCompilerConfig()},
		{"repeat of class", `(\pL|\pN|\pS|\pP|\pM){1000}`, DefaultCompilerConfig()},
		{"small state limit", "abcdefghij", CompilerConfig{MaxStates: 5}},
		{"recursion depth", strings.Repeat("a(", 20) + strings.Repeat(")", 20), CompilerConfig{MaxRecursionDepth: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompiler(tt.config).Compile(tt.pattern)
			if err == nil {
				t.Fatal("expected error, got success")
			}
			var cerr *CompileError
			if !errors.As(err, &cerr) {
				t.Fatalf("error = %T, want *CompileError", err)
			}
			if !errors.Is(err, ErrTooComplex) {
				t.Errorf("errors.Is(err, ErrTooComplex) = false: %v", err)
			}
			if cerr.Code() != syntax.ErrorPatternTooLarge {
				t.Errorf("Code() = %v, want PatternTooLarge", cerr.Code())
			}
		})
	}
}

func TestCompile_DeepGroupsAreTransparent(t *testing.T) {
	pattern := strings.Repeat("(", 900) + "a" + strings.Repeat(")", 900)
	nfa := mustCompile(t, pattern)
	if !NewPikeVM(nfa).IsMatch([]byte("xa")) {
		t.Error("deeply grouped literal did not match")
	}
}

func TestCompilerConfig_Validate(t *testing.T) {
	if err := DefaultCompilerConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	bad := CompilerConfig{MaxStates: -1}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
	}
}

func TestCompile_CaseInsensitiveConfig(t *testing.T) {
	nfa, err := NewCompiler(CompilerConfig{CaseInsensitive: true}).Compile("hello")
	if err != nil {
		t.Fatal(err)
	}
	vm := NewPikeVM(nfa)
	for _, h := range []string{"HELLO", "hElLo", "say hello"} {
		if !vm.IsMatch([]byte(h)) {
			t.Errorf("IsMatch(%q) = false, want true", h)
		}
	}
	if vm.IsMatch([]byte("help")) {
		t.Error(`IsMatch("help") = true`)
	}

	// The config only seeds (?i); the pattern may turn it off.
	nfa, err = NewCompiler(CompilerConfig{CaseInsensitive: true}).Compile("a(?-i)bc")
	if err != nil {
		t.Fatal(err)
	}
	vm = NewPikeVM(nfa)
	if !vm.IsMatch([]byte("Abc")) {
		t.Error(`IsMatch("Abc") = false, want true`)
	}
	if vm.IsMatch([]byte("aBC")) {
		t.Error(`IsMatch("aBC") = true, want false`)
	}
}

func TestBuilder_Validate(t *testing.T) {
	b := NewBuilder()
	if _, err := b.Build(); err == nil {
		t.Error("Build() without start succeeded")
	}

	b = NewBuilder()
	id := b.AddByteRange('a', 'a', 42)
	b.SetStarts(id, id)
	if _, err := b.Build(); err == nil {
		t.Error("Build() with dangling transition succeeded")
	}

	b = NewBuilder()
	split := b.AddSplit(InvalidState, InvalidState)
	if err := b.Patch(split, 0); err == nil {
		t.Error("Patch on Split succeeded")
	}
	if err := b.PatchSplit(split, split, split); err != nil {
		t.Errorf("PatchSplit() = %v", err)
	}
}

func TestByteClasses_FromPattern(t *testing.T) {
	nfa := mustCompile(t, "^[a-z]+$")
	bc := nfa.ByteClasses()
	if bc.Get('a') != bc.Get('z') {
		t.Error("'a' and 'z' in different classes")
	}
	if bc.Get('a') == bc.Get('A') {
		t.Error("'a' and 'A' in the same class")
	}
	reps := bc.Representatives()
	if len(reps) != bc.AlphabetLen() {
		t.Errorf("len(Representatives()) = %d, AlphabetLen() = %d", len(reps), bc.AlphabetLen())
	}
	for i, r := range reps {
		if int(bc.Get(r)) != i {
			t.Errorf("representative %#x has class %d, want %d", r, bc.Get(r), i)
		}
	}
}

func TestByteClassSet_Boundaries(t *testing.T) {
	bcs := NewByteClassSet()
	if bc := bcs.ByteClasses(); bc.AlphabetLen() != 1 {
		t.Errorf("empty set AlphabetLen() = %d, want 1", bc.AlphabetLen())
	}

	bcs.SetRange('a', 'z')
	bcs.SetByte('0')
	bc := bcs.ByteClasses()
	// [0x00-'/'] ['0'] ['1'-'`'] ['a'-'z'] ['{'-0xff]
	if bc.AlphabetLen() != 5 {
		t.Errorf("AlphabetLen() = %d, want 5", bc.AlphabetLen())
	}

	all := NewByteClassSet()
	for b := 0; b < 256; b++ {
		all.SetByte(byte(b))
	}
	if bc := all.ByteClasses(); bc.AlphabetLen() != 256 {
		t.Errorf("singleton AlphabetLen() = %d, want 256", bc.AlphabetLen())
	}
}

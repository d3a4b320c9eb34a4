package literal

import (
	"unicode/utf8"

	"github.com/coregx/linre/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the number of literals in the extracted set.
	// Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length in bytes of each extracted literal.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// Character classes like [abc] are expanded to ["a", "b", "c"].
	// Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts literal sets from parsed patterns.
//
// Example:
//
//	tree, _ := syntax.Parse("(hello|world)")
//	seq, ok := literal.New(literal.DefaultConfig()).ExtractExact(tree)
//	// ok = true, seq = ["hello" "world"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractExact returns the set of strings the pattern matches when that set
// is finite and within the configured limits. A string then matches the
// pattern (unanchored) exactly when it contains one of the literals.
//
// Handles these syntax.Op types:
//   - OpLiteral: one literal, or its case folding orbit
//   - OpCharClass: one literal per rune, for small classes
//   - OpConcat: cross product of the parts
//   - OpAlternate: union of the alternatives
//   - OpRepeat: bounded repeats are unrolled
//   - OpGroup and OpEmpty
//
// Anchors, assertions, wildcards and unbounded repeats report false, as
// does a set containing the empty string.
//
// Examples:
//
//	"hello"        → ["hello"]
//	"(foo|bar)"    → ["bar" "foo"]
//	"[ab]c{1,2}"   → ["ac" "acc" "bc" "bcc"]
//	"hello.*world" → not exact
func (e *Extractor) ExtractExact(tree *syntax.Tree) (*Seq, bool) {
	seq, ok := e.extract(tree, tree.Root)
	if !ok || seq.IsEmpty() || seq.ContainsEmpty() {
		return nil, false
	}
	seq.Dedup()
	return seq, true
}

func (e *Extractor) extract(tree *syntax.Tree, id syntax.NodeID) (*Seq, bool) {
	// Groups are walked iteratively so deep nesting does not grow the stack.
	n := tree.Node(id)
	for n.Op == syntax.OpGroup {
		n = tree.Node(n.Subs[0])
	}
	fold := n.Flags&syntax.FoldCase != 0

	switch n.Op {
	case syntax.OpEmpty:
		return NewSeq(NewLiteral(nil)), true

	case syntax.OpLiteral:
		if !utf8.ValidRune(n.Rune) {
			return nil, false
		}
		if fold {
			return e.expandRanges(syntax.FoldRune(n.Rune))
		}
		return NewSeq(NewLiteral(utf8.AppendRune(nil, n.Rune))), true

	case syntax.OpCharClass:
		return e.expandRanges(n.ClassRanges(fold))

	case syntax.OpConcat:
		seq := NewSeq(NewLiteral(nil))
		for _, sub := range n.Subs {
			part, ok := e.extract(tree, sub)
			if !ok || !seq.Concat(part, e.config.MaxLiterals, e.config.MaxLiteralLen) {
				return nil, false
			}
		}
		return seq, true

	case syntax.OpAlternate:
		seq := NewSeq()
		for _, sub := range n.Subs {
			part, ok := e.extract(tree, sub)
			if !ok || !seq.Union(part, e.config.MaxLiterals) {
				return nil, false
			}
		}
		return seq, true

	case syntax.OpRepeat:
		if n.Max < 0 {
			return nil, false
		}
		return e.extractRepeat(tree, n)

	default:
		return nil, false
	}
}

// extractRepeat unrolls x{min,max} into the union of x^k for k in
// [min, max].
func (e *Extractor) extractRepeat(tree *syntax.Tree, n *syntax.Node) (*Seq, bool) {
	sub, ok := e.extract(tree, n.Subs[0])
	if !ok {
		return nil, false
	}

	power := NewSeq(NewLiteral(nil))
	for k := 0; k < n.Min; k++ {
		if !power.Concat(sub, e.config.MaxLiterals, e.config.MaxLiteralLen) {
			return nil, false
		}
	}
	seq := power.Clone()
	for k := n.Min; k < n.Max; k++ {
		if !power.Concat(sub, e.config.MaxLiterals, e.config.MaxLiteralLen) {
			return nil, false
		}
		if !seq.Union(power.Clone(), e.config.MaxLiterals) {
			return nil, false
		}
	}
	return seq, true
}

// expandRanges turns a small rune set into one literal per rune.
// Surrogates never match and are skipped.
func (e *Extractor) expandRanges(ranges []rune) (*Seq, bool) {
	size := 0
	for i := 0; i+1 < len(ranges); i += 2 {
		size += int(ranges[i+1]-ranges[i]) + 1
		if size > e.config.MaxClassSize {
			return nil, false
		}
	}

	lits := make([]Literal, 0, size)
	for i := 0; i+1 < len(ranges); i += 2 {
		for r := ranges[i]; r <= ranges[i+1]; r++ {
			if !utf8.ValidRune(r) {
				continue
			}
			lits = append(lits, NewLiteral(utf8.AppendRune(nil, r)))
		}
	}
	return NewSeq(lits...), true
}

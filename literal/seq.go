// Package literal extracts literal byte sequences from parsed patterns.
//
// The engine uses it for one fast path: when a pattern denotes a small,
// finite set of strings (e.g. /foo|bar|ba[zr]/), matching reduces to
// searching for any of those strings, which a multi-pattern automaton does
// without running the regex program at all.
//
// Key concepts:
//   - A Literal is a concrete byte sequence a match may consist of
//   - A Seq is a set of alternative literals (e.g., from alternations like /foo|bar/)
//   - Concat and Union combine sequences the way concatenation and alternation
//     combine patterns, failing once the configured limits are exceeded
package literal

import (
	"bytes"
	"slices"
	"strings"
)

// Literal is one string of an exact literal set.
//
// Example:
//   - Pattern /hello/ → Literal{[]byte("hello")}
type Literal struct {
	// Bytes contains the actual literal byte sequence.
	Bytes []byte
}

// NewLiteral creates a new Literal from the given byte sequence.
func NewLiteral(b []byte) Literal {
	return Literal{Bytes: b}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes}"
func (l Literal) String() string {
	return "literal{" + string(l.Bytes) + "}"
}

// Seq represents a set of alternative literals.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo")),
//	    literal.NewLiteral([]byte("bar")),
//	)
//	fmt.Printf("Sequence has %d literals\n", seq.Len()) // Output: Sequence has 2 literals
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
//
// An empty sequence matches nothing, while a sequence holding the empty
// literal matches everywhere.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// ContainsEmpty reports whether the empty literal is a member.
func (s *Seq) ContainsEmpty() bool {
	for _, lit := range s.literals {
		if len(lit.Bytes) == 0 {
			return true
		}
	}
	return false
}

// MaxLen returns the length of the longest literal.
func (s *Seq) MaxLen() int {
	n := 0
	for _, lit := range s.literals {
		n = max(n, len(lit.Bytes))
	}
	return n
}

// Clone returns a deep copy of the sequence.
// All literals and their byte slices are duplicated.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}

	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		cloned[i] = Literal{Bytes: bytes.Clone(lit.Bytes)}
	}

	return &Seq{literals: cloned}
}

// Dedup sorts the literals and removes duplicates.
func (s *Seq) Dedup() {
	if s.Len() < 2 {
		return
	}
	slices.SortFunc(s.literals, func(a, b Literal) int {
		return bytes.Compare(a.Bytes, b.Bytes)
	})
	s.literals = slices.CompactFunc(s.literals, func(a, b Literal) bool {
		return bytes.Equal(a.Bytes, b.Bytes)
	})
}

// Union appends other's literals to s. It reports false, leaving s
// unspecified, when the result would hold more than maxLiterals.
func (s *Seq) Union(other *Seq, maxLiterals int) bool {
	if s.Len()+other.Len() > maxLiterals {
		return false
	}
	s.literals = append(s.literals, other.literals...)
	return true
}

// Concat replaces s with the cross product of s and other: every literal of
// s followed by every literal of other. It reports false when the product
// would hold more than maxLiterals literals or a literal longer than maxLen.
func (s *Seq) Concat(other *Seq, maxLiterals, maxLen int) bool {
	if s.Len()*other.Len() > maxLiterals {
		return false
	}
	if s.MaxLen()+other.MaxLen() > maxLen {
		return false
	}
	product := make([]Literal, 0, s.Len()*other.Len())
	for _, a := range s.literals {
		for _, b := range other.literals {
			joined := make([]byte, 0, len(a.Bytes)+len(b.Bytes))
			joined = append(joined, a.Bytes...)
			joined = append(joined, b.Bytes...)
			product = append(product, Literal{Bytes: joined})
		}
	}
	s.literals = product
	return true
}

// Bytes returns the literals as byte slices, sharing their storage.
func (s *Seq) Bytes() [][]byte {
	out := make([][]byte, s.Len())
	for i, lit := range s.literals {
		out[i] = lit.Bytes
	}
	return out
}

// String renders the set for debugging, e.g. `["bar" "foo"]`.
func (s *Seq) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, lit := range s.literals {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('"')
		b.Write(lit.Bytes)
		b.WriteByte('"')
	}
	b.WriteByte(']')
	return b.String()
}

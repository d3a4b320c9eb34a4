// Package syntax parses regular expressions into an abstract syntax tree.
//
// The tree is stored as an arena: every node lives in Tree.Nodes and refers
// to its children by NodeID. The parser is the only writer; once Parse
// returns, the tree is handed to the NFA compiler and can be dropped after
// compilation.
//
// The accepted syntax is the RE2/Perl subset needed for boolean matching:
// literals, classes, Perl and POSIX classes, Unicode classes from the
// standard library tables, repetition, alternation, groups, inline flags and
// the ^ $ \A \z \b \B assertions.
package syntax

import (
	"strconv"
	"strings"
	"unicode"
)

// NodeID addresses a node in Tree.Nodes.
type NodeID uint32

// Op is the operator of a node.
type Op uint8

const (
	// OpEmpty matches the empty string.
	OpEmpty Op = iota + 1
	// OpLiteral matches Node.Rune.
	OpLiteral
	// OpCharClass matches one rune from Node.Items, complemented when
	// Node.Negate is set.
	OpCharClass
	// OpAnyCharNotNL matches any rune except '\n'.
	OpAnyCharNotNL
	// OpAnyChar matches any rune.
	OpAnyChar
	// OpAnyByte matches any single byte (\C).
	OpAnyByte
	// OpBeginLine matches at the start of a line (multi-line ^).
	OpBeginLine
	// OpEndLine matches at the end of a line (multi-line $).
	OpEndLine
	// OpBeginText matches at the start of the text (^, \A).
	OpBeginText
	// OpEndText matches at the end of the text ($, \z).
	OpEndText
	// OpWordBoundary matches at an ASCII word boundary (\b).
	OpWordBoundary
	// OpNoWordBoundary matches away from an ASCII word boundary (\B).
	OpNoWordBoundary
	// OpGroup is a parenthesized subexpression.
	OpGroup
	// OpRepeat matches Subs[0] between Min and Max times; Max == -1 means
	// unbounded.
	OpRepeat
	// OpConcat matches Subs in sequence.
	OpConcat
	// OpAlternate matches any of Subs.
	OpAlternate
)

var opNames = [...]string{
	OpEmpty:          "Empty",
	OpLiteral:        "Literal",
	OpCharClass:      "CharClass",
	OpAnyCharNotNL:   "AnyCharNotNL",
	OpAnyChar:        "AnyChar",
	OpAnyByte:        "AnyByte",
	OpBeginLine:      "BeginLine",
	OpEndLine:        "EndLine",
	OpBeginText:      "BeginText",
	OpEndText:        "EndText",
	OpWordBoundary:   "WordBoundary",
	OpNoWordBoundary: "NoWordBoundary",
	OpGroup:          "Group",
	OpRepeat:         "Repeat",
	OpConcat:         "Concat",
	OpAlternate:      "Alternate",
}

// String returns the operator name.
func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// Flags are the inline flags in effect when a node was parsed.
type Flags uint8

const (
	// FoldCase is (?i): match letters case-insensitively.
	FoldCase Flags = 1 << iota
	// DotNL is (?s): let . match '\n'.
	DotNL
	// MultiLine is (?m): ^ and $ match at line boundaries.
	MultiLine
	// NonGreedy is (?U): swap greedy and lazy repetition.
	NonGreedy
)

// ClassItem is one member of a bracket expression or class escape: a set of
// rune ranges, optionally complemented (\D, [:^alpha:], \PL).
type ClassItem struct {
	// Ranges holds sorted, non-overlapping [lo, hi] pairs.
	Ranges []rune
	Negate bool
}

// Node is a single operator in the tree.
type Node struct {
	Op    Op
	Flags Flags

	// Rune is the literal for OpLiteral.
	Rune rune

	// Items and Negate describe OpCharClass.
	Items  []ClassItem
	Negate bool

	// Min and Max bound OpRepeat.
	Min, Max int

	// Subs are the children of OpGroup, OpRepeat, OpConcat and OpAlternate.
	Subs []NodeID
}

// Tree is a parsed pattern.
type Tree struct {
	Nodes []Node
	Root  NodeID
}

func (t *Tree) add(n Node) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, n)
	return id
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// ClassRanges resolves an OpCharClass node into sorted, non-overlapping
// [lo, hi] rune pairs. When fold is set, every positive item is closed under
// simple case folding before item negation, matching Perl and RE2 semantics
// for classes such as (?i)[^\W].
func (n *Node) ClassRanges(fold bool) []rune {
	var out []rune
	for _, it := range n.Items {
		r := it.Ranges
		if fold {
			r = foldRanges(r)
		}
		if it.Negate {
			r = negateRanges(r)
		}
		out = append(out, r...)
	}
	out = normalizeRanges(out)
	if n.Negate {
		out = negateRanges(out)
	}
	return out
}

// IsAnchoredStart reports whether every match must begin at the start of the
// text, i.e. each top-level branch starts with \A (or a non-multi-line ^).
func (t *Tree) IsAnchoredStart() bool {
	return t.anchoredStart(t.Root)
}

func (t *Tree) anchoredStart(id NodeID) bool {
	n := &t.Nodes[id]
	switch n.Op {
	case OpBeginText:
		return true
	case OpGroup:
		return t.anchoredStart(n.Subs[0])
	case OpConcat:
		return len(n.Subs) > 0 && t.anchoredStart(n.Subs[0])
	case OpAlternate:
		for _, sub := range n.Subs {
			if !t.anchoredStart(sub) {
				return false
			}
		}
		return len(n.Subs) > 0
	case OpRepeat:
		return n.Min > 0 && t.anchoredStart(n.Subs[0])
	}
	return false
}

// String renders the tree in a compact prefix form used by tests and
// debugging, e.g. cat{lit{a}star{cc{0-9}}}.
func (t *Tree) String() string {
	var b strings.Builder
	t.dump(&b, t.Root)
	return b.String()
}

func (t *Tree) dump(b *strings.Builder, id NodeID) {
	n := &t.Nodes[id]
	switch n.Op {
	case OpEmpty:
		b.WriteString("emp{}")
	case OpLiteral:
		if n.Flags&FoldCase != 0 {
			b.WriteString("litfold{")
		} else {
			b.WriteString("lit{")
		}
		writeRune(b, n.Rune)
		b.WriteByte('}')
	case OpCharClass:
		if n.Negate {
			b.WriteString("ncc{")
		} else {
			b.WriteString("cc{")
		}
		for _, it := range n.Items {
			if it.Negate {
				b.WriteString("[^")
			}
			for i := 0; i+1 < len(it.Ranges); i += 2 {
				writeRune(b, it.Ranges[i])
				if it.Ranges[i] != it.Ranges[i+1] {
					b.WriteByte('-')
					writeRune(b, it.Ranges[i+1])
				}
			}
			if it.Negate {
				b.WriteByte(']')
			}
		}
		b.WriteByte('}')
	case OpAnyCharNotNL:
		b.WriteString("dnl{}")
	case OpAnyChar:
		b.WriteString("dot{}")
	case OpAnyByte:
		b.WriteString("byte{}")
	case OpBeginLine:
		b.WriteString("bol{}")
	case OpEndLine:
		b.WriteString("eol{}")
	case OpBeginText:
		b.WriteString("bot{}")
	case OpEndText:
		b.WriteString("eot{}")
	case OpWordBoundary:
		b.WriteString("wb{}")
	case OpNoWordBoundary:
		b.WriteString("nwb{}")
	case OpGroup:
		b.WriteString("grp{")
		t.dump(b, n.Subs[0])
		b.WriteByte('}')
	case OpRepeat:
		switch {
		case n.Min == 0 && n.Max == -1:
			b.WriteString("star{")
		case n.Min == 1 && n.Max == -1:
			b.WriteString("plus{")
		case n.Min == 0 && n.Max == 1:
			b.WriteString("que{")
		default:
			b.WriteString("rep{")
			b.WriteString(strconv.Itoa(n.Min))
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(n.Max))
			b.WriteByte(' ')
		}
		t.dump(b, n.Subs[0])
		b.WriteByte('}')
	case OpConcat, OpAlternate:
		if n.Op == OpConcat {
			b.WriteString("cat{")
		} else {
			b.WriteString("alt{")
		}
		for _, sub := range n.Subs {
			t.dump(b, sub)
		}
		b.WriteByte('}')
	default:
		b.WriteString(n.Op.String())
	}
}

func writeRune(b *strings.Builder, r rune) {
	if r < utf8RuneSelf && unicode.IsPrint(r) && !strings.ContainsRune(`{}[]-^\`, r) {
		b.WriteRune(r)
		return
	}
	b.WriteString(`\x{`)
	b.WriteString(strconv.FormatInt(int64(r), 16))
	b.WriteByte('}')
}

const utf8RuneSelf = 0x80

package meta

import (
	"github.com/coregx/linre/literal"
	"github.com/coregx/linre/syntax"
)

// Strategy represents the execution strategy for regex matching.
//
// The meta-engine chooses between:
//   - UseLiterals: multi-pattern literal search, no regex engine at all
//   - UseDFA: Lazy DFA with NFA fallback on cache overflow
//   - UseNFA: PikeVM exclusively
//
// Strategy selection is automatic based on pattern analysis.
type Strategy int

const (
	// UseNFA uses only the NFA (PikeVM) engine.
	// Selected for:
	//   - Patterns with line or word assertions, which the DFA cannot resolve
	//   - When EnableDFA is false in config
	UseNFA Strategy = iota

	// UseDFA uses Lazy DFA with NFA fallback on cache overflow.
	// Selected for every pattern whose only assertions are \A and \z.
	UseDFA

	// UseLiterals uses an Aho-Corasick automaton over the pattern's literal
	// set. Selected for exact literal alternations like (foo|bar|baz):
	// when patterns are exact literals, the literal search IS the engine.
	UseLiterals
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseNFA:
		return "UseNFA"
	case UseDFA:
		return "UseDFA"
	case UseLiterals:
		return "UseLiterals"
	default:
		return "Unknown"
	}
}

// exactLiterals returns the literal set of tree when the literal strategy
// may serve it, or nil.
func exactLiterals(tree *syntax.Tree, config Config) *literal.Seq {
	if !config.EnableLiterals {
		return nil
	}
	extractor := literal.New(literal.ExtractorConfig{
		MaxLiterals:   config.MaxLiterals,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	})
	seq, ok := extractor.ExtractExact(tree)
	if !ok {
		return nil
	}
	return seq
}

// SelectStrategy picks the preferred strategy for a parsed pattern. The
// engine may still downgrade UseDFA to UseNFA when the program uses
// assertions the DFA does not support.
func SelectStrategy(tree *syntax.Tree, config Config) Strategy {
	return selectStrategy(exactLiterals(tree, config), config)
}

func selectStrategy(lits *literal.Seq, config Config) Strategy {
	if lits != nil {
		return UseLiterals
	}
	if config.EnableDFA {
		return UseDFA
	}
	return UseNFA
}

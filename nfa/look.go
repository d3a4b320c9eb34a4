package nfa

import "strings"

// Look is a zero-width assertion checked against the haystack at the
// current position.
type Look uint8

const (
	// LookStartText is \A (and ^ outside multi-line mode)
	LookStartText Look = iota
	// LookEndText is \z (and $ outside multi-line mode)
	LookEndText
	// LookStartLine is multi-line ^
	LookStartLine
	// LookEndLine is multi-line $
	LookEndLine
	// LookWordBoundary is \b over ASCII word bytes
	LookWordBoundary
	// LookNoWordBoundary is \B
	LookNoWordBoundary
)

var lookNames = [...]string{
	LookStartText:      "StartText",
	LookEndText:        "EndText",
	LookStartLine:      "StartLine",
	LookEndLine:        "EndLine",
	LookWordBoundary:   "WordBoundary",
	LookNoWordBoundary: "NoWordBoundary",
}

func (l Look) String() string {
	if int(l) < len(lookNames) {
		return lookNames[l]
	}
	return "Look(?)"
}

// LookSet is a bitset of Look values.
type LookSet uint8

// Insert returns the set with look added.
func (s LookSet) Insert(look Look) LookSet {
	return s | 1<<look
}

// Contains reports whether look is in the set.
func (s LookSet) Contains(look Look) bool {
	return s&(1<<look) != 0
}

// IsEmpty reports whether the set has no members.
func (s LookSet) IsEmpty() bool {
	return s == 0
}

// SubsetOf reports whether every member of s is also in other.
func (s LookSet) SubsetOf(other LookSet) bool {
	return s&^other == 0
}

func (s LookSet) String() string {
	var names []string
	for l := LookStartText; l <= LookNoWordBoundary; l++ {
		if s.Contains(l) {
			names = append(names, l.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// isWordByte returns true if byte is an ASCII word character [a-zA-Z0-9_]
func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

// checkLookAssertion checks if a zero-width assertion holds at the given position
func checkLookAssertion(look Look, haystack []byte, pos int) bool {
	switch look {
	case LookStartText:
		return pos == 0
	case LookEndText:
		return pos == len(haystack)
	case LookStartLine:
		return pos == 0 || haystack[pos-1] == '\n'
	case LookEndLine:
		return pos == len(haystack) || haystack[pos] == '\n'
	case LookWordBoundary:
		wordBefore := pos > 0 && isWordByte(haystack[pos-1])
		wordAfter := pos < len(haystack) && isWordByte(haystack[pos])
		return wordBefore != wordAfter
	case LookNoWordBoundary:
		wordBefore := pos > 0 && isWordByte(haystack[pos-1])
		wordAfter := pos < len(haystack) && isWordByte(haystack[pos])
		return wordBefore == wordAfter
	}
	return false
}

package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxRepeat is the largest bound accepted in a counted repetition.
	MaxRepeat = 1000

	// MaxNesting is the deepest group nesting accepted.
	MaxNesting = 1000
)

// frame is one open group: the alternatives finished so far and the
// concatenation being built.
type frame struct {
	alts  []NodeID
	items []NodeID

	// outer are the flags to restore when the group closes.
	outer Flags

	// open is the offset of '(' or -1 for the top level.
	open int
}

type parser struct {
	tree   Tree
	whole  string
	flags  Flags
	frames []frame
	names  map[string]bool

	// lastRepeat is the remaining input at the start of the previous token
	// when that token was a repetition operator, or "" otherwise.
	lastRepeat string
}

// Parse parses pattern into a tree. A nil error guarantees that the tree
// is well formed; the returned error is always a *Error.
func Parse(pattern string) (*Tree, error) {
	return ParseWithFlags(pattern, 0)
}

// ParseWithFlags parses pattern with the given flags initially in effect,
// as if the pattern were prefixed with the matching (?flags) group.
func ParseWithFlags(pattern string, flags Flags) (*Tree, error) {
	if !utf8.ValidString(pattern) {
		off := invalidUTF8Offset(pattern)
		return nil, &Error{Code: ErrorBadUTF8, Offset: off, Arg: pattern[off:]}
	}

	p := &parser{
		whole: pattern,
		flags: flags,
		tree:  Tree{Nodes: make([]Node, 0, len(pattern)+1)},
	}
	p.frames = append(p.frames, frame{open: -1})
	if err := p.parse(); err != nil {
		return nil, err
	}
	return &p.tree, nil
}

func invalidUTF8Offset(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(s)
}

func (p *parser) offset(t string) int {
	return len(p.whole) - len(t)
}

func (p *parser) top() *frame {
	return &p.frames[len(p.frames)-1]
}

func (p *parser) push(n Node) {
	f := p.top()
	f.items = append(f.items, p.tree.add(n))
}

func (p *parser) literal(r rune) {
	p.push(Node{Op: OpLiteral, Flags: p.flags, Rune: r})
}

func (p *parser) parse() error {
	t := p.whole
	for t != "" {
		var err error
		repeat := ""
		switch t[0] {
		case '(':
			t, err = p.parseGroup(t)
		case ')':
			err = p.closeGroup(t)
			t = t[1:]
		case '|':
			p.alternate()
			t = t[1:]
		case '^':
			if p.flags&MultiLine != 0 {
				p.push(Node{Op: OpBeginLine, Flags: p.flags})
			} else {
				p.push(Node{Op: OpBeginText, Flags: p.flags})
			}
			t = t[1:]
		case '$':
			if p.flags&MultiLine != 0 {
				p.push(Node{Op: OpEndLine, Flags: p.flags})
			} else {
				p.push(Node{Op: OpEndText, Flags: p.flags})
			}
			t = t[1:]
		case '.':
			if p.flags&DotNL != 0 {
				p.push(Node{Op: OpAnyChar, Flags: p.flags})
			} else {
				p.push(Node{Op: OpAnyCharNotNL, Flags: p.flags})
			}
			t = t[1:]
		case '[':
			t, err = p.parseClass(t)
		case '*', '+', '?':
			before := t
			lo, hi := 0, -1
			switch t[0] {
			case '+':
				lo = 1
			case '?':
				hi = 1
			}
			t = skipLazy(t[1:])
			if err = p.repeat(lo, hi, before, t); err == nil {
				repeat = before
			}
		case '{':
			before := t
			lo, hi, rest, ok := parseRepeat(t)
			if !ok {
				p.literal('{')
				t = t[1:]
				break
			}
			if lo > MaxRepeat || hi > MaxRepeat || (hi >= 0 && lo > hi) {
				return &Error{Code: ErrorRepeatSize, Offset: p.offset(t), Arg: t[:len(t)-len(rest)]}
			}
			t = skipLazy(rest)
			if err = p.repeat(lo, hi, before, t); err != nil {
				break
			}
			repeat = before
			if (lo >= 2 || hi >= 2) && !p.repeatIsValid(p.lastItem(), MaxRepeat) {
				return &Error{Code: ErrorRepeatSize, Offset: p.offset(before), Arg: before[:len(before)-len(rest)]}
			}
		case '\\':
			t, err = p.parseBackslash(t)
		default:
			r, size := utf8.DecodeRuneInString(t)
			p.literal(r)
			t = t[size:]
		}
		if err != nil {
			return err
		}
		p.lastRepeat = repeat
	}

	if len(p.frames) > 1 {
		return &Error{Code: ErrorMissingParen, Offset: p.top().open, Arg: p.whole}
	}
	p.tree.Root = p.finish(p.top())
	return nil
}

func skipLazy(t string) string {
	if t != "" && t[0] == '?' {
		return t[1:]
	}
	return t
}

// parseRepeat parses {n}, {n,} or {n,m} at the start of s. ok is false
// when s does not start with a well-formed counted repetition, in which case
// '{' is an ordinary literal.
func parseRepeat(s string) (lo, hi int, rest string, ok bool) {
	if s == "" || s[0] != '{' {
		return 0, 0, s, false
	}
	s = s[1:]
	var ok1 bool
	if lo, s, ok1 = parseInt(s); !ok1 {
		return 0, 0, s, false
	}
	if s == "" {
		return 0, 0, s, false
	}
	if s[0] != ',' {
		hi = lo
	} else {
		s = s[1:]
		if s == "" {
			return 0, 0, s, false
		}
		if s[0] == '}' {
			hi = -1
		} else if hi, s, ok1 = parseInt(s); !ok1 {
			return 0, 0, s, false
		}
	}
	if s == "" || s[0] != '}' {
		return 0, 0, s, false
	}
	return lo, hi, s[1:], true
}

// parseInt parses a decimal repeat count. Leading zeros and counts of ten
// or more digits are not counts, which makes the brace a literal.
func parseInt(s string) (n int, rest string, ok bool) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, s, false
	}
	if len(s) >= 2 && s[0] == '0' && '0' <= s[1] && s[1] <= '9' {
		return 0, s, false
	}
	for s != "" && '0' <= s[0] && s[0] <= '9' {
		if n >= 100_000_000 {
			return 0, s, false
		}
		n = n*10 + int(s[0]-'0')
		s = s[1:]
	}
	return n, s, true
}

func (p *parser) repeat(lo, hi int, before, after string) error {
	if p.lastRepeat != "" {
		return &Error{
			Code:   ErrorRepeatOp,
			Offset: p.offset(p.lastRepeat),
			Arg:    p.lastRepeat[:len(p.lastRepeat)-len(after)],
		}
	}
	f := p.top()
	if len(f.items) == 0 {
		return &Error{
			Code:   ErrorRepeatArgument,
			Offset: p.offset(before),
			Arg:    before[:len(before)-len(after)],
		}
	}
	last := f.items[len(f.items)-1]
	f.items[len(f.items)-1] = p.tree.add(Node{
		Op:    OpRepeat,
		Flags: p.flags,
		Min:   lo,
		Max:   hi,
		Subs:  []NodeID{last},
	})
	return nil
}

func (p *parser) lastItem() NodeID {
	f := p.top()
	return f.items[len(f.items)-1]
}

// repeatIsValid reports whether the repetition counts nested in id
// multiply out to at most n. Unbounded repeats count their minimum.
func (p *parser) repeatIsValid(id NodeID, n int) bool {
	node := p.tree.Node(id)
	if node.Op == OpRepeat {
		m := node.Max
		if m < 0 {
			m = node.Min
		}
		if m > n {
			return false
		}
		if m > 0 {
			n /= m
		}
	}
	for _, sub := range node.Subs {
		if !p.repeatIsValid(sub, n) {
			return false
		}
	}
	return true
}

func (p *parser) concat(items []NodeID) NodeID {
	switch len(items) {
	case 0:
		return p.tree.add(Node{Op: OpEmpty, Flags: p.flags})
	case 1:
		return items[0]
	}
	subs := make([]NodeID, len(items))
	copy(subs, items)
	return p.tree.add(Node{Op: OpConcat, Flags: p.flags, Subs: subs})
}

func (p *parser) alternate() {
	f := p.top()
	f.alts = append(f.alts, p.concat(f.items))
	f.items = f.items[:0]
}

// finish collapses a frame into a single node.
func (p *parser) finish(f *frame) NodeID {
	last := p.concat(f.items)
	if len(f.alts) == 0 {
		return last
	}
	subs := append(f.alts, last)
	return p.tree.add(Node{Op: OpAlternate, Flags: p.flags, Subs: subs})
}

func (p *parser) openGroup(open int, outer Flags) error {
	if len(p.frames) > MaxNesting {
		return &Error{Code: ErrorPatternTooLarge, Offset: open, Arg: p.whole}
	}
	p.frames = append(p.frames, frame{open: open, outer: outer})
	return nil
}

func (p *parser) closeGroup(t string) error {
	if len(p.frames) == 1 {
		return &Error{Code: ErrorUnexpectedParen, Offset: p.offset(t), Arg: p.whole}
	}
	f := p.top()
	inner := p.finish(f)
	p.flags = f.outer
	p.frames = p.frames[:len(p.frames)-1]
	p.push(Node{Op: OpGroup, Flags: p.flags, Subs: []NodeID{inner}})
	return nil
}

func (p *parser) parseGroup(t string) (string, error) {
	if strings.HasPrefix(t, "(?") {
		return p.parsePerlFlags(t)
	}
	if err := p.openGroup(p.offset(t), p.flags); err != nil {
		return "", err
	}
	return t[1:], nil
}

// parsePerlFlags handles every group starting with "(?": named groups,
// look-around (rejected), non-capturing groups and inline flags.
func (p *parser) parsePerlFlags(t string) (string, error) {
	off := p.offset(t)

	// Look-around is recognized only to report it precisely.
	if (len(t) > 3 && (t[2] == '=' || t[2] == '!')) ||
		(len(t) > 4 && t[2] == '<' && (t[3] == '=' || t[3] == '!')) {
		n := 3
		if t[2] == '<' {
			n = 4
		}
		return "", &Error{Code: ErrorBadPerlOp, Offset: off, Arg: t[:n]}
	}

	if strings.HasPrefix(t, "(?P") || strings.HasPrefix(t, "(?<") {
		return p.parseNamedGroup(t)
	}

	flags := p.flags
	negated, sawFlag := false, false
	rest := t[2:]
	for rest != "" {
		c, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
		switch c {
		case 'i', 'm', 's', 'U':
			f := inlineFlag(c)
			if negated {
				flags &^= f
			} else {
				flags |= f
			}
			sawFlag = true
			continue
		case '-':
			if negated {
				return "", p.badFlags(t, rest)
			}
			negated, sawFlag = true, false
			continue
		case ':':
			if negated && !sawFlag {
				return "", p.badFlags(t, rest)
			}
			if err := p.openGroup(off, p.flags); err != nil {
				return "", err
			}
			p.flags = flags
			return rest, nil
		case ')':
			if negated && !sawFlag {
				return "", p.badFlags(t, rest)
			}
			p.flags = flags
			return rest, nil
		}
		return "", p.badFlags(t, rest)
	}
	return "", p.badFlags(t, rest)
}

func inlineFlag(c rune) Flags {
	switch c {
	case 'i':
		return FoldCase
	case 'm':
		return MultiLine
	case 's':
		return DotNL
	}
	return NonGreedy
}

func (p *parser) badFlags(t, rest string) error {
	return &Error{Code: ErrorMissingParen, Offset: p.offset(t), Arg: t[:len(t)-len(rest)]}
}

func (p *parser) parseNamedGroup(t string) (string, error) {
	off := p.offset(t)
	var begin int
	switch {
	case strings.HasPrefix(t, "(?P<"):
		begin = 4
	case strings.HasPrefix(t, "(?<"):
		begin = 3
	default:
		// (?P=name) back-references and other (?P forms.
		return "", &Error{Code: ErrorBadNamedCapture, Offset: off, Arg: t}
	}
	end := strings.IndexByte(t, '>')
	if end < 0 {
		return "", &Error{Code: ErrorBadNamedCapture, Offset: off, Arg: t}
	}
	name := t[begin:end]
	if !isValidGroupName(name) || p.names[name] {
		return "", &Error{Code: ErrorBadNamedCapture, Offset: off, Arg: t[:end+1]}
	}
	if p.names == nil {
		p.names = make(map[string]bool)
	}
	p.names[name] = true
	if err := p.openGroup(off, p.flags); err != nil {
		return "", err
	}
	return t[end+1:], nil
}

func isValidGroupName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

func (p *parser) parseBackslash(t string) (string, error) {
	if len(t) < 2 {
		return "", &Error{Code: ErrorTrailingBackslash, Offset: p.offset(t), Arg: t}
	}
	switch t[1] {
	case 'A':
		p.push(Node{Op: OpBeginText, Flags: p.flags})
		return t[2:], nil
	case 'z':
		p.push(Node{Op: OpEndText, Flags: p.flags})
		return t[2:], nil
	case 'b':
		p.push(Node{Op: OpWordBoundary, Flags: p.flags})
		return t[2:], nil
	case 'B':
		p.push(Node{Op: OpNoWordBoundary, Flags: p.flags})
		return t[2:], nil
	case 'C':
		p.push(Node{Op: OpAnyByte, Flags: p.flags})
		return t[2:], nil
	case 'Q':
		lit, rest := t[2:], ""
		if i := strings.Index(lit, `\E`); i >= 0 {
			lit, rest = lit[:i], lit[i+2:]
		}
		for _, r := range lit {
			p.literal(r)
		}
		return rest, nil
	case 'p', 'P':
		item, rest, err := p.parseUnicodeClass(t)
		if err != nil {
			return "", err
		}
		p.push(Node{Op: OpCharClass, Flags: p.flags, Items: []ClassItem{item}})
		return rest, nil
	}
	if item, ok := perlClass(t[1]); ok {
		p.push(Node{Op: OpCharClass, Flags: p.flags, Items: []ClassItem{item}})
		return t[2:], nil
	}
	r, rest, err := p.parseEscape(t)
	if err != nil {
		return "", err
	}
	p.literal(r)
	return rest, nil
}

// parseEscape parses a single-rune escape at the start of s.
func (p *parser) parseEscape(s string) (rune, string, error) {
	t := s[1:]
	if t == "" {
		return 0, "", &Error{Code: ErrorTrailingBackslash, Offset: p.offset(s), Arg: s}
	}
	c, size := utf8.DecodeRuneInString(t)
	t = t[size:]

	switch c {
	case '1', '2', '3', '4', '5', '6', '7':
		// A lone non-zero digit would be a back-reference.
		if t == "" || t[0] < '0' || t[0] > '7' {
			break
		}
		fallthrough
	case '0':
		r := c - '0'
		for i := 1; i < 3; i++ {
			if t == "" || t[0] < '0' || t[0] > '7' {
				break
			}
			r = r*8 + rune(t[0]-'0')
			t = t[1:]
		}
		return r, t, nil
	case 'x':
		if r, rest, ok := parseHex(t); ok {
			return r, rest, nil
		}
	case 'a':
		return '\a', t, nil
	case 'f':
		return '\f', t, nil
	case 'n':
		return '\n', t, nil
	case 'r':
		return '\r', t, nil
	case 't':
		return '\t', t, nil
	case 'v':
		return '\v', t, nil
	default:
		if c < utf8.RuneSelf && !isAlnum(byte(c)) {
			return c, t, nil
		}
	}
	return 0, "", &Error{Code: ErrorBadEscape, Offset: p.offset(s), Arg: s[:len(s)-len(t)]}
}

// parseHex parses the part of a \x escape after the 'x'.
func parseHex(t string) (rune, string, bool) {
	if t == "" {
		return 0, t, false
	}
	if t[0] != '{' {
		if len(t) < 2 {
			return 0, t, false
		}
		hi, ok1 := unhex(t[0])
		lo, ok2 := unhex(t[1])
		if !ok1 || !ok2 {
			return 0, t, false
		}
		return hi<<4 | lo, t[2:], true
	}
	t = t[1:]
	var r rune
	n := 0
	for t != "" && t[0] != '}' {
		v, ok := unhex(t[0])
		if !ok {
			return 0, t, false
		}
		r = r<<4 | v
		if r > unicode.MaxRune {
			return 0, t, false
		}
		n++
		t = t[1:]
	}
	if t == "" || n == 0 {
		return 0, t, false
	}
	return r, t[1:], true
}

func unhex(c byte) (rune, bool) {
	switch {
	case '0' <= c && c <= '9':
		return rune(c - '0'), true
	case 'a' <= c && c <= 'f':
		return rune(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return rune(c-'A') + 10, true
	}
	return 0, false
}

func isAlnum(c byte) bool {
	return '0' <= c && c <= '9' || 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z'
}

// parseUnicodeClass parses \pN, \p{Name}, \p{^Name} and the \P forms.
func (p *parser) parseUnicodeClass(s string) (ClassItem, string, error) {
	negate := s[1] == 'P'
	t := s[2:]
	if t == "" {
		return ClassItem{}, "", &Error{Code: ErrorBadCharClass, Offset: p.offset(s), Arg: s}
	}
	var name string
	c, size := utf8.DecodeRuneInString(t)
	if c != '{' {
		name, t = t[:size], t[size:]
	} else {
		end := strings.IndexByte(t, '}')
		if end < 0 {
			return ClassItem{}, "", &Error{Code: ErrorBadCharClass, Offset: p.offset(s), Arg: s}
		}
		name, t = t[1:end], t[end+1:]
	}
	if strings.HasPrefix(name, "^") {
		negate = !negate
		name = name[1:]
	}
	ranges, ok := unicodeClass(name)
	if !ok {
		return ClassItem{}, "", &Error{Code: ErrorBadCharRange, Offset: p.offset(s), Arg: s[:len(s)-len(t)]}
	}
	return ClassItem{Ranges: ranges, Negate: negate}, t, nil
}

// parseClass parses a bracket expression starting at s[0] == '['.
func (p *parser) parseClass(s string) (string, error) {
	n := Node{Op: OpCharClass, Flags: p.flags}
	t := s[1:]
	if t != "" && t[0] == '^' {
		n.Negate = true
		t = t[1:]
	}

	var lits []rune
	first := true
	for t == "" || t[0] != ']' || first {
		if t == "" {
			return "", &Error{Code: ErrorMissingBracket, Offset: p.offset(s), Arg: s}
		}
		first = false

		// [:alpha:] and [:^alpha:]
		if len(t) > 2 && t[0] == '[' && t[1] == ':' {
			if end := strings.Index(t[2:], ":]"); end >= 0 {
				name := t[2 : 2+end]
				negate := strings.HasPrefix(name, "^")
				if negate {
					name = name[1:]
				}
				ranges, ok := posixClasses[name]
				if !ok {
					return "", &Error{Code: ErrorBadCharRange, Offset: p.offset(t), Arg: t[:end+4]}
				}
				n.Items = append(n.Items, ClassItem{Ranges: ranges, Negate: negate})
				t = t[end+4:]
				continue
			}
		}

		if len(t) > 1 && t[0] == '\\' {
			if item, ok := perlClass(t[1]); ok {
				n.Items = append(n.Items, item)
				t = t[2:]
				continue
			}
			if t[1] == 'p' || t[1] == 'P' {
				item, rest, err := p.parseUnicodeClass(t)
				if err != nil {
					return "", err
				}
				n.Items = append(n.Items, item)
				t = rest
				continue
			}
		}

		start := t
		lo, rest, err := p.classChar(t)
		if err != nil {
			return "", err
		}
		t = rest
		hi := lo
		if len(t) >= 2 && t[0] == '-' && t[1] != ']' {
			t = t[1:]
			if len(t) > 1 && t[0] == '\\' && isClassEscape(t[1]) {
				return "", &Error{Code: ErrorBadCharRange, Offset: p.offset(start), Arg: start[:len(start)-len(t)+2]}
			}
			if hi, t, err = p.classChar(t); err != nil {
				return "", err
			}
			if hi < lo {
				return "", &Error{Code: ErrorBadCharRange, Offset: p.offset(start), Arg: start[:len(start)-len(t)]}
			}
		}
		lits = append(lits, lo, hi)
	}
	t = t[1:]

	if len(lits) > 0 {
		n.Items = append(n.Items, ClassItem{Ranges: normalizeRanges(lits)})
	}
	p.push(n)
	return t, nil
}

func isClassEscape(c byte) bool {
	return strings.IndexByte("dDsSwWpP", c) >= 0
}

func (p *parser) classChar(t string) (rune, string, error) {
	if t[0] == '\\' {
		return p.parseEscape(t)
	}
	r, size := utf8.DecodeRuneInString(t)
	return r, t[size:], nil
}

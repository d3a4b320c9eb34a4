package nfa

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/linre/syntax"
)

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// CaseInsensitive starts parsing with (?i) in effect. Like a leading
	// (?i), it can be turned off inside the pattern with (?-i). It has no
	// effect on CompileTree, whose tree carries its own flags.
	CaseInsensitive bool

	// MaxStates limits the size of the compiled program.
	// Default: 100000
	MaxStates int

	// MaxRecursionDepth limits operator nesting during compilation.
	// Default: 1000
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		CaseInsensitive:   false,
		MaxStates:         100000,
		MaxRecursionDepth: 1000,
	}
}

// Validate checks the limits. Zero means "use the default".
func (c CompilerConfig) Validate() error {
	if c.MaxStates < 0 {
		return fmt.Errorf("%w: MaxStates must be >= 0, got %d", ErrInvalidConfig, c.MaxStates)
	}
	if c.MaxRecursionDepth < 0 {
		return fmt.Errorf("%w: MaxRecursionDepth must be >= 0, got %d", ErrInvalidConfig, c.MaxRecursionDepth)
	}
	return nil
}

// Compiler compiles syntax trees into Thompson NFAs.
// A Compiler is not safe for concurrent use; the NFAs it returns are.
type Compiler struct {
	config  CompilerConfig
	builder *Builder
	tree    *syntax.Tree
	depth   int // current recursion depth

	// scratch space reused across classes
	seqs   []utf8Sequence
	suffix map[suffixKey]StateID
}

type suffixKey struct {
	lo, hi byte
	next   StateID
}

// NewCompiler creates a new NFA compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	def := DefaultCompilerConfig()
	if config.MaxStates == 0 {
		config.MaxStates = def.MaxStates
	}
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = def.MaxRecursionDepth
	}
	return &Compiler{
		config:  config,
		builder: NewBuilder(),
	}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile parses and compiles a regex pattern string into an NFA
func (c *Compiler) Compile(pattern string) (*NFA, error) {
	var flags syntax.Flags
	if c.config.CaseInsensitive {
		flags |= syntax.FoldCase
	}
	tree, err := syntax.ParseWithFlags(pattern, flags)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     err,
		}
	}

	nfa, err := c.CompileTree(tree)
	if err != nil {
		if cerr, ok := err.(*CompileError); ok {
			cerr.Pattern = pattern
		}
		return nil, err
	}
	return nfa, nil
}

// CompileTree compiles a parsed tree into an NFA.
func (c *Compiler) CompileTree(tree *syntax.Tree) (*NFA, error) {
	c.builder = NewBuilderWithCapacity(2 * tree.Len())
	c.tree = tree
	c.depth = 0

	start, end, err := c.compileNode(tree.Root)
	if err != nil {
		return nil, err
	}

	matchID := c.builder.AddMatch()
	if err := c.builder.Patch(end, matchID); err != nil {
		return nil, &CompileError{
			Err: fmt.Errorf("failed to connect to match state: %w", err),
		}
	}

	// Unanchored searches run the program behind a (?s-u:.)*? loop, so a
	// single forward scan tries every start position.
	unanchored := start
	if !tree.IsAnchoredStart() {
		anyByte := c.builder.AddByteRange(0x00, 0xFF, InvalidState)
		unanchored = c.builder.AddSplit(start, anyByte)
		if err := c.builder.Patch(anyByte, unanchored); err != nil {
			return nil, &CompileError{Err: err}
		}
	}
	c.builder.SetStarts(start, unanchored)

	if err := c.checkSize(); err != nil {
		return nil, err
	}

	nfa, err := c.builder.Build()
	if err != nil {
		return nil, &CompileError{
			Err: err,
		}
	}
	return nfa, nil
}

func (c *Compiler) checkSize() error {
	if c.builder.States() > c.config.MaxStates {
		return &CompileError{
			Err: fmt.Errorf("%w: more than %d states", ErrTooComplex, c.config.MaxStates),
		}
	}
	return nil
}

func (c *Compiler) fold(n *syntax.Node) bool {
	return n.Flags&syntax.FoldCase != 0
}

// compileNode recursively compiles a tree node.
// Returns (start, end) state IDs for the compiled fragment.
// The 'end' state is a state that needs to be patched to continue the automaton.
func (c *Compiler) compileNode(id syntax.NodeID) (start, end StateID, err error) {
	n := c.tree.Node(id)
	for n.Op == syntax.OpGroup {
		n = c.tree.Node(n.Subs[0])
	}

	c.depth++
	if c.depth > c.config.MaxRecursionDepth {
		return InvalidState, InvalidState, &CompileError{
			Err: fmt.Errorf("%w: nesting deeper than %d", ErrTooComplex, c.config.MaxRecursionDepth),
		}
	}
	defer func() { c.depth-- }()

	if err := c.checkSize(); err != nil {
		return InvalidState, InvalidState, err
	}

	switch n.Op {
	case syntax.OpEmpty:
		return c.compileEmptyMatch()
	case syntax.OpLiteral:
		return c.compileLiteral(n.Rune, c.fold(n))
	case syntax.OpCharClass:
		return c.compileClass(n.ClassRanges(c.fold(n)))
	case syntax.OpAnyCharNotNL:
		return c.compileClass([]rune{0, '\n' - 1, '\n' + 1, unicode.MaxRune})
	case syntax.OpAnyChar:
		return c.compileClass([]rune{0, unicode.MaxRune})
	case syntax.OpAnyByte:
		id := c.builder.AddByteRange(0x00, 0xFF, InvalidState)
		return id, id, nil
	case syntax.OpBeginLine:
		return c.compileLook(LookStartLine)
	case syntax.OpEndLine:
		return c.compileLook(LookEndLine)
	case syntax.OpBeginText:
		return c.compileLook(LookStartText)
	case syntax.OpEndText:
		return c.compileLook(LookEndText)
	case syntax.OpWordBoundary:
		return c.compileLook(LookWordBoundary)
	case syntax.OpNoWordBoundary:
		return c.compileLook(LookNoWordBoundary)
	case syntax.OpConcat:
		return c.compileConcat(n.Subs)
	case syntax.OpAlternate:
		return c.compileAlternate(n.Subs)
	case syntax.OpRepeat:
		return c.compileRepeat(n.Subs[0], n.Min, n.Max)
	default:
		return InvalidState, InvalidState, &CompileError{
			Err: fmt.Errorf("unsupported regex operation: %v", n.Op),
		}
	}
}

// compileLiteral compiles a single rune as its UTF-8 byte chain, or as the
// class of its case folding orbit when fold is set.
func (c *Compiler) compileLiteral(r rune, fold bool) (start, end StateID, err error) {
	if fold {
		if orbit := syntax.FoldRune(r); len(orbit) > 2 {
			return c.compileClass(orbit)
		}
	}
	if !utf8.ValidRune(r) {
		// Surrogates have no UTF-8 encoding and can never match.
		return c.compileFail()
	}

	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	first := c.builder.AddByteRange(buf[0], buf[0], InvalidState)
	prev := first
	for i := 1; i < n; i++ {
		id := c.builder.AddByteRange(buf[i], buf[i], InvalidState)
		if err := c.builder.Patch(prev, id); err != nil {
			return InvalidState, InvalidState, err
		}
		prev = id
	}
	return first, prev, nil
}

// compileClass compiles sorted [lo, hi] rune pairs. ASCII-only sets become a
// single ByteRange or Sparse state; anything else becomes one Sparse state
// dispatching on the first byte of each UTF-8 sequence, with shared suffix
// chains leading to a common join state.
func (c *Compiler) compileClass(ranges []rune) (start, end StateID, err error) {
	if len(ranges) == 0 {
		return c.compileFail()
	}

	if ranges[len(ranges)-1] <= 0x7F {
		if len(ranges) == 2 {
			id := c.builder.AddByteRange(byte(ranges[0]), byte(ranges[1]), InvalidState)
			return id, id, nil
		}
		target := c.builder.AddEpsilon(InvalidState)
		transitions := make([]Transition, 0, len(ranges)/2)
		for i := 0; i+1 < len(ranges); i += 2 {
			transitions = append(transitions, Transition{
				Lo:   byte(ranges[i]),
				Hi:   byte(ranges[i+1]),
				Next: target,
			})
		}
		return c.builder.AddSparse(transitions), target, nil
	}

	c.seqs = c.seqs[:0]
	for i := 0; i+1 < len(ranges); i += 2 {
		c.seqs = appendUTF8Sequences(c.seqs, ranges[i], ranges[i+1])
	}
	if len(c.seqs) == 0 {
		return c.compileFail()
	}

	join := c.builder.AddEpsilon(InvalidState)
	if c.suffix == nil {
		c.suffix = make(map[suffixKey]StateID)
	}
	clear(c.suffix)

	transitions := make([]Transition, 0, len(c.seqs))
	for i := range c.seqs {
		bytes := c.seqs[i].bytes()
		next := join
		for j := len(bytes) - 1; j >= 1; j-- {
			key := suffixKey{lo: bytes[j].lo, hi: bytes[j].hi, next: next}
			id, ok := c.suffix[key]
			if !ok {
				id = c.builder.AddByteRange(key.lo, key.hi, next)
				c.suffix[key] = id
			}
			next = id
		}
		transitions = append(transitions, Transition{Lo: bytes[0].lo, Hi: bytes[0].hi, Next: next})
	}

	if err := c.checkSize(); err != nil {
		return InvalidState, InvalidState, err
	}
	return c.builder.AddSparse(transitions), join, nil
}

func (c *Compiler) compileLook(look Look) (start, end StateID, err error) {
	id := c.builder.AddLook(look, InvalidState)
	return id, id, nil
}

func (c *Compiler) compileConcat(subs []syntax.NodeID) (start, end StateID, err error) {
	if len(subs) == 0 {
		return c.compileEmptyMatch()
	}

	start, end, err = c.compileNode(subs[0])
	if err != nil {
		return InvalidState, InvalidState, err
	}
	for _, sub := range subs[1:] {
		nextStart, nextEnd, err := c.compileNode(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := c.builder.Patch(end, nextStart); err != nil {
			return InvalidState, InvalidState, err
		}
		end = nextEnd
	}
	return start, end, nil
}

func (c *Compiler) compileAlternate(subs []syntax.NodeID) (start, end StateID, err error) {
	if len(subs) == 0 {
		return c.compileFail()
	}
	if len(subs) == 1 {
		return c.compileNode(subs[0])
	}

	starts := make([]StateID, 0, len(subs))
	join := c.builder.AddEpsilon(InvalidState)
	for _, sub := range subs {
		s, e, err := c.compileNode(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := c.builder.Patch(e, join); err != nil {
			return InvalidState, InvalidState, err
		}
		starts = append(starts, s)
	}

	// Split chain built right to left: Split(s0, Split(s1, ... sN)).
	split := starts[len(starts)-1]
	for i := len(starts) - 2; i >= 0; i-- {
		split = c.builder.AddSplit(starts[i], split)
	}
	return split, join, nil
}

func (c *Compiler) compileRepeat(sub syntax.NodeID, minCount, maxCount int) (start, end StateID, err error) {
	switch {
	case minCount == 0 && maxCount == -1:
		return c.compileStar(sub)
	case minCount == 1 && maxCount == -1:
		return c.compilePlus(sub)
	case minCount == 0 && maxCount == 1:
		return c.compileQuest(sub)
	case maxCount == 0:
		return c.compileEmptyMatch()
	case maxCount != -1 && minCount > maxCount:
		return InvalidState, InvalidState, &CompileError{
			Err: fmt.Errorf("invalid repeat range {%d,%d}", minCount, maxCount),
		}
	}

	// x{n,} is n-1 copies followed by x+; x{n,m} is n copies followed by
	// m-n nested optional copies: x{2,4} = xx(x(x)?)?
	required := minCount
	if maxCount == -1 {
		required = minCount - 1
	}

	start, end = InvalidState, InvalidState
	link := func(s, e StateID) error {
		if start == InvalidState {
			start, end = s, e
			return nil
		}
		if err := c.builder.Patch(end, s); err != nil {
			return err
		}
		end = e
		return nil
	}

	for i := 0; i < required; i++ {
		s, e, err := c.compileNode(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := link(s, e); err != nil {
			return InvalidState, InvalidState, err
		}
	}

	if maxCount == -1 {
		s, e, err := c.compilePlus(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := link(s, e); err != nil {
			return InvalidState, InvalidState, err
		}
		return start, end, nil
	}

	if maxCount == minCount {
		return start, end, nil
	}

	exit := c.builder.AddEpsilon(InvalidState)
	for i := minCount; i < maxCount; i++ {
		s, e, err := c.compileNode(sub)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		split := c.builder.AddSplit(s, exit)
		if err := link(split, e); err != nil {
			return InvalidState, InvalidState, err
		}
	}
	if err := c.builder.Patch(end, exit); err != nil {
		return InvalidState, InvalidState, err
	}
	return start, exit, nil
}

func (c *Compiler) compileStar(sub syntax.NodeID) (start, end StateID, err error) {
	subStart, subEnd, err := c.compileNode(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(subStart, end)
	if err := c.builder.Patch(subEnd, split); err != nil {
		return InvalidState, InvalidState, err
	}
	return split, end, nil
}

func (c *Compiler) compilePlus(sub syntax.NodeID) (start, end StateID, err error) {
	subStart, subEnd, err := c.compileNode(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(subStart, end)
	if err := c.builder.Patch(subEnd, split); err != nil {
		return InvalidState, InvalidState, err
	}
	return subStart, end, nil
}

func (c *Compiler) compileQuest(sub syntax.NodeID) (start, end StateID, err error) {
	subStart, subEnd, err := c.compileNode(sub)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(subStart, end)
	if err := c.builder.Patch(subEnd, end); err != nil {
		return InvalidState, InvalidState, err
	}
	return split, end, nil
}

func (c *Compiler) compileEmptyMatch() (start, end StateID, err error) {
	id := c.builder.AddEpsilon(InvalidState)
	return id, id, nil
}

// compileFail returns a fragment that never matches. Its end is a detached
// epsilon so callers can patch it like any other fragment.
func (c *Compiler) compileFail() (start, end StateID, err error) {
	return c.builder.AddFail(), c.builder.AddEpsilon(InvalidState), nil
}

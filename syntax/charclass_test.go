package syntax

import (
	"reflect"
	"testing"
	"unicode"
)

func classOf(t *testing.T, pattern string) *Node {
	t.Helper()
	tree, err := Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	n := tree.Node(tree.Root)
	if n.Op != OpCharClass {
		t.Fatalf("Parse(%q) root = %v, want CharClass", pattern, n.Op)
	}
	return n
}

func TestClassRanges(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		fold    bool
		want    []rune
	}{
		{"simple", "[a-c]", false, []rune{'a', 'c'}},
		{"merge adjacent", "[a-cd-f]", false, []rune{'a', 'f'}},
		{"merge overlap", "[a-mc-z]", false, []rune{'a', 'z'}},
		{"negated", "[^b]", false, []rune{0, 'a', 'c', unicode.MaxRune}},
		{"fold k", "[k]", true, []rune{'K', 'K', 'k', 'k', 0x212a, 0x212a}},
		{"fold range", "[a-c]", true, []rune{'A', 'C', 'a', 'c'}},
		{"fold negated", "[^k]", true, []rune{0, 'J', 'L', 'j', 'l', 0x2129, 0x212b, unicode.MaxRune}},
		{"digits unchanged by fold", `\d`, true, []rune{'0', '9'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classOf(t, tt.pattern).ClassRanges(tt.fold)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ClassRanges(%q, fold=%v) = %v, want %v", tt.pattern, tt.fold, got, tt.want)
			}
		})
	}
}

// Folding applies to each item before the item's own negation, so
// (?i)[^\W] still matches exactly the word characters.
func TestClassRanges_FoldBeforeNegate(t *testing.T) {
	got := classOf(t, `[^\W]`).ClassRanges(true)
	want := classOf(t, `[\w]`).ClassRanges(true)
	if !reflect.DeepEqual(got, want) {
		t.Errorf(`[^\W] folded = %v, want %v`, got, want)
	}
}

func TestClassRanges_DoesNotAliasTables(t *testing.T) {
	before := append([]rune(nil), perlWord...)
	_ = classOf(t, `[\w]`).ClassRanges(true)
	_ = classOf(t, `[^\w]`).ClassRanges(false)
	if !reflect.DeepEqual(before, perlWord) {
		t.Errorf("perlWord modified: %v", perlWord)
	}
}

func TestUnicodeClass(t *testing.T) {
	for _, name := range []string{"L", "Lu", "Greek", "Han", "Any"} {
		r, ok := unicodeClass(name)
		if !ok || len(r) == 0 || len(r)%2 != 0 {
			t.Errorf("unicodeClass(%q) = %d runes, %v", name, len(r), ok)
		}
	}
	if _, ok := unicodeClass("NotAClass"); ok {
		t.Error("unicodeClass(NotAClass) succeeded")
	}
}

func TestFoldRune(t *testing.T) {
	tests := []struct {
		r    rune
		want []rune
	}{
		{'a', []rune{'A', 'A', 'a', 'a'}},
		{'1', []rune{'1', '1'}},
		{'s', []rune{'S', 'S', 's', 's', 0x17f, 0x17f}},
	}
	for _, tt := range tests {
		if got := FoldRune(tt.r); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FoldRune(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestNegateRanges(t *testing.T) {
	if got := negateRanges(nil); !reflect.DeepEqual(got, []rune{0, unicode.MaxRune}) {
		t.Errorf("negateRanges(nil) = %v", got)
	}
	if got := negateRanges([]rune{0, unicode.MaxRune}); len(got) != 0 {
		t.Errorf("negateRanges(all) = %v", got)
	}
}

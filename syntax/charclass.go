package syntax

import (
	"sort"
	"unicode"
)

// Fold bounds: runes outside [minFold, maxFold] have no simple case folding
// partners, so ranges outside the window are copied unchanged.
const (
	minFold = 0x0041
	maxFold = 0x1e943
)

// Perl classes are ASCII-only, as in RE2.
var (
	perlDigit = []rune{'0', '9'}
	perlSpace = []rune{'\t', '\n', '\f', '\r', ' ', ' '}
	perlWord  = []rune{'0', '9', 'A', 'Z', '_', '_', 'a', 'z'}
)

var posixClasses = map[string][]rune{
	"alnum":  {'0', '9', 'A', 'Z', 'a', 'z'},
	"alpha":  {'A', 'Z', 'a', 'z'},
	"ascii":  {0x00, 0x7f},
	"blank":  {'\t', '\t', ' ', ' '},
	"cntrl":  {0x00, 0x1f, 0x7f, 0x7f},
	"digit":  {'0', '9'},
	"graph":  {'!', '~'},
	"lower":  {'a', 'z'},
	"print":  {' ', '~'},
	"punct":  {'!', '/', ':', '@', '[', '`', '{', '~'},
	"space":  {'\t', '\r', ' ', ' '},
	"upper":  {'A', 'Z'},
	"word":   {'0', '9', 'A', 'Z', '_', '_', 'a', 'z'},
	"xdigit": {'0', '9', 'A', 'F', 'a', 'f'},
}

// perlClass returns the item for \d \s \w and their upper-case complements.
func perlClass(c byte) (ClassItem, bool) {
	switch c {
	case 'd':
		return ClassItem{Ranges: perlDigit}, true
	case 'D':
		return ClassItem{Ranges: perlDigit, Negate: true}, true
	case 's':
		return ClassItem{Ranges: perlSpace}, true
	case 'S':
		return ClassItem{Ranges: perlSpace, Negate: true}, true
	case 'w':
		return ClassItem{Ranges: perlWord}, true
	case 'W':
		return ClassItem{Ranges: perlWord, Negate: true}, true
	}
	return ClassItem{}, false
}

// unicodeClass looks up a \p name in the standard library tables.
func unicodeClass(name string) ([]rune, bool) {
	if name == "Any" {
		return []rune{0, unicode.MaxRune}, true
	}
	if t, ok := unicode.Categories[name]; ok {
		return tableRanges(t), true
	}
	if t, ok := unicode.Scripts[name]; ok {
		return tableRanges(t), true
	}
	return nil, false
}

func tableRanges(t *unicode.RangeTable) []rune {
	var r []rune
	for _, rg := range t.R16 {
		lo, hi, stride := rune(rg.Lo), rune(rg.Hi), rune(rg.Stride)
		if stride == 1 {
			r = append(r, lo, hi)
			continue
		}
		for c := lo; c <= hi; c += stride {
			r = append(r, c, c)
		}
	}
	for _, rg := range t.R32 {
		lo, hi, stride := rune(rg.Lo), rune(rg.Hi), rune(rg.Stride)
		if stride == 1 {
			r = append(r, lo, hi)
			continue
		}
		for c := lo; c <= hi; c += stride {
			r = append(r, c, c)
		}
	}
	return normalizeRanges(r)
}

// normalizeRanges sorts [lo, hi] pairs and merges overlapping or adjacent
// ones into a new slice.
func normalizeRanges(r []rune) []rune {
	if len(r) <= 2 {
		return append([]rune(nil), r...)
	}
	pairs := make([][2]rune, 0, len(r)/2)
	for i := 0; i+1 < len(r); i += 2 {
		pairs = append(pairs, [2]rune{r[i], r[i+1]})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	out := make([]rune, 0, len(r))
	for _, p := range pairs {
		n := len(out)
		if n > 0 && p[0] <= out[n-1]+1 {
			if p[1] > out[n-1] {
				out[n-1] = p[1]
			}
			continue
		}
		out = append(out, p[0], p[1])
	}
	return out
}

// negateRanges complements normalized ranges over [0, unicode.MaxRune].
func negateRanges(r []rune) []rune {
	out := make([]rune, 0, len(r)+2)
	next := rune(0)
	for i := 0; i+1 < len(r); i += 2 {
		if r[i] > next {
			out = append(out, next, r[i]-1)
		}
		next = r[i+1] + 1
	}
	if next <= unicode.MaxRune {
		out = append(out, next, unicode.MaxRune)
	}
	return out
}

// foldRanges closes ranges under unicode.SimpleFold.
func foldRanges(r []rune) []rune {
	out := make([]rune, 0, len(r))
	for i := 0; i+1 < len(r); i += 2 {
		out = appendFoldedRange(out, r[i], r[i+1])
	}
	return normalizeRanges(out)
}

func appendFoldedRange(r []rune, lo, hi rune) []rune {
	if lo <= minFold && hi >= maxFold {
		return append(r, lo, hi)
	}
	if hi < minFold || lo > maxFold {
		return append(r, lo, hi)
	}
	if lo < minFold {
		r = append(r, lo, minFold-1)
		lo = minFold
	}
	if hi > maxFold {
		r = append(r, maxFold+1, hi)
		hi = maxFold
	}
	for c := lo; c <= hi; c++ {
		r = append(r, c, c)
		for f := unicode.SimpleFold(c); f != c; f = unicode.SimpleFold(f) {
			r = append(r, f, f)
		}
	}
	return r
}

// FoldRune returns the simple case folding orbit of r as normalized ranges.
func FoldRune(r rune) []rune {
	return foldRanges([]rune{r, r})
}

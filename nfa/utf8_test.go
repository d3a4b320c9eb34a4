package nfa

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func formatSequences(seqs []utf8Sequence) string {
	var parts []string
	for i := range seqs {
		var b strings.Builder
		for _, r := range seqs[i].bytes() {
			if r.lo == r.hi {
				fmt.Fprintf(&b, "[%02X]", r.lo)
			} else {
				fmt.Fprintf(&b, "[%02X-%02X]", r.lo, r.hi)
			}
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, " ")
}

func TestUTF8Sequences(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi rune
		want   string
	}{
		{"ascii", 'a', 'z', "[61-7A]"},
		{"two byte", 0x80, 0x7FF, "[C2-DF][80-BF]"},
		{"single rune", 0x263A, 0x263A, "[E2][98][BA]"},
		{"surrogates only", 0xD800, 0xDFFF, ""},
		{"across surrogates", 0xD7FF, 0xE000, "[ED][9F][BF] [EE][80][80]"},
		{
			"all scalars", 0, utf8.MaxRune,
			"[00-7F] [C2-DF][80-BF] [E0][A0-BF][80-BF] [E1-EC][80-BF][80-BF] " +
				"[ED][80-9F][80-BF] [EE-EF][80-BF][80-BF] [F0][90-BF][80-BF][80-BF] " +
				"[F1-F3][80-BF][80-BF][80-BF] [F4][80-8F][80-BF][80-BF]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSequences(appendUTF8Sequences(nil, tt.lo, tt.hi))
			if got != tt.want {
				t.Errorf("sequences(%#x, %#x) =\n  %s\nwant\n  %s", tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func sequencesMatch(seqs []utf8Sequence, b []byte) bool {
	for i := range seqs {
		rs := seqs[i].bytes()
		if len(rs) != len(b) {
			continue
		}
		ok := true
		for j, r := range rs {
			if b[j] < r.lo || b[j] > r.hi {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Every scalar in the range is accepted and nothing outside it is.
func TestUTF8Sequences_Exact(t *testing.T) {
	ranges := [][2]rune{
		{0x41, 0x5A},
		{0x7F, 0x80},
		{0x3B1, 0x3C9},
		{0x7FE, 0x801},
		{0xFFFE, 0x10001},
		{0xD000, 0xE0FF},
		{0x10FFF0, 0x10FFFF},
	}
	var buf [utf8.UTFMax]byte
	for _, rg := range ranges {
		seqs := appendUTF8Sequences(nil, rg[0], rg[1])
		for r := rg[0] - 16; r <= rg[1]+16; r++ {
			if r < 0 || !utf8.ValidRune(r) {
				continue
			}
			n := utf8.EncodeRune(buf[:], r)
			want := r >= rg[0] && r <= rg[1]
			if got := sequencesMatch(seqs, buf[:n]); got != want {
				t.Errorf("range %#x-%#x: rune %#x accepted = %v, want %v", rg[0], rg[1], r, got, want)
			}
		}
	}
}

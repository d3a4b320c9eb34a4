package nfa

import "unicode/utf8"

// byteRange is an inclusive range of byte values.
type byteRange struct {
	lo, hi byte
}

// utf8Sequence is a sequence of 1 to 4 byte ranges matching exactly the
// UTF-8 encodings of a contiguous range of scalar values.
type utf8Sequence struct {
	n      int
	ranges [utf8.UTFMax]byteRange
}

func (s *utf8Sequence) bytes() []byteRange {
	return s.ranges[:s.n]
}

// Encoding boundaries: the largest scalar value encodable in 1, 2 and 3 bytes.
var utf8MaxScalar = [...]rune{0x7F, 0x7FF, 0xFFFF}

// appendUTF8Sequences appends the byte range sequences that match the UTF-8
// encodings of every scalar value in [lo, hi]. Surrogates are skipped, so
// the sequences never accept an invalid encoding.
//
// The range is split until each piece has a common encoded length and
// every continuation byte position covers a full or aligned sub-range;
// such a piece is then described exactly by encoding its endpoints.
func appendUTF8Sequences(dst []utf8Sequence, lo, hi rune) []utf8Sequence {
	type scalarRange struct{ lo, hi rune }
	stack := []scalarRange{{lo, hi}}

	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

	inner:
		for {
			if r.lo < 0xE000 && r.hi > 0xD7FF {
				stack = append(stack, scalarRange{0xE000, r.hi})
				r.hi = 0xD7FF
			}
			if r.lo > r.hi || r.lo > utf8.MaxRune {
				break
			}
			if r.hi > utf8.MaxRune {
				r.hi = utf8.MaxRune
			}

			for _, limit := range utf8MaxScalar {
				if r.lo <= limit && limit < r.hi {
					stack = append(stack, scalarRange{limit + 1, r.hi})
					r.hi = limit
					continue inner
				}
			}

			if r.hi <= 0x7F {
				var seq utf8Sequence
				seq.n = 1
				seq.ranges[0] = byteRange{byte(r.lo), byte(r.hi)}
				dst = append(dst, seq)
				break
			}

			for i := uint(1); i < utf8.UTFMax; i++ {
				m := rune(1)<<(6*i) - 1
				if r.lo&^m != r.hi&^m {
					if r.lo&m != 0 {
						stack = append(stack, scalarRange{(r.lo | m) + 1, r.hi})
						r.hi = r.lo | m
						continue inner
					}
					if r.hi&m != m {
						stack = append(stack, scalarRange{r.hi &^ m, r.hi})
						r.hi = r.hi&^m - 1
						continue inner
					}
				}
			}

			var start, end [utf8.UTFMax]byte
			n := utf8.EncodeRune(start[:], r.lo)
			utf8.EncodeRune(end[:], r.hi)
			var seq utf8Sequence
			seq.n = n
			for i := 0; i < n; i++ {
				seq.ranges[i] = byteRange{start[i], end[i]}
			}
			dst = append(dst, seq)
			break
		}
	}
	return dst
}

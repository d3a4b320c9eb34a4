package nfa

// ByteClasses maps each byte value to an equivalence class: two bytes share
// a class when no transition in the program distinguishes them. The lazy
// DFA indexes its transition tables by class instead of by byte.
//
// Example for pattern [a-z]+:
//   - Class 0: bytes 0x00-0x60
//   - Class 1: bytes 0x61-0x7a
//   - Class 2: bytes 0x7b-0xff
type ByteClasses struct {
	classes [256]byte
	n       int
}

// Get returns the equivalence class for the given byte.
func (bc *ByteClasses) Get(b byte) byte {
	return bc.classes[b]
}

// AlphabetLen returns the number of equivalence classes.
func (bc *ByteClasses) AlphabetLen() int {
	return bc.n
}

// Representatives returns the smallest byte of every class, in class order.
func (bc *ByteClasses) Representatives() []byte {
	reps := make([]byte, 0, bc.n)
	next := 0
	for b := 0; b < 256; b++ {
		if int(bc.classes[b]) == next {
			reps = append(reps, byte(b))
			next++
		}
	}
	return reps
}

// ByteClassSet collects class boundaries while the program is built.
// Bit i is set when bytes i and i+1 must be in different classes.
type ByteClassSet struct {
	bits [4]uint64
}

// NewByteClassSet creates an empty ByteClassSet with no boundaries.
func NewByteClassSet() *ByteClassSet {
	return &ByteClassSet{}
}

// SetRange marks [start, end] as distinguishable from its neighbours.
func (bcs *ByteClassSet) SetRange(start, end byte) {
	if start > 0 {
		bcs.setBit(start - 1)
	}
	bcs.setBit(end)
}

// SetByte is SetRange(b, b).
func (bcs *ByteClassSet) SetByte(b byte) {
	bcs.SetRange(b, b)
}

func (bcs *ByteClassSet) setBit(b byte) {
	bcs.bits[b/64] |= 1 << (b % 64)
}

func (bcs *ByteClassSet) getBit(b byte) bool {
	return bcs.bits[b/64]&(1<<(b%64)) != 0
}

// ByteClasses numbers the classes by walking the bytes in order and
// starting a new class after every boundary.
func (bcs *ByteClassSet) ByteClasses() ByteClasses {
	var bc ByteClasses
	class := 0
	for b := 0; b < 256; b++ {
		bc.classes[b] = byte(class)
		if b < 255 && bcs.getBit(byte(b)) {
			class++
		}
	}
	bc.n = class + 1
	return bc
}

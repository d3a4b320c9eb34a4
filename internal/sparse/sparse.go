// Package sparse provides the sparse set used as a thread list during NFA
// simulation.
//
// A sparse set supports O(1) insertion, membership testing and clearing while
// keeping a dense, insertion-ordered list of its members. Clearing only resets
// the length, so one set can be reused for every step of a search without
// touching its backing arrays.
package sparse

// SparseSet is a set of uint32 values drawn from [0, capacity).
//
// The sparse array maps a value to its index in dense; a value is a member
// when that index is below size and dense points back at the value. Stale
// entries in sparse are therefore harmless and never need to be zeroed.
type SparseSet struct {
	sparse []uint32
	dense  []uint32
	size   uint32
}

// NewSparseSet creates a set able to hold values in [0, capacity).
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, capacity),
	}
}

// Insert adds value to the set and reports whether it was newly added.
// Panics if value >= Capacity().
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	s.dense[s.size] = value
	s.sparse[value] = s.size
	s.size++
	return true
}

// Contains reports whether value is in the set.
func (s *SparseSet) Contains(value uint32) bool {
	if int(value) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[value]
	return idx < s.size && s.dense[idx] == value
}

// Clear empties the set in O(1).
func (s *SparseSet) Clear() {
	s.size = 0
}

// Len returns the number of members.
func (s *SparseSet) Len() int {
	return int(s.size)
}

// IsEmpty reports whether the set has no members.
func (s *SparseSet) IsEmpty() bool {
	return s.size == 0
}

// Capacity returns the exclusive upper bound on storable values.
func (s *SparseSet) Capacity() int {
	return len(s.sparse)
}

// Values returns the members in insertion order.
// The slice aliases internal storage and is valid until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense[:s.size]
}

// Resize grows the set so it can hold values in [0, capacity).
// Shrinking is a no-op. The set is cleared.
func (s *SparseSet) Resize(capacity uint32) {
	s.size = 0
	if int(capacity) <= len(s.sparse) {
		return
	}
	s.sparse = make([]uint32, capacity)
	s.dense = make([]uint32, capacity)
}

// SparseSets is the current/next pair of thread lists used by one search.
type SparseSets struct {
	Set1 *SparseSet
	Set2 *SparseSet
}

// NewSparseSets creates a pair of sets with the same capacity.
func NewSparseSets(capacity uint32) *SparseSets {
	return &SparseSets{
		Set1: NewSparseSet(capacity),
		Set2: NewSparseSet(capacity),
	}
}

// Swap exchanges Set1 and Set2.
func (ss *SparseSets) Swap() {
	ss.Set1, ss.Set2 = ss.Set2, ss.Set1
}

// Clear empties both sets.
func (ss *SparseSets) Clear() {
	ss.Set1.Clear()
	ss.Set2.Clear()
}

// Resize resizes and clears both sets.
func (ss *SparseSets) Resize(capacity uint32) {
	ss.Set1.Resize(capacity)
	ss.Set2.Resize(capacity)
}

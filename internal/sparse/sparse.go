// Package sparse provides a sparse set of program counters.
//
// The Pike VM uses one set per input round to remember which instructions
// have already been reached, so that a second thread arriving at the same
// instruction in the same round can be dropped. Insert, Contains and Clear
// are O(1), which keeps the per-round reset independent of program size.
package sparse

// Set is a set of uint32 values drawn from the universe [0, capacity).
// It keeps a sparse index (value -> position in dense) and a dense list of
// members in insertion order.
type Set struct {
	sparse []uint32
	dense  []uint32
}

// New creates a set able to hold values in [0, capacity).
func New(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Cap returns the size of the value universe.
func (s *Set) Cap() int {
	return len(s.sparse)
}

// Insert adds value to the set and reports whether it was newly added.
// Values outside the universe are never stored and report false.
func (s *Set) Insert(value uint32) bool {
	if int(value) >= len(s.sparse) || s.Contains(value) {
		return false
	}
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *Set) Contains(value uint32) bool {
	if int(value) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear empties the set in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.dense)
}

// Values returns the members in insertion order.
// The slice is only valid until the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}

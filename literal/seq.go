// Package literal extracts the literal byte strings every match of a
// pattern must begin with.
//
// The root package turns these prefixes into a prefilter: positions of the
// input where none of the prefixes occurs cannot begin a match, so the
// virtual machine never has to be started there.
//
// Key concepts:
//   - A Literal is a concrete byte sequence that begins some matches
//   - A Seq is a set of alternative literals covering every match
//   - An empty Seq carries no information: any position may begin a match
package literal

import (
	"bytes"
	"slices"
)

// Literal is a byte sequence extracted from a pattern. Complete reports
// whether the literal is an entire match rather than only its beginning.
//
// Example:
//   - Pattern /abc/ → Literal{[]byte("abc"), true}
//   - Pattern /ab+/ → Literal{[]byte("ab"), false}
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes, complete=true/false}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals. A non-empty Seq extracted from a
// pattern guarantees that every match begins with one of its literals.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Println(seq.Len()) // Output: 2
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// AllComplete reports whether the sequence is non-empty and every literal
// is an entire match.
func (s *Seq) AllComplete() bool {
	if s.IsEmpty() {
		return false
	}
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// MinLen returns the length of the shortest literal, or 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	n := len(s.literals[0].Bytes)
	for _, lit := range s.literals[1:] {
		n = min(n, len(lit.Bytes))
	}
	return n
}

// MaxLen returns the length of the longest literal, or 0 for an empty
// sequence.
func (s *Seq) MaxLen() int {
	n := 0
	for i := 0; i < s.Len(); i++ {
		n = max(n, len(s.literals[i].Bytes))
	}
	return n
}

// MakeInexact marks every literal as a prefix only.
func (s *Seq) MakeInexact() {
	if s == nil {
		return
	}
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}

// Minimize removes redundant literals from the sequence.
//
// For prefix search, a literal L is redundant if a kept literal S is a
// prefix of L: every position where L occurs is also found by S. Equal
// literals collapse into one that is complete only if both were.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "foo" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	slices.SortStableFunc(s.literals, func(a, b Literal) int {
		return len(a.Bytes) - len(b.Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for j := range kept {
			if bytes.HasPrefix(current.Bytes, kept[j].Bytes) {
				if len(current.Bytes) == len(kept[j].Bytes) {
					kept[j].Complete = kept[j].Complete && current.Complete
				} else {
					kept[j].Complete = false
				}
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// Union appends the literals of other to s.
func (s *Seq) Union(other *Seq) {
	if other == nil {
		return
	}
	s.literals = append(s.literals, other.literals...)
}

// Literals returns the literals in order. The slice is shared with s.
func (s *Seq) Literals() []Literal {
	if s == nil {
		return nil
	}
	return s.literals
}

// String returns a debugging representation such as [abc, ab+].
// Incomplete literals are marked with a trailing '+'.
func (s *Seq) String() string {
	var b bytes.Buffer
	b.WriteByte('[')
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Write(s.literals[i].Bytes)
		if !s.literals[i].Complete {
			b.WriteByte('+')
		}
	}
	b.WriteByte(']')
	return b.String()
}

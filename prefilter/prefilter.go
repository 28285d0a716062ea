// Package prefilter finds candidate match positions from extracted literal
// prefixes before the virtual machine runs.
//
// A prefilter reports the first position at or after a start offset where
// a match could begin. Positions it skips cannot begin a match, so the
// caller may start the full search at the reported position.
//
// The strategy follows the number and length of the literals:
//   - Single byte → Memchr
//   - Single substring → Memmem
//   - Several literals → Aho-Corasick automaton
//
// Example usage:
//
//	re := syntax.MustParse("(hello|world)")
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//
//	pf := prefilter.NewBuilder(prefixes).Build()
//	pos := pf.Find("foo hello bar world baz", 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"strings"
	"unsafe"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/thompson/literal"
)

// Prefilter is used to quickly find candidate match positions before running
// the full regex engine.
type Prefilter interface {
	// Find returns a position >= start no later than the first occurrence
	// of any literal at or after start, or -1 if no literal occurs there.
	// Every position in [start, result) is guaranteed not to begin a
	// match.
	Find(haystack string, start int) int

	// IsComplete returns true if a literal occurrence is a full match.
	IsComplete() bool

	// LiteralLen returns the length of the literal when IsComplete is true
	// and all literals share one length, 0 otherwise.
	LiteralLen() int
}

// Builder constructs the prefilter for a literal sequence.
//
// Example:
//
//	pf := prefilter.NewBuilder(prefixes).Build()
//	if pf != nil {
//	    pos := pf.Find(haystack, 0)
//	}
type Builder struct {
	prefixes *literal.Seq
}

// NewBuilder creates a new prefilter builder from extracted prefixes.
// prefixes may be nil, in which case Build returns nil.
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes}
}

// Build constructs the best prefilter for the given literals.
//
// Returns nil when there are no literals or the automaton cannot be built;
// the caller then searches without a prefilter.
func (b *Builder) Build() Prefilter {
	seq := b.prefixes
	if seq.IsEmpty() {
		return nil
	}

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 0 {
			return nil
		}
		if len(lit.Bytes) == 1 {
			return newMemchrPrefilter(lit.Bytes[0], lit.Complete)
		}
		return newMemmemPrefilter(lit.Bytes, lit.Complete)
	}

	if seq.MinLen() == 0 {
		return nil
	}
	pf, err := newAhoCorasickPrefilter(seq)
	if err != nil {
		return nil
	}
	return pf
}

// memchrPrefilter searches for a single byte.
//
// Example patterns:
//
//	/a.*/         → search for 'a'
//	/\(x\)/       → search for '('
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{
		needle:   needle,
		complete: complete,
	}
}

// Find implements Prefilter.Find using strings.IndexByte.
func (p *memchrPrefilter) Find(haystack string, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := strings.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// memmemPrefilter searches for a single substring.
//
// Example patterns:
//
//	/hello/       → search for "hello"
//	/ab+c/        → search for "ab"
type memmemPrefilter struct {
	needle   string
	complete bool
}

func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	return &memmemPrefilter{
		needle:   string(needle),
		complete: complete,
	}
}

// Find implements Prefilter.Find using strings.Index.
func (p *memmemPrefilter) Find(haystack string, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := strings.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// ahoCorasickPrefilter searches for several literals at once.
//
// The automaton reports one occurrence per call. Another literal may begin
// before the reported one and end after it, so the candidate is moved back
// to End-maxLen, the earliest start such a longer literal could have.
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	minLen   int
	maxLen   int
	complete bool
}

func newAhoCorasickPrefilter(seq *literal.Seq) (Prefilter, error) {
	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &ahoCorasickPrefilter{
		auto:     auto,
		minLen:   seq.MinLen(),
		maxLen:   seq.MaxLen(),
		complete: seq.AllComplete(),
	}, nil
}

// Find implements Prefilter.Find using the Aho-Corasick automaton. The
// automaton only reads the haystack, so it gets a view of the string's
// bytes instead of a copy.
func (p *ahoCorasickPrefilter) Find(haystack string, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(unsafe.Slice(unsafe.StringData(haystack), len(haystack)), start)
	if m == nil {
		return -1
	}
	return max(start, min(m.Start, m.End-p.maxLen))
}

// IsComplete implements Prefilter.IsComplete.
func (p *ahoCorasickPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *ahoCorasickPrefilter) LiteralLen() int {
	if p.complete && p.minLen == p.maxLen {
		return p.minLen
	}
	return 0
}

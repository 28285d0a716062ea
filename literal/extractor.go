package literal

import (
	"github.com/coregx/thompson/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits keep extraction cheap on complex patterns:
//   - MaxLiterals: caps alternations like (a|b|c|d|...)
//   - MaxLiteralLen: truncates long literals to a searchable prefix
//   - MaxClassSize: expands only small classes such as [a-c] or \d
type ExtractorConfig struct {
	// MaxLiterals limits the number of literals in a sequence. A sequence
	// that would grow beyond it is abandoned. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each literal; longer ones are cut
	// and marked incomplete. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of classes and ranges expanded into one
	// literal per byte. Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// maxDepth bounds the nesting the extractor descends into; deeper
// subexpressions yield no literals.
const maxDepth = 100

// Extractor extracts literal sequences from syntax trees.
//
// Example:
//
//	re := syntax.MustParse("(hello|world)+")
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	// prefixes = [hello+, world+]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
// Non-positive limits are replaced by their defaults.
func New(config ExtractorConfig) *Extractor {
	def := DefaultConfig()
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = def.MaxLiterals
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = def.MaxLiteralLen
	}
	if config.MaxClassSize <= 0 {
		config.MaxClassSize = def.MaxClassSize
	}
	return &Extractor{config: config}
}

// ExtractPrefixes returns literals one of which begins every match of re.
// The result is empty when no such set exists within the configured
// limits, in particular when re can match the empty string.
//
// Examples:
//
//	"hello"         → [hello]
//	"(foo|bar)"     → [foo, bar]
//	"[a-c]x"        → [ax, bx, cx]
//	"ab+c"          → [ab+]
//	"a*b"           → []
func (e *Extractor) ExtractPrefixes(re *syntax.Regexp) *Seq {
	seq := e.extractPrefixes(re, 0)
	seq.Minimize()
	return seq
}

func (e *Extractor) extractPrefixes(re *syntax.Regexp, depth int) *Seq {
	if re == nil || depth > maxDepth {
		return NewSeq()
	}

	switch re.Op {
	case syntax.OpLit:
		return NewSeq(NewLiteral([]byte{re.Char}, true))

	case syntax.OpClass:
		return e.expand(func(c byte) bool { return re.Class.Contains(c) })

	case syntax.OpRange:
		if int(re.Hi)-int(re.Lo)+1 > e.config.MaxClassSize {
			return NewSeq()
		}
		return e.expand(func(c byte) bool { return re.Lo <= c && c <= re.Hi })

	case syntax.OpParen:
		return e.extractPrefixes(re.Left, depth+1)

	case syntax.OpPlus:
		seq := e.extractPrefixes(re.Left, depth+1)
		seq.MakeInexact()
		return seq

	case syntax.OpRepeat:
		if re.Min == 0 {
			return NewSeq()
		}
		seq := e.extractPrefixes(re.Left, depth+1)
		if re.Min != 1 || re.Max != 1 {
			seq.MakeInexact()
		}
		return seq

	case syntax.OpAlt:
		out := NewSeq()
		for re.Op == syntax.OpAlt {
			if !e.union(out, e.extractPrefixes(re.Left, depth+1)) {
				return NewSeq()
			}
			re = re.Right
		}
		if !e.union(out, e.extractPrefixes(re, depth+1)) {
			return NewSeq()
		}
		return out

	case syntax.OpCat:
		return e.extractConcat(re, depth)

	default:
		// OpDot, OpQuest, OpStar: no required literal.
		return NewSeq()
	}
}

// union adds next to out and reports whether the result is still usable.
func (e *Extractor) union(out, next *Seq) bool {
	if next.IsEmpty() || out.Len()+next.Len() > e.config.MaxLiterals {
		return false
	}
	out.Union(next)
	return true
}

// extractConcat walks the concatenation spine left to right, extending the
// complete literals of the prefix so far with the prefixes of the next
// operand.
func (e *Extractor) extractConcat(re *syntax.Regexp, depth int) *Seq {
	acc := e.extractPrefixes(re.Left, depth+1)
	re = re.Right
	for !acc.IsEmpty() && e.hasExtensible(acc) {
		var next *syntax.Regexp
		if re.Op == syntax.OpCat {
			next, re = re.Left, re.Right
		} else {
			next, re = re, nil
		}

		acc = e.cross(acc, e.extractPrefixes(next, depth+1))
		if re == nil {
			break
		}
	}
	if re != nil {
		// Operands remain that were never appended.
		acc.MakeInexact()
	}
	return acc
}

func (e *Extractor) hasExtensible(seq *Seq) bool {
	for _, lit := range seq.Literals() {
		if lit.Complete && len(lit.Bytes) < e.config.MaxLiteralLen {
			return true
		}
	}
	return false
}

// cross appends every literal of right to every complete literal of left.
// When right carries no information or the product is too large, the
// complete literals of left become prefixes instead.
func (e *Extractor) cross(left, right *Seq) *Seq {
	complete := 0
	for _, lit := range left.Literals() {
		if lit.Complete {
			complete++
		}
	}
	if right.IsEmpty() || (left.Len()-complete)+complete*right.Len() > e.config.MaxLiterals {
		left.MakeInexact()
		return left
	}

	out := make([]Literal, 0, left.Len()-complete+complete*right.Len())
	for _, l := range left.Literals() {
		if !l.Complete {
			out = append(out, l)
			continue
		}
		for _, r := range right.Literals() {
			b := make([]byte, 0, len(l.Bytes)+len(r.Bytes))
			b = append(b, l.Bytes...)
			b = append(b, r.Bytes...)
			lit := NewLiteral(b, r.Complete)
			if len(lit.Bytes) > e.config.MaxLiteralLen {
				lit = NewLiteral(lit.Bytes[:e.config.MaxLiteralLen], false)
			}
			out = append(out, lit)
		}
	}
	return NewSeq(out...)
}

// expand returns one complete literal per byte accepted by in, or an empty
// sequence when more than MaxClassSize bytes qualify.
func (e *Extractor) expand(in func(c byte) bool) *Seq {
	var lits []Literal
	for c := 0; c < 256; c++ {
		if !in(byte(c)) {
			continue
		}
		if len(lits) == e.config.MaxClassSize {
			return NewSeq()
		}
		lits = append(lits, NewLiteral([]byte{byte(c)}, true))
	}
	return NewSeq(lits...)
}

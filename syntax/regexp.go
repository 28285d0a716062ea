// Package syntax parses regular expressions into a binary syntax tree.
//
// The grammar is deliberately small: literals, '.', the ASCII classes
// \w \d \s, single ranges [a-z], capturing groups, alternation and the
// quantifiers + ? * {m} {m,n} {m,}. Positional anchors are not part of the
// grammar; callers strip them before parsing.
//
// Trees are built once by Parse and consumed once by the compiler in
// package nfa. Every node exclusively owns its children.
package syntax

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// RepeatInf is the upper bound of an open repetition such as a{2,}.
const RepeatInf = math.MaxInt

// Op identifies the kind of a Regexp node.
type Op uint8

const (
	// OpAlt matches Left or Right.
	OpAlt Op = iota + 1

	// OpCat matches Left followed by Right.
	OpCat

	// OpLit matches the single byte Char.
	OpLit

	// OpDot matches any byte.
	OpDot

	// OpClass matches one byte of the ASCII class Class.
	OpClass

	// OpRange matches one byte in [Lo, Hi].
	OpRange

	// OpParen is a capturing group around Left.
	OpParen

	// OpPlus matches Left one or more times.
	OpPlus

	// OpQuest matches Left zero or one time.
	OpQuest

	// OpStar matches Left zero or more times.
	OpStar

	// OpRepeat matches Left between Min and Max times.
	OpRepeat
)

// String returns the upper-case node name used by Dump.
func (op Op) String() string {
	switch op {
	case OpAlt:
		return "ALT"
	case OpCat:
		return "CAT"
	case OpLit:
		return "LIT"
	case OpDot:
		return "DOT"
	case OpClass:
		return "CLASS"
	case OpRange:
		return "RANGE"
	case OpParen:
		return "PAREN"
	case OpPlus:
		return "PLUS"
	case OpQuest:
		return "QUEST"
	case OpStar:
		return "STAR"
	case OpRepeat:
		return "REPEAT"
	default:
		return fmt.Sprintf("Op(%d)", op)
	}
}

// ClassKind selects one of the ASCII escape classes.
type ClassKind uint8

const (
	// ClassWord is \w: [0-9A-Za-z_].
	ClassWord ClassKind = iota + 1

	// ClassDigit is \d: [0-9].
	ClassDigit

	// ClassSpace is \s: [\t\n\v\f\r ].
	ClassSpace
)

// Letter returns the escape letter of the class ('w', 'd' or 's').
func (k ClassKind) Letter() byte {
	switch k {
	case ClassWord:
		return 'w'
	case ClassDigit:
		return 'd'
	case ClassSpace:
		return 's'
	default:
		return '?'
	}
}

// Contains reports whether c belongs to the class.
func (k ClassKind) Contains(c byte) bool {
	switch k {
	case ClassWord:
		return IsWordByte(c)
	case ClassDigit:
		return IsDigitByte(c)
	case ClassSpace:
		return IsSpaceByte(c)
	default:
		return false
	}
}

// IsWordByte reports whether c is an ASCII word character [0-9A-Za-z_].
func IsWordByte(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || IsDigitByte(c) || c == '_'
}

// IsDigitByte reports whether c is an ASCII digit.
func IsDigitByte(c byte) bool {
	return '0' <= c && c <= '9'
}

// IsSpaceByte reports whether c is ASCII white space.
func IsSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Regexp is a node of the syntax tree. Which fields are meaningful depends
// on Op; the constructors below set exactly those fields.
type Regexp struct {
	Op Op

	// Left is the operand of unary nodes and the first operand of OpAlt/OpCat.
	Left *Regexp
	// Right is the second operand of OpAlt/OpCat.
	Right *Regexp

	Char  byte      // OpLit
	Class ClassKind // OpClass
	Lo    byte      // OpRange
	Hi    byte      // OpRange
	Min   int       // OpRepeat
	Max   int       // OpRepeat, RepeatInf when unbounded
}

// Alt returns a node matching left or right.
func Alt(left, right *Regexp) *Regexp {
	return &Regexp{Op: OpAlt, Left: left, Right: right}
}

// Cat returns a node matching left followed by right.
func Cat(left, right *Regexp) *Regexp {
	return &Regexp{Op: OpCat, Left: left, Right: right}
}

// Lit returns a node matching the byte c.
func Lit(c byte) *Regexp {
	return &Regexp{Op: OpLit, Char: c}
}

// Dot returns a node matching any byte.
func Dot() *Regexp {
	return &Regexp{Op: OpDot}
}

// Class returns a node matching one byte of the class k.
func Class(k ClassKind) *Regexp {
	return &Regexp{Op: OpClass, Class: k}
}

// Range returns a node matching one byte in [lo, hi].
func Range(lo, hi byte) *Regexp {
	return &Regexp{Op: OpRange, Lo: lo, Hi: hi}
}

// Paren returns a capturing group around sub.
func Paren(sub *Regexp) *Regexp {
	return &Regexp{Op: OpParen, Left: sub}
}

// Plus returns sub+.
func Plus(sub *Regexp) *Regexp {
	return &Regexp{Op: OpPlus, Left: sub}
}

// Quest returns sub?.
func Quest(sub *Regexp) *Regexp {
	return &Regexp{Op: OpQuest, Left: sub}
}

// Star returns sub*.
func Star(sub *Regexp) *Regexp {
	return &Regexp{Op: OpStar, Left: sub}
}

// Repeat returns sub{min,max}. Use RepeatInf for an open upper bound.
func Repeat(sub *Regexp, min, max int) *Regexp {
	return &Regexp{Op: OpRepeat, Left: sub, Min: min, Max: max}
}

// Validate checks that re is well formed: every node has the children its
// Op requires, ranges and repetitions have lo <= hi, and repetition bounds
// are non-negative. It returns ErrMalformed wrapped with a description.
func Validate(re *Regexp) error {
	if re == nil {
		return fmt.Errorf("%w: nil node", ErrMalformed)
	}
	switch re.Op {
	case OpAlt, OpCat:
		// Walk the right spine iteratively; long literals are long Cat chains.
		for re.Op == OpAlt || re.Op == OpCat {
			if re.Right == nil {
				return fmt.Errorf("%w: %s without right operand", ErrMalformed, re.Op)
			}
			if err := Validate(re.Left); err != nil {
				return err
			}
			re = re.Right
		}
		return Validate(re)
	case OpLit, OpDot:
		return validateLeaf(re)
	case OpClass:
		if re.Class < ClassWord || re.Class > ClassSpace {
			return fmt.Errorf("%w: unknown class %d", ErrMalformed, re.Class)
		}
		return validateLeaf(re)
	case OpRange:
		if re.Lo > re.Hi {
			return fmt.Errorf("%w: range [%c-%c] out of order", ErrMalformed, re.Lo, re.Hi)
		}
		return validateLeaf(re)
	case OpParen, OpPlus, OpQuest, OpStar:
		if re.Right != nil {
			return fmt.Errorf("%w: %s with right operand", ErrMalformed, re.Op)
		}
		return Validate(re.Left)
	case OpRepeat:
		if re.Min < 0 || re.Min > re.Max {
			return fmt.Errorf("%w: repeat {%d,%d} out of order", ErrMalformed, re.Min, re.Max)
		}
		if re.Right != nil {
			return fmt.Errorf("%w: %s with right operand", ErrMalformed, re.Op)
		}
		return Validate(re.Left)
	default:
		return fmt.Errorf("%w: unknown op %d", ErrMalformed, re.Op)
	}
}

func validateLeaf(re *Regexp) error {
	if re.Left != nil || re.Right != nil {
		return fmt.Errorf("%w: %s with operands", ErrMalformed, re.Op)
	}
	return nil
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b *Regexp) bool {
	for {
		if a == nil || b == nil {
			return a == b
		}
		if a.Op != b.Op {
			return false
		}
		switch a.Op {
		case OpAlt, OpCat:
			if !Equal(a.Left, b.Left) {
				return false
			}
			a, b = a.Right, b.Right
			continue
		case OpLit:
			return a.Char == b.Char
		case OpDot:
			return true
		case OpClass:
			return a.Class == b.Class
		case OpRange:
			return a.Lo == b.Lo && a.Hi == b.Hi
		case OpRepeat:
			if a.Min != b.Min || a.Max != b.Max {
				return false
			}
		}
		a, b = a.Left, b.Left
	}
}

// NumGroups returns the number of capturing groups in re.
func NumGroups(re *Regexp) int {
	n := 0
	for re != nil {
		switch re.Op {
		case OpAlt, OpCat:
			n += NumGroups(re.Left)
			re = re.Right
			continue
		case OpParen:
			n++
		}
		re = re.Left
	}
	return n
}

// String renders re in pattern syntax. Trees produced by Parse render back
// to an equivalent pattern; hand-built trees whose shape has no pattern
// form (an alternation under a concatenation without a group, say) are
// bracketed with "(?:" ... ")" for readability only. The same goes for
// literal bytes the parser does not accept, which render as "(?:\xHH)".
func (re *Regexp) String() string {
	var b strings.Builder
	writeRegexp(&b, re)
	return b.String()
}

// escapable lists the bytes that need a backslash to be literal.
const escapable = `.+?*|\()[]{}^$`

func writeRegexp(b *strings.Builder, re *Regexp) {
	if re == nil {
		b.WriteString("<nil>")
		return
	}
	switch re.Op {
	case OpAlt:
		writeRegexp(b, re.Left)
		b.WriteByte('|')
		writeRegexp(b, re.Right)
	case OpCat:
		writeOperand(b, re.Left, isAlt(re.Left))
		writeOperand(b, re.Right, isAlt(re.Right))
	case OpLit:
		switch {
		case strings.IndexByte(escapable, re.Char) >= 0:
			b.WriteByte('\\')
			b.WriteByte(re.Char)
		case isLiteral(re.Char):
			b.WriteByte(re.Char)
		default:
			fmt.Fprintf(b, "(?:\\x%02x)", re.Char)
		}
	case OpDot:
		b.WriteByte('.')
	case OpClass:
		b.WriteByte('\\')
		b.WriteByte(re.Class.Letter())
	case OpRange:
		b.WriteByte('[')
		b.WriteByte(re.Lo)
		b.WriteByte('-')
		b.WriteByte(re.Hi)
		b.WriteByte(']')
	case OpParen:
		b.WriteByte('(')
		writeRegexp(b, re.Left)
		b.WriteByte(')')
	case OpPlus, OpQuest, OpStar, OpRepeat:
		writeOperand(b, re.Left, !isAtom(re.Left))
		writeQuantifier(b, re)
	default:
		b.WriteString(re.Op.String())
	}
}

func writeOperand(b *strings.Builder, re *Regexp, group bool) {
	if !group {
		writeRegexp(b, re)
		return
	}
	b.WriteString("(?:")
	writeRegexp(b, re)
	b.WriteByte(')')
}

func writeQuantifier(b *strings.Builder, re *Regexp) {
	switch re.Op {
	case OpPlus:
		b.WriteByte('+')
	case OpQuest:
		b.WriteByte('?')
	case OpStar:
		b.WriteByte('*')
	case OpRepeat:
		b.WriteByte('{')
		b.WriteString(strconv.Itoa(re.Min))
		switch {
		case re.Max == RepeatInf:
			b.WriteByte(',')
		case re.Max != re.Min:
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(re.Max))
		}
		b.WriteByte('}')
	}
}

func isAlt(re *Regexp) bool {
	return re != nil && re.Op == OpAlt
}

// isAtom reports whether re can take a quantifier without grouping.
func isAtom(re *Regexp) bool {
	if re == nil {
		return true
	}
	switch re.Op {
	case OpLit, OpDot, OpClass, OpRange, OpParen:
		return true
	}
	return false
}

// Dump writes an indented tree listing of re to w:
//
//	CAT
//	|--PLUS
//	    |--LIT a
//	|--LIT b
func Dump(w io.Writer, re *Regexp) error {
	return dump(w, re, 0)
}

func dump(w io.Writer, re *Regexp, depth int) error {
	if depth > 0 {
		if _, err := io.WriteString(w, strings.Repeat(" ", (depth-1)*4)+"|--"); err != nil {
			return err
		}
	}
	if re == nil {
		_, err := io.WriteString(w, "<nil>\n")
		return err
	}

	var err error
	switch re.Op {
	case OpLit:
		_, err = fmt.Fprintf(w, "LIT %c\n", re.Char)
	case OpClass:
		_, err = fmt.Fprintf(w, "CLASS %c\n", re.Class.Letter())
	case OpRange:
		_, err = fmt.Fprintf(w, "RANGE %c %c\n", re.Lo, re.Hi)
	case OpRepeat:
		if re.Max == RepeatInf {
			_, err = fmt.Fprintf(w, "REPEAT %d inf\n", re.Min)
		} else {
			_, err = fmt.Fprintf(w, "REPEAT %d %d\n", re.Min, re.Max)
		}
	default:
		_, err = fmt.Fprintln(w, re.Op)
	}
	if err != nil {
		return err
	}

	switch re.Op {
	case OpAlt, OpCat:
		if err := dump(w, re.Left, depth+1); err != nil {
			return err
		}
		return dump(w, re.Right, depth+1)
	case OpParen, OpPlus, OpQuest, OpStar, OpRepeat:
		return dump(w, re.Left, depth+1)
	}
	return nil
}

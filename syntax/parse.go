package syntax

import (
	"fmt"
	"strings"
)

// DefaultMaxDepth is the group nesting limit used by Parse.
const DefaultMaxDepth = 1000

// literalPunct lists the punctuation accepted without a backslash.
const literalPunct = "~!@#%&=:;,_<>-"

// Parse parses pattern into a syntax tree.
//
// Grammar, in descending precedence:
//
//	regexp := alt
//	alt    := concat ('|' alt)?
//	concat := repeat concat?
//	repeat := single ('+' | '?' | '*' | '{m}' | '{m,n}' | '{m,}')?
//	single := '(' regexp ')' | '[' c '-' c ']' | '\' c | literal | '.'
//
// Concatenation and alternation associate to the right, so "abc" parses
// as Cat(a, Cat(b, c)).
func Parse(pattern string) (*Regexp, error) {
	return ParseWithDepth(pattern, DefaultMaxDepth)
}

// ParseWithDepth is like Parse but limits group nesting to maxDepth.
// A non-positive maxDepth selects DefaultMaxDepth.
func ParseWithDepth(pattern string, maxDepth int) (*Regexp, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{src: pattern, maxDepth: maxDepth}

	re, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		// Only an unbalanced ')' stops the top-level alternation early.
		return nil, p.errorf(ErrMissingParen, "unexpected %q", p.peek())
	}
	if err := Validate(re); err != nil {
		return nil, &SyntaxError{Pattern: pattern, Pos: len(pattern), Err: err}
	}
	return re, nil
}

// MustParse is like Parse but panics if the pattern cannot be parsed.
func MustParse(pattern string) *Regexp {
	re, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

type parser struct {
	src      string
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) errorf(kind error, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Pattern: p.src,
		Pos:     p.pos,
		Err:     fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)),
	}
}

// parseAlt parses concat ('|' concat)* and folds the branches to the right.
func (p *parser) parseAlt() (*Regexp, error) {
	var branches []*Regexp
	for {
		branch, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
		if p.eof() || p.peek() != '|' {
			break
		}
		p.pos++
	}
	return foldRight(branches, Alt), nil
}

// parseConcat parses one or more repeats up to '|', ')' or the end.
func (p *parser) parseConcat() (*Regexp, error) {
	var items []*Regexp
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		item, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		if p.eof() {
			return nil, p.errorf(ErrMissingExpr, "expression expected at end of pattern")
		}
		return nil, p.errorf(ErrMissingExpr, "expression expected before %q", p.peek())
	}
	return foldRight(items, Cat), nil
}

func foldRight(nodes []*Regexp, join func(left, right *Regexp) *Regexp) *Regexp {
	re := nodes[len(nodes)-1]
	for i := len(nodes) - 2; i >= 0; i-- {
		re = join(nodes[i], re)
	}
	return re
}

// parseRepeat parses a single followed by at most one quantifier.
func (p *parser) parseRepeat() (*Regexp, error) {
	re, err := p.parseSingle()
	if err != nil {
		return nil, err
	}
	if p.eof() {
		return re, nil
	}
	switch p.peek() {
	case '+':
		p.pos++
		return Plus(re), nil
	case '?':
		p.pos++
		return Quest(re), nil
	case '*':
		p.pos++
		return Star(re), nil
	case '{':
		min, max, err := p.parseBounds()
		if err != nil {
			return nil, err
		}
		return Repeat(re, min, max), nil
	}
	return re, nil
}

// parseBounds parses {m}, {m,n} or {m,} starting at '{'.
func (p *parser) parseBounds() (min, max int, err error) {
	start := p.pos
	p.pos++ // '{'

	min, ok := p.parseInt()
	if !ok {
		p.pos = start
		return 0, 0, p.errorf(ErrInvalidRepeat, "count expected after '{'")
	}
	max = min
	if !p.eof() && p.peek() == ',' {
		p.pos++
		max = RepeatInf
		if !p.eof() && p.peek() != '}' {
			if max, ok = p.parseInt(); !ok {
				p.pos = start
				return 0, 0, p.errorf(ErrInvalidRepeat, "upper bound expected after ','")
			}
		}
	}
	if p.eof() || p.peek() != '}' {
		p.pos = start
		return 0, 0, p.errorf(ErrInvalidRepeat, "missing '}'")
	}
	p.pos++
	if min > max {
		p.pos = start
		return 0, 0, p.errorf(ErrInvalidRepeat, "{%d,%d} has lower bound above upper bound", min, max)
	}
	return min, max, nil
}

// parseInt reads a non-empty run of decimal digits.
func (p *parser) parseInt() (int, bool) {
	start := p.pos
	n := 0
	for !p.eof() && IsDigitByte(p.peek()) {
		d := int(p.peek() - '0')
		if n > (RepeatInf-d)/10 {
			return 0, false
		}
		n = n*10 + d
		p.pos++
	}
	return n, p.pos > start
}

// parseSingle parses a group, a range, an escape, '.' or a literal.
func (p *parser) parseSingle() (*Regexp, error) {
	c := p.peek()
	switch {
	case c == '(':
		return p.parseGroup()
	case c == '[':
		return p.parseRange()
	case c == '\\':
		return p.parseEscape()
	case c == '.':
		p.pos++
		return Dot(), nil
	case isLiteral(c):
		p.pos++
		return Lit(c), nil
	case c == '+' || c == '?' || c == '*' || c == '{':
		return nil, p.errorf(ErrMissingExpr, "missing argument to repetition operator %q", c)
	default:
		return nil, p.errorf(ErrUnexpectedChar, "%q must be escaped or is not supported", c)
	}
}

func (p *parser) parseGroup() (*Regexp, error) {
	start := p.pos
	if p.depth >= p.maxDepth {
		return nil, p.errorf(ErrTooDeep, "more than %d nested groups", p.maxDepth)
	}
	p.depth++
	p.pos++ // '('

	inner, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.eof() {
		p.pos = start
		return nil, p.errorf(ErrMissingParen, "missing ')'")
	}
	p.pos++ // ')'
	p.depth--
	return Paren(inner), nil
}

// parseRange parses exactly '[' lo '-' hi ']'.
func (p *parser) parseRange() (*Regexp, error) {
	if p.pos+4 >= len(p.src) {
		return nil, p.errorf(ErrInvalidRange, "expected [lo-hi]")
	}
	lo, dash, hi, closing := p.src[p.pos+1], p.src[p.pos+2], p.src[p.pos+3], p.src[p.pos+4]
	if dash != '-' || closing != ']' {
		return nil, p.errorf(ErrInvalidRange, "expected [lo-hi], found %q", p.src[p.pos:p.pos+5])
	}
	if lo > hi {
		return nil, p.errorf(ErrInvalidRange, "[%c-%c] is out of order", lo, hi)
	}
	p.pos += 5
	return Range(lo, hi), nil
}

func (p *parser) parseEscape() (*Regexp, error) {
	if p.pos+1 >= len(p.src) {
		return nil, p.errorf(ErrInvalidEscape, "trailing backslash")
	}
	c := p.src[p.pos+1]
	var re *Regexp
	switch {
	case c == 'w':
		re = Class(ClassWord)
	case c == 'd':
		re = Class(ClassDigit)
	case c == 's':
		re = Class(ClassSpace)
	case strings.IndexByte(escapable, c) >= 0:
		re = Lit(c)
	default:
		return nil, p.errorf(ErrInvalidEscape, `\%c`, c)
	}
	p.pos += 2
	return re, nil
}

// isLiteral reports whether c may appear unescaped: ASCII letters and
// digits, ASCII white space and the punctuation in literalPunct.
func isLiteral(c byte) bool {
	if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || IsDigitByte(c) || IsSpaceByte(c) {
		return true
	}
	return strings.IndexByte(literalPunct, c) >= 0
}

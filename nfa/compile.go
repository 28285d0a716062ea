package nfa

import (
	"fmt"

	"github.com/coregx/thompson/internal/conv"
	"github.com/coregx/thompson/syntax"
)

// CompilerConfig configures program compilation
type CompilerConfig struct {
	// MaxRecursionDepth limits the nesting of groups and quantifiers the
	// compiler descends into. Concatenation and alternation chains do not
	// count. Default: 1000
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRecursionDepth: 1000,
	}
}

// Compiler compiles syntax trees into programs. A Compiler is not safe for
// concurrent use; the programs it returns are.
type Compiler struct {
	config   CompilerConfig
	builder  *Builder
	nextSlot uint32
}

// NewCompiler creates a new compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRecursionDepth <= 0 {
		config.MaxRecursionDepth = DefaultCompilerConfig().MaxRecursionDepth
	}
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a new compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile compiles re with the default configuration.
func Compile(re *syntax.Regexp) (*Program, error) {
	return NewDefaultCompiler().Compile(re)
}

// Compile translates re into a program ending in OpMatch.
//
// The instruction count is computed first and the program is emitted into a
// builder of exactly that size; a mismatch is reported as an
// *InvalidProgramError.
func (c *Compiler) Compile(re *syntax.Regexp) (*Program, error) {
	if err := syntax.Validate(re); err != nil {
		return nil, &CompileError{Err: err}
	}
	n, err := c.count(re, 0)
	if err != nil {
		return nil, &CompileError{Err: err}
	}

	c.builder = NewBuilderWithCapacity(n + 1)
	c.nextSlot = 0
	if err := c.emit(re); err != nil {
		return nil, &CompileError{Err: err}
	}
	c.builder.AddMatch()

	prog, err := c.builder.Build()
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	return prog, nil
}

// Count returns the number of instructions Compile emits for re, including
// the trailing OpMatch.
func Count(re *syntax.Regexp) int {
	c := NewCompiler(CompilerConfig{MaxRecursionDepth: int(^uint(0) >> 1)})
	n, err := c.count(re, 0)
	if err != nil {
		return 0
	}
	return n + 1
}

// count returns the instruction count of re without the trailing match.
func (c *Compiler) count(re *syntax.Regexp, depth int) (int, error) {
	if depth > c.config.MaxRecursionDepth {
		return 0, fmt.Errorf("%w: nesting exceeds depth %d", ErrTooComplex, c.config.MaxRecursionDepth)
	}
	total := 0
	for re.Op == syntax.OpCat || re.Op == syntax.OpAlt {
		if re.Op == syntax.OpAlt {
			total += 2
		}
		n, err := c.count(re.Left, depth)
		if err != nil {
			return 0, err
		}
		total += n
		re = re.Right
	}

	switch re.Op {
	case syntax.OpLit, syntax.OpDot, syntax.OpClass, syntax.OpRange:
		return total + 1, nil
	}

	n, err := c.count(re.Left, depth+1)
	if err != nil {
		return 0, err
	}
	switch re.Op {
	case syntax.OpParen, syntax.OpStar:
		n += 2
	case syntax.OpPlus, syntax.OpQuest:
		n++
	case syntax.OpRepeat:
		n += 5
	default:
		return 0, fmt.Errorf("%w: cannot count %s", ErrInvalidProgram, re.Op)
	}
	return total + n, nil
}

// emit appends the instructions for re. Control-flow layouts:
//
//	Alt     SPLIT r (left first); l; JMP end; r
//	Plus    P: e; SPLIT P greedy
//	Quest   SPLIT end; e
//	Star    S: SPLIT end; e; JMP S
//	Repeat  SET c 0; S: SPLIT C; e; INCR c; JMP S; C: CHECK c
//
// Every split schedules the branch entering or repeating the operand first.
func (c *Compiler) emit(re *syntax.Regexp) error {
	b := c.builder

	switch re.Op {
	case syntax.OpCat:
		for re.Op == syntax.OpCat {
			if err := c.emit(re.Left); err != nil {
				return err
			}
			re = re.Right
		}
		return c.emit(re)

	case syntax.OpAlt:
		var jumps []InstID
		for re.Op == syntax.OpAlt {
			split := b.AddSplit(InvalidInst, false)
			if err := c.emit(re.Left); err != nil {
				return err
			}
			jumps = append(jumps, b.AddJump(InvalidInst))
			if err := b.Patch(split, b.Next()); err != nil {
				return err
			}
			re = re.Right
		}
		if err := c.emit(re); err != nil {
			return err
		}
		end := b.Next()
		for _, j := range jumps {
			if err := b.Patch(j, end); err != nil {
				return err
			}
		}
		return nil

	case syntax.OpLit:
		b.AddChar(re.Char)
	case syntax.OpDot:
		b.AddAny(OpAnyChar)
	case syntax.OpClass:
		switch re.Class {
		case syntax.ClassWord:
			b.AddAny(OpAnyWord)
		case syntax.ClassDigit:
			b.AddAny(OpAnyDigit)
		case syntax.ClassSpace:
			b.AddAny(OpAnySpace)
		default:
			return fmt.Errorf("%w: unknown class %d", ErrInvalidProgram, re.Class)
		}
	case syntax.OpRange:
		b.AddRange(re.Lo, re.Hi)

	case syntax.OpParen:
		slot := c.nextSlot
		c.nextSlot += 2
		b.AddSave(slot)
		if err := c.emit(re.Left); err != nil {
			return err
		}
		b.AddSave(slot + 1)

	case syntax.OpPlus:
		start := b.Next()
		if err := c.emit(re.Left); err != nil {
			return err
		}
		b.AddSplit(start, true)

	case syntax.OpQuest:
		split := b.AddSplit(InvalidInst, false)
		if err := c.emit(re.Left); err != nil {
			return err
		}
		return b.Patch(split, b.Next())

	case syntax.OpStar:
		split := b.AddSplit(InvalidInst, false)
		if err := c.emit(re.Left); err != nil {
			return err
		}
		b.AddJump(split)
		return b.Patch(split, b.Next())

	case syntax.OpRepeat:
		counter := b.AllocCounter()
		b.AddSet(counter, 0)
		split := b.AddSplit(InvalidInst, false)
		if err := c.emit(re.Left); err != nil {
			return err
		}
		b.AddIncr(counter, re.Min, re.Max)
		b.AddJump(split)
		if err := b.Patch(split, b.Next()); err != nil {
			return err
		}
		b.AddCheck(counter, re.Min, re.Max)

	default:
		return fmt.Errorf("%w: cannot compile %s at I%d", ErrInvalidProgram, re.Op, conv.IntToUint32(b.Len()))
	}
	return nil
}

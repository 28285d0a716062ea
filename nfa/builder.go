package nfa

import (
	"fmt"

	"github.com/coregx/thompson/internal/conv"
)

// Builder constructs programs incrementally using a low-level API.
// This provides full control over program layout and is used by the Compiler.
type Builder struct {
	insts       []Inst
	expected    int // instruction count announced by NewBuilderWithCapacity, or -1
	numSlots    int
	numCounters int
}

// NewBuilder creates a new program builder with default capacity
func NewBuilder() *Builder {
	return &Builder{
		insts:    make([]Inst, 0, 16),
		expected: -1,
	}
}

// NewBuilderWithCapacity creates a builder for a program of exactly n
// instructions. Build fails unless exactly n instructions were added.
func NewBuilderWithCapacity(n int) *Builder {
	return &Builder{
		insts:    make([]Inst, 0, n),
		expected: n,
	}
}

// Len returns the number of instructions added so far, which is also the
// index of the next instruction.
func (b *Builder) Len() int {
	return len(b.insts)
}

// Next returns the index the next added instruction will get.
func (b *Builder) Next() InstID {
	return InstID(conv.IntToUint32(len(b.insts)))
}

func (b *Builder) add(in Inst) InstID {
	id := b.Next()
	in.Index = id
	b.insts = append(b.insts, in)
	return id
}

// AddChar adds an instruction consuming the byte c
func (b *Builder) AddChar(c byte) InstID {
	return b.add(Inst{Op: OpChar, Char: c})
}

// AddRange adds an instruction consuming one byte in [lo, hi]
func (b *Builder) AddRange(lo, hi byte) InstID {
	return b.add(Inst{Op: OpRange, Lo: lo, Hi: hi})
}

// AddAny adds a consuming instruction without operands: OpAnyChar,
// OpAnyWord, OpAnyDigit or OpAnySpace.
func (b *Builder) AddAny(op Op) InstID {
	return b.add(Inst{Op: op})
}

// AddJump adds an unconditional jump to target. Pass InvalidInst and Patch
// it later for forward references.
func (b *Builder) AddJump(target InstID) InstID {
	return b.add(Inst{Op: OpJump, Target: target})
}

// AddSplit adds a fork to target and to the following instruction.
// When greedy is set, target is scheduled first.
func (b *Builder) AddSplit(target InstID, greedy bool) InstID {
	return b.add(Inst{Op: OpSplit, Target: target, Greedy: greedy})
}

// AddSave adds a capture slot write. Slots beyond the current count grow
// the program's slot count.
func (b *Builder) AddSave(slot uint32) InstID {
	if int(slot) >= b.numSlots {
		b.numSlots = int(slot) + 1
		if b.numSlots%2 != 0 {
			b.numSlots++
		}
	}
	return b.add(Inst{Op: OpSave, Slot: slot})
}

// AllocCounter reserves a new repetition counter and returns its index.
func (b *Builder) AllocCounter() uint32 {
	c := conv.IntToUint32(b.numCounters)
	b.numCounters++
	return c
}

// AddSet adds an instruction storing value in counter.
func (b *Builder) AddSet(counter uint32, value int) InstID {
	return b.add(Inst{Op: OpSet, Counter: counter, Value: value})
}

// AddIncr adds a counter increment bounded by [min, max].
func (b *Builder) AddIncr(counter uint32, min, max int) InstID {
	return b.add(Inst{Op: OpIncr, Counter: counter, Min: min, Max: max})
}

// AddCheck adds a gate passing only when min <= counter <= max.
func (b *Builder) AddCheck(counter uint32, min, max int) InstID {
	return b.add(Inst{Op: OpCheck, Counter: counter, Min: min, Max: max})
}

// AddMatch adds a match (accepting) instruction
func (b *Builder) AddMatch() InstID {
	return b.add(Inst{Op: OpMatch})
}

// Patch updates the target of a Jump or Split. This is used during
// compilation to handle forward references.
func (b *Builder) Patch(pc, target InstID) error {
	if int(pc) >= len(b.insts) {
		return &InvalidProgramError{Index: pc, Msg: "patch of instruction out of bounds"}
	}
	in := &b.insts[pc]
	switch in.Op {
	case OpJump, OpSplit:
		in.Target = target
		return nil
	default:
		return &InvalidProgramError{Index: pc, Msg: fmt.Sprintf("cannot patch %s", in.Op)}
	}
}

// Validate checks the emitted count against the announced one and the
// resulting program against the Program invariants.
func (b *Builder) Validate() error {
	if b.expected >= 0 && len(b.insts) != b.expected {
		return &InvalidProgramError{
			Index: InvalidInst,
			Msg:   fmt.Sprintf("emitted %d instructions, expected %d", len(b.insts), b.expected),
		}
	}
	return b.program().Validate()
}

// Build finalizes and returns the constructed program.
func (b *Builder) Build() (*Program, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b.program(), nil
}

func (b *Builder) program() *Program {
	return &Program{
		Insts:       b.insts,
		NumSlots:    b.numSlots,
		NumCounters: b.numCounters,
	}
}

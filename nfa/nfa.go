// Package nfa compiles syntax trees into a linear instruction program and
// executes it with a Pike VM.
//
// A Program is a Thompson NFA laid out as bytecode: consuming instructions
// test one input byte, control instructions (jumps, splits, capture saves
// and repetition counters) move a thread without consuming input. The
// Machine advances every live thread in lockstep over the input, so a
// search runs in time proportional to len(input) times the program size
// (times the number of distinct counter states for bounded repetitions).
package nfa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/thompson/syntax"
)

// InstID identifies an instruction by its index in a Program.
type InstID uint32

// InvalidInst marks an unset jump or split target.
const InvalidInst InstID = 0xFFFFFFFF

// Op identifies the kind of an instruction.
type Op uint8

const (
	// OpAnyChar consumes any byte.
	OpAnyChar Op = iota + 1

	// OpAnyWord consumes one byte of [0-9A-Za-z_].
	OpAnyWord

	// OpAnyDigit consumes one byte of [0-9].
	OpAnyDigit

	// OpAnySpace consumes one ASCII white space byte.
	OpAnySpace

	// OpChar consumes the byte Char.
	OpChar

	// OpRange consumes one byte in [Lo, Hi].
	OpRange

	// OpJump continues at Target.
	OpJump

	// OpSplit continues at both Target and Index+1. Greedy selects
	// which continuation is scheduled first.
	OpSplit

	// OpSave records the current offset in capture slot Slot.
	OpSave

	// OpSet stores Value in repetition counter Counter.
	OpSet

	// OpIncr adds one to counter Counter, bounded by Min and Max.
	OpIncr

	// OpCheck continues only when Min <= counter <= Max.
	OpCheck

	// OpMatch accepts.
	OpMatch
)

// String returns the listing mnemonic of op.
func (op Op) String() string {
	switch op {
	case OpAnyChar:
		return "ANY"
	case OpAnyWord:
		return "WORD"
	case OpAnyDigit:
		return "DIGIT"
	case OpAnySpace:
		return "SPACE"
	case OpChar:
		return "CHAR"
	case OpRange:
		return "RANGE"
	case OpJump:
		return "JMP"
	case OpSplit:
		return "SPLIT"
	case OpSave:
		return "SAVE"
	case OpSet:
		return "SET"
	case OpIncr:
		return "INCR"
	case OpCheck:
		return "CHECK"
	case OpMatch:
		return "MATCH"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", op)
	}
}

// IsConsuming reports whether op reads one input byte.
func (op Op) IsConsuming() bool {
	return op >= OpAnyChar && op <= OpRange
}

// Inst is one program instruction. Which fields are meaningful depends on Op.
type Inst struct {
	Index InstID
	Op    Op

	Char   byte   // OpChar
	Lo, Hi byte   // OpRange
	Target InstID // OpJump, OpSplit
	Greedy bool   // OpSplit: schedule Target before Index+1

	Slot uint32 // OpSave

	Counter uint32 // OpSet, OpIncr, OpCheck
	Value   int    // OpSet
	Min     int    // OpIncr, OpCheck
	Max     int    // OpIncr, OpCheck; syntax.RepeatInf when unbounded
}

// Matches reports whether a consuming instruction accepts c. It returns
// false for every control instruction.
func (in *Inst) Matches(c byte) bool {
	switch in.Op {
	case OpAnyChar:
		return true
	case OpAnyWord:
		return syntax.IsWordByte(c)
	case OpAnyDigit:
		return syntax.IsDigitByte(c)
	case OpAnySpace:
		return syntax.IsSpaceByte(c)
	case OpChar:
		return c == in.Char
	case OpRange:
		return in.Lo <= c && c <= in.Hi
	default:
		return false
	}
}

// Format renders the instruction as a listing line such as
// "I3: SPLIT I4 I1 greedy". It fails for an unknown opcode.
func (in *Inst) Format() (string, error) {
	prefix := "I" + strconv.FormatUint(uint64(in.Index), 10) + ": "
	switch in.Op {
	case OpAnyChar, OpAnyWord, OpAnyDigit, OpAnySpace, OpMatch:
		return prefix + in.Op.String(), nil
	case OpChar:
		return prefix + "CHAR " + strconv.QuoteRune(rune(in.Char)), nil
	case OpRange:
		return fmt.Sprintf("%sRANGE %q-%q", prefix, rune(in.Lo), rune(in.Hi)), nil
	case OpJump:
		return fmt.Sprintf("%sJMP I%d", prefix, in.Target), nil
	case OpSplit:
		s := fmt.Sprintf("%sSPLIT I%d I%d", prefix, in.Target, in.Index+1)
		if in.Greedy {
			s += " greedy"
		}
		return s, nil
	case OpSave:
		return fmt.Sprintf("%sSAVE %d", prefix, in.Slot), nil
	case OpSet:
		return fmt.Sprintf("%sSET c%d %d", prefix, in.Counter, in.Value), nil
	case OpIncr:
		return fmt.Sprintf("%sINCR c%d %s", prefix, in.Counter, formatBounds(in.Min, in.Max)), nil
	case OpCheck:
		return fmt.Sprintf("%sCHECK c%d %s", prefix, in.Counter, formatBounds(in.Min, in.Max)), nil
	default:
		return "", &InvalidProgramError{Index: in.Index, Msg: "unknown opcode " + in.Op.String()}
	}
}

// String implements fmt.Stringer. Unknown opcodes render as UNKNOWN(n).
func (in *Inst) String() string {
	s, err := in.Format()
	if err != nil {
		return fmt.Sprintf("I%d: %s", in.Index, in.Op)
	}
	return s
}

func formatBounds(lo, hi int) string {
	if hi == syntax.RepeatInf {
		return fmt.Sprintf("[%d,inf]", lo)
	}
	return fmt.Sprintf("[%d,%d]", lo, hi)
}

// Program is a compiled regular expression. It is immutable once built
// and may be shared between goroutines.
type Program struct {
	Insts       []Inst
	NumSlots    int // 2 per capturing group
	NumCounters int // one per bounded repetition
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Insts)
}

// Inst returns the instruction at pc.
func (p *Program) Inst(pc InstID) *Inst {
	return &p.Insts[pc]
}

// NumGroups returns the number of capturing groups.
func (p *Program) NumGroups() int {
	return p.NumSlots / 2
}

// String returns the program listing, one instruction per line.
func (p *Program) String() string {
	var b strings.Builder
	for i := range p.Insts {
		b.WriteString(p.Insts[i].String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Validate checks the program invariants: the program is non-empty and
// ends with OpMatch, each instruction knows its own index, every jump
// target is in range, and every slot and counter reference is within
// NumSlots and NumCounters.
func (p *Program) Validate() error {
	n := len(p.Insts)
	if n == 0 {
		return &InvalidProgramError{Index: InvalidInst, Msg: "empty program"}
	}
	if p.Insts[n-1].Op != OpMatch {
		return &InvalidProgramError{Index: InstID(n - 1), Msg: "last instruction is not MATCH"}
	}
	if p.NumSlots%2 != 0 {
		return &InvalidProgramError{Index: InvalidInst, Msg: fmt.Sprintf("odd slot count %d", p.NumSlots)}
	}

	for i := range p.Insts {
		in := &p.Insts[i]
		id := InstID(i)
		if in.Index != id {
			return &InvalidProgramError{Index: id, Msg: fmt.Sprintf("instruction records index %d", in.Index)}
		}
		switch in.Op {
		case OpAnyChar, OpAnyWord, OpAnyDigit, OpAnySpace, OpChar, OpMatch:
		case OpRange:
			if in.Lo > in.Hi {
				return &InvalidProgramError{Index: id, Msg: "range out of order"}
			}
		case OpJump, OpSplit:
			if int(in.Target) >= n {
				return &InvalidProgramError{Index: id, Msg: fmt.Sprintf("target I%d out of range", in.Target)}
			}
		case OpSave:
			if int(in.Slot) >= p.NumSlots {
				return &InvalidProgramError{Index: id, Msg: fmt.Sprintf("slot %d out of range", in.Slot)}
			}
		case OpSet, OpIncr, OpCheck:
			if int(in.Counter) >= p.NumCounters {
				return &InvalidProgramError{Index: id, Msg: fmt.Sprintf("counter %d out of range", in.Counter)}
			}
			if in.Op != OpSet && (in.Min < 0 || in.Min > in.Max) {
				return &InvalidProgramError{Index: id, Msg: "counter bounds out of order"}
			}
		default:
			return &InvalidProgramError{Index: id, Msg: "unknown opcode " + in.Op.String()}
		}
	}
	return nil
}

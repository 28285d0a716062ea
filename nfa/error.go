package nfa

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProgram indicates a program that violates the instruction
	// invariants. It always signals a compiler bug or a hand-built program,
	// never bad user input.
	ErrInvalidProgram = errors.New("invalid program")

	// ErrTooComplex indicates the pattern nests too deeply to compile.
	ErrTooComplex = errors.New("pattern too complex")
)

// InvalidProgramError describes the first instruction that broke a program
// invariant.
type InvalidProgramError struct {
	Index InstID // InvalidInst when the failure is not tied to one instruction
	Msg   string
}

// Error implements the error interface.
func (e *InvalidProgramError) Error() string {
	if e.Index == InvalidInst {
		return "invalid program: " + e.Msg
	}
	return fmt.Sprintf("invalid program at I%d: %s", e.Index, e.Msg)
}

// Unwrap returns ErrInvalidProgram.
func (e *InvalidProgramError) Unwrap() error {
	return ErrInvalidProgram
}

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Err error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return fmt.Sprintf("compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

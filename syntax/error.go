package syntax

import (
	"errors"
	"fmt"
)

// Parse errors. Every error returned by Parse is a *SyntaxError that
// matches ErrSyntax and one of the more specific values below with
// errors.Is.
var (
	// ErrSyntax matches every parse failure.
	ErrSyntax = errors.New("invalid regular expression")

	// ErrInvalidEscape indicates a backslash followed by a byte that is
	// neither a class letter nor an operator.
	ErrInvalidEscape = errors.New("invalid escape sequence")

	// ErrInvalidRepeat indicates a malformed {m,n} or one with m > n.
	ErrInvalidRepeat = errors.New("invalid repeat count")

	// ErrInvalidRange indicates a malformed [a-z] or one with lo > hi.
	ErrInvalidRange = errors.New("invalid character range")

	// ErrMissingParen indicates an unbalanced parenthesis.
	ErrMissingParen = errors.New("missing parenthesis")

	// ErrMissingExpr indicates an operator without an operand, including
	// the empty pattern.
	ErrMissingExpr = errors.New("missing expression")

	// ErrUnexpectedChar indicates a byte that is not allowed unescaped.
	ErrUnexpectedChar = errors.New("unexpected character")

	// ErrTooDeep indicates groups nested beyond the parser's depth limit.
	ErrTooDeep = errors.New("expression nests too deeply")

	// ErrMalformed indicates a tree that violates the node invariants.
	ErrMalformed = errors.New("malformed syntax tree")
)

// SyntaxError describes a pattern that could not be parsed.
type SyntaxError struct {
	Pattern string
	Pos     int   // byte offset of the failure in Pattern
	Err     error // one of the Err* values above, possibly wrapped
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %q at offset %d: %v", e.Pattern, e.Pos, e.Err)
}

// Unwrap returns the specific cause.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Is makes every SyntaxError match ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

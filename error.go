package thompson

import "fmt"

// CompileError reports a pattern that could not be compiled. Err is a
// *syntax.SyntaxError for malformed patterns, a *ConfigError for an
// invalid Config, or wraps nfa.ErrTooComplex.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("thompson: Compile(%q): %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

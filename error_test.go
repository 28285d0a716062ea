package thompson

import (
	"errors"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/coregx/thompson/syntax"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		pattern string
		kind    error
	}{
		{"(a", syntax.ErrMissingParen},
		{"a)", syntax.ErrMissingParen},
		{"a**", syntax.ErrMissingExpr},
		{"", syntax.ErrMissingExpr},
		{"^", syntax.ErrMissingExpr},
		{"a{3,1}", syntax.ErrInvalidRepeat},
		{"[z-a]", syntax.ErrInvalidRange},
		{`\k`, syntax.ErrInvalidEscape},
		{"a^b", syntax.ErrUnexpectedChar},
		{"a$b", syntax.ErrUnexpectedChar},
		{"a/b", syntax.ErrUnexpectedChar},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			assert.Assert(t, re == nil)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, syntax.ErrSyntax)

			var cerr *CompileError
			assert.Assert(t, errors.As(err, &cerr))
			assert.Equal(t, cerr.Pattern, tt.pattern)

			var serr *syntax.SyntaxError
			assert.Assert(t, errors.As(err, &serr))
		})
	}
}

func TestCompileErrorMessage(t *testing.T) {
	_, err := Compile("(a")
	assert.ErrorContains(t, err, `thompson: Compile("(a"): `)
	assert.ErrorContains(t, err, "at offset 0")
}

func TestCompileTooDeep(t *testing.T) {
	config := DefaultConfig()
	config.MaxRecursionDepth = 10

	pattern := strings.Repeat("(", 20) + "a" + strings.Repeat(")", 20)
	_, err := CompileWithConfig(pattern, config)
	assert.ErrorIs(t, err, syntax.ErrTooDeep)

	// The default depth accepts the same pattern.
	re, err := Compile(pattern)
	assert.NilError(t, err)
	assert.Equal(t, re.NumSubexp(), 20)
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		r := recover()
		assert.Assert(t, r != nil)
		msg, ok := r.(string)
		assert.Assert(t, ok)
		assert.Assert(t, strings.Contains(msg, `Compile("a(")`))
	}()
	MustCompile("a(")
}

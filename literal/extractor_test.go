package literal

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/coregx/thompson/syntax"
)

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"hello", "[hello]"},
		{"foo|bar", "[foo, bar]"},
		{"(foo|bar)baz", "[foobaz, barbaz]"},
		{"[a-c]x", "[ax, bx, cx]"},
		{"[a-z]x", "[]"},
		{`\dx`, "[0x, 1x, 2x, 3x, 4x, 5x, 6x, 7x, 8x, 9x]"},
		{`\w`, "[]"},
		{"ab+c", "[ab+]"},
		{"a+", "[a+]"},
		{"a.c", "[a+]"},
		{"a*b", "[]"},
		{"a?b", "[]"},
		{".b", "[]"},
		{"ab{2,3}", "[ab+]"},
		{"ab{0,3}", "[a+]"},
		{"(ab){1}c", "[abc]"},
		{"abc|ab", "[ab+]"},
		{"a|b*", "[]"},
		{"(a|b)(c|d)", "[ac, ad, bc, bd]"},
		{"x(a|b*)", "[x+]"},
	}
	e := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := e.ExtractPrefixes(syntax.MustParse(tt.pattern))
			assert.Equal(t, got.String(), tt.want)
		})
	}
}

func TestExtractLimits(t *testing.T) {
	e := New(ExtractorConfig{MaxLiterals: 4, MaxLiteralLen: 3, MaxClassSize: 2})

	got := e.ExtractPrefixes(syntax.MustParse("abcdef"))
	assert.Equal(t, got.String(), "[abc+]")

	got = e.ExtractPrefixes(syntax.MustParse("a|b|c|d|e"))
	assert.Assert(t, got.IsEmpty())

	got = e.ExtractPrefixes(syntax.MustParse("(a|b|c)(x|y)"))
	assert.Equal(t, got.String(), "[a+, b+, c+]")

	got = e.ExtractPrefixes(syntax.MustParse("[a-c]"))
	assert.Assert(t, got.IsEmpty())
}

func TestExtractLongLiteral(t *testing.T) {
	pattern := strings.Repeat("ab", 10000)
	got := New(DefaultConfig()).ExtractPrefixes(syntax.MustParse(pattern))
	assert.Equal(t, got.Len(), 1)
	assert.Equal(t, string(got.Get(0).Bytes), pattern[:64])
	assert.Assert(t, !got.Get(0).Complete)
}

func TestExtractDeepNesting(t *testing.T) {
	pattern := strings.Repeat("(", 150) + "a" + strings.Repeat(")", 150)
	got := New(DefaultConfig()).ExtractPrefixes(syntax.MustParse(pattern))
	assert.Assert(t, got.IsEmpty())
}

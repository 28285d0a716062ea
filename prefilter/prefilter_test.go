package prefilter

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/coregx/thompson/literal"
	"github.com/coregx/thompson/syntax"
)

func build(pattern string) Prefilter {
	seq := literal.New(literal.DefaultConfig()).ExtractPrefixes(syntax.MustParse(pattern))
	return NewBuilder(seq).Build()
}

func TestBuilderSelection(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"a+b", "*prefilter.memchrPrefilter"},
		{"hello", "*prefilter.memmemPrefilter"},
		{"foo|bar", "*prefilter.ahoCorasickPrefilter"},
		{"a*b", "<nil>"},
		{".x", "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			pf := build(tt.pattern)
			got := "<nil>"
			if pf != nil {
				got = typeName(pf)
			}
			assert.Equal(t, got, tt.want)
		})
	}
	assert.Assert(t, NewBuilder(nil).Build() == nil)
}

func typeName(pf Prefilter) string {
	switch pf.(type) {
	case *memchrPrefilter:
		return "*prefilter.memchrPrefilter"
	case *memmemPrefilter:
		return "*prefilter.memmemPrefilter"
	case *ahoCorasickPrefilter:
		return "*prefilter.ahoCorasickPrefilter"
	default:
		return "unknown"
	}
}

func TestMemchr(t *testing.T) {
	pf := build("a")
	hay := "xxaxa"
	assert.Equal(t, pf.Find(hay, 0), 2)
	assert.Equal(t, pf.Find(hay, 3), 4)
	assert.Equal(t, pf.Find(hay, 5), -1)
	assert.Equal(t, pf.Find(hay, -1), -1)
	assert.Assert(t, pf.IsComplete())
	assert.Equal(t, pf.LiteralLen(), 1)

	pf = build("a+")
	assert.Assert(t, !pf.IsComplete())
	assert.Equal(t, pf.LiteralLen(), 0)
}

func TestMemmem(t *testing.T) {
	pf := build("hello")
	hay := "say hello, hello"
	assert.Equal(t, pf.Find(hay, 0), 4)
	assert.Equal(t, pf.Find(hay, 5), 11)
	assert.Equal(t, pf.Find(hay, 12), -1)
	assert.Equal(t, pf.LiteralLen(), 5)

	pf = build("hel+o")
	assert.Equal(t, pf.Find(hay, 0), 4)
	assert.Assert(t, !pf.IsComplete())
}

func TestAhoCorasick(t *testing.T) {
	pf := build("foo|bar")
	hay := "xxbarfoo"
	assert.Equal(t, pf.Find(hay, 0), 2)
	assert.Equal(t, pf.Find(hay, 3), 5)
	assert.Equal(t, pf.Find(hay, 6), -1)
	assert.Equal(t, pf.Find(hay[3:], 0), 2)
	assert.Assert(t, pf.IsComplete())
	assert.Equal(t, pf.LiteralLen(), 3)
}

func TestAhoCorasickNeverSkipsAnOccurrence(t *testing.T) {
	pf := build("abcd|bc|x")
	lits := []string{"abcd", "bc", "x"}
	hay := "zzabcdzbcx"

	for start := 0; start < len(hay); start++ {
		first := -1
		for i := start; i < len(hay) && first < 0; i++ {
			for _, lit := range lits {
				if strings.HasPrefix(hay[i:], lit) {
					first = i
					break
				}
			}
		}
		got := pf.Find(hay, start)
		if first < 0 {
			assert.Equal(t, got, -1, "start %d", start)
			continue
		}
		assert.Assert(t, got >= start && got <= first, "start %d: got %d, first occurrence %d", start, got, first)
	}
	assert.Equal(t, pf.LiteralLen(), 0)
}

package thompson

import (
	"strings"
	"testing"
)

func benchmarkFind(b *testing.B, pattern, input string) {
	re := MustCompile(pattern)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = re.Find(input)
	}
}

func BenchmarkFindLiteral(b *testing.B) {
	input := strings.Repeat("lorem ipsum dolor sit amet ", 400) + "needle"
	benchmarkFind(b, `needle`, input)
}

func BenchmarkFindAlternation(b *testing.B) {
	input := strings.Repeat("lorem ipsum dolor sit amet ", 400) + "warning"
	benchmarkFind(b, `error|warning|fatal`, input)
}

func BenchmarkFindNoPrefilter(b *testing.B) {
	input := strings.Repeat("lorem ipsum dolor sit amet ", 400) + "x=42"
	benchmarkFind(b, `\w+=\d+`, input)
}

func BenchmarkFindCaptures(b *testing.B) {
	input := strings.Repeat("x ", 1000) + "alice@example"
	benchmarkFind(b, `(\w+)@(\w+)`, input)
}

func BenchmarkFindCounted(b *testing.B) {
	input := strings.Repeat("ab", 2000) + "c"
	benchmarkFind(b, `(ab){100,}c`, input)
}

func BenchmarkNestedStar(b *testing.B) {
	input := strings.Repeat("a", 4096)
	benchmarkFind(b, `(a*)*b`, input)
}

func BenchmarkReplaceAll(b *testing.B) {
	re := MustCompile(`(\d+)-(\d+)`)
	input := strings.Repeat("range 10-20 and 30-40; ", 200)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = re.ReplaceAll(input, "$1..$0")
	}
}

func BenchmarkMatchStringParallel(b *testing.B) {
	re := MustCompile(`foo|bar`)
	input := strings.Repeat("qux ", 500) + "bar"
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = re.MatchString(input)
		}
	})
}

package nfa

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func newMachine(t testing.TB, pattern string, matchBegin, matchEnd bool) *Machine {
	t.Helper()
	return NewMachine(mustCompile(t, pattern), matchBegin, matchEnd)
}

func TestMachineRun(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		matchBegin bool
		matchEnd   bool
		input      string
		want       bool
		begin, end int
	}{
		{"plus", "a+b", false, false, "cabd", true, 1, 3},
		{"plus longest", "a+b", false, false, "aabcab", true, 0, 3},
		{"plus lone b", "a+b", false, false, "b", false, -1, -1},
		{"plus wrong order", "a+b", false, false, "cbaa", false, -1, -1},
		{"begin", "a+b", true, false, "ab", true, 0, 2},
		{"begin prefix", "a+b", true, false, "aaabcc", true, 0, 4},
		{"begin rejects", "a+b", true, false, "cab", false, -1, -1},
		{"begin incomplete", "a+b", true, false, "aa", false, -1, -1},
		{"end", "a+b", false, true, "ab", true, 0, 2},
		{"end suffix", "a+b", false, true, "caab", true, 1, 4},
		{"end rejects", "a+b", false, true, "abc", false, -1, -1},
		{"end later", "a+b", false, true, "abcaab", true, 3, 6},
		{"word", `\w+`, false, false, "  foo_1 bar", true, 2, 7},
		{"digit", `\d+`, false, false, "ab123c", true, 2, 5},
		{"space", `\s+`, false, false, "a \t\nb", true, 1, 4},
		{"quest", "a?b", false, false, "cb", true, 1, 2},
		{"quest taken", "a?b", false, false, "cab", true, 1, 3},
		{"star", "a*b", false, false, "xaaab", true, 1, 5},
		{"star empty", "a*b", false, false, "b", true, 0, 1},
		{"dot", ".b", false, false, "aab", true, 1, 3},
		{"alt begin", "a|b", true, false, "ba", true, 0, 1},
		{"alt begin miss", "a|b", true, false, "cab", false, -1, -1},
		{"alt longest", "a|ab", false, false, "ab", true, 0, 2},
		{"optional middle", "ab?c+", false, false, "ac", true, 0, 2},
		{"optional middle repeat", "ab?c+", false, false, "abcc", true, 0, 4},
		{"optional middle short", "ab?c+", false, false, "ab", false, -1, -1},
		{"optional middle twice", "ab?c+", false, false, "abbc", false, -1, -1},
		{"alt of star", "ab*|c+d", false, false, "abbb", true, 0, 4},
		{"alt of plus", "ab*|c+d", false, false, "ccd", true, 0, 3},
		{"alt of plus miss", "ab*|c+d", false, false, "cc", false, -1, -1},
		{"range", "[b-d]+", false, false, "abcde", true, 1, 4},
		{"repeat exact", "a{3}", true, true, "aaa", true, 0, 3},
		{"repeat low", "a{3,5}", true, true, "aa", false, -1, -1},
		{"repeat min", "a{3,5}", true, true, "aaa", true, 0, 3},
		{"repeat mid", "a{3,5}", true, true, "aaaa", true, 0, 4},
		{"repeat max", "a{3,5}", true, true, "aaaaa", true, 0, 5},
		{"repeat high", "a{3,5}", true, true, "aaaaaa", false, -1, -1},
		{"repeat unanchored", "a{3,5}", false, false, "baaaaaaab", true, 1, 6},
		{"repeat open", "a{2,}", false, false, "xaaaaaaay", true, 1, 8},
		{"repeat open short", "a{2,}", false, false, "xay", false, -1, -1},
		{"repeat zero", "a{0,2}", false, false, "b", true, 0, 0},
		{"repeat zero exact", "ba{0}c", false, false, "bc", true, 0, 2},
		{"repeat group", "(ab){2}c", false, false, "abababc", true, 2, 7},
		{"nested repeat", "(a{2}b){2}", false, false, "aabaab", true, 0, 6},
		{"nested stars", "(a*)*", false, false, "b", true, 0, 0},
		{"nested stars consume", "(a*)*b", false, false, "aab", true, 0, 3},
		{"empty input", "a*", false, false, "", true, 0, 0},
		{"empty input miss", "a", false, false, "", false, -1, -1},
		{"escaped", `\(\.\)`, false, false, "x(.)", true, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t, tt.pattern, tt.matchBegin, tt.matchEnd)
			got := m.Run(tt.input, false)
			assert.Equal(t, got.Success, tt.want)
			assert.Equal(t, got.Begin, tt.begin)
			assert.Equal(t, got.End, tt.end)
			assert.Equal(t, m.IsMatch(tt.input), tt.want)
		})
	}
}

func TestMachineCaptures(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		matchBegin bool
		matchEnd   bool
		input      string
		want       MatchResult
	}{
		{
			name:    "single group",
			pattern: "(a+)",
			input:   "baaa",
			want:    MatchResult{Success: true, Begin: 1, End: 4, Captures: []string{"aaa"}, Slots: []int{1, 4}},
		},
		{
			name:    "group with plus",
			pattern: "(ab+)",
			input:   "abbb",
			want:    MatchResult{Success: true, Begin: 0, End: 4, Captures: []string{"abbb"}, Slots: []int{0, 4}},
		},
		{
			name:    "repeated group keeps last iteration",
			pattern: "(ab)+c(ef)",
			input:   "ababcef",
			want: MatchResult{
				Success:  true,
				Begin:    0,
				End:      7,
				Captures: []string{"ab", "ef"},
				Slots:    []int{2, 4, 5, 7},
			},
		},
		{
			name:       "anchored groups",
			pattern:    "(ab)+c(ef)",
			matchBegin: true,
			matchEnd:   true,
			input:      "ababcef",
			want: MatchResult{
				Success:  true,
				Begin:    0,
				End:      7,
				Captures: []string{"ab", "ef"},
				Slots:    []int{2, 4, 5, 7},
			},
		},
		{
			name:    "unset group skipped",
			pattern: "(a)|b",
			input:   "b",
			want:    MatchResult{Success: true, Begin: 0, End: 1, Slots: []int{-1, -1}},
		},
		{
			name:    "longest extent decides groups",
			pattern: "(a|ab)(c|bcd)",
			input:   "abcd",
			want: MatchResult{
				Success:  true,
				Begin:    0,
				End:      4,
				Captures: []string{"a", "bcd"},
				Slots:    []int{0, 1, 1, 4},
			},
		},
		{
			name:    "no match",
			pattern: "(x)",
			input:   "abc",
			want:    MatchResult{Begin: -1, End: -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t, tt.pattern, tt.matchBegin, tt.matchEnd)
			got := m.Run(tt.input, true)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Run(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestMachineNoCapture(t *testing.T) {
	m := newMachine(t, "(a+)(b)", false, false)
	got := m.Run("xaab", false)
	assert.Assert(t, got.Success)
	assert.Assert(t, got.Captures == nil)
	assert.Assert(t, got.Slots == nil)
}

func TestMatchResultGroup(t *testing.T) {
	m := newMachine(t, "(a)|(b)", false, false)
	input := "b"
	got := m.Run(input, true)

	_, ok := got.Group(input, 0)
	assert.Assert(t, !ok)
	s, ok := got.Group(input, 1)
	assert.Assert(t, ok)
	assert.Equal(t, s, "b")
	_, ok = got.Group(input, 2)
	assert.Assert(t, !ok)
	_, ok = got.Group(input, -1)
	assert.Assert(t, !ok)
}

func TestMachineRunAt(t *testing.T) {
	m := newMachine(t, "(ab)+", false, false)
	input := "dabcccababd"

	var got [][2]int
	for at := 0; ; {
		res := m.RunAt(input, at, true)
		if !res.Success {
			break
		}
		got = append(got, [2]int{res.Begin, res.End})
		at = res.End
	}
	assert.DeepEqual(t, got, [][2]int{{1, 3}, {6, 10}})

	assert.Assert(t, !m.RunAt(input, len(input)+1, false).Success)

	anchored := newMachine(t, "ab", true, false)
	assert.Assert(t, anchored.RunAt("abab", 0, false).Success)
	assert.Assert(t, !anchored.RunAt("abab", 2, false).Success)
}

func TestMachineIdempotent(t *testing.T) {
	m := newMachine(t, `(\w+)\s(\d{2,4})`, false, false)
	input := "call me at 1234 or 56"

	first := m.Run(input, true)
	assert.Assert(t, first.Success)
	for i := 0; i < 5; i++ {
		again := m.Run(input, true)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
	assert.DeepEqual(t, first.Captures, []string{"at", "1234"})
}

func TestMachineConcurrent(t *testing.T) {
	m := newMachine(t, "(a|b)+c{1,3}", false, false)
	inputs := []string{"xxababcc", "c", "abcccc", "bbbb", strings.Repeat("ab", 100) + "c"}

	want := make([]MatchResult, len(inputs))
	for i, in := range inputs {
		want[i] = m.Run(in, true)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < 50; iter++ {
				for i, in := range inputs {
					if diff := cmp.Diff(want[i], m.Run(in, true)); diff != "" {
						select {
						case errs <- diff:
						default:
						}
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for diff := range errs {
		t.Error(diff)
	}
}

func TestMachineLongInput(t *testing.T) {
	m := newMachine(t, "(a|aa)*b", false, false)
	input := strings.Repeat("a", 5000)
	assert.Assert(t, !m.Run(input, true).Success)

	got := m.Run(input+"b", false)
	assert.Equal(t, got.Begin, 0)
	assert.Equal(t, got.End, len(input)+1)
}

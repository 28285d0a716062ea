// Package thompson is a regular expression engine built on a Pike VM.
//
// A pattern is parsed into a syntax tree, compiled into a small bytecode
// program and executed by simulating every NFA thread in lockstep, so a
// search never backtracks and runs in time linear in the input for a fixed
// pattern.
//
// The pattern language is deliberately small: literals, '.', \w \d \s,
// single ranges [a-z], capturing groups, alternation, the quantifiers
// + ? * {m} {m,n} {m,}, a leading ^ and a trailing $. Matching works on
// bytes; classes are ASCII.
//
// Among all matches the engine reports the one that begins leftmost and,
// for that begin, ends rightmost.
//
// Basic usage:
//
//	re := thompson.MustCompile(`(\w+)@(\w+)`)
//	m := re.Find("mail alice@example now")
//	fmt.Println(m.Begin, m.End, m.Captures) // 5 18 [alice example]
//
//	fmt.Println(re.ReplaceAll("alice@example", "$1 at $0"))
//	// example at alice
package thompson

import (
	"strings"
	"sync/atomic"

	"github.com/coregx/thompson/literal"
	"github.com/coregx/thompson/nfa"
	"github.com/coregx/thompson/prefilter"
	"github.com/coregx/thompson/syntax"
)

// Regex represents a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := thompson.MustCompile(`a+b`)
//	if re.MatchString("caab") {
//	    println("matched!")
//	}
type Regex struct {
	pattern   string
	config    Config
	prog      *nfa.Program
	machine   *nfa.Machine
	prefilter prefilter.Prefilter
	stats     Stats
}

// Stats tracks execution statistics. All counters only grow until
// ResetStats.
type Stats struct {
	// Searches counts calls that searched the input
	Searches uint64

	// PrefilterSkips counts input positions the prefilter ruled out
	PrefilterSkips uint64

	// PrefilterMisses counts searches the prefilter answered alone
	// because no literal occurred in the remaining input
	PrefilterMisses uint64

	// VMRuns counts Pike VM executions
	VMRuns uint64

	// LiteralMatches counts matches reported straight from the prefilter,
	// without running the VM
	LiteralMatches uint64

	// Matches counts successful searches
	Matches uint64
}

// Compile compiles a regular expression pattern with the default
// configuration.
//
// Example:
//
//	re, err := thompson.Compile(`\d{3}-\d{4}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
// Every failure is returned as a *CompileError.
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	body, matchBegin, matchEnd := stripAnchors(pattern)
	tree, err := syntax.ParseWithDepth(body, config.MaxRecursionDepth)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	compiler := nfa.NewCompiler(nfa.CompilerConfig{MaxRecursionDepth: config.MaxRecursionDepth})
	prog, err := compiler.Compile(tree)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	machine, err := nfa.NewMachineChecked(prog, matchBegin, matchEnd)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	return &Regex{
		pattern:   pattern,
		config:    config,
		prog:      prog,
		machine:   machine,
		prefilter: buildPrefilter(tree, matchBegin, config),
	}, nil
}

// stripAnchors removes a leading '^' and a trailing unescaped '$'.
func stripAnchors(pattern string) (body string, matchBegin, matchEnd bool) {
	body = pattern
	if strings.HasPrefix(body, "^") {
		body = body[1:]
		matchBegin = true
	}
	if strings.HasSuffix(body, "$") {
		backslashes := 0
		for i := len(body) - 2; i >= 0 && body[i] == '\\'; i-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			body = body[:len(body)-1]
			matchEnd = true
		}
	}
	return body, matchBegin, matchEnd
}

// buildPrefilter returns nil when the pattern is anchored at the
// beginning, has no usable prefix literals, or prefiltering is disabled.
func buildPrefilter(tree *syntax.Regexp, matchBegin bool, config Config) prefilter.Prefilter {
	if !config.EnablePrefilter || matchBegin {
		return nil
	}
	extractor := literal.New(literal.ExtractorConfig{
		MaxLiterals:   config.MaxLiterals,
		MaxLiteralLen: literal.DefaultConfig().MaxLiteralLen,
		MaxClassSize:  literal.DefaultConfig().MaxClassSize,
	})
	prefixes := extractor.ExtractPrefixes(tree)
	if prefixes.IsEmpty() || prefixes.MinLen() < config.MinLiteralLen {
		return nil
	}
	return prefilter.NewBuilder(prefixes).Build()
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// NumSubexp returns the number of parenthesized subexpressions.
func (r *Regex) NumSubexp() int {
	return r.prog.NumGroups()
}

// Program returns the compiled program, for inspection and debugging.
func (r *Regex) Program() *nfa.Program {
	return r.prog
}

// Stats returns a snapshot of the execution statistics.
func (r *Regex) Stats() Stats {
	return Stats{
		Searches:        atomic.LoadUint64(&r.stats.Searches),
		PrefilterSkips:  atomic.LoadUint64(&r.stats.PrefilterSkips),
		PrefilterMisses: atomic.LoadUint64(&r.stats.PrefilterMisses),
		VMRuns:          atomic.LoadUint64(&r.stats.VMRuns),
		LiteralMatches:  atomic.LoadUint64(&r.stats.LiteralMatches),
		Matches:         atomic.LoadUint64(&r.stats.Matches),
	}
}

// ResetStats resets execution statistics to zero.
func (r *Regex) ResetStats() {
	atomic.StoreUint64(&r.stats.Searches, 0)
	atomic.StoreUint64(&r.stats.PrefilterSkips, 0)
	atomic.StoreUint64(&r.stats.PrefilterMisses, 0)
	atomic.StoreUint64(&r.stats.VMRuns, 0)
	atomic.StoreUint64(&r.stats.LiteralMatches, 0)
	atomic.StoreUint64(&r.stats.Matches, 0)
}

// MatchString reports whether s contains any match of the pattern.
//
// Example:
//
//	re := thompson.MustCompile(`\d+`)
//	re.MatchString("abc 123") // true
func (r *Regex) MatchString(s string) bool {
	atomic.AddUint64(&r.stats.Searches, 1)

	if r.prefilter == nil {
		atomic.AddUint64(&r.stats.VMRuns, 1)
		if r.machine.IsMatch(s) {
			atomic.AddUint64(&r.stats.Matches, 1)
			return true
		}
		return false
	}

	at, ok := r.skip(s, 0)
	if !ok {
		return false
	}
	if r.prefilter.IsComplete() && !r.machine.MatchEnd() {
		atomic.AddUint64(&r.stats.LiteralMatches, 1)
		atomic.AddUint64(&r.stats.Matches, 1)
		return true
	}
	return r.run(s, at, false).Success
}

// Find returns the leftmost-longest match in s. The result has
// Success == false when there is none.
//
// Example:
//
//	re := thompson.MustCompile(`a+b`)
//	m := re.Find("caabd")
//	// m.Begin == 1, m.End == 4
func (r *Regex) Find(s string) nfa.MatchResult {
	return r.FindAt(s, 0)
}

// FindAt is like Find but ignores matches beginning before offset at.
// A pattern starting with '^' only matches when at is 0.
func (r *Regex) FindAt(s string, at int) nfa.MatchResult {
	return r.findAtCounted(s, at, r.config.Capture)
}

func (r *Regex) findAtCounted(s string, at int, capture bool) nfa.MatchResult {
	atomic.AddUint64(&r.stats.Searches, 1)
	return r.findAt(s, at, capture)
}

// Next returns the match following prev in s: the search resumes at
// prev.End, or one byte later when prev was empty. A zero MatchResult
// starts at offset 0; a failed result yields a failed result.
//
// Example:
//
//	re := thompson.MustCompile(`(ab)+`)
//	var m nfa.MatchResult
//	for m = re.Next(s, m); m.Success; m = re.Next(s, m) {
//	    fmt.Println(m.Begin, m.End)
//	}
func (r *Regex) Next(s string, prev nfa.MatchResult) nfa.MatchResult {
	at, ok := nextStart(prev)
	if !ok {
		return noMatch()
	}
	return r.FindAt(s, at)
}

func nextStart(prev nfa.MatchResult) (int, bool) {
	if !prev.Success {
		if prev.Begin == 0 && prev.End == 0 {
			return 0, true
		}
		return 0, false
	}
	if prev.End == prev.Begin {
		return prev.End + 1, true
	}
	return prev.End, true
}

// FindAll returns successive non-overlapping matches of s. If n >= 0, it
// returns at most n matches; n < 0 means all of them.
func (r *Regex) FindAll(s string, n int) []nfa.MatchResult {
	var out []nfa.MatchResult
	r.each(s, n, r.config.Capture, func(m nfa.MatchResult) bool {
		out = append(out, m)
		return true
	})
	return out
}

// Count returns the number of non-overlapping matches, at most n when
// n >= 0.
func (r *Regex) Count(s string, n int) int {
	count := 0
	r.each(s, n, false, func(nfa.MatchResult) bool {
		count++
		return true
	})
	return count
}

// each calls fn for successive matches, at most n when n >= 0, until fn
// returns false.
func (r *Regex) each(s string, n int, capture bool, fn func(nfa.MatchResult) bool) {
	if n == 0 {
		return
	}
	atomic.AddUint64(&r.stats.Searches, 1)

	found := 0
	for at := 0; at <= len(s); {
		m := r.findAt(s, at, capture)
		if !m.Success {
			return
		}
		if !fn(m) {
			return
		}
		found++
		if n > 0 && found == n {
			return
		}
		at, _ = nextStart(m)
	}
}

// findAt runs the prefilter, if any, then the VM. When every literal is a
// whole match of one length, a candidate is the match and the VM is only
// needed to fill in groups.
func (r *Regex) findAt(s string, at int, capture bool) nfa.MatchResult {
	if at < 0 {
		at = 0
	}
	if at > len(s) {
		return noMatch()
	}
	if r.prefilter != nil {
		var ok bool
		if at, ok = r.skip(s, at); !ok {
			return noMatch()
		}
		if n := r.prefilter.LiteralLen(); n > 0 && !r.machine.MatchEnd() && (!capture || r.prog.NumSlots == 0) {
			atomic.AddUint64(&r.stats.LiteralMatches, 1)
			atomic.AddUint64(&r.stats.Matches, 1)
			return nfa.MatchResult{Success: true, Begin: at, End: at + n}
		}
	}
	return r.run(s, at, capture)
}

// skip advances at to the next prefilter candidate. It reports false when
// no candidate remains.
func (r *Regex) skip(s string, at int) (int, bool) {
	pos := r.prefilter.Find(s, at)
	if pos < 0 {
		atomic.AddUint64(&r.stats.PrefilterMisses, 1)
		return 0, false
	}
	atomic.AddUint64(&r.stats.PrefilterSkips, uint64(pos-at))
	return pos, true
}

func (r *Regex) run(s string, at int, capture bool) nfa.MatchResult {
	atomic.AddUint64(&r.stats.VMRuns, 1)
	m := r.machine.RunAt(s, at, capture)
	if m.Success {
		atomic.AddUint64(&r.stats.Matches, 1)
	}
	return m
}

func noMatch() nfa.MatchResult {
	return nfa.MatchResult{Begin: -1, End: -1}
}

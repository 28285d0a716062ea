package nfa

import (
	"encoding/binary"
	"sync"

	"github.com/coregx/thompson/internal/conv"
	"github.com/coregx/thompson/internal/sparse"
	"github.com/coregx/thompson/syntax"
)

// Machine executes a Program with the Pike VM algorithm: every live thread
// advances over the input in lockstep, one byte per round, so no input
// position is examined twice.
//
// Among all matches the machine reports the one that begins leftmost and,
// for that begin, ends rightmost. Captures come from the first thread that
// reached that extent in scheduling order.
//
// Thread safety: Machine is immutable after creation. Run, RunAt and IsMatch
// borrow their per-search state from a pool and may be called concurrently.
type Machine struct {
	prog       *Program
	matchBegin bool
	matchEnd   bool
	pool       sync.Pool
}

// MatchResult is the outcome of one run.
type MatchResult struct {
	Success bool
	Begin   int // -1 without a match
	End     int // -1 without a match

	// Captures holds the text of every group that participated in the
	// match, in group order. Groups that did not participate are skipped.
	Captures []string

	// Slots holds the raw capture offsets: Slots[2i] and Slots[2i+1] bound
	// group i, -1 when unset. Nil when captures were not requested.
	Slots []int
}

// Group returns the text of group i within input, the string the result
// was produced from, and whether the group participated in the match.
func (m MatchResult) Group(input string, i int) (string, bool) {
	if i < 0 || 2*i+1 >= len(m.Slots) {
		return "", false
	}
	lo, hi := m.Slots[2*i], m.Slots[2*i+1]
	if lo < 0 || hi < lo || hi > len(input) {
		return "", false
	}
	return input[lo:hi], true
}

func noMatch() MatchResult {
	return MatchResult{Begin: -1, End: -1}
}

// thread is one NFA path: a program counter plus the state it carries.
type thread struct {
	pc       InstID
	begin    int      // offset where this thread's match attempt started
	slots    cowSlots // capture offsets, -1 = unset
	counters cowSlots // repetition counters
}

// cowSlots implements copy-on-write semantics for capture slots and
// counters. Multiple threads share the same underlying data until one of
// them writes.
type cowSlots struct {
	shared *sharedSlots
}

type sharedSlots struct {
	data []int
	refs int
}

func newCowSlots(n, fill int) cowSlots {
	if n == 0 {
		return cowSlots{}
	}
	data := make([]int, n)
	if fill != 0 {
		for i := range data {
			data[i] = fill
		}
	}
	return cowSlots{shared: &sharedSlots{data: data, refs: 1}}
}

// clone increments ref count and returns a reference to the same data (no copy)
func (c cowSlots) clone() cowSlots {
	if c.shared == nil {
		return cowSlots{}
	}
	c.shared.refs++
	return cowSlots{shared: c.shared}
}

// update modifies a slot, copying only if refs > 1 (copy-on-write)
func (c cowSlots) update(index, value int) cowSlots {
	if c.shared == nil || index < 0 || index >= len(c.shared.data) {
		return c
	}
	if c.shared.data[index] == value {
		return c
	}
	if c.shared.refs > 1 {
		c.shared.refs--
		data := make([]int, len(c.shared.data))
		copy(data, c.shared.data)
		data[index] = value
		return cowSlots{shared: &sharedSlots{data: data, refs: 1}}
	}
	c.shared.data[index] = value
	return c
}

// get returns the slot data (may be nil)
func (c cowSlots) get() []int {
	if c.shared == nil {
		return nil
	}
	return c.shared.data
}

// copyData returns a copy of the underlying data (for saving the best match)
func (c cowSlots) copyData() []int {
	if c.shared == nil {
		return nil
	}
	dst := make([]int, len(c.shared.data))
	copy(dst, c.shared.data)
	return dst
}

// runState holds the mutable per-search state. It is pooled by the Machine
// and reset at the start of every run.
type runState struct {
	clist []thread
	nlist []thread
	stack []thread

	// visited deduplicates program counters within one round when the
	// program has no counters; seen does the same for (pc, counters) keys.
	visited *sparse.Set
	seen    map[string]struct{}
	key     []byte

	found     bool
	bestBegin int
	bestEnd   int
	bestSlots []int
}

// NewMachine creates a machine for prog. matchBegin restricts matches to
// those beginning at offset 0, matchEnd to those ending at the end of the
// input. It panics if prog is invalid; use NewMachineChecked for programs
// that were not produced by Compile.
func NewMachine(prog *Program, matchBegin, matchEnd bool) *Machine {
	m, err := NewMachineChecked(prog, matchBegin, matchEnd)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMachineChecked is like NewMachine but returns an error for an invalid
// program.
func NewMachineChecked(prog *Program, matchBegin, matchEnd bool) (*Machine, error) {
	if prog == nil {
		return nil, &InvalidProgramError{Index: InvalidInst, Msg: "nil program"}
	}
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		prog:       prog,
		matchBegin: matchBegin,
		matchEnd:   matchEnd,
	}
	m.pool.New = func() any {
		return m.newState()
	}
	return m, nil
}

func (m *Machine) newState() *runState {
	capacity := m.prog.Len()
	if capacity < 16 {
		capacity = 16
	}
	s := &runState{
		clist: make([]thread, 0, capacity),
		nlist: make([]thread, 0, capacity),
		stack: make([]thread, 0, capacity),
	}
	if m.prog.NumCounters == 0 {
		s.visited = sparse.New(conv.IntToUint32(m.prog.Len()))
	} else {
		s.seen = make(map[string]struct{}, capacity)
	}
	return s
}

// Program returns the program executed by m.
func (m *Machine) Program() *Program {
	return m.prog
}

// MatchBegin reports whether matches must begin at offset 0.
func (m *Machine) MatchBegin() bool {
	return m.matchBegin
}

// MatchEnd reports whether matches must end at the end of the input.
func (m *Machine) MatchEnd() bool {
	return m.matchEnd
}

// Run searches input from offset 0. When capture is false the result
// carries no Captures or Slots.
func (m *Machine) Run(input string, capture bool) MatchResult {
	return m.RunAt(input, 0, capture)
}

// RunAt searches input for a match beginning at or after offset at. A
// begin-anchored machine only matches when at is 0.
func (m *Machine) RunAt(input string, at int, capture bool) MatchResult {
	if at < 0 {
		at = 0
	}
	if at > len(input) || (m.matchBegin && at > 0) {
		return noMatch()
	}

	s := m.pool.Get().(*runState)
	defer m.pool.Put(s)

	if !m.search(s, input, at, capture, false) {
		return noMatch()
	}

	res := MatchResult{Success: true, Begin: s.bestBegin, End: s.bestEnd}
	if capture && m.prog.NumSlots > 0 {
		res.Slots = s.bestSlots
		res.Captures = extractCaptures(input, s.bestSlots)
	}
	return res
}

// IsMatch reports whether input contains any match. It stops at the first
// accepting thread and records no captures.
func (m *Machine) IsMatch(input string) bool {
	s := m.pool.Get().(*runState)
	defer m.pool.Put(s)
	return m.search(s, input, 0, false, true)
}

func extractCaptures(input string, slots []int) []string {
	var caps []string
	for i := 0; i+1 < len(slots); i += 2 {
		lo, hi := slots[i], slots[i+1]
		if lo < 0 || hi < lo {
			continue
		}
		caps = append(caps, input[lo:hi])
	}
	return caps
}

// search runs the round loop and leaves the best match in s. With earliest
// set it returns at the first accepting thread.
func (m *Machine) search(s *runState, input string, at int, capture, earliest bool) bool {
	s.clist = s.clist[:0]
	s.nlist = s.nlist[:0]
	s.found = false
	s.bestBegin, s.bestEnd = -1, -1
	s.bestSlots = nil

	// Seeds share one initial vector each; the first write copies it.
	var initSlots, initCounters cowSlots
	if capture {
		initSlots = newCowSlots(m.prog.NumSlots, -1)
	}
	initCounters = newCowSlots(m.prog.NumCounters, 0)

	for pos := at; pos <= len(input); pos++ {
		// A thread seeded after a match begins too late to win.
		if !s.found && (!m.matchBegin || pos == 0) {
			s.clist = append(s.clist, thread{
				pc:       0,
				begin:    pos,
				slots:    initSlots.clone(),
				counters: initCounters.clone(),
			})
		}
		if len(s.clist) == 0 {
			break
		}

		m.resetVisited(s)
		for i := range s.clist {
			if m.follow(s, s.clist[i], input, pos, earliest) && earliest {
				return true
			}
		}

		if s.found {
			// Only threads that began no later than the best match can
			// still replace it.
			kept := s.nlist[:0]
			for _, t := range s.nlist {
				if t.begin <= s.bestBegin {
					kept = append(kept, t)
				}
			}
			s.nlist = kept
		}
		s.clist, s.nlist = s.nlist, s.clist[:0]
	}
	return s.found
}

// follow runs one thread through the control instructions at pos with an
// explicit stack. Consuming instructions that accept input[pos] park the
// thread in nlist for the next round. It reports whether a match was
// submitted.
func (m *Machine) follow(s *runState, t thread, input string, pos int, earliest bool) bool {
	matched := false
	s.stack = append(s.stack[:0], t)

	for len(s.stack) > 0 {
		t := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

	chain:
		for {
			if !m.markVisited(s, t) {
				break
			}
			in := m.prog.Inst(t.pc)
			switch in.Op {
			case OpAnyChar, OpAnyWord, OpAnyDigit, OpAnySpace, OpChar, OpRange:
				if pos < len(input) && in.Matches(input[pos]) {
					t.pc++
					s.nlist = append(s.nlist, t)
				}
				break chain

			case OpJump:
				t.pc = in.Target

			case OpSplit:
				first, second := t.pc+1, in.Target
				if in.Greedy {
					first, second = second, first
				}
				s.stack = append(s.stack, thread{
					pc:       second,
					begin:    t.begin,
					slots:    t.slots.clone(),
					counters: t.counters.clone(),
				})
				t.pc = first

			case OpSave:
				t.slots = t.slots.update(int(in.Slot), pos)
				t.pc++

			case OpSet:
				t.counters = t.counters.update(int(in.Counter), in.Value)
				t.pc++

			case OpIncr:
				v := t.counters.get()[in.Counter] + 1
				if v > in.Max {
					break chain
				}
				if in.Max == syntax.RepeatInf && v > in.Min {
					v = in.Min
				}
				t.counters = t.counters.update(int(in.Counter), v)
				t.pc++

			case OpCheck:
				v := t.counters.get()[in.Counter]
				if v < in.Min || v > in.Max {
					break chain
				}
				t.counters = t.counters.update(int(in.Counter), 0)
				t.pc++

			case OpMatch:
				if !m.matchEnd || pos == len(input) {
					m.submit(s, t, pos)
					matched = true
					if earliest {
						return true
					}
				}
				break chain

			default:
				break chain
			}
		}
	}
	return matched
}

// submit offers a finished thread to arbitration: the leftmost begin wins,
// then the rightmost end, then the earlier submission.
func (m *Machine) submit(s *runState, t thread, pos int) {
	if s.found && (t.begin > s.bestBegin || (t.begin == s.bestBegin && pos <= s.bestEnd)) {
		return
	}
	s.found = true
	s.bestBegin = t.begin
	s.bestEnd = pos
	s.bestSlots = t.slots.copyData()
}

func (m *Machine) resetVisited(s *runState) {
	if s.visited != nil {
		s.visited.Clear()
		return
	}
	clear(s.seen)
}

// markVisited records (pc, counters) for the current round. It returns
// false if the pair was already reached by an earlier thread, whose begin
// is no later and whose future is identical.
func (m *Machine) markVisited(s *runState, t thread) bool {
	if s.visited != nil {
		return s.visited.Insert(uint32(t.pc))
	}
	s.key = binary.AppendUvarint(s.key[:0], uint64(t.pc))
	for _, v := range t.counters.get() {
		s.key = binary.AppendUvarint(s.key, uint64(v))
	}
	if _, ok := s.seen[string(s.key)]; ok {
		return false
	}
	s.seen[string(s.key)] = struct{}{}
	return true
}

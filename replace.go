package thompson

import (
	"strings"

	"github.com/coregx/thompson/nfa"
)

// Expand appends template to dst with every $i replaced by the text of
// capture group i of m within src and returns the result.
//
// Group numbering starts at 0 with the first parenthesized group. A group
// that did not participate or does not exist expands to nothing. $$ yields
// a literal '$'; a '$' followed by anything else is copied as is.
//
// Example:
//
//	re := thompson.MustCompile(`(\w+)=(\w+)`)
//	m := re.Find("key=value")
//	dst := re.Expand(nil, "$1:$0", "key=value", m)
//	// dst = []byte("value:key")
func (r *Regex) Expand(dst []byte, template string, src string, m nfa.MatchResult) []byte {
	return expand(dst, template, src, m)
}

func expand(dst []byte, template string, src string, m nfa.MatchResult) []byte {
	for len(template) > 0 {
		i := strings.IndexByte(template, '$')
		if i < 0 {
			break
		}
		dst = append(dst, template[:i]...)
		template = template[i+1:]

		if len(template) == 0 {
			dst = append(dst, '$')
			break
		}
		switch c := template[0]; {
		case c == '$':
			dst = append(dst, '$')
			template = template[1:]
		case c >= '0' && c <= '9':
			if text, ok := m.Group(src, int(c-'0')); ok {
				dst = append(dst, text...)
			}
			template = template[1:]
		default:
			dst = append(dst, '$')
		}
	}
	return append(dst, template...)
}

// Replace returns a copy of src with the first match replaced by the
// expansion of template. src is returned unchanged when nothing matches.
//
// Example:
//
//	re := thompson.MustCompile(`a+b`)
//	re.Replace("caabdabe", "ef") // "cefdabe"
func (r *Regex) Replace(src, template string) string {
	m := r.withCaptures(src, 0)
	if !m.Success {
		return src
	}
	dst := make([]byte, 0, len(src)+len(template))
	dst = append(dst, src[:m.Begin]...)
	dst = expand(dst, template, src, m)
	dst = append(dst, src[m.End:]...)
	return string(dst)
}

// ReplaceAll returns a copy of src with every non-overlapping match
// replaced by the expansion of template.
//
// Example:
//
//	re := thompson.MustCompile(`(a+)b`)
//	re.ReplaceAll("caabdabe", "$0ff") // "caaffdaffe"
func (r *Regex) ReplaceAll(src, template string) string {
	var dst []byte
	last := 0
	matched := false
	r.each(src, -1, true, func(m nfa.MatchResult) bool {
		matched = true
		dst = append(dst, src[last:m.Begin]...)
		dst = expand(dst, template, src, m)
		last = m.End
		return true
	})
	if !matched {
		return src
	}
	dst = append(dst, src[last:]...)
	return string(dst)
}

// ReplaceAllFunc returns a copy of src in which every match has been
// replaced by the return value of repl applied to the matched text. The
// replacement is substituted directly, without template expansion.
//
// Example:
//
//	re := thompson.MustCompile(`\d+`)
//	re.ReplaceAllFunc("1 22 3", func(s string) string { return "<" + s + ">" })
//	// "<1> <22> <3>"
func (r *Regex) ReplaceAllFunc(src string, repl func(string) string) string {
	var b strings.Builder
	last := 0
	matched := false
	r.each(src, -1, false, func(m nfa.MatchResult) bool {
		matched = true
		b.WriteString(src[last:m.Begin])
		b.WriteString(repl(src[m.Begin:m.End]))
		last = m.End
		return true
	})
	if !matched {
		return src
	}
	b.WriteString(src[last:])
	return b.String()
}

// Split slices s into the substrings between matches. An empty match at
// the start of s produces no leading empty substring, and an empty match at
// the end produces no trailing one.
//
// The count determines the number of substrings to return:
//
//	n > 0: at most n substrings; the last substring will be the unsplit remainder.
//	n == 0: the result is nil (zero substrings)
//	n < 0: all substrings
//
// Example:
//
//	re := thompson.MustCompile(`,`)
//	re.Split("a,b,c", -1) // ["a", "b", "c"]
func (r *Regex) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}
	if s == "" {
		return []string{""}
	}
	var parts []string
	last, end := 0, 0
	r.each(s, -1, false, func(m nfa.MatchResult) bool {
		if n > 0 && len(parts) == n-1 {
			return false
		}
		end = m.Begin
		if m.End != 0 {
			parts = append(parts, s[last:m.Begin])
		}
		last = m.End
		return true
	})
	if end != len(s) {
		parts = append(parts, s[last:])
	}
	return parts
}

// withCaptures finds the first match at or after at with capture slots
// recorded, whatever the configured default.
func (r *Regex) withCaptures(s string, at int) nfa.MatchResult {
	return r.findAtCounted(s, at, true)
}

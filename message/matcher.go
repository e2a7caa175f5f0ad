package message

import "strings"

// Matcher decides whether a single string value (a tag, a resource
// address, a cache path) is accepted.
type Matcher interface {
	Match(value string) bool
}

type exact string

func (m exact) Match(value string) bool { return string(m) == value }

// Exact returns a Matcher that accepts only the given literal value.
func Exact(value string) Matcher { return exact(value) }

type predicate func(string) bool

func (m predicate) Match(value string) bool {
	if m == nil {
		return false
	}
	return m(value)
}

// Predicate wraps an arbitrary function as a Matcher. A nil function
// matches nothing.
func Predicate(fn func(string) bool) Matcher { return predicate(fn) }

type prefix string

func (m prefix) Match(value string) bool {
	if string(m) == value {
		return true
	}
	return strings.HasPrefix(value, string(m)+".")
}

// Prefix returns a Matcher that accepts the given dotted path and every
// path nested under it: Prefix("editor") accepts "editor" and
// "editor.tabSize" but not "editors".
func Prefix(path string) Matcher { return prefix(path) }

// Matchers is a set of matchers offering the two combination modes used
// by listener gates and resource filters.
type Matchers []Matcher

// AnyOf reports whether at least one matcher accepts at least one of the
// values. An empty set accepts nothing.
func (ms Matchers) AnyOf(values ...string) bool {
	for _, m := range ms {
		for _, v := range values {
			if m.Match(v) {
				return true
			}
		}
	}
	return false
}

// AllOf reports whether every matcher accepts at least one of the
// values. An empty set is vacuously satisfied.
func (ms Matchers) AllOf(values ...string) bool {
	for _, m := range ms {
		matched := false
		for _, v := range values {
			if m.Match(v) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Literal converts plain tag strings into exact matchers.
func Literal(values ...string) Matchers {
	ms := make(Matchers, 0, len(values))
	for _, v := range values {
		ms = append(ms, Exact(v))
	}
	return ms
}

package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExact(t *testing.T) {
	m := Exact("updated")
	assert.True(t, m.Match("updated"))
	assert.False(t, m.Match("update"))
	assert.False(t, m.Match(""))
}

func TestPredicate(t *testing.T) {
	t.Run("wraps the function", func(t *testing.T) {
		m := Predicate(func(v string) bool { return strings.HasPrefix(v, "user.") })
		assert.True(t, m.Match("user.created"))
		assert.False(t, m.Match("order.created"))
	})

	t.Run("nil function matches nothing", func(t *testing.T) {
		m := Predicate(nil)
		assert.False(t, m.Match("anything"))
		assert.False(t, m.Match(""))
	})
}

func TestPrefix(t *testing.T) {
	m := Prefix("editor")
	assert.True(t, m.Match("editor"))
	assert.True(t, m.Match("editor.tabSize"))
	assert.True(t, m.Match("editor.theme.dark"))
	assert.False(t, m.Match("editors"))
	assert.False(t, m.Match("edit"))
}

func TestMatchersAnyOf(t *testing.T) {
	t.Run("empty set accepts nothing", func(t *testing.T) {
		assert.False(t, Matchers{}.AnyOf("a", "b"))
		assert.False(t, Matchers(nil).AnyOf("a"))
	})

	t.Run("one hit is enough", func(t *testing.T) {
		ms := Matchers{Exact("a"), Exact("b")}
		assert.True(t, ms.AnyOf("x", "b"))
		assert.True(t, ms.AnyOf("a"))
	})

	t.Run("no hit rejects", func(t *testing.T) {
		ms := Matchers{Exact("a"), Exact("b")}
		assert.False(t, ms.AnyOf("x", "y"))
		assert.False(t, ms.AnyOf())
	})
}

func TestMatchersAllOf(t *testing.T) {
	t.Run("empty set is vacuously satisfied", func(t *testing.T) {
		assert.True(t, Matchers{}.AllOf("a"))
		assert.True(t, Matchers(nil).AllOf())
	})

	t.Run("every matcher needs a hit", func(t *testing.T) {
		ms := Matchers{Exact("a"), Predicate(func(v string) bool { return v == "b" })}
		assert.True(t, ms.AllOf("a", "b", "c"))
		assert.False(t, ms.AllOf("a", "c"))
		assert.False(t, ms.AllOf())
	})

	t.Run("a matcher may be satisfied by any value", func(t *testing.T) {
		ms := Matchers{Exact("b")}
		assert.True(t, ms.AllOf("a", "b"))
	})
}

func TestLiteral(t *testing.T) {
	ms := Literal("a", "b")
	assert.Len(t, ms, 2)
	assert.True(t, ms.AnyOf("b"))
	assert.False(t, ms.AnyOf("c"))
}

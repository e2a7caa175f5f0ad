package reflectx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calculator struct {
	base int
}

func (c *calculator) Add(n int) int    { return c.base + n }
func (c *calculator) Describe() string { return "calculator" }
func (c calculator) Base() int         { return c.base }

func TestBoundMethod(t *testing.T) {
	t.Run("binds a matching method", func(t *testing.T) {
		add, err := BoundMethod[func(int) int](&calculator{base: 2}, "Add")
		require.NoError(t, err)
		assert.Equal(t, 5, add(3))
	})

	t.Run("binds a value receiver method", func(t *testing.T) {
		base, err := BoundMethod[func() int](calculator{base: 7}, "Base")
		require.NoError(t, err)
		assert.Equal(t, 7, base())
	})

	t.Run("accepts a named signature type", func(t *testing.T) {
		type adder func(int) int
		add, err := BoundMethod[adder](&calculator{base: 1}, "Add")
		require.NoError(t, err)
		assert.Equal(t, 3, add(2))
	})

	t.Run("fails on a missing method", func(t *testing.T) {
		_, err := BoundMethod[func(int) int](&calculator{}, "Sub")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no method "Sub"`)
	})

	t.Run("fails on a signature mismatch", func(t *testing.T) {
		_, err := BoundMethod[func(string) string](&calculator{}, "Add")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "want func(string) string")
	})

	t.Run("fails on a nil target", func(t *testing.T) {
		_, err := BoundMethod[func(int) int](nil, "Add")
		require.Error(t, err)
	})
}

func TestMethodName(t *testing.T) {
	t.Run("method value", func(t *testing.T) {
		c := &calculator{}
		assert.Equal(t, "Add", MethodName(c.Add))
		assert.Equal(t, "Base", MethodName(c.Base))
	})

	t.Run("not a func", func(t *testing.T) {
		assert.Equal(t, "", MethodName(nil))
		assert.Equal(t, "", MethodName(42))
	})
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "calculator", TypeName(calculator{}))
	assert.Equal(t, "calculator", TypeName(&calculator{}))
	assert.Equal(t, "int", TypeName(42))
	assert.Equal(t, "", TypeName(nil))
}

package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing(t *testing.T) {
	assert := assert.New(t)

	t.Run("Empty Ring", func(t *testing.T) {
		r := NewRing[string](3)

		assert.True(r.IsEmpty())
		assert.Equal(0, r.Len())
		assert.Equal(3, r.Cap())
		assert.Empty(r.Items())

		_, ok := r.Pop()
		assert.False(ok)
	})

	t.Run("Push and Pop", func(t *testing.T) {
		r := NewRing[string](3)

		_, evicted := r.Push("a")
		assert.False(evicted)
		r.Push("b")
		assert.Equal([]string{"a", "b"}, r.Items())

		item, ok := r.Pop()
		assert.True(ok)
		assert.Equal("a", item)
		assert.Equal(1, r.Len())
	})

	t.Run("Full ring drops oldest", func(t *testing.T) {
		r := NewRing[int](3)
		for i := 1; i <= 3; i++ {
			r.Push(i)
		}
		assert.True(r.IsFull())

		old, evicted := r.Push(4)
		assert.True(evicted)
		assert.Equal(1, old)
		assert.Equal([]int{2, 3, 4}, r.Items())

		r.Push(5)
		r.Push(6)
		assert.Equal([]int{4, 5, 6}, r.Items())
	})

	t.Run("Wraps after pops", func(t *testing.T) {
		r := NewRing[int](2)
		r.Push(1)
		r.Push(2)
		r.Pop()
		r.Push(3)
		assert.Equal([]int{2, 3}, r.Items())
	})

	t.Run("Reset", func(t *testing.T) {
		r := NewRing[int](2)
		r.Push(1)
		r.Reset()
		assert.True(r.IsEmpty())
		r.Push(7)
		assert.Equal([]int{7}, r.Items())
	})

	t.Run("Capacity floor", func(t *testing.T) {
		r := NewRing[int](0)
		assert.Equal(1, r.Cap())
		r.Push(1)
		r.Push(2)
		assert.Equal([]int{2}, r.Items())
	})
}

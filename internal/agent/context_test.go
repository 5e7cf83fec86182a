package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionContext(t *testing.T) {
	t.Run("append and snapshot", func(t *testing.T) {
		sc := NewSessionContext(10)
		sc.Append("Customer", "Order")

		assert.Equal(t, []string{"Customer", "Order"}, sc.Snapshot())
	})

	t.Run("evicts oldest beyond capacity", func(t *testing.T) {
		sc := NewSessionContext(3)
		sc.Append("a", "b", "c", "d", "e")

		assert.Equal(t, []string{"c", "d", "e"}, sc.Snapshot())
	})

	t.Run("deduplicates entries", func(t *testing.T) {
		sc := NewSessionContext(10)
		sc.Append("Customer")
		sc.Append("Customer", "Order")

		assert.Equal(t, []string{"Customer", "Order"}, sc.Snapshot())
	})

	t.Run("ignores empty names", func(t *testing.T) {
		sc := NewSessionContext(10)
		sc.Append("", "Customer", "")

		assert.Equal(t, []string{"Customer"}, sc.Snapshot())
	})

	t.Run("clear drops everything", func(t *testing.T) {
		sc := NewSessionContext(10)
		sc.Append("Customer")
		sc.Clear()

		assert.Empty(t, sc.Snapshot())
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		sc := NewSessionContext(10)
		sc.Append("Customer")

		snap := sc.Snapshot()
		snap[0] = "mutated"

		assert.Equal(t, []string{"Customer"}, sc.Snapshot())
	})
}

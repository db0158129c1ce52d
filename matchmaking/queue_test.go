package matchmaking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntakeQueue(t *testing.T) {

	t.Run("enqueue is idempotent per player", func(t *testing.T) {
		q := NewIntakeQueue()

		require.True(t, q.Enqueue("p1", "first join"))
		require.False(t, q.Enqueue("p1", "second join"))
		require.Equal(t, 1, q.Len())

		entries := q.DrainAll()
		require.Len(t, entries, 1)
		require.Equal(t, "p1", entries[0].PlayerID)
		// the first payload wins, the duplicate join was a no-op
		require.Equal(t, "first join", entries[0].Payload)
	})

	t.Run("drain empties the queue and preserves insertion order", func(t *testing.T) {
		q := NewIntakeQueue()
		for i := 0; i < 5; i++ {
			q.Enqueue(fmt.Sprintf("p%d", i), nil)
		}

		entries := q.DrainAll()
		require.Len(t, entries, 5)
		for i, entry := range entries {
			require.Equal(t, fmt.Sprintf("p%d", i), entry.PlayerID)
		}

		require.Equal(t, 0, q.Len())
		require.Empty(t, q.DrainAll())
	})

	t.Run("drained player can requeue", func(t *testing.T) {
		q := NewIntakeQueue()
		q.Enqueue("p1", nil)
		q.DrainAll()

		require.True(t, q.Enqueue("p1", nil))
		require.Equal(t, 1, q.Len())
	})
}

package workers

import (
	"context"
	"testing"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/domain/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRegistry(t *testing.T) {
	ctx := context.Background()

	newWorker := func(name string) *workers.Worker {
		return &workers.Worker{
			Name:     name,
			Hostname: "node1",
			PID:      4242,
			Queues:   []string{"default", "instrument"},
			BirthAt:  time.Now(),
		}
	}

	t.Run("register and find", func(t *testing.T) {
		r := NewInMemoryRegistry()
		require.NoError(t, r.Register(ctx, newWorker("w1")))

		found, err := r.Find(ctx, "w1")
		require.NoError(t, err)
		assert.Equal(t, "node1", found.Hostname)
		assert.Equal(t, []string{"default", "instrument"}, found.Queues)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		r := NewInMemoryRegistry()
		assert.Error(t, r.Register(ctx, &workers.Worker{}))
	})

	t.Run("heartbeat updates timestamp", func(t *testing.T) {
		r := NewInMemoryRegistry()
		require.NoError(t, r.Register(ctx, newWorker("w1")))

		require.NoError(t, r.Heartbeat(ctx, "w1"))

		found, err := r.Find(ctx, "w1")
		require.NoError(t, err)
		require.True(t, found.HasHeartbeat())
		assert.WithinDuration(t, time.Now(), *found.LastHeartbeat, time.Second)
	})

	t.Run("heartbeat for unknown worker", func(t *testing.T) {
		r := NewInMemoryRegistry()
		assert.ErrorIs(t, r.Heartbeat(ctx, "missing"), shared.ErrNotFound)
	})

	t.Run("deregister removes record", func(t *testing.T) {
		r := NewInMemoryRegistry()
		require.NoError(t, r.Register(ctx, newWorker("w1")))
		require.NoError(t, r.Deregister(ctx, "w1"))

		_, err := r.Find(ctx, "w1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list returns all workers", func(t *testing.T) {
		r := NewInMemoryRegistry()
		require.NoError(t, r.Register(ctx, newWorker("w1")))
		require.NoError(t, r.Register(ctx, newWorker("w2")))

		list, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("find returns a copy", func(t *testing.T) {
		r := NewInMemoryRegistry()
		require.NoError(t, r.Register(ctx, newWorker("w1")))

		found, err := r.Find(ctx, "w1")
		require.NoError(t, err)
		found.Hostname = "mutated"

		again, err := r.Find(ctx, "w1")
		require.NoError(t, err)
		assert.Equal(t, "node1", again.Hostname)
	})
}

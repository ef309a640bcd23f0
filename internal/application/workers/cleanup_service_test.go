package workers

import (
	"context"
	"testing"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/domain/workers"
	infraworkers "github.com/cupcake/backend/internal/infrastructure/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func registerWorker(t *testing.T, registry workers.Registry, name string, heartbeatAge time.Duration) {
	t.Helper()
	hb := time.Now().Add(-heartbeatAge)
	err := registry.Register(context.Background(), &workers.Worker{
		Name:          name,
		Hostname:      "node-1",
		PID:           4242,
		BirthAt:       time.Now().Add(-time.Hour),
		LastHeartbeat: &hb,
	})
	require.NoError(t, err)
}

func TestCleanupService_RemovesDeadWorkers(t *testing.T) {
	ctx := context.Background()
	registry := infraworkers.NewInMemoryRegistry()
	svc := NewCleanupService(registry, zap.NewNop())

	registerWorker(t, registry, "alive-worker", 10*time.Second)
	registerWorker(t, registry, "dead-worker", 10*time.Minute)

	result, err := svc.Cleanup(ctx, CleanupInput{Timeout: 5 * time.Minute})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 1, result.Alive)
	assert.Equal(t, 1, result.Dead)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, []string{"dead-worker"}, result.DeadWorkers)

	_, err = registry.Find(ctx, "dead-worker")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = registry.Find(ctx, "alive-worker")
	assert.NoError(t, err)
}

func TestCleanupService_DryRunKeepsDeadWorkers(t *testing.T) {
	ctx := context.Background()
	registry := infraworkers.NewInMemoryRegistry()
	svc := NewCleanupService(registry, zap.NewNop())

	registerWorker(t, registry, "dead-worker", time.Hour)

	result, err := svc.Cleanup(ctx, CleanupInput{Timeout: 5 * time.Minute, DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Dead)
	assert.Equal(t, 0, result.Removed)

	_, err = registry.Find(ctx, "dead-worker")
	assert.NoError(t, err)
}

func TestCleanupService_SkipsWorkersWithoutHeartbeat(t *testing.T) {
	ctx := context.Background()
	registry := infraworkers.NewInMemoryRegistry()
	svc := NewCleanupService(registry, zap.NewNop())

	err := registry.Register(ctx, &workers.Worker{
		Name:     "silent-worker",
		Hostname: "node-2",
		BirthAt:  time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)

	result, err := svc.Cleanup(ctx, CleanupInput{Timeout: 5 * time.Minute})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Dead)
	assert.Equal(t, 0, result.Removed)
	assert.Equal(t, []string{"silent-worker"}, result.NoHeartbeat)

	_, err = registry.Find(ctx, "silent-worker")
	assert.NoError(t, err)
}

func TestCleanupService_DefaultTimeout(t *testing.T) {
	ctx := context.Background()
	registry := infraworkers.NewInMemoryRegistry()
	svc := NewCleanupService(registry, zap.NewNop())

	// 4 minutes is inside the 300 second default.
	registerWorker(t, registry, "recent-worker", 4*time.Minute)
	registerWorker(t, registry, "stale-worker", 6*time.Minute)

	result, err := svc.Cleanup(ctx, CleanupInput{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Alive)
	assert.Equal(t, 1, result.Removed)
}

package workers

import (
	"context"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/domain/workers"
	"go.uber.org/zap"
)

// CleanupInput controls a cleanup pass over the worker registry
type CleanupInput struct {
	// Timeout is the heartbeat age past which a worker counts as dead.
	// Zero falls back to the registry default.
	Timeout time.Duration

	// DryRun reports what would be removed without deregistering
	DryRun bool
}

// CleanupResult summarises one cleanup pass
type CleanupResult struct {
	Checked     int      `json:"checked"`
	Alive       int      `json:"alive"`
	Dead        int      `json:"dead"`
	Removed     int      `json:"removed"`
	NoHeartbeat []string `json:"no_heartbeat,omitempty"`
	DeadWorkers []string `json:"dead_workers,omitempty"`
}

// CleanupService removes dead workers from the shared registry. Workers
// crash or get OOM-killed without deregistering; their stale records
// would otherwise accumulate forever.
type CleanupService struct {
	registry workers.Registry
	logger   *zap.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(registry workers.Registry, logger *zap.Logger) *CleanupService {
	return &CleanupService{registry: registry, logger: logger}
}

// Cleanup classifies every registered worker and deregisters the dead
// ones. Workers that never recorded a heartbeat are logged and skipped,
// never removed.
func (s *CleanupService) Cleanup(ctx context.Context, input CleanupInput) (*CleanupResult, error) {
	timeout := input.Timeout
	if timeout <= 0 {
		timeout = workers.DefaultHeartbeatTimeout
	}

	registered, err := s.registry.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list workers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list workers")
	}

	now := time.Now()
	result := &CleanupResult{Checked: len(registered)}

	for _, worker := range registered {
		if !worker.HasHeartbeat() {
			s.logger.Warn("Worker has no heartbeat, skipping",
				zap.String("worker", worker.Name),
				zap.String("hostname", worker.Hostname))
			result.NoHeartbeat = append(result.NoHeartbeat, worker.Name)
			continue
		}

		if !worker.IsDead(now, timeout) {
			result.Alive++
			continue
		}

		result.Dead++
		result.DeadWorkers = append(result.DeadWorkers, worker.Name)

		s.logger.Info("Dead worker found",
			zap.String("worker", worker.Name),
			zap.String("hostname", worker.Hostname),
			zap.Int("pid", worker.PID),
			zap.Duration("heartbeat_age", worker.HeartbeatAge(now)),
			zap.Bool("dry_run", input.DryRun))

		if input.DryRun {
			continue
		}

		if err := s.registry.Deregister(ctx, worker.Name); err != nil {
			// Keep going; a single failed removal should not abort the pass.
			s.logger.Error("Failed to deregister worker",
				zap.String("worker", worker.Name),
				zap.Error(err))
			continue
		}
		result.Removed++
	}

	s.logger.Info("Worker cleanup finished",
		zap.Int("checked", result.Checked),
		zap.Int("alive", result.Alive),
		zap.Int("dead", result.Dead),
		zap.Int("removed", result.Removed),
		zap.Int("no_heartbeat", len(result.NoHeartbeat)),
		zap.Bool("dry_run", input.DryRun))

	return result, nil
}

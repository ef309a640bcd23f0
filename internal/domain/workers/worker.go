package workers

import (
	"context"
	"time"
)

// DefaultHeartbeatTimeout is the heartbeat age past which a worker is
// considered dead
const DefaultHeartbeatTimeout = 300 * time.Second

// Worker is a background job worker registered in the shared registry.
// Workers heartbeat periodically; a worker whose last heartbeat is older
// than the timeout is dead and can be deregistered.
type Worker struct {
	Name          string
	Hostname      string
	PID           int
	Queues        []string
	BirthAt       time.Time
	LastHeartbeat *time.Time
	CurrentJobID  string
}

// HasHeartbeat reports whether the worker ever recorded a heartbeat
func (w *Worker) HasHeartbeat() bool {
	return w.LastHeartbeat != nil && !w.LastHeartbeat.IsZero()
}

// HeartbeatAge returns how long ago the worker last heartbeat, relative
// to now
func (w *Worker) HeartbeatAge(now time.Time) time.Duration {
	if !w.HasHeartbeat() {
		return 0
	}
	return now.Sub(*w.LastHeartbeat)
}

// IsDead reports whether the worker's heartbeat age exceeds the timeout.
// Workers without a heartbeat are never classified dead; callers should
// surface them separately.
func (w *Worker) IsDead(now time.Time, timeout time.Duration) bool {
	if !w.HasHeartbeat() {
		return false
	}
	return w.HeartbeatAge(now) > timeout
}

// Registry is the shared worker registry. Workers register on startup,
// heartbeat while alive, and are deregistered on clean shutdown or by
// the cleanup command when dead.
type Registry interface {
	// Register adds or replaces a worker record
	Register(ctx context.Context, worker *Worker) error

	// Heartbeat refreshes the worker's last heartbeat timestamp
	Heartbeat(ctx context.Context, name string) error

	// Deregister removes a worker record
	Deregister(ctx context.Context, name string) error

	// List returns all registered workers
	List(ctx context.Context) ([]*Worker, error)

	// Find returns a single worker by name
	Find(ctx context.Context, name string) (*Worker, error)
}

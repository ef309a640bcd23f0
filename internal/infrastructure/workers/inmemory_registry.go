package workers

import (
	"context"
	"sync"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/domain/workers"
)

// InMemoryRegistry provides an in-memory registry for testing
type InMemoryRegistry struct {
	mu      sync.RWMutex
	records map[string]*workers.Worker
}

// NewInMemoryRegistry creates a new in-memory worker registry
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{records: make(map[string]*workers.Worker)}
}

// Register adds or replaces a worker record
func (r *InMemoryRegistry) Register(_ context.Context, worker *workers.Worker) error {
	if worker == nil || worker.Name == "" {
		return shared.NewDomainError("INVALID_WORKER", "Worker name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *worker
	r.records[worker.Name] = &clone
	return nil
}

// Heartbeat refreshes the worker's last heartbeat timestamp
func (r *InMemoryRegistry) Heartbeat(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	worker, ok := r.records[name]
	if !ok {
		return shared.ErrNotFound
	}
	now := time.Now()
	worker.LastHeartbeat = &now
	return nil
}

// Deregister removes a worker record
func (r *InMemoryRegistry) Deregister(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, name)
	return nil
}

// List returns all registered workers
func (r *InMemoryRegistry) List(_ context.Context) ([]*workers.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*workers.Worker, 0, len(r.records))
	for _, worker := range r.records {
		clone := *worker
		result = append(result, &clone)
	}
	return result, nil
}

// Find returns a single worker by name
func (r *InMemoryRegistry) Find(_ context.Context, name string) (*workers.Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	worker, ok := r.records[name]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *worker
	return &clone, nil
}

// Ensure InMemoryRegistry implements the registry interface
var _ workers.Registry = (*InMemoryRegistry)(nil)

// Package workers provides the Redis-backed worker registry shared with
// background job processes.
package workers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/domain/workers"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// workerSetKey is the set of registered worker names
	workerSetKey = "workers"

	// workerKeyPrefix prefixes the per-worker hash keys
	workerKeyPrefix = "workers:"
)

// RedisRegistry implements the worker registry on Redis. Each worker is a
// hash at workers:<name>, with the set "workers" as the index of names.
type RedisRegistry struct {
	client *redis.Client
	logger *zap.Logger
}

// RedisRegistryConfig holds Redis connection configuration
type RedisRegistryConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRegistry creates a new Redis-backed worker registry
func NewRedisRegistry(cfg RedisRegistryConfig, logger *zap.Logger) (*RedisRegistry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for worker registry: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &RedisRegistry{client: client, logger: logger}, nil
}

// NewRedisRegistryWithClient creates a registry with an existing Redis client
func NewRedisRegistryWithClient(client *redis.Client, logger *zap.Logger) *RedisRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRegistry{client: client, logger: logger}
}

func workerKey(name string) string {
	return workerKeyPrefix + name
}

// Register adds or replaces a worker record
func (r *RedisRegistry) Register(ctx context.Context, worker *workers.Worker) error {
	if worker == nil || worker.Name == "" {
		return shared.NewDomainError("INVALID_WORKER", "Worker name is required")
	}

	fields := map[string]interface{}{
		"hostname":    worker.Hostname,
		"pid":         worker.PID,
		"queues":      strings.Join(worker.Queues, ","),
		"birth":       worker.BirthAt.Unix(),
		"current_job": worker.CurrentJobID,
	}
	if worker.HasHeartbeat() {
		fields["last_heartbeat"] = worker.LastHeartbeat.Unix()
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, workerKey(worker.Name), fields)
	pipe.SAdd(ctx, workerSetKey, worker.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to register worker %s: %w", worker.Name, err)
	}

	r.logger.Info("Worker registered",
		zap.String("worker", worker.Name),
		zap.String("hostname", worker.Hostname),
		zap.Int("pid", worker.PID))
	return nil
}

// Heartbeat refreshes the worker's last heartbeat timestamp
func (r *RedisRegistry) Heartbeat(ctx context.Context, name string) error {
	exists, err := r.client.SIsMember(ctx, workerSetKey, name).Result()
	if err != nil {
		return fmt.Errorf("failed to check worker registration: %w", err)
	}
	if !exists {
		return shared.ErrNotFound
	}

	err = r.client.HSet(ctx, workerKey(name), "last_heartbeat", time.Now().Unix()).Err()
	if err != nil {
		return fmt.Errorf("failed to record heartbeat for worker %s: %w", name, err)
	}
	return nil
}

// Deregister removes a worker record
func (r *RedisRegistry) Deregister(ctx context.Context, name string) error {
	pipe := r.client.TxPipeline()
	pipe.SRem(ctx, workerSetKey, name)
	pipe.Del(ctx, workerKey(name))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to deregister worker %s: %w", name, err)
	}

	r.logger.Info("Worker deregistered", zap.String("worker", name))
	return nil
}

// List returns all registered workers
func (r *RedisRegistry) List(ctx context.Context) ([]*workers.Worker, error) {
	names, err := r.client.SMembers(ctx, workerSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	result := make([]*workers.Worker, 0, len(names))
	for _, name := range names {
		worker, err := r.Find(ctx, name)
		if err != nil {
			// A record can disappear between SMEMBERS and HGETALL when
			// another process deregisters the worker.
			if err == shared.ErrNotFound {
				continue
			}
			return nil, err
		}
		result = append(result, worker)
	}

	return result, nil
}

// Find returns a single worker by name
func (r *RedisRegistry) Find(ctx context.Context, name string) (*workers.Worker, error) {
	fields, err := r.client.HGetAll(ctx, workerKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load worker %s: %w", name, err)
	}
	if len(fields) == 0 {
		return nil, shared.ErrNotFound
	}

	return workerFromHash(name, fields), nil
}

// workerFromHash rebuilds a Worker from its Redis hash fields. Missing or
// malformed fields degrade to zero values rather than failing the scan.
func workerFromHash(name string, fields map[string]string) *workers.Worker {
	worker := &workers.Worker{
		Name:         name,
		Hostname:     fields["hostname"],
		CurrentJobID: fields["current_job"],
	}

	if pid, err := strconv.Atoi(fields["pid"]); err == nil {
		worker.PID = pid
	}
	if queues := fields["queues"]; queues != "" {
		worker.Queues = strings.Split(queues, ",")
	}
	if birth, err := strconv.ParseInt(fields["birth"], 10, 64); err == nil {
		worker.BirthAt = time.Unix(birth, 0)
	}
	if hb, err := strconv.ParseInt(fields["last_heartbeat"], 10, 64); err == nil {
		ts := time.Unix(hb, 0)
		worker.LastHeartbeat = &ts
	}

	return worker
}

// Close closes the Redis client
func (r *RedisRegistry) Close() error {
	return r.client.Close()
}

// Ensure RedisRegistry implements the registry interface
var _ workers.Registry = (*RedisRegistry)(nil)

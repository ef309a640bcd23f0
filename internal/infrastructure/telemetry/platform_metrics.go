// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// PlatformMetrics provides domain metrics for the platform.
// It tracks login activity, instrument job throughput, and the current
// job backlog per status.
type PlatformMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	loginTotal        *Counter
	jobSubmittedTotal *Counter
	tableCreatedTotal *Counter

	// Gauge metrics (point-in-time values)
	jobBacklog         *Gauge
	instrumentsEnabled *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	jobProvider JobMetricsProvider
}

// JobMetricsProvider provides instrument job data for periodic metrics
// collection. This interface allows the telemetry layer to query job state
// without depending on the instruments domain directly.
type JobMetricsProvider interface {
	// GetJobCountsByStatus returns the number of jobs per lifecycle status
	GetJobCountsByStatus(ctx context.Context) (map[string]int64, error)

	// GetEnabledInstrumentCount returns the number of instruments accepting jobs
	GetEnabledInstrumentCount(ctx context.Context) (int64, error)
}

// PlatformMetricsConfig holds configuration for platform metrics.
type PlatformMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	JobProvider     JobMetricsProvider
}

// NewPlatformMetrics creates a new PlatformMetrics instance.
func NewPlatformMetrics(cfg PlatformMetricsConfig) (*PlatformMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &PlatformMetrics{
		meter:       cfg.Meter,
		logger:      logger,
		stopChan:    make(chan struct{}),
		jobProvider: cfg.JobProvider,
	}

	// Initialize counter metrics
	var err error

	pm.loginTotal, err = NewCounter(
		cfg.Meter,
		"cupcake_login_total",
		"Total number of token obtain attempts",
		"{logins}",
	)
	if err != nil {
		return nil, err
	}

	pm.jobSubmittedTotal, err = NewCounter(
		cfg.Meter,
		"cupcake_job_submitted_total",
		"Total number of instrument jobs submitted",
		"{jobs}",
	)
	if err != nil {
		return nil, err
	}

	pm.tableCreatedTotal, err = NewCounter(
		cfg.Meter,
		"cupcake_metadata_table_created_total",
		"Total number of metadata tables created",
		"{tables}",
	)
	if err != nil {
		return nil, err
	}

	// Gauge metrics
	pm.jobBacklog, err = NewGauge(
		cfg.Meter,
		"cupcake_job_backlog",
		"Current number of instrument jobs per status",
		"{jobs}",
	)
	if err != nil {
		return nil, err
	}

	pm.instrumentsEnabled, err = NewGauge(
		cfg.Meter,
		"cupcake_instruments_enabled",
		"Number of instruments currently accepting jobs",
		"{instruments}",
	)
	if err != nil {
		return nil, err
	}

	return pm, nil
}

// =============================================================================
// Login Metrics
// =============================================================================

// LoginResult represents the outcome of a login attempt for metrics labeling.
type LoginResult string

const (
	LoginResultSuccess LoginResult = "success"
	LoginResultFailed  LoginResult = "failed"
)

// RecordLogin records a token obtain attempt.
func (pm *PlatformMetrics) RecordLogin(ctx context.Context, result LoginResult) {
	pm.loginTotal.Inc(ctx,
		AttrLoginResult.String(string(result)),
	)
}

// =============================================================================
// Job Metrics
// =============================================================================

// RecordJobSubmitted records an instrument job submission.
// This should be called from the application layer when a draft job
// transitions to submitted.
func (pm *PlatformMetrics) RecordJobSubmitted(ctx context.Context, instrumentID, jobType string) {
	pm.jobSubmittedTotal.Inc(ctx,
		AttrInstrumentID.String(instrumentID),
		AttrJobType.String(jobType),
	)
}

// RecordTableCreated records a metadata table creation.
func (pm *PlatformMetrics) RecordTableCreated(ctx context.Context) {
	pm.tableCreatedTotal.Inc(ctx)
}

// RecordJobBacklog records the current number of jobs in a given status.
// This is a gauge metric that should be updated periodically.
func (pm *PlatformMetrics) RecordJobBacklog(ctx context.Context, status string, count int64) {
	pm.jobBacklog.Record(ctx, count,
		AttrJobStatus.String(status),
	)
}

// RecordEnabledInstruments records the number of instruments accepting jobs.
func (pm *PlatformMetrics) RecordEnabledInstruments(ctx context.Context, count int64) {
	pm.instrumentsEnabled.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects job backlog metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (pm *PlatformMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	pm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go pm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (pm *PlatformMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	pm.collectJobMetrics(ctx)

	for {
		select {
		case <-pm.stopChan:
			pm.logger.Info("Stopping periodic platform metrics collection")
			return
		case <-ctx.Done():
			pm.logger.Info("Context cancelled, stopping periodic platform metrics collection")
			return
		case <-ticker.C:
			pm.collectJobMetrics(ctx)
		}
	}
}

// collectJobMetrics collects job backlog and instrument gauge metrics.
func (pm *PlatformMetrics) collectJobMetrics(ctx context.Context) {
	if pm.jobProvider == nil {
		pm.logger.Debug("No job provider configured, skipping job metrics collection")
		return
	}

	countsByStatus, err := pm.jobProvider.GetJobCountsByStatus(ctx)
	if err != nil {
		pm.logger.Warn("Failed to get job counts for metrics collection", zap.Error(err))
	} else {
		for status, count := range countsByStatus {
			pm.RecordJobBacklog(ctx, status, count)
		}
	}

	enabledCount, err := pm.jobProvider.GetEnabledInstrumentCount(ctx)
	if err != nil {
		pm.logger.Warn("Failed to get enabled instrument count", zap.Error(err))
	} else {
		pm.RecordEnabledInstruments(ctx, enabledCount)
	}
}

// Stop stops the periodic collection.
func (pm *PlatformMetrics) Stop() {
	pm.stopOnce.Do(func() {
		close(pm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewPlatformMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

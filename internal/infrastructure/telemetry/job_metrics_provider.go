// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormJobMetricsProvider implements JobMetricsProvider using GORM.
// It queries the instrument_jobs and instruments tables directly for
// aggregated metrics.
type GormJobMetricsProvider struct {
	db *gorm.DB
}

// NewGormJobMetricsProvider creates a new GormJobMetricsProvider.
func NewGormJobMetricsProvider(db *gorm.DB) *GormJobMetricsProvider {
	return &GormJobMetricsProvider{db: db}
}

// GetJobCountsByStatus returns the number of jobs per lifecycle status.
func (p *GormJobMetricsProvider) GetJobCountsByStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("instrument_jobs").
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Count
	}

	return m, nil
}

// GetEnabledInstrumentCount returns the number of instruments accepting jobs.
func (p *GormJobMetricsProvider) GetEnabledInstrumentCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("instruments").
		Where("enabled = ?", true).
		Count(&count).Error

	return count, err
}

// Ensure GormJobMetricsProvider implements JobMetricsProvider
var _ JobMetricsProvider = (*GormJobMetricsProvider)(nil)

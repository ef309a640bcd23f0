package instruments

import (
	"context"

	"github.com/google/uuid"
)

// InstrumentRepository persists instruments
type InstrumentRepository interface {
	Create(ctx context.Context, instrument *Instrument) error
	Update(ctx context.Context, instrument *Instrument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Instrument, error)
	FindAll(ctx context.Context, enabledOnly bool) ([]*Instrument, error)
}

// JobRepository persists instrument jobs and their staff assignments
type JobRepository interface {
	// Create creates a new job
	Create(ctx context.Context, job *InstrumentJob) error

	// Update saves the job and replaces its staff assignments
	Update(ctx context.Context, job *InstrumentJob) error

	// Delete deletes a job
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID loads a job with its assigned staff
	FindByID(ctx context.Context, id uuid.UUID) (*InstrumentJob, error)

	// FindByMetadataTable returns the job a metadata table belongs to
	FindByMetadataTable(ctx context.Context, tableID uuid.UUID) (*InstrumentJob, error)

	// FindAll returns jobs matching the filter with pagination
	FindAll(ctx context.Context, filter JobFilter) ([]*InstrumentJob, int64, error)
}

// JobFilter contains filter options for querying instrument jobs
type JobFilter struct {
	Keyword      string
	OwnerID      *uuid.UUID
	InstrumentID *uuid.UUID
	Status       *JobStatus
	AssignedTo   *uuid.UUID

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewJobFilter creates a filter with default values
func NewJobFilter() JobFilter {
	return JobFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithOwner filters by job owner
func (f JobFilter) WithOwner(ownerID uuid.UUID) JobFilter {
	f.OwnerID = &ownerID
	return f
}

// WithInstrument filters by instrument
func (f JobFilter) WithInstrument(instrumentID uuid.UUID) JobFilter {
	f.InstrumentID = &instrumentID
	return f
}

// WithStatus filters by job status
func (f JobFilter) WithStatus(status JobStatus) JobFilter {
	f.Status = &status
	return f
}

// WithAssignee filters by assigned staff member
func (f JobFilter) WithAssignee(userID uuid.UUID) JobFilter {
	f.AssignedTo = &userID
	return f
}

// WithPagination sets pagination parameters
func (f JobFilter) WithPagination(page, pageSize int) JobFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f JobFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f JobFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

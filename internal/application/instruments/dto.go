package instruments

import (
	"time"

	"github.com/cupcake/backend/internal/domain/instruments"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInstrumentInput contains the input for instrument registration
type CreateInstrumentInput struct {
	ActorID     uuid.UUID
	Name        string
	Description string
}

// UpdateInstrumentInput contains the input for instrument updates
type UpdateInstrumentInput struct {
	ActorID      uuid.UUID
	InstrumentID uuid.UUID
	Name         *string
	Description  *string
}

// InstrumentDTO is the transferable representation of an instrument
type InstrumentDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateJobInput contains the input for draft job creation
type CreateJobInput struct {
	ActorID      uuid.UUID
	InstrumentID uuid.UUID
	JobName      string
	JobType      string
	SampleCount  int
}

// UpdateJobInput contains the input for draft job edits
type UpdateJobInput struct {
	ActorID     uuid.UUID
	JobID       uuid.UUID
	JobName     *string
	JobType     *string
	SampleCount *int
}

// ListJobsInput contains filters for listing jobs
type ListJobsInput struct {
	ActorID      uuid.UUID
	Keyword      string
	InstrumentID *uuid.UUID
	Status       *instruments.JobStatus
	AssignedToMe bool
	Page         int
	PageSize     int
}

// AssignStaffInput assigns or unassigns staff on a job
type AssignStaffInput struct {
	ActorID uuid.UUID
	JobID   uuid.UUID
	UserID  uuid.UUID
}

// SetBillableHoursInput records billable time on a job
type SetBillableHoursInput struct {
	ActorID         uuid.UUID
	JobID           uuid.UUID
	InstrumentHours decimal.Decimal
	PersonnelHours  decimal.Decimal
}

// AttachMetadataTableInput creates and links a sample metadata table
type AttachMetadataTableInput struct {
	ActorID   uuid.UUID
	JobID     uuid.UUID
	TableName string
}

// JobDTO is the transferable representation of an instrument job
type JobDTO struct {
	ID              uuid.UUID             `json:"id"`
	InstrumentID    uuid.UUID             `json:"instrument_id"`
	MetadataTableID *uuid.UUID            `json:"metadata_table_id,omitempty"`
	OwnerID         uuid.UUID             `json:"owner_id"`
	JobName         string                `json:"job_name"`
	JobType         string                `json:"job_type,omitempty"`
	Status          instruments.JobStatus `json:"status"`
	AssignedStaff   []uuid.UUID           `json:"assigned_staff"`
	SampleCount     int                   `json:"sample_count"`
	InstrumentHours decimal.Decimal       `json:"instrument_hours"`
	PersonnelHours  decimal.Decimal       `json:"personnel_hours"`
	SubmittedAt     *time.Time            `json:"submitted_at,omitempty"`
	CompletedAt     *time.Time            `json:"completed_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// JobListResult contains a page of jobs
type JobListResult struct {
	Jobs       []JobDTO `json:"jobs"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}

func toInstrumentDTO(inst *instruments.Instrument) InstrumentDTO {
	return InstrumentDTO{
		ID:          inst.ID,
		Name:        inst.Name,
		Description: inst.Description,
		Enabled:     inst.Enabled,
		CreatedAt:   inst.CreatedAt,
	}
}

func toJobDTO(job *instruments.InstrumentJob) JobDTO {
	return JobDTO{
		ID:              job.ID,
		InstrumentID:    job.InstrumentID,
		MetadataTableID: job.MetadataTableID,
		OwnerID:         job.OwnerID,
		JobName:         job.JobName,
		JobType:         job.JobType,
		Status:          job.Status,
		AssignedStaff:   job.AssignedStaff,
		SampleCount:     job.SampleCount,
		InstrumentHours: job.InstrumentHours,
		PersonnelHours:  job.PersonnelHours,
		SubmittedAt:     job.SubmittedAt,
		CompletedAt:     job.CompletedAt,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}

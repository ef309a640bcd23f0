package models

import (
	"time"

	"github.com/cupcake/backend/internal/domain/instruments"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstrumentModel is the GORM model for instruments
type InstrumentModel struct {
	AggregateModel
	Name        string `gorm:"size:255;not null;index"`
	Description string `gorm:"type:text"`
	Enabled     bool   `gorm:"not null;default:true;index"`
}

// TableName specifies the table name
func (InstrumentModel) TableName() string {
	return "instruments"
}

// ToDomain converts InstrumentModel to domain Instrument
func (m *InstrumentModel) ToDomain() *instruments.Instrument {
	return &instruments.Instrument{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Enabled:           m.Enabled,
	}
}

// InstrumentModelFromDomain creates an InstrumentModel from domain Instrument
func InstrumentModelFromDomain(instrument *instruments.Instrument) *InstrumentModel {
	model := &InstrumentModel{
		Name:        instrument.Name,
		Description: instrument.Description,
		Enabled:     instrument.Enabled,
	}
	model.FromDomainAggregateRoot(instrument.BaseAggregateRoot)
	return model
}

// InstrumentJobModel is the GORM model for instrument jobs.
// Staff assignments live in the job_staff_assignments join table and are
// loaded and attached by the repository.
type InstrumentJobModel struct {
	OwnedAggregateModel
	InstrumentID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	MetadataTableID   *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	JobType           string          `gorm:"size:100"`
	JobName           string          `gorm:"size:255;not null"`
	Status            string          `gorm:"size:20;not null;default:'draft';index"`
	SampleCount       int             `gorm:"not null;default:0"`
	InstrumentHours   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PersonnelHours    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	SubmittedAt       *time.Time      `gorm:""`
	CompletedAt       *time.Time      `gorm:""`
	InstrumentStartAt *time.Time      `gorm:""`
	InstrumentEndAt   *time.Time      `gorm:""`
	PersonnelStartAt  *time.Time      `gorm:""`
	PersonnelEndAt    *time.Time      `gorm:""`
}

// TableName specifies the table name
func (InstrumentJobModel) TableName() string {
	return "instrument_jobs"
}

// ToDomain converts InstrumentJobModel to domain InstrumentJob
func (m *InstrumentJobModel) ToDomain() *instruments.InstrumentJob {
	return &instruments.InstrumentJob{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		InstrumentID:       m.InstrumentID,
		MetadataTableID:    m.MetadataTableID,
		JobType:            m.JobType,
		JobName:            m.JobName,
		Status:             instruments.JobStatus(m.Status),
		AssignedStaff:      make([]uuid.UUID, 0),
		SampleCount:        m.SampleCount,
		InstrumentHours:    m.InstrumentHours,
		PersonnelHours:     m.PersonnelHours,
		SubmittedAt:        m.SubmittedAt,
		CompletedAt:        m.CompletedAt,
		InstrumentStartAt:  m.InstrumentStartAt,
		InstrumentEndAt:    m.InstrumentEndAt,
		PersonnelStartAt:   m.PersonnelStartAt,
		PersonnelEndAt:     m.PersonnelEndAt,
	}
}

// InstrumentJobModelFromDomain creates an InstrumentJobModel from domain InstrumentJob
func InstrumentJobModelFromDomain(job *instruments.InstrumentJob) *InstrumentJobModel {
	model := &InstrumentJobModel{
		InstrumentID:      job.InstrumentID,
		MetadataTableID:   job.MetadataTableID,
		JobType:           job.JobType,
		JobName:           job.JobName,
		Status:            string(job.Status),
		SampleCount:       job.SampleCount,
		InstrumentHours:   job.InstrumentHours,
		PersonnelHours:    job.PersonnelHours,
		SubmittedAt:       job.SubmittedAt,
		CompletedAt:       job.CompletedAt,
		InstrumentStartAt: job.InstrumentStartAt,
		InstrumentEndAt:   job.InstrumentEndAt,
		PersonnelStartAt:  job.PersonnelStartAt,
		PersonnelEndAt:    job.PersonnelEndAt,
	}
	model.FromDomainOwnedAggregateRoot(job.OwnedAggregateRoot)
	return model
}

// JobStaffAssignmentModel is the GORM model for job staff assignments
type JobStaffAssignmentModel struct {
	JobID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (JobStaffAssignmentModel) TableName() string {
	return "job_staff_assignments"
}

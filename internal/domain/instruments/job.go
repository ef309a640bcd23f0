package instruments

import (
	"strings"
	"time"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobStatus is the lifecycle state of an instrument job
type JobStatus string

const (
	JobDraft      JobStatus = "draft"
	JobSubmitted  JobStatus = "submitted"
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// validTransitions lists the allowed status transitions. Completed and
// cancelled are terminal.
var validTransitions = map[JobStatus][]JobStatus{
	JobDraft:      {JobSubmitted, JobCancelled},
	JobSubmitted:  {JobPending, JobCancelled},
	JobPending:    {JobInProgress, JobCancelled},
	JobInProgress: {JobCompleted, JobCancelled},
	JobCompleted:  {},
	JobCancelled:  {},
}

// CanTransition reports whether a status change is allowed
func (s JobStatus) CanTransition(to JobStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s JobStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// InstrumentJob is a request to run samples on an instrument. Access
// rules depend on the job's status: owners lose write access once the
// job leaves draft, while assigned staff gain it.
type InstrumentJob struct {
	shared.OwnedAggregateRoot
	InstrumentID    uuid.UUID
	MetadataTableID *uuid.UUID
	JobType         string
	JobName         string
	Status          JobStatus
	AssignedStaff   []uuid.UUID
	SampleCount     int

	// Billable time
	InstrumentHours decimal.Decimal
	PersonnelHours  decimal.Decimal

	SubmittedAt       *time.Time
	CompletedAt       *time.Time
	InstrumentStartAt *time.Time
	InstrumentEndAt   *time.Time
	PersonnelStartAt  *time.Time
	PersonnelEndAt    *time.Time
}

// NewInstrumentJob creates a draft job
func NewInstrumentJob(ownerID, instrumentID uuid.UUID, jobName string) (*InstrumentJob, error) {
	jobName = strings.TrimSpace(jobName)
	if jobName == "" {
		return nil, shared.NewDomainError("INVALID_JOB_NAME", "Job name cannot be empty")
	}
	if instrumentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INSTRUMENT", "Instrument ID cannot be empty")
	}

	return &InstrumentJob{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		InstrumentID:       instrumentID,
		JobName:            jobName,
		Status:             JobDraft,
		AssignedStaff:      make([]uuid.UUID, 0),
		InstrumentHours:    decimal.Zero,
		PersonnelHours:     decimal.Zero,
	}, nil
}

// transition applies a status change after validating it
func (j *InstrumentJob) transition(to JobStatus) error {
	if !j.Status.CanTransition(to) {
		return shared.ErrInvalidState
	}

	j.Status = to
	j.touch()

	return nil
}

// Submit moves a draft job into the review queue
func (j *InstrumentJob) Submit() error {
	if err := j.transition(JobSubmitted); err != nil {
		return err
	}

	now := time.Now()
	j.SubmittedAt = &now

	return nil
}

// Accept moves a submitted job to pending (staff accepted it for work)
func (j *InstrumentJob) Accept() error {
	return j.transition(JobPending)
}

// Start moves a pending job to in progress
func (j *InstrumentJob) Start() error {
	if err := j.transition(JobInProgress); err != nil {
		return err
	}

	now := time.Now()
	if j.InstrumentStartAt == nil {
		j.InstrumentStartAt = &now
	}
	if j.PersonnelStartAt == nil {
		j.PersonnelStartAt = &now
	}

	return nil
}

// Complete finishes an in-progress job, filling any missing end times
func (j *InstrumentJob) Complete() error {
	if err := j.transition(JobCompleted); err != nil {
		return err
	}

	now := time.Now()
	j.CompletedAt = &now
	if j.InstrumentEndAt == nil {
		j.InstrumentEndAt = &now
	}
	if j.PersonnelEndAt == nil {
		j.PersonnelEndAt = &now
	}

	return nil
}

// Cancel cancels the job from any non-terminal state
func (j *InstrumentJob) Cancel() error {
	return j.transition(JobCancelled)
}

// AssignStaff adds a staff member to the job
func (j *InstrumentJob) AssignStaff(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	for _, id := range j.AssignedStaff {
		if id == userID {
			return shared.NewDomainError("ALREADY_ASSIGNED", "User is already assigned to this job")
		}
	}

	j.AssignedStaff = append(j.AssignedStaff, userID)
	j.touch()

	return nil
}

// UnassignStaff removes a staff member from the job
func (j *InstrumentJob) UnassignStaff(userID uuid.UUID) error {
	kept := make([]uuid.UUID, 0, len(j.AssignedStaff))
	found := false
	for _, id := range j.AssignedStaff {
		if id == userID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if !found {
		return shared.NewDomainError("NOT_ASSIGNED", "User is not assigned to this job")
	}

	j.AssignedStaff = kept
	j.touch()

	return nil
}

// IsAssigned reports whether the user is assigned staff on this job
func (j *InstrumentJob) IsAssigned(userID uuid.UUID) bool {
	for _, id := range j.AssignedStaff {
		if id == userID {
			return true
		}
	}
	return false
}

// SetBillableHours records the billable instrument and personnel time
func (j *InstrumentJob) SetBillableHours(instrumentHours, personnelHours decimal.Decimal) error {
	if instrumentHours.IsNegative() || personnelHours.IsNegative() {
		return shared.NewDomainError("INVALID_HOURS", "Billable hours cannot be negative")
	}

	j.InstrumentHours = instrumentHours
	j.PersonnelHours = personnelHours
	j.touch()

	return nil
}

// AttachMetadataTable links the job to its sample metadata table
func (j *InstrumentJob) AttachMetadataTable(tableID uuid.UUID) {
	j.MetadataTableID = &tableID
	j.touch()
}

// CanView reports whether the user may read the job: staff always, the
// owner always, assigned staff always.
func (j *InstrumentJob) CanView(user *accounts.User) bool {
	if user == nil {
		return false
	}
	return user.IsStaff || j.OwnerID == user.ID || j.IsAssigned(user.ID)
}

// CanEdit reports whether the user may modify the job: staff and
// assigned staff always; the owner only while the job is a draft.
func (j *InstrumentJob) CanEdit(user *accounts.User) bool {
	if user == nil {
		return false
	}
	if user.IsStaff || j.IsAssigned(user.ID) {
		return true
	}
	return j.OwnerID == user.ID && j.Status == JobDraft
}

// CanDelete reports whether the user may delete the job: staff always;
// the owner only while the job is a draft.
func (j *InstrumentJob) CanDelete(user *accounts.User) bool {
	if user == nil {
		return false
	}
	if user.IsStaff {
		return true
	}
	return j.OwnerID == user.ID && j.Status == JobDraft
}

// CanViewMetadata reports whether the user may read the job's metadata
// table. Draft jobs hide metadata from everyone but the owner and staff.
func (j *InstrumentJob) CanViewMetadata(user *accounts.User) bool {
	if user == nil {
		return false
	}
	if j.Status == JobDraft {
		return user.IsStaff || j.OwnerID == user.ID
	}
	return j.CanView(user)
}

// CanEditMetadata reports whether the user may edit the job's metadata
// table: the owner or assigned staff.
func (j *InstrumentJob) CanEditMetadata(user *accounts.User) bool {
	if user == nil {
		return false
	}
	return j.OwnerID == user.ID || j.IsAssigned(user.ID) || user.IsStaff
}

func (j *InstrumentJob) touch() {
	j.UpdatedAt = time.Now()
	j.IncrementVersion()
}

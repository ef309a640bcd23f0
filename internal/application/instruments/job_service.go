package instruments

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/instruments"
	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobService manages instrument jobs through their lifecycle. Access
// depends on the job's status: owners lose write access once the job
// leaves draft, while assigned staff gain it.
type JobService struct {
	jobRepo         instruments.JobRepository
	instrumentRepo  instruments.InstrumentRepository
	tableRepo       metadata.TableRepository
	userRepo        accounts.UserRepository
	logger          *zap.Logger
	platformMetrics *telemetry.PlatformMetrics
}

// SetPlatformMetrics sets the platform metrics collector
func (s *JobService) SetPlatformMetrics(pm *telemetry.PlatformMetrics) {
	s.platformMetrics = pm
}

// NewJobService creates a new job service
func NewJobService(
	jobRepo instruments.JobRepository,
	instrumentRepo instruments.InstrumentRepository,
	tableRepo metadata.TableRepository,
	userRepo accounts.UserRepository,
	logger *zap.Logger,
) *JobService {
	return &JobService{
		jobRepo:        jobRepo,
		instrumentRepo: instrumentRepo,
		tableRepo:      tableRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// CreateJob creates a draft job on an enabled instrument
func (s *JobService) CreateJob(ctx context.Context, input CreateJobInput) (*JobDTO, error) {
	if _, err := s.userRepo.FindByID(ctx, input.ActorID); err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}

	inst, err := s.instrumentRepo.FindByID(ctx, input.InstrumentID)
	if err != nil {
		return nil, shared.NewDomainError("INSTRUMENT_NOT_FOUND", "Instrument not found")
	}
	if !inst.Enabled {
		return nil, shared.NewDomainError("INSTRUMENT_DISABLED", "Instrument is out of service")
	}

	job, err := instruments.NewInstrumentJob(input.ActorID, input.InstrumentID, input.JobName)
	if err != nil {
		return nil, err
	}
	job.JobType = input.JobType
	job.SampleCount = input.SampleCount

	if err := s.jobRepo.Create(ctx, job); err != nil {
		s.logger.Error("Failed to create job", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create job")
	}

	s.logger.Info("Job created",
		zap.String("job_id", job.ID.String()),
		zap.String("instrument_id", input.InstrumentID.String()),
		zap.String("owner_id", input.ActorID.String()))

	dto := toJobDTO(job)
	return &dto, nil
}

// GetJob returns a job the actor may read
func (s *JobService) GetJob(ctx context.Context, actorID, jobID uuid.UUID) (*JobDTO, error) {
	job, actor, err := s.loadJobAndActor(ctx, jobID, actorID)
	if err != nil {
		return nil, err
	}

	if !job.CanView(actor) {
		return nil, shared.ErrForbidden
	}

	dto := toJobDTO(job)
	return &dto, nil
}

// ListJobs returns jobs the actor may see. Staff see everything,
// everyone else sees their own jobs, or jobs assigned to them when
// AssignedToMe is set.
func (s *JobService) ListJobs(ctx context.Context, input ListJobsInput) (*JobListResult, error) {
	actor, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}

	filter := instruments.NewJobFilter().WithPagination(input.Page, input.PageSize)
	filter.Keyword = input.Keyword

	if input.InstrumentID != nil {
		filter = filter.WithInstrument(*input.InstrumentID)
	}
	if input.Status != nil {
		filter = filter.WithStatus(*input.Status)
	}

	switch {
	case input.AssignedToMe:
		filter = filter.WithAssignee(actor.ID)
	case !actor.IsStaff:
		filter = filter.WithOwner(actor.ID)
	}

	jobs, total, err := s.jobRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list jobs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list jobs")
	}

	dtos := make([]JobDTO, len(jobs))
	for i, job := range jobs {
		dtos[i] = toJobDTO(job)
	}

	return &JobListResult{
		Jobs:       dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages(total, filter.Limit()),
	}, nil
}

// UpdateJob edits job attributes
func (s *JobService) UpdateJob(ctx context.Context, input UpdateJobInput) (*JobDTO, error) {
	job, actor, err := s.loadJobAndActor(ctx, input.JobID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if !job.CanEdit(actor) {
		return nil, shared.ErrForbidden
	}

	if input.JobName != nil {
		name := *input.JobName
		if name == "" {
			return nil, shared.NewDomainError("INVALID_JOB_NAME", "Job name cannot be empty")
		}
		job.JobName = name
	}
	if input.JobType != nil {
		job.JobType = *input.JobType
	}
	if input.SampleCount != nil {
		if *input.SampleCount < 0 {
			return nil, shared.NewDomainError("INVALID_SAMPLE_COUNT", "Sample count cannot be negative")
		}
		job.SampleCount = *input.SampleCount
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.Error("Failed to update job", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update job")
	}

	dto := toJobDTO(job)
	return &dto, nil
}

// DeleteJob deletes a job
func (s *JobService) DeleteJob(ctx context.Context, actorID, jobID uuid.UUID) error {
	job, actor, err := s.loadJobAndActor(ctx, jobID, actorID)
	if err != nil {
		return err
	}

	if !job.CanDelete(actor) {
		return shared.ErrForbidden
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		s.logger.Error("Failed to delete job", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete job")
	}

	s.logger.Info("Job deleted",
		zap.String("job_id", jobID.String()),
		zap.String("deleted_by", actorID.String()))

	return nil
}

// SubmitJob moves a draft job into the review queue
func (s *JobService) SubmitJob(ctx context.Context, actorID, jobID uuid.UUID) (*JobDTO, error) {
	dto, err := s.transitionJob(ctx, actorID, jobID, "submitted", func(job *instruments.InstrumentJob, actor *accounts.User) error {
		if !job.CanEdit(actor) {
			return shared.ErrForbidden
		}
		return job.Submit()
	})
	if err == nil && s.platformMetrics != nil {
		s.platformMetrics.RecordJobSubmitted(ctx, dto.InstrumentID.String(), dto.JobType)
	}
	return dto, err
}

// AcceptJob moves a submitted job to pending. Staff only.
func (s *JobService) AcceptJob(ctx context.Context, actorID, jobID uuid.UUID) (*JobDTO, error) {
	return s.transitionJob(ctx, actorID, jobID, "accepted", func(job *instruments.InstrumentJob, actor *accounts.User) error {
		if !actor.IsStaff {
			return shared.ErrForbidden
		}
		return job.Accept()
	})
}

// StartJob moves a pending job to in progress. Staff or assigned staff.
func (s *JobService) StartJob(ctx context.Context, actorID, jobID uuid.UUID) (*JobDTO, error) {
	return s.transitionJob(ctx, actorID, jobID, "started", func(job *instruments.InstrumentJob, actor *accounts.User) error {
		if !actor.IsStaff && !job.IsAssigned(actor.ID) {
			return shared.ErrForbidden
		}
		return job.Start()
	})
}

// CompleteJob finishes an in-progress job. Staff or assigned staff.
func (s *JobService) CompleteJob(ctx context.Context, actorID, jobID uuid.UUID) (*JobDTO, error) {
	return s.transitionJob(ctx, actorID, jobID, "completed", func(job *instruments.InstrumentJob, actor *accounts.User) error {
		if !actor.IsStaff && !job.IsAssigned(actor.ID) {
			return shared.ErrForbidden
		}
		return job.Complete()
	})
}

// CancelJob cancels a job from any non-terminal state
func (s *JobService) CancelJob(ctx context.Context, actorID, jobID uuid.UUID) (*JobDTO, error) {
	return s.transitionJob(ctx, actorID, jobID, "cancelled", func(job *instruments.InstrumentJob, actor *accounts.User) error {
		if !job.CanEdit(actor) {
			return shared.ErrForbidden
		}
		return job.Cancel()
	})
}

// AssignStaff assigns a staff member to a job. Staff only; the assignee
// must be a staff account.
func (s *JobService) AssignStaff(ctx context.Context, input AssignStaffInput) (*JobDTO, error) {
	job, actor, err := s.loadJobAndActor(ctx, input.JobID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff {
		return nil, shared.ErrForbidden
	}

	assignee, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Assignee not found")
	}
	if !assignee.IsStaff {
		return nil, shared.NewDomainError("NOT_STAFF", "Only staff accounts can be assigned to jobs")
	}

	if err := job.AssignStaff(assignee.ID); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.Error("Failed to assign staff", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assign staff")
	}

	s.logger.Info("Staff assigned to job",
		zap.String("job_id", job.ID.String()),
		zap.String("user_id", assignee.ID.String()))

	dto := toJobDTO(job)
	return &dto, nil
}

// UnassignStaff removes a staff member from a job. Staff only.
func (s *JobService) UnassignStaff(ctx context.Context, input AssignStaffInput) (*JobDTO, error) {
	job, actor, err := s.loadJobAndActor(ctx, input.JobID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff {
		return nil, shared.ErrForbidden
	}

	if err := job.UnassignStaff(input.UserID); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.Error("Failed to unassign staff", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to unassign staff")
	}

	dto := toJobDTO(job)
	return &dto, nil
}

// SetBillableHours records billable time. Staff or assigned staff.
func (s *JobService) SetBillableHours(ctx context.Context, input SetBillableHoursInput) (*JobDTO, error) {
	job, actor, err := s.loadJobAndActor(ctx, input.JobID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff && !job.IsAssigned(actor.ID) {
		return nil, shared.ErrForbidden
	}

	if err := job.SetBillableHours(input.InstrumentHours, input.PersonnelHours); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.Error("Failed to set billable hours", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set billable hours")
	}

	dto := toJobDTO(job)
	return &dto, nil
}

// AttachMetadataTable creates an instrument-owned metadata table sized
// to the job's sample count and links it to the job
func (s *JobService) AttachMetadataTable(ctx context.Context, input AttachMetadataTableInput) (*JobDTO, error) {
	job, actor, err := s.loadJobAndActor(ctx, input.JobID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !job.CanEditMetadata(actor) {
		return nil, shared.ErrForbidden
	}
	if job.MetadataTableID != nil {
		return nil, shared.NewDomainError("TABLE_EXISTS", "Job already has a metadata table")
	}

	tableName := input.TableName
	if tableName == "" {
		tableName = job.JobName
	}

	table, err := metadata.NewMetadataTable(tableName, job.OwnerID, job.SampleCount)
	if err != nil {
		return nil, err
	}
	table.SourceApp = metadata.SourceAppCCM

	if err := s.tableRepo.Create(ctx, table); err != nil {
		s.logger.Error("Failed to create job metadata table", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create metadata table")
	}

	job.AttachMetadataTable(table.ID)

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.Error("Failed to link metadata table", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to link metadata table")
	}

	s.logger.Info("Metadata table attached to job",
		zap.String("job_id", job.ID.String()),
		zap.String("table_id", table.ID.String()))

	dto := toJobDTO(job)
	return &dto, nil
}

func (s *JobService) transitionJob(
	ctx context.Context,
	actorID, jobID uuid.UUID,
	action string,
	apply func(*instruments.InstrumentJob, *accounts.User) error,
) (*JobDTO, error) {
	job, actor, err := s.loadJobAndActor(ctx, jobID, actorID)
	if err != nil {
		return nil, err
	}

	if err := apply(job, actor); err != nil {
		if errors.Is(err, shared.ErrInvalidState) {
			return nil, shared.NewDomainError("INVALID_TRANSITION", "Job cannot be "+action+" from its current status")
		}
		return nil, err
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.Error("Failed to save job transition", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update job")
	}

	s.logger.Info("Job status changed",
		zap.String("job_id", job.ID.String()),
		zap.String("status", string(job.Status)),
		zap.String("actor_id", actorID.String()))

	dto := toJobDTO(job)
	return &dto, nil
}

func (s *JobService) loadJobAndActor(ctx context.Context, jobID, actorID uuid.UUID) (*instruments.InstrumentJob, *accounts.User, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewDomainError("JOB_NOT_FOUND", "Job not found")
		}
		s.logger.Error("Failed to load job", zap.Error(err))
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load job")
	}

	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}

	return job, actor, nil
}

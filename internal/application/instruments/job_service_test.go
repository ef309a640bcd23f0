package instruments

import (
	"context"
	"errors"
	"testing"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/instruments"
	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type jobServiceMocks struct {
	jobRepo        *MockJobRepository
	instrumentRepo *MockInstrumentRepository
	tableRepo      *MockTableRepository
	userRepo       *MockUserRepository
}

func newJobService() (*JobService, *jobServiceMocks) {
	m := &jobServiceMocks{
		jobRepo:        new(MockJobRepository),
		instrumentRepo: new(MockInstrumentRepository),
		tableRepo:      new(MockTableRepository),
		userRepo:       new(MockUserRepository),
	}
	svc := NewJobService(m.jobRepo, m.instrumentRepo, m.tableRepo, m.userRepo, zap.NewNop())
	return svc, m
}

func newTestUser(t *testing.T, username string) *accounts.User {
	t.Helper()
	user, err := accounts.NewActiveUser(username, username+"@example.org", "Password123")
	require.NoError(t, err)
	return user
}

func newTestStaff(t *testing.T, username string) *accounts.User {
	t.Helper()
	user := newTestUser(t, username)
	user.SetStaff(true)
	return user
}

func newTestJob(t *testing.T, owner *accounts.User) *instruments.InstrumentJob {
	t.Helper()
	job, err := instruments.NewInstrumentJob(owner.ID, uuid.New(), "QC run")
	require.NoError(t, err)
	return job
}

func TestJobService_CreateJob_Success(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	inst, err := instruments.NewInstrument("Orbitrap Fusion")
	require.NoError(t, err)

	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	m.instrumentRepo.On("FindByID", ctx, inst.ID).Return(inst, nil)
	m.jobRepo.On("Create", ctx, mock.AnythingOfType("*instruments.InstrumentJob")).Return(nil)

	result, err := svc.CreateJob(ctx, CreateJobInput{
		ActorID:      owner.ID,
		InstrumentID: inst.ID,
		JobName:      "QC run",
		SampleCount:  8,
	})

	require.NoError(t, err)
	assert.Equal(t, instruments.JobDraft, result.Status)
	assert.Equal(t, 8, result.SampleCount)
	assert.Equal(t, owner.ID, result.OwnerID)
}

func TestJobService_CreateJob_DisabledInstrument(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	inst, err := instruments.NewInstrument("Orbitrap Fusion")
	require.NoError(t, err)
	inst.Disable()

	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	m.instrumentRepo.On("FindByID", ctx, inst.ID).Return(inst, nil)

	_, err = svc.CreateJob(ctx, CreateJobInput{
		ActorID:      owner.ID,
		InstrumentID: inst.ID,
		JobName:      "QC run",
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INSTRUMENT_DISABLED", domainErr.Code)
}

func TestJobService_GetJob_HiddenFromStranger(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	stranger := newTestUser(t, "stranger")
	job := newTestJob(t, owner)

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, stranger.ID).Return(stranger, nil)

	_, err := svc.GetJob(ctx, stranger.ID, job.ID)

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestJobService_SubmitJob_OwnerAllowed(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	m.jobRepo.On("Update", ctx, job).Return(nil)

	result, err := svc.SubmitJob(ctx, owner.ID, job.ID)

	require.NoError(t, err)
	assert.Equal(t, instruments.JobSubmitted, result.Status)
	assert.NotNil(t, result.SubmittedAt)
}

func TestJobService_UpdateJob_OwnerLosesEditAfterSubmission(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)
	require.NoError(t, job.Submit())

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)

	name := "Renamed"
	_, err := svc.UpdateJob(ctx, UpdateJobInput{
		ActorID: owner.ID,
		JobID:   job.ID,
		JobName: &name,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestJobService_AcceptJob_StaffOnly(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)
	require.NoError(t, job.Submit())

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)

	_, err := svc.AcceptJob(ctx, owner.ID, job.ID)

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestJobService_AcceptJob_InvalidFromDraft(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	staff := newTestStaff(t, "analyst")
	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)

	_, err := svc.AcceptJob(ctx, staff.ID, job.ID)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
}

func TestJobService_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	staff := newTestStaff(t, "analyst")
	job := newTestJob(t, owner)

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	m.jobRepo.On("Update", ctx, job).Return(nil)

	_, err := svc.SubmitJob(ctx, owner.ID, job.ID)
	require.NoError(t, err)

	_, err = svc.AcceptJob(ctx, staff.ID, job.ID)
	require.NoError(t, err)

	_, err = svc.StartJob(ctx, staff.ID, job.ID)
	require.NoError(t, err)

	result, err := svc.CompleteJob(ctx, staff.ID, job.ID)
	require.NoError(t, err)

	assert.Equal(t, instruments.JobCompleted, result.Status)
	assert.NotNil(t, result.CompletedAt)
}

func TestJobService_CancelJob_TerminalStateRejected(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	staff := newTestStaff(t, "analyst")
	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)
	require.NoError(t, job.Cancel())

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)

	_, err := svc.CancelJob(ctx, staff.ID, job.ID)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
}

func TestJobService_AssignStaff_RejectsNonStaffAssignee(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	staff := newTestStaff(t, "analyst")
	owner := newTestUser(t, "owner")
	regular := newTestUser(t, "regular")
	job := newTestJob(t, owner)

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	m.userRepo.On("FindByID", ctx, regular.ID).Return(regular, nil)

	_, err := svc.AssignStaff(ctx, AssignStaffInput{
		ActorID: staff.ID,
		JobID:   job.ID,
		UserID:  regular.ID,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_STAFF", domainErr.Code)
}

func TestJobService_AssignStaff_GrantsEditRights(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	admin := newTestStaff(t, "admin")
	analyst := newTestStaff(t, "analyst")
	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)
	require.NoError(t, job.Submit())

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, admin.ID).Return(admin, nil)
	m.userRepo.On("FindByID", ctx, analyst.ID).Return(analyst, nil)
	m.jobRepo.On("Update", ctx, job).Return(nil)

	result, err := svc.AssignStaff(ctx, AssignStaffInput{
		ActorID: admin.ID,
		JobID:   job.ID,
		UserID:  analyst.ID,
	})

	require.NoError(t, err)
	assert.Contains(t, result.AssignedStaff, analyst.ID)
	assert.True(t, job.CanEdit(analyst))
}

func TestJobService_SetBillableHours_RejectsNegative(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	staff := newTestStaff(t, "analyst")
	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)

	_, err := svc.SetBillableHours(ctx, SetBillableHoursInput{
		ActorID:         staff.ID,
		JobID:           job.ID,
		InstrumentHours: decimal.NewFromInt(-1),
		PersonnelHours:  decimal.NewFromInt(2),
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_HOURS", domainErr.Code)
}

func TestJobService_AttachMetadataTable_CreatesInstrumentTable(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)
	job.SampleCount = 8

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	m.tableRepo.On("Create", ctx, mock.MatchedBy(func(table *metadata.MetadataTable) bool {
		return table.SourceApp == metadata.SourceAppCCM &&
			table.OwnerID == owner.ID &&
			table.SampleCount == 8
	})).Return(nil)
	m.jobRepo.On("Update", ctx, job).Return(nil)

	result, err := svc.AttachMetadataTable(ctx, AttachMetadataTableInput{
		ActorID: owner.ID,
		JobID:   job.ID,
	})

	require.NoError(t, err)
	assert.NotNil(t, result.MetadataTableID)
	m.tableRepo.AssertExpectations(t)
}

func TestJobService_AttachMetadataTable_RejectsSecondTable(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)
	existing := uuid.New()
	job.AttachMetadataTable(existing)

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)

	_, err := svc.AttachMetadataTable(ctx, AttachMetadataTableInput{
		ActorID: owner.ID,
		JobID:   job.ID,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "TABLE_EXISTS", domainErr.Code)
}

func TestJobService_ListJobs_NonStaffScopedToOwnJobs(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)

	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	m.jobRepo.On("FindAll", ctx, mock.MatchedBy(func(f instruments.JobFilter) bool {
		return f.OwnerID != nil && *f.OwnerID == owner.ID
	})).Return([]*instruments.InstrumentJob{job}, int64(1), nil)

	result, err := svc.ListJobs(ctx, ListJobsInput{ActorID: owner.ID, Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Len(t, result.Jobs, 1)
}

func TestJobService_ListJobs_AssignedToMe(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	analyst := newTestStaff(t, "analyst")

	m.userRepo.On("FindByID", ctx, analyst.ID).Return(analyst, nil)
	m.jobRepo.On("FindAll", ctx, mock.MatchedBy(func(f instruments.JobFilter) bool {
		return f.AssignedTo != nil && *f.AssignedTo == analyst.ID && f.OwnerID == nil
	})).Return([]*instruments.InstrumentJob{}, int64(0), nil)

	_, err := svc.ListJobs(ctx, ListJobsInput{ActorID: analyst.ID, AssignedToMe: true})

	require.NoError(t, err)
	m.jobRepo.AssertExpectations(t)
}

func TestJobService_DeleteJob_OwnerOnlyWhileDraft(t *testing.T) {
	ctx := context.Background()
	svc, m := newJobService()

	owner := newTestUser(t, "owner")
	job := newTestJob(t, owner)
	require.NoError(t, job.Submit())

	m.jobRepo.On("FindByID", ctx, job.ID).Return(job, nil)
	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)

	err := svc.DeleteJob(ctx, owner.ID, job.ID)

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

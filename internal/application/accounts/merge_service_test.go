package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createMergeService(
	mergeRepo *MockMergeRequestRepository,
	userRepo *MockUserRepository,
	groupRepo *MockLabGroupRepository,
	permRepo *MockResourcePermissionRepository,
) *MergeService {
	orcidRepo := new(MockOrcidProfileRepository)
	orcidRepo.On("FindByUserID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound).Maybe()
	return NewMergeService(mergeRepo, userRepo, groupRepo, permRepo, orcidRepo, zap.NewNop())
}

func createMergeServiceWithOrcid(
	mergeRepo *MockMergeRequestRepository,
	userRepo *MockUserRepository,
	groupRepo *MockLabGroupRepository,
	permRepo *MockResourcePermissionRepository,
	orcidRepo *MockOrcidProfileRepository,
) *MergeService {
	return NewMergeService(mergeRepo, userRepo, groupRepo, permRepo, orcidRepo, zap.NewNop())
}

func TestMergeService_RequestMerge_StaffOnly(t *testing.T) {
	ctx := context.Background()
	mergeRepo := new(MockMergeRequestRepository)
	userRepo := new(MockUserRepository)
	groupRepo := new(MockLabGroupRepository)
	permRepo := new(MockResourcePermissionRepository)

	user := createTestUser(t)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	svc := createMergeService(mergeRepo, userRepo, groupRepo, permRepo)

	_, err := svc.RequestMerge(ctx, RequestMergeInput{
		ActorID:         user.ID,
		PrimaryUserID:   uuid.New(),
		DuplicateUserID: uuid.New(),
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestMergeService_RequestMerge_RejectsSameAccount(t *testing.T) {
	ctx := context.Background()
	mergeRepo := new(MockMergeRequestRepository)
	userRepo := new(MockUserRepository)
	groupRepo := new(MockLabGroupRepository)
	permRepo := new(MockResourcePermissionRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)
	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)

	svc := createMergeService(mergeRepo, userRepo, groupRepo, permRepo)

	_, err := svc.RequestMerge(ctx, RequestMergeInput{
		ActorID:         staff.ID,
		PrimaryUserID:   staff.ID,
		DuplicateUserID: staff.ID,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_MERGE", domainErr.Code)
}

func TestMergeService_ExecuteMerge_MovesMembershipsAndDeactivates(t *testing.T) {
	ctx := context.Background()
	mergeRepo := new(MockMergeRequestRepository)
	userRepo := new(MockUserRepository)
	groupRepo := new(MockLabGroupRepository)
	permRepo := new(MockResourcePermissionRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)

	primary, err := accounts.NewActiveUser("primary", "primary@example.org", "Password123")
	require.NoError(t, err)
	duplicate, err := accounts.NewActiveUser("duplicate", "duplicate@example.org", "Password123")
	require.NoError(t, err)

	req, err := accounts.NewAccountMergeRequest(primary.ID, duplicate.ID, staff.ID, "same person")
	require.NoError(t, err)
	require.NoError(t, req.Approve(staff.ID))

	sharedGroupID := uuid.New()
	soloGroupID := uuid.New()

	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	userRepo.On("FindByID", ctx, duplicate.ID).Return(duplicate, nil)
	userRepo.On("Update", ctx, duplicate).Return(nil)
	mergeRepo.On("FindByID", ctx, req.ID).Return(req, nil)
	mergeRepo.On("Update", ctx, req).Return(nil)

	groupRepo.On("FindDirectMemberGroupIDs", ctx, duplicate.ID).
		Return([]uuid.UUID{sharedGroupID, soloGroupID}, nil)
	// Primary already belongs to the shared group; only the solo group
	// membership is added.
	groupRepo.On("IsDirectMember", ctx, sharedGroupID, primary.ID).Return(true, nil)
	groupRepo.On("IsDirectMember", ctx, soloGroupID, primary.ID).Return(false, nil)
	groupRepo.On("AddMember", ctx, soloGroupID, primary.ID).Return(nil)
	groupRepo.On("RemoveMember", ctx, sharedGroupID, duplicate.ID).Return(nil)
	groupRepo.On("RemoveMember", ctx, soloGroupID, duplicate.ID).Return(nil)

	permRepo.On("ReassignUser", ctx, duplicate.ID, primary.ID).Return(nil)

	svc := createMergeService(mergeRepo, userRepo, groupRepo, permRepo)

	result, err := svc.ExecuteMerge(ctx, ExecuteMergeInput{
		ActorID:   staff.ID,
		RequestID: req.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, string(accounts.MergeCompleted), result.Status)
	assert.NotNil(t, result.CompletedAt)
	assert.Equal(t, accounts.UserStatusDeactivated, duplicate.Status)

	groupRepo.AssertExpectations(t)
	permRepo.AssertExpectations(t)
}

func TestMergeService_ExecuteMerge_MovesOrcidLink(t *testing.T) {
	ctx := context.Background()
	mergeRepo := new(MockMergeRequestRepository)
	userRepo := new(MockUserRepository)
	groupRepo := new(MockLabGroupRepository)
	permRepo := new(MockResourcePermissionRepository)
	orcidRepo := new(MockOrcidProfileRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)

	primary, err := accounts.NewActiveUser("primary", "primary@example.org", "Password123")
	require.NoError(t, err)
	duplicate, err := accounts.NewActiveUser("duplicate", "duplicate@example.org", "Password123")
	require.NoError(t, err)

	req, err := accounts.NewAccountMergeRequest(primary.ID, duplicate.ID, staff.ID, "same person")
	require.NoError(t, err)
	require.NoError(t, req.Approve(staff.ID))

	dupProfile, err := accounts.NewUserOrcidProfile(duplicate.ID, "0000-0002-1825-0097")
	require.NoError(t, err)

	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	userRepo.On("FindByID", ctx, duplicate.ID).Return(duplicate, nil)
	userRepo.On("Update", ctx, duplicate).Return(nil)
	mergeRepo.On("FindByID", ctx, req.ID).Return(req, nil)
	mergeRepo.On("Update", ctx, req).Return(nil)
	groupRepo.On("FindDirectMemberGroupIDs", ctx, duplicate.ID).Return([]uuid.UUID{}, nil)
	permRepo.On("ReassignUser", ctx, duplicate.ID, primary.ID).Return(nil)

	orcidRepo.On("FindByUserID", ctx, duplicate.ID).Return(dupProfile, nil)
	orcidRepo.On("Delete", ctx, dupProfile.ID).Return(nil)
	orcidRepo.On("FindByUserID", ctx, primary.ID).Return(nil, shared.ErrNotFound)
	orcidRepo.On("Save", ctx, mock.MatchedBy(func(p *accounts.UserOrcidProfile) bool {
		return p.UserID == primary.ID && p.OrcidID == "0000-0002-1825-0097"
	})).Return(nil)

	svc := createMergeServiceWithOrcid(mergeRepo, userRepo, groupRepo, permRepo, orcidRepo)

	_, err = svc.ExecuteMerge(ctx, ExecuteMergeInput{
		ActorID:   staff.ID,
		RequestID: req.ID,
	})

	require.NoError(t, err)
	orcidRepo.AssertExpectations(t)
}

func TestMergeService_ExecuteMerge_DropsOrcidLinkWhenPrimaryLinked(t *testing.T) {
	ctx := context.Background()
	mergeRepo := new(MockMergeRequestRepository)
	userRepo := new(MockUserRepository)
	groupRepo := new(MockLabGroupRepository)
	permRepo := new(MockResourcePermissionRepository)
	orcidRepo := new(MockOrcidProfileRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)

	primary, err := accounts.NewActiveUser("primary", "primary@example.org", "Password123")
	require.NoError(t, err)
	duplicate, err := accounts.NewActiveUser("duplicate", "duplicate@example.org", "Password123")
	require.NoError(t, err)

	req, err := accounts.NewAccountMergeRequest(primary.ID, duplicate.ID, staff.ID, "")
	require.NoError(t, err)
	require.NoError(t, req.Approve(staff.ID))

	dupProfile, err := accounts.NewUserOrcidProfile(duplicate.ID, "0000-0002-1825-0097")
	require.NoError(t, err)
	primaryProfile, err := accounts.NewUserOrcidProfile(primary.ID, "0000-0001-5109-3700")
	require.NoError(t, err)

	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	userRepo.On("FindByID", ctx, duplicate.ID).Return(duplicate, nil)
	userRepo.On("Update", ctx, duplicate).Return(nil)
	mergeRepo.On("FindByID", ctx, req.ID).Return(req, nil)
	mergeRepo.On("Update", ctx, req).Return(nil)
	groupRepo.On("FindDirectMemberGroupIDs", ctx, duplicate.ID).Return([]uuid.UUID{}, nil)
	permRepo.On("ReassignUser", ctx, duplicate.ID, primary.ID).Return(nil)

	// Primary keeps its own link; the duplicate's is removed, never saved
	orcidRepo.On("FindByUserID", ctx, duplicate.ID).Return(dupProfile, nil)
	orcidRepo.On("Delete", ctx, dupProfile.ID).Return(nil)
	orcidRepo.On("FindByUserID", ctx, primary.ID).Return(primaryProfile, nil)

	svc := createMergeServiceWithOrcid(mergeRepo, userRepo, groupRepo, permRepo, orcidRepo)

	_, err = svc.ExecuteMerge(ctx, ExecuteMergeInput{
		ActorID:   staff.ID,
		RequestID: req.ID,
	})

	require.NoError(t, err)
	orcidRepo.AssertExpectations(t)
	orcidRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestMergeService_ExecuteMerge_RequiresApproval(t *testing.T) {
	ctx := context.Background()
	mergeRepo := new(MockMergeRequestRepository)
	userRepo := new(MockUserRepository)
	groupRepo := new(MockLabGroupRepository)
	permRepo := new(MockResourcePermissionRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)

	req, err := accounts.NewAccountMergeRequest(uuid.New(), uuid.New(), staff.ID, "")
	require.NoError(t, err)

	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	mergeRepo.On("FindByID", ctx, req.ID).Return(req, nil)

	svc := createMergeService(mergeRepo, userRepo, groupRepo, permRepo)

	_, err = svc.ExecuteMerge(ctx, ExecuteMergeInput{
		ActorID:   staff.ID,
		RequestID: req.ID,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestMergeService_ReviewMerge_Reject(t *testing.T) {
	ctx := context.Background()
	mergeRepo := new(MockMergeRequestRepository)
	userRepo := new(MockUserRepository)
	groupRepo := new(MockLabGroupRepository)
	permRepo := new(MockResourcePermissionRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)

	req, err := accounts.NewAccountMergeRequest(uuid.New(), uuid.New(), staff.ID, "")
	require.NoError(t, err)

	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	mergeRepo.On("FindByID", ctx, req.ID).Return(req, nil)
	mergeRepo.On("Update", ctx, mock.AnythingOfType("*accounts.AccountMergeRequest")).Return(nil)

	svc := createMergeService(mergeRepo, userRepo, groupRepo, permRepo)

	result, err := svc.ReviewMerge(ctx, ReviewMergeInput{
		ActorID:   staff.ID,
		RequestID: req.ID,
		Approve:   false,
	})

	require.NoError(t, err)
	assert.Equal(t, string(accounts.MergeRejected), result.Status)
	assert.Equal(t, &staff.ID, result.ReviewedBy)
}

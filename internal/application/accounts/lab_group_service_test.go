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

func createLabGroupService(groupRepo *MockLabGroupRepository, userRepo *MockUserRepository) *LabGroupService {
	return NewLabGroupService(groupRepo, userRepo, zap.NewNop())
}

func TestLabGroupService_CreateLabGroup_GrantsCreatorRights(t *testing.T) {
	ctx := context.Background()
	groupRepo := new(MockLabGroupRepository)
	userRepo := new(MockUserRepository)

	creator := createTestUser(t)
	userRepo.On("FindByID", ctx, creator.ID).Return(creator, nil)
	groupRepo.On("Create", ctx, mock.AnythingOfType("*accounts.LabGroup")).Return(nil)
	groupRepo.On("AddMember", ctx, mock.AnythingOfType("uuid.UUID"), creator.ID).Return(nil)
	groupRepo.On("SavePermission", ctx, mock.MatchedBy(func(perm *accounts.LabGroupPermission) bool {
		return perm.UserID == creator.ID && perm.CanManage && perm.CanInvite && perm.CanProcessJobs
	})).Return(nil)

	svc := createLabGroupService(groupRepo, userRepo)

	result, err := svc.CreateLabGroup(ctx, CreateLabGroupInput{
		ActorID:          creator.ID,
		Name:             "Proteomics Core",
		Description:      "Core facility",
		AllowProcessJobs: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Proteomics Core", result.Name)
	assert.Equal(t, creator.ID, result.CreatedBy)
	assert.True(t, result.AllowProcessJobs)

	groupRepo.AssertExpectations(t)
}

func TestLabGroupService_MoveLabGroup_RejectsCycle(t *testing.T) {
	ctx := context.Background()
	groupRepo := new(MockLabGroupRepository)
	userRepo := new(MockUserRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)

	group, err := accounts.NewLabGroup("Parent", staff.ID)
	require.NoError(t, err)
	child, err := accounts.NewLabGroup("Child", staff.ID)
	require.NoError(t, err)
	require.NoError(t, child.SetParent(&group.ID))

	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	groupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	groupRepo.On("FindByID", ctx, child.ID).Return(child, nil)
	groupRepo.On("FindDescendantIDs", ctx, group.ID).Return([]uuid.UUID{group.ID, child.ID}, nil)

	svc := createLabGroupService(groupRepo, userRepo)

	_, err = svc.MoveLabGroup(ctx, MoveLabGroupInput{
		ActorID:       staff.ID,
		GroupID:       group.ID,
		ParentGroupID: &child.ID,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PARENT", domainErr.Code)
}

func TestLabGroupService_MoveLabGroup_RejectsSelfParent(t *testing.T) {
	ctx := context.Background()
	groupRepo := new(MockLabGroupRepository)
	userRepo := new(MockUserRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)

	group, err := accounts.NewLabGroup("Group", staff.ID)
	require.NoError(t, err)

	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	groupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	groupRepo.On("FindDescendantIDs", ctx, group.ID).Return([]uuid.UUID{group.ID}, nil)

	svc := createLabGroupService(groupRepo, userRepo)

	_, err = svc.MoveLabGroup(ctx, MoveLabGroupInput{
		ActorID:       staff.ID,
		GroupID:       group.ID,
		ParentGroupID: &group.ID,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PARENT", domainErr.Code)
}

func TestLabGroupService_IsMemberOf_BubblesUpFromSubGroups(t *testing.T) {
	ctx := context.Background()
	groupRepo := new(MockLabGroupRepository)
	userRepo := new(MockUserRepository)

	parentID := uuid.New()
	childID := uuid.New()
	userID := uuid.New()

	// The user is a direct member of the child only; membership in the
	// parent follows from the hierarchy.
	groupRepo.On("FindDescendantIDs", ctx, parentID).Return([]uuid.UUID{parentID, childID}, nil)
	groupRepo.On("IsDirectMemberOfAny", ctx, []uuid.UUID{parentID, childID}, userID).Return(true, nil)

	svc := createLabGroupService(groupRepo, userRepo)

	isMember, err := svc.IsMemberOf(ctx, parentID, userID)
	require.NoError(t, err)
	assert.True(t, isMember)

	groupRepo.AssertExpectations(t)
}

func TestLabGroupService_UpdateLabGroup_RequiresManageRights(t *testing.T) {
	ctx := context.Background()
	groupRepo := new(MockLabGroupRepository)
	userRepo := new(MockUserRepository)

	member := createTestUser(t)
	group, err := accounts.NewLabGroup("Group", uuid.New())
	require.NoError(t, err)

	viewOnly := accounts.NewLabGroupPermission(group.ID, member.ID)

	userRepo.On("FindByID", ctx, member.ID).Return(member, nil)
	groupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	groupRepo.On("FindPermission", ctx, group.ID, member.ID).Return(viewOnly, nil)

	svc := createLabGroupService(groupRepo, userRepo)

	name := "Renamed"
	_, err = svc.UpdateLabGroup(ctx, UpdateLabGroupInput{
		ActorID: member.ID,
		GroupID: group.ID,
		Name:    &name,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestLabGroupService_RemoveMember_SelfRemovalAllowed(t *testing.T) {
	ctx := context.Background()
	groupRepo := new(MockLabGroupRepository)
	userRepo := new(MockUserRepository)

	groupID := uuid.New()
	userID := uuid.New()

	groupRepo.On("IsDirectMember", ctx, groupID, userID).Return(true, nil)
	groupRepo.On("RemoveMember", ctx, groupID, userID).Return(nil)

	svc := createLabGroupService(groupRepo, userRepo)

	err := svc.RemoveMember(ctx, MembershipInput{
		ActorID: userID,
		GroupID: groupID,
		UserID:  userID,
	})

	require.NoError(t, err)
	groupRepo.AssertExpectations(t)
}

func TestLabGroupService_AddMember_RejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	groupRepo := new(MockLabGroupRepository)
	userRepo := new(MockUserRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)
	member := createTestUser(t)

	group, err := accounts.NewLabGroup("Group", staff.ID)
	require.NoError(t, err)

	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	userRepo.On("FindByID", ctx, member.ID).Return(member, nil)
	groupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	groupRepo.On("IsDirectMember", ctx, group.ID, member.ID).Return(true, nil)

	svc := createLabGroupService(groupRepo, userRepo)

	err = svc.AddMember(ctx, MembershipInput{
		ActorID: staff.ID,
		GroupID: group.ID,
		UserID:  member.ID,
	})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_MEMBER", domainErr.Code)
}

func TestLabGroupService_DeleteLabGroup_RejectsWithChildren(t *testing.T) {
	ctx := context.Background()
	groupRepo := new(MockLabGroupRepository)
	userRepo := new(MockUserRepository)

	staff := createTestUser(t)
	staff.SetStaff(true)

	group, err := accounts.NewLabGroup("Parent", staff.ID)
	require.NoError(t, err)
	child, err := accounts.NewLabGroup("Child", staff.ID)
	require.NoError(t, err)

	userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	groupRepo.On("FindByID", ctx, group.ID).Return(group, nil)
	groupRepo.On("FindChildren", ctx, group.ID).Return([]*accounts.LabGroup{child}, nil)

	svc := createLabGroupService(groupRepo, userRepo)

	err = svc.DeleteLabGroup(ctx, staff.ID, group.ID)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "GROUP_HAS_CHILDREN", domainErr.Code)
}

func TestLabGroupService_GetLabGroup_IncludesFullPath(t *testing.T) {
	ctx := context.Background()
	groupRepo := new(MockLabGroupRepository)
	userRepo := new(MockUserRepository)

	creatorID := uuid.New()
	root, err := accounts.NewLabGroup("Institute", creatorID)
	require.NoError(t, err)
	mid, err := accounts.NewLabGroup("Department", creatorID)
	require.NoError(t, err)
	leaf, err := accounts.NewLabGroup("Proteomics", creatorID)
	require.NoError(t, err)

	groupRepo.On("FindByID", ctx, leaf.ID).Return(leaf, nil)
	groupRepo.On("FindAncestorChain", ctx, leaf.ID).Return([]*accounts.LabGroup{root, mid, leaf}, nil)

	svc := createLabGroupService(groupRepo, userRepo)

	result, err := svc.GetLabGroup(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, "Institute / Department / Proteomics", result.FullPath)
	assert.Equal(t, 2, result.Depth)
}

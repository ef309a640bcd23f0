package accounts

import (
	"context"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of accounts.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *accounts.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *accounts.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*accounts.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*accounts.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter accounts.UserFilter) ([]*accounts.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*accounts.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLabGroupRepository is a mock implementation of accounts.LabGroupRepository
type MockLabGroupRepository struct {
	mock.Mock
}

func (m *MockLabGroupRepository) Create(ctx context.Context, group *accounts.LabGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockLabGroupRepository) Update(ctx context.Context, group *accounts.LabGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockLabGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLabGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.LabGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.LabGroup), args.Error(1)
}

func (m *MockLabGroupRepository) FindAll(ctx context.Context, filter accounts.LabGroupFilter) ([]*accounts.LabGroup, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*accounts.LabGroup), args.Get(1).(int64), args.Error(2)
}

func (m *MockLabGroupRepository) FindChildren(ctx context.Context, id uuid.UUID) ([]*accounts.LabGroup, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]*accounts.LabGroup), args.Error(1)
}

func (m *MockLabGroupRepository) FindAncestorChain(ctx context.Context, id uuid.UUID) ([]*accounts.LabGroup, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]*accounts.LabGroup), args.Error(1)
}

func (m *MockLabGroupRepository) FindDescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockLabGroupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockLabGroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockLabGroupRepository) IsDirectMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLabGroupRepository) IsDirectMemberOfAny(ctx context.Context, groupIDs []uuid.UUID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupIDs, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLabGroupRepository) FindDirectMemberGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockLabGroupRepository) FindMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockLabGroupRepository) SavePermission(ctx context.Context, perm *accounts.LabGroupPermission) error {
	args := m.Called(ctx, perm)
	return args.Error(0)
}

func (m *MockLabGroupRepository) DeletePermission(ctx context.Context, groupID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockLabGroupRepository) FindPermission(ctx context.Context, groupID, userID uuid.UUID) (*accounts.LabGroupPermission, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.LabGroupPermission), args.Error(1)
}

// MockInvitationRepository is a mock implementation of accounts.InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, inv *accounts.LabGroupInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationRepository) Update(ctx context.Context, inv *accounts.LabGroupInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.LabGroupInvitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.LabGroupInvitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByToken(ctx context.Context, token string) (*accounts.LabGroupInvitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.LabGroupInvitation), args.Error(1)
}

func (m *MockInvitationRepository) FindPendingByGroupAndEmail(ctx context.Context, groupID uuid.UUID, email string) (*accounts.LabGroupInvitation, error) {
	args := m.Called(ctx, groupID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.LabGroupInvitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByGroup(ctx context.Context, groupID uuid.UUID) ([]*accounts.LabGroupInvitation, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]*accounts.LabGroupInvitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByEmail(ctx context.Context, email string) ([]*accounts.LabGroupInvitation, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]*accounts.LabGroupInvitation), args.Error(1)
}

// MockSiteConfigRepository is a mock implementation of accounts.SiteConfigRepository
type MockSiteConfigRepository struct {
	mock.Mock
}

func (m *MockSiteConfigRepository) Get(ctx context.Context) (*accounts.SiteConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.SiteConfig), args.Error(1)
}

func (m *MockSiteConfigRepository) Save(ctx context.Context, cfg *accounts.SiteConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// MockOrcidProfileRepository is a mock implementation of accounts.OrcidProfileRepository
type MockOrcidProfileRepository struct {
	mock.Mock
}

func (m *MockOrcidProfileRepository) Save(ctx context.Context, profile *accounts.UserOrcidProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockOrcidProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrcidProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*accounts.UserOrcidProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.UserOrcidProfile), args.Error(1)
}

func (m *MockOrcidProfileRepository) FindByOrcidID(ctx context.Context, orcidID string) (*accounts.UserOrcidProfile, error) {
	args := m.Called(ctx, orcidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.UserOrcidProfile), args.Error(1)
}

// MockMergeRequestRepository is a mock implementation of accounts.MergeRequestRepository
type MockMergeRequestRepository struct {
	mock.Mock
}

func (m *MockMergeRequestRepository) Create(ctx context.Context, req *accounts.AccountMergeRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockMergeRequestRepository) Update(ctx context.Context, req *accounts.AccountMergeRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockMergeRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.AccountMergeRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.AccountMergeRequest), args.Error(1)
}

func (m *MockMergeRequestRepository) FindPending(ctx context.Context) ([]*accounts.AccountMergeRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*accounts.AccountMergeRequest), args.Error(1)
}

// MockResourcePermissionRepository is a mock implementation of
// accounts.ResourcePermissionRepository
type MockResourcePermissionRepository struct {
	mock.Mock
}

func (m *MockResourcePermissionRepository) Save(ctx context.Context, perm *accounts.ResourcePermission) error {
	args := m.Called(ctx, perm)
	return args.Error(0)
}

func (m *MockResourcePermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockResourcePermissionRepository) Find(ctx context.Context, resourceType string, resourceID, userID uuid.UUID) (*accounts.ResourcePermission, error) {
	args := m.Called(ctx, resourceType, resourceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.ResourcePermission), args.Error(1)
}

func (m *MockResourcePermissionRepository) FindByResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]*accounts.ResourcePermission, error) {
	args := m.Called(ctx, resourceType, resourceID)
	return args.Get(0).([]*accounts.ResourcePermission), args.Error(1)
}

func (m *MockResourcePermissionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*accounts.ResourcePermission, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*accounts.ResourcePermission), args.Error(1)
}

func (m *MockResourcePermissionRepository) ReassignUser(ctx context.Context, fromUserID, toUserID uuid.UUID) error {
	args := m.Called(ctx, fromUserID, toUserID)
	return args.Error(0)
}

package metadata

import (
	"context"
	"time"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/instruments"
	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTableRepository struct {
	mock.Mock
}

func (m *MockTableRepository) Create(ctx context.Context, table *metadata.MetadataTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTableRepository) Update(ctx context.Context, table *metadata.MetadataTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTableRepository) FindByID(ctx context.Context, id uuid.UUID) (*metadata.MetadataTable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metadata.MetadataTable), args.Error(1)
}

func (m *MockTableRepository) FindAll(ctx context.Context, filter metadata.TableFilter) ([]*metadata.MetadataTable, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*metadata.MetadataTable), args.Get(1).(int64), args.Error(2)
}

type MockSchemaRepository struct {
	mock.Mock
}

func (m *MockSchemaRepository) Create(ctx context.Context, schema *metadata.Schema) error {
	args := m.Called(ctx, schema)
	return args.Error(0)
}

func (m *MockSchemaRepository) Update(ctx context.Context, schema *metadata.Schema) error {
	args := m.Called(ctx, schema)
	return args.Error(0)
}

func (m *MockSchemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSchemaRepository) FindByID(ctx context.Context, id uuid.UUID) (*metadata.Schema, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metadata.Schema), args.Error(1)
}

func (m *MockSchemaRepository) FindByName(ctx context.Context, name string) (*metadata.Schema, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metadata.Schema), args.Error(1)
}

func (m *MockSchemaRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*metadata.Schema, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*metadata.Schema), args.Error(1)
}

func (m *MockSchemaRepository) FindAll(ctx context.Context, activeOnly bool) ([]*metadata.Schema, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*metadata.Schema), args.Error(1)
}

func (m *MockSchemaRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, tpl *metadata.MetadataTableTemplate) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockTemplateRepository) Update(ctx context.Context, tpl *metadata.MetadataTableTemplate) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*metadata.MetadataTableTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metadata.MetadataTableTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*metadata.MetadataTableTemplate, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*metadata.MetadataTableTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindDefault(ctx context.Context) (*metadata.MetadataTableTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metadata.MetadataTableTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindDefaults(ctx context.Context) ([]*metadata.MetadataTableTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*metadata.MetadataTableTemplate), args.Error(1)
}

func (m *MockTemplateRepository) UnmarkOtherDefaults(ctx context.Context, exceptID uuid.UUID) error {
	args := m.Called(ctx, exceptID)
	return args.Error(0)
}

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *instruments.InstrumentJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, job *instruments.InstrumentJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*instruments.InstrumentJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*instruments.InstrumentJob), args.Error(1)
}

func (m *MockJobRepository) FindByMetadataTable(ctx context.Context, tableID uuid.UUID) (*instruments.InstrumentJob, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*instruments.InstrumentJob), args.Error(1)
}

func (m *MockJobRepository) FindAll(ctx context.Context, filter instruments.JobFilter) ([]*instruments.InstrumentJob, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*instruments.InstrumentJob), args.Get(1).(int64), args.Error(2)
}

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
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
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
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*accounts.LabGroup), args.Get(1).(int64), args.Error(2)
}

func (m *MockLabGroupRepository) FindChildren(ctx context.Context, id uuid.UUID) ([]*accounts.LabGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounts.LabGroup), args.Error(1)
}

func (m *MockLabGroupRepository) FindAncestorChain(ctx context.Context, id uuid.UUID) ([]*accounts.LabGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounts.LabGroup), args.Error(1)
}

func (m *MockLabGroupRepository) FindDescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockLabGroupRepository) FindMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounts.ResourcePermission), args.Error(1)
}

func (m *MockResourcePermissionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*accounts.ResourcePermission, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounts.ResourcePermission), args.Error(1)
}

func (m *MockResourcePermissionRepository) ReassignUser(ctx context.Context, fromUserID, toUserID uuid.UUID) error {
	args := m.Called(ctx, fromUserID, toUserID)
	return args.Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) Download(ctx context.Context, storageKey string) ([]byte, error) {
	args := m.Called(ctx, storageKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

package metadata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type schemaServiceMocks struct {
	schemaRepo *MockSchemaRepository
	userRepo   *MockUserRepository
	storage    *MockObjectStorage
}

func newSchemaService() (*SchemaService, *schemaServiceMocks) {
	m := &schemaServiceMocks{
		schemaRepo: new(MockSchemaRepository),
		userRepo:   new(MockUserRepository),
		storage:    new(MockObjectStorage),
	}
	svc := NewSchemaService(m.schemaRepo, m.userRepo, m.storage, zap.NewNop())
	return svc, m
}

func newStaffUser(t *testing.T) *accounts.User {
	t.Helper()
	user, err := accounts.NewActiveUser("curator", "curator@example.org", "Password123")
	require.NoError(t, err)
	user.SetStaff(true)
	return user
}

func TestSchemaService_CreateSchema_StoresDefinitionAndHash(t *testing.T) {
	ctx := context.Background()
	svc, m := newSchemaService()

	staff := newStaffUser(t)
	definition := []byte(`{"columns":[{"name":"source name"}]}`)
	sum := sha256.Sum256(definition)

	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	m.schemaRepo.On("FindByName", ctx, "ms-proteomics").Return(nil, shared.ErrNotFound)
	m.storage.On("Upload", ctx, mock.AnythingOfType("string"), definition, "application/json").Return(nil)
	m.schemaRepo.On("Create", ctx, mock.AnythingOfType("*metadata.Schema")).Return(nil)

	result, err := svc.CreateSchema(ctx, CreateSchemaInput{
		ActorID:    staff.ID,
		Name:       "MS-Proteomics",
		Definition: definition,
	})

	require.NoError(t, err)
	assert.Equal(t, "ms-proteomics", result.Name)
	assert.Equal(t, "Ms Proteomics", result.DisplayName)
	assert.Equal(t, hex.EncodeToString(sum[:]), result.FileHash)
	assert.Equal(t, int64(len(definition)), result.FileSize)
	assert.True(t, result.IsActive)

	m.storage.AssertExpectations(t)
}

func TestSchemaService_CreateSchema_StaffOnly(t *testing.T) {
	ctx := context.Background()
	svc, m := newSchemaService()

	user, err := accounts.NewActiveUser("researcher", "researcher@example.org", "Password123")
	require.NoError(t, err)
	m.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	_, err = svc.CreateSchema(ctx, CreateSchemaInput{ActorID: user.ID, Name: "base"})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestSchemaService_CreateSchema_DuplicateName(t *testing.T) {
	ctx := context.Background()
	svc, m := newSchemaService()

	staff := newStaffUser(t)
	existing, err := metadata.NewSchema("base")
	require.NoError(t, err)

	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	m.schemaRepo.On("FindByName", ctx, "base").Return(existing, nil)

	_, err = svc.CreateSchema(ctx, CreateSchemaInput{ActorID: staff.ID, Name: "Base"})

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "SCHEMA_EXISTS", domainErr.Code)
}

func TestSchemaService_GetSchemaByName_ResolvesLegacyNames(t *testing.T) {
	ctx := context.Background()
	svc, m := newSchemaService()

	schema, err := metadata.NewSchema("ms-proteomics")
	require.NoError(t, err)

	// "default" was the pre-1.0 name for ms-proteomics.
	m.schemaRepo.On("FindByName", ctx, "ms-proteomics").Return(schema, nil)

	result, err := svc.GetSchemaByName(ctx, "Default")

	require.NoError(t, err)
	assert.Equal(t, "ms-proteomics", result.Name)
}

func TestSchemaService_GetDownloadURL(t *testing.T) {
	ctx := context.Background()
	svc, m := newSchemaService()

	schema, err := metadata.NewSchema("base")
	require.NoError(t, err)
	schema.SetDefinition("schemas/key/base.json", []byte("{}"))

	expiresAt := time.Now().Add(schemaDownloadTTL)
	m.schemaRepo.On("FindByID", ctx, schema.ID).Return(schema, nil)
	m.storage.On("GenerateDownloadURL", ctx, "schemas/key/base.json", schemaDownloadTTL).
		Return("https://storage.example.org/signed", expiresAt, nil)

	result, err := svc.GetDownloadURL(ctx, schema.ID)

	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.org/signed", result.URL)
	assert.Equal(t, expiresAt, result.ExpiresAt)
}

func TestSchemaService_GetDownloadURL_NoDefinition(t *testing.T) {
	ctx := context.Background()
	svc, m := newSchemaService()

	schema, err := metadata.NewSchema("base")
	require.NoError(t, err)

	m.schemaRepo.On("FindByID", ctx, schema.ID).Return(schema, nil)

	_, err = svc.GetDownloadURL(ctx, schema.ID)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NO_DEFINITION", domainErr.Code)
}

func TestSchemaService_DeleteSchema_BuiltinRejected(t *testing.T) {
	ctx := context.Background()
	svc, m := newSchemaService()

	staff := newStaffUser(t)
	schema, err := metadata.NewSchema("base")
	require.NoError(t, err)
	schema.IsBuiltin = true

	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	m.schemaRepo.On("FindByID", ctx, schema.ID).Return(schema, nil)

	err = svc.DeleteSchema(ctx, staff.ID, schema.ID)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "BUILTIN_SCHEMA", domainErr.Code)
}

func TestSchemaService_DeleteSchema_RemovesDefinitionFile(t *testing.T) {
	ctx := context.Background()
	svc, m := newSchemaService()

	staff := newStaffUser(t)
	schema, err := metadata.NewSchema("custom")
	require.NoError(t, err)
	schema.SetDefinition("schemas/key/custom.json", []byte("{}"))

	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	m.schemaRepo.On("FindByID", ctx, schema.ID).Return(schema, nil)
	m.storage.On("DeleteObject", ctx, "schemas/key/custom.json").Return(nil)
	m.schemaRepo.On("Delete", ctx, schema.ID).Return(nil)

	err = svc.DeleteSchema(ctx, staff.ID, schema.ID)

	require.NoError(t, err)
	m.storage.AssertExpectations(t)
	m.schemaRepo.AssertExpectations(t)
}

func TestSchemaService_RenameLegacySchemas(t *testing.T) {
	ctx := context.Background()
	svc, m := newSchemaService()

	staff := newStaffUser(t)
	legacy, err := metadata.NewSchema("minimum")
	require.NoError(t, err)

	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	m.schemaRepo.On("FindByName", ctx, "minimum").Return(legacy, nil)
	m.schemaRepo.On("FindByName", ctx, "default").Return(nil, shared.ErrNotFound)
	m.schemaRepo.On("FindByName", ctx, "cell_lines").Return(nil, shared.ErrNotFound)
	m.schemaRepo.On("FindByName", ctx, "nonvertebrates").Return(nil, shared.ErrNotFound)
	m.schemaRepo.On("Update", ctx, legacy).Return(nil)

	renamed, err := svc.RenameLegacySchemas(ctx, staff.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, renamed)
	assert.Equal(t, "base", legacy.Name)
	assert.Equal(t, "Base", legacy.DisplayName)
}

func TestSchemaService_UpdateDefinition_RecomputesHash(t *testing.T) {
	ctx := context.Background()
	svc, m := newSchemaService()

	staff := newStaffUser(t)
	schema, err := metadata.NewSchema("base")
	require.NoError(t, err)
	schema.SetDefinition("schemas/old/base.json", []byte("old"))
	oldHash := schema.FileHash

	newDefinition := []byte(`{"columns":[]}`)

	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	m.schemaRepo.On("FindByID", ctx, schema.ID).Return(schema, nil)
	m.storage.On("Upload", ctx, mock.AnythingOfType("string"), newDefinition, "application/json").Return(nil)
	m.schemaRepo.On("Update", ctx, schema).Return(nil)

	result, err := svc.UpdateDefinition(ctx, UpdateSchemaDefinitionInput{
		ActorID:    staff.ID,
		SchemaID:   schema.ID,
		Definition: newDefinition,
	})

	require.NoError(t, err)
	assert.NotEqual(t, oldHash, result.FileHash)
	assert.Equal(t, int64(len(newDefinition)), result.FileSize)
}

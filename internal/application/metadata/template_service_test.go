package metadata

import (
	"context"
	"testing"

	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type templateServiceMocks struct {
	templateRepo *MockTemplateRepository
	schemaRepo   *MockSchemaRepository
	userRepo     *MockUserRepository
}

func newTemplateService() (*TemplateService, *templateServiceMocks) {
	m := &templateServiceMocks{
		templateRepo: new(MockTemplateRepository),
		schemaRepo:   new(MockSchemaRepository),
		userRepo:     new(MockUserRepository),
	}
	svc := NewTemplateService(m.templateRepo, m.schemaRepo, m.userRepo, zap.NewNop())
	return svc, m
}

func TestTemplateService_CreateTemplate_Success(t *testing.T) {
	ctx := context.Background()
	svc, m := newTemplateService()

	owner := newTestUser(t, "owner")
	schema, err := metadata.NewSchema("base")
	require.NoError(t, err)

	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	m.schemaRepo.On("FindByIDs", ctx, []uuid.UUID{schema.ID}).
		Return([]*metadata.Schema{schema}, nil)
	m.templateRepo.On("Create", ctx, mock.AnythingOfType("*metadata.MetadataTableTemplate")).Return(nil)

	result, err := svc.CreateTemplate(ctx, CreateTemplateInput{
		ActorID:   owner.ID,
		Name:      "Proteomics starter",
		SchemaIDs: []uuid.UUID{schema.ID},
	})

	require.NoError(t, err)
	assert.Equal(t, "Proteomics starter", result.Name)
	assert.Equal(t, []uuid.UUID{schema.ID}, result.SchemaIDs)
	assert.False(t, result.IsDefault)
}

func TestTemplateService_CreateTemplate_DefaultRequiresStaff(t *testing.T) {
	ctx := context.Background()
	svc, m := newTemplateService()

	owner := newTestUser(t, "owner")
	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)

	_, err := svc.CreateTemplate(ctx, CreateTemplateInput{
		ActorID:   owner.ID,
		Name:      "Proteomics starter",
		IsDefault: true,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestTemplateService_CreateTemplate_UnknownSchema(t *testing.T) {
	ctx := context.Background()
	svc, m := newTemplateService()

	owner := newTestUser(t, "owner")
	missing := uuid.New()

	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	m.schemaRepo.On("FindByIDs", ctx, []uuid.UUID{missing}).
		Return([]*metadata.Schema{}, nil)

	_, err := svc.CreateTemplate(ctx, CreateTemplateInput{
		ActorID:   owner.ID,
		Name:      "Broken",
		SchemaIDs: []uuid.UUID{missing},
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SCHEMA_NOT_FOUND", domainErr.Code)
}

func TestTemplateService_UpdateTemplate_MarkDefaultUnmarksOthers(t *testing.T) {
	ctx := context.Background()
	svc, m := newTemplateService()

	staff := newStaffUser(t)
	tpl, err := metadata.NewMetadataTableTemplate("Proteomics starter", staff.ID)
	require.NoError(t, err)

	m.templateRepo.On("FindByID", ctx, tpl.ID).Return(tpl, nil)
	m.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	m.templateRepo.On("Update", ctx, tpl).Return(nil)
	m.templateRepo.On("UnmarkOtherDefaults", ctx, tpl.ID).Return(nil)

	isDefault := true
	result, err := svc.UpdateTemplate(ctx, UpdateTemplateInput{
		ActorID:    staff.ID,
		TemplateID: tpl.ID,
		IsDefault:  &isDefault,
	})

	require.NoError(t, err)
	assert.True(t, result.IsDefault)
	m.templateRepo.AssertCalled(t, "UnmarkOtherDefaults", ctx, tpl.ID)
}

func TestTemplateService_UpdateTemplate_NonStaffCannotMarkDefault(t *testing.T) {
	ctx := context.Background()
	svc, m := newTemplateService()

	owner := newTestUser(t, "owner")
	tpl, err := metadata.NewMetadataTableTemplate("Proteomics starter", owner.ID)
	require.NoError(t, err)

	m.templateRepo.On("FindByID", ctx, tpl.ID).Return(tpl, nil)
	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)

	isDefault := true
	_, err = svc.UpdateTemplate(ctx, UpdateTemplateInput{
		ActorID:    owner.ID,
		TemplateID: tpl.ID,
		IsDefault:  &isDefault,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestTemplateService_UpdateTemplate_StrangerForbidden(t *testing.T) {
	ctx := context.Background()
	svc, m := newTemplateService()

	owner := newTestUser(t, "owner")
	stranger := newTestUser(t, "stranger")
	tpl, err := metadata.NewMetadataTableTemplate("Proteomics starter", owner.ID)
	require.NoError(t, err)

	m.templateRepo.On("FindByID", ctx, tpl.ID).Return(tpl, nil)
	m.userRepo.On("FindByID", ctx, stranger.ID).Return(stranger, nil)

	name := "Hijacked"
	_, err = svc.UpdateTemplate(ctx, UpdateTemplateInput{
		ActorID:    stranger.ID,
		TemplateID: tpl.ID,
		Name:       &name,
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestTemplateService_GetDefaultTemplate_NoneConfigured(t *testing.T) {
	ctx := context.Background()
	svc, m := newTemplateService()

	m.templateRepo.On("FindDefault", ctx).Return(nil, shared.ErrNotFound)

	_, err := svc.GetDefaultTemplate(ctx)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_DEFAULT_TEMPLATE", domainErr.Code)
}

func TestTemplateService_DeleteTemplate_OwnerAllowed(t *testing.T) {
	ctx := context.Background()
	svc, m := newTemplateService()

	owner := newTestUser(t, "owner")
	tpl, err := metadata.NewMetadataTableTemplate("Proteomics starter", owner.ID)
	require.NoError(t, err)

	m.templateRepo.On("FindByID", ctx, tpl.ID).Return(tpl, nil)
	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	m.templateRepo.On("Delete", ctx, tpl.ID).Return(nil)

	err = svc.DeleteTemplate(ctx, owner.ID, tpl.ID)

	require.NoError(t, err)
	m.templateRepo.AssertExpectations(t)
}

func TestTemplateService_ListMyTemplates(t *testing.T) {
	ctx := context.Background()
	svc, m := newTemplateService()

	owner := newTestUser(t, "owner")
	tpl, err := metadata.NewMetadataTableTemplate("Proteomics starter", owner.ID)
	require.NoError(t, err)

	m.userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	m.templateRepo.On("FindByOwner", ctx, owner.ID).
		Return([]*metadata.MetadataTableTemplate{tpl}, nil)

	result, err := svc.ListMyTemplates(ctx, owner.ID)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, tpl.ID, result[0].ID)
}

package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// schemaDownloadTTL is how long presigned definition links stay valid
const schemaDownloadTTL = 15 * time.Minute

// SchemaService manages SDRF column schemas and their definition files.
// Definition files live in object storage; the database keeps the hash
// and size. Schema administration is staff-only, reads are open.
type SchemaService struct {
	schemaRepo metadata.SchemaRepository
	userRepo   accounts.UserRepository
	storage    ObjectStorageService
	logger     *zap.Logger
}

// NewSchemaService creates a new schema service
func NewSchemaService(
	schemaRepo metadata.SchemaRepository,
	userRepo accounts.UserRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *SchemaService {
	return &SchemaService{
		schemaRepo: schemaRepo,
		userRepo:   userRepo,
		storage:    storage,
		logger:     logger,
	}
}

// CreateSchema registers a schema and stores its definition file
func (s *SchemaService) CreateSchema(ctx context.Context, input CreateSchemaInput) (*SchemaDTO, error) {
	if err := s.requireStaff(ctx, input.ActorID); err != nil {
		return nil, err
	}

	schema, err := metadata.NewSchema(input.Name)
	if err != nil {
		return nil, err
	}

	if existing, err := s.schemaRepo.FindByName(ctx, schema.Name); err == nil && existing != nil {
		return nil, shared.NewDomainError("SCHEMA_EXISTS", "A schema with this name already exists")
	}

	schema.SetDescription(input.Description)
	schema.IsBuiltin = input.IsBuiltin
	if input.Tags != nil {
		schema.SetTags(input.Tags)
	}
	if input.Columns != nil {
		schema.SetColumns(input.Columns)
	}

	if len(input.Definition) > 0 {
		key := schemaStorageKey(schema.ID, schema.Name)
		if err := s.storage.Upload(ctx, key, input.Definition, "application/json"); err != nil {
			s.logger.Error("Failed to upload schema definition", zap.Error(err))
			return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to store schema definition")
		}
		schema.SetDefinition(key, input.Definition)
	}

	if err := s.schemaRepo.Create(ctx, schema); err != nil {
		s.logger.Error("Failed to create schema", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create schema")
	}

	s.logger.Info("Schema created",
		zap.String("schema_id", schema.ID.String()),
		zap.String("name", schema.Name))

	dto := toSchemaDTO(schema)
	return &dto, nil
}

// GetSchema returns a schema by id
func (s *SchemaService) GetSchema(ctx context.Context, schemaID uuid.UUID) (*SchemaDTO, error) {
	schema, err := s.schemaRepo.FindByID(ctx, schemaID)
	if err != nil {
		return nil, shared.NewDomainError("SCHEMA_NOT_FOUND", "Schema not found")
	}

	dto := toSchemaDTO(schema)
	return &dto, nil
}

// GetSchemaByName resolves a schema by name, accepting legacy names
func (s *SchemaService) GetSchemaByName(ctx context.Context, name string) (*SchemaDTO, error) {
	schema, err := s.schemaRepo.FindByName(ctx, metadata.CanonicalSchemaName(name))
	if err != nil {
		return nil, shared.NewDomainError("SCHEMA_NOT_FOUND", "Schema not found")
	}

	dto := toSchemaDTO(schema)
	return &dto, nil
}

// IncrementUsage bumps a schema's usage counter
func (s *SchemaService) IncrementUsage(ctx context.Context, schemaID uuid.UUID) error {
	if err := s.schemaRepo.IncrementUsage(ctx, schemaID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("SCHEMA_NOT_FOUND", "Schema not found")
		}
		s.logger.Error("Failed to increment schema usage",
			zap.String("schema_id", schemaID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to increment schema usage")
	}
	return nil
}

// ListSchemas returns schemas, optionally restricted to active ones
func (s *SchemaService) ListSchemas(ctx context.Context, activeOnly bool) ([]SchemaDTO, error) {
	schemas, err := s.schemaRepo.FindAll(ctx, activeOnly)
	if err != nil {
		s.logger.Error("Failed to list schemas", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list schemas")
	}

	dtos := make([]SchemaDTO, len(schemas))
	for i, schema := range schemas {
		dtos[i] = toSchemaDTO(schema)
	}
	return dtos, nil
}

// UpdateDefinition replaces a schema's definition file and column layout
func (s *SchemaService) UpdateDefinition(ctx context.Context, input UpdateSchemaDefinitionInput) (*SchemaDTO, error) {
	if err := s.requireStaff(ctx, input.ActorID); err != nil {
		return nil, err
	}

	schema, err := s.schemaRepo.FindByID(ctx, input.SchemaID)
	if err != nil {
		return nil, shared.NewDomainError("SCHEMA_NOT_FOUND", "Schema not found")
	}

	if len(input.Definition) == 0 {
		return nil, shared.NewDomainError("INVALID_DEFINITION", "Definition file cannot be empty")
	}

	key := schemaStorageKey(schema.ID, schema.Name)
	if err := s.storage.Upload(ctx, key, input.Definition, "application/json"); err != nil {
		s.logger.Error("Failed to upload schema definition", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to store schema definition")
	}

	schema.SetDefinition(key, input.Definition)
	if input.Columns != nil {
		schema.SetColumns(input.Columns)
	}

	if err := s.schemaRepo.Update(ctx, schema); err != nil {
		s.logger.Error("Failed to update schema", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update schema")
	}

	s.logger.Info("Schema definition updated",
		zap.String("schema_id", schema.ID.String()),
		zap.String("file_hash", schema.FileHash))

	dto := toSchemaDTO(schema)
	return &dto, nil
}

// DeactivateSchema hides the schema from new tables
func (s *SchemaService) DeactivateSchema(ctx context.Context, actorID, schemaID uuid.UUID) error {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return err
	}

	schema, err := s.schemaRepo.FindByID(ctx, schemaID)
	if err != nil {
		return shared.NewDomainError("SCHEMA_NOT_FOUND", "Schema not found")
	}

	schema.Deactivate()

	if err := s.schemaRepo.Update(ctx, schema); err != nil {
		s.logger.Error("Failed to deactivate schema", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate schema")
	}

	s.logger.Info("Schema deactivated", zap.String("schema_id", schemaID.String()))

	return nil
}

// DeleteSchema removes a schema and its stored definition file. Builtin
// schemas cannot be deleted, only deactivated.
func (s *SchemaService) DeleteSchema(ctx context.Context, actorID, schemaID uuid.UUID) error {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return err
	}

	schema, err := s.schemaRepo.FindByID(ctx, schemaID)
	if err != nil {
		return shared.NewDomainError("SCHEMA_NOT_FOUND", "Schema not found")
	}
	if schema.IsBuiltin {
		return shared.NewDomainError("BUILTIN_SCHEMA", "Builtin schemas cannot be deleted")
	}

	if schema.FileKey != "" {
		// Don't fail the delete - just log the error
		if err := s.storage.DeleteObject(ctx, schema.FileKey); err != nil {
			s.logger.Error("Failed to delete schema definition file", zap.Error(err))
		}
	}

	if err := s.schemaRepo.Delete(ctx, schemaID); err != nil {
		s.logger.Error("Failed to delete schema", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete schema")
	}

	s.logger.Info("Schema deleted", zap.String("schema_id", schemaID.String()))

	return nil
}

// GetDownloadURL returns a presigned link to the definition file
func (s *SchemaService) GetDownloadURL(ctx context.Context, schemaID uuid.UUID) (*SchemaDownloadResult, error) {
	schema, err := s.schemaRepo.FindByID(ctx, schemaID)
	if err != nil {
		return nil, shared.NewDomainError("SCHEMA_NOT_FOUND", "Schema not found")
	}
	if schema.FileKey == "" {
		return nil, shared.NewDomainError("NO_DEFINITION", "Schema has no definition file")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, schema.FileKey, schemaDownloadTTL)
	if err != nil {
		s.logger.Error("Failed to generate download URL", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to generate download link")
	}

	return &SchemaDownloadResult{URL: url, ExpiresAt: expiresAt}, nil
}

// DownloadDefinition returns the raw definition file contents
func (s *SchemaService) DownloadDefinition(ctx context.Context, schemaID uuid.UUID) ([]byte, error) {
	schema, err := s.schemaRepo.FindByID(ctx, schemaID)
	if err != nil {
		return nil, shared.NewDomainError("SCHEMA_NOT_FOUND", "Schema not found")
	}
	if schema.FileKey == "" {
		return nil, shared.NewDomainError("NO_DEFINITION", "Schema has no definition file")
	}

	data, err := s.storage.Download(ctx, schema.FileKey)
	if err != nil {
		s.logger.Error("Failed to download schema definition", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to download schema definition")
	}

	return data, nil
}

// RenameLegacySchemas renames every schema still carrying a pre-1.0 name
// to its current name. Returns the number of schemas renamed.
func (s *SchemaService) RenameLegacySchemas(ctx context.Context, actorID uuid.UUID) (int, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return 0, err
	}

	renamed := 0
	for legacy, current := range metadata.LegacyNameMapping {
		schema, err := s.schemaRepo.FindByName(ctx, legacy)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			s.logger.Error("Failed to look up legacy schema", zap.Error(err))
			return renamed, shared.NewDomainError("INTERNAL_ERROR", "Failed to rename legacy schemas")
		}

		if err := schema.Rename(current); err != nil {
			return renamed, err
		}
		if err := s.schemaRepo.Update(ctx, schema); err != nil {
			s.logger.Error("Failed to save renamed schema", zap.Error(err))
			return renamed, shared.NewDomainError("INTERNAL_ERROR", "Failed to rename legacy schemas")
		}

		s.logger.Info("Legacy schema renamed",
			zap.String("from", legacy),
			zap.String("to", current))
		renamed++
	}

	return renamed, nil
}

func (s *SchemaService) requireStaff(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if !actor.IsStaff {
		return shared.ErrForbidden
	}
	return nil
}

func schemaStorageKey(schemaID uuid.UUID, name string) string {
	return fmt.Sprintf("schemas/%s/%s.json", schemaID, name)
}

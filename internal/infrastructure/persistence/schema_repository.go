package persistence

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSchemaRepository implements SchemaRepository using GORM
type GormSchemaRepository struct {
	db *gorm.DB
}

// NewGormSchemaRepository creates a new GormSchemaRepository
func NewGormSchemaRepository(db *gorm.DB) *GormSchemaRepository {
	return &GormSchemaRepository{db: db}
}

// Create creates a new schema
func (r *GormSchemaRepository) Create(ctx context.Context, schema *metadata.Schema) error {
	model := models.SchemaModelFromDomain(schema)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing schema
func (r *GormSchemaRepository) Update(ctx context.Context, schema *metadata.Schema) error {
	model := models.SchemaModelFromDomain(schema)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a schema
func (r *GormSchemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SchemaModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a schema by ID
func (r *GormSchemaRepository) FindByID(ctx context.Context, id uuid.UUID) (*metadata.Schema, error) {
	var model models.SchemaModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a schema by its unique name
func (r *GormSchemaRepository) FindByName(ctx context.Context, name string) (*metadata.Schema, error) {
	var model models.SchemaModel
	if err := r.db.WithContext(ctx).
		Where("name = ?", metadata.NormalizeSchemaName(name)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds schemas by their ids. Missing ids are silently omitted.
func (r *GormSchemaRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*metadata.Schema, error) {
	if len(ids) == 0 {
		return []*metadata.Schema{}, nil
	}

	var schemaModels []*models.SchemaModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&schemaModels).Error; err != nil {
		return nil, err
	}

	schemas := make([]*metadata.Schema, len(schemaModels))
	for i, model := range schemaModels {
		schemas[i] = model.ToDomain()
	}

	return schemas, nil
}

// FindAll returns all schemas, optionally restricted to active ones
func (r *GormSchemaRepository) FindAll(ctx context.Context, activeOnly bool) ([]*metadata.Schema, error) {
	query := r.db.WithContext(ctx).Model(&models.SchemaModel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var schemaModels []*models.SchemaModel
	if err := query.Order("name asc").Find(&schemaModels).Error; err != nil {
		return nil, err
	}

	schemas := make([]*metadata.Schema, len(schemaModels))
	for i, model := range schemaModels {
		schemas[i] = model.ToDomain()
	}

	return schemas, nil
}

// IncrementUsage atomically bumps the usage counter without touching the
// aggregate version, so concurrent reorders never conflict over it.
func (r *GormSchemaRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.SchemaModel{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSchemaRepository implements SchemaRepository
var _ metadata.SchemaRepository = (*GormSchemaRepository)(nil)

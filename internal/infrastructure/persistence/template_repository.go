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

// GormTemplateRepository implements TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// Create creates a new template. A template created as default unmarks
// every other default in the same transaction.
func (r *GormTemplateRepository) Create(ctx context.Context, tpl *metadata.MetadataTableTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.TemplateModelFromDomain(tpl)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if tpl.IsDefault {
			return unmarkOtherDefaults(tx, tpl.ID)
		}
		return nil
	})
}

// Update saves the template. When the template is marked default, every
// other default is unmarked in the same transaction.
func (r *GormTemplateRepository) Update(ctx context.Context, tpl *metadata.MetadataTableTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.TemplateModelFromDomain(tpl)
		result := tx.Save(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if tpl.IsDefault {
			return unmarkOtherDefaults(tx, tpl.ID)
		}
		return nil
	})
}

// Delete deletes a template
func (r *GormTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TemplateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a template by ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*metadata.MetadataTableTemplate, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner returns all templates owned by a user
func (r *GormTemplateRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*metadata.MetadataTableTemplate, error) {
	var tplModels []*models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name asc").
		Find(&tplModels).Error; err != nil {
		return nil, err
	}

	templates := make([]*metadata.MetadataTableTemplate, len(tplModels))
	for i, model := range tplModels {
		templates[i] = model.ToDomain()
	}

	return templates, nil
}

// FindDefault returns the default template
func (r *GormTemplateRepository) FindDefault(ctx context.Context) (*metadata.MetadataTableTemplate, error) {
	var model models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		Order("updated_at desc").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDefaults returns every template carrying the default flag. More
// than one row here means a past save skipped the unmark step.
func (r *GormTemplateRepository) FindDefaults(ctx context.Context) ([]*metadata.MetadataTableTemplate, error) {
	var tplModels []*models.TemplateModel
	if err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		Order("updated_at desc").
		Find(&tplModels).Error; err != nil {
		return nil, err
	}

	templates := make([]*metadata.MetadataTableTemplate, len(tplModels))
	for i, model := range tplModels {
		templates[i] = model.ToDomain()
	}

	return templates, nil
}

// UnmarkOtherDefaults clears is_default on every template except the
// given one
func (r *GormTemplateRepository) UnmarkOtherDefaults(ctx context.Context, exceptID uuid.UUID) error {
	return unmarkOtherDefaults(r.db.WithContext(ctx), exceptID)
}

func unmarkOtherDefaults(tx *gorm.DB, exceptID uuid.UUID) error {
	return tx.Model(&models.TemplateModel{}).
		Where("is_default = ? AND id <> ?", true, exceptID).
		UpdateColumn("is_default", false).Error
}

// Ensure GormTemplateRepository implements TemplateRepository
var _ metadata.TemplateRepository = (*GormTemplateRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/instruments"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInstrumentRepository implements InstrumentRepository using GORM
type GormInstrumentRepository struct {
	db *gorm.DB
}

// NewGormInstrumentRepository creates a new GormInstrumentRepository
func NewGormInstrumentRepository(db *gorm.DB) *GormInstrumentRepository {
	return &GormInstrumentRepository{db: db}
}

// Create creates a new instrument
func (r *GormInstrumentRepository) Create(ctx context.Context, instrument *instruments.Instrument) error {
	model := models.InstrumentModelFromDomain(instrument)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing instrument
func (r *GormInstrumentRepository) Update(ctx context.Context, instrument *instruments.Instrument) error {
	model := models.InstrumentModelFromDomain(instrument)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an instrument
func (r *GormInstrumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InstrumentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an instrument by ID
func (r *GormInstrumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*instruments.Instrument, error) {
	var model models.InstrumentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all instruments, optionally restricted to enabled ones
func (r *GormInstrumentRepository) FindAll(ctx context.Context, enabledOnly bool) ([]*instruments.Instrument, error) {
	query := r.db.WithContext(ctx).Model(&models.InstrumentModel{})
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}

	var instrumentModels []*models.InstrumentModel
	if err := query.Order("name asc").Find(&instrumentModels).Error; err != nil {
		return nil, err
	}

	result := make([]*instruments.Instrument, len(instrumentModels))
	for i, model := range instrumentModels {
		result[i] = model.ToDomain()
	}

	return result, nil
}

// Ensure GormInstrumentRepository implements InstrumentRepository
var _ instruments.InstrumentRepository = (*GormInstrumentRepository)(nil)

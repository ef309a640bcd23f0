package persistence

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrcidProfileRepository implements OrcidProfileRepository using GORM
type GormOrcidProfileRepository struct {
	db *gorm.DB
}

// NewGormOrcidProfileRepository creates a new GormOrcidProfileRepository
func NewGormOrcidProfileRepository(db *gorm.DB) *GormOrcidProfileRepository {
	return &GormOrcidProfileRepository{db: db}
}

// Save inserts or updates the profile link for a user
func (r *GormOrcidProfileRepository) Save(ctx context.Context, profile *accounts.UserOrcidProfile) error {
	model := models.OrcidProfileModelFromDomain(profile)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"orcid_id", "verified", "verified_at", "updated_at"}),
		}).
		Create(model).Error
}

// Delete removes a profile link
func (r *GormOrcidProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrcidProfileModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByUserID finds the profile link for a user
func (r *GormOrcidProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*accounts.UserOrcidProfile, error) {
	var model models.OrcidProfileModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrcidID finds the profile link holding an ORCID iD
func (r *GormOrcidProfileRepository) FindByOrcidID(ctx context.Context, orcidID string) (*accounts.UserOrcidProfile, error) {
	var model models.OrcidProfileModel
	if err := r.db.WithContext(ctx).
		Where("orcid_id = ?", orcidID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormOrcidProfileRepository implements OrcidProfileRepository
var _ accounts.OrcidProfileRepository = (*GormOrcidProfileRepository)(nil)

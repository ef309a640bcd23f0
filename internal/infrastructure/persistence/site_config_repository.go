package persistence

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSiteConfigRepository implements SiteConfigRepository using GORM
type GormSiteConfigRepository struct {
	db *gorm.DB
}

// NewGormSiteConfigRepository creates a new GormSiteConfigRepository
func NewGormSiteConfigRepository(db *gorm.DB) *GormSiteConfigRepository {
	return &GormSiteConfigRepository{db: db}
}

// Get returns the singleton, creating it with defaults when missing
func (r *GormSiteConfigRepository) Get(ctx context.Context) (*accounts.SiteConfig, error) {
	var model models.SiteConfigModel
	err := r.db.WithContext(ctx).Order("created_at asc").First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cfg := accounts.NewSiteConfig()
	created := models.SiteConfigModelFromDomain(cfg)
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save persists the singleton
func (r *GormSiteConfigRepository) Save(ctx context.Context, cfg *accounts.SiteConfig) error {
	model := models.SiteConfigModelFromDomain(cfg)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSiteConfigRepository implements SiteConfigRepository
var _ accounts.SiteConfigRepository = (*GormSiteConfigRepository)(nil)

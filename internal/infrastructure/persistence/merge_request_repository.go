package persistence

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMergeRequestRepository implements MergeRequestRepository using GORM
type GormMergeRequestRepository struct {
	db *gorm.DB
}

// NewGormMergeRequestRepository creates a new GormMergeRequestRepository
func NewGormMergeRequestRepository(db *gorm.DB) *GormMergeRequestRepository {
	return &GormMergeRequestRepository{db: db}
}

// Create creates a new merge request
func (r *GormMergeRequestRepository) Create(ctx context.Context, req *accounts.AccountMergeRequest) error {
	model := models.MergeRequestModelFromDomain(req)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing merge request
func (r *GormMergeRequestRepository) Update(ctx context.Context, req *accounts.AccountMergeRequest) error {
	model := models.MergeRequestModelFromDomain(req)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a merge request by ID
func (r *GormMergeRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.AccountMergeRequest, error) {
	var model models.MergeRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPending returns all pending merge requests, oldest first
func (r *GormMergeRequestRepository) FindPending(ctx context.Context) ([]*accounts.AccountMergeRequest, error) {
	var reqModels []*models.MergeRequestModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(accounts.MergePending)).
		Order("created_at asc").
		Find(&reqModels).Error; err != nil {
		return nil, err
	}

	requests := make([]*accounts.AccountMergeRequest, len(reqModels))
	for i, model := range reqModels {
		requests[i] = model.ToDomain()
	}

	return requests, nil
}

// Ensure GormMergeRequestRepository implements MergeRequestRepository
var _ accounts.MergeRequestRepository = (*GormMergeRequestRepository)(nil)

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

// GormResourcePermissionRepository implements ResourcePermissionRepository using GORM
type GormResourcePermissionRepository struct {
	db *gorm.DB
}

// NewGormResourcePermissionRepository creates a new GormResourcePermissionRepository
func NewGormResourcePermissionRepository(db *gorm.DB) *GormResourcePermissionRepository {
	return &GormResourcePermissionRepository{db: db}
}

// Save inserts or updates a grant (unique per resource+user)
func (r *GormResourcePermissionRepository) Save(ctx context.Context, perm *accounts.ResourcePermission) error {
	model := models.ResourcePermissionModelFromDomain(perm)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "resource_type"}, {Name: "resource_id"}, {Name: "user_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"role", "granted_by", "updated_at"}),
		}).
		Create(model).Error
}

// Delete removes a grant
func (r *GormResourcePermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ResourcePermissionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Find returns the grant for a user on a resource, if any
func (r *GormResourcePermissionRepository) Find(ctx context.Context, resourceType string, resourceID, userID uuid.UUID) (*accounts.ResourcePermission, error) {
	var model models.ResourcePermissionModel
	if err := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ? AND user_id = ?", resourceType, resourceID, userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByResource returns all grants on a resource
func (r *GormResourcePermissionRepository) FindByResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]*accounts.ResourcePermission, error) {
	var permModels []*models.ResourcePermissionModel
	if err := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at asc").
		Find(&permModels).Error; err != nil {
		return nil, err
	}

	perms := make([]*accounts.ResourcePermission, len(permModels))
	for i, model := range permModels {
		perms[i] = model.ToDomain()
	}

	return perms, nil
}

// FindByUser returns all grants held by a user
func (r *GormResourcePermissionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*accounts.ResourcePermission, error) {
	var permModels []*models.ResourcePermissionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&permModels).Error; err != nil {
		return nil, err
	}

	perms := make([]*accounts.ResourcePermission, len(permModels))
	for i, model := range permModels {
		perms[i] = model.ToDomain()
	}

	return perms, nil
}

// ReassignUser moves all grants from one user to another (account merge).
// Grants that would collide with an existing grant of the target user are
// dropped instead of moved.
func (r *GormResourcePermissionRepository) ReassignUser(ctx context.Context, fromUserID, toUserID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"user_id = ? AND (resource_type, resource_id) IN (?)",
			fromUserID,
			tx.Model(&models.ResourcePermissionModel{}).
				Select("resource_type, resource_id").
				Where("user_id = ?", toUserID),
		).Delete(&models.ResourcePermissionModel{}).Error; err != nil {
			return err
		}

		return tx.Model(&models.ResourcePermissionModel{}).
			Where("user_id = ?", fromUserID).
			Update("user_id", toUserID).Error
	})
}

// Ensure GormResourcePermissionRepository implements ResourcePermissionRepository
var _ accounts.ResourcePermissionRepository = (*GormResourcePermissionRepository)(nil)

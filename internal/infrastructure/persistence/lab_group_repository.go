package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLabGroupRepository implements LabGroupRepository using GORM
type GormLabGroupRepository struct {
	db *gorm.DB
}

// NewGormLabGroupRepository creates a new GormLabGroupRepository
func NewGormLabGroupRepository(db *gorm.DB) *GormLabGroupRepository {
	return &GormLabGroupRepository{db: db}
}

// Create creates a new lab group
func (r *GormLabGroupRepository) Create(ctx context.Context, group *accounts.LabGroup) error {
	model := models.LabGroupModelFromDomain(group)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing lab group
func (r *GormLabGroupRepository) Update(ctx context.Context, group *accounts.LabGroup) error {
	model := models.LabGroupModelFromDomain(group)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a lab group, its memberships, and its permission rows
func (r *GormLabGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lab_group_id = ?", id).
			Delete(&models.LabGroupMemberModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lab_group_id = ?", id).
			Delete(&models.LabGroupPermissionModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.LabGroupModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a lab group by ID
func (r *GormLabGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.LabGroup, error) {
	var model models.LabGroupModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns lab groups matching the filter with pagination
func (r *GormLabGroupRepository) FindAll(ctx context.Context, filter accounts.LabGroupFilter) ([]*accounts.LabGroup, int64, error) {
	var groupModels []*models.LabGroupModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LabGroupModel{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, LabGroupSortFields, "name")
	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "asc"
	}
	query = query.Order(sortBy + " " + ValidateSortOrder(sortOrder))
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&groupModels).Error; err != nil {
		return nil, 0, err
	}

	groups := make([]*accounts.LabGroup, len(groupModels))
	for i, model := range groupModels {
		groups[i] = model.ToDomain()
	}

	return groups, total, nil
}

// FindChildren returns the direct sub-groups of a group
func (r *GormLabGroupRepository) FindChildren(ctx context.Context, id uuid.UUID) ([]*accounts.LabGroup, error) {
	var groupModels []*models.LabGroupModel
	if err := r.db.WithContext(ctx).
		Where("parent_group_id = ?", id).
		Order("name asc").
		Find(&groupModels).Error; err != nil {
		return nil, err
	}

	groups := make([]*accounts.LabGroup, len(groupModels))
	for i, model := range groupModels {
		groups[i] = model.ToDomain()
	}

	return groups, nil
}

// FindAncestorChain returns the chain from the root down to and including
// the given group, walking parent links with a recursive CTE.
func (r *GormLabGroupRepository) FindAncestorChain(ctx context.Context, id uuid.UUID) ([]*accounts.LabGroup, error) {
	var groupModels []*models.LabGroupModel
	if err := r.db.WithContext(ctx).Raw(`
		WITH RECURSIVE ancestors AS (
			SELECT g.*, 0 AS depth FROM lab_groups g WHERE g.id = ?
			UNION ALL
			SELECT g.*, a.depth + 1 FROM lab_groups g
			JOIN ancestors a ON g.id = a.parent_group_id
		)
		SELECT * FROM ancestors ORDER BY depth DESC
	`, id).Scan(&groupModels).Error; err != nil {
		return nil, err
	}
	if len(groupModels) == 0 {
		return nil, shared.ErrNotFound
	}

	chain := make([]*accounts.LabGroup, len(groupModels))
	for i, model := range groupModels {
		chain[i] = model.ToDomain()
	}

	return chain, nil
}

// FindDescendantIDs returns the ids of the group's whole subtree,
// including the group itself.
func (r *GormLabGroupRepository) FindDescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Raw(`
		WITH RECURSIVE descendants AS (
			SELECT g.id FROM lab_groups g WHERE g.id = ?
			UNION ALL
			SELECT g.id FROM lab_groups g
			JOIN descendants d ON g.parent_group_id = d.id
		)
		SELECT id FROM descendants
	`, id).Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// AddMember adds a user as a direct member of a group. Adding an existing
// member is a no-op.
func (r *GormLabGroupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	member := models.LabGroupMemberModel{
		LabGroupID: groupID,
		UserID:     userID,
		CreatedAt:  time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member).Error
}

// RemoveMember removes a direct membership
func (r *GormLabGroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("lab_group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.LabGroupMemberModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IsDirectMember checks direct membership in a single group
func (r *GormLabGroupRepository) IsDirectMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LabGroupMemberModel{}).
		Where("lab_group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsDirectMemberOfAny checks direct membership in any of the groups
func (r *GormLabGroupRepository) IsDirectMemberOfAny(ctx context.Context, groupIDs []uuid.UUID, userID uuid.UUID) (bool, error) {
	if len(groupIDs) == 0 {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LabGroupMemberModel{}).
		Where("lab_group_id IN ? AND user_id = ?", groupIDs, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindDirectMemberGroupIDs returns ids of groups the user directly belongs to
func (r *GormLabGroupRepository) FindDirectMemberGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.LabGroupMemberModel{}).
		Where("user_id = ?", userID).
		Pluck("lab_group_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindMemberIDs returns the direct member ids of a group
func (r *GormLabGroupRepository) FindMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.LabGroupMemberModel{}).
		Where("lab_group_id = ?", groupID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// SavePermission inserts or updates a permission row (unique per user+group)
func (r *GormLabGroupRepository) SavePermission(ctx context.Context, perm *accounts.LabGroupPermission) error {
	model := models.LabGroupPermissionModelFromDomain(perm)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "lab_group_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"can_view", "can_invite", "can_manage", "can_process_jobs", "updated_at",
			}),
		}).
		Create(model).Error
}

// DeletePermission removes a permission row
func (r *GormLabGroupRepository) DeletePermission(ctx context.Context, groupID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("lab_group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.LabGroupPermissionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindPermission returns the permission row for a user on a group
func (r *GormLabGroupRepository) FindPermission(ctx context.Context, groupID, userID uuid.UUID) (*accounts.LabGroupPermission, error) {
	var model models.LabGroupPermissionModel
	if err := r.db.WithContext(ctx).
		Where("lab_group_id = ? AND user_id = ?", groupID, userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// applyFilter applies filter options to the query
func (r *GormLabGroupRepository) applyFilter(query *gorm.DB, filter accounts.LabGroupFilter) *gorm.DB {
	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	if filter.RootsOnly {
		query = query.Where("parent_group_id IS NULL")
	}

	if filter.ParentID != nil {
		query = query.Where("parent_group_id = ?", *filter.ParentID)
	}

	if filter.MemberID != nil {
		query = query.Joins("JOIN lab_group_members ON lab_groups.id = lab_group_members.lab_group_id").
			Where("lab_group_members.user_id = ?", *filter.MemberID)
	}

	return query
}

// Ensure GormLabGroupRepository implements LabGroupRepository
var _ accounts.LabGroupRepository = (*GormLabGroupRepository)(nil)

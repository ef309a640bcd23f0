package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvitationRepository implements InvitationRepository using GORM
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(ctx context.Context, inv *accounts.LabGroupInvitation) error {
	model := models.InvitationModelFromDomain(inv)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing invitation
func (r *GormInvitationRepository) Update(ctx context.Context, inv *accounts.LabGroupInvitation) error {
	model := models.InvitationModelFromDomain(inv)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an invitation by ID
func (r *GormInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounts.LabGroupInvitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByToken finds an invitation by its secret token
func (r *GormInvitationRepository) FindByToken(ctx context.Context, token string) (*accounts.LabGroupInvitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingByGroupAndEmail finds the pending invitation for a
// (group, email) pair, if any
func (r *GormInvitationRepository) FindPendingByGroupAndEmail(ctx context.Context, groupID uuid.UUID, email string) (*accounts.LabGroupInvitation, error) {
	var model models.InvitationModel
	if err := r.db.WithContext(ctx).
		Where("lab_group_id = ? AND LOWER(invited_email) = ? AND status = ?",
			groupID, strings.ToLower(email), string(accounts.InvitationPending)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGroup returns all invitations for a group
func (r *GormInvitationRepository) FindByGroup(ctx context.Context, groupID uuid.UUID) ([]*accounts.LabGroupInvitation, error) {
	var invModels []*models.InvitationModel
	if err := r.db.WithContext(ctx).
		Where("lab_group_id = ?", groupID).
		Order("created_at desc").
		Find(&invModels).Error; err != nil {
		return nil, err
	}

	invitations := make([]*accounts.LabGroupInvitation, len(invModels))
	for i, model := range invModels {
		invitations[i] = model.ToDomain()
	}

	return invitations, nil
}

// FindByEmail returns all invitations addressed to an email
func (r *GormInvitationRepository) FindByEmail(ctx context.Context, email string) ([]*accounts.LabGroupInvitation, error) {
	var invModels []*models.InvitationModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(invited_email) = ?", strings.ToLower(email)).
		Order("created_at desc").
		Find(&invModels).Error; err != nil {
		return nil, err
	}

	invitations := make([]*accounts.LabGroupInvitation, len(invModels))
	for i, model := range invModels {
		invitations[i] = model.ToDomain()
	}

	return invitations, nil
}

// Ensure GormInvitationRepository implements InvitationRepository
var _ accounts.InvitationRepository = (*GormInvitationRepository)(nil)

package accounts

import (
	"context"

	"github.com/google/uuid"
)

// InvitationRepository persists lab group invitations
type InvitationRepository interface {
	// Create creates a new invitation
	Create(ctx context.Context, inv *LabGroupInvitation) error

	// Update updates an existing invitation
	Update(ctx context.Context, inv *LabGroupInvitation) error

	// FindByID finds an invitation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LabGroupInvitation, error)

	// FindByToken finds an invitation by its secret token
	FindByToken(ctx context.Context, token string) (*LabGroupInvitation, error)

	// FindPendingByGroupAndEmail finds the pending invitation for a
	// (group, email) pair, if any
	FindPendingByGroupAndEmail(ctx context.Context, groupID uuid.UUID, email string) (*LabGroupInvitation, error)

	// FindByGroup returns all invitations for a group
	FindByGroup(ctx context.Context, groupID uuid.UUID) ([]*LabGroupInvitation, error)

	// FindByEmail returns all invitations addressed to an email
	FindByEmail(ctx context.Context, email string) ([]*LabGroupInvitation, error)
}

// SiteConfigRepository persists the site configuration singleton
type SiteConfigRepository interface {
	// Get returns the singleton, creating it with defaults when missing
	Get(ctx context.Context) (*SiteConfig, error)

	// Save persists the singleton
	Save(ctx context.Context, cfg *SiteConfig) error
}

// ResourcePermissionRepository persists per-resource permission grants
type ResourcePermissionRepository interface {
	// Save inserts or updates a grant (unique per resource+user)
	Save(ctx context.Context, perm *ResourcePermission) error

	// Delete removes a grant
	Delete(ctx context.Context, id uuid.UUID) error

	// Find returns the grant for a user on a resource, if any
	Find(ctx context.Context, resourceType string, resourceID, userID uuid.UUID) (*ResourcePermission, error)

	// FindByResource returns all grants on a resource
	FindByResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]*ResourcePermission, error)

	// FindByUser returns all grants held by a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*ResourcePermission, error)

	// ReassignUser moves all grants from one user to another (account merge)
	ReassignUser(ctx context.Context, fromUserID, toUserID uuid.UUID) error
}

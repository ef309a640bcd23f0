package accounts

import (
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ResourcePermission grants a user a role on a single resource.
// One row exists per (resource type, resource id, user).
type ResourcePermission struct {
	shared.BaseEntity
	ResourceType shared.ResourceType
	ResourceID   uuid.UUID
	UserID       uuid.UUID
	Role         shared.ResourceRole
	GrantedBy    uuid.UUID
}

// NewResourcePermission creates a permission grant
func NewResourcePermission(resourceType shared.ResourceType, resourceID, userID uuid.UUID, role shared.ResourceRole, grantedBy uuid.UUID) (*ResourcePermission, error) {
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown resource role")
	}

	return &ResourcePermission{
		BaseEntity:   shared.NewBaseEntity(),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		UserID:       userID,
		Role:         role,
		GrantedBy:    grantedBy,
	}, nil
}

// SetRole updates the granted role
func (p *ResourcePermission) SetRole(role shared.ResourceRole) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown resource role")
	}

	p.Role = role
	p.UpdatedAt = time.Now()

	return nil
}

// ResourceAccess captures the access-relevant attributes of a shareable
// resource. Services build one from the resource plus the caller's
// relationship to it (explicit role, shared lab group) and evaluate the
// standard view/edit/delete/share rules against it.
type ResourceAccess struct {
	OwnerID    uuid.UUID
	Visibility shared.ResourceVisibility
	IsLocked   bool
}

// CanView reports whether the user may read the resource.
// role is the user's explicit grant (nil if none); sharesGroup is true
// when the resource has group visibility and the user is a member of its
// lab group.
func (a ResourceAccess) CanView(user *User, role *shared.ResourceRole, sharesGroup bool) bool {
	if user == nil {
		return a.Visibility == shared.VisibilityPublic
	}
	if user.IsStaff || a.OwnerID == user.ID {
		return true
	}
	if role != nil {
		return true
	}
	switch a.Visibility {
	case shared.VisibilityPublic:
		return true
	case shared.VisibilityGroup:
		return sharesGroup
	}
	return false
}

// CanEdit reports whether the user may modify the resource.
// Locked resources accept edits only from the owner or staff.
func (a ResourceAccess) CanEdit(user *User, role *shared.ResourceRole) bool {
	if user == nil {
		return false
	}
	if a.IsLocked {
		return user.IsStaff || a.OwnerID == user.ID
	}
	if user.IsStaff || a.OwnerID == user.ID {
		return true
	}
	return role != nil && role.CanEdit()
}

// CanDelete reports whether the user may delete the resource
func (a ResourceAccess) CanDelete(user *User, role *shared.ResourceRole) bool {
	if user == nil {
		return false
	}
	if user.IsStaff || a.OwnerID == user.ID {
		return true
	}
	return role != nil && role.CanDelete()
}

// CanShare reports whether the user may manage permissions on the resource
func (a ResourceAccess) CanShare(user *User, role *shared.ResourceRole) bool {
	if user == nil {
		return false
	}
	if user.IsStaff || a.OwnerID == user.ID {
		return true
	}
	return role != nil && role.CanShare()
}

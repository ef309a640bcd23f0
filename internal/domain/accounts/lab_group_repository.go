package accounts

import (
	"context"

	"github.com/google/uuid"
)

// LabGroupRepository defines the interface for lab group persistence,
// including the membership table and per-group permission rows.
type LabGroupRepository interface {
	// Create creates a new lab group
	Create(ctx context.Context, group *LabGroup) error

	// Update updates an existing lab group
	Update(ctx context.Context, group *LabGroup) error

	// Delete deletes a lab group and its memberships
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a lab group by ID
	FindByID(ctx context.Context, id uuid.UUID) (*LabGroup, error)

	// FindAll returns lab groups matching the filter with pagination
	FindAll(ctx context.Context, filter LabGroupFilter) ([]*LabGroup, int64, error)

	// FindChildren returns the direct sub-groups of a group
	FindChildren(ctx context.Context, id uuid.UUID) ([]*LabGroup, error)

	// FindAncestorChain returns the chain from the root down to and
	// including the given group
	FindAncestorChain(ctx context.Context, id uuid.UUID) ([]*LabGroup, error)

	// FindDescendantIDs returns the ids of the group's whole subtree,
	// including the group itself
	FindDescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)

	// Membership

	// AddMember adds a user as a direct member of a group
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error

	// RemoveMember removes a direct membership
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error

	// IsDirectMember checks direct membership in a single group
	IsDirectMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)

	// IsDirectMemberOfAny checks direct membership in any of the groups
	IsDirectMemberOfAny(ctx context.Context, groupIDs []uuid.UUID, userID uuid.UUID) (bool, error)

	// FindDirectMemberGroupIDs returns ids of groups the user directly belongs to
	FindDirectMemberGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// FindMemberIDs returns the direct member ids of a group
	FindMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)

	// Permission rows

	// SavePermission inserts or updates a permission row (unique per user+group)
	SavePermission(ctx context.Context, perm *LabGroupPermission) error

	// DeletePermission removes a permission row
	DeletePermission(ctx context.Context, groupID, userID uuid.UUID) error

	// FindPermission returns the permission row for a user on a group
	FindPermission(ctx context.Context, groupID, userID uuid.UUID) (*LabGroupPermission, error)
}

// LabGroupFilter contains filter options for querying lab groups
type LabGroupFilter struct {
	// Search keyword for name or description
	Keyword string

	// Only root groups (no parent)
	RootsOnly bool

	// Filter by parent group
	ParentID *uuid.UUID

	// Filter by direct membership
	MemberID *uuid.UUID

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string
}

// NewLabGroupFilter creates a filter with default values
func NewLabGroupFilter() LabGroupFilter {
	return LabGroupFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "name",
		SortOrder: "asc",
	}
}

// WithKeyword sets the search keyword
func (f LabGroupFilter) WithKeyword(keyword string) LabGroupFilter {
	f.Keyword = keyword
	return f
}

// WithParent filters by parent group
func (f LabGroupFilter) WithParent(parentID uuid.UUID) LabGroupFilter {
	f.ParentID = &parentID
	return f
}

// WithMember filters by direct membership
func (f LabGroupFilter) WithMember(userID uuid.UUID) LabGroupFilter {
	f.MemberID = &userID
	return f
}

// WithPagination sets pagination parameters
func (f LabGroupFilter) WithPagination(page, pageSize int) LabGroupFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f LabGroupFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f LabGroupFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

package accounts

import (
	"strings"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LabGroup represents a research group. Groups form a hierarchy through
// ParentGroupID; membership in a sub-group implies membership in every
// ancestor group.
type LabGroup struct {
	shared.BaseAggregateRoot
	Name               string
	Description        string
	ParentGroupID      *uuid.UUID
	CreatedBy          uuid.UUID
	AllowMemberInvites bool
	AllowProcessJobs   bool
}

// NewLabGroup creates a new lab group
func NewLabGroup(name string, creatorID uuid.UUID) (*LabGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_GROUP_NAME", "Lab group name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_GROUP_NAME", "Lab group name cannot exceed 255 characters")
	}
	if creatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}

	group := &LabGroup{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		CreatedBy:         creatorID,
	}

	group.AddDomainEvent(NewLabGroupCreatedEvent(group))

	return group, nil
}

// SetName renames the group
func (g *LabGroup) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Lab group name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Lab group name cannot exceed 255 characters")
	}

	g.Name = name
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// SetDescription sets the group description
func (g *LabGroup) SetDescription(description string) {
	g.Description = description
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

// SetParent attaches the group under a parent. Cycle detection over the
// full ancestor chain is enforced by the service before calling this.
func (g *LabGroup) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == g.ID {
		return shared.NewDomainError("INVALID_PARENT", "A lab group cannot be its own parent")
	}

	g.ParentGroupID = parentID
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return nil
}

// SetMemberInvites toggles whether plain members may send invitations
func (g *LabGroup) SetMemberInvites(allow bool) {
	g.AllowMemberInvites = allow
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

// SetProcessJobs toggles whether this group may process instrument jobs
func (g *LabGroup) SetProcessJobs(allow bool) {
	g.AllowProcessJobs = allow
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
}

// FullPath renders a chain of groups (root first, self last) as
// "root / parent / self".
func FullPath(chain []*LabGroup) string {
	names := make([]string, len(chain))
	for i, g := range chain {
		names[i] = g.Name
	}
	return strings.Join(names, " / ")
}

// Depth returns the nesting depth of the last group in the chain.
// A root group has depth 0.
func Depth(chain []*LabGroup) int {
	if len(chain) == 0 {
		return 0
	}
	return len(chain) - 1
}

// LabGroupPermission holds a user's administrative rights on a single group.
// Unlike membership, these rights never bubble up or down the hierarchy.
type LabGroupPermission struct {
	shared.BaseEntity
	LabGroupID     uuid.UUID
	UserID         uuid.UUID
	CanView        bool
	CanInvite      bool
	CanManage      bool
	CanProcessJobs bool
}

// NewLabGroupPermission creates an empty permission row
func NewLabGroupPermission(groupID, userID uuid.UUID) *LabGroupPermission {
	return &LabGroupPermission{
		BaseEntity: shared.NewBaseEntity(),
		LabGroupID: groupID,
		UserID:     userID,
		CanView:    true,
	}
}

// NewCreatorPermission grants the group creator full rights. The
// can_process_jobs right mirrors the group's own setting.
func NewCreatorPermission(group *LabGroup) *LabGroupPermission {
	return &LabGroupPermission{
		BaseEntity:     shared.NewBaseEntity(),
		LabGroupID:     group.ID,
		UserID:         group.CreatedBy,
		CanView:        true,
		CanInvite:      true,
		CanManage:      true,
		CanProcessJobs: group.AllowProcessJobs,
	}
}

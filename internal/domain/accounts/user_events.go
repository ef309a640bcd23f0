package accounts

import (
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the accounts context
const (
	EventUserCreated        = "accounts.user.created"
	EventUserDeactivated    = "accounts.user.deactivated"
	EventLabGroupCreated    = "accounts.lab_group.created"
	EventMemberAdded        = "accounts.lab_group.member_added"
	EventInvitationAccepted = "accounts.invitation.accepted"
	EventAccountsMerged     = "accounts.merge.completed"
)

// UserCreatedEvent is raised when a new user is registered
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserCreatedEvent creates a UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserCreated, "User", user.ID),
		Username:        user.Username,
		Email:           user.Email,
	}
}

// LabGroupCreatedEvent is raised when a lab group is created.
// The creator permission grant is driven by this event.
type LabGroupCreatedEvent struct {
	shared.BaseDomainEvent
	CreatorID        uuid.UUID `json:"creator_id"`
	AllowProcessJobs bool      `json:"allow_process_jobs"`
}

// NewLabGroupCreatedEvent creates a LabGroupCreatedEvent
func NewLabGroupCreatedEvent(group *LabGroup) *LabGroupCreatedEvent {
	return &LabGroupCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventLabGroupCreated, "LabGroup", group.ID),
		CreatorID:        group.CreatedBy,
		AllowProcessJobs: group.AllowProcessJobs,
	}
}

// MemberAddedEvent is raised when a user joins a lab group
type MemberAddedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewMemberAddedEvent creates a MemberAddedEvent
func NewMemberAddedEvent(group *LabGroup, userID uuid.UUID) *MemberAddedEvent {
	return &MemberAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventMemberAdded, "LabGroup", group.ID),
		UserID:          userID,
	}
}

// InvitationAcceptedEvent is raised when an invitation is accepted
type InvitationAcceptedEvent struct {
	shared.BaseDomainEvent
	LabGroupID uuid.UUID `json:"lab_group_id"`
	UserID     uuid.UUID `json:"user_id"`
}

// NewInvitationAcceptedEvent creates an InvitationAcceptedEvent
func NewInvitationAcceptedEvent(inv *LabGroupInvitation, userID uuid.UUID) *InvitationAcceptedEvent {
	return &InvitationAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvitationAccepted, "LabGroupInvitation", inv.ID),
		LabGroupID:      inv.LabGroupID,
		UserID:          userID,
	}
}

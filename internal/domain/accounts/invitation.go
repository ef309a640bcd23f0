package accounts

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvitationStatus is the lifecycle state of a lab group invitation
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationRejected  InvitationStatus = "rejected"
	InvitationExpired   InvitationStatus = "expired"
	InvitationCancelled InvitationStatus = "cancelled"
)

// invitationTokenBytes is the entropy of the invitation token
const invitationTokenBytes = 48

// DefaultInvitationTTL is how long an invitation stays valid
const DefaultInvitationTTL = 7 * 24 * time.Hour

// LabGroupInvitation invites an email address into a lab group.
// Only one pending invitation may exist per (group, email) pair.
type LabGroupInvitation struct {
	shared.BaseAggregateRoot
	LabGroupID   uuid.UUID
	InviterID    uuid.UUID
	InvitedEmail string
	Token        string
	Status       InvitationStatus
	Message      string
	ExpiresAt    time.Time
	RespondedAt  *time.Time
}

// NewLabGroupInvitation creates a pending invitation with a fresh token
func NewLabGroupInvitation(groupID, inviterID uuid.UUID, invitedEmail string) (*LabGroupInvitation, error) {
	if err := validateEmail(invitedEmail); err != nil {
		return nil, err
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate invitation token")
	}

	return &LabGroupInvitation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LabGroupID:        groupID,
		InviterID:         inviterID,
		InvitedEmail:      strings.ToLower(strings.TrimSpace(invitedEmail)),
		Token:             token,
		Status:            InvitationPending,
		ExpiresAt:         time.Now().Add(DefaultInvitationTTL),
	}, nil
}

// IsExpired reports whether the invitation is past its expiry
func (i *LabGroupInvitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// CanRespond reports whether the invitation is still actionable
func (i *LabGroupInvitation) CanRespond() bool {
	return i.Status == InvitationPending && !i.IsExpired()
}

// Accept marks the invitation accepted on behalf of the given user.
// The accepting user's email must match the invited email.
func (i *LabGroupInvitation) Accept(user *User) error {
	if i.Status != InvitationPending {
		return shared.NewDomainError("INVALID_STATE", "Invitation is not pending")
	}
	if i.IsExpired() {
		i.Status = InvitationExpired
		return shared.ErrInvitationExpired
	}
	if !strings.EqualFold(user.Email, i.InvitedEmail) {
		return shared.ErrEmailMismatch
	}

	now := time.Now()
	i.Status = InvitationAccepted
	i.RespondedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvitationAcceptedEvent(i, user.ID))

	return nil
}

// Reject marks the invitation rejected
func (i *LabGroupInvitation) Reject() error {
	if !i.CanRespond() {
		return shared.NewDomainError("INVALID_STATE", "Invitation can no longer be rejected")
	}

	now := time.Now()
	i.Status = InvitationRejected
	i.RespondedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	return nil
}

// Cancel withdraws a pending invitation (inviter or group manager action)
func (i *LabGroupInvitation) Cancel() error {
	if i.Status != InvitationPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending invitations can be cancelled")
	}

	now := time.Now()
	i.Status = InvitationCancelled
	i.RespondedAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	return nil
}

// MarkExpired transitions a stale pending invitation to expired
func (i *LabGroupInvitation) MarkExpired() {
	if i.Status == InvitationPending && i.IsExpired() {
		i.Status = InvitationExpired
		i.UpdatedAt = time.Now()
		i.IncrementVersion()
	}
}

func generateInvitationToken() (string, error) {
	buf := make([]byte, invitationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

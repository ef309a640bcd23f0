package accounts

import (
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MergeRequestStatus is the lifecycle state of an account merge request
type MergeRequestStatus string

const (
	MergePending   MergeRequestStatus = "pending"
	MergeApproved  MergeRequestStatus = "approved"
	MergeRejected  MergeRequestStatus = "rejected"
	MergeCompleted MergeRequestStatus = "completed"
)

// AccountMergeRequest asks for a duplicate account to be folded into a
// primary one. Approval moves the duplicate's memberships and resource
// permissions to the primary account and deactivates the duplicate.
type AccountMergeRequest struct {
	shared.BaseAggregateRoot
	PrimaryUserID   uuid.UUID
	DuplicateUserID uuid.UUID
	RequestedBy     uuid.UUID
	Reason          string
	Status          MergeRequestStatus
	ReviewedBy      *uuid.UUID
	ReviewedAt      *time.Time
	CompletedAt     *time.Time
}

// NewAccountMergeRequest creates a pending merge request
func NewAccountMergeRequest(primaryID, duplicateID, requestedBy uuid.UUID, reason string) (*AccountMergeRequest, error) {
	if primaryID == uuid.Nil || duplicateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MERGE", "Both accounts must be specified")
	}
	if primaryID == duplicateID {
		return nil, shared.NewDomainError("INVALID_MERGE", "Primary and duplicate accounts must differ")
	}

	return &AccountMergeRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PrimaryUserID:     primaryID,
		DuplicateUserID:   duplicateID,
		RequestedBy:       requestedBy,
		Reason:            reason,
		Status:            MergePending,
	}, nil
}

// Approve marks the request approved by a staff reviewer
func (m *AccountMergeRequest) Approve(reviewerID uuid.UUID) error {
	if m.Status != MergePending {
		return shared.NewDomainError("INVALID_STATE", "Only pending merge requests can be approved")
	}

	now := time.Now()
	m.Status = MergeApproved
	m.ReviewedBy = &reviewerID
	m.ReviewedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()

	return nil
}

// Reject marks the request rejected by a staff reviewer
func (m *AccountMergeRequest) Reject(reviewerID uuid.UUID) error {
	if m.Status != MergePending {
		return shared.NewDomainError("INVALID_STATE", "Only pending merge requests can be rejected")
	}

	now := time.Now()
	m.Status = MergeRejected
	m.ReviewedBy = &reviewerID
	m.ReviewedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()

	return nil
}

// Complete records that the merge was executed
func (m *AccountMergeRequest) Complete() error {
	if m.Status != MergeApproved {
		return shared.NewDomainError("INVALID_STATE", "Merge request must be approved before completion")
	}

	now := time.Now()
	m.Status = MergeCompleted
	m.CompletedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()

	m.AddDomainEvent(&AccountsMergedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventAccountsMerged, "AccountMergeRequest", m.ID),
		PrimaryUserID:   m.PrimaryUserID,
		DuplicateUserID: m.DuplicateUserID,
	})

	return nil
}

// AccountsMergedEvent is raised when a merge finishes
type AccountsMergedEvent struct {
	shared.BaseDomainEvent
	PrimaryUserID   uuid.UUID `json:"primary_user_id"`
	DuplicateUserID uuid.UUID `json:"duplicate_user_id"`
}

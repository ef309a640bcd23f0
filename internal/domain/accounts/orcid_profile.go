package accounts

import (
	"regexp"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ORCID iDs are four groups of four digits; the final character may be X
var orcidRegex = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// UserOrcidProfile links a user to an ORCID researcher identifier.
// At most one profile exists per user, and an ORCID iD can only be
// linked to a single account.
type UserOrcidProfile struct {
	shared.BaseEntity
	UserID     uuid.UUID
	OrcidID    string
	Verified   bool
	LinkedAt   time.Time
	VerifiedAt *time.Time
}

// NewUserOrcidProfile links an ORCID iD to a user
func NewUserOrcidProfile(userID uuid.UUID, orcidID string) (*UserOrcidProfile, error) {
	if !orcidRegex.MatchString(orcidID) {
		return nil, shared.NewDomainError("INVALID_ORCID", "ORCID iD must match the 0000-0000-0000-0000 format")
	}

	return &UserOrcidProfile{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		OrcidID:    orcidID,
		LinkedAt:   time.Now(),
	}, nil
}

// MarkVerified records a successful ORCID verification round-trip
func (p *UserOrcidProfile) MarkVerified() {
	now := time.Now()
	p.Verified = true
	p.VerifiedAt = &now
	p.UpdatedAt = now
}

package accounts

import (
	"context"
	"strings"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvitationService handles lab group invitations
type InvitationService struct {
	invRepo   accounts.InvitationRepository
	groupRepo accounts.LabGroupRepository
	userRepo  accounts.UserRepository
	logger    *zap.Logger
}

// NewInvitationService creates a new invitation service
func NewInvitationService(
	invRepo accounts.InvitationRepository,
	groupRepo accounts.LabGroupRepository,
	userRepo accounts.UserRepository,
	logger *zap.Logger,
) *InvitationService {
	return &InvitationService{
		invRepo:   invRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// CreateInvitation invites an email address into a lab group. The actor
// must be staff, hold invite rights on the group, or be a direct member
// of a group that allows member invites. Only one pending invitation may
// exist per (group, email) pair.
func (s *InvitationService) CreateInvitation(ctx context.Context, input CreateInvitationInput) (*InvitationDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, input.GroupID)
	if err != nil {
		return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
	}

	allowed, err := s.canInvite(ctx, group, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, shared.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if existing, err := s.invRepo.FindPendingByGroupAndEmail(ctx, input.GroupID, email); err == nil && existing != nil {
		if existing.IsExpired() {
			existing.MarkExpired()
			if err := s.invRepo.Update(ctx, existing); err != nil {
				s.logger.Error("Failed to expire stale invitation", zap.Error(err))
			}
		} else {
			return nil, shared.NewDomainError("INVITATION_EXISTS", "A pending invitation already exists for this email")
		}
	}

	// An existing member needs no invitation.
	if user, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		isMember, err := s.groupRepo.IsDirectMember(ctx, input.GroupID, user.ID)
		if err != nil {
			s.logger.Error("Failed to check membership", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check membership")
		}
		if isMember {
			return nil, shared.NewDomainError("ALREADY_MEMBER", "User is already a member of this group")
		}
	}

	inv, err := accounts.NewLabGroupInvitation(input.GroupID, input.ActorID, email)
	if err != nil {
		return nil, err
	}
	inv.Message = input.Message

	if err := s.invRepo.Create(ctx, inv); err != nil {
		s.logger.Error("Failed to create invitation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create invitation")
	}

	s.logger.Info("Invitation created",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("group_id", input.GroupID.String()),
		zap.String("email", email),
		zap.String("invited_by", input.ActorID.String()))

	dto := toInvitationDTO(inv)
	return &dto, nil
}

// AcceptInvitation accepts an invitation by token and adds the user as a
// direct member of the group
func (s *InvitationService) AcceptInvitation(ctx context.Context, input RespondInvitationInput) (*InvitationDTO, error) {
	inv, err := s.invRepo.FindByToken(ctx, input.Token)
	if err != nil {
		return nil, shared.NewDomainError("INVITATION_NOT_FOUND", "Invitation not found")
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := inv.Accept(user); err != nil {
		// Persist the expiry transition so the row stops matching
		// pending lookups.
		if inv.Status == accounts.InvitationExpired {
			if updateErr := s.invRepo.Update(ctx, inv); updateErr != nil {
				s.logger.Error("Failed to persist invitation expiry", zap.Error(updateErr))
			}
		}
		return nil, err
	}

	if err := s.invRepo.Update(ctx, inv); err != nil {
		s.logger.Error("Failed to update invitation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to accept invitation")
	}

	isMember, err := s.groupRepo.IsDirectMember(ctx, inv.LabGroupID, user.ID)
	if err != nil {
		s.logger.Error("Failed to check membership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to accept invitation")
	}
	if !isMember {
		if err := s.groupRepo.AddMember(ctx, inv.LabGroupID, user.ID); err != nil {
			s.logger.Error("Failed to add member after acceptance", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to join lab group")
		}
	}

	s.logger.Info("Invitation accepted",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("group_id", inv.LabGroupID.String()),
		zap.String("user_id", user.ID.String()))

	dto := toInvitationDTO(inv)
	return &dto, nil
}

// RejectInvitation declines an invitation by token. The rejecting user's
// email must match the invited email.
func (s *InvitationService) RejectInvitation(ctx context.Context, input RespondInvitationInput) (*InvitationDTO, error) {
	inv, err := s.invRepo.FindByToken(ctx, input.Token)
	if err != nil {
		return nil, shared.NewDomainError("INVITATION_NOT_FOUND", "Invitation not found")
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !strings.EqualFold(user.Email, inv.InvitedEmail) {
		return nil, shared.ErrEmailMismatch
	}

	if err := inv.Reject(); err != nil {
		return nil, err
	}

	if err := s.invRepo.Update(ctx, inv); err != nil {
		s.logger.Error("Failed to update invitation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reject invitation")
	}

	s.logger.Info("Invitation rejected",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("user_id", user.ID.String()))

	dto := toInvitationDTO(inv)
	return &dto, nil
}

// CancelInvitation withdraws a pending invitation. The inviter or a
// group manager may cancel.
func (s *InvitationService) CancelInvitation(ctx context.Context, input CancelInvitationInput) error {
	inv, err := s.invRepo.FindByID(ctx, input.InvitationID)
	if err != nil {
		return shared.NewDomainError("INVITATION_NOT_FOUND", "Invitation not found")
	}

	if inv.InviterID != input.ActorID {
		actor, err := s.userRepo.FindByID(ctx, input.ActorID)
		if err != nil {
			return shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
		}
		if !actor.IsStaff {
			perm, err := s.groupRepo.FindPermission(ctx, inv.LabGroupID, input.ActorID)
			if err != nil || perm == nil || !perm.CanManage {
				return shared.ErrForbidden
			}
		}
	}

	if err := inv.Cancel(); err != nil {
		return err
	}

	if err := s.invRepo.Update(ctx, inv); err != nil {
		s.logger.Error("Failed to update invitation", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to cancel invitation")
	}

	s.logger.Info("Invitation cancelled",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("cancelled_by", input.ActorID.String()))

	return nil
}

// ListGroupInvitations returns all invitations for a group. Requires
// invite rights.
func (s *InvitationService) ListGroupInvitations(ctx context.Context, actorID, groupID uuid.UUID) ([]InvitationDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
	}

	allowed, err := s.canInvite(ctx, group, actorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, shared.ErrForbidden
	}

	invs, err := s.invRepo.FindByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("Failed to list invitations", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list invitations")
	}

	return toInvitationDTOs(invs), nil
}

// ListMyInvitations returns the invitations addressed to the user's email
func (s *InvitationService) ListMyInvitations(ctx context.Context, userID uuid.UUID) ([]InvitationDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	invs, err := s.invRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		s.logger.Error("Failed to list invitations", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list invitations")
	}

	return toInvitationDTOs(invs), nil
}

// canInvite checks whether the actor may send invitations for the group
func (s *InvitationService) canInvite(ctx context.Context, group *accounts.LabGroup, actorID uuid.UUID) (bool, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return false, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if actor.IsStaff {
		return true, nil
	}

	perm, err := s.groupRepo.FindPermission(ctx, group.ID, actorID)
	if err == nil && perm != nil && (perm.CanManage || perm.CanInvite) {
		return true, nil
	}

	if !group.AllowMemberInvites {
		return false, nil
	}

	return s.groupRepo.IsDirectMember(ctx, group.ID, actorID)
}

func toInvitationDTOs(invs []*accounts.LabGroupInvitation) []InvitationDTO {
	dtos := make([]InvitationDTO, len(invs))
	for i, inv := range invs {
		dtos[i] = toInvitationDTO(inv)
	}
	return dtos
}

package accounts

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MergeService folds duplicate accounts into a primary one. Executing a
// merge moves the duplicate's group memberships, resource permissions and
// ORCID link to the primary account and deactivates the duplicate.
type MergeService struct {
	mergeRepo        accounts.MergeRequestRepository
	userRepo         accounts.UserRepository
	groupRepo        accounts.LabGroupRepository
	resourcePermRepo accounts.ResourcePermissionRepository
	orcidRepo        accounts.OrcidProfileRepository
	logger           *zap.Logger
}

// NewMergeService creates a new merge service
func NewMergeService(
	mergeRepo accounts.MergeRequestRepository,
	userRepo accounts.UserRepository,
	groupRepo accounts.LabGroupRepository,
	resourcePermRepo accounts.ResourcePermissionRepository,
	orcidRepo accounts.OrcidProfileRepository,
	logger *zap.Logger,
) *MergeService {
	return &MergeService{
		mergeRepo:        mergeRepo,
		userRepo:         userRepo,
		groupRepo:        groupRepo,
		resourcePermRepo: resourcePermRepo,
		orcidRepo:        orcidRepo,
		logger:           logger,
	}
}

// RequestMerge creates a pending merge request. Staff only.
func (s *MergeService) RequestMerge(ctx context.Context, input RequestMergeInput) (*MergeRequestDTO, error) {
	if err := s.requireStaff(ctx, input.ActorID); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, input.PrimaryUserID); err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Primary user not found")
	}
	duplicate, err := s.userRepo.FindByID(ctx, input.DuplicateUserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Duplicate user not found")
	}
	if duplicate.Status == accounts.UserStatusDeactivated {
		return nil, shared.NewDomainError("INVALID_MERGE", "Duplicate account is already deactivated")
	}

	req, err := accounts.NewAccountMergeRequest(input.PrimaryUserID, input.DuplicateUserID, input.ActorID, input.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.mergeRepo.Create(ctx, req); err != nil {
		s.logger.Error("Failed to create merge request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create merge request")
	}

	s.logger.Info("Merge request created",
		zap.String("request_id", req.ID.String()),
		zap.String("primary_user_id", input.PrimaryUserID.String()),
		zap.String("duplicate_user_id", input.DuplicateUserID.String()),
		zap.String("requested_by", input.ActorID.String()))

	dto := toMergeRequestDTO(req)
	return &dto, nil
}

// ReviewMerge approves or rejects a pending merge request. Staff only.
func (s *MergeService) ReviewMerge(ctx context.Context, input ReviewMergeInput) (*MergeRequestDTO, error) {
	if err := s.requireStaff(ctx, input.ActorID); err != nil {
		return nil, err
	}

	req, err := s.mergeRepo.FindByID(ctx, input.RequestID)
	if err != nil {
		return nil, shared.NewDomainError("MERGE_NOT_FOUND", "Merge request not found")
	}

	if input.Approve {
		err = req.Approve(input.ActorID)
	} else {
		err = req.Reject(input.ActorID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.mergeRepo.Update(ctx, req); err != nil {
		s.logger.Error("Failed to update merge request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update merge request")
	}

	s.logger.Info("Merge request reviewed",
		zap.String("request_id", req.ID.String()),
		zap.String("status", string(req.Status)),
		zap.String("reviewed_by", input.ActorID.String()))

	dto := toMergeRequestDTO(req)
	return &dto, nil
}

// ExecuteMerge runs an approved merge request. Staff only.
func (s *MergeService) ExecuteMerge(ctx context.Context, input ExecuteMergeInput) (*MergeRequestDTO, error) {
	if err := s.requireStaff(ctx, input.ActorID); err != nil {
		return nil, err
	}

	req, err := s.mergeRepo.FindByID(ctx, input.RequestID)
	if err != nil {
		return nil, shared.NewDomainError("MERGE_NOT_FOUND", "Merge request not found")
	}
	if req.Status != accounts.MergeApproved {
		return nil, shared.NewDomainError("INVALID_STATE", "Merge request must be approved before execution")
	}

	duplicate, err := s.userRepo.FindByID(ctx, req.DuplicateUserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Duplicate user not found")
	}

	// Move direct group memberships to the primary account.
	groupIDs, err := s.groupRepo.FindDirectMemberGroupIDs(ctx, req.DuplicateUserID)
	if err != nil {
		s.logger.Error("Failed to load duplicate memberships", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
	}
	for _, groupID := range groupIDs {
		isMember, err := s.groupRepo.IsDirectMember(ctx, groupID, req.PrimaryUserID)
		if err != nil {
			s.logger.Error("Failed to check primary membership", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
		}
		if !isMember {
			if err := s.groupRepo.AddMember(ctx, groupID, req.PrimaryUserID); err != nil {
				s.logger.Error("Failed to move membership", zap.Error(err))
				return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
			}
		}
		if err := s.groupRepo.RemoveMember(ctx, groupID, req.DuplicateUserID); err != nil {
			s.logger.Error("Failed to remove duplicate membership", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
		}
	}

	// Move per-resource permission grants.
	if err := s.resourcePermRepo.ReassignUser(ctx, req.DuplicateUserID, req.PrimaryUserID); err != nil {
		s.logger.Error("Failed to reassign resource permissions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
	}

	// Carry the duplicate's ORCID link over unless the primary already
	// has one of its own.
	if err := s.transferOrcidLink(ctx, req.DuplicateUserID, req.PrimaryUserID); err != nil {
		return nil, err
	}

	if duplicate.Status != accounts.UserStatusDeactivated {
		if err := duplicate.Deactivate(); err != nil {
			return nil, err
		}
		if err := s.userRepo.Update(ctx, duplicate); err != nil {
			s.logger.Error("Failed to deactivate duplicate account", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
		}
	}

	if err := req.Complete(); err != nil {
		return nil, err
	}
	if err := s.mergeRepo.Update(ctx, req); err != nil {
		s.logger.Error("Failed to complete merge request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
	}

	s.logger.Info("Accounts merged",
		zap.String("request_id", req.ID.String()),
		zap.String("primary_user_id", req.PrimaryUserID.String()),
		zap.String("duplicate_user_id", req.DuplicateUserID.String()),
		zap.Int("memberships_moved", len(groupIDs)),
		zap.String("executed_by", input.ActorID.String()))

	dto := toMergeRequestDTO(req)
	return &dto, nil
}

// ListPendingMerges returns all pending merge requests. Staff only.
func (s *MergeService) ListPendingMerges(ctx context.Context, actorID uuid.UUID) ([]MergeRequestDTO, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}

	reqs, err := s.mergeRepo.FindPending(ctx)
	if err != nil {
		s.logger.Error("Failed to list merge requests", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list merge requests")
	}

	dtos := make([]MergeRequestDTO, len(reqs))
	for i, req := range reqs {
		dtos[i] = toMergeRequestDTO(req)
	}
	return dtos, nil
}

// transferOrcidLink retargets the duplicate's ORCID profile at the primary
// account. The duplicate's link is always removed; it only carries over
// when the primary has no link of its own.
func (s *MergeService) transferOrcidLink(ctx context.Context, duplicateID, primaryID uuid.UUID) error {
	dupProfile, err := s.orcidRepo.FindByUserID(ctx, duplicateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		s.logger.Error("Failed to load duplicate ORCID link", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
	}

	if err := s.orcidRepo.Delete(ctx, dupProfile.ID); err != nil {
		s.logger.Error("Failed to remove duplicate ORCID link", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
	}

	_, err = s.orcidRepo.FindByUserID(ctx, primaryID)
	if err == nil {
		s.logger.Info("Duplicate ORCID link dropped, primary already linked",
			zap.String("duplicate_user_id", duplicateID.String()),
			zap.String("primary_user_id", primaryID.String()))
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load primary ORCID link", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
	}

	dupProfile.UserID = primaryID
	if err := s.orcidRepo.Save(ctx, dupProfile); err != nil {
		s.logger.Error("Failed to move ORCID link", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to execute merge")
	}

	s.logger.Info("ORCID link moved",
		zap.String("orcid_id", dupProfile.OrcidID),
		zap.String("duplicate_user_id", duplicateID.String()),
		zap.String("primary_user_id", primaryID.String()))
	return nil
}

func (s *MergeService) requireStaff(ctx context.Context, actorID uuid.UUID) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if !actor.IsStaff {
		return shared.ErrForbidden
	}
	return nil
}

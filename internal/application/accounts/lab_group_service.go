package accounts

import (
	"context"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LabGroupService handles lab group administration. Membership is
// hierarchical: a direct member of a sub-group counts as a member of
// every ancestor group. Administrative permission rows never bubble.
type LabGroupService struct {
	groupRepo accounts.LabGroupRepository
	userRepo  accounts.UserRepository
	logger    *zap.Logger
}

// NewLabGroupService creates a new lab group service
func NewLabGroupService(
	groupRepo accounts.LabGroupRepository,
	userRepo accounts.UserRepository,
	logger *zap.Logger,
) *LabGroupService {
	return &LabGroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// CreateLabGroup creates a group and grants the creator full rights on it
func (s *LabGroupService) CreateLabGroup(ctx context.Context, input CreateLabGroupInput) (*LabGroupDTO, error) {
	if _, err := s.userRepo.FindByID(ctx, input.ActorID); err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}

	group, err := accounts.NewLabGroup(input.Name, input.ActorID)
	if err != nil {
		return nil, err
	}

	group.SetDescription(input.Description)
	group.SetMemberInvites(input.AllowMemberInvites)
	group.SetProcessJobs(input.AllowProcessJobs)

	if input.ParentGroupID != nil {
		if _, err := s.groupRepo.FindByID(ctx, *input.ParentGroupID); err != nil {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Parent lab group not found")
		}
		if err := group.SetParent(input.ParentGroupID); err != nil {
			return nil, err
		}
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		s.logger.Error("Failed to create lab group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create lab group")
	}

	// The creator becomes a direct member with full rights.
	if err := s.groupRepo.AddMember(ctx, group.ID, input.ActorID); err != nil {
		s.logger.Error("Failed to add creator as member", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create lab group")
	}
	if err := s.groupRepo.SavePermission(ctx, accounts.NewCreatorPermission(group)); err != nil {
		s.logger.Error("Failed to grant creator permission", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create lab group")
	}

	s.logger.Info("Lab group created",
		zap.String("group_id", group.ID.String()),
		zap.String("name", group.Name),
		zap.String("created_by", input.ActorID.String()))

	dto := toLabGroupDTO(group)
	return &dto, nil
}

// GetLabGroup returns a group with its full hierarchy path
func (s *LabGroupService) GetLabGroup(ctx context.Context, groupID uuid.UUID) (*LabGroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
	}

	chain, err := s.groupRepo.FindAncestorChain(ctx, groupID)
	if err != nil {
		s.logger.Error("Failed to load ancestor chain", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load lab group hierarchy")
	}

	dto := toLabGroupDTO(group)
	dto.FullPath = accounts.FullPath(chain)
	dto.Depth = accounts.Depth(chain)
	return &dto, nil
}

// ListLabGroups returns a page of lab groups
func (s *LabGroupService) ListLabGroups(ctx context.Context, input ListLabGroupsInput) (*LabGroupListResult, error) {
	filter := accounts.NewLabGroupFilter().
		WithKeyword(input.Keyword).
		WithPagination(input.Page, input.PageSize)
	filter.RootsOnly = input.RootsOnly
	filter.ParentID = input.ParentID
	filter.MemberID = input.MemberID

	groups, total, err := s.groupRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list lab groups", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list lab groups")
	}

	dtos := make([]LabGroupDTO, len(groups))
	for i, group := range groups {
		dtos[i] = toLabGroupDTO(group)
	}

	return &LabGroupListResult{
		Groups:     dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages(total, filter.Limit()),
	}, nil
}

// UpdateLabGroup edits group settings. Requires manage rights.
func (s *LabGroupService) UpdateLabGroup(ctx context.Context, input UpdateLabGroupInput) (*LabGroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, input.GroupID)
	if err != nil {
		return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
	}

	if err := s.requireManage(ctx, group.ID, input.ActorID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := group.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		group.SetDescription(*input.Description)
	}
	if input.AllowMemberInvites != nil {
		group.SetMemberInvites(*input.AllowMemberInvites)
	}
	if input.AllowProcessJobs != nil {
		group.SetProcessJobs(*input.AllowProcessJobs)
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		s.logger.Error("Failed to update lab group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update lab group")
	}

	s.logger.Info("Lab group updated", zap.String("group_id", group.ID.String()))

	dto := toLabGroupDTO(group)
	return &dto, nil
}

// MoveLabGroup re-parents a group. The new parent must not be the group
// itself or any group in its subtree.
func (s *LabGroupService) MoveLabGroup(ctx context.Context, input MoveLabGroupInput) (*LabGroupDTO, error) {
	group, err := s.groupRepo.FindByID(ctx, input.GroupID)
	if err != nil {
		return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
	}

	if err := s.requireManage(ctx, group.ID, input.ActorID); err != nil {
		return nil, err
	}

	if input.ParentGroupID != nil {
		if _, err := s.groupRepo.FindByID(ctx, *input.ParentGroupID); err != nil {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Parent lab group not found")
		}

		descendants, err := s.groupRepo.FindDescendantIDs(ctx, group.ID)
		if err != nil {
			s.logger.Error("Failed to load descendants", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load lab group hierarchy")
		}
		for _, id := range descendants {
			if id == *input.ParentGroupID {
				return nil, shared.NewDomainError("INVALID_PARENT", "Cannot move a group under its own subtree")
			}
		}
	}

	if err := group.SetParent(input.ParentGroupID); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		s.logger.Error("Failed to move lab group", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to move lab group")
	}

	s.logger.Info("Lab group moved", zap.String("group_id", group.ID.String()))

	dto := toLabGroupDTO(group)
	return &dto, nil
}

// DeleteLabGroup removes a group. Groups with sub-groups cannot be
// deleted; re-parent or delete the children first.
func (s *LabGroupService) DeleteLabGroup(ctx context.Context, actorID, groupID uuid.UUID) error {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
	}

	if err := s.requireManage(ctx, group.ID, actorID); err != nil {
		return err
	}

	children, err := s.groupRepo.FindChildren(ctx, groupID)
	if err != nil {
		s.logger.Error("Failed to load children", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load lab group hierarchy")
	}
	if len(children) > 0 {
		return shared.NewDomainError("GROUP_HAS_CHILDREN", "Lab group has sub-groups and cannot be deleted")
	}

	if err := s.groupRepo.Delete(ctx, groupID); err != nil {
		s.logger.Error("Failed to delete lab group", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete lab group")
	}

	s.logger.Info("Lab group deleted",
		zap.String("group_id", groupID.String()),
		zap.String("deleted_by", actorID.String()))

	return nil
}

// AddMember adds a user as a direct member of a group
func (s *LabGroupService) AddMember(ctx context.Context, input MembershipInput) error {
	group, err := s.groupRepo.FindByID(ctx, input.GroupID)
	if err != nil {
		return shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
	}

	if err := s.requireManage(ctx, group.ID, input.ActorID); err != nil {
		return err
	}

	if _, err := s.userRepo.FindByID(ctx, input.UserID); err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	isMember, err := s.groupRepo.IsDirectMember(ctx, input.GroupID, input.UserID)
	if err != nil {
		s.logger.Error("Failed to check membership", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check membership")
	}
	if isMember {
		return shared.NewDomainError("ALREADY_MEMBER", "User is already a member of this group")
	}

	if err := s.groupRepo.AddMember(ctx, input.GroupID, input.UserID); err != nil {
		s.logger.Error("Failed to add member", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to add member")
	}

	s.logger.Info("Member added to lab group",
		zap.String("group_id", input.GroupID.String()),
		zap.String("user_id", input.UserID.String()),
		zap.String("added_by", input.ActorID.String()))

	return nil
}

// RemoveMember removes a direct membership. Members may remove
// themselves; removing others requires manage rights.
func (s *LabGroupService) RemoveMember(ctx context.Context, input MembershipInput) error {
	if input.ActorID != input.UserID {
		if err := s.requireManage(ctx, input.GroupID, input.ActorID); err != nil {
			return err
		}
	}

	isMember, err := s.groupRepo.IsDirectMember(ctx, input.GroupID, input.UserID)
	if err != nil {
		s.logger.Error("Failed to check membership", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check membership")
	}
	if !isMember {
		return shared.NewDomainError("NOT_MEMBER", "User is not a direct member of this group")
	}

	if err := s.groupRepo.RemoveMember(ctx, input.GroupID, input.UserID); err != nil {
		s.logger.Error("Failed to remove member", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to remove member")
	}

	s.logger.Info("Member removed from lab group",
		zap.String("group_id", input.GroupID.String()),
		zap.String("user_id", input.UserID.String()),
		zap.String("removed_by", input.ActorID.String()))

	return nil
}

// IsMemberOf reports whether the user belongs to the group, counting
// direct membership in the group or in any group of its subtree.
func (s *LabGroupService) IsMemberOf(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	descendants, err := s.groupRepo.FindDescendantIDs(ctx, groupID)
	if err != nil {
		s.logger.Error("Failed to load descendants", zap.Error(err))
		return false, shared.NewDomainError("INTERNAL_ERROR", "Failed to load lab group hierarchy")
	}

	return s.groupRepo.IsDirectMemberOfAny(ctx, descendants, userID)
}

// ListMembers returns the direct members of a group
func (s *LabGroupService) ListMembers(ctx context.Context, groupID uuid.UUID) ([]UserDTO, error) {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
	}

	memberIDs, err := s.groupRepo.FindMemberIDs(ctx, groupID)
	if err != nil {
		s.logger.Error("Failed to list members", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list members")
	}

	dtos := make([]UserDTO, 0, len(memberIDs))
	for _, id := range memberIDs {
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			// Memberships can outlive merged-away accounts.
			continue
		}
		dtos = append(dtos, toUserDTO(user))
	}

	return dtos, nil
}

// SetPermission grants or updates administrative rights on a group
func (s *LabGroupService) SetPermission(ctx context.Context, input SetGroupPermissionInput) error {
	group, err := s.groupRepo.FindByID(ctx, input.GroupID)
	if err != nil {
		return shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
	}

	if err := s.requireManage(ctx, group.ID, input.ActorID); err != nil {
		return err
	}

	if _, err := s.userRepo.FindByID(ctx, input.UserID); err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	perm := accounts.NewLabGroupPermission(input.GroupID, input.UserID)
	perm.CanView = input.CanView
	perm.CanInvite = input.CanInvite
	perm.CanManage = input.CanManage
	perm.CanProcessJobs = input.CanProcessJobs

	if err := s.groupRepo.SavePermission(ctx, perm); err != nil {
		s.logger.Error("Failed to save group permission", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to save permission")
	}

	s.logger.Info("Lab group permission set",
		zap.String("group_id", input.GroupID.String()),
		zap.String("user_id", input.UserID.String()),
		zap.Bool("can_manage", input.CanManage),
		zap.String("granted_by", input.ActorID.String()))

	return nil
}

// RemovePermission revokes administrative rights on a group
func (s *LabGroupService) RemovePermission(ctx context.Context, actorID, groupID, userID uuid.UUID) error {
	if err := s.requireManage(ctx, groupID, actorID); err != nil {
		return err
	}

	if err := s.groupRepo.DeletePermission(ctx, groupID, userID); err != nil {
		s.logger.Error("Failed to delete group permission", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete permission")
	}

	s.logger.Info("Lab group permission removed",
		zap.String("group_id", groupID.String()),
		zap.String("user_id", userID.String()),
		zap.String("revoked_by", actorID.String()))

	return nil
}

// requireManage checks that the actor is staff or holds can_manage on
// the group.
func (s *LabGroupService) requireManage(ctx context.Context, groupID, actorID uuid.UUID) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if actor.IsStaff {
		return nil
	}

	perm, err := s.groupRepo.FindPermission(ctx, groupID, actorID)
	if err != nil || perm == nil || !perm.CanManage {
		return shared.ErrForbidden
	}

	return nil
}

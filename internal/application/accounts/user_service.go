package accounts

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user administration operations
type UserService struct {
	userRepo       accounts.UserRepository
	siteConfigRepo accounts.SiteConfigRepository
	orcidRepo      accounts.OrcidProfileRepository
	logger         *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo accounts.UserRepository,
	siteConfigRepo accounts.SiteConfigRepository,
	orcidRepo accounts.OrcidProfileRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		siteConfigRepo: siteConfigRepo,
		orcidRepo:      orcidRepo,
		logger:         logger,
	}
}

// CreateUser registers a new account. Staff-created accounts are active
// immediately; self-registered accounts require open registration and
// start out pending.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	staffActor := false
	if input.ActorID != uuid.Nil {
		actor, err := s.userRepo.FindByID(ctx, input.ActorID)
		if err != nil {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
		}
		staffActor = actor.IsStaff
	}

	if !staffActor {
		cfg, err := s.siteConfigRepo.Get(ctx)
		if err != nil {
			s.logger.Error("Failed to load site config", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load site configuration")
		}
		if !cfg.AllowUserRegistration {
			return nil, shared.NewDomainError("REGISTRATION_CLOSED", "User registration is disabled")
		}
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Error("Failed to check username", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username availability")
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "Username is already taken")
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "Email is already registered")
	}

	var user *accounts.User
	if staffActor {
		user, err = accounts.NewActiveUser(input.Username, input.Email, input.Password)
	} else {
		user, err = accounts.NewUser(input.Username, input.Email, input.Password)
	}
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" || input.LastName != "" {
		if err := user.SetName(input.FirstName, input.LastName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Bool("staff_created", staffActor))

	dto := toUserDTO(user)
	return &dto, nil
}

// GetUser returns a single user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// ListUsers returns a page of users. Only staff may list accounts.
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) (*UserListResult, error) {
	actor, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if !actor.IsStaff {
		return nil, shared.ErrForbidden
	}

	filter := accounts.NewUserFilter().
		WithKeyword(input.Keyword).
		WithPagination(input.Page, input.PageSize)
	filter.Status = input.Status
	filter.IsStaff = input.IsStaff
	filter.LabGroupID = input.LabGroupID

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = toUserDTO(user)
	}

	return &UserListResult{
		Users:      dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages(total, filter.Limit()),
	}, nil
}

// UpdateUser edits profile fields. Users may edit themselves; staff may
// edit anyone.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if actor.ID != input.UserID && !actor.IsStaff {
		return nil, shared.ErrForbidden
	}

	user := actor
	if actor.ID != input.UserID {
		user, err = s.userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			s.logger.Error("Failed to check email", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
		}
		if exists {
			return nil, shared.NewDomainError("EMAIL_EXISTS", "Email is already registered")
		}
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}

	if input.FirstName != nil || input.LastName != nil {
		firstName := user.FirstName
		lastName := user.LastName
		if input.FirstName != nil {
			firstName = *input.FirstName
		}
		if input.LastName != nil {
			lastName = *input.LastName
		}
		if err := user.SetName(firstName, lastName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.logger.Info("User updated", zap.String("user_id", user.ID.String()))

	dto := toUserDTO(user)
	return &dto, nil
}

// SetUserFlags grants or revokes the staff and superuser flags.
// Only superusers may change them.
func (s *UserService) SetUserFlags(ctx context.Context, input SetUserFlagsInput) (*UserDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if !actor.IsSuperuser {
		return nil, shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if input.IsStaff != nil {
		user.SetStaff(*input.IsStaff)
	}
	if input.IsSuperuser != nil {
		user.SetSuperuser(*input.IsSuperuser)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user flags", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.logger.Info("User flags changed",
		zap.String("user_id", user.ID.String()),
		zap.Bool("is_staff", user.IsStaff),
		zap.Bool("is_superuser", user.IsSuperuser),
		zap.String("changed_by", actor.ID.String()))

	dto := toUserDTO(user)
	return &dto, nil
}

// SetUserStatus activates or deactivates an account. Only staff may
// change account status, and staff cannot deactivate themselves.
func (s *UserService) SetUserStatus(ctx context.Context, input SetUserStatusInput) (*UserDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if !actor.IsStaff {
		return nil, shared.ErrForbidden
	}
	if !input.Active && input.ActorID == input.UserID {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if input.Active {
		err = user.Activate()
	} else {
		err = user.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.logger.Info("User status changed",
		zap.String("user_id", user.ID.String()),
		zap.String("status", string(user.Status)),
		zap.String("changed_by", actor.ID.String()))

	dto := toUserDTO(user)
	return &dto, nil
}

// ResetPassword sets a new password without the old one. Staff only.
func (s *UserService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	actor, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if !actor.IsStaff {
		return shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to reset password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("Password reset",
		zap.String("user_id", user.ID.String()),
		zap.String("reset_by", actor.ID.String()))

	return nil
}

// LinkOrcid attaches an ORCID iD to an account. Users may link their own
// account; staff may link anyone's. Re-linking replaces the existing link
// and clears its verified state. ORCID login must be enabled site-wide.
func (s *UserService) LinkOrcid(ctx context.Context, input LinkOrcidInput) (*OrcidProfileDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if actor.ID != input.UserID && !actor.IsStaff {
		return nil, shared.ErrForbidden
	}

	cfg, err := s.siteConfigRepo.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to load site config", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load site configuration")
	}
	if !cfg.EnableOrcidLogin {
		return nil, shared.NewDomainError("ORCID_DISABLED", "ORCID integration is disabled")
	}

	if _, err := s.userRepo.FindByID(ctx, input.UserID); err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	profile, err := accounts.NewUserOrcidProfile(input.UserID, input.OrcidID)
	if err != nil {
		return nil, err
	}

	// An ORCID iD can only be held by one account
	existing, err := s.orcidRepo.FindByOrcidID(ctx, input.OrcidID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check ORCID iD", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to link ORCID iD")
	}
	if existing != nil && existing.UserID != input.UserID {
		return nil, shared.NewDomainError("ORCID_TAKEN", "ORCID iD is linked to another account")
	}

	if err := s.orcidRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to save ORCID link", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to link ORCID iD")
	}

	s.logger.Info("ORCID iD linked",
		zap.String("user_id", input.UserID.String()),
		zap.String("orcid_id", profile.OrcidID),
		zap.String("linked_by", actor.ID.String()))

	dto := toOrcidProfileDTO(profile)
	return &dto, nil
}

// UnlinkOrcid removes a user's ORCID link. Users may unlink their own
// account; staff may unlink anyone's.
func (s *UserService) UnlinkOrcid(ctx context.Context, actorID, userID uuid.UUID) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if actor.ID != userID && !actor.IsStaff {
		return shared.ErrForbidden
	}

	profile, err := s.orcidRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("ORCID_NOT_LINKED", "No ORCID iD is linked to this account")
		}
		s.logger.Error("Failed to load ORCID link", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unlink ORCID iD")
	}

	if err := s.orcidRepo.Delete(ctx, profile.ID); err != nil {
		s.logger.Error("Failed to delete ORCID link", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unlink ORCID iD")
	}

	s.logger.Info("ORCID iD unlinked",
		zap.String("user_id", userID.String()),
		zap.String("unlinked_by", actorID.String()))

	return nil
}

// VerifyOrcid records a completed ORCID verification round-trip. Staff only.
func (s *UserService) VerifyOrcid(ctx context.Context, actorID, userID uuid.UUID) (*OrcidProfileDTO, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if !actor.IsStaff {
		return nil, shared.ErrForbidden
	}

	profile, err := s.orcidRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORCID_NOT_LINKED", "No ORCID iD is linked to this account")
		}
		s.logger.Error("Failed to load ORCID link", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify ORCID iD")
	}

	profile.MarkVerified()
	if err := s.orcidRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to save ORCID verification", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify ORCID iD")
	}

	s.logger.Info("ORCID iD verified",
		zap.String("user_id", userID.String()),
		zap.String("orcid_id", profile.OrcidID),
		zap.String("verified_by", actorID.String()))

	dto := toOrcidProfileDTO(profile)
	return &dto, nil
}

// GetOrcidProfile returns the ORCID link for a user
func (s *UserService) GetOrcidProfile(ctx context.Context, userID uuid.UUID) (*OrcidProfileDTO, error) {
	profile, err := s.orcidRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ORCID_NOT_LINKED", "No ORCID iD is linked to this account")
		}
		s.logger.Error("Failed to load ORCID link", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load ORCID link")
	}

	dto := toOrcidProfileDTO(profile)
	return &dto, nil
}

// UnlockUser clears a login lockout ahead of its expiry. Staff only.
func (s *UserService) UnlockUser(ctx context.Context, actorID, userID uuid.UUID) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}
	if !actor.IsStaff {
		return shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.Unlock(); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to unlock user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unlock user")
	}

	s.logger.Info("User unlocked",
		zap.String("user_id", userID.String()),
		zap.String("unlocked_by", actorID.String()))

	return nil
}

package accounts

import (
	"time"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	Email       string
	FirstName   string
	LastName    string
	FullName    string
	IsStaff     bool
	IsSuperuser bool
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// VerifyTokenInput contains the input for token verification
type VerifyTokenInput struct {
	AccessToken string
}

// VerifyTokenResult contains the decoded identity of a valid token
type VerifyTokenResult struct {
	UserID      uuid.UUID
	Username    string
	IsStaff     bool
	IsSuperuser bool
	ExpiresAt   time.Time
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	AccessToken string
}

// ForceLogoutInput invalidates every session of a target user
type ForceLogoutInput struct {
	StaffUserID  uuid.UUID // Staff member performing the action
	TargetUserID uuid.UUID
	Reason       string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// GetCurrentUserInput contains the input for getting current user info
type GetCurrentUserInput struct {
	UserID uuid.UUID
}

// CurrentUserResult contains the current user's information
type CurrentUserResult struct {
	User        UserInfo
	LabGroupIDs []uuid.UUID
}

// CreateUserInput contains the input for user registration
type CreateUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string

	// ActorID is the staff member creating the account, or uuid.Nil for
	// open self-registration.
	ActorID uuid.UUID
}

// UpdateUserInput contains the input for profile updates
type UpdateUserInput struct {
	ActorID   uuid.UUID
	UserID    uuid.UUID
	Email     *string
	FirstName *string
	LastName  *string
}

// SetUserFlagsInput grants or revokes staff and superuser flags
type SetUserFlagsInput struct {
	ActorID     uuid.UUID
	UserID      uuid.UUID
	IsStaff     *bool
	IsSuperuser *bool
}

// SetUserStatusInput activates or deactivates an account
type SetUserStatusInput struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	Active  bool
}

// ResetPasswordInput contains the input for a staff password reset
type ResetPasswordInput struct {
	ActorID     uuid.UUID
	UserID      uuid.UUID
	NewPassword string
}

// ListUsersInput contains filters for listing users
type ListUsersInput struct {
	ActorID    uuid.UUID
	Keyword    string
	Status     *accounts.UserStatus
	IsStaff    *bool
	LabGroupID *uuid.UUID
	Page       int
	PageSize   int
}

// UserDTO is the transferable representation of a user
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserListResult contains a page of users
type UserListResult struct {
	Users      []UserDTO `json:"users"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// LinkOrcidInput links an ORCID iD to an account
type LinkOrcidInput struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	OrcidID string
}

// OrcidProfileDTO is the transferable representation of an ORCID link
type OrcidProfileDTO struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	OrcidID    string     `json:"orcid_id"`
	Verified   bool       `json:"verified"`
	LinkedAt   time.Time  `json:"linked_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// CreateLabGroupInput contains the input for lab group creation
type CreateLabGroupInput struct {
	ActorID            uuid.UUID
	Name               string
	Description        string
	ParentGroupID      *uuid.UUID
	AllowMemberInvites bool
	AllowProcessJobs   bool
}

// UpdateLabGroupInput contains the input for lab group updates
type UpdateLabGroupInput struct {
	ActorID            uuid.UUID
	GroupID            uuid.UUID
	Name               *string
	Description        *string
	AllowMemberInvites *bool
	AllowProcessJobs   *bool
}

// MoveLabGroupInput re-parents a group within the hierarchy
type MoveLabGroupInput struct {
	ActorID       uuid.UUID
	GroupID       uuid.UUID
	ParentGroupID *uuid.UUID // nil detaches the group to the root level
}

// ListLabGroupsInput contains filters for listing lab groups
type ListLabGroupsInput struct {
	Keyword   string
	RootsOnly bool
	ParentID  *uuid.UUID
	MemberID  *uuid.UUID
	Page      int
	PageSize  int
}

// LabGroupDTO is the transferable representation of a lab group
type LabGroupDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	ParentGroupID      *uuid.UUID `json:"parent_group_id,omitempty"`
	CreatedBy          uuid.UUID  `json:"created_by"`
	AllowMemberInvites bool       `json:"allow_member_invites"`
	AllowProcessJobs   bool       `json:"allow_process_jobs"`
	FullPath           string     `json:"full_path,omitempty"`
	Depth              int        `json:"depth"`
	CreatedAt          time.Time  `json:"created_at"`
}

// LabGroupListResult contains a page of lab groups
type LabGroupListResult struct {
	Groups     []LabGroupDTO `json:"lab_groups"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// MembershipInput adds or removes a direct group member
type MembershipInput struct {
	ActorID uuid.UUID
	GroupID uuid.UUID
	UserID  uuid.UUID
}

// SetGroupPermissionInput grants administrative rights on a group
type SetGroupPermissionInput struct {
	ActorID        uuid.UUID
	GroupID        uuid.UUID
	UserID         uuid.UUID
	CanView        bool
	CanInvite      bool
	CanManage      bool
	CanProcessJobs bool
}

// CreateInvitationInput contains the input for inviting a user to a group
type CreateInvitationInput struct {
	ActorID uuid.UUID
	GroupID uuid.UUID
	Email   string
	Message string
}

// RespondInvitationInput accepts or rejects an invitation by token
type RespondInvitationInput struct {
	UserID uuid.UUID
	Token  string
}

// CancelInvitationInput withdraws a pending invitation
type CancelInvitationInput struct {
	ActorID      uuid.UUID
	InvitationID uuid.UUID
}

// InvitationDTO is the transferable representation of an invitation
type InvitationDTO struct {
	ID           uuid.UUID  `json:"id"`
	LabGroupID   uuid.UUID  `json:"lab_group_id"`
	InviterID    uuid.UUID  `json:"inviter_id"`
	InvitedEmail string     `json:"invited_email"`
	Status       string     `json:"status"`
	Message      string     `json:"message,omitempty"`
	ExpiresAt    time.Time  `json:"expires_at"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SiteConfigDTO is the transferable representation of the site configuration
type SiteConfigDTO struct {
	SiteName                     string    `json:"site_name"`
	PrimaryColor                 string    `json:"primary_color"`
	AllowUserRegistration        bool      `json:"allow_user_registration"`
	EnableOrcidLogin             bool      `json:"enable_orcid_login"`
	ShowPoweredBy                bool      `json:"show_powered_by"`
	BookingDeletionWindowMinutes int       `json:"booking_deletion_window_minutes"`
	UpdatedBy                    string    `json:"updated_by,omitempty"`
	UpdatedAt                    time.Time `json:"updated_at"`
}

// UpdateSiteConfigInput contains staff edits to the site configuration
type UpdateSiteConfigInput struct {
	ActorID               uuid.UUID
	SiteName              *string
	PrimaryColor          *string
	AllowUserRegistration *bool
	EnableOrcidLogin      *bool
	ShowPoweredBy         *bool
	BookingDeletionWindow *int
}

// RequestMergeInput asks for a duplicate account to be merged away
type RequestMergeInput struct {
	ActorID         uuid.UUID
	PrimaryUserID   uuid.UUID
	DuplicateUserID uuid.UUID
	Reason          string
}

// ReviewMergeInput approves or rejects a pending merge request
type ReviewMergeInput struct {
	ActorID   uuid.UUID
	RequestID uuid.UUID
	Approve   bool
}

// ExecuteMergeInput runs an approved merge
type ExecuteMergeInput struct {
	ActorID   uuid.UUID
	RequestID uuid.UUID
}

// MergeRequestDTO is the transferable representation of a merge request
type MergeRequestDTO struct {
	ID              uuid.UUID  `json:"id"`
	PrimaryUserID   uuid.UUID  `json:"primary_user_id"`
	DuplicateUserID uuid.UUID  `json:"duplicate_user_id"`
	RequestedBy     uuid.UUID  `json:"requested_by"`
	Reason          string     `json:"reason,omitempty"`
	Status          string     `json:"status"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toUserInfo(user *accounts.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		FullName:    user.FullName(),
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}

func toUserDTO(user *accounts.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		FullName:    user.FullName(),
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

func toOrcidProfileDTO(profile *accounts.UserOrcidProfile) OrcidProfileDTO {
	return OrcidProfileDTO{
		ID:         profile.ID,
		UserID:     profile.UserID,
		OrcidID:    profile.OrcidID,
		Verified:   profile.Verified,
		LinkedAt:   profile.LinkedAt,
		VerifiedAt: profile.VerifiedAt,
	}
}

func toLabGroupDTO(group *accounts.LabGroup) LabGroupDTO {
	return LabGroupDTO{
		ID:                 group.ID,
		Name:               group.Name,
		Description:        group.Description,
		ParentGroupID:      group.ParentGroupID,
		CreatedBy:          group.CreatedBy,
		AllowMemberInvites: group.AllowMemberInvites,
		AllowProcessJobs:   group.AllowProcessJobs,
		CreatedAt:          group.CreatedAt,
	}
}

func toInvitationDTO(inv *accounts.LabGroupInvitation) InvitationDTO {
	return InvitationDTO{
		ID:           inv.ID,
		LabGroupID:   inv.LabGroupID,
		InviterID:    inv.InviterID,
		InvitedEmail: inv.InvitedEmail,
		Status:       string(inv.Status),
		Message:      inv.Message,
		ExpiresAt:    inv.ExpiresAt,
		RespondedAt:  inv.RespondedAt,
		CreatedAt:    inv.CreatedAt,
	}
}

func toSiteConfigDTO(cfg *accounts.SiteConfig) SiteConfigDTO {
	return SiteConfigDTO{
		SiteName:                     cfg.SiteName,
		PrimaryColor:                 cfg.PrimaryColor,
		AllowUserRegistration:        cfg.AllowUserRegistration,
		EnableOrcidLogin:             cfg.EnableOrcidLogin,
		ShowPoweredBy:                cfg.ShowPoweredBy,
		BookingDeletionWindowMinutes: cfg.BookingDeletionWindowMinutes,
		UpdatedBy:                    cfg.UpdatedBy,
		UpdatedAt:                    cfg.UpdatedAt,
	}
}

func toMergeRequestDTO(req *accounts.AccountMergeRequest) MergeRequestDTO {
	return MergeRequestDTO{
		ID:              req.ID,
		PrimaryUserID:   req.PrimaryUserID,
		DuplicateUserID: req.DuplicateUserID,
		RequestedBy:     req.RequestedBy,
		Reason:          req.Reason,
		Status:          string(req.Status),
		ReviewedBy:      req.ReviewedBy,
		ReviewedAt:      req.ReviewedAt,
		CompletedAt:     req.CompletedAt,
		CreatedAt:       req.CreatedAt,
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}

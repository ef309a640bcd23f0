package handler

import (
	accountsapp "github.com/cupcake/backend/internal/application/accounts"
	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles user administration endpoints
type UserHandler struct {
	BaseHandler
	userService *accountsapp.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *accountsapp.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterUserRequest represents a self-registration request
type RegisterUserRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
}

// UpdateUserRequest represents a profile update request
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
}

// SetUserFlagsRequest grants or revokes staff and superuser flags
type SetUserFlagsRequest struct {
	IsStaff     *bool `json:"is_staff"`
	IsSuperuser *bool `json:"is_superuser"`
}

// SetUserStatusRequest activates or deactivates an account
type SetUserStatusRequest struct {
	Active bool `json:"active"`
}

// ResetPasswordRequest represents a staff password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// ListUsersQuery contains user list filters
type ListUsersQuery struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=pending active inactive"`
	IsStaff    *bool  `form:"is_staff"`
	LabGroupID string `form:"lab_group_id" binding:"omitempty,uuid"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size" binding:"omitempty,max=100"`
}

// LinkOrcidRequest attaches an ORCID iD to an account
type LinkOrcidRequest struct {
	OrcidID string `json:"orcid_id" binding:"required,max=19"`
}

// Register creates a new account. Open registration is gated by the site
// configuration; staff can always create accounts.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// Anonymous self-registration carries a nil actor
	actorID, _ := getUserID(c)

	user, err := h.userService.CreateUser(c.Request.Context(), accountsapp.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ActorID:   actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// GetByID returns a single user
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// List returns a filtered page of users
func (h *UserHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := accountsapp.ListUsersInput{
		ActorID:  actorID,
		Keyword:  query.Search,
		IsStaff:  query.IsStaff,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status := accounts.UserStatus(query.Status)
		input.Status = &status
	}
	if query.LabGroupID != "" {
		groupID, err := uuid.Parse(query.LabGroupID)
		if err != nil {
			h.BadRequest(c, "Invalid lab group ID format")
			return
		}
		input.LabGroupID = &groupID
	}
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 {
		input.PageSize = 20
	}

	result, err := h.userService.ListUsers(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Users, result.Total, result.Page, result.PageSize)
}

// Update edits a user's profile. Users may edit themselves; staff may edit
// anyone.
func (h *UserHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), accountsapp.UpdateUserInput{
		ActorID:   actorID,
		UserID:    userID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// SetFlags grants or revokes the staff and superuser flags (superuser only)
func (h *UserHandler) SetFlags(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req SetUserFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.SetUserFlags(c.Request.Context(), accountsapp.SetUserFlagsInput{
		ActorID:     actorID,
		UserID:      userID,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// SetStatus activates or deactivates an account (staff only)
func (h *UserHandler) SetStatus(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.SetUserStatus(c.Request.Context(), accountsapp.SetUserStatusInput{
		ActorID: actorID,
		UserID:  userID,
		Active:  req.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ResetPassword sets a new password for a user (staff only)
func (h *UserHandler) ResetPassword(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	err = h.userService.ResetPassword(c.Request.Context(), accountsapp.ResetPasswordInput{
		ActorID:     actorID,
		UserID:      userID,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password reset successfully"})
}

// GetOrcid returns the ORCID link for a user
func (h *UserHandler) GetOrcid(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	profile, err := h.userService.GetOrcidProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// LinkOrcid attaches an ORCID iD to an account (self or staff)
func (h *UserHandler) LinkOrcid(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req LinkOrcidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	profile, err := h.userService.LinkOrcid(c.Request.Context(), accountsapp.LinkOrcidInput{
		ActorID: actorID,
		UserID:  userID,
		OrcidID: req.OrcidID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// UnlinkOrcid removes a user's ORCID link (self or staff)
func (h *UserHandler) UnlinkOrcid(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.userService.UnlinkOrcid(c.Request.Context(), actorID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// VerifyOrcid marks a user's ORCID link as verified (staff only)
func (h *UserHandler) VerifyOrcid(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	profile, err := h.userService.VerifyOrcid(c.Request.Context(), actorID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// Unlock clears a login lockout (staff only)
func (h *UserHandler) Unlock(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.userService.UnlockUser(c.Request.Context(), actorID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Account unlocked"})
}

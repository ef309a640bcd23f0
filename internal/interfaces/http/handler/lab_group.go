package handler

import (
	accountsapp "github.com/cupcake/backend/internal/application/accounts"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LabGroupHandler handles lab group endpoints
type LabGroupHandler struct {
	BaseHandler
	labGroupService *accountsapp.LabGroupService
}

// NewLabGroupHandler creates a new lab group handler
func NewLabGroupHandler(labGroupService *accountsapp.LabGroupService) *LabGroupHandler {
	return &LabGroupHandler{
		labGroupService: labGroupService,
	}
}

// CreateLabGroupRequest represents a lab group creation request
type CreateLabGroupRequest struct {
	Name               string  `json:"name" binding:"required,min=1,max=255"`
	Description        string  `json:"description" binding:"max=1000"`
	ParentGroupID      *string `json:"parent_group_id" binding:"omitempty,uuid"`
	AllowMemberInvites bool    `json:"allow_member_invites"`
	AllowProcessJobs   bool    `json:"allow_process_jobs"`
}

// UpdateLabGroupRequest represents a lab group update request
type UpdateLabGroupRequest struct {
	Name               *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description        *string `json:"description" binding:"omitempty,max=1000"`
	AllowMemberInvites *bool   `json:"allow_member_invites"`
	AllowProcessJobs   *bool   `json:"allow_process_jobs"`
}

// MoveLabGroupRequest re-parents a group; a null parent detaches it to root
type MoveLabGroupRequest struct {
	ParentGroupID *string `json:"parent_group_id" binding:"omitempty,uuid"`
}

// MembershipRequest names the user in a membership operation
type MembershipRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// SetGroupPermissionRequest grants administrative rights on a group
type SetGroupPermissionRequest struct {
	UserID         string `json:"user_id" binding:"required,uuid"`
	CanView        bool   `json:"can_view"`
	CanInvite      bool   `json:"can_invite"`
	CanManage      bool   `json:"can_manage"`
	CanProcessJobs bool   `json:"can_process_jobs"`
}

// ListLabGroupsQuery contains lab group list filters
type ListLabGroupsQuery struct {
	Search    string `form:"search"`
	RootsOnly bool   `form:"roots_only"`
	ParentID  string `form:"parent_id" binding:"omitempty,uuid"`
	MemberID  string `form:"member_id" binding:"omitempty,uuid"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"omitempty,max=100"`
}

// Create creates a lab group, optionally under a parent group
func (h *LabGroupHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateLabGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := accountsapp.CreateLabGroupInput{
		ActorID:            actorID,
		Name:               req.Name,
		Description:        req.Description,
		AllowMemberInvites: req.AllowMemberInvites,
		AllowProcessJobs:   req.AllowProcessJobs,
	}
	if req.ParentGroupID != nil {
		parentID, err := uuid.Parse(*req.ParentGroupID)
		if err != nil {
			h.BadRequest(c, "Invalid parent group ID format")
			return
		}
		input.ParentGroupID = &parentID
	}

	group, err := h.labGroupService.CreateLabGroup(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// GetByID returns a single lab group with its hierarchy path
func (h *LabGroupHandler) GetByID(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lab group ID format")
		return
	}

	group, err := h.labGroupService.GetLabGroup(c.Request.Context(), groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// List returns a filtered page of lab groups
func (h *LabGroupHandler) List(c *gin.Context) {
	var query ListLabGroupsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := accountsapp.ListLabGroupsInput{
		Keyword:   query.Search,
		RootsOnly: query.RootsOnly,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if query.ParentID != "" {
		parentID, err := uuid.Parse(query.ParentID)
		if err != nil {
			h.BadRequest(c, "Invalid parent ID format")
			return
		}
		input.ParentID = &parentID
	}
	if query.MemberID != "" {
		memberID, err := uuid.Parse(query.MemberID)
		if err != nil {
			h.BadRequest(c, "Invalid member ID format")
			return
		}
		input.MemberID = &memberID
	}
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 {
		input.PageSize = 20
	}

	result, err := h.labGroupService.ListLabGroups(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Groups, result.Total, result.Page, result.PageSize)
}

// Update edits a lab group's details
func (h *LabGroupHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lab group ID format")
		return
	}

	var req UpdateLabGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.labGroupService.UpdateLabGroup(c.Request.Context(), accountsapp.UpdateLabGroupInput{
		ActorID:            actorID,
		GroupID:            groupID,
		Name:               req.Name,
		Description:        req.Description,
		AllowMemberInvites: req.AllowMemberInvites,
		AllowProcessJobs:   req.AllowProcessJobs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Move re-parents a lab group within the hierarchy
func (h *LabGroupHandler) Move(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lab group ID format")
		return
	}

	var req MoveLabGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := accountsapp.MoveLabGroupInput{
		ActorID: actorID,
		GroupID: groupID,
	}
	if req.ParentGroupID != nil {
		parentID, err := uuid.Parse(*req.ParentGroupID)
		if err != nil {
			h.BadRequest(c, "Invalid parent group ID format")
			return
		}
		input.ParentGroupID = &parentID
	}

	group, err := h.labGroupService.MoveLabGroup(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Delete removes a lab group
func (h *LabGroupHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lab group ID format")
		return
	}

	if err := h.labGroupService.DeleteLabGroup(c.Request.Context(), actorID, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddMember adds a direct member to a lab group
func (h *LabGroupHandler) AddMember(c *gin.Context) {
	input, ok := h.bindMembership(c)
	if !ok {
		return
	}

	if err := h.labGroupService.AddMember(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Member added"})
}

// RemoveMember removes a direct member from a lab group
func (h *LabGroupHandler) RemoveMember(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lab group ID format")
		return
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	err = h.labGroupService.RemoveMember(c.Request.Context(), accountsapp.MembershipInput{
		ActorID: actorID,
		GroupID: groupID,
		UserID:  userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListMembers lists a lab group's direct members
func (h *LabGroupHandler) ListMembers(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lab group ID format")
		return
	}

	members, err := h.labGroupService.ListMembers(c.Request.Context(), groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, members)
}

// SetPermission grants administrative rights on a lab group
func (h *LabGroupHandler) SetPermission(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lab group ID format")
		return
	}

	var req SetGroupPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	err = h.labGroupService.SetPermission(c.Request.Context(), accountsapp.SetGroupPermissionInput{
		ActorID:        actorID,
		GroupID:        groupID,
		UserID:         userID,
		CanView:        req.CanView,
		CanInvite:      req.CanInvite,
		CanManage:      req.CanManage,
		CanProcessJobs: req.CanProcessJobs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Permission saved"})
}

// RemovePermission revokes a user's administrative rights on a lab group
func (h *LabGroupHandler) RemovePermission(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lab group ID format")
		return
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.labGroupService.RemovePermission(c.Request.Context(), actorID, groupID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *LabGroupHandler) bindMembership(c *gin.Context) (accountsapp.MembershipInput, bool) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return accountsapp.MembershipInput{}, false
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lab group ID format")
		return accountsapp.MembershipInput{}, false
	}

	var req MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return accountsapp.MembershipInput{}, false
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return accountsapp.MembershipInput{}, false
	}

	return accountsapp.MembershipInput{
		ActorID: actorID,
		GroupID: groupID,
		UserID:  userID,
	}, true
}

package handler

import (
	"context"

	accountsapp "github.com/cupcake/backend/internal/application/accounts"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvitationHandler handles lab group invitation endpoints
type InvitationHandler struct {
	BaseHandler
	invitationService *accountsapp.InvitationService
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitationService *accountsapp.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// CreateInvitationRequest invites an email address into a lab group
type CreateInvitationRequest struct {
	LabGroupID string `json:"lab_group_id" binding:"required,uuid"`
	Email      string `json:"email" binding:"required,email,max=254"`
	Message    string `json:"message" binding:"max=1000"`
}

// Create issues an invitation to join a lab group
func (h *InvitationHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	groupID, err := uuid.Parse(req.LabGroupID)
	if err != nil {
		h.BadRequest(c, "Invalid lab group ID format")
		return
	}

	invitation, err := h.invitationService.CreateInvitation(c.Request.Context(), accountsapp.CreateInvitationInput{
		ActorID: actorID,
		GroupID: groupID,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invitation)
}

// Accept accepts an invitation by its token
func (h *InvitationHandler) Accept(c *gin.Context) {
	h.respond(c, h.invitationService.AcceptInvitation)
}

// Reject declines an invitation by its token
func (h *InvitationHandler) Reject(c *gin.Context) {
	h.respond(c, h.invitationService.RejectInvitation)
}

// Cancel withdraws a pending invitation
func (h *InvitationHandler) Cancel(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invitation ID format")
		return
	}

	err = h.invitationService.CancelInvitation(c.Request.Context(), accountsapp.CancelInvitationInput{
		ActorID:      actorID,
		InvitationID: invitationID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListForGroup lists a lab group's invitations
func (h *InvitationHandler) ListForGroup(c *gin.Context) {
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

	invitations, err := h.invitationService.ListGroupInvitations(c.Request.Context(), actorID, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invitations)
}

// ListMine lists invitations addressed to the caller's email
func (h *InvitationHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invitations, err := h.invitationService.ListMyInvitations(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invitations)
}

func (h *InvitationHandler) respond(
	c *gin.Context,
	fn func(ctx context.Context, input accountsapp.RespondInvitationInput) (*accountsapp.InvitationDTO, error),
) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	token := c.Param("token")
	if token == "" {
		h.BadRequest(c, "Invitation token is required")
		return
	}

	invitation, err := fn(c.Request.Context(), accountsapp.RespondInvitationInput{
		UserID: userID,
		Token:  token,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invitation)
}

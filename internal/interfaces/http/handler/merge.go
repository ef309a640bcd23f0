package handler

import (
	accountsapp "github.com/cupcake/backend/internal/application/accounts"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MergeHandler handles account merge request endpoints
type MergeHandler struct {
	BaseHandler
	mergeService *accountsapp.MergeService
}

// NewMergeHandler creates a new merge handler
func NewMergeHandler(mergeService *accountsapp.MergeService) *MergeHandler {
	return &MergeHandler{
		mergeService: mergeService,
	}
}

// RequestMergeRequest asks for a duplicate account to be merged away
type RequestMergeRequest struct {
	PrimaryUserID   string `json:"primary_user_id" binding:"required,uuid"`
	DuplicateUserID string `json:"duplicate_user_id" binding:"required,uuid"`
	Reason          string `json:"reason" binding:"max=1000"`
}

// ReviewMergeRequest approves or rejects a pending merge request
type ReviewMergeRequest struct {
	Approve bool `json:"approve"`
}

// Request files a new account merge request
func (h *MergeHandler) Request(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RequestMergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	primaryID, err := uuid.Parse(req.PrimaryUserID)
	if err != nil {
		h.BadRequest(c, "Invalid primary user ID format")
		return
	}
	duplicateID, err := uuid.Parse(req.DuplicateUserID)
	if err != nil {
		h.BadRequest(c, "Invalid duplicate user ID format")
		return
	}

	merge, err := h.mergeService.RequestMerge(c.Request.Context(), accountsapp.RequestMergeInput{
		ActorID:         actorID,
		PrimaryUserID:   primaryID,
		DuplicateUserID: duplicateID,
		Reason:          req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, merge)
}

// Review approves or rejects a pending merge request (staff only)
func (h *MergeHandler) Review(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid merge request ID format")
		return
	}

	var req ReviewMergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	merge, err := h.mergeService.ReviewMerge(c.Request.Context(), accountsapp.ReviewMergeInput{
		ActorID:   actorID,
		RequestID: requestID,
		Approve:   req.Approve,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, merge)
}

// Execute runs an approved merge (staff only)
func (h *MergeHandler) Execute(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid merge request ID format")
		return
	}

	merge, err := h.mergeService.ExecuteMerge(c.Request.Context(), accountsapp.ExecuteMergeInput{
		ActorID:   actorID,
		RequestID: requestID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, merge)
}

// ListPending lists merge requests awaiting review (staff only)
func (h *MergeHandler) ListPending(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	merges, err := h.mergeService.ListPendingMerges(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, merges)
}

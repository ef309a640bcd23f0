package handler

import (
	instrumentsapp "github.com/cupcake/backend/internal/application/instruments"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InstrumentHandler handles instrument registry endpoints
type InstrumentHandler struct {
	BaseHandler
	instrumentService *instrumentsapp.InstrumentService
}

// NewInstrumentHandler creates a new instrument handler
func NewInstrumentHandler(instrumentService *instrumentsapp.InstrumentService) *InstrumentHandler {
	return &InstrumentHandler{
		instrumentService: instrumentService,
	}
}

// CreateInstrumentRequest registers an instrument
type CreateInstrumentRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

// UpdateInstrumentRequest edits an instrument's details
type UpdateInstrumentRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// SetInstrumentEnabledRequest enables or disables an instrument
type SetInstrumentEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// Create registers an instrument (staff only)
func (h *InstrumentHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	instrument, err := h.instrumentService.CreateInstrument(c.Request.Context(), instrumentsapp.CreateInstrumentInput{
		ActorID:     actorID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, instrument)
}

// GetByID returns a single instrument
func (h *InstrumentHandler) GetByID(c *gin.Context) {
	instrumentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid instrument ID format")
		return
	}

	instrument, err := h.instrumentService.GetInstrument(c.Request.Context(), instrumentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, instrument)
}

// List returns all instruments, optionally only enabled ones
func (h *InstrumentHandler) List(c *gin.Context) {
	enabledOnly := c.Query("enabled_only") == "true"

	instruments, err := h.instrumentService.ListInstruments(c.Request.Context(), enabledOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, instruments)
}

// Update edits an instrument's details (staff only)
func (h *InstrumentHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	instrumentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid instrument ID format")
		return
	}

	var req UpdateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	instrument, err := h.instrumentService.UpdateInstrument(c.Request.Context(), instrumentsapp.UpdateInstrumentInput{
		ActorID:      actorID,
		InstrumentID: instrumentID,
		Name:         req.Name,
		Description:  req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, instrument)
}

// SetEnabled enables or disables an instrument (staff only)
func (h *InstrumentHandler) SetEnabled(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	instrumentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid instrument ID format")
		return
	}

	var req SetInstrumentEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	instrument, err := h.instrumentService.SetInstrumentEnabled(c.Request.Context(), actorID, instrumentID, req.Enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, instrument)
}

// Delete removes an instrument (staff only)
func (h *InstrumentHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	instrumentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid instrument ID format")
		return
	}

	if err := h.instrumentService.DeleteInstrument(c.Request.Context(), actorID, instrumentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	metadataapp "github.com/cupcake/backend/internal/application/metadata"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TemplateHandler handles metadata table template endpoints
type TemplateHandler struct {
	BaseHandler
	templateService *metadataapp.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService *metadataapp.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// CreateTemplateRequest represents a template creation request
type CreateTemplateRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=255"`
	Description string   `json:"description" binding:"max=1000"`
	LabGroupID  *string  `json:"lab_group_id" binding:"omitempty,uuid"`
	SchemaIDs   []string `json:"schema_ids" binding:"dive,uuid"`
	IsDefault   bool     `json:"is_default"`
}

// UpdateTemplateRequest represents a template update request
type UpdateTemplateRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	SchemaIDs   []string `json:"schema_ids" binding:"dive,uuid"`
	IsDefault   *bool    `json:"is_default"`
}

// Create creates a table template owned by the caller
func (h *TemplateHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schemaIDs, err := parseUUIDs(req.SchemaIDs)
	if err != nil {
		h.BadRequest(c, "Invalid schema ID format")
		return
	}

	input := metadataapp.CreateTemplateInput{
		ActorID:     actorID,
		Name:        req.Name,
		Description: req.Description,
		SchemaIDs:   schemaIDs,
		IsDefault:   req.IsDefault,
	}
	if req.LabGroupID != nil {
		groupID, err := uuid.Parse(*req.LabGroupID)
		if err != nil {
			h.BadRequest(c, "Invalid lab group ID format")
			return
		}
		input.LabGroupID = &groupID
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, template)
}

// GetByID returns a single template
func (h *TemplateHandler) GetByID(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	template, err := h.templateService.GetTemplate(c.Request.Context(), actorID, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// ListMine returns the templates visible to the caller
func (h *TemplateHandler) ListMine(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	templates, err := h.templateService.ListMyTemplates(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, templates)
}

// GetDefault returns the current default template
func (h *TemplateHandler) GetDefault(c *gin.Context) {
	template, err := h.templateService.GetDefaultTemplate(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// Update edits a template. Marking it default unmarks every other
// default template.
func (h *TemplateHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schemaIDs, err := parseUUIDs(req.SchemaIDs)
	if err != nil {
		h.BadRequest(c, "Invalid schema ID format")
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Request.Context(), metadataapp.UpdateTemplateInput{
		ActorID:     actorID,
		TemplateID:  templateID,
		Name:        req.Name,
		Description: req.Description,
		SchemaIDs:   schemaIDs,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// Delete removes a template
func (h *TemplateHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), actorID, templateID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(values))
	for i, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

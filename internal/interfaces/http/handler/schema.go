package handler

import (
	metadataapp "github.com/cupcake/backend/internal/application/metadata"
	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SchemaHandler handles metadata schema endpoints
type SchemaHandler struct {
	BaseHandler
	schemaService *metadataapp.SchemaService
}

// NewSchemaHandler creates a new schema handler
func NewSchemaHandler(schemaService *metadataapp.SchemaService) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
	}
}

// SchemaColumnRefRequest names a column prescribed by a schema
type SchemaColumnRefRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
	Type string `json:"type" binding:"required,min=1,max=100"`
}

// CreateSchemaRequest registers a schema with its definition document
type CreateSchemaRequest struct {
	Name        string                   `json:"name" binding:"required,min=1,max=255"`
	Description string                   `json:"description" binding:"max=1000"`
	Definition  string                   `json:"definition" binding:"required"`
	Columns     []SchemaColumnRefRequest `json:"columns"`
	Tags        []string                 `json:"tags"`
	IsBuiltin   bool                     `json:"is_builtin"`
}

// UpdateSchemaDefinitionRequest replaces a schema's definition document
type UpdateSchemaDefinitionRequest struct {
	Definition string                   `json:"definition" binding:"required"`
	Columns    []SchemaColumnRefRequest `json:"columns"`
}

// Create registers a schema and stores its definition (staff only)
func (h *SchemaHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schema, err := h.schemaService.CreateSchema(c.Request.Context(), metadataapp.CreateSchemaInput{
		ActorID:     actorID,
		Name:        req.Name,
		Description: req.Description,
		Definition:  []byte(req.Definition),
		Columns:     toSchemaColumnRefs(req.Columns),
		Tags:        req.Tags,
		IsBuiltin:   req.IsBuiltin,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, schema)
}

// GetByID returns a single schema
func (h *SchemaHandler) GetByID(c *gin.Context) {
	schemaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schema ID format")
		return
	}

	schema, err := h.schemaService.GetSchema(c.Request.Context(), schemaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schema)
}

// List returns all schemas, optionally only active ones
func (h *SchemaHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	schemas, err := h.schemaService.ListSchemas(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schemas)
}

// UpdateDefinition replaces a schema's definition file (staff only)
func (h *SchemaHandler) UpdateDefinition(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	schemaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schema ID format")
		return
	}

	var req UpdateSchemaDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schema, err := h.schemaService.UpdateDefinition(c.Request.Context(), metadataapp.UpdateSchemaDefinitionInput{
		ActorID:    actorID,
		SchemaID:   schemaID,
		Definition: []byte(req.Definition),
		Columns:    toSchemaColumnRefs(req.Columns),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schema)
}

// Deactivate retires a schema without deleting it (staff only)
func (h *SchemaHandler) Deactivate(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	schemaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schema ID format")
		return
	}

	if err := h.schemaService.DeactivateSchema(c.Request.Context(), actorID, schemaID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Schema deactivated"})
}

// Delete removes a non-builtin schema and its stored definition (staff only)
func (h *SchemaHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	schemaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schema ID format")
		return
	}

	if err := h.schemaService.DeleteSchema(c.Request.Context(), actorID, schemaID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// IncrementUsage bumps a schema's usage counter
func (h *SchemaHandler) IncrementUsage(c *gin.Context) {
	schemaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schema ID format")
		return
	}

	if err := h.schemaService.IncrementUsage(c.Request.Context(), schemaID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Usage recorded"})
}

// GetDownloadURL returns a presigned link to the schema definition
func (h *SchemaHandler) GetDownloadURL(c *gin.Context) {
	schemaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid schema ID format")
		return
	}

	result, err := h.schemaService.GetDownloadURL(c.Request.Context(), schemaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RenameLegacySchemas applies the legacy schema renames (staff only)
func (h *SchemaHandler) RenameLegacySchemas(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	renamed, err := h.schemaService.RenameLegacySchemas(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"renamed": renamed})
}

func toSchemaColumnRefs(reqs []SchemaColumnRefRequest) []metadata.SchemaColumnRef {
	refs := make([]metadata.SchemaColumnRef, len(reqs))
	for i, r := range reqs {
		refs[i] = metadata.SchemaColumnRef{Name: r.Name, Type: r.Type}
	}
	return refs
}

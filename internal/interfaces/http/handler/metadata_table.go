package handler

import (
	metadataapp "github.com/cupcake/backend/internal/application/metadata"
	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MetadataTableHandler handles metadata table and column endpoints
type MetadataTableHandler struct {
	BaseHandler
	tableService *metadataapp.TableService
}

// NewMetadataTableHandler creates a new metadata table handler
func NewMetadataTableHandler(tableService *metadataapp.TableService) *MetadataTableHandler {
	return &MetadataTableHandler{
		tableService: tableService,
	}
}

// CreateTableRequest represents a metadata table creation request
type CreateTableRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description string  `json:"description" binding:"max=1000"`
	SampleCount int     `json:"sample_count" binding:"required,min=1"`
	LabGroupID  *string `json:"lab_group_id" binding:"omitempty,uuid"`
	Visibility  *string `json:"visibility" binding:"omitempty,oneof=private group public"`
	SourceApp   *string `json:"source_app" binding:"omitempty,oneof=ccv ccm"`
}

// UpdateTableRequest represents a metadata table update request
type UpdateTableRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	SampleCount *int    `json:"sample_count" binding:"omitempty,min=1"`
	LabGroupID  *string `json:"lab_group_id" binding:"omitempty,uuid"`
	Visibility  *string `json:"visibility" binding:"omitempty,oneof=private group public"`
}

// AddColumnRequest adds a column to a table
type AddColumnRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=255"`
	Type         string  `json:"type" binding:"required,min=1,max=100"`
	Value        string  `json:"value"`
	Position     *int    `json:"position" binding:"omitempty,min=0"`
	OntologyType string  `json:"ontology_type" binding:"max=100"`
	Mandatory    bool    `json:"mandatory"`
	Hidden       bool    `json:"hidden"`
	Readonly     bool    `json:"readonly"`
	StaffOnly    bool    `json:"staff_only"`
	SchemaID     *string `json:"schema_id" binding:"omitempty,uuid"`
}

// UpdateColumnRequest edits a column's value and flags
type UpdateColumnRequest struct {
	Value         *string                   `json:"value"`
	Modifiers     []metadata.ColumnModifier `json:"modifiers"`
	Hidden        *bool                     `json:"hidden"`
	NotApplicable *bool                     `json:"not_applicable"`
}

// MoveColumnRequest moves a column to a new position
type MoveColumnRequest struct {
	NewPosition int `json:"new_position" binding:"min=0"`
}

// ReorderBySchemaRequest lays the table out in schema order
type ReorderBySchemaRequest struct {
	SchemaID string `json:"schema_id" binding:"required,uuid"`
}

// ShareTableRequest grants a role on a table
type ShareTableRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"required,oneof=admin editor viewer"`
}

// ListTablesQuery contains metadata table list filters
type ListTablesQuery struct {
	Search     string `form:"search"`
	OwnerID    string `form:"owner_id" binding:"omitempty,uuid"`
	LabGroupID string `form:"lab_group_id" binding:"omitempty,uuid"`
	SourceApp  string `form:"source_app" binding:"omitempty,oneof=ccv ccm"`
	Published  *bool  `form:"published"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size" binding:"omitempty,max=100"`
}

// Create creates a metadata table owned by the caller
func (h *MetadataTableHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := metadataapp.CreateTableInput{
		ActorID:     actorID,
		Name:        req.Name,
		Description: req.Description,
		SampleCount: req.SampleCount,
	}
	if req.LabGroupID != nil {
		groupID, err := uuid.Parse(*req.LabGroupID)
		if err != nil {
			h.BadRequest(c, "Invalid lab group ID format")
			return
		}
		input.LabGroupID = &groupID
	}
	if req.Visibility != nil {
		visibility := shared.ResourceVisibility(*req.Visibility)
		input.Visibility = &visibility
	}
	if req.SourceApp != nil {
		sourceApp := metadata.SourceApp(*req.SourceApp)
		input.SourceApp = &sourceApp
	}

	table, err := h.tableService.CreateTable(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, table)
}

// GetByID returns a table with its ordered columns
func (h *MetadataTableHandler) GetByID(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	table, err := h.tableService.GetTable(c.Request.Context(), actorID, tableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, table)
}

// List returns a filtered page of tables visible to the caller
func (h *MetadataTableHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query ListTablesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := metadataapp.ListTablesInput{
		ActorID:   actorID,
		Keyword:   query.Search,
		Published: query.Published,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if query.OwnerID != "" {
		ownerID, err := uuid.Parse(query.OwnerID)
		if err != nil {
			h.BadRequest(c, "Invalid owner ID format")
			return
		}
		input.OwnerID = &ownerID
	}
	if query.LabGroupID != "" {
		groupID, err := uuid.Parse(query.LabGroupID)
		if err != nil {
			h.BadRequest(c, "Invalid lab group ID format")
			return
		}
		input.LabGroupID = &groupID
	}
	if query.SourceApp != "" {
		sourceApp := metadata.SourceApp(query.SourceApp)
		input.SourceApp = &sourceApp
	}
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 {
		input.PageSize = 20
	}

	result, err := h.tableService.ListTables(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Tables, result.Total, result.Page, result.PageSize)
}

// Update edits a table's details
func (h *MetadataTableHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	var req UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := metadataapp.UpdateTableInput{
		ActorID:     actorID,
		TableID:     tableID,
		Name:        req.Name,
		Description: req.Description,
		SampleCount: req.SampleCount,
	}
	if req.LabGroupID != nil {
		groupID, err := uuid.Parse(*req.LabGroupID)
		if err != nil {
			h.BadRequest(c, "Invalid lab group ID format")
			return
		}
		input.LabGroupID = &groupID
	}
	if req.Visibility != nil {
		visibility := shared.ResourceVisibility(*req.Visibility)
		input.Visibility = &visibility
	}

	table, err := h.tableService.UpdateTable(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, table)
}

// Delete removes a table and its columns
func (h *MetadataTableHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	if err := h.tableService.DeleteTable(c.Request.Context(), actorID, tableID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Publish marks a table as published
func (h *MetadataTableHandler) Publish(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	table, err := h.tableService.PublishTable(c.Request.Context(), actorID, tableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, table)
}

// Share grants a role on a table to another user
func (h *MetadataTableHandler) Share(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	var req ShareTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	err = h.tableService.ShareTable(c.Request.Context(), metadataapp.ShareTableInput{
		ActorID: actorID,
		TableID: tableID,
		UserID:  userID,
		Role:    shared.ResourceRole(req.Role),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Table shared"})
}

// Unshare revokes a user's role on a table
func (h *MetadataTableHandler) Unshare(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.tableService.UnshareTable(c.Request.Context(), actorID, tableID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddColumn inserts a column, shifting later positions up
func (h *MetadataTableHandler) AddColumn(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	var req AddColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := metadataapp.AddColumnInput{
		ActorID:      actorID,
		TableID:      tableID,
		Name:         req.Name,
		Type:         req.Type,
		Value:        req.Value,
		Position:     req.Position,
		OntologyType: metadata.OntologyType(req.OntologyType),
		Mandatory:    req.Mandatory,
		Hidden:       req.Hidden,
		Readonly:     req.Readonly,
		StaffOnly:    req.StaffOnly,
	}
	if req.SchemaID != nil {
		schemaID, err := uuid.Parse(*req.SchemaID)
		if err != nil {
			h.BadRequest(c, "Invalid schema ID format")
			return
		}
		input.SchemaID = &schemaID
	}

	table, err := h.tableService.AddColumn(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, table)
}

// UpdateColumn edits a column's value, modifiers, and flags
func (h *MetadataTableHandler) UpdateColumn(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	columnID, err := uuid.Parse(c.Param("colID"))
	if err != nil {
		h.BadRequest(c, "Invalid column ID format")
		return
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	table, err := h.tableService.UpdateColumn(c.Request.Context(), metadataapp.UpdateColumnInput{
		ActorID:       actorID,
		TableID:       tableID,
		ColumnID:      columnID,
		Value:         req.Value,
		Modifiers:     req.Modifiers,
		Hidden:        req.Hidden,
		NotApplicable: req.NotApplicable,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, table)
}

// MoveColumn moves a column to a new position
func (h *MetadataTableHandler) MoveColumn(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	columnID, err := uuid.Parse(c.Param("colID"))
	if err != nil {
		h.BadRequest(c, "Invalid column ID format")
		return
	}

	var req MoveColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	table, err := h.tableService.MoveColumn(c.Request.Context(), metadataapp.MoveColumnInput{
		ActorID:     actorID,
		TableID:     tableID,
		ColumnID:    columnID,
		NewPosition: req.NewPosition,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, table)
}

// RemoveColumn deletes a column, shifting later positions down
func (h *MetadataTableHandler) RemoveColumn(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	columnID, err := uuid.Parse(c.Param("colID"))
	if err != nil {
		h.BadRequest(c, "Invalid column ID format")
		return
	}

	table, err := h.tableService.RemoveColumn(c.Request.Context(), metadataapp.RemoveColumnInput{
		ActorID:  actorID,
		TableID:  tableID,
		ColumnID: columnID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, table)
}

// Normalize re-numbers column positions sequentially from zero
func (h *MetadataTableHandler) Normalize(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	table, err := h.tableService.NormalizeColumns(c.Request.Context(), actorID, tableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, table)
}

// Reorder lays the table out in schema section order
func (h *MetadataTableHandler) Reorder(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid table ID format")
		return
	}

	var req ReorderBySchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schemaID, err := uuid.Parse(req.SchemaID)
	if err != nil {
		h.BadRequest(c, "Invalid schema ID format")
		return
	}

	table, err := h.tableService.ReorderBySchema(c.Request.Context(), metadataapp.ReorderBySchemaInput{
		ActorID:  actorID,
		TableID:  tableID,
		SchemaID: schemaID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, table)
}

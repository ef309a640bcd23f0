package metadata

import (
	"time"

	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateTableInput contains the input for metadata table creation
type CreateTableInput struct {
	ActorID     uuid.UUID
	Name        string
	Description string
	SampleCount int
	LabGroupID  *uuid.UUID
	Visibility  *shared.ResourceVisibility
	SourceApp   *metadata.SourceApp
}

// UpdateTableInput contains the input for table updates
type UpdateTableInput struct {
	ActorID     uuid.UUID
	TableID     uuid.UUID
	Name        *string
	Description *string
	SampleCount *int
	LabGroupID  *uuid.UUID
	Visibility  *shared.ResourceVisibility
}

// ListTablesInput contains filters for listing metadata tables
type ListTablesInput struct {
	ActorID    uuid.UUID
	Keyword    string
	OwnerID    *uuid.UUID
	LabGroupID *uuid.UUID
	SourceApp  *metadata.SourceApp
	Published  *bool
	Page       int
	PageSize   int
}

// AddColumnInput adds a column to a table
type AddColumnInput struct {
	ActorID      uuid.UUID
	TableID      uuid.UUID
	Name         string
	Type         string
	Value        string
	Position     *int // nil appends with auto reorder
	OntologyType metadata.OntologyType
	Mandatory    bool
	Hidden       bool
	Readonly     bool
	StaffOnly    bool
	SchemaID     *uuid.UUID // schema driving the auto reorder
}

// UpdateColumnInput edits a column's value and flags
type UpdateColumnInput struct {
	ActorID       uuid.UUID
	TableID       uuid.UUID
	ColumnID      uuid.UUID
	Value         *string
	Modifiers     []metadata.ColumnModifier
	Hidden        *bool
	NotApplicable *bool
}

// MoveColumnInput moves a column to a new position
type MoveColumnInput struct {
	ActorID     uuid.UUID
	TableID     uuid.UUID
	ColumnID    uuid.UUID
	NewPosition int
}

// RemoveColumnInput deletes a column from a table
type RemoveColumnInput struct {
	ActorID  uuid.UUID
	TableID  uuid.UUID
	ColumnID uuid.UUID
}

// ReorderBySchemaInput lays a table out in schema order
type ReorderBySchemaInput struct {
	ActorID  uuid.UUID
	TableID  uuid.UUID
	SchemaID uuid.UUID
}

// ShareTableInput grants a role on a table
type ShareTableInput struct {
	ActorID uuid.UUID
	TableID uuid.UUID
	UserID  uuid.UUID
	Role    shared.ResourceRole
}

// ColumnDTO is the transferable representation of a metadata column
type ColumnDTO struct {
	ID             uuid.UUID                 `json:"id"`
	Name           string                    `json:"name"`
	Type           string                    `json:"type"`
	ColumnPosition int                       `json:"column_position"`
	Value          string                    `json:"value"`
	Modifiers      []metadata.ColumnModifier `json:"modifiers,omitempty"`
	OntologyType   metadata.OntologyType     `json:"ontology_type,omitempty"`
	Mandatory      bool                      `json:"mandatory"`
	Hidden         bool                      `json:"hidden"`
	Readonly       bool                      `json:"readonly"`
	AutoGenerated  bool                      `json:"auto_generated"`
	StaffOnly      bool                      `json:"staff_only"`
	NotApplicable  bool                      `json:"not_applicable"`
}

// TableDTO is the transferable representation of a metadata table
type TableDTO struct {
	ID          uuid.UUID                 `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	OwnerID     uuid.UUID                 `json:"owner_id"`
	LabGroupID  *uuid.UUID                `json:"lab_group_id,omitempty"`
	SampleCount int                       `json:"sample_count"`
	IsPublished bool                      `json:"is_published"`
	IsLocked    bool                      `json:"is_locked"`
	Visibility  shared.ResourceVisibility `json:"visibility"`
	SourceApp   metadata.SourceApp        `json:"source_app"`
	Columns     []ColumnDTO               `json:"columns"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// TableListResult contains a page of metadata tables
type TableListResult struct {
	Tables     []TableDTO `json:"tables"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// CreateSchemaInput registers a schema and stores its definition file
type CreateSchemaInput struct {
	ActorID     uuid.UUID
	Name        string
	Description string
	Definition  []byte
	Columns     []metadata.SchemaColumnRef
	Tags        []string
	IsBuiltin   bool
}

// UpdateSchemaDefinitionInput replaces a schema's definition file
type UpdateSchemaDefinitionInput struct {
	ActorID    uuid.UUID
	SchemaID   uuid.UUID
	Definition []byte
	Columns    []metadata.SchemaColumnRef
}

// SchemaDTO is the transferable representation of a schema
type SchemaDTO struct {
	ID          uuid.UUID                  `json:"id"`
	Name        string                     `json:"name"`
	DisplayName string                     `json:"display_name"`
	Description string                     `json:"description,omitempty"`
	IsBuiltin   bool                       `json:"is_builtin"`
	IsActive    bool                       `json:"is_active"`
	FileHash    string                     `json:"file_hash,omitempty"`
	FileSize    int64                      `json:"file_size"`
	UsageCount  int64                      `json:"usage_count"`
	Tags        []string                   `json:"tags,omitempty"`
	Columns     []metadata.SchemaColumnRef `json:"columns,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// SchemaDownloadResult carries a presigned definition download link
type SchemaDownloadResult struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateTemplateInput contains the input for template creation
type CreateTemplateInput struct {
	ActorID     uuid.UUID
	Name        string
	Description string
	LabGroupID  *uuid.UUID
	SchemaIDs   []uuid.UUID
	IsDefault   bool
}

// UpdateTemplateInput contains the input for template updates
type UpdateTemplateInput struct {
	ActorID     uuid.UUID
	TemplateID  uuid.UUID
	Name        *string
	Description *string
	SchemaIDs   []uuid.UUID
	IsDefault   *bool
}

// TemplateDTO is the transferable representation of a table template
type TemplateDTO struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	LabGroupID  *uuid.UUID  `json:"lab_group_id,omitempty"`
	IsDefault   bool        `json:"is_default"`
	SchemaIDs   []uuid.UUID `json:"schema_ids"`
	Columns     []ColumnDTO `json:"user_columns"`
	CreatedAt   time.Time   `json:"created_at"`
}

func toColumnDTO(col *metadata.MetadataColumn) ColumnDTO {
	return ColumnDTO{
		ID:             col.ID,
		Name:           col.Name,
		Type:           col.Type,
		ColumnPosition: col.ColumnPosition,
		Value:          col.Value,
		Modifiers:      col.Modifiers,
		OntologyType:   col.OntologyType,
		Mandatory:      col.Mandatory,
		Hidden:         col.Hidden,
		Readonly:       col.Readonly,
		AutoGenerated:  col.AutoGenerated,
		StaffOnly:      col.StaffOnly,
		NotApplicable:  col.NotApplicable,
	}
}

func toColumnDTOs(cols []*metadata.MetadataColumn) []ColumnDTO {
	dtos := make([]ColumnDTO, len(cols))
	for i, col := range cols {
		dtos[i] = toColumnDTO(col)
	}
	return dtos
}

func toTableDTO(table *metadata.MetadataTable) TableDTO {
	return TableDTO{
		ID:          table.ID,
		Name:        table.Name,
		Description: table.Description,
		OwnerID:     table.OwnerID,
		LabGroupID:  table.LabGroupID,
		SampleCount: table.SampleCount,
		IsPublished: table.IsPublished,
		IsLocked:    table.IsLocked,
		Visibility:  table.Visibility,
		SourceApp:   table.SourceApp,
		Columns:     toColumnDTOs(table.Columns),
		CreatedAt:   table.CreatedAt,
		UpdatedAt:   table.UpdatedAt,
	}
}

func toSchemaDTO(schema *metadata.Schema) SchemaDTO {
	return SchemaDTO{
		ID:          schema.ID,
		Name:        schema.Name,
		DisplayName: schema.DisplayName,
		Description: schema.Description,
		IsBuiltin:   schema.IsBuiltin,
		IsActive:    schema.IsActive,
		FileHash:    schema.FileHash,
		FileSize:    schema.FileSize,
		UsageCount:  schema.UsageCount,
		Tags:        schema.Tags,
		Columns:     schema.Columns,
		CreatedAt:   schema.CreatedAt,
	}
}

func toTemplateDTO(tpl *metadata.MetadataTableTemplate) TemplateDTO {
	return TemplateDTO{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		OwnerID:     tpl.OwnerID,
		LabGroupID:  tpl.LabGroupID,
		IsDefault:   tpl.IsDefault,
		SchemaIDs:   tpl.SchemaIDs,
		Columns:     toColumnDTOs(tpl.UserColumns),
		CreatedAt:   tpl.CreatedAt,
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

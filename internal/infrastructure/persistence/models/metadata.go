package models

import (
	"encoding/json"

	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/google/uuid"
)

// MetadataTableModel is the GORM model for metadata tables
type MetadataTableModel struct {
	OwnedAggregateModel
	Name        string     `gorm:"size:255;not null;index"`
	Description string     `gorm:"type:text"`
	LabGroupID  *uuid.UUID `gorm:"type:uuid;index"`
	SampleCount int        `gorm:"not null;default:0"`
	IsPublished bool       `gorm:"not null;default:false;index"`
	SourceApp   string     `gorm:"size:10;not null;default:'ccv';index"`
}

// TableName specifies the table name
func (MetadataTableModel) TableName() string {
	return "metadata_tables"
}

// ToDomain converts MetadataTableModel to domain MetadataTable.
// Columns are loaded and attached by the repository.
func (m *MetadataTableModel) ToDomain() *metadata.MetadataTable {
	return &metadata.MetadataTable{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Name:               m.Name,
		Description:        m.Description,
		LabGroupID:         m.LabGroupID,
		SampleCount:        m.SampleCount,
		IsPublished:        m.IsPublished,
		SourceApp:          metadata.SourceApp(m.SourceApp),
		Columns:            make([]*metadata.MetadataColumn, 0),
	}
}

// MetadataTableModelFromDomain creates a MetadataTableModel from domain MetadataTable
func MetadataTableModelFromDomain(table *metadata.MetadataTable) *MetadataTableModel {
	model := &MetadataTableModel{
		Name:        table.Name,
		Description: table.Description,
		LabGroupID:  table.LabGroupID,
		SampleCount: table.SampleCount,
		IsPublished: table.IsPublished,
		SourceApp:   string(table.SourceApp),
	}
	model.FromDomainOwnedAggregateRoot(table.OwnedAggregateRoot)
	return model
}

// MetadataColumnModel is the GORM model for metadata table columns
type MetadataColumnModel struct {
	BaseModel
	TableID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"size:255;not null"`
	Type           string    `gorm:"size:100;not null"`
	ColumnPosition int       `gorm:"not null;default:0"`
	Value          string    `gorm:"type:text"`
	ModifiersJSON  string    `gorm:"column:modifiers;type:jsonb;default:'[]'"`
	OntologyType   string    `gorm:"size:50"`
	Mandatory      bool      `gorm:"not null;default:false"`
	Hidden         bool      `gorm:"not null;default:false"`
	Readonly       bool      `gorm:"not null;default:false"`
	AutoGenerated  bool      `gorm:"not null;default:false"`
	StaffOnly      bool      `gorm:"not null;default:false"`
	NotApplicable  bool      `gorm:"not null;default:false"`
}

// TableName specifies the table name
func (MetadataColumnModel) TableName() string {
	return "metadata_columns"
}

// ToDomain converts MetadataColumnModel to domain MetadataColumn
func (m *MetadataColumnModel) ToDomain() *metadata.MetadataColumn {
	col := &metadata.MetadataColumn{
		BaseEntity:     m.BaseModel.ToDomain(),
		TableID:        m.TableID,
		Name:           m.Name,
		Type:           m.Type,
		ColumnPosition: m.ColumnPosition,
		Value:          m.Value,
		OntologyType:   metadata.OntologyType(m.OntologyType),
		Mandatory:      m.Mandatory,
		Hidden:         m.Hidden,
		Readonly:       m.Readonly,
		AutoGenerated:  m.AutoGenerated,
		StaffOnly:      m.StaffOnly,
		NotApplicable:  m.NotApplicable,
	}

	if m.ModifiersJSON != "" && m.ModifiersJSON != "[]" {
		var mods []metadata.ColumnModifier
		if err := json.Unmarshal([]byte(m.ModifiersJSON), &mods); err == nil {
			col.Modifiers = mods
		}
	}

	return col
}

// MetadataColumnModelFromDomain creates a MetadataColumnModel from domain MetadataColumn
func MetadataColumnModelFromDomain(col *metadata.MetadataColumn) *MetadataColumnModel {
	model := &MetadataColumnModel{
		TableID:        col.TableID,
		Name:           col.Name,
		Type:           col.Type,
		ColumnPosition: col.ColumnPosition,
		Value:          col.Value,
		OntologyType:   string(col.OntologyType),
		Mandatory:      col.Mandatory,
		Hidden:         col.Hidden,
		Readonly:       col.Readonly,
		AutoGenerated:  col.AutoGenerated,
		StaffOnly:      col.StaffOnly,
		NotApplicable:  col.NotApplicable,
	}
	model.FromDomainBaseEntity(col.BaseEntity)

	model.ModifiersJSON = "[]"
	if len(col.Modifiers) > 0 {
		if jsonBytes, err := json.Marshal(col.Modifiers); err == nil {
			model.ModifiersJSON = string(jsonBytes)
		}
	}

	return model
}

// SchemaModel is the GORM model for column schemas
type SchemaModel struct {
	AggregateModel
	Name        string `gorm:"size:255;not null;uniqueIndex"`
	DisplayName string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	IsBuiltin   bool   `gorm:"not null;default:false"`
	IsActive    bool   `gorm:"not null;default:true;index"`
	FileKey     string `gorm:"size:512"`
	FileHash    string `gorm:"size:64"`
	FileSize    int64  `gorm:"not null;default:0"`
	UsageCount  int64  `gorm:"not null;default:0"`
	TagsJSON    string `gorm:"column:tags;type:jsonb;default:'[]'"`
	ColumnsJSON string `gorm:"column:columns;type:jsonb;default:'[]'"`
}

// TableName specifies the table name
func (SchemaModel) TableName() string {
	return "metadata_schemas"
}

// ToDomain converts SchemaModel to domain Schema
func (m *SchemaModel) ToDomain() *metadata.Schema {
	schema := &metadata.Schema{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		DisplayName:       m.DisplayName,
		Description:       m.Description,
		IsBuiltin:         m.IsBuiltin,
		IsActive:          m.IsActive,
		FileKey:           m.FileKey,
		FileHash:          m.FileHash,
		FileSize:          m.FileSize,
		UsageCount:        m.UsageCount,
		Tags:              make([]string, 0),
	}

	if m.TagsJSON != "" && m.TagsJSON != "[]" {
		var tags []string
		if err := json.Unmarshal([]byte(m.TagsJSON), &tags); err == nil {
			schema.Tags = tags
		}
	}
	if m.ColumnsJSON != "" && m.ColumnsJSON != "[]" {
		var cols []metadata.SchemaColumnRef
		if err := json.Unmarshal([]byte(m.ColumnsJSON), &cols); err == nil {
			schema.Columns = cols
		}
	}

	return schema
}

// SchemaModelFromDomain creates a SchemaModel from domain Schema
func SchemaModelFromDomain(schema *metadata.Schema) *SchemaModel {
	model := &SchemaModel{
		Name:        schema.Name,
		DisplayName: schema.DisplayName,
		Description: schema.Description,
		IsBuiltin:   schema.IsBuiltin,
		IsActive:    schema.IsActive,
		FileKey:     schema.FileKey,
		FileHash:    schema.FileHash,
		FileSize:    schema.FileSize,
		UsageCount:  schema.UsageCount,
	}
	model.FromDomainAggregateRoot(schema.BaseAggregateRoot)

	model.TagsJSON = "[]"
	if len(schema.Tags) > 0 {
		if jsonBytes, err := json.Marshal(schema.Tags); err == nil {
			model.TagsJSON = string(jsonBytes)
		}
	}
	model.ColumnsJSON = "[]"
	if len(schema.Columns) > 0 {
		if jsonBytes, err := json.Marshal(schema.Columns); err == nil {
			model.ColumnsJSON = string(jsonBytes)
		}
	}

	return model
}

// templateColumn is the JSON shape of a template's stored column layout
type templateColumn struct {
	Name          string                    `json:"name"`
	Type          string                    `json:"type"`
	Position      int                       `json:"position"`
	Value         string                    `json:"value,omitempty"`
	Modifiers     []metadata.ColumnModifier `json:"modifiers,omitempty"`
	OntologyType  string                    `json:"ontology_type,omitempty"`
	Mandatory     bool                      `json:"mandatory,omitempty"`
	Hidden        bool                      `json:"hidden,omitempty"`
	Readonly      bool                      `json:"readonly,omitempty"`
	StaffOnly     bool                      `json:"staff_only,omitempty"`
	NotApplicable bool                      `json:"not_applicable,omitempty"`
}

// TemplateModel is the GORM model for metadata table templates.
// The column layout is a snapshot, stored inline as JSON rather than in
// the metadata_columns table.
type TemplateModel struct {
	OwnedAggregateModel
	Name            string     `gorm:"size:255;not null;index"`
	Description     string     `gorm:"type:text"`
	LabGroupID      *uuid.UUID `gorm:"type:uuid;index"`
	IsDefault       bool       `gorm:"not null;default:false;index"`
	SchemaIDsJSON   string     `gorm:"column:schema_ids;type:jsonb;default:'[]'"`
	UserColumnsJSON string     `gorm:"column:user_columns;type:jsonb;default:'[]'"`
}

// TableName specifies the table name
func (TemplateModel) TableName() string {
	return "metadata_table_templates"
}

// ToDomain converts TemplateModel to domain MetadataTableTemplate
func (m *TemplateModel) ToDomain() *metadata.MetadataTableTemplate {
	tpl := &metadata.MetadataTableTemplate{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Name:               m.Name,
		Description:        m.Description,
		LabGroupID:         m.LabGroupID,
		IsDefault:          m.IsDefault,
		SchemaIDs:          make([]uuid.UUID, 0),
		UserColumns:        make([]*metadata.MetadataColumn, 0),
	}

	if m.SchemaIDsJSON != "" && m.SchemaIDsJSON != "[]" {
		var ids []uuid.UUID
		if err := json.Unmarshal([]byte(m.SchemaIDsJSON), &ids); err == nil {
			tpl.SchemaIDs = ids
		}
	}
	if m.UserColumnsJSON != "" && m.UserColumnsJSON != "[]" {
		var stored []templateColumn
		if err := json.Unmarshal([]byte(m.UserColumnsJSON), &stored); err == nil {
			for _, sc := range stored {
				col := &metadata.MetadataColumn{
					Name:           sc.Name,
					Type:           sc.Type,
					ColumnPosition: sc.Position,
					Value:          sc.Value,
					Modifiers:      sc.Modifiers,
					OntologyType:   metadata.OntologyType(sc.OntologyType),
					Mandatory:      sc.Mandatory,
					Hidden:         sc.Hidden,
					Readonly:       sc.Readonly,
					StaffOnly:      sc.StaffOnly,
					NotApplicable:  sc.NotApplicable,
				}
				tpl.UserColumns = append(tpl.UserColumns, col)
			}
		}
	}

	return tpl
}

// TemplateModelFromDomain creates a TemplateModel from domain MetadataTableTemplate
func TemplateModelFromDomain(tpl *metadata.MetadataTableTemplate) *TemplateModel {
	model := &TemplateModel{
		Name:        tpl.Name,
		Description: tpl.Description,
		LabGroupID:  tpl.LabGroupID,
		IsDefault:   tpl.IsDefault,
	}
	model.FromDomainOwnedAggregateRoot(tpl.OwnedAggregateRoot)

	model.SchemaIDsJSON = "[]"
	if len(tpl.SchemaIDs) > 0 {
		if jsonBytes, err := json.Marshal(tpl.SchemaIDs); err == nil {
			model.SchemaIDsJSON = string(jsonBytes)
		}
	}

	model.UserColumnsJSON = "[]"
	if len(tpl.UserColumns) > 0 {
		stored := make([]templateColumn, len(tpl.UserColumns))
		for i, col := range tpl.UserColumns {
			stored[i] = templateColumn{
				Name:          col.Name,
				Type:          col.Type,
				Position:      col.ColumnPosition,
				Value:         col.Value,
				Modifiers:     col.Modifiers,
				OntologyType:  string(col.OntologyType),
				Mandatory:     col.Mandatory,
				Hidden:        col.Hidden,
				Readonly:      col.Readonly,
				StaffOnly:     col.StaffOnly,
				NotApplicable: col.NotApplicable,
			}
		}
		if jsonBytes, err := json.Marshal(stored); err == nil {
			model.UserColumnsJSON = string(jsonBytes)
		}
	}

	return model
}

package metadata

import (
	"strings"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MetadataTableTemplate is a reusable column layout for new metadata
// tables. At most one template may be the default; saving a template as
// default unmarks every other one.
type MetadataTableTemplate struct {
	shared.OwnedAggregateRoot
	Name        string
	Description string
	LabGroupID  *uuid.UUID
	IsDefault   bool
	SchemaIDs   []uuid.UUID
	UserColumns []*MetadataColumn
}

// NewMetadataTableTemplate creates an empty template
func NewMetadataTableTemplate(name string, ownerID uuid.UUID) (*MetadataTableTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TEMPLATE_NAME", "Template name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_TEMPLATE_NAME", "Template name cannot exceed 255 characters")
	}

	return &MetadataTableTemplate{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		SchemaIDs:          make([]uuid.UUID, 0),
		UserColumns:        make([]*MetadataColumn, 0),
	}, nil
}

// SetName renames the template
func (t *MetadataTableTemplate) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_TEMPLATE_NAME", "Template name cannot be empty")
	}

	t.Name = name
	t.touch()

	return nil
}

// SetDescription sets the template description
func (t *MetadataTableTemplate) SetDescription(description string) {
	t.Description = description
	t.touch()
}

// SetSchemas replaces the schemas the template draws columns from
func (t *MetadataTableTemplate) SetSchemas(schemaIDs []uuid.UUID) {
	t.SchemaIDs = schemaIDs
	t.touch()
}

// SetColumns replaces the template's column layout
func (t *MetadataTableTemplate) SetColumns(cols []*MetadataColumn) {
	t.UserColumns = cols
	t.touch()
}

// MarkDefault flags this template as the default. The repository
// unmarks all other templates in the same save.
func (t *MetadataTableTemplate) MarkDefault() {
	t.IsDefault = true
	t.touch()
}

// UnmarkDefault clears the default flag
func (t *MetadataTableTemplate) UnmarkDefault() {
	t.IsDefault = false
	t.touch()
}

func (t *MetadataTableTemplate) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

package metadata

import (
	"context"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TableRepository persists metadata tables together with their columns
type TableRepository interface {
	// Create creates a new table with its columns
	Create(ctx context.Context, table *MetadataTable) error

	// Update saves the table and replaces its column set
	Update(ctx context.Context, table *MetadataTable) error

	// Delete deletes a table and its columns
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID loads a table with columns ordered by position
	FindByID(ctx context.Context, id uuid.UUID) (*MetadataTable, error)

	// FindAll returns tables matching the filter with pagination
	FindAll(ctx context.Context, filter TableFilter) ([]*MetadataTable, int64, error)
}

// TableFilter contains filter options for querying metadata tables
type TableFilter struct {
	Keyword    string
	OwnerID    *uuid.UUID
	LabGroupID *uuid.UUID
	SourceApp  *SourceApp
	Visibility *shared.ResourceVisibility
	Published  *bool

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewTableFilter creates a filter with default values
func NewTableFilter() TableFilter {
	return TableFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithKeyword sets the search keyword
func (f TableFilter) WithKeyword(keyword string) TableFilter {
	f.Keyword = keyword
	return f
}

// WithOwner filters by owner
func (f TableFilter) WithOwner(ownerID uuid.UUID) TableFilter {
	f.OwnerID = &ownerID
	return f
}

// WithLabGroup filters by lab group
func (f TableFilter) WithLabGroup(groupID uuid.UUID) TableFilter {
	f.LabGroupID = &groupID
	return f
}

// WithSourceApp filters by owning application
func (f TableFilter) WithSourceApp(app SourceApp) TableFilter {
	f.SourceApp = &app
	return f
}

// WithPagination sets pagination parameters
func (f TableFilter) WithPagination(page, pageSize int) TableFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f TableFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f TableFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// SchemaRepository persists column schemas
type SchemaRepository interface {
	Create(ctx context.Context, schema *Schema) error
	Update(ctx context.Context, schema *Schema) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Schema, error)
	FindByName(ctx context.Context, name string) (*Schema, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Schema, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*Schema, error)

	// IncrementUsage atomically bumps the usage counter
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

// TemplateRepository persists metadata table templates
type TemplateRepository interface {
	Create(ctx context.Context, tpl *MetadataTableTemplate) error

	// Update saves the template. When the template is marked default,
	// the implementation unmarks every other default in the same
	// transaction.
	Update(ctx context.Context, tpl *MetadataTableTemplate) error

	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*MetadataTableTemplate, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*MetadataTableTemplate, error)
	FindDefault(ctx context.Context) (*MetadataTableTemplate, error)
	FindDefaults(ctx context.Context) ([]*MetadataTableTemplate, error)

	// UnmarkOtherDefaults clears is_default on every template except the
	// given one
	UnmarkOtherDefaults(ctx context.Context, exceptID uuid.UUID) error
}

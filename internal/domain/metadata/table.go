package metadata

import (
	"sort"
	"strings"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SourceApp identifies which application owns a metadata table. Tables
// owned by the instruments app follow job-state access rules instead of
// the generic resource rules.
type SourceApp string

const (
	SourceAppCCV SourceApp = "ccv"
	SourceAppCCM SourceApp = "ccm"
)

// MetadataTable is an SDRF-style metadata table: an ordered set of
// columns over a fixed number of samples. It is the aggregate root for
// all column layout operations; positions stay dense and zero-based
// after every operation.
type MetadataTable struct {
	shared.OwnedAggregateRoot
	Name        string
	Description string
	LabGroupID  *uuid.UUID
	SampleCount int
	IsPublished bool
	SourceApp   SourceApp
	Columns     []*MetadataColumn
}

// NewMetadataTable creates an empty table
func NewMetadataTable(name string, ownerID uuid.UUID, sampleCount int) (*MetadataTable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TABLE_NAME", "Table name cannot be empty")
	}
	if sampleCount < 0 {
		return nil, shared.NewDomainError("INVALID_SAMPLE_COUNT", "Sample count cannot be negative")
	}

	return &MetadataTable{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		SampleCount:        sampleCount,
		SourceApp:          SourceAppCCV,
		Columns:            make([]*MetadataColumn, 0),
	}, nil
}

// SetName renames the table
func (t *MetadataTable) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_TABLE_NAME", "Table name cannot be empty")
	}

	t.Name = name
	t.touch()

	return nil
}

// SetSampleCount changes the number of samples
func (t *MetadataTable) SetSampleCount(count int) error {
	if count < 0 {
		return shared.NewDomainError("INVALID_SAMPLE_COUNT", "Sample count cannot be negative")
	}

	t.SampleCount = count
	t.touch()

	return nil
}

// SetLabGroup attaches the table to a lab group for group visibility
func (t *MetadataTable) SetLabGroup(groupID *uuid.UUID) {
	t.LabGroupID = groupID
	t.touch()
}

// SetVisibility changes who can discover the table
func (t *MetadataTable) SetVisibility(v shared.ResourceVisibility) error {
	if !v.IsValid() {
		return shared.NewDomainError("INVALID_VISIBILITY", "Unknown visibility value")
	}

	t.Visibility = v
	t.touch()

	return nil
}

// Publish marks the table published
func (t *MetadataTable) Publish() {
	t.IsPublished = true
	t.touch()
}

// ColumnByID returns the column with the given id, or nil
func (t *MetadataTable) ColumnByID(id uuid.UUID) *MetadataColumn {
	for _, c := range t.Columns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// AddColumn inserts a column at the given position, shifting every
// column at or after that position up by one. A negative position or a
// position past the end appends.
func (t *MetadataTable) AddColumn(col *MetadataColumn, position int) {
	if position < 0 || position > len(t.Columns) {
		position = len(t.Columns)
	}

	for _, c := range t.Columns {
		if c.ColumnPosition >= position {
			c.ColumnPosition++
		}
	}

	col.TableID = t.ID
	col.ColumnPosition = position
	t.Columns = append(t.Columns, col)
	t.sortColumns()
	t.touch()
}

// RemoveColumn deletes a column and shifts later columns down by one
func (t *MetadataTable) RemoveColumn(columnID uuid.UUID) error {
	removed := t.ColumnByID(columnID)
	if removed == nil {
		return shared.ErrNotFound
	}

	kept := make([]*MetadataColumn, 0, len(t.Columns)-1)
	for _, c := range t.Columns {
		if c.ID == columnID {
			continue
		}
		if c.ColumnPosition > removed.ColumnPosition {
			c.ColumnPosition--
		}
		kept = append(kept, c)
	}

	t.Columns = kept
	t.sortColumns()
	t.touch()

	return nil
}

// MoveColumn moves a column to a new position, shifting only the
// columns between the old and new positions.
func (t *MetadataTable) MoveColumn(columnID uuid.UUID, newPosition int) error {
	col := t.ColumnByID(columnID)
	if col == nil {
		return shared.ErrNotFound
	}

	if newPosition < 0 {
		newPosition = 0
	}
	if newPosition >= len(t.Columns) {
		newPosition = len(t.Columns) - 1
	}

	oldPosition := col.ColumnPosition
	if newPosition == oldPosition {
		return nil
	}

	if newPosition < oldPosition {
		// Moving up: shift the displaced range down the list
		for _, c := range t.Columns {
			if c.ColumnPosition >= newPosition && c.ColumnPosition < oldPosition {
				c.ColumnPosition++
			}
		}
	} else {
		// Moving down: shift the displaced range up the list
		for _, c := range t.Columns {
			if c.ColumnPosition > oldPosition && c.ColumnPosition <= newPosition {
				c.ColumnPosition--
			}
		}
	}

	col.ColumnPosition = newPosition
	t.sortColumns()
	t.touch()

	return nil
}

// NormalizeColumnPositions renumbers columns sequentially from 0,
// preserving their current order
func (t *MetadataTable) NormalizeColumnPositions() {
	t.sortColumns()
	for i, c := range t.Columns {
		c.ColumnPosition = i
	}
	t.touch()
}

// ReorderColumnsBySchema lays the table out in SDRF section order:
// source name, characteristics, special, comment, factor value. Within
// each section, columns prescribed by the schema come first in schema
// order, followed by the remaining columns in their current order.
// Positions are rewritten sequentially from 0.
func (t *MetadataTable) ReorderColumnsBySchema(schemaCols []SchemaColumnRef) {
	t.sortColumns()

	bySection := make(map[ColumnSection][]*MetadataColumn)
	for _, c := range t.Columns {
		s := c.Section()
		bySection[s] = append(bySection[s], c)
	}

	ordered := make([]*MetadataColumn, 0, len(t.Columns))
	for _, section := range sectionOrder {
		cols := bySection[section]
		if len(cols) == 0 {
			continue
		}

		taken := make(map[uuid.UUID]bool, len(cols))

		// Schema-prescribed columns first, in schema order
		for _, ref := range schemaCols {
			for _, c := range cols {
				if !taken[c.ID] && c.Matches(ref) {
					taken[c.ID] = true
					ordered = append(ordered, c)
				}
			}
		}

		// Then the leftovers, keeping their relative order
		for _, c := range cols {
			if !taken[c.ID] {
				ordered = append(ordered, c)
			}
		}
	}

	for i, c := range ordered {
		c.ColumnPosition = i
	}
	t.Columns = ordered
	t.touch()
}

// AddColumnWithAutoReorder appends a column and restores the schema
// layout when the table has one; without schema columns it only
// normalizes positions.
func (t *MetadataTable) AddColumnWithAutoReorder(col *MetadataColumn, schemaCols []SchemaColumnRef) {
	t.AddColumn(col, len(t.Columns))

	if len(schemaCols) > 0 {
		t.ReorderColumnsBySchema(schemaCols)
	} else {
		t.NormalizeColumnPositions()
	}
}

func (t *MetadataTable) sortColumns() {
	sort.SliceStable(t.Columns, func(i, j int) bool {
		return t.Columns[i].ColumnPosition < t.Columns[j].ColumnPosition
	})
}

func (t *MetadataTable) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

package metadata

import (
	"strings"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Column types recognised by the SDRF layout engine. Anything else is
// treated as a special column.
const (
	ColumnTypeSourceName      = "source name"
	ColumnTypeCharacteristics = "characteristics"
	ColumnTypeComment         = "comment"
	ColumnTypeFactorValue     = "factor value"
)

// OntologyType identifies the vocabulary backing a column's values
type OntologyType string

const (
	OntologyNone         OntologyType = ""
	OntologySpecies      OntologyType = "species"
	OntologyTissue       OntologyType = "tissue"
	OntologyDisease      OntologyType = "human_disease"
	OntologyCellType     OntologyType = "cell_type"
	OntologyInstrument   OntologyType = "ms_instrument"
	OntologyModification OntologyType = "modification"
	OntologyUnimod       OntologyType = "unimod"
)

// ColumnModifier overrides the column default value for a sample range,
// e.g. {"samples": "1,3-5", "value": "liver"}.
type ColumnModifier struct {
	Samples string `json:"samples"`
	Value   string `json:"value"`
}

// MetadataColumn is a single column in a metadata table. Columns are
// ordered by ColumnPosition, which the owning table keeps dense and
// zero-based.
type MetadataColumn struct {
	shared.BaseEntity
	TableID        uuid.UUID
	Name           string
	Type           string
	ColumnPosition int
	Value          string
	Modifiers      []ColumnModifier
	OntologyType   OntologyType
	Mandatory      bool
	Hidden         bool
	Readonly       bool
	AutoGenerated  bool
	StaffOnly      bool
	NotApplicable  bool
}

// NewMetadataColumn creates a column with a normalised type
func NewMetadataColumn(name, columnType string) (*MetadataColumn, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_COLUMN_NAME", "Column name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_COLUMN_NAME", "Column name cannot exceed 255 characters")
	}

	return &MetadataColumn{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Type:       normalizeColumnType(columnType),
	}, nil
}

// SetValue sets the column default value
func (c *MetadataColumn) SetValue(value string) {
	c.Value = value
	c.UpdatedAt = time.Now()
}

// SetModifiers replaces the per-sample value overrides
func (c *MetadataColumn) SetModifiers(mods []ColumnModifier) {
	c.Modifiers = mods
	c.UpdatedAt = time.Now()
}

// Section returns the SDRF section this column sorts into
func (c *MetadataColumn) Section() ColumnSection {
	switch normalizeColumnType(c.Type) {
	case ColumnTypeSourceName:
		return SectionSourceName
	case ColumnTypeCharacteristics:
		return SectionCharacteristics
	case ColumnTypeComment:
		return SectionComment
	case ColumnTypeFactorValue:
		return SectionFactorValue
	default:
		return SectionSpecial
	}
}

// Matches reports whether the column corresponds to a schema column
// reference (case-insensitive name and type comparison)
func (c *MetadataColumn) Matches(ref SchemaColumnRef) bool {
	return strings.EqualFold(c.Name, ref.Name) &&
		normalizeColumnType(c.Type) == normalizeColumnType(ref.Type)
}

func normalizeColumnType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// ColumnSection is an SDRF layout section. Sections have a fixed order:
// source name, characteristics, special, comment, factor value.
type ColumnSection int

const (
	SectionSourceName ColumnSection = iota
	SectionCharacteristics
	SectionSpecial
	SectionComment
	SectionFactorValue
)

// sectionOrder lists sections in their SDRF layout order
var sectionOrder = []ColumnSection{
	SectionSourceName,
	SectionCharacteristics,
	SectionSpecial,
	SectionComment,
	SectionFactorValue,
}

// SchemaColumnRef identifies a column prescribed by a schema, in schema
// order. Used to sort matching table columns ahead of ad-hoc ones.
type SchemaColumnRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

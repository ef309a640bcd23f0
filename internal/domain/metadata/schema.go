package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cupcake/backend/internal/domain/shared"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LegacyNameMapping maps pre-1.0 schema names to their current names.
// Applied by the rename migration and by lookups of old names.
var LegacyNameMapping = map[string]string{
	"minimum":        "base",
	"default":        "ms-proteomics",
	"cell_lines":     "cell-lines",
	"nonvertebrates": "invertebrates",
}

// Schema is a named SDRF column schema. The definition file lives in
// object storage; the aggregate tracks its hash and size.
type Schema struct {
	shared.BaseAggregateRoot
	Name        string // unique, lowercase
	DisplayName string
	Description string
	IsBuiltin   bool
	IsActive    bool
	FileKey     string // object storage key of the definition file
	FileHash    string // sha256 of the definition file
	FileSize    int64
	UsageCount  int64
	Tags        []string
	Columns     []SchemaColumnRef
}

// NewSchema creates a schema with a normalised name
func NewSchema(name string) (*Schema, error) {
	name = NormalizeSchemaName(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SCHEMA_NAME", "Schema name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_SCHEMA_NAME", "Schema name cannot exceed 255 characters")
	}

	return &Schema{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		DisplayName:       DisplayNameFor(name),
		IsActive:          true,
		Tags:              make([]string, 0),
	}, nil
}

// SetDefinition records the stored definition file and computes its
// hash and size
func (s *Schema) SetDefinition(fileKey string, content []byte) {
	sum := sha256.Sum256(content)
	s.FileKey = fileKey
	s.FileHash = hex.EncodeToString(sum[:])
	s.FileSize = int64(len(content))
	s.touch()
}

// SetColumns replaces the ordered column references the schema prescribes
func (s *Schema) SetColumns(cols []SchemaColumnRef) {
	s.Columns = cols
	s.touch()
}

// SetDescription sets the free-text description
func (s *Schema) SetDescription(description string) {
	s.Description = description
	s.touch()
}

// SetTags replaces the schema tags
func (s *Schema) SetTags(tags []string) {
	s.Tags = tags
	s.touch()
}

// IncrementUsage bumps the usage counter
func (s *Schema) IncrementUsage() {
	s.UsageCount++
	s.touch()
}

// Rename changes the schema name and re-derives the display name
func (s *Schema) Rename(newName string) error {
	newName = NormalizeSchemaName(newName)
	if newName == "" {
		return shared.NewDomainError("INVALID_SCHEMA_NAME", "Schema name cannot be empty")
	}

	s.Name = newName
	s.DisplayName = DisplayNameFor(newName)
	s.touch()

	return nil
}

// Deactivate hides the schema from new tables without deleting it
func (s *Schema) Deactivate() {
	s.IsActive = false
	s.touch()
}

func (s *Schema) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// NormalizeSchemaName lowercases and trims a schema name
func NormalizeSchemaName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CanonicalSchemaName resolves legacy names to their current form
func CanonicalSchemaName(name string) string {
	name = NormalizeSchemaName(name)
	if mapped, ok := LegacyNameMapping[name]; ok {
		return mapped
	}
	return name
}

var titleCaser = cases.Title(language.English)

// DisplayNameFor derives a human-readable display name from a schema
// name: separators become spaces and words are title-cased
// ("ms-proteomics" -> "Ms Proteomics").
func DisplayNameFor(name string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return titleCaser.String(cleaned)
}

package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Allowed sort fields per listable aggregate. Sort input comes from query
// parameters, so anything not whitelisted here falls back to the default.

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"first_name":    true,
	"last_name":     true,
	"status":        true,
	"last_login_at": true,
}

// LabGroupSortFields contains allowed sort fields for lab groups
var LabGroupSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// MetadataTableSortFields contains allowed sort fields for metadata tables
var MetadataTableSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"sample_count": true,
	"is_published": true,
	"source_app":   true,
}

// InstrumentJobSortFields contains allowed sort fields for instrument jobs
var InstrumentJobSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"job_name":     true,
	"job_type":     true,
	"status":       true,
	"sample_count": true,
	"submitted_at": true,
	"completed_at": true,
}

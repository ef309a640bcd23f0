package shared

// ResourceVisibility controls who can discover a shareable resource
type ResourceVisibility string

const (
	// VisibilityPrivate restricts access to the owner and explicit grants
	VisibilityPrivate ResourceVisibility = "private"
	// VisibilityGroup extends access to members of the resource's lab group
	VisibilityGroup ResourceVisibility = "group"
	// VisibilityPublic makes the resource readable by any authenticated user
	VisibilityPublic ResourceVisibility = "public"
)

// IsValid reports whether the visibility is a known value
func (v ResourceVisibility) IsValid() bool {
	switch v {
	case VisibilityPrivate, VisibilityGroup, VisibilityPublic:
		return true
	}
	return false
}

// ResourceRole is the role a user holds on a specific resource
type ResourceRole string

const (
	RoleOwner  ResourceRole = "owner"
	RoleAdmin  ResourceRole = "admin"
	RoleEditor ResourceRole = "editor"
	RoleViewer ResourceRole = "viewer"
)

// IsValid reports whether the role is a known value
func (r ResourceRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// CanEdit reports whether the role grants write access
func (r ResourceRole) CanEdit() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleEditor
}

// CanDelete reports whether the role grants delete access
func (r ResourceRole) CanDelete() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanShare reports whether the role grants permission management
func (r ResourceRole) CanShare() bool {
	return r == RoleOwner || r == RoleAdmin
}

// ResourceType identifies the kind of resource a permission row refers to
type ResourceType string

const (
	ResourceMetadataTable ResourceType = "metadata_table"
	ResourceSchema        ResourceType = "schema"
	ResourceTemplate      ResourceType = "metadata_table_template"
	ResourceInstrumentJob ResourceType = "instrument_job"
)

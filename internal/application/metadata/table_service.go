package metadata

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/instruments"
	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TableService handles metadata table and column layout operations.
// Access rules depend on the table's owning application: instrument
// tables defer to the owning job's state, everything else follows the
// generic owner/role/visibility rules.
type TableService struct {
	tableRepo       metadata.TableRepository
	schemaRepo      metadata.SchemaRepository
	jobRepo         instruments.JobRepository
	userRepo        accounts.UserRepository
	groupRepo       accounts.LabGroupRepository
	permRepo        accounts.ResourcePermissionRepository
	logger          *zap.Logger
	platformMetrics *telemetry.PlatformMetrics
}

// SetPlatformMetrics sets the platform metrics collector
func (s *TableService) SetPlatformMetrics(pm *telemetry.PlatformMetrics) {
	s.platformMetrics = pm
}

// NewTableService creates a new metadata table service
func NewTableService(
	tableRepo metadata.TableRepository,
	schemaRepo metadata.SchemaRepository,
	jobRepo instruments.JobRepository,
	userRepo accounts.UserRepository,
	groupRepo accounts.LabGroupRepository,
	permRepo accounts.ResourcePermissionRepository,
	logger *zap.Logger,
) *TableService {
	return &TableService{
		tableRepo:  tableRepo,
		schemaRepo: schemaRepo,
		jobRepo:    jobRepo,
		userRepo:   userRepo,
		groupRepo:  groupRepo,
		permRepo:   permRepo,
		logger:     logger,
	}
}

// CreateTable creates a metadata table owned by the actor
func (s *TableService) CreateTable(ctx context.Context, input CreateTableInput) (*TableDTO, error) {
	if _, err := s.userRepo.FindByID(ctx, input.ActorID); err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}

	table, err := metadata.NewMetadataTable(input.Name, input.ActorID, input.SampleCount)
	if err != nil {
		return nil, err
	}

	table.Description = input.Description
	if input.SourceApp != nil {
		table.SourceApp = *input.SourceApp
	}
	if input.LabGroupID != nil {
		if _, err := s.groupRepo.FindByID(ctx, *input.LabGroupID); err != nil {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
		}
		table.SetLabGroup(input.LabGroupID)
	}
	if input.Visibility != nil {
		if err := table.SetVisibility(*input.Visibility); err != nil {
			return nil, err
		}
	}

	if err := s.tableRepo.Create(ctx, table); err != nil {
		s.logger.Error("Failed to create metadata table", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create metadata table")
	}

	s.logger.Info("Metadata table created",
		zap.String("table_id", table.ID.String()),
		zap.String("name", table.Name),
		zap.String("owner_id", input.ActorID.String()))
	if s.platformMetrics != nil {
		s.platformMetrics.RecordTableCreated(ctx)
	}

	dto := toTableDTO(table)
	return &dto, nil
}

// GetTable returns a table the actor is allowed to read
func (s *TableService) GetTable(ctx context.Context, actorID, tableID uuid.UUID) (*TableDTO, error) {
	table, actor, err := s.loadTableAndActor(ctx, tableID, actorID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canViewTable(ctx, table, actor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, shared.ErrForbidden
	}

	dto := toTableDTO(table)
	return &dto, nil
}

// ListTables returns the actor's discoverable tables. Non-staff callers
// are restricted to their own tables unless they filter by a lab group
// they belong to.
func (s *TableService) ListTables(ctx context.Context, input ListTablesInput) (*TableListResult, error) {
	actor, err := s.userRepo.FindByID(ctx, input.ActorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}

	filter := metadata.NewTableFilter().
		WithKeyword(input.Keyword).
		WithPagination(input.Page, input.PageSize)

	if input.SourceApp != nil {
		filter = filter.WithSourceApp(*input.SourceApp)
	}
	if input.Published != nil {
		filter.Published = input.Published
	}

	switch {
	case actor.IsStaff:
		if input.OwnerID != nil {
			filter = filter.WithOwner(*input.OwnerID)
		}
		if input.LabGroupID != nil {
			filter = filter.WithLabGroup(*input.LabGroupID)
		}
	case input.LabGroupID != nil:
		member, err := s.isGroupMember(ctx, *input.LabGroupID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, shared.ErrForbidden
		}
		filter = filter.WithLabGroup(*input.LabGroupID)
	default:
		filter = filter.WithOwner(actor.ID)
	}

	tables, total, err := s.tableRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list metadata tables", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list metadata tables")
	}

	dtos := make([]TableDTO, len(tables))
	for i, table := range tables {
		dtos[i] = toTableDTO(table)
	}

	return &TableListResult{
		Tables:     dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages(total, filter.Limit()),
	}, nil
}

// UpdateTable edits table attributes
func (s *TableService) UpdateTable(ctx context.Context, input UpdateTableInput) (*TableDTO, error) {
	table, actor, err := s.loadTableAndActor(ctx, input.TableID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEdit(ctx, table, actor); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := table.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		table.Description = *input.Description
	}
	if input.SampleCount != nil {
		if err := table.SetSampleCount(*input.SampleCount); err != nil {
			return nil, err
		}
	}
	if input.LabGroupID != nil {
		if _, err := s.groupRepo.FindByID(ctx, *input.LabGroupID); err != nil {
			return nil, shared.NewDomainError("GROUP_NOT_FOUND", "Lab group not found")
		}
		table.SetLabGroup(input.LabGroupID)
	}
	if input.Visibility != nil {
		if err := table.SetVisibility(*input.Visibility); err != nil {
			return nil, err
		}
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		s.logger.Error("Failed to update metadata table", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update metadata table")
	}

	dto := toTableDTO(table)
	return &dto, nil
}

// DeleteTable deletes a table and its columns
func (s *TableService) DeleteTable(ctx context.Context, actorID, tableID uuid.UUID) error {
	table, actor, err := s.loadTableAndActor(ctx, tableID, actorID)
	if err != nil {
		return err
	}

	allowed, err := s.canDeleteTable(ctx, table, actor)
	if err != nil {
		return err
	}
	if !allowed {
		return shared.ErrForbidden
	}

	if err := s.tableRepo.Delete(ctx, tableID); err != nil {
		s.logger.Error("Failed to delete metadata table", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete metadata table")
	}

	s.logger.Info("Metadata table deleted",
		zap.String("table_id", tableID.String()),
		zap.String("deleted_by", actorID.String()))

	return nil
}

// PublishTable marks the table published
func (s *TableService) PublishTable(ctx context.Context, actorID, tableID uuid.UUID) (*TableDTO, error) {
	table, actor, err := s.loadTableAndActor(ctx, tableID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEdit(ctx, table, actor); err != nil {
		return nil, err
	}

	table.Publish()

	if err := s.tableRepo.Update(ctx, table); err != nil {
		s.logger.Error("Failed to publish metadata table", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to publish metadata table")
	}

	s.logger.Info("Metadata table published", zap.String("table_id", tableID.String()))

	dto := toTableDTO(table)
	return &dto, nil
}

// ShareTable grants a user a role on the table
func (s *TableService) ShareTable(ctx context.Context, input ShareTableInput) error {
	table, actor, err := s.loadTableAndActor(ctx, input.TableID, input.ActorID)
	if err != nil {
		return err
	}

	role, err := s.findRole(ctx, table.ID, actor.ID)
	if err != nil {
		return err
	}
	access := accounts.ResourceAccess{OwnerID: table.OwnerID, Visibility: table.Visibility, IsLocked: table.IsLocked}
	if !access.CanShare(actor, role) {
		return shared.ErrForbidden
	}

	if _, err := s.userRepo.FindByID(ctx, input.UserID); err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "Target user not found")
	}

	perm, err := accounts.NewResourcePermission(shared.ResourceMetadataTable, table.ID, input.UserID, input.Role, actor.ID)
	if err != nil {
		return err
	}

	if err := s.permRepo.Save(ctx, perm); err != nil {
		s.logger.Error("Failed to save table permission", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to share metadata table")
	}

	s.logger.Info("Metadata table shared",
		zap.String("table_id", table.ID.String()),
		zap.String("user_id", input.UserID.String()),
		zap.String("role", string(input.Role)))

	return nil
}

// UnshareTable revokes a user's grant on the table
func (s *TableService) UnshareTable(ctx context.Context, actorID, tableID, userID uuid.UUID) error {
	table, actor, err := s.loadTableAndActor(ctx, tableID, actorID)
	if err != nil {
		return err
	}

	role, err := s.findRole(ctx, table.ID, actor.ID)
	if err != nil {
		return err
	}
	access := accounts.ResourceAccess{OwnerID: table.OwnerID, Visibility: table.Visibility, IsLocked: table.IsLocked}
	if !access.CanShare(actor, role) {
		return shared.ErrForbidden
	}

	perm, err := s.permRepo.Find(ctx, string(shared.ResourceMetadataTable), tableID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("PERMISSION_NOT_FOUND", "No grant exists for this user")
		}
		s.logger.Error("Failed to load table permission", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unshare metadata table")
	}

	if err := s.permRepo.Delete(ctx, perm.ID); err != nil {
		s.logger.Error("Failed to delete table permission", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unshare metadata table")
	}

	return nil
}

// AddColumn adds a column to the table. Without an explicit position the
// column is appended and the schema layout is restored.
func (s *TableService) AddColumn(ctx context.Context, input AddColumnInput) (*TableDTO, error) {
	table, actor, err := s.loadTableAndActor(ctx, input.TableID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEdit(ctx, table, actor); err != nil {
		return nil, err
	}
	if input.StaffOnly && !actor.IsStaff {
		return nil, shared.NewDomainError("STAFF_ONLY_COLUMN", "Only staff may create staff-only columns")
	}

	col, err := metadata.NewMetadataColumn(input.Name, input.Type)
	if err != nil {
		return nil, err
	}
	col.Value = input.Value
	col.OntologyType = input.OntologyType
	col.Mandatory = input.Mandatory
	col.Hidden = input.Hidden
	col.Readonly = input.Readonly
	col.StaffOnly = input.StaffOnly

	if input.Position != nil {
		table.AddColumn(col, *input.Position)
	} else {
		schemaCols, err := s.schemaColumnRefs(ctx, input.SchemaID)
		if err != nil {
			return nil, err
		}
		table.AddColumnWithAutoReorder(col, schemaCols)
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		s.logger.Error("Failed to add column", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add column")
	}

	dto := toTableDTO(table)
	return &dto, nil
}

// UpdateColumn edits a column's value, modifiers and flags
func (s *TableService) UpdateColumn(ctx context.Context, input UpdateColumnInput) (*TableDTO, error) {
	table, actor, err := s.loadTableAndActor(ctx, input.TableID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEdit(ctx, table, actor); err != nil {
		return nil, err
	}

	col := table.ColumnByID(input.ColumnID)
	if col == nil {
		return nil, shared.NewDomainError("COLUMN_NOT_FOUND", "Column not found")
	}
	if col.StaffOnly && !actor.IsStaff {
		return nil, shared.NewDomainError("STAFF_ONLY_COLUMN", "Only staff may edit staff-only columns")
	}
	if col.Readonly && !actor.IsStaff {
		return nil, shared.NewDomainError("READONLY_COLUMN", "Column is read-only")
	}

	if input.Value != nil {
		col.SetValue(*input.Value)
	}
	if input.Modifiers != nil {
		col.SetModifiers(input.Modifiers)
	}
	if input.Hidden != nil {
		col.Hidden = *input.Hidden
	}
	if input.NotApplicable != nil {
		col.NotApplicable = *input.NotApplicable
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		s.logger.Error("Failed to update column", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update column")
	}

	dto := toTableDTO(table)
	return &dto, nil
}

// MoveColumn moves a column to a new position
func (s *TableService) MoveColumn(ctx context.Context, input MoveColumnInput) (*TableDTO, error) {
	table, actor, err := s.loadTableAndActor(ctx, input.TableID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEdit(ctx, table, actor); err != nil {
		return nil, err
	}

	if err := table.MoveColumn(input.ColumnID, input.NewPosition); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("COLUMN_NOT_FOUND", "Column not found")
		}
		return nil, err
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		s.logger.Error("Failed to move column", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to move column")
	}

	dto := toTableDTO(table)
	return &dto, nil
}

// RemoveColumn deletes a column from the table
func (s *TableService) RemoveColumn(ctx context.Context, input RemoveColumnInput) (*TableDTO, error) {
	table, actor, err := s.loadTableAndActor(ctx, input.TableID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEdit(ctx, table, actor); err != nil {
		return nil, err
	}

	col := table.ColumnByID(input.ColumnID)
	if col == nil {
		return nil, shared.NewDomainError("COLUMN_NOT_FOUND", "Column not found")
	}
	if col.StaffOnly && !actor.IsStaff {
		return nil, shared.NewDomainError("STAFF_ONLY_COLUMN", "Only staff may remove staff-only columns")
	}

	if err := table.RemoveColumn(input.ColumnID); err != nil {
		return nil, err
	}

	if err := s.tableRepo.Update(ctx, table); err != nil {
		s.logger.Error("Failed to remove column", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to remove column")
	}

	dto := toTableDTO(table)
	return &dto, nil
}

// NormalizeColumns renumbers the table's columns sequentially from 0
func (s *TableService) NormalizeColumns(ctx context.Context, actorID, tableID uuid.UUID) (*TableDTO, error) {
	table, actor, err := s.loadTableAndActor(ctx, tableID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEdit(ctx, table, actor); err != nil {
		return nil, err
	}

	table.NormalizeColumnPositions()

	if err := s.tableRepo.Update(ctx, table); err != nil {
		s.logger.Error("Failed to normalize columns", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to normalize columns")
	}

	dto := toTableDTO(table)
	return &dto, nil
}

// ReorderBySchema lays the table out in SDRF section order with
// schema-prescribed columns first, and bumps the schema usage counter
func (s *TableService) ReorderBySchema(ctx context.Context, input ReorderBySchemaInput) (*TableDTO, error) {
	table, actor, err := s.loadTableAndActor(ctx, input.TableID, input.ActorID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEdit(ctx, table, actor); err != nil {
		return nil, err
	}

	schema, err := s.schemaRepo.FindByID(ctx, input.SchemaID)
	if err != nil {
		return nil, shared.NewDomainError("SCHEMA_NOT_FOUND", "Schema not found")
	}

	table.ReorderColumnsBySchema(schema.Columns)

	if err := s.tableRepo.Update(ctx, table); err != nil {
		s.logger.Error("Failed to reorder columns", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reorder columns")
	}

	// Don't fail the reorder - just log the error
	if err := s.schemaRepo.IncrementUsage(ctx, schema.ID); err != nil {
		s.logger.Error("Failed to bump schema usage", zap.Error(err))
	}

	dto := toTableDTO(table)
	return &dto, nil
}

func (s *TableService) loadTableAndActor(ctx context.Context, tableID, actorID uuid.UUID) (*metadata.MetadataTable, *accounts.User, error) {
	table, err := s.tableRepo.FindByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.NewDomainError("TABLE_NOT_FOUND", "Metadata table not found")
		}
		s.logger.Error("Failed to load metadata table", zap.Error(err))
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load metadata table")
	}

	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, nil, shared.NewDomainError("USER_NOT_FOUND", "Acting user not found")
	}

	return table, actor, nil
}

// canViewTable dispatches the read check by owning application
func (s *TableService) canViewTable(ctx context.Context, table *metadata.MetadataTable, actor *accounts.User) (bool, error) {
	if table.SourceApp == metadata.SourceAppCCM {
		job, err := s.findOwningJob(ctx, table.ID)
		if err != nil {
			return false, err
		}
		if job != nil {
			return job.CanViewMetadata(actor), nil
		}
	}

	role, err := s.findRole(ctx, table.ID, actor.ID)
	if err != nil {
		return false, err
	}
	sharesGroup, err := s.sharesTableGroup(ctx, table, actor.ID)
	if err != nil {
		return false, err
	}

	access := accounts.ResourceAccess{OwnerID: table.OwnerID, Visibility: table.Visibility, IsLocked: table.IsLocked}
	return access.CanView(actor, role, sharesGroup), nil
}

// canEditTable dispatches the write check by owning application
func (s *TableService) canEditTable(ctx context.Context, table *metadata.MetadataTable, actor *accounts.User) (bool, error) {
	if table.SourceApp == metadata.SourceAppCCM {
		job, err := s.findOwningJob(ctx, table.ID)
		if err != nil {
			return false, err
		}
		if job != nil {
			return job.CanEditMetadata(actor), nil
		}
	}

	role, err := s.findRole(ctx, table.ID, actor.ID)
	if err != nil {
		return false, err
	}

	access := accounts.ResourceAccess{OwnerID: table.OwnerID, Visibility: table.Visibility, IsLocked: table.IsLocked}
	return access.CanEdit(actor, role), nil
}

func (s *TableService) canDeleteTable(ctx context.Context, table *metadata.MetadataTable, actor *accounts.User) (bool, error) {
	if table.SourceApp == metadata.SourceAppCCM {
		job, err := s.findOwningJob(ctx, table.ID)
		if err != nil {
			return false, err
		}
		if job != nil {
			return job.CanDelete(actor), nil
		}
	}

	role, err := s.findRole(ctx, table.ID, actor.ID)
	if err != nil {
		return false, err
	}

	access := accounts.ResourceAccess{OwnerID: table.OwnerID, Visibility: table.Visibility, IsLocked: table.IsLocked}
	return access.CanDelete(actor, role), nil
}

func (s *TableService) requireEdit(ctx context.Context, table *metadata.MetadataTable, actor *accounts.User) error {
	allowed, err := s.canEditTable(ctx, table, actor)
	if err != nil {
		return err
	}
	if !allowed {
		return shared.ErrForbidden
	}
	return nil
}

// findOwningJob returns the job an instrument table belongs to, or nil
// when the link row is missing. Orphaned instrument tables fall back to
// the generic resource rules.
func (s *TableService) findOwningJob(ctx context.Context, tableID uuid.UUID) (*instruments.InstrumentJob, error) {
	job, err := s.jobRepo.FindByMetadataTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("Failed to load owning job", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check table access")
	}
	return job, nil
}

func (s *TableService) findRole(ctx context.Context, tableID, userID uuid.UUID) (*shared.ResourceRole, error) {
	perm, err := s.permRepo.Find(ctx, string(shared.ResourceMetadataTable), tableID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("Failed to load table permission", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check table access")
	}
	return &perm.Role, nil
}

// sharesTableGroup reports whether the user belongs to the table's lab
// group, counting membership anywhere in the group's subtree
func (s *TableService) sharesTableGroup(ctx context.Context, table *metadata.MetadataTable, userID uuid.UUID) (bool, error) {
	if table.LabGroupID == nil {
		return false, nil
	}

	return s.isGroupMember(ctx, *table.LabGroupID, userID)
}

func (s *TableService) isGroupMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	descendants, err := s.groupRepo.FindDescendantIDs(ctx, groupID)
	if err != nil {
		s.logger.Error("Failed to load lab group hierarchy", zap.Error(err))
		return false, shared.NewDomainError("INTERNAL_ERROR", "Failed to check group membership")
	}

	return s.groupRepo.IsDirectMemberOfAny(ctx, descendants, userID)
}

// schemaColumnRefs loads the column layout of the schema driving an auto
// reorder. A nil schema id means no layout.
func (s *TableService) schemaColumnRefs(ctx context.Context, schemaID *uuid.UUID) ([]metadata.SchemaColumnRef, error) {
	if schemaID == nil {
		return nil, nil
	}

	schema, err := s.schemaRepo.FindByID(ctx, *schemaID)
	if err != nil {
		return nil, shared.NewDomainError("SCHEMA_NOT_FOUND", "Schema not found")
	}

	return schema.Columns, nil
}

package persistence

import (
	"context"
	"errors"

	"github.com/cupcake/backend/internal/domain/metadata"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTableRepository implements TableRepository using GORM
type GormTableRepository struct {
	db *gorm.DB
}

// NewGormTableRepository creates a new GormTableRepository
func NewGormTableRepository(db *gorm.DB) *GormTableRepository {
	return &GormTableRepository{db: db}
}

// Create creates a new table with its columns
func (r *GormTableRepository) Create(ctx context.Context, table *metadata.MetadataTable) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.MetadataTableModelFromDomain(table)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return r.insertColumns(tx, table)
	})
}

// Update saves the table and replaces its column set. Column layout
// operations rewrite positions across many rows, so a full replace is
// simpler and safer than diffing.
func (r *GormTableRepository) Update(ctx context.Context, table *metadata.MetadataTable) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.MetadataTableModelFromDomain(table)
		result := tx.Save(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("table_id = ?", table.ID).
			Delete(&models.MetadataColumnModel{}).Error; err != nil {
			return err
		}
		return r.insertColumns(tx, table)
	})
}

// Delete deletes a table and its columns
func (r *GormTableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("table_id = ?", id).
			Delete(&models.MetadataColumnModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.MetadataTableModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID loads a table with columns ordered by position
func (r *GormTableRepository) FindByID(ctx context.Context, id uuid.UUID) (*metadata.MetadataTable, error) {
	var model models.MetadataTableModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	table := model.ToDomain()
	if err := r.loadColumns(ctx, table); err != nil {
		return nil, err
	}

	return table, nil
}

// FindAll returns tables matching the filter with pagination. List
// results carry their columns so callers can render layouts without a
// second round trip per table.
func (r *GormTableRepository) FindAll(ctx context.Context, filter metadata.TableFilter) ([]*metadata.MetadataTable, int64, error) {
	var tableModels []*models.MetadataTableModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.MetadataTableModel{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, MetadataTableSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)
	query = query.Order(sortBy + " " + sortOrder)
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&tableModels).Error; err != nil {
		return nil, 0, err
	}

	tables := make([]*metadata.MetadataTable, len(tableModels))
	for i, model := range tableModels {
		tables[i] = model.ToDomain()
		if err := r.loadColumns(ctx, tables[i]); err != nil {
			return nil, 0, err
		}
	}

	return tables, total, nil
}

// insertColumns writes the table's current column set
func (r *GormTableRepository) insertColumns(tx *gorm.DB, table *metadata.MetadataTable) error {
	if len(table.Columns) == 0 {
		return nil
	}

	columnModels := make([]*models.MetadataColumnModel, len(table.Columns))
	for i, col := range table.Columns {
		columnModels[i] = models.MetadataColumnModelFromDomain(col)
	}
	return tx.Create(&columnModels).Error
}

// loadColumns attaches the table's columns ordered by position
func (r *GormTableRepository) loadColumns(ctx context.Context, table *metadata.MetadataTable) error {
	var columnModels []*models.MetadataColumnModel
	if err := r.db.WithContext(ctx).
		Where("table_id = ?", table.ID).
		Order("column_position asc").
		Find(&columnModels).Error; err != nil {
		return err
	}

	columns := make([]*metadata.MetadataColumn, len(columnModels))
	for i, model := range columnModels {
		columns[i] = model.ToDomain()
	}
	table.Columns = columns

	return nil
}

// applyFilter applies filter options to the query
func (r *GormTableRepository) applyFilter(query *gorm.DB, filter metadata.TableFilter) *gorm.DB {
	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}

	if filter.LabGroupID != nil {
		query = query.Where("lab_group_id = ?", *filter.LabGroupID)
	}

	if filter.SourceApp != nil {
		query = query.Where("source_app = ?", string(*filter.SourceApp))
	}

	if filter.Visibility != nil {
		query = query.Where("visibility = ?", string(*filter.Visibility))
	}

	if filter.Published != nil {
		query = query.Where("is_published = ?", *filter.Published)
	}

	return query
}

// Ensure GormTableRepository implements TableRepository
var _ metadata.TableRepository = (*GormTableRepository)(nil)

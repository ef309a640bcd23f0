package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/cupcake/backend/internal/domain/instruments"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJobRepository implements JobRepository using GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Create creates a new job with its staff assignments
func (r *GormJobRepository) Create(ctx context.Context, job *instruments.InstrumentJob) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.InstrumentJobModelFromDomain(job)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return insertAssignments(tx, job)
	})
}

// Update saves the job and replaces its staff assignments
func (r *GormJobRepository) Update(ctx context.Context, job *instruments.InstrumentJob) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.InstrumentJobModelFromDomain(job)
		result := tx.Save(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("job_id = ?", job.ID).
			Delete(&models.JobStaffAssignmentModel{}).Error; err != nil {
			return err
		}
		return insertAssignments(tx, job)
	})
}

// Delete deletes a job and its staff assignments
func (r *GormJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).
			Delete(&models.JobStaffAssignmentModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.InstrumentJobModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID loads a job with its assigned staff
func (r *GormJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*instruments.InstrumentJob, error) {
	var model models.InstrumentJobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	job := model.ToDomain()
	if err := r.loadAssignments(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// FindByMetadataTable returns the job a metadata table belongs to
func (r *GormJobRepository) FindByMetadataTable(ctx context.Context, tableID uuid.UUID) (*instruments.InstrumentJob, error) {
	var model models.InstrumentJobModel
	if err := r.db.WithContext(ctx).
		Where("metadata_table_id = ?", tableID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	job := model.ToDomain()
	if err := r.loadAssignments(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// FindAll returns jobs matching the filter with pagination
func (r *GormJobRepository) FindAll(ctx context.Context, filter instruments.JobFilter) ([]*instruments.InstrumentJob, int64, error) {
	var jobModels []*models.InstrumentJobModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.InstrumentJobModel{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, InstrumentJobSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)
	query = query.Order("instrument_jobs." + sortBy + " " + sortOrder)
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&jobModels).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]*instruments.InstrumentJob, len(jobModels))
	for i, model := range jobModels {
		jobs[i] = model.ToDomain()
		if err := r.loadAssignments(ctx, jobs[i]); err != nil {
			return nil, 0, err
		}
	}

	return jobs, total, nil
}

// insertAssignments writes the job's current staff assignments
func insertAssignments(tx *gorm.DB, job *instruments.InstrumentJob) error {
	if len(job.AssignedStaff) == 0 {
		return nil
	}

	assignments := make([]models.JobStaffAssignmentModel, len(job.AssignedStaff))
	for i, userID := range job.AssignedStaff {
		assignments[i] = models.JobStaffAssignmentModel{
			JobID:     job.ID,
			UserID:    userID,
			CreatedAt: time.Now(),
		}
	}
	return tx.Create(&assignments).Error
}

// loadAssignments attaches the job's assigned staff ids
func (r *GormJobRepository) loadAssignments(ctx context.Context, job *instruments.InstrumentJob) error {
	var userIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.JobStaffAssignmentModel{}).
		Where("job_id = ?", job.ID).
		Order("created_at asc").
		Pluck("user_id", &userIDs).Error; err != nil {
		return err
	}

	job.AssignedStaff = userIDs
	if job.AssignedStaff == nil {
		job.AssignedStaff = make([]uuid.UUID, 0)
	}

	return nil
}

// applyFilter applies filter options to the query
func (r *GormJobRepository) applyFilter(query *gorm.DB, filter instruments.JobFilter) *gorm.DB {
	if filter.Keyword != "" {
		searchPattern := "%" + filter.Keyword + "%"
		query = query.Where("job_name ILIKE ? OR job_type ILIKE ?", searchPattern, searchPattern)
	}

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}

	if filter.InstrumentID != nil {
		query = query.Where("instrument_id = ?", *filter.InstrumentID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	if filter.AssignedTo != nil {
		query = query.Joins("JOIN job_staff_assignments ON instrument_jobs.id = job_staff_assignments.job_id").
			Where("job_staff_assignments.user_id = ?", *filter.AssignedTo)
	}

	return query
}

// Ensure GormJobRepository implements JobRepository
var _ instruments.JobRepository = (*GormJobRepository)(nil)

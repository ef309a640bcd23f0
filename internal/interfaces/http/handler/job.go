package handler

import (
	"context"

	instrumentsapp "github.com/cupcake/backend/internal/application/instruments"
	"github.com/cupcake/backend/internal/domain/instruments"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobHandler handles instrument job endpoints
type JobHandler struct {
	BaseHandler
	jobService *instrumentsapp.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *instrumentsapp.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// CreateJobRequest creates a draft instrument job
type CreateJobRequest struct {
	InstrumentID string `json:"instrument_id" binding:"required,uuid"`
	JobName      string `json:"job_name" binding:"required,min=1,max=255"`
	JobType      string `json:"job_type" binding:"max=100"`
	SampleCount  int    `json:"sample_count" binding:"required,min=1"`
}

// UpdateJobRequest edits a draft job
type UpdateJobRequest struct {
	JobName     *string `json:"job_name" binding:"omitempty,min=1,max=255"`
	JobType     *string `json:"job_type" binding:"omitempty,max=100"`
	SampleCount *int    `json:"sample_count" binding:"omitempty,min=1"`
}

// AssignStaffRequest assigns or unassigns a staff member on a job
type AssignStaffRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// SetBillableHoursRequest records billable time on a job
type SetBillableHoursRequest struct {
	InstrumentHours float64 `json:"instrument_hours" binding:"min=0"`
	PersonnelHours  float64 `json:"personnel_hours" binding:"min=0"`
}

// AttachMetadataTableRequest creates and links a sample metadata table
type AttachMetadataTableRequest struct {
	TableName string `json:"table_name" binding:"required,min=1,max=255"`
}

// ListJobsQuery contains job list filters
type ListJobsQuery struct {
	Search       string `form:"search"`
	InstrumentID string `form:"instrument_id" binding:"omitempty,uuid"`
	Status       string `form:"status" binding:"omitempty,oneof=draft submitted pending in_progress completed cancelled"`
	AssignedToMe bool   `form:"assigned_to_me"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size" binding:"omitempty,max=100"`
}

// Create creates a draft job on an enabled instrument
func (h *JobHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	instrumentID, err := uuid.Parse(req.InstrumentID)
	if err != nil {
		h.BadRequest(c, "Invalid instrument ID format")
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), instrumentsapp.CreateJobInput{
		ActorID:      actorID,
		InstrumentID: instrumentID,
		JobName:      req.JobName,
		JobType:      req.JobType,
		SampleCount:  req.SampleCount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, job)
}

// GetByID returns a single job
func (h *JobHandler) GetByID(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), actorID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// List returns a filtered page of jobs visible to the caller
func (h *JobHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query ListJobsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := instrumentsapp.ListJobsInput{
		ActorID:      actorID,
		Keyword:      query.Search,
		AssignedToMe: query.AssignedToMe,
		Page:         query.Page,
		PageSize:     query.PageSize,
	}
	if query.InstrumentID != "" {
		instrumentID, err := uuid.Parse(query.InstrumentID)
		if err != nil {
			h.BadRequest(c, "Invalid instrument ID format")
			return
		}
		input.InstrumentID = &instrumentID
	}
	if query.Status != "" {
		status := instruments.JobStatus(query.Status)
		input.Status = &status
	}
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 {
		input.PageSize = 20
	}

	result, err := h.jobService.ListJobs(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Jobs, result.Total, result.Page, result.PageSize)
}

// Update edits a draft job
func (h *JobHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), instrumentsapp.UpdateJobInput{
		ActorID:     actorID,
		JobID:       jobID,
		JobName:     req.JobName,
		JobType:     req.JobType,
		SampleCount: req.SampleCount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// Delete removes a job. Only staff or the owner of a draft may delete.
func (h *JobHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), actorID, jobID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Submit moves a draft job into the submitted state
func (h *JobHandler) Submit(c *gin.Context) {
	h.transition(c, h.jobService.SubmitJob)
}

// Accept moves a submitted job into the pending state (staff only)
func (h *JobHandler) Accept(c *gin.Context) {
	h.transition(c, h.jobService.AcceptJob)
}

// Start moves a pending job into the in_progress state (staff only)
func (h *JobHandler) Start(c *gin.Context) {
	h.transition(c, h.jobService.StartJob)
}

// Complete finishes an in_progress job, filling missing end times
func (h *JobHandler) Complete(c *gin.Context) {
	h.transition(c, h.jobService.CompleteJob)
}

// Cancel cancels a non-terminal job
func (h *JobHandler) Cancel(c *gin.Context) {
	h.transition(c, h.jobService.CancelJob)
}

// AssignStaff assigns a staff member to a job (staff only)
func (h *JobHandler) AssignStaff(c *gin.Context) {
	h.assignment(c, h.jobService.AssignStaff)
}

// UnassignStaff removes a staff member from a job (staff only)
func (h *JobHandler) UnassignStaff(c *gin.Context) {
	h.assignment(c, h.jobService.UnassignStaff)
}

// SetBillableHours records instrument and personnel time on a job
func (h *JobHandler) SetBillableHours(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req SetBillableHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.jobService.SetBillableHours(c.Request.Context(), instrumentsapp.SetBillableHoursInput{
		ActorID:         actorID,
		JobID:           jobID,
		InstrumentHours: decimal.NewFromFloat(req.InstrumentHours),
		PersonnelHours:  decimal.NewFromFloat(req.PersonnelHours),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

// AttachMetadataTable creates a sample metadata table and links it to
// the job.
func (h *JobHandler) AttachMetadataTable(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req AttachMetadataTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	job, err := h.jobService.AttachMetadataTable(c.Request.Context(), instrumentsapp.AttachMetadataTableInput{
		ActorID:   actorID,
		JobID:     jobID,
		TableName: req.TableName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

func (h *JobHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, actorID, jobID uuid.UUID) (*instrumentsapp.JobDTO, error),
) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	job, err := fn(c.Request.Context(), actorID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

func (h *JobHandler) assignment(
	c *gin.Context,
	fn func(ctx context.Context, input instrumentsapp.AssignStaffInput) (*instrumentsapp.JobDTO, error),
) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	job, err := fn(c.Request.Context(), instrumentsapp.AssignStaffInput{
		ActorID: actorID,
		JobID:   jobID,
		UserID:  userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, job)
}

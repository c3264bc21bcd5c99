package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/resume-screener/internal/dtos"
	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type JobStore interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	GetJob(ctx context.Context, id uint) (*models.Job, error)
	CreateJob(ctx context.Context, req *dtos.JobRequest) (*models.Job, error)
	UpdateJob(ctx context.Context, id uint, req *dtos.JobRequest) (*models.Job, error)
	DeleteJob(ctx context.Context, id uint) error
}

type CandidateExporter interface {
	WriteJobCandidates(ctx context.Context, jobID uint, w io.Writer) (string, error)
}

type JobHandler struct {
	JobService    JobStore
	ExportService CandidateExporter
	Log           *logrus.Logger
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(jobs JobStore, export CandidateExporter, log *logrus.Logger) *JobHandler {
	return &JobHandler{
		JobService:    jobs,
		ExportService: export,
		Log:           log,
	}
}

// ListJobs godoc
// @Summary List jobs
// @Description All jobs with their interviewers and candidates, newest first
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Job
// @Failure 401 {object} dtos.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.ListJobs(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob godoc
// @Summary Get a job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} models.Job
// @Failure 404 {object} dtos.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	job, err := h.JobService.GetJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob godoc
// @Summary Create a job
// @Description Creates the job and, optionally, its interviewers in one transaction
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param job body dtos.JobRequest true "Job"
// @Success 201 {object} models.Job
// @Failure 400 {object} dtos.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob godoc
// @Summary Update a job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param job body dtos.JobRequest true "Job"
// @Success 200 {object} models.Job
// @Failure 400 {object} dtos.ErrorResponse
// @Failure 404 {object} dtos.ErrorResponse
// @Router /jobs/{id} [put]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.JobService.UpdateJob(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DeleteJob godoc
// @Summary Delete a job
// @Description Deletes the job together with its interviewers and candidates
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} dtos.MessageResponse
// @Failure 404 {object} dtos.ErrorResponse
// @Router /jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.JobService.DeleteJob(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Job deleted successfully"})
}

// ExportCandidates godoc
// @Summary Export ranked candidates
// @Description XLSX workbook of the job's candidates ranked by match score
// @Tags jobs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {file} file
// @Failure 404 {object} dtos.ErrorResponse
// @Router /jobs/{id}/candidates/export [get]
func (h *JobHandler) ExportCandidates(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	name, err := h.ExportService.WriteJobCandidates(c.Request.Context(), id, &buf)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

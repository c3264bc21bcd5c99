package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/resume-screener/internal/dtos"
	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/sirupsen/logrus"
)

type InterviewerStore interface {
	List(ctx context.Context, jobID *uint) ([]models.Interviewer, error)
	Get(ctx context.Context, id uint) (*models.Interviewer, error)
	Create(ctx context.Context, req *dtos.InterviewerRequest) (*models.Interviewer, error)
	ReplaceForJob(ctx context.Context, jobID uint, inputs []dtos.InterviewerInput) ([]models.Interviewer, error)
	Delete(ctx context.Context, id uint) error
}

type InterviewerHandler struct {
	InterviewerService InterviewerStore
	Log                *logrus.Logger
}

func NewInterviewerHandler(interviewers InterviewerStore, log *logrus.Logger) *InterviewerHandler {
	return &InterviewerHandler{InterviewerService: interviewers, Log: log}
}

// ListInterviewers godoc
// @Summary List interviewers
// @Tags interviewers
// @Produce json
// @Security BearerAuth
// @Param jobId query int false "Only interviewers of this job"
// @Success 200 {array} models.Interviewer
// @Router /interviewers [get]
func (h *InterviewerHandler) ListInterviewers(c *gin.Context) {
	jobID, ok := queryJobID(c)
	if !ok {
		return
	}
	interviewers, err := h.InterviewerService.List(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, interviewers)
}

// GetInterviewer godoc
// @Summary Get an interviewer
// @Tags interviewers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interviewer ID"
// @Success 200 {object} models.Interviewer
// @Failure 404 {object} dtos.ErrorResponse
// @Router /interviewers/{id} [get]
func (h *InterviewerHandler) GetInterviewer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	interviewer, err := h.InterviewerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, interviewer)
}

// CreateInterviewer godoc
// @Summary Create an interviewer
// @Tags interviewers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param interviewer body dtos.InterviewerRequest true "Interviewer"
// @Success 201 {object} models.Interviewer
// @Failure 400 {object} dtos.ErrorResponse
// @Router /interviewers [post]
func (h *InterviewerHandler) CreateInterviewer(c *gin.Context) {
	var req dtos.InterviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	interviewer, err := h.InterviewerService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, interviewer)
}

// ReplaceInterviewers godoc
// @Summary Replace the interviewers of a job
// @Description The path id is the JOB id. All existing interviewers of that job are replaced in one transaction.
// @Tags interviewers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param body body dtos.ReplaceInterviewersRequest true "New interviewer set"
// @Success 200 {array} models.Interviewer
// @Failure 400 {object} dtos.ErrorResponse
// @Failure 404 {object} dtos.ErrorResponse
// @Router /interviewers/{id} [put]
func (h *InterviewerHandler) ReplaceInterviewers(c *gin.Context) {
	jobID, ok := pathID(c)
	if !ok {
		return
	}
	var req dtos.ReplaceInterviewersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	interviewers, err := h.InterviewerService.ReplaceForJob(c.Request.Context(), jobID, req.Interviewers)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, interviewers)
}

// DeleteInterviewer godoc
// @Summary Delete an interviewer
// @Tags interviewers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Interviewer ID"
// @Success 200 {object} dtos.MessageResponse
// @Failure 404 {object} dtos.ErrorResponse
// @Router /interviewers/{id} [delete]
func (h *InterviewerHandler) DeleteInterviewer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.InterviewerService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Interviewer deleted successfully"})
}

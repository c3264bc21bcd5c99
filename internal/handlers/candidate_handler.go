package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/resume-screener/internal/dtos"
	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/sirupsen/logrus"
)

type CandidateStore interface {
	List(ctx context.Context, jobID *uint) ([]models.Candidate, error)
	Get(ctx context.Context, id uint) (*models.Candidate, error)
	CreateFromRequest(ctx context.Context, req *dtos.CandidateRequest) (*models.Candidate, error)
	Update(ctx context.Context, id uint, req *dtos.CandidateRequest) (*models.Candidate, error)
	Delete(ctx context.Context, id uint) error
}

type CandidateHandler struct {
	CandidateService CandidateStore
	Log              *logrus.Logger
}

func NewCandidateHandler(candidates CandidateStore, log *logrus.Logger) *CandidateHandler {
	return &CandidateHandler{CandidateService: candidates, Log: log}
}

// ListCandidates godoc
// @Summary List candidates
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param jobId query int false "Only candidates of this job"
// @Success 200 {array} models.Candidate
// @Failure 400 {object} dtos.ErrorResponse
// @Router /candidates [get]
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	jobID, ok := queryJobID(c)
	if !ok {
		return
	}
	candidates, err := h.CandidateService.List(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// GetCandidate godoc
// @Summary Get a candidate
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Candidate ID"
// @Success 200 {object} models.Candidate
// @Failure 404 {object} dtos.ErrorResponse
// @Router /candidates/{id} [get]
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	candidate, err := h.CandidateService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// CreateCandidate godoc
// @Summary Create a candidate
// @Description resumeData must be a JSON object; jobId must reference an existing job
// @Tags candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param candidate body dtos.CandidateRequest true "Candidate"
// @Success 201 {object} models.Candidate
// @Failure 400 {object} dtos.ErrorResponse
// @Router /candidates [post]
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req dtos.CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	candidate, err := h.CandidateService.CreateFromRequest(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, candidate)
}

// UpdateCandidate godoc
// @Summary Update a candidate
// @Tags candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Candidate ID"
// @Param candidate body dtos.CandidateRequest true "Candidate"
// @Success 200 {object} models.Candidate
// @Failure 400 {object} dtos.ErrorResponse
// @Failure 404 {object} dtos.ErrorResponse
// @Router /candidates/{id} [put]
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dtos.CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	candidate, err := h.CandidateService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// DeleteCandidate godoc
// @Summary Delete a candidate
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Candidate ID"
// @Success 200 {object} dtos.MessageResponse
// @Failure 404 {object} dtos.ErrorResponse
// @Router /candidates/{id} [delete]
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.CandidateService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, dtos.MessageResponse{Message: "Candidate deleted successfully"})
}

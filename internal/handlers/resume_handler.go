package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/resume-screener/internal/dtos"
	"github.com/justsurfingit/resume-screener/internal/ingestion"
	"github.com/justsurfingit/resume-screener/internal/services"
	"github.com/sirupsen/logrus"
)

type ResumeAnalyzer interface {
	Analyze(ctx context.Context, in services.AnalyzeInput) (*services.AnalyzeResult, error)
}

type ResumeHandler struct {
	ExtractionService ResumeAnalyzer
	Log               *logrus.Logger
}

func NewResumeHandler(analyzer ResumeAnalyzer, log *logrus.Logger) *ResumeHandler {
	return &ResumeHandler{ExtractionService: analyzer, Log: log}
}

// AnalyzeResume godoc
// @Summary Extract a structured resume
// @Description Accepts either multipart/form-data with a "file" (pdf, docx, txt) and optional "jobId",
// @Description or JSON {resumeText, jobId}. With a jobId the result carries job_match_analysis and
// @Description the candidate is saved against the job.
// @Tags resumes
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file false "Resume document"
// @Param jobId formData int false "Job to match against"
// @Param body body dtos.AnalyzeResumeRequest false "Resume text"
// @Success 200 {object} dtos.AnalyzeResumeResponse
// @Failure 400 {object} dtos.ErrorResponse
// @Failure 404 {object} dtos.ErrorResponse
// @Failure 422 {object} dtos.ErrorResponse
// @Failure 502 {object} dtos.ErrorResponse
// @Router /resumes/analyze [post]
func (h *ResumeHandler) AnalyzeResume(c *gin.Context) {
	var in services.AnalyzeInput
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		parsed, err := h.multipartInput(c)
		if err != nil {
			respondError(c, h.Log, err)
			return
		}
		in = *parsed
	} else {
		var req dtos.AnalyzeResumeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		in = services.AnalyzeInput{ResumeText: req.ResumeText, JobID: req.JobID}
	}

	result, err := h.ExtractionService.Analyze(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, dtos.AnalyzeResumeResponse{
		Success:     true,
		Data:        result.Resume,
		CandidateID: result.CandidateID,
		Warning:     result.Warning,
	})
}

func (h *ResumeHandler) multipartInput(c *gin.Context) (*services.AnalyzeInput, error) {
	in := &services.AnalyzeInput{}

	if raw := c.PostForm("jobId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid jobId %q: %w", raw, services.ErrValidation)
		}
		jobID := uint(id)
		in.JobID = &jobID
	}

	header, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file is required: %w", services.ErrValidation)
	}
	if header.Size > ingestion.MaxFileSize {
		return nil, ingestion.ErrTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, ingestion.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	text, err := ingestion.ExtractText(header.Filename, data)
	if err != nil {
		return nil, err
	}
	in.ResumeText = text
	in.File = &services.UploadedFile{Name: header.Filename, Data: data}
	return in, nil
}

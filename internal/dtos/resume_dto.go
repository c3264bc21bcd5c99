package dtos

import "github.com/justsurfingit/resume-screener/internal/resume"

// AnalyzeResumeRequest is the JSON variant of POST /api/resumes/analyze.
// The multipart variant carries a "file" part and an optional "jobId" field.
type AnalyzeResumeRequest struct {
	ResumeText string `json:"resumeText" binding:"required"`
	JobID      *uint  `json:"jobId"`
}

type AnalyzeResumeResponse struct {
	Success     bool          `json:"success"`
	Data        resume.Resume `json:"data" swaggertype:"object"`
	CandidateID *uint         `json:"candidateId,omitempty"`
	Warning     string        `json:"warning,omitempty"`
}

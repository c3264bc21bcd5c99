package dtos

import "encoding/json"

type CandidateRequest struct {
	JobID      uint            `json:"jobId" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	Location   string          `json:"location" binding:"required"`
	ResumeData json.RawMessage `json:"resumeData" binding:"required"`
}

type InterviewerRequest struct {
	JobID      uint   `json:"jobId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Department string `json:"department" binding:"required"`
}

// ReplaceInterviewersRequest swaps the whole interviewer set of a job.
type ReplaceInterviewersRequest struct {
	Interviewers []InterviewerInput `json:"interviewers" binding:"required,dive"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

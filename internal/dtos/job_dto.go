package dtos

type InterviewerInput struct {
	Name       string `json:"name" binding:"required"`
	Department string `json:"department" binding:"required"`
}

// JobRequest is the body of POST /api/jobs and PUT /api/jobs/:id.
type JobRequest struct {
	Title               string   `json:"title" binding:"required"`
	Location            string   `json:"location" binding:"required"`
	TeamDescription     string   `json:"teamDescription" binding:"required"`
	JobDescription      string   `json:"jobDescription" binding:"required"`
	Responsibilities    []string `json:"responsibilities" binding:"required"`
	RecruitmentTeamName string   `json:"recruitmentTeamName" binding:"required"`
	RecruitmentManager  string   `json:"recruitmentManager" binding:"required"`

	// Optional, created in the same transaction as the job. Ignored on update.
	Interviewers []InterviewerInput `json:"interviewers" binding:"omitempty,dive"`
}

package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title               string         `gorm:"not null" json:"title"`
	Location            string         `gorm:"not null" json:"location"`
	TeamDescription     string         `gorm:"type:text" json:"teamDescription"`
	JobDescription      string         `gorm:"type:text" json:"jobDescription"`
	Responsibilities    pq.StringArray `gorm:"type:text[]" json:"responsibilities"`
	RecruitmentTeamName string         `json:"recruitmentTeamName"`
	RecruitmentManager  string         `json:"recruitmentManager"`

	// Children go away with the job (ON DELETE CASCADE).
	Interviewers []Interviewer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"interviewers,omitempty"`
	Candidates   []Candidate   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"candidates,omitempty"`
}

type Interviewer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	JobID      uint   `gorm:"not null;index" json:"jobId"`
	Job        *Job   `json:"job,omitempty"`
	Name       string `gorm:"not null" json:"name"`
	Department string `gorm:"not null" json:"department"`
}

type Candidate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	JobID    uint   `gorm:"not null;index" json:"jobId"`
	Job      *Job   `json:"job,omitempty"`
	Name     string `gorm:"not null" json:"name"`
	Location string `json:"location"`

	// ResumeData is the normalized extraction record, stored as jsonb.
	ResumeData datatypes.JSON `gorm:"type:jsonb" json:"resumeData"`
	// ResumeFileKey points at the archived upload, when archiving is enabled.
	ResumeFileKey string `json:"resumeFileKey,omitempty"`
}

// ProcessedEmail marks a Gmail message whose attachments were already imported.
type ProcessedEmail struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	JobID     *uint     `json:"jobId,omitempty"`
	Imported  int       `json:"imported"`
}

// ImportedAttachment records an attachment that already became a candidate,
// so a message retried after a partial failure does not import it twice.
type ImportedAttachment struct {
	MessageID   string    `gorm:"primaryKey" json:"messageId"`
	PartKey     string    `gorm:"primaryKey" json:"partKey"`
	CandidateID uint      `gorm:"not null" json:"candidateId"`
	CreatedAt   time.Time `json:"createdAt"`
}

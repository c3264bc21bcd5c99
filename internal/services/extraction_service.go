package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/justsurfingit/resume-screener/internal/llm"
	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/justsurfingit/resume-screener/internal/resume"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// SaveFailedWarning is reported when extraction worked but persisting failed.
const SaveFailedWarning = "analysis succeeded, but candidate could not be saved"

// maxResumeChars bounds the prompt; anything longer is noise for the model.
const maxResumeChars = 20000

type JobContextLoader interface {
	JobContext(ctx context.Context, id uint) (*resume.JobContext, error)
}

type CandidateCreator interface {
	Create(ctx context.Context, c *models.Candidate) error
}

// Archiver stores the original upload and returns its key.
type Archiver interface {
	Archive(ctx context.Context, jobID uint, filename string, data []byte) (string, error)
}

type UploadedFile struct {
	Name string
	Data []byte
}

type AnalyzeInput struct {
	ResumeText string
	JobID      *uint
	File       *UploadedFile
}

type AnalyzeResult struct {
	Resume      resume.Resume
	CandidateID *uint
	Warning     string
}

type ExtractionService struct {
	Jobs       JobContextLoader
	Generator  llm.Generator
	Candidates CandidateCreator
	Archive    Archiver // optional
	Log        *logrus.Logger
}

func NewExtractionService(jobs JobContextLoader, gen llm.Generator, candidates CandidateCreator, archive Archiver, log *logrus.Logger) *ExtractionService {
	return &ExtractionService{
		Jobs:       jobs,
		Generator:  gen,
		Candidates: candidates,
		Archive:    archive,
		Log:        log,
	}
}

// Analyze extracts a structured resume and, when a job is given and the
// model found personal information, records the candidate against that job.
func (s *ExtractionService) Analyze(ctx context.Context, in AnalyzeInput) (*AnalyzeResult, error) {
	text := strings.TrimSpace(in.ResumeText)
	if text == "" {
		return nil, fmt.Errorf("resume text is empty: %w", ErrValidation)
	}
	if len(text) > maxResumeChars {
		text = strings.ToValidUTF8(text[:maxResumeChars], "")
	}

	var job *resume.JobContext
	if in.JobID != nil {
		jc, err := s.Jobs.JobContext(ctx, *in.JobID)
		if err != nil {
			return nil, err
		}
		job = jc
	}

	logger := s.Log.WithField("jobId", jobIDField(in.JobID))
	logger.Info("Analyzing resume with LLM...")

	reply, err := s.Generator.Generate(ctx, resume.BuildPrompt(text, job))
	if err != nil {
		logger.WithError(err).Error("LLM generation failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	record, err := resume.Normalize(reply)
	if err != nil {
		logger.WithError(err).WithField("replyChars", len(reply)).Warn("LLM reply was not usable JSON")
		return nil, err
	}

	result := &AnalyzeResult{Resume: record.Resume}
	if job == nil || !record.Resume.HasPersonalInformation() {
		return result, nil
	}

	id, err := s.saveCandidate(ctx, job.ID, record, in.File)
	if err != nil {
		logger.WithError(err).Error("failed to save candidate from resume")
		result.Warning = SaveFailedWarning
		return result, nil
	}
	result.CandidateID = &id
	return result, nil
}

func (s *ExtractionService) saveCandidate(ctx context.Context, jobID uint, record *resume.Record, file *UploadedFile) (uint, error) {
	data, err := record.JSON()
	if err != nil {
		return 0, fmt.Errorf("encode resume: %w", err)
	}
	r := record.Resume

	c := &models.Candidate{
		JobID:      jobID,
		Name:       orUnknown(r.PersonalInformation.Name.String()),
		Location:   orUnknown(r.PersonalInformation.City.String()),
		ResumeData: datatypes.JSON(data),
	}

	if s.Archive != nil && file != nil && len(file.Data) > 0 {
		key, err := s.Archive.Archive(ctx, jobID, file.Name, file.Data)
		if err != nil {
			// Best effort: the candidate is saved without a file key.
			s.Log.WithError(err).WithField("file", file.Name).Warn("failed to archive resume file")
		} else {
			c.ResumeFileKey = key
		}
	}

	if err := s.Candidates.Create(ctx, c); err != nil {
		return 0, err
	}
	return c.ID, nil
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}

func jobIDField(id *uint) any {
	if id == nil {
		return nil
	}
	return *id
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/justsurfingit/resume-screener/internal/dtos"
	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Publisher emits domain events. A nil Publisher disables events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type CandidateService struct {
	DB     *gorm.DB
	Events Publisher
	Log    *logrus.Logger
}

func NewCandidateService(db *gorm.DB, events Publisher, log *logrus.Logger) *CandidateService {
	return &CandidateService{DB: db, Events: events, Log: log}
}

// List returns candidates with their job, optionally filtered by job id.
func (s *CandidateService) List(ctx context.Context, jobID *uint) ([]models.Candidate, error) {
	q := s.DB.WithContext(ctx).Preload("Job").Order("created_at DESC")
	if jobID != nil {
		q = q.Where("job_id = ?", *jobID)
	}

	var candidates []models.Candidate
	if err := q.Find(&candidates).Error; err != nil {
		return nil, translate(err, "list candidates")
	}
	return candidates, nil
}

func (s *CandidateService) Get(ctx context.Context, id uint) (*models.Candidate, error) {
	var c models.Candidate
	if err := s.DB.WithContext(ctx).Preload("Job").First(&c, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("candidate %d", id))
	}
	return &c, nil
}

// CreateFromRequest validates resumeData and inserts the candidate.
func (s *CandidateService) CreateFromRequest(ctx context.Context, req *dtos.CandidateRequest) (*models.Candidate, error) {
	data, err := objectJSON(req.ResumeData)
	if err != nil {
		return nil, err
	}
	c := &models.Candidate{
		JobID:      req.JobID,
		Name:       req.Name,
		Location:   req.Location,
		ResumeData: data,
	}
	if err := s.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.Get(ctx, c.ID)
}

// Create inserts c after checking its job exists, then announces it.
func (s *CandidateService) Create(ctx context.Context, c *models.Candidate) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := jobExists(tx, c.JobID)
		if err != nil {
			return err
		}
		if !ok {
			return gorm.ErrForeignKeyViolated
		}
		return tx.Omit(clause.Associations).Create(c).Error
	})
	if err != nil {
		return translate(err, fmt.Sprintf("candidate for job %d", c.JobID))
	}

	s.publishCreated(ctx, c)
	return nil
}

func (s *CandidateService) Update(ctx context.Context, id uint, req *dtos.CandidateRequest) (*models.Candidate, error) {
	data, err := objectJSON(req.ResumeData)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Candidate
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		ok, err := jobExists(tx, req.JobID)
		if err != nil {
			return err
		}
		if !ok {
			return gorm.ErrForeignKeyViolated
		}

		c.JobID = req.JobID
		c.Name = req.Name
		c.Location = req.Location
		c.ResumeData = data
		return tx.Omit(clause.Associations).Save(&c).Error
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("candidate %d", id))
	}
	return s.Get(ctx, id)
}

func (s *CandidateService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Candidate{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("candidate %d", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	return nil
}

// CandidateCreatedEvent is published on "candidate.created".
type CandidateCreatedEvent struct {
	CandidateID uint   `json:"candidateId"`
	JobID       uint   `json:"jobId"`
	Name        string `json:"name"`
	Location    string `json:"location"`
}

func (s *CandidateService) publishCreated(ctx context.Context, c *models.Candidate) {
	if s.Events == nil {
		return
	}
	event := CandidateCreatedEvent{CandidateID: c.ID, JobID: c.JobID, Name: c.Name, Location: c.Location}
	if err := s.Events.Publish(ctx, "candidate.created", event); err != nil {
		// The row is committed; a lost event must not fail the request.
		s.Log.WithError(err).WithField("candidateId", c.ID).Warn("failed to publish candidate.created")
	}
}

func objectJSON(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, fmt.Errorf("resumeData must be a JSON object: %w", ErrValidation)
	}
	return datatypes.JSON(trimmed), nil
}

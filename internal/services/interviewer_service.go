package services

import (
	"context"
	"fmt"

	"github.com/justsurfingit/resume-screener/internal/dtos"
	"github.com/justsurfingit/resume-screener/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterviewerService struct {
	DB *gorm.DB
}

func NewInterviewerService(db *gorm.DB) *InterviewerService {
	return &InterviewerService{DB: db}
}

func (s *InterviewerService) List(ctx context.Context, jobID *uint) ([]models.Interviewer, error) {
	q := s.DB.WithContext(ctx).Preload("Job").Order("id ASC")
	if jobID != nil {
		q = q.Where("job_id = ?", *jobID)
	}

	var interviewers []models.Interviewer
	if err := q.Find(&interviewers).Error; err != nil {
		return nil, translate(err, "list interviewers")
	}
	return interviewers, nil
}

func (s *InterviewerService) Get(ctx context.Context, id uint) (*models.Interviewer, error) {
	var in models.Interviewer
	if err := s.DB.WithContext(ctx).Preload("Job").First(&in, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("interviewer %d", id))
	}
	return &in, nil
}

func (s *InterviewerService) Create(ctx context.Context, req *dtos.InterviewerRequest) (*models.Interviewer, error) {
	in := &models.Interviewer{JobID: req.JobID, Name: req.Name, Department: req.Department}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := jobExists(tx, req.JobID)
		if err != nil {
			return err
		}
		if !ok {
			return gorm.ErrForeignKeyViolated
		}
		return tx.Omit(clause.Associations).Create(in).Error
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("interviewer for job %d", req.JobID))
	}
	return s.Get(ctx, in.ID)
}

// ReplaceForJob deletes every interviewer of the job and inserts the given
// set. Either all of it happens or none of it does.
func (s *InterviewerService) ReplaceForJob(ctx context.Context, jobID uint, inputs []dtos.InterviewerInput) ([]models.Interviewer, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := jobExists(tx, jobID)
		if err != nil {
			return err
		}
		if !ok {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("job_id = ?", jobID).Delete(&models.Interviewer{}).Error; err != nil {
			return err
		}
		if len(inputs) == 0 {
			return nil
		}

		rows := make([]models.Interviewer, 0, len(inputs))
		for _, in := range inputs {
			rows = append(rows, models.Interviewer{JobID: jobID, Name: in.Name, Department: in.Department})
		}
		return tx.Omit(clause.Associations).Create(&rows).Error
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("job %d", jobID))
	}
	return s.List(ctx, &jobID)
}

func (s *InterviewerService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Interviewer{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("interviewer %d", id))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("interviewer %d: %w", id, ErrNotFound)
	}
	return nil
}

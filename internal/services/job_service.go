package services

import (
	"context"
	"fmt"

	"github.com/justsurfingit/resume-screener/internal/dtos"
	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/justsurfingit/resume-screener/internal/resume"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB: db,
	}
}

func (s *JobService) ListJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := s.DB.WithContext(ctx).
		Preload("Interviewers").
		Preload("Candidates").
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, translate(err, "list jobs")
	}
	return jobs, nil
}

func (s *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).
		Preload("Interviewers").
		Preload("Candidates").
		First(&job, id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("job %d", id))
	}
	return &job, nil
}

// JobContext loads the fields the prompt builder needs.
func (s *JobService) JobContext(ctx context.Context, id uint) (*resume.JobContext, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("job %d", id))
	}
	return &resume.JobContext{
		ID:               job.ID,
		Title:            job.Title,
		JobDescription:   job.JobDescription,
		Responsibilities: job.Responsibilities,
	}, nil
}

// CreateJob inserts the job and any interviewers in one transaction.
func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobRequest) (*models.Job, error) {
	job := &models.Job{}
	applyJobRequest(job, req)
	for _, in := range req.Interviewers {
		job.Interviewers = append(job.Interviewers, models.Interviewer{Name: in.Name, Department: in.Department})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(job).Error
	})
	if err != nil {
		return nil, translate(err, "create job")
	}
	return job, nil
}

// UpdateJob overwrites the job's own fields. Interviewers are managed
// through InterviewerService.ReplaceForJob.
func (s *JobService) UpdateJob(ctx context.Context, id uint, req *dtos.JobRequest) (*models.Job, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, id).Error; err != nil {
			return err
		}
		applyJobRequest(&job, req)
		return tx.Omit(clause.Associations).Save(&job).Error
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("job %d", id))
	}
	return s.GetJob(ctx, id)
}

// DeleteJob removes the job with its interviewers and candidates.
func (s *JobService) DeleteJob(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Job{}, id).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.Interviewer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.Candidate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Job{}, id).Error
	})
	return translate(err, fmt.Sprintf("job %d", id))
}

func jobExists(tx *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.Job{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func applyJobRequest(job *models.Job, req *dtos.JobRequest) {
	job.Title = req.Title
	job.Location = req.Location
	job.TeamDescription = req.TeamDescription
	job.JobDescription = req.JobDescription
	job.Responsibilities = pq.StringArray(req.Responsibilities)
	if job.Responsibilities == nil {
		job.Responsibilities = pq.StringArray{}
	}
	job.RecruitmentTeamName = req.RecruitmentTeamName
	job.RecruitmentManager = req.RecruitmentManager
}

package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/justsurfingit/resume-screener/internal/models"
	"gorm.io/gorm"
)

type MatcherService struct {
	DB *gorm.DB
}

func NewMatcherService(db *gorm.DB) *MatcherService {
	return &MatcherService{DB: db}
}

// FindJobFromEmail picks the job an application email is about, or nil.
func (s *MatcherService) FindJobFromEmail(ctx context.Context, subject, rawSender string) (*models.Job, error) {
	var jobs []models.Job
	if err := s.DB.WithContext(ctx).Find(&jobs).Error; err != nil {
		return nil, translate(err, "list jobs")
	}
	return MatchJob(jobs, subject, rawSender), nil
}

// MatchJob applies the matching rules in order:
//  1. the subject contains the job title ("Application: Senior Software Engineer")
//  2. the subject or sender display name contains the recruitment team name
//
// The longest matching title wins, so "Senior Software Engineer" beats
// "Software Engineer". Names under three characters are ignored.
func MatchJob(jobs []models.Job, subject, rawSender string) *models.Job {
	senderName := ""
	if addr, err := mail.ParseAddress(rawSender); err == nil {
		senderName = strings.ToLower(addr.Name)
	}
	subjectLower := strings.ToLower(subject)

	var best *models.Job
	for i := range jobs {
		title := strings.ToLower(strings.TrimSpace(jobs[i].Title))
		if len(title) < 3 || !strings.Contains(subjectLower, title) {
			continue
		}
		if best == nil || len(title) > len(best.Title) {
			best = &jobs[i]
		}
	}
	if best != nil {
		return best
	}

	for i := range jobs {
		team := strings.ToLower(strings.TrimSpace(jobs[i].RecruitmentTeamName))
		if len(team) < 3 {
			continue
		}
		if strings.Contains(subjectLower, team) || (senderName != "" && strings.Contains(senderName, team)) {
			return &jobs[i]
		}
	}
	return nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/justsurfingit/resume-screener/internal/resume"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet    = "Summary"
	candidatesSheet = "Ranked Candidates"
)

type JobLoader interface {
	GetJob(ctx context.Context, id uint) (*models.Job, error)
}

type ExportService struct {
	Jobs JobLoader
	now  func() time.Time
}

func NewExportService(jobs JobLoader) *ExportService {
	return &ExportService{Jobs: jobs, now: time.Now}
}

// RankedCandidate is one row of the ranking sheet.
type RankedCandidate struct {
	Rank                int
	Name                string
	Location            string
	Email               string
	MatchScore          *float64
	KeySkillsMatch      []string
	MissingRequirements []string
	Recommendations     []string
}

// WriteJobCandidates writes the candidate ranking workbook of a job to w
// and returns a suggested file name.
func (s *ExportService) WriteJobCandidates(ctx context.Context, jobID uint, w io.Writer) (string, error) {
	job, err := s.Jobs.GetJob(ctx, jobID)
	if err != nil {
		return "", err
	}

	f, err := BuildCandidateWorkbook(job, RankCandidates(job.Candidates), s.now())
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	return fmt.Sprintf("job-%d-candidates.xlsx", job.ID), nil
}

// RankCandidates orders candidates by match score, highest first. Candidates
// without a score sort last, by name.
func RankCandidates(candidates []models.Candidate) []RankedCandidate {
	rows := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		row := RankedCandidate{Name: c.Name, Location: c.Location}

		var r resume.Resume
		if len(c.ResumeData) > 0 && json.Unmarshal(c.ResumeData, &r) == nil {
			row.Email = r.Contact.Email.String()
			if m := r.JobMatchAnalysis; m != nil {
				score := float64(m.MatchScore)
				row.MatchScore = &score
				row.KeySkillsMatch = resume.Strings(m.KeySkillsMatch)
				row.MissingRequirements = resume.Strings(m.MissingRequirements)
				row.Recommendations = resume.Strings(m.Recommendations)
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].MatchScore, rows[j].MatchScore
		switch {
		case a != nil && b != nil && *a != *b:
			return *a > *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		default:
			return rows[i].Name < rows[j].Name
		}
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// BuildCandidateWorkbook lays out a summary sheet and the ranking sheet.
func BuildCandidateWorkbook(job *models.Job, rows []RankedCandidate, generated time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeSummary(f, job, rows, generated); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeRanking(f, rows); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create ranked candidates sheet: %w", err)
	}
	return f, nil
}

func writeSummary(f *excelize.File, job *models.Job, rows []RankedCandidate, generated time.Time) error {
	f.SetColWidth(summarySheet, "A", "A", 25)
	f.SetColWidth(summarySheet, "B", "B", 60)

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	scored := 0
	for _, r := range rows {
		if r.MatchScore != nil {
			scored++
		}
	}

	lines := [][2]any{
		{"Job Title:", job.Title},
		{"Location:", job.Location},
		{"Recruitment Team:", job.RecruitmentTeamName},
		{"Recruitment Manager:", job.RecruitmentManager},
		{"Generated:", generated.Format("2006-01-02 15:04:05")},
		{"Total Candidates:", len(rows)},
		{"Scored Candidates:", scored},
	}
	for i, line := range lines {
		row := i + 1
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), line[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), line[1]); err != nil {
			return err
		}
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	}
	return nil
}

func writeRanking(f *excelize.File, rows []RankedCandidate) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	headers := []any{"Rank", "Name", "Location", "Email", "Match Score", "Key Skills Match", "Missing Requirements", "Recommendations"}
	if err := f.SetSheetRow(candidatesSheet, "A1", &headers); err != nil {
		return err
	}
	f.SetCellStyle(candidatesSheet, "A1", "H1", headerStyle)
	f.SetColWidth(candidatesSheet, "B", "D", 25)
	f.SetColWidth(candidatesSheet, "F", "H", 45)

	for i, r := range rows {
		var score any = ""
		if r.MatchScore != nil {
			score = *r.MatchScore
		}
		values := []any{
			r.Rank, r.Name, r.Location, r.Email, score,
			strings.Join(r.KeySkillsMatch, ", "),
			strings.Join(r.MissingRequirements, ", "),
			strings.Join(r.Recommendations, "; "),
		}
		if err := f.SetSheetRow(candidatesSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}
	return nil
}

package database

import (
	"errors"
	"fmt"

	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/justsurfingit/resume-screener/internal/resume"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SeedAdminEmail = "admin@example.com"
	SeedJobTitle   = "Senior Software Engineer"
)

// Seed inserts the demo admin, one job with its interviewers and two scored
// candidates. Running it twice does not duplicate anything.
func Seed(db *gorm.DB, adminPassword string, log *logrus.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedAdmin(tx, adminPassword, log); err != nil {
			return err
		}

		var existing models.Job
		err := tx.Where("title = ?", SeedJobTitle).First(&existing).Error
		if err == nil {
			log.WithField("jobId", existing.ID).Info("Sample job already present, skipping")
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("look up sample job: %w", err)
		}

		job := models.Job{
			Title:           SeedJobTitle,
			Location:        "Jakarta",
			TeamDescription: "We are looking for a talented engineer to join our team",
			JobDescription:  "Join our dynamic team as a Senior Software Engineer",
			Responsibilities: pq.StringArray{
				"Develop and maintain web applications",
				"Collaborate with cross-functional teams",
				"Mentor junior developers",
			},
			RecruitmentTeamName: "Tech Recruitment",
			RecruitmentManager:  "John Doe",
			Interviewers: []models.Interviewer{
				{Name: "Alice Smith", Department: "Engineering"},
				{Name: "Bob Johnson", Department: "Product"},
			},
		}
		if err := tx.Create(&job).Error; err != nil {
			return fmt.Errorf("create sample job: %w", err)
		}

		for _, r := range sampleResumes() {
			data, err := r.JSON()
			if err != nil {
				return err
			}
			c := models.Candidate{
				JobID:      job.ID,
				Name:       r.PersonalInformation.Name.String(),
				Location:   r.PersonalInformation.City.String(),
				ResumeData: datatypes.JSON(data),
			}
			if err := tx.Create(&c).Error; err != nil {
				return fmt.Errorf("create sample candidate %s: %w", c.Name, err)
			}
		}

		log.WithField("jobId", job.ID).Info("Seed data created successfully")
		return nil
	})
}

func seedAdmin(tx *gorm.DB, password string, log *logrus.Logger) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", SeedAdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := tx.Create(&models.User{Email: SeedAdminEmail, PasswordHash: string(hash)}).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.WithField("email", SeedAdminEmail).Info("Admin user created")
	return nil
}

func sampleResumes() []resume.Resume {
	return []resume.Resume{
		{
			PersonalInformation: resume.PersonalInformation{Name: "Charlie Brown", Title: "Senior Software Engineer", City: "Bandung"},
			Contact:             resume.Contact{Email: "charlie.brown@example.com", LinkedIn: "linkedin.com/in/charliebrown", Phone: "+62 812-3456-7890"},
			Experience: resume.Many[resume.Experience]{{
				Company: "Tech Corp", Title: "Software Engineer", StartYear: "2020", EndYear: "2023", Location: "Jakarta",
				Description: "Led development of multiple web applications using React and Node.js",
			}},
			Education: resume.Many[resume.Education]{{
				University: "Bandung Institute of Technology", Degree: "Bachelor of Computer Science", GPA: "3.8", StartYear: "2016", EndYear: "2020",
			}},
			AdditionalInformation: resume.AdditionalInformation{TechnicalSkills: "React, Node.js, TypeScript, PostgreSQL, AWS"},
		},
		{
			PersonalInformation: resume.PersonalInformation{Name: "Diana Prince", Title: "Full Stack Developer", City: "Surabaya"},
			Contact:             resume.Contact{Email: "diana.prince@example.com", LinkedIn: "linkedin.com/in/dianaprince", Phone: "+62 813-9876-5432"},
			Experience: resume.Many[resume.Experience]{{
				Company: "Digital Solutions", Title: "Full Stack Developer", StartYear: "2019", EndYear: "2023", Location: "Surabaya",
				Description: "Developed and maintained multiple full-stack applications",
			}},
			Education: resume.Many[resume.Education]{{
				University: "Surabaya University", Degree: "Bachelor of Information Technology", GPA: "3.9", StartYear: "2015", EndYear: "2019",
			}},
			AdditionalInformation: resume.AdditionalInformation{TechnicalSkills: "JavaScript, Python, Django, React, MongoDB"},
		},
	}
}

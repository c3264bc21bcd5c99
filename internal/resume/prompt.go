package resume

import (
	"fmt"
	"strings"
)

// JobContext is the slice of a job posting the model needs for match scoring.
type JobContext struct {
	ID               uint
	Title            string
	JobDescription   string
	Responsibilities []string
}

const templateHeader = "Return exactly this JSON structure, field for field:\n"

var templateSections = []string{
	`  "personal_information": {"name": "", "title": "", "city": ""}`,
	`  "contact": {"email": "", "linkedin": "", "phone": ""}`,
	`  "experience": [{"company": "", "title": "", "startYear": "", "endYear": "", "location": "", "description": ""}]`,
	`  "education": [{"university": "", "degree": "", "gpa": "", "startYear": "", "endYear": ""}]`,
	`  "additional_information": {"technical_skills": ""}`,
}

const matchTemplateSection = `  "job_match_analysis": {"match_score": 0, "key_skills_match": [], "missing_requirements": [], "recommendations": []}`

// BuildPrompt assembles the extraction instruction for a resume and, when job
// is non-nil, the match-scoring instruction against that job.
func BuildPrompt(resumeText string, job *JobContext) string {
	var sb strings.Builder

	sb.WriteString("You are an expert recruiter. Summarize this resume or CV as JSON with these sections:\n")
	sb.WriteString("1. personal information: name, position or title, city\n")
	sb.WriteString("2. contact: email, linkedin and phone number\n")
	sb.WriteString("3. experience: every position with company, title, years, location and description\n")
	sb.WriteString("4. education: every degree with university, GPA and years\n")
	sb.WriteString("5. skills: technical skills as a single comma separated string\n\n")

	sb.WriteString("### RESUME TEXT\n")
	sb.WriteString(resumeText)
	sb.WriteString("\n\n")

	sections := templateSections
	if job != nil {
		sb.WriteString("### JOB REQUIREMENTS\n")
		sb.WriteString("Also analyze how well this resume matches the following job:\n")
		sb.WriteString(fmt.Sprintf("Job Title: %s\n", job.Title))
		sb.WriteString(fmt.Sprintf("Job Description: %s\n", job.JobDescription))
		sb.WriteString(fmt.Sprintf("Key Responsibilities: %s\n\n", strings.Join(job.Responsibilities, ", ")))
		sb.WriteString("Add a field named job_match_analysis with:\n")
		sb.WriteString("- match_score: a number from 0 to 100\n")
		sb.WriteString("- key_skills_match: list of matching skills\n")
		sb.WriteString("- missing_requirements: list of requirements the candidate lacks\n")
		sb.WriteString("- recommendations: list of recommendations for the candidate\n\n")

		sections = append(append([]string{}, templateSections...), matchTemplateSection)
	}

	sb.WriteString(templateHeader)
	sb.WriteString("{\n")
	sb.WriteString(strings.Join(sections, ",\n"))
	sb.WriteString("\n}\n\n")
	sb.WriteString("Return ONLY the JSON object. No markdown, no explanation.\n")

	return sb.String()
}

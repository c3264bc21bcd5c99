package resume

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateOf(t *testing.T, prompt string) string {
	t.Helper()
	start := strings.LastIndex(prompt, templateHeader)
	require.NotEqual(t, -1, start, "template header missing")
	body := prompt[start+len(templateHeader):]
	end := strings.LastIndex(body, "}")
	require.NotEqual(t, -1, end)
	return body[:end+1]
}

func TestBuildPromptWithoutJob(t *testing.T) {
	prompt := BuildPrompt("Jane Doe, Go developer", nil)

	assert.Contains(t, prompt, "Jane Doe, Go developer")
	assert.NotContains(t, prompt, "job_match_analysis")
	assert.NotContains(t, prompt, "JOB REQUIREMENTS")

	tmpl := templateOf(t, prompt)
	assert.True(t, json.Valid([]byte(tmpl)), "template must be valid JSON: %s", tmpl)
	assert.NotContains(t, tmpl, ",\n}")
}

func TestBuildPromptWithJob(t *testing.T) {
	job := &JobContext{
		ID:               7,
		Title:            "Backend Engineer",
		JobDescription:   "Build APIs",
		Responsibilities: []string{"design services", "review code"},
	}
	prompt := BuildPrompt("resume body", job)

	assert.Contains(t, prompt, "Job Title: Backend Engineer")
	assert.Contains(t, prompt, "Job Description: Build APIs")
	assert.Contains(t, prompt, "Key Responsibilities: design services, review code")
	assert.Equal(t, 1, strings.Count(prompt, `"job_match_analysis":`))

	tmpl := templateOf(t, prompt)
	assert.True(t, json.Valid([]byte(tmpl)), "template must be valid JSON: %s", tmpl)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(tmpl), &decoded))
	assert.Contains(t, decoded, "job_match_analysis")
	assert.Contains(t, decoded, "personal_information")
}

func TestBuildPromptDoesNotMutateSections(t *testing.T) {
	before := len(templateSections)
	BuildPrompt("x", &JobContext{Title: "t"})
	BuildPrompt("x", &JobContext{Title: "t"})
	assert.Equal(t, before, len(templateSections))
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"multiple fences", "```json{\"a\":1}``` ```json```", `{"a":1}`},
		{"no fence", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain object", `{"a":1}`, `{"a":1}`, false},
		{"fenced object", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose around object", `Here you go: {"a":1} hope it helps`, `{"a":1}`, false},
		{"prose and fences", "Sure!\n```json\n{\"a\":1}\n```\nDone.", `{"a":1}`, false},
		{"no braces", "I cannot help with that.", "", true},
		{"broken span", "prefix {not json} suffix", "", true},
		{"array is not an object", `[{"a":1}]`, `{"a":1}`, false},
		{"null", "null", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNoValidJSON))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestNormalizeWrappedMatchesClean(t *testing.T) {
	obj := `{"personal_information":{"name":"Jane","title":"Engineer","city":"Jakarta"}}`

	clean, err := Normalize(obj)
	require.NoError(t, err)
	wrapped, err := Normalize("Here is the JSON:\n" + obj + "\nLet me know if you need more.")
	require.NoError(t, err)

	assert.Equal(t, clean, wrapped)
}

func TestNormalizeFailsOnlyWithoutJSON(t *testing.T) {
	for _, in := range []string{"no json here", "{broken", "[1, 2]", ""} {
		rec, err := Normalize(in)
		assert.Nil(t, rec, in)
		assert.ErrorIs(t, err, ErrNoValidJSON, in)
	}
}

func TestNormalizeToleratesUnexpectedShapes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		check func(t *testing.T, r Resume)
	}{
		{
			"skills as object",
			`{"personal_information":{"name":"Jane"},"additional_information":{"technical_skills":{"languages":["Go","SQL"],"tools":"Docker"}}}`,
			func(t *testing.T, r Resume) {
				assert.Equal(t, "Jane", r.PersonalInformation.Name.String())
				assert.Equal(t, "Go, SQL, Docker", r.AdditionalInformation.TechnicalSkills.String())
			},
		},
		{
			"experience as string",
			`{"personal_information":{"name":"Jane"},"experience":"N/A","education":[{"university":"ITB"},"none"]}`,
			func(t *testing.T, r Resume) {
				assert.Equal(t, "Jane", r.PersonalInformation.Name.String())
				assert.Empty(t, r.Experience)
				require.Len(t, r.Education, 1)
				assert.Equal(t, "ITB", r.Education[0].University.String())
			},
		},
		{
			"section as string",
			`{"personal_information":"just a string","contact":{"email":"jane@example.com"}}`,
			func(t *testing.T, r Resume) {
				assert.False(t, r.HasPersonalInformation())
				assert.Equal(t, "jane@example.com", r.Contact.Email.String())
			},
		},
		{
			"match analysis not an object",
			`{"personal_information":{"name":"Jane"},"job_match_analysis":"n/a"}`,
			func(t *testing.T, r Resume) {
				assert.Nil(t, r.JobMatchAnalysis)
			},
		},
		{
			"non numeric score",
			`{"job_match_analysis":{"match_score":"high","recommendations":"Learn AWS"}}`,
			func(t *testing.T, r Resume) {
				require.NotNil(t, r.JobMatchAnalysis)
				assert.Equal(t, Score(0), r.JobMatchAnalysis.MatchScore)
				assert.Equal(t, []string{"Learn AWS"}, Strings(r.JobMatchAnalysis.Recommendations))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Normalize(tt.in)
			require.NoError(t, err)
			tt.check(t, rec.Resume)
		})
	}
}

func TestRecordJSONKeepsExtraKeys(t *testing.T) {
	rec, err := Normalize(`{"personal_information":{"name":"Jane"},"experience":"N/A","certifications":["AWS SA"]}`)
	require.NoError(t, err)

	out, err := rec.JSON()
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.JSONEq(t, `["AWS SA"]`, string(decoded["certifications"]))
	assert.JSONEq(t, `[]`, string(decoded["experience"]))
	assert.JSONEq(t, `{"name":"Jane","title":"","city":""}`, string(decoded["personal_information"]))
	assert.NotContains(t, decoded, "job_match_analysis")
}

func TestNormalizeCoercesLooseTypes(t *testing.T) {
	in := "```json\n" + `{
		"personal_information": {"name": "Jane Doe", "title": null, "city": "Bandung"},
		"contact": {"phone": 628123456},
		"experience": {"company": "Acme", "startYear": 2019, "endYear": "Present"},
		"education": [{"university": "ITB", "gpa": 3.8}],
		"additional_information": {"technical_skills": ["Go", "PostgreSQL", ""]},
		"job_match_analysis": {"match_score": "85%", "key_skills_match": "Go", "missing_requirements": null}
	}` + "\n```"

	rec, err := Normalize(in)
	require.NoError(t, err)
	r := rec.Resume

	assert.Equal(t, "Jane Doe", r.PersonalInformation.Name.String())
	assert.Equal(t, "", r.PersonalInformation.Title.String())
	assert.Equal(t, "628123456", r.Contact.Phone.String())
	require.Len(t, r.Experience, 1)
	assert.Equal(t, "2019", r.Experience[0].StartYear.String())
	require.Len(t, r.Education, 1)
	assert.Equal(t, "3.8", r.Education[0].GPA.String())
	assert.Equal(t, "Go, PostgreSQL", r.AdditionalInformation.TechnicalSkills.String())

	require.NotNil(t, r.JobMatchAnalysis)
	assert.Equal(t, Score(85), r.JobMatchAnalysis.MatchScore)
	assert.Equal(t, []string{"Go"}, Strings(r.JobMatchAnalysis.KeySkillsMatch))
	assert.Empty(t, r.JobMatchAnalysis.MissingRequirements)
}

func TestScoreClamp(t *testing.T) {
	tests := []struct {
		in   string
		want Score
	}{
		{`80`, 80},
		{`"80"`, 80},
		{`-5`, 0},
		{`140`, 100},
		{`"250%"`, 100},
		{`null`, 0},
		{`""`, 0},
		{`"high"`, 0},
		{`true`, 0},
		{`[90]`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s Score
			require.NoError(t, json.Unmarshal([]byte(tt.in), &s))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestCanonicalEncodingFillsDefaults(t *testing.T) {
	rec, err := Normalize(`{"personal_information":{"name":"Jane"}}`)
	require.NoError(t, err)

	out, err := rec.Resume.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []any{}, decoded["experience"])
	assert.Equal(t, []any{}, decoded["education"])
	assert.NotContains(t, decoded, "job_match_analysis")

	contact, ok := decoded["contact"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "", contact["email"])
}

func TestHasPersonalInformation(t *testing.T) {
	var empty Resume
	assert.False(t, empty.HasPersonalInformation())

	blank := Resume{PersonalInformation: PersonalInformation{Name: "  "}}
	assert.False(t, blank.HasPersonalInformation())

	city := Resume{PersonalInformation: PersonalInformation{City: "Jakarta"}}
	assert.True(t, city.HasPersonalInformation())
}

package resume

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Resume is the structured summary the model is asked to produce.
// Every field is optional: a missing key decodes to its zero value and
// re-encodes as an empty string, object or array.
type Resume struct {
	PersonalInformation   PersonalInformation   `json:"personal_information"`
	Contact               Contact               `json:"contact"`
	Experience            Many[Experience]      `json:"experience"`
	Education             Many[Education]       `json:"education"`
	AdditionalInformation AdditionalInformation `json:"additional_information"`
	JobMatchAnalysis      *JobMatchAnalysis     `json:"job_match_analysis,omitempty"`
}

type PersonalInformation struct {
	Name  Text `json:"name"`
	Title Text `json:"title"`
	City  Text `json:"city"`
}

type Contact struct {
	Email    Text `json:"email"`
	LinkedIn Text `json:"linkedin"`
	Phone    Text `json:"phone"`
}

type Experience struct {
	Company     Text `json:"company"`
	Title       Text `json:"title"`
	StartYear   Text `json:"startYear"`
	EndYear     Text `json:"endYear"`
	Location    Text `json:"location"`
	Description Text `json:"description"`
}

type Education struct {
	University Text `json:"university"`
	Degree     Text `json:"degree"`
	GPA        Text `json:"gpa"`
	StartYear  Text `json:"startYear"`
	EndYear    Text `json:"endYear"`
}

type AdditionalInformation struct {
	TechnicalSkills Text `json:"technical_skills"`
}

// JobMatchAnalysis is only present when the prompt carried a job context.
type JobMatchAnalysis struct {
	MatchScore          Score      `json:"match_score"`
	KeySkillsMatch      Many[Text] `json:"key_skills_match"`
	MissingRequirements Many[Text] `json:"missing_requirements"`
	Recommendations     Many[Text] `json:"recommendations"`
}

// HasPersonalInformation reports whether any personal_information field is set.
func (r Resume) HasPersonalInformation() bool {
	p := r.PersonalInformation
	return p.Name.String() != "" || p.Title.String() != "" || p.City.String() != ""
}

// JSON returns the canonical encoding used for persistence.
func (r Resume) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// Text is a string that also accepts numbers, booleans and null, as models
// often emit "gpa": 3.8. Arrays and objects are flattened to their scalar
// leaves joined with ", ", so {"languages":["Go","SQL"]} becomes "Go, SQL".
// Decoding never fails.
type Text string

func (t Text) String() string { return strings.TrimSpace(string(t)) }

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*t = ""
			return nil
		}
		*t = Text(s)
	case '[', '{':
		*t = Text(strings.Join(scalarLeaves(b), ", "))
	default:
		*t = Text(b)
	}
	return nil
}

// scalarLeaves returns the non-empty scalar values of a JSON document in
// document order. Object keys are skipped.
func scalarLeaves(b []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	type frame struct {
		object    bool
		expectKey bool
	}
	var (
		stack []frame
		out   []string
	)
	valueDone := func() {
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].expectKey = true
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{object: true, expectKey: true})
			case '[':
				stack = append(stack, frame{})
			default:
				stack = stack[:len(stack)-1]
				valueDone()
			}
			continue
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectKey {
				stack[n-1].expectKey = false
				continue
			}
			if s := strings.TrimSpace(v); s != "" {
				out = append(out, s)
			}
		case json.Number:
			out = append(out, v.String())
		case bool:
			out = append(out, strconv.FormatBool(v))
		}
		valueDone()
	}
}

// Score is a 0-100 match score. Numeric strings such as "80" or "80%" are
// accepted; anything that is not a number decodes as 0.
type Score float64

func (s *Score) UnmarshalJSON(b []byte) error {
	*s = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	var v float64
	switch b[0] {
	case '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		str = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(str), "%"))
		parsed, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil
		}
		v = parsed
	default:
		if err := json.Unmarshal(b, &v); err != nil {
			return nil
		}
	}

	switch {
	case v < 0:
		v = 0
	case v > 100:
		v = 100
	}
	*s = Score(v)
	return nil
}

// Many is a sequence that tolerates null and a bare single element. Elements
// of the wrong shape are dropped, so "experience": "N/A" decodes as empty.
// It always encodes as an array, never null.
type Many[T any] []T

func (m *Many[T]) UnmarshalJSON(b []byte) error {
	*m = Many[T]{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] != '[' {
		var one T
		if err := json.Unmarshal(b, &one); err == nil {
			*m = Many[T]{one}
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	out := make(Many[T], 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err == nil {
			out = append(out, v)
		}
	}
	*m = out
	return nil
}

func (m Many[T]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(m))
}

// Strings flattens a Many[Text] for display and export.
func Strings(items Many[Text]) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.String())
	}
	return out
}

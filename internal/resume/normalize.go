package resume

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoValidJSON is the only error Normalize and ExtractObject return.
var ErrNoValidJSON = errors.New("no valid JSON found in model response")

var (
	fencePattern = regexp.MustCompile("```json|```")
	// Greedy: first '{' to last '}'.
	objectSpan = regexp.MustCompile(`(?s)\{.*\}`)
)

// Record is a normalized model reply.
type Record struct {
	Raw    json.RawMessage
	Resume Resume
}

// StripFences removes every markdown code fence marker and trims the result.
func StripFences(text string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
}

// ExtractObject returns the JSON object carried by text: the whole cleaned
// text if it parses, otherwise the greedy {...} span if that parses.
func ExtractObject(text string) (json.RawMessage, error) {
	cleaned := StripFences(text)
	if obj, ok := parseObject(cleaned); ok {
		return obj, nil
	}

	span := objectSpan.FindString(cleaned)
	if span == "" {
		return nil, fmt.Errorf("%w: no object in response", ErrNoValidJSON)
	}
	if obj, ok := parseObject(span); ok {
		return obj, nil
	}
	return nil, fmt.Errorf("%w: failed to parse object span", ErrNoValidJSON)
}

// Normalize turns a model reply into a Record. It fails only when the reply
// carries no JSON object; on error the returned record is nil. Sections of an
// unexpected shape, such as "contact": "n/a", keep their zero value.
func Normalize(text string) (*Record, error) {
	raw, err := ExtractObject(text)
	if err != nil {
		return nil, err
	}

	var r Resume
	if err := json.Unmarshal(raw, &r); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", ErrNoValidJSON, err)
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoValidJSON, err)
	}
	if !isObject(fields["job_match_analysis"]) {
		r.JobMatchAnalysis = nil
	}
	return &Record{Raw: raw, Resume: r}, nil
}

// sectionKeys are the top-level keys owned by Resume.
var sectionKeys = []string{
	"personal_information",
	"contact",
	"experience",
	"education",
	"additional_information",
	"job_match_analysis",
}

// JSON returns the persisted form of the record: the model's object with
// every known section replaced by its canonical encoding. Extra keys the
// model added, such as "certifications", are kept as they came.
func (rec *Record) JSON() ([]byte, error) {
	merged := map[string]json.RawMessage{}
	if len(rec.Raw) > 0 {
		if err := json.Unmarshal(rec.Raw, &merged); err != nil {
			return nil, fmt.Errorf("decode raw record: %w", err)
		}
	}
	for _, k := range sectionKeys {
		delete(merged, k)
	}

	canonical, err := rec.Resume.JSON()
	if err != nil {
		return nil, err
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(canonical, &sections); err != nil {
		return nil, err
	}
	for k, v := range sections {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func parseObject(s string) (json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return json.RawMessage(s), true
}

package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/justsurfingit/resume-screener/internal/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

type fakeMailbox struct {
	messages    map[string]*gmail.Message
	attachments map[string][]byte
	order       []string
}

func (f *fakeMailbox) ListMessages(_ context.Context, _ string, _ int64) ([]string, error) {
	return f.order, nil
}

func (f *fakeMailbox) GetMessage(_ context.Context, id string) (*gmail.Message, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, &googleapi.Error{Code: 404}
	}
	return msg, nil
}

func (f *fakeMailbox) GetAttachment(_ context.Context, _, attachmentID string) ([]byte, error) {
	data, ok := f.attachments[attachmentID]
	if !ok {
		return nil, errors.New("attachment gone")
	}
	return data, nil
}

type memoryProcessed struct {
	marked map[string]*models.ProcessedEmail
	parts  map[string]map[string]bool
}

func newMemoryProcessed(ids ...string) *memoryProcessed {
	m := &memoryProcessed{
		marked: map[string]*models.ProcessedEmail{},
		parts:  map[string]map[string]bool{},
	}
	for _, id := range ids {
		m.marked[id] = &models.ProcessedEmail{ID: id}
	}
	return m
}

func (m *memoryProcessed) IsProcessed(_ context.Context, id string) (bool, error) {
	_, ok := m.marked[id]
	return ok, nil
}

func (m *memoryProcessed) MarkProcessed(_ context.Context, rec *models.ProcessedEmail) error {
	m.marked[rec.ID] = rec
	return nil
}

func (m *memoryProcessed) ImportedParts(_ context.Context, id string) (map[string]bool, error) {
	done := map[string]bool{}
	for k := range m.parts[id] {
		done[k] = true
	}
	return done, nil
}

func (m *memoryProcessed) MarkPartImported(_ context.Context, rec *models.ImportedAttachment) error {
	if m.parts[rec.MessageID] == nil {
		m.parts[rec.MessageID] = map[string]bool{}
	}
	m.parts[rec.MessageID][rec.PartKey] = true
	return nil
}

type staticMatcher struct {
	job *models.Job
}

func (s *staticMatcher) FindJobFromEmail(_ context.Context, subject, _ string) (*models.Job, error) {
	if s.job != nil && subject == "Application: "+s.job.Title {
		return s.job, nil
	}
	return nil, nil
}

// recordingAnalyzer succeeds unless a queued result is waiting for the file.
type recordingAnalyzer struct {
	inputs  []AnalyzeInput
	queued  map[string][]analyzeOutcome
	created int
}

type analyzeOutcome struct {
	res *AnalyzeResult
	err error
}

func (r *recordingAnalyzer) Analyze(_ context.Context, in AnalyzeInput) (*AnalyzeResult, error) {
	r.inputs = append(r.inputs, in)
	if q := r.queued[in.File.Name]; len(q) > 0 {
		r.queued[in.File.Name] = q[1:]
		return q[0].res, q[0].err
	}
	r.created++
	id := uint(r.created)
	return &AnalyzeResult{CandidateID: &id}, nil
}

func email(subject string, parts ...*gmail.MessagePart) *gmail.Message {
	return &gmail.Message{Payload: &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Headers: []*gmail.MessagePartHeader{
			{Name: "Subject", Value: subject},
			{Name: "From", Value: "Jane <jane@example.com>"},
		},
		Parts: parts,
	}}
}

func TestEmailImport(t *testing.T) {
	job := &models.Job{ID: 7, Title: "Senior Software Engineer"}
	mailbox := &fakeMailbox{
		order: []string{"m1", "m2", "m3", "m4"},
		messages: map[string]*gmail.Message{
			"m1": email("Application: Senior Software Engineer",
				&gmail.MessagePart{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte("Hi, see attached"))}},
				&gmail.MessagePart{Filename: "jane.txt", Body: &gmail.MessagePartBody{AttachmentId: "a1"}},
				&gmail.MessagePart{Filename: "photo.png", Body: &gmail.MessagePartBody{AttachmentId: "a2"}},
			),
			"m2": email("Newsletter"),
			"m3": email("Application: Senior Software Engineer",
				&gmail.MessagePart{Filename: "inline.txt", Body: &gmail.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte("John Roe, Medan"))}},
			),
			"m4": email("Application: Senior Software Engineer",
				&gmail.MessagePart{Filename: "lost.txt", Body: &gmail.MessagePartBody{AttachmentId: "missing"}},
			),
		},
		attachments: map[string][]byte{"a1": []byte("Jane Doe, Jakarta")},
	}
	processed := newMemoryProcessed("m0")
	analyzer := &recordingAnalyzer{}
	svc := NewEmailService(mailbox, processed, &staticMatcher{job: job}, analyzer, quietLogger())

	summary, err := svc.Import(context.Background(), ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, &ImportSummary{Messages: 4, Skipped: 1, Attachments: 3, Candidates: 2, Failed: 1}, summary)

	require.Len(t, analyzer.inputs, 2)
	assert.Equal(t, "Jane Doe, Jakarta", analyzer.inputs[0].ResumeText)
	require.NotNil(t, analyzer.inputs[0].JobID)
	assert.Equal(t, uint(7), *analyzer.inputs[0].JobID)
	assert.Equal(t, "jane.txt", analyzer.inputs[0].File.Name)
	assert.Equal(t, "John Roe, Medan", analyzer.inputs[1].ResumeText)

	assert.Contains(t, processed.marked, "m1")
	assert.Contains(t, processed.marked, "m2")
	assert.Contains(t, processed.marked, "m3")
	assert.NotContains(t, processed.marked, "m4", "failed message must be retried next run")
	assert.Equal(t, 1, processed.marked["m1"].Imported)
}

func TestEmailImportRetriesFailedAnalysis(t *testing.T) {
	id := uint(42)
	tests := []struct {
		name       string
		first      analyzeOutcome
		wantMarked bool
	}{
		{
			name:       "upstream error is retried",
			first:      analyzeOutcome{err: fmt.Errorf("%w: quota", ErrUpstream)},
			wantMarked: false,
		},
		{
			name:       "save failure is retried",
			first:      analyzeOutcome{res: &AnalyzeResult{Warning: SaveFailedWarning}},
			wantMarked: false,
		},
		{
			name:       "unusable reply is not retried",
			first:      analyzeOutcome{err: fmt.Errorf("%w: no object", resume.ErrNoValidJSON)},
			wantMarked: true,
		},
		{
			name:       "resume without personal information is not retried",
			first:      analyzeOutcome{res: &AnalyzeResult{}},
			wantMarked: true,
		},
		{
			name:       "success",
			first:      analyzeOutcome{res: &AnalyzeResult{CandidateID: &id}},
			wantMarked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailbox := &fakeMailbox{
				order: []string{"m1"},
				messages: map[string]*gmail.Message{
					"m1": email("Whatever", &gmail.MessagePart{PartId: "1", Filename: "cv.txt", Body: &gmail.MessagePartBody{AttachmentId: "a1"}}),
				},
				attachments: map[string][]byte{"a1": []byte("cv text")},
			}
			processed := newMemoryProcessed()
			analyzer := &recordingAnalyzer{queued: map[string][]analyzeOutcome{"cv.txt": {tt.first}}}
			svc := NewEmailService(mailbox, processed, &staticMatcher{}, analyzer, quietLogger())
			jobID := uint(3)

			summary, err := svc.Import(context.Background(), ImportOptions{JobID: &jobID})
			require.NoError(t, err)
			assert.Equal(t, 1, summary.Failed+summary.Candidates)

			if tt.wantMarked {
				assert.Contains(t, processed.marked, "m1")
				return
			}
			assert.NotContains(t, processed.marked, "m1")

			summary, err = svc.Import(context.Background(), ImportOptions{JobID: &jobID})
			require.NoError(t, err)
			assert.Equal(t, 1, summary.Candidates)
			assert.Len(t, analyzer.inputs, 2)
			require.Contains(t, processed.marked, "m1")
			assert.Equal(t, 1, processed.marked["m1"].Imported)
		})
	}
}

func TestEmailImportDoesNotReimportAttachments(t *testing.T) {
	mailbox := &fakeMailbox{
		order: []string{"m1"},
		messages: map[string]*gmail.Message{
			"m1": email("Whatever",
				&gmail.MessagePart{PartId: "1", Filename: "first.txt", Body: &gmail.MessagePartBody{AttachmentId: "a1"}},
				&gmail.MessagePart{PartId: "2", Filename: "second.txt", Body: &gmail.MessagePartBody{AttachmentId: "a2"}},
			),
		},
		attachments: map[string][]byte{"a1": []byte("first cv")},
	}
	processed := newMemoryProcessed()
	analyzer := &recordingAnalyzer{}
	svc := NewEmailService(mailbox, processed, &staticMatcher{}, analyzer, quietLogger())
	jobID := uint(3)

	summary, err := svc.Import(context.Background(), ImportOptions{JobID: &jobID})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Candidates)
	assert.Equal(t, 1, summary.Failed)
	assert.NotContains(t, processed.marked, "m1")
	assert.True(t, processed.parts["m1"]["1:first.txt"])

	mailbox.attachments["a2"] = []byte("second cv")
	summary, err = svc.Import(context.Background(), ImportOptions{JobID: &jobID})
	require.NoError(t, err)
	assert.Equal(t, &ImportSummary{Messages: 1, Attachments: 1, Candidates: 1}, summary)

	require.Len(t, analyzer.inputs, 2)
	assert.Equal(t, "first.txt", analyzer.inputs[0].File.Name)
	assert.Equal(t, "second.txt", analyzer.inputs[1].File.Name)
	require.Contains(t, processed.marked, "m1")
	assert.Equal(t, 2, processed.marked["m1"].Imported)
}

func TestEmailImportSkipsProcessed(t *testing.T) {
	mailbox := &fakeMailbox{order: []string{"m1"}, messages: map[string]*gmail.Message{}}
	processed := newMemoryProcessed("m1")
	analyzer := &recordingAnalyzer{}
	svc := NewEmailService(mailbox, processed, &staticMatcher{}, analyzer, quietLogger())

	summary, err := svc.Import(context.Background(), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Messages)
	assert.Empty(t, analyzer.inputs)
}

func TestEmailImportForcedJob(t *testing.T) {
	mailbox := &fakeMailbox{
		order: []string{"m1"},
		messages: map[string]*gmail.Message{
			"m1": email("Whatever", &gmail.MessagePart{Filename: "cv.txt", Body: &gmail.MessagePartBody{AttachmentId: "a1"}}),
		},
		attachments: map[string][]byte{"a1": []byte("cv text")},
	}
	analyzer := &recordingAnalyzer{}
	svc := NewEmailService(mailbox, newMemoryProcessed(), &staticMatcher{}, analyzer, quietLogger())

	jobID := uint(3)
	summary, err := svc.Import(context.Background(), ImportOptions{JobID: &jobID})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Candidates)
	require.Len(t, analyzer.inputs, 1)
	assert.Equal(t, uint(3), *analyzer.inputs[0].JobID)
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &googleapi.Error{Code: 503}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return &googleapi.Error{Code: 404}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "client errors are not retried")

	calls = 0
	err = retry(ctx, 2, time.Millisecond, func() error {
		calls++
		return fmt.Errorf("dial tcp: timeout")
	})
	assert.ErrorContains(t, err, "failed after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestDecodeBase64URL(t *testing.T) {
	for _, in := range []string{
		base64.URLEncoding.EncodeToString([]byte("résumé?")),
		base64.RawURLEncoding.EncodeToString([]byte("résumé?")),
	} {
		got, err := decodeBase64URL(in)
		require.NoError(t, err)
		assert.Equal(t, "résumé?", string(got))
	}
}

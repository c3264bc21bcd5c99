package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/justsurfingit/resume-screener/internal/ingestion"
	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/justsurfingit/resume-screener/internal/resume"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"gorm.io/gorm"
)

const DefaultImportQuery = "has:attachment newer_than:7d (filename:pdf OR filename:docx OR filename:txt)"

// Mailbox is the slice of the Gmail API the importer needs.
type Mailbox interface {
	ListMessages(ctx context.Context, query string, max int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (*gmail.Message, error)
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// ProcessedStore tracks which messages are finished and, within a message
// that is not, which attachments already became candidates.
type ProcessedStore interface {
	IsProcessed(ctx context.Context, messageID string) (bool, error)
	MarkProcessed(ctx context.Context, rec *models.ProcessedEmail) error
	ImportedParts(ctx context.Context, messageID string) (map[string]bool, error)
	MarkPartImported(ctx context.Context, rec *models.ImportedAttachment) error
}

type EmailJobMatcher interface {
	FindJobFromEmail(ctx context.Context, subject, rawSender string) (*models.Job, error)
}

type ResumeAnalyzer interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*AnalyzeResult, error)
}

type ImportOptions struct {
	// JobID forces every resume onto one job; otherwise the matcher decides per email.
	JobID       *uint
	Query       string
	MaxMessages int64
}

type ImportSummary struct {
	Messages    int `json:"messages"`
	Skipped     int `json:"skipped"`
	Attachments int `json:"attachments"`
	Candidates  int `json:"candidates"`
	Failed      int `json:"failed"`
}

// EmailService imports resume attachments from a Gmail inbox as candidates.
type EmailService struct {
	Mailbox   Mailbox
	Processed ProcessedStore
	Matcher   EmailJobMatcher
	Analyzer  ResumeAnalyzer
	Log       *logrus.Logger
}

func NewEmailService(mailbox Mailbox, processed ProcessedStore, matcher EmailJobMatcher, analyzer ResumeAnalyzer, log *logrus.Logger) *EmailService {
	return &EmailService{
		Mailbox:   mailbox,
		Processed: processed,
		Matcher:   matcher,
		Analyzer:  analyzer,
		Log:       log,
	}
}

func (s *EmailService) Import(ctx context.Context, opts ImportOptions) (*ImportSummary, error) {
	if opts.Query == "" {
		opts.Query = DefaultImportQuery
	}
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = 50
	}

	ids, err := s.Mailbox.ListMessages(ctx, opts.Query, opts.MaxMessages)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	s.Log.WithField("count", len(ids)).Info("Processing candidate emails...")

	summary := &ImportSummary{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		seen, err := s.Processed.IsProcessed(ctx, id)
		if err != nil {
			return summary, err
		}
		if seen {
			continue
		}

		summary.Messages++
		rec, err := s.processMessage(ctx, id, opts, summary)
		if err != nil {
			// Leave it unmarked so the next run retries it.
			s.Log.WithError(err).WithField("messageId", id).Warn("failed to process email")
			summary.Failed++
			continue
		}
		if err := s.Processed.MarkProcessed(ctx, rec); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (s *EmailService) processMessage(ctx context.Context, id string, opts ImportOptions, summary *ImportSummary) (*models.ProcessedEmail, error) {
	msg, err := s.Mailbox.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	headers := parseHeaders(msg)
	subject := headers["Subject"]
	logger := s.Log.WithFields(logrus.Fields{"messageId": id, "subject": shorten(subject, 40)})

	rec := &models.ProcessedEmail{ID: id}

	jobID := opts.JobID
	if jobID == nil {
		job, err := s.Matcher.FindJobFromEmail(ctx, subject, headers["From"])
		if err != nil {
			return nil, err
		}
		if job == nil {
			logger.Info("Skipped: no job matches this email")
			summary.Skipped++
			return rec, nil
		}
		jobID = &job.ID
	}
	rec.JobID = jobID

	done, err := s.Processed.ImportedParts(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Imported = len(done)

	for _, part := range resumeParts(msg.Payload) {
		key := partKey(part)
		if done[key] {
			continue
		}
		summary.Attachments++
		data, err := s.attachmentData(ctx, id, part)
		if err != nil {
			return nil, fmt.Errorf("attachment %s: %w", part.Filename, err)
		}

		text, err := ingestion.ExtractText(part.Filename, data)
		if err != nil {
			logger.WithError(err).WithField("file", part.Filename).Warn("Skipped attachment: no text")
			summary.Failed++
			continue
		}

		res, err := s.Analyzer.Analyze(ctx, AnalyzeInput{
			ResumeText: text,
			JobID:      jobID,
			File:       &UploadedFile{Name: part.Filename, Data: data},
		})
		if err != nil {
			if retryableImport(err) {
				return nil, fmt.Errorf("analyze %s: %w", part.Filename, err)
			}
			logger.WithError(err).WithField("file", part.Filename).Warn("Skipped attachment: resume analysis failed")
			summary.Failed++
			continue
		}
		if res.CandidateID == nil {
			if res.Warning != "" {
				return nil, fmt.Errorf("analyze %s: %s", part.Filename, res.Warning)
			}
			logger.WithField("file", part.Filename).Info("Skipped attachment: no personal information")
			summary.Failed++
			continue
		}

		err = s.Processed.MarkPartImported(ctx, &models.ImportedAttachment{
			MessageID:   id,
			PartKey:     key,
			CandidateID: *res.CandidateID,
		})
		if err != nil {
			return nil, err
		}
		rec.Imported++
		summary.Candidates++
		logger.WithField("candidateId", *res.CandidateID).Info("Candidate imported")
	}
	return rec, nil
}

// retryableImport reports whether a failed analysis may succeed on a later
// run. Empty text, a missing job and an unusable model reply will not.
func retryableImport(err error) bool {
	return !errors.Is(err, ErrValidation) &&
		!errors.Is(err, ErrNotFound) &&
		!errors.Is(err, resume.ErrNoValidJSON)
}

// partKey identifies an attachment across fetches. Gmail attachment ids are
// not stable, part ids are.
func partKey(part *gmail.MessagePart) string {
	if part.PartId == "" {
		return part.Filename
	}
	return part.PartId + ":" + part.Filename
}

func (s *EmailService) attachmentData(ctx context.Context, messageID string, part *gmail.MessagePart) ([]byte, error) {
	if part.Body == nil {
		return nil, errors.New("attachment has no body")
	}
	if part.Body.AttachmentId != "" {
		return s.Mailbox.GetAttachment(ctx, messageID, part.Body.AttachmentId)
	}
	return decodeBase64URL(part.Body.Data)
}

// resumeParts walks the MIME tree and returns attachments ingestion can read.
func resumeParts(part *gmail.MessagePart) []*gmail.MessagePart {
	if part == nil {
		return nil
	}
	var out []*gmail.MessagePart
	if part.Filename != "" && ingestion.Supported(part.Filename) {
		out = append(out, part)
	}
	for _, p := range part.Parts {
		out = append(out, resumeParts(p)...)
	}
	return out
}

// GmailMailbox talks to the Gmail API of the authorized user.
type GmailMailbox struct {
	Service *gmail.Service
}

func (m *GmailMailbox) ListMessages(ctx context.Context, query string, max int64) ([]string, error) {
	var resp *gmail.ListMessagesResponse
	err := retry(ctx, 3, time.Second, func() error {
		var e error
		resp, e = m.Service.Users.Messages.List("me").Q(query).MaxResults(max).Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, nil
}

func (m *GmailMailbox) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	var msg *gmail.Message
	err := retry(ctx, 2, 500*time.Millisecond, func() error {
		var e error
		msg, e = m.Service.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
		return e
	})
	return msg, err
}

func (m *GmailMailbox) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	var body *gmail.MessagePartBody
	err := retry(ctx, 2, 500*time.Millisecond, func() error {
		var e error
		body, e = m.Service.Users.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, err
	}
	return decodeBase64URL(body.Data)
}

// GormProcessedStore records imported messages in processed_emails.
type GormProcessedStore struct {
	DB *gorm.DB
}

func (s *GormProcessedStore) IsProcessed(ctx context.Context, messageID string) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.ProcessedEmail{}).Where("id = ?", messageID).Count(&count).Error; err != nil {
		return false, translate(err, "processed email lookup")
	}
	return count > 0, nil
}

func (s *GormProcessedStore) MarkProcessed(ctx context.Context, rec *models.ProcessedEmail) error {
	return translate(s.DB.WithContext(ctx).Create(rec).Error, "mark email processed")
}

func (s *GormProcessedStore) ImportedParts(ctx context.Context, messageID string) (map[string]bool, error) {
	var keys []string
	err := s.DB.WithContext(ctx).Model(&models.ImportedAttachment{}).
		Where("message_id = ?", messageID).
		Pluck("part_key", &keys).Error
	if err != nil {
		return nil, translate(err, "imported attachment lookup")
	}
	done := make(map[string]bool, len(keys))
	for _, k := range keys {
		done[k] = true
	}
	return done, nil
}

func (s *GormProcessedStore) MarkPartImported(ctx context.Context, rec *models.ImportedAttachment) error {
	return translate(s.DB.WithContext(ctx).Create(rec).Error, "mark attachment imported")
}

// --- HELPERS ---

// retry runs f with exponential backoff. Client errors other than 429 are
// returned immediately.
func retry(ctx context.Context, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}

func isRetryable(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code == 429 || gErr.Code >= 500
	}
	return true
}

func parseHeaders(msg *gmail.Message) map[string]string {
	res := make(map[string]string)
	if msg.Payload == nil {
		return res
	}
	for _, h := range msg.Payload.Headers {
		res[h.Name] = h.Value
	}
	return res
}

func decodeBase64URL(data string) ([]byte, error) {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/justsurfingit/resume-screener/internal/auth"
	"github.com/justsurfingit/resume-screener/internal/config"
	"github.com/justsurfingit/resume-screener/internal/database"
	"github.com/justsurfingit/resume-screener/internal/llm"
	"github.com/justsurfingit/resume-screener/internal/logger"
	"github.com/justsurfingit/resume-screener/internal/services"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// gmail-import reads resume attachments from the authorized Gmail inbox and
// records them as candidates. Without -job the job is picked from the email
// subject or sender. Already imported messages are skipped.
func main() {
	jobFlag := flag.Uint("job", 0, "import every resume into this job id (default: match by subject)")
	query := flag.String("query", services.DefaultImportQuery, "Gmail search query")
	maxMessages := flag.Int64("max", 50, "maximum number of messages to inspect")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.GinMode)

	opts := services.ImportOptions{Query: *query, MaxMessages: *maxMessages}
	if *jobFlag != 0 {
		id := uint(*jobFlag)
		opts.JobID = &id
	}

	if err := run(cfg, log, opts); err != nil {
		log.WithError(err).Error("import aborted")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logrus.Logger, opts services.ImportOptions) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	generator, err := llm.New(ctx, llm.Options{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		APIKey:   cfg.LLMAPIKey,
		Project:  cfg.GoogleCloudProject,
		Location: cfg.GoogleCloudLocation,
	})
	if err != nil {
		return fmt.Errorf("language model setup: %w", err)
	}
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}

	log.Info("Initializing Gmail Client...")
	httpClient, err := auth.GmailClient(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile, os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("gmail authorization: %w", err)
	}
	gmailService, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("create Gmail service: %w", err)
	}

	jobService := services.NewJobService(db)
	candidateService := services.NewCandidateService(db, nil, log)
	extraction := services.NewExtractionService(jobService, generator, candidateService, nil, log)
	importer := services.NewEmailService(
		&services.GmailMailbox{Service: gmailService},
		&services.GormProcessedStore{DB: db},
		services.NewMatcherService(db),
		extraction,
		log,
	)

	summary, err := importer.Import(ctx, opts)
	if summary != nil {
		log.WithField("messages", summary.Messages).
			WithField("skipped", summary.Skipped).
			WithField("attachments", summary.Attachments).
			WithField("candidates", summary.Candidates).
			WithField("failed", summary.Failed).
			Info("Import finished")
	}
	return err
}

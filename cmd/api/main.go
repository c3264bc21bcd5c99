package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/justsurfingit/resume-screener/docs"
	"github.com/justsurfingit/resume-screener/internal/auth"
	"github.com/justsurfingit/resume-screener/internal/config"
	"github.com/justsurfingit/resume-screener/internal/database"
	"github.com/justsurfingit/resume-screener/internal/handlers"
	"github.com/justsurfingit/resume-screener/internal/llm"
	"github.com/justsurfingit/resume-screener/internal/logger"
	"github.com/justsurfingit/resume-screener/internal/services"
	"github.com/sirupsen/logrus"
)

//go:generate swag init --dir ../.. --generalInfo cmd/api/main.go --output ../../docs --outputTypes go --parseInternal

// @title Resume Screener API
// @version 1.0
// @description Applicant tracking: jobs, interviewers, candidates and LLM-backed resume extraction.

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// 1. Configuration & logging
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.GinMode)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("server exited")
		os.Exit(1)
	}
	log.Info("Server stopped")
}

// run owns every resource it opens, so deferred closes happen before main exits.
func run(cfg *config.Config, log *logrus.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Database
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// 3. Language model
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
	log.WithField("provider", cfg.LLMProvider).WithField("model", cfg.LLMModel).Info("language model ready")

	// 4. Optional integrations. Interfaces stay nil when disabled.
	var archive services.Archiver
	if cfg.ArchiveEnabled() {
		a, err := services.NewArchiveService(ctx, services.ArchiveConfig{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return fmt.Errorf("resume archive setup: %w", err)
		}
		archive = a
		log.WithField("bucket", cfg.S3Bucket).Info("resume archive enabled")
	}

	var events services.Publisher
	if cfg.EventsEnabled() {
		p, err := services.NewEventPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.WithError(err).Warn("event publishing disabled: broker unreachable")
		} else {
			defer p.Close()
			events = p
			log.Info("event publishing enabled")
		}
	}

	// 5. Services
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	jobService := services.NewJobService(db)
	candidateService := services.NewCandidateService(db, events, log)
	interviewerService := services.NewInterviewerService(db)
	userService := services.NewUserService(db)
	exportService := services.NewExportService(jobService)
	extractionService := services.NewExtractionService(jobService, generator, candidateService, archive, log)

	// 6. Handlers & router
	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Tokens:         tokens,
		Log:            log,
	}, handlers.Handlers{
		Auth:         handlers.NewAuthHandler(userService, tokens, log),
		Jobs:         handlers.NewJobHandler(jobService, exportService, log),
		Candidates:   handlers.NewCandidateHandler(candidateService, log),
		Interviewers: handlers.NewInterviewerHandler(interviewerService, log),
		Resumes:      handlers.NewResumeHandler(extractionService, log),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute, // LLM calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown")
		}
	}()

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

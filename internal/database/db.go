package database

import (
	"fmt"

	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres pool and migrates the schema.
func Connect(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Surfaces unique and foreign key violations as gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	log.Info("Running migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables. Jobs go first so the child
// foreign keys have something to point at.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Job{}, &models.Interviewer{}, &models.Candidate{}, &models.ProcessedEmail{}, &models.ImportedAttachment{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

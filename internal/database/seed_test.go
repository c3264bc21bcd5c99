package database

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/justsurfingit/resume-screener/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSampleResumesEncode(t *testing.T) {
	samples := sampleResumes()
	require.Len(t, samples, 2)

	for _, r := range samples {
		t.Run(r.PersonalInformation.Name.String(), func(t *testing.T) {
			assert.True(t, r.HasPersonalInformation())

			data, err := r.JSON()
			require.NoError(t, err)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Contains(t, decoded, "experience")
			assert.Contains(t, decoded, "education")
			assert.NotContains(t, decoded, "job_match_analysis")
		})
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, Migrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	require.NoError(t, Seed(db, "admin-secret", log))
	require.NoError(t, Seed(db, "admin-secret", log))

	counts := map[any]int64{
		&models.User{}:        1,
		&models.Job{}:         1,
		&models.Interviewer{}: 2,
		&models.Candidate{}:   2,
	}
	for model, want := range counts {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Equal(t, want, n, "%T", model)
	}

	var job models.Job
	require.NoError(t, db.Where("title = ?", SeedJobTitle).First(&job).Error)
	assert.Len(t, job.Responsibilities, 3)
}

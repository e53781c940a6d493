package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a disposable database named by TEST_DATABASE_URL.
func TestRepositoryRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	repo, err := ConnectDB(ctx, url)
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.EnsureSchema(ctx))

	before, err := repo.CountJobRecords(ctx)
	require.NoError(t, err)

	rec := models.JobRecord{
		JobURL:    "https://jobs.test/viewjob?jk=" + uuid.NewString(),
		Title:     "Computer Vision Engineer",
		ScrapedAt: time.Now().Truncate(time.Second),
	}
	runID := uuid.NewString()
	require.NoError(t, repo.SaveJobRecord(ctx, runID, rec))
	require.NoError(t, repo.SaveJobRecord(ctx, runID, rec), "duplicates are ignored")

	other := rec
	other.JobURL += "-2"
	inserted, err := repo.SaveJobRecords(ctx, "", []models.JobRecord{rec, other})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	after, err := repo.CountJobRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+2, after)
}

func TestConnectDBBadURL(t *testing.T) {
	_, err := ConnectDB(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}

package quality

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository connects to the database named by TEST_DATABASE_URL.
// The test is skipped when no database is available.
func testRepository(t *testing.T) *Repository {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewRepository(pool)
	require.NoError(t, repo.EnsureSchema(context.Background()))

	_, err = pool.Exec(context.Background(), "TRUNCATE quality_reports")
	require.NoError(t, err)

	return repo
}

func TestRepository_SaveAndGetLatest(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	assessor := NewAssessor()

	old := assessor.Assess("climate-obs", Metadata{Title: "Old Title"}, "")
	old.AssessmentDate = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, old))

	current := assessor.Assess("climate-obs", fullMetadata(), "")
	require.NoError(t, repo.Save(ctx, current))

	got, err := repo.GetLatest(ctx, "climate-obs")
	require.NoError(t, err)

	assert.Equal(t, current.DatasetID, got.DatasetID)
	assert.InDelta(t, current.OverallScore, got.OverallScore, 1e-9)
	assert.Equal(t, current.Summary, got.Summary)
	assert.Len(t, got.MetricScores, 4)
}

func TestRepository_ListLatestOnePerDataset(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	assessor := NewAssessor()
	for _, id := range []string{"ds-a", "ds-b"} {
		stale := assessor.Assess(id, Metadata{}, "")
		stale.AssessmentDate = time.Now().UTC().Add(-time.Hour)
		require.NoError(t, repo.Save(ctx, stale))
		require.NoError(t, repo.Save(ctx, assessor.Assess(id, fullMetadata(), "")))
	}

	reports, err := repo.ListLatest(ctx, 100)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	seen := map[string]bool{}
	for _, r := range reports {
		seen[r.DatasetID] = true
		assert.Greater(t, r.OverallScore, 0.9, "latest report should win")
	}
	assert.True(t, seen["ds-a"])
	assert.True(t, seen["ds-b"])
}

//go:build integration

package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/recruiting-platform/internal/types"
)

// =============================================================================
// Integration Tests (require TEST_DATABASE_URL)
// =============================================================================

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Connect(ctx, dsn, PoolOptions{MaxConns: 4})
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.ApplySchema(ctx))
	t.Cleanup(db.Close)

	return db
}

func createTestOrg(t *testing.T, db *DB) *Organization {
	t.Helper()
	ctx := context.Background()

	org, err := db.CreateOrganization(ctx, "Test Org "+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.DeleteOrganization(context.Background(), org.ID) })
	return org
}

func fitResult(score float64) *types.FitScoreResult {
	return &types.FitScoreResult{
		OverallScore:    score,
		SkillMatch:      score,
		Recommendations: []string{"Strong experience match for this role"},
		GeneratedAt:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestIntegration_Jobs(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	org := createTestOrg(t, db)
	other := createTestOrg(t, db)

	job, err := db.CreateJob(ctx, &JobCreateInput{
		OrganizationID:     org.ID,
		Title:              "  Backend Engineer ",
		Description:        "Build APIs in Go",
		RequiredSkills:     []string{"Go", " ", "PostgreSQL"},
		MinYearsExperience: types.Years(3),
		RequiredEducation:  "Bachelor's",
		Location:           "Remote",
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, job.RequiredSkills)
	assert.Empty(t, job.PreferredSkills)
	assert.Equal(t, JobStatusOpen, job.Status)

	t.Run("get", func(t *testing.T) {
		got, err := db.GetJob(ctx, org.ID, job.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, job.ID, got.ID)
		require.NotNil(t, got.MinYearsExperience)
		assert.Equal(t, 3.0, *got.MinYearsExperience)
	})

	t.Run("tenant isolation", func(t *testing.T) {
		got, err := db.GetJob(ctx, other.ID, job.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		err = db.DeleteJob(ctx, other.ID, job.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("list", func(t *testing.T) {
		jobs, err := db.ListJobs(ctx, org.ID, ListFilters{})
		require.NoError(t, err)
		require.Len(t, jobs, 1)

		jobs, err = db.ListJobs(ctx, other.ID, ListFilters{})
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, db.DeleteJob(ctx, org.ID, job.ID))
		got, err := db.GetJob(ctx, org.ID, job.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestIntegration_Candidates(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	org := createTestOrg(t, db)

	var ids []uuid.UUID
	for _, name := range []string{"Ada", "Grace", "Linus"} {
		c, err := db.CreateCandidate(ctx, &CandidateCreateInput{
			OrganizationID: org.ID,
			Name:           name,
			Skills:         []string{"Go"},
		})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	got, err := db.GetCandidate(ctx, org.ID, ids[0])
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.YearsExperience)

	all, err := db.ListCandidates(ctx, org.ID, ListFilters{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := db.ListCandidatesByIDs(ctx, org.ID, []uuid.UUID{ids[1], uuid.New()})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, ids[1], some[0].ID)
}

func TestIntegration_FitScores(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	org := createTestOrg(t, db)
	other := createTestOrg(t, db)

	job, err := db.CreateJob(ctx, &JobCreateInput{OrganizationID: org.ID, Title: "Engineer"})
	require.NoError(t, err)

	scores := []float64{0.4, 0.9, 0.9, 0.7}
	var candidates []*Candidate
	for range scores {
		c, err := db.CreateCandidate(ctx, &CandidateCreateInput{OrganizationID: org.ID, Name: "c"})
		require.NoError(t, err)
		candidates = append(candidates, c)
	}

	for i, c := range candidates {
		app, err := db.SaveFitScore(ctx, org.ID, job.ID, c.ID, fitResult(scores[i]))
		require.NoError(t, err)
		require.NotNil(t, app.FitScore)
		assert.Equal(t, scores[i], *app.FitScore)
		assert.Equal(t, ApplicationStatusNew, app.Status)
	}

	t.Run("rescoring updates in place", func(t *testing.T) {
		app, err := db.SaveFitScore(ctx, org.ID, job.ID, candidates[0].ID, fitResult(0.5))
		require.NoError(t, err)
		assert.Equal(t, 0.5, *app.FitScore)

		got, err := db.GetFitScore(ctx, org.ID, job.ID, candidates[0].ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, app.ID, got.ID)
		require.NotNil(t, got.FitScoreDetails)
		assert.Equal(t, 0.5, got.FitScoreDetails.OverallScore)
	})

	t.Run("other tenant cannot score", func(t *testing.T) {
		_, err := db.SaveFitScore(ctx, other.ID, job.ID, candidates[0].ID, fitResult(1))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("top candidates", func(t *testing.T) {
		top, err := db.ListTopCandidates(ctx, org.ID, job.ID, 3)
		require.NoError(t, err)
		require.Len(t, top, 3)

		assert.Equal(t, 0.9, *top[0].Application.FitScore)
		assert.Equal(t, 0.9, *top[1].Application.FitScore)
		assert.Equal(t, 0.7, *top[2].Application.FitScore)
		assert.Less(t, top[0].Candidate.ID.String(), top[1].Candidate.ID.String())

		none, err := db.ListTopCandidates(ctx, other.ID, job.ID, 3)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestIntegration_SaveFitScoresIsAtomic(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	org := createTestOrg(t, db)

	job, err := db.CreateJob(ctx, &JobCreateInput{OrganizationID: org.ID, Title: "Engineer"})
	require.NoError(t, err)
	first, err := db.CreateCandidate(ctx, &CandidateCreateInput{OrganizationID: org.ID, Name: "first"})
	require.NoError(t, err)
	second, err := db.CreateCandidate(ctx, &CandidateCreateInput{OrganizationID: org.ID, Name: "second"})
	require.NoError(t, err)

	err = db.SaveFitScores(ctx, org.ID, job.ID, []FitScoreEntry{
		{CandidateID: first.ID, Result: fitResult(0.8)},
		{CandidateID: uuid.New(), Result: fitResult(0.9)},
	})
	require.ErrorIs(t, err, ErrNotFound)

	app, err := db.GetFitScore(ctx, org.ID, job.ID, first.ID)
	require.NoError(t, err)
	assert.Nil(t, app, "failed batch is rolled back")

	require.NoError(t, db.SaveFitScores(ctx, org.ID, job.ID, []FitScoreEntry{
		{CandidateID: first.ID, Result: fitResult(0.8)},
		{CandidateID: second.ID, Result: fitResult(0.6)},
	}))
	top, err := db.ListTopCandidates(ctx, org.ID, job.ID, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, first.ID, top[0].Candidate.ID)

	assert.NoError(t, db.SaveFitScores(ctx, org.ID, job.ID, nil))
}

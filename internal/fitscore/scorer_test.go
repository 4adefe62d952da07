package fitscore

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/recruiting-platform/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// recordingMetrics captures Recorder calls.
type recordingMetrics struct {
	mu      sync.Mutex
	scores  []*types.FitScoreResult
	sources []types.CultureSource
}

func (r *recordingMetrics) RecordScore(result *types.FitScoreResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = append(r.scores, result)
}

func (r *recordingMetrics) RecordCultureJudgment(source types.CultureSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}

func constantJudge(v float64) CultureJudge {
	return CultureJudgeFunc(func(_ context.Context, _, _ string) (float64, error) {
		return v, nil
	})
}

func scenarioJob() *types.JobRequirements {
	return &types.JobRequirements{
		ID:                 "job-1",
		Title:              "Backend Engineer",
		RequiredSkills:     []string{"Python", "AWS"},
		MinYearsExperience: types.Years(5),
		RequiredEducation:  "Bachelor",
		Location:           "Remote",
	}
}

func scenarioCandidate() *types.CandidateProfile {
	return &types.CandidateProfile{
		ID:               "cand-1",
		Name:             "Alex Doe",
		Skills:           []string{"python", "Docker"},
		YearsExperience:  types.Years(3),
		HighestEducation: "Master's degree",
		Location:         "Remote",
	}
}

func TestNewScorer_RejectsInvalidWeights(t *testing.T) {
	s, err := NewScorer(nil, WithWeights(types.Weights{Skill: 0.5}))

	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestScore_EndToEndScenario(t *testing.T) {
	s, err := NewScorer(nil, WithClock(fixedClock))
	require.NoError(t, err)

	result := s.Score(context.Background(), scenarioJob(), scenarioCandidate())

	assert.InDelta(t, 0.5, result.SkillMatch, 1e-12)
	assert.InDelta(t, 0.6, result.ExperienceMatch, 1e-12)
	assert.InDelta(t, 1.0, result.EducationMatch, 1e-12)
	assert.InDelta(t, 1.0, result.LocationMatch, 1e-12)
	assert.InDelta(t, 0.5, result.CultureFit, 1e-12)
	assert.InDelta(t, 0.65, result.OverallScore, 1e-9)
	assert.Equal(t, DefaultWeights(), result.Weights)
	assert.Equal(t, fixedTime, result.GeneratedAt)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, "cand-1", result.CandidateID)

	assert.Equal(t, []string{
		"Consider developing these skills: AWS",
		"Gain 2.0 more years of relevant experience",
		"Research company culture and values to better align your application",
	}, result.Recommendations)

	assert.Equal(t, types.CultureMissingInput, result.Breakdown.Culture.Source)
	assert.Equal(t, 3, result.Breakdown.Education.RequiredLevel)
	assert.Equal(t, 4, result.Breakdown.Education.CandidateLevel)
	assert.Equal(t, []string{"AWS"}, result.Breakdown.Skills.Unmatched)
}

func TestScore_NilInputsNeverFail(t *testing.T) {
	s, err := NewScorer(nil)
	require.NoError(t, err)

	result := s.Score(context.Background(), nil, nil)

	require.NotNil(t, result)
	assert.Equal(t, 0.0, result.SkillMatch)
	assert.Equal(t, 0.5, result.ExperienceMatch)
	assert.Equal(t, 0.5, result.EducationMatch)
	assert.Equal(t, 0.5, result.LocationMatch)
	assert.Equal(t, 0.5, result.CultureFit)
	assert.GreaterOrEqual(t, result.OverallScore, 0.0)
	assert.LessOrEqual(t, result.OverallScore, 1.0)
	assert.NotEmpty(t, result.Recommendations)
}

func TestScore_DoesNotMutateInputs(t *testing.T) {
	s, err := NewScorer(constantJudge(0.8))
	require.NoError(t, err)

	job := scenarioJob()
	job.Description = "Fast-paced, collaborative team"
	candidate := scenarioCandidate()
	candidate.Summary = "Enjoys collaboration"
	jobCopy := job.Clone()
	candidateCopy := candidate.Clone()

	result := s.Score(context.Background(), job, candidate)

	assert.Equal(t, jobCopy, *job)
	assert.Equal(t, candidateCopy, *candidate)

	// The breakdown must not alias caller slices.
	candidate.Skills[0] = "changed"
	assert.Equal(t, "python", result.Breakdown.Candidate.Skills[0])
}

func TestScore_Idempotent(t *testing.T) {
	s, err := NewScorer(constantJudge(0.72), WithClock(fixedClock))
	require.NoError(t, err)

	job := scenarioJob()
	job.Description = "We value ownership"
	candidate := scenarioCandidate()
	candidate.Summary = "Owns outcomes end to end"

	first := s.Score(context.Background(), job, candidate)
	second := s.Score(context.Background(), job, candidate)

	assert.Equal(t, first, second)
}

func TestScore_IdempotentApartFromTimestamp(t *testing.T) {
	ticks := 0
	s, err := NewScorer(constantJudge(0.72), WithClock(func() time.Time {
		ticks++
		return fixedTime.Add(time.Duration(ticks) * time.Second)
	}))
	require.NoError(t, err)

	first := s.Score(context.Background(), scenarioJob(), scenarioCandidate())
	second := s.Score(context.Background(), scenarioJob(), scenarioCandidate())

	assert.NotEqual(t, first.GeneratedAt, second.GeneratedAt)
	second.GeneratedAt = first.GeneratedAt
	assert.Equal(t, first, second)
}

func TestScore_CultureJudge(t *testing.T) {
	tests := []struct {
		name       string
		judge      CultureJudge
		wantScore  float64
		wantSource types.CultureSource
	}{
		{"in range", constantJudge(0.8), 0.8, types.CultureFromJudge},
		{"clamped above", constantJudge(1.7), 1.0, types.CultureFromJudge},
		{"clamped below", constantJudge(-0.3), 0.0, types.CultureFromJudge},
		{"NaN falls back", constantJudge(math.NaN()), 0.5, types.CultureFallback},
		{"infinite falls back", constantJudge(math.Inf(1)), 0.5, types.CultureFallback},
		{"error falls back", CultureJudgeFunc(func(_ context.Context, _, _ string) (float64, error) {
			return 0, errors.New("upstream unavailable")
		}), 0.5, types.CultureFallback},
		{"panic falls back", CultureJudgeFunc(func(_ context.Context, _, _ string) (float64, error) {
			panic("boom")
		}), 0.5, types.CultureFallback},
		{"no judge", nil, 0.5, types.CultureNoJudge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScorer(tt.judge)
			require.NoError(t, err)

			job := scenarioJob()
			job.Description = "Remote-first, async culture"
			candidate := scenarioCandidate()
			candidate.Summary = "Prefers written communication"

			result := s.Score(context.Background(), job, candidate)

			assert.InDelta(t, tt.wantScore, result.CultureFit, 1e-12)
			assert.Equal(t, tt.wantSource, result.Breakdown.Culture.Source)
		})
	}
}

func TestScore_CultureJudgeSkippedWithoutText(t *testing.T) {
	called := false
	judge := CultureJudgeFunc(func(_ context.Context, _, _ string) (float64, error) {
		called = true
		return 1, nil
	})
	s, err := NewScorer(judge)
	require.NoError(t, err)

	job := scenarioJob()
	job.Description = "Has a description"

	result := s.Score(context.Background(), job, scenarioCandidate())

	assert.False(t, called)
	assert.Equal(t, 0.5, result.CultureFit)
	assert.Equal(t, types.CultureMissingInput, result.Breakdown.Culture.Source)
}

func TestScore_CultureTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	// Ignores its context to prove the scorer does not wait on a stuck judge.
	stuck := CultureJudgeFunc(func(_ context.Context, _, _ string) (float64, error) {
		<-release
		return 1, nil
	})

	core, logs := observer.New(zap.WarnLevel)
	s, err := NewScorer(stuck, WithCultureTimeout(20*time.Millisecond), WithLogger(zap.New(core)))
	require.NoError(t, err)

	job := scenarioJob()
	job.Description = "Collaborative"
	candidate := scenarioCandidate()
	candidate.Summary = "Team player"

	start := time.Now()
	result := s.Score(context.Background(), job, candidate)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 0.5, result.CultureFit)
	assert.Equal(t, types.CultureFallback, result.Breakdown.Culture.Source)
	assert.Contains(t, result.Breakdown.Culture.Error, "deadline exceeded")
	assert.InDelta(t, 0.65, result.OverallScore, 1e-9)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "culture judgment degraded to neutral score", entry.Message)
	assert.Equal(t, "cand-1", entry.ContextMap()["candidate_id"])
}

// slowJudge answers 0.9 after delay and tracks the peak number of calls in flight.
type slowJudge struct {
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (j *slowJudge) Judge(ctx context.Context, _, _ string) (float64, error) {
	n := j.inFlight.Add(1)
	defer j.inFlight.Add(-1)
	for {
		p := j.peak.Load()
		if n <= p || j.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-time.After(j.delay):
		return 0.9, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestScore_JudgmentLimitQueuesOutsideTimeout(t *testing.T) {
	judge := &slowJudge{delay: 60 * time.Millisecond}
	s, err := NewScorer(judge, WithJudgmentLimit(1), WithCultureTimeout(100*time.Millisecond))
	require.NoError(t, err)

	job := scenarioJob()
	job.Description = "Collaborative"
	candidate := scenarioCandidate()
	candidate.Summary = "Team player"

	results := make([]*types.FitScoreResult, 4)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Score(context.Background(), job, candidate)
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		assert.Equal(t, types.CultureFromJudge, result.Breakdown.Culture.Source, "score %d: %s", i, result.Breakdown.Culture.Error)
		assert.InDelta(t, 0.9, result.CultureFit, 1e-12)
	}
	assert.Equal(t, int32(1), judge.peak.Load())
}

func TestScore_JudgmentLimitWaitHonorsCallerContext(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	blocking := CultureJudgeFunc(func(_ context.Context, _, _ string) (float64, error) {
		close(started)
		<-release
		return 1, nil
	})
	s, err := NewScorer(blocking, WithJudgmentLimit(1), WithCultureTimeout(time.Minute))
	require.NoError(t, err)

	job := scenarioJob()
	job.Description = "Collaborative"
	candidate := scenarioCandidate()
	candidate.Summary = "Team player"

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Score(context.Background(), job, candidate)
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	result := s.Score(ctx, job, candidate)
	close(release)
	<-done

	assert.Equal(t, types.CultureFallback, result.Breakdown.Culture.Source)
	assert.Contains(t, result.Breakdown.Culture.Error, "waiting for culture judgment slot")
	assert.Equal(t, 0.5, result.CultureFit)
}

func TestScore_RecordsMetrics(t *testing.T) {
	rec := &recordingMetrics{}
	s, err := NewScorer(nil, WithMetrics(rec))
	require.NoError(t, err)

	s.Score(context.Background(), scenarioJob(), scenarioCandidate())

	require.Len(t, rec.scores, 1)
	assert.Equal(t, []types.CultureSource{types.CultureMissingInput}, rec.sources)
}

func TestScore_SubScoresWithinBounds(t *testing.T) {
	s, err := NewScorer(constantJudge(42))
	require.NoError(t, err)

	jobs := []*types.JobRequirements{
		nil,
		scenarioJob(),
		{RequiredSkills: []string{"a", "b", "c"}, MinYearsExperience: types.Years(-1), RequiredEducation: "???", Description: "x", Location: "??"},
		{RequiredSkills: []string{"Go"}, MinYearsExperience: types.Years(math.Inf(1)), Description: "d"},
	}
	candidates := []*types.CandidateProfile{
		nil,
		scenarioCandidate(),
		{Skills: []string{"abc", "b"}, YearsExperience: types.Years(100), HighestEducation: "phd", Summary: "s", Location: "??"},
		{Skills: []string{""}, YearsExperience: types.Years(math.NaN())},
	}

	for _, j := range jobs {
		for _, c := range candidates {
			r := s.Score(context.Background(), j, c)
			for _, v := range []float64{r.SkillMatch, r.ExperienceMatch, r.EducationMatch, r.LocationMatch, r.CultureFit, r.OverallScore} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
			assert.LessOrEqual(t, len(r.Recommendations), maxRecommendations)
		}
	}
}

// Package fitscore computes explainable fit scores between a job and a candidate.
//
// A score combines five sub-scores (skill, experience, education, location and
// culture fit) using a validated weight table. Missing data never fails a score;
// each dimension resolves it to a documented default instead.
package fitscore

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/recruiting-platform/internal/logging"
	"github.com/jonathan/recruiting-platform/internal/types"
)

// Recorder receives scoring events for metrics collection.
type Recorder interface {
	RecordScore(result *types.FitScoreResult)
	RecordCultureJudgment(source types.CultureSource)
}

// Scorer computes fit scores. It is safe for concurrent use; the only shared state
// is the optional judgment slot pool.
type Scorer struct {
	weights        types.Weights
	judge          CultureJudge
	judgeSlots     *semaphore.Weighted
	cultureTimeout time.Duration
	logger         *zap.Logger
	recorder       Recorder
	now            func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights replaces the default weight table.
func WithWeights(w types.Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// WithCultureTimeout bounds each culture judgment. Non-positive values keep the default.
func WithCultureTimeout(d time.Duration) Option {
	return func(s *Scorer) {
		if d > 0 {
			s.cultureTimeout = d
		}
	}
}

// WithJudgmentLimit caps the culture judgments in flight across all callers of the
// scorer. A call first waits for a slot under the caller's context; the culture
// timeout starts only once the slot is held. Non-positive values leave it unbounded.
func WithJudgmentLimit(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.judgeSlots = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithLogger sets the logger used for degraded-mode events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the recorder notified of every score.
func WithMetrics(r Recorder) Option {
	return func(s *Scorer) {
		s.recorder = r
	}
}

// WithClock sets the clock used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScorer creates a Scorer. judge may be nil, in which case culture fit is always neutral.
// Returns ErrInvalidWeights if the configured weights are unusable.
func NewScorer(judge CultureJudge, opts ...Option) (*Scorer, error) {
	s := &Scorer{
		weights:        DefaultWeights(),
		judge:          judge,
		cultureTimeout: DefaultCultureTimeout,
		logger:         zap.NewNop(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := ValidateWeights(s.weights); err != nil {
		return nil, err
	}
	return s, nil
}

// Weights returns the weight table in use.
func (s *Scorer) Weights() types.Weights {
	return s.weights
}

// Score computes the fit score for a job and candidate. It never fails and never
// mutates its inputs; nil inputs are treated as records with every field absent.
//
// Identical inputs yield identical results except for GeneratedAt, which is stamped
// from the scorer's clock. Results are fully equal only under a fixed clock (WithClock).
func (s *Scorer) Score(ctx context.Context, job *types.JobRequirements, candidate *types.CandidateProfile) *types.FitScoreResult {
	j := types.JobRequirements{}
	if job != nil {
		j = job.Clone()
	}
	c := types.CandidateProfile{}
	if candidate != nil {
		c = candidate.Clone()
	}

	skill, skillEvidence := SkillMatch(j.RequiredSkills, c.Skills)
	experience := ExperienceMatch(j.MinYearsExperience, c.YearsExperience)
	education, educationEvidence := educationMatch(j.RequiredEducation, c.HighestEducation)
	location := LocationMatch(j.Location, c.Location)
	culture, cultureEvidence := s.cultureFit(ctx, j.Description, c.Summary)

	logger := logging.WithFields(s.logger, logging.ScoreFields("", j.ID, c.ID)...)
	if cultureEvidence.Source == types.CultureFallback {
		logger.Warn("culture judgment degraded to neutral score",
			zap.String("error", cultureEvidence.Error),
		)
	}

	scores := subScores{
		skill:      skill,
		experience: experience,
		education:  education,
		location:   location,
		culture:    culture,
	}

	result := &types.FitScoreResult{
		JobID:           j.ID,
		CandidateID:     c.ID,
		OverallScore:    combine(s.weights, skill, experience, education, location, culture),
		SkillMatch:      skill,
		ExperienceMatch: experience,
		EducationMatch:  education,
		LocationMatch:   location,
		CultureFit:      culture,
		Weights:         s.weights,
		Recommendations: generateRecommendations(scores, &j, &c),
		Breakdown: types.Breakdown{
			Job:       j,
			Candidate: c,
			Skills:    skillEvidence,
			Education: educationEvidence,
			Culture:   cultureEvidence,
		},
		GeneratedAt: s.now().UTC(),
	}

	if s.recorder != nil {
		s.recorder.RecordCultureJudgment(cultureEvidence.Source)
		s.recorder.RecordScore(result)
	}

	logger.Debug("scored candidate", zap.Float64("overall_score", result.OverallScore))

	return result
}

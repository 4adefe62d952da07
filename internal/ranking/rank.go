// Package ranking scores a batch of candidates against one job and orders them.
package ranking

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/recruiting-platform/internal/fitscore"
	"github.com/jonathan/recruiting-platform/internal/types"
)

// RankedCandidate is one entry of a ranked list.
type RankedCandidate struct {
	Rank        int                   `json:"rank"`
	CandidateID string                `json:"candidate_id"`
	Name        string                `json:"name,omitempty"`
	Notes       string                `json:"notes"`
	Result      *types.FitScoreResult `json:"result"`
}

// DurationObserver records how long a ranking run took.
type DurationObserver interface {
	ObserveRankDuration(d time.Duration, candidates int)
}

// Ranker scores candidates in parallel.
type Ranker struct {
	scorer   *fitscore.Scorer
	workers  int
	logger   *zap.Logger
	observer DurationObserver
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithWorkers bounds how many candidates are scored at once.
func WithWorkers(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the ranker's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Ranker) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver sets the observer notified after each run.
func WithObserver(o DurationObserver) Option {
	return func(r *Ranker) {
		r.observer = o
	}
}

// NewRanker creates a Ranker around scorer.
func NewRanker(scorer *fitscore.Scorer, opts ...Option) *Ranker {
	r := &Ranker{
		scorer:  scorer,
		workers: runtime.GOMAXPROCS(0),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every candidate against job and returns them sorted by overall score
// descending, ties broken by candidate ID ascending. Scoring itself never fails;
// an error is returned only when ctx is cancelled before all candidates are scored.
func (r *Ranker) Rank(ctx context.Context, job *types.JobRequirements, candidates []types.CandidateProfile) ([]RankedCandidate, error) {
	start := time.Now()
	ranked := make([]RankedCandidate, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			candidate := &candidates[i]
			result := r.scorer.Score(gctx, job, candidate)
			ranked[i] = RankedCandidate{
				CandidateID: candidate.ID,
				Name:        candidate.Name,
				Notes:       generateNotes(result),
				Result:      result,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking cancelled: %w", err)
	}

	SortRanked(ranked)

	elapsed := time.Since(start)
	if r.observer != nil {
		r.observer.ObserveRankDuration(elapsed, len(candidates))
	}
	r.logger.Info("ranked candidates",
		zap.String("job_id", jobID(job)),
		zap.Int("candidates", len(candidates)),
		zap.Duration("elapsed", elapsed),
	)

	return ranked, nil
}

// SortRanked orders entries by overall score descending, then candidate ID ascending,
// and renumbers their ranks starting at 1.
func SortRanked(ranked []RankedCandidate) {
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := overall(ranked[i]), overall(ranked[j])
		if si != sj {
			return si > sj
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
}

// TopN returns the first n entries. Non-positive n returns everything.
func TopN(ranked []RankedCandidate, n int) []RankedCandidate {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

func overall(rc RankedCandidate) float64 {
	if rc.Result == nil {
		return 0
	}
	return rc.Result.OverallScore
}

func jobID(job *types.JobRequirements) string {
	if job == nil {
		return ""
	}
	return job.ID
}

// generateNotes creates a brief explanation of a candidate's ranking.
func generateNotes(result *types.FitScoreResult) string {
	var parts []string

	matched := make([]string, 0, len(result.Breakdown.Skills.Matched))
	for _, m := range result.Breakdown.Skills.Matched {
		matched = append(matched, m.Required)
	}

	switch {
	case len(matched) == 0:
		parts = append(parts, "No skill matches")
	case result.SkillMatch >= 0.7:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(matched, ", ")))
	case result.SkillMatch >= 0.4:
		parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", strings.Join(matched, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(matched, ", ")))
	}

	if result.ExperienceMatch >= 1.0 {
		parts = append(parts, "Meets experience requirement")
	} else if result.ExperienceMatch < 0.5 {
		parts = append(parts, "Limited experience")
	}

	if result.Breakdown.Culture.Source == types.CultureFallback {
		parts = append(parts, "Culture fit unavailable")
	}

	return strings.Join(parts, ". ")
}

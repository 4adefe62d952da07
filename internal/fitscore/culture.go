package fitscore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jonathan/recruiting-platform/internal/types"
)

// DefaultCultureTimeout bounds a single culture-fit judgment.
const DefaultCultureTimeout = 10 * time.Second

// ErrInvalidJudgment is reported when a judge returns a non-numeric score.
var ErrInvalidJudgment = errors.New("culture judge returned a non-finite score")

// CultureJudge assesses qualitative alignment between a job description and a
// candidate summary, returning a score in [0, 1].
type CultureJudge interface {
	Judge(ctx context.Context, jobDescription, candidateSummary string) (float64, error)
}

// CultureJudgeFunc adapts a function to the CultureJudge interface.
type CultureJudgeFunc func(ctx context.Context, jobDescription, candidateSummary string) (float64, error)

// Judge calls f.
func (f CultureJudgeFunc) Judge(ctx context.Context, jobDescription, candidateSummary string) (float64, error) {
	return f(ctx, jobDescription, candidateSummary)
}

// cultureFit resolves the culture sub-score. It never fails: missing text, a missing
// judge, errors, timeouts and non-finite answers all resolve to the neutral score.
func (s *Scorer) cultureFit(ctx context.Context, description, summary string) (float64, types.CultureEvidence) {
	if !types.Present(description) || !types.Present(summary) {
		return neutralScore, types.CultureEvidence{Source: types.CultureMissingInput}
	}
	if s.judge == nil {
		return neutralScore, types.CultureEvidence{Source: types.CultureNoJudge}
	}

	if s.judgeSlots != nil {
		if err := s.judgeSlots.Acquire(ctx, 1); err != nil {
			err = fmt.Errorf("waiting for culture judgment slot: %w", err)
			return neutralScore, types.CultureEvidence{Source: types.CultureFallback, Error: err.Error()}
		}
		defer s.judgeSlots.Release(1)
	}

	raw, err := s.callJudge(ctx, description, summary)
	if err != nil {
		return neutralScore, types.CultureEvidence{Source: types.CultureFallback, Error: err.Error()}
	}

	return clamp(raw), types.CultureEvidence{Source: types.CultureFromJudge, Raw: &raw}
}

// callJudge invokes the judge under the configured timeout. A judge that ignores its
// context is abandoned once the deadline passes.
func (s *Scorer) callJudge(ctx context.Context, description, summary string) (score float64, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.cultureTimeout)
	defer cancel()

	type outcome struct {
		score float64
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("culture judge panicked: %v", r)}
			}
		}()
		v, err := s.judge.Judge(ctx, description, summary)
		done <- outcome{score: v, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("culture judgment: %w", ctx.Err())
	case out := <-done:
		if out.err != nil {
			return 0, fmt.Errorf("culture judgment: %w", out.err)
		}
		if math.IsNaN(out.score) || math.IsInf(out.score, 0) {
			return 0, ErrInvalidJudgment
		}
		return out.score, nil
	}
}

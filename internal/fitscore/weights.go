package fitscore

import (
	"errors"
	"fmt"
	"math"

	"github.com/jonathan/recruiting-platform/internal/types"
)

// Default weights for the fit score dimensions
const (
	skillWeight      = 0.35
	experienceWeight = 0.25
	educationWeight  = 0.15
	locationWeight   = 0.10
	cultureWeight    = 0.15
)

// weightSumTolerance bounds floating-point drift when checking that weights sum to 1.
const weightSumTolerance = 1e-9

// ErrInvalidWeights is returned when a weight table cannot be used for scoring.
var ErrInvalidWeights = errors.New("invalid fit score weights")

// DefaultWeights returns the standard weight table.
func DefaultWeights() types.Weights {
	return types.Weights{
		Skill:      skillWeight,
		Experience: experienceWeight,
		Education:  educationWeight,
		Location:   locationWeight,
		Culture:    cultureWeight,
	}
}

// ValidateWeights checks that every weight is a finite non-negative number and that
// the table sums to 1.0.
func ValidateWeights(w types.Weights) error {
	named := []struct {
		name  string
		value float64
	}{
		{"skill", w.Skill},
		{"experience", w.Experience},
		{"education", w.Education},
		{"location", w.Location},
		{"culture", w.Culture},
	}
	for _, n := range named {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) || n.value < 0 {
			return fmt.Errorf("%w: %s weight must be a non-negative number, got %v", ErrInvalidWeights, n.name, n.value)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0, got %.10f", ErrInvalidWeights, sum)
	}
	return nil
}

// combine computes the weighted overall score, clamped to [0, 1].
func combine(w types.Weights, skill, experience, education, location, culture float64) float64 {
	overall := w.Skill*skill +
		w.Experience*experience +
		w.Education*education +
		w.Location*location +
		w.Culture*culture
	return clamp(overall)
}

// clamp restricts v to [0, 1].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

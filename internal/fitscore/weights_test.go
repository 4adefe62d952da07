package fitscore

import (
	"math"
	"testing"

	"github.com/jonathan/recruiting-platform/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()

	assert.InDelta(t, 1.0, w.Sum(), weightSumTolerance)
	require.NoError(t, ValidateWeights(w))
}

func TestValidateWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights types.Weights
		wantErr bool
	}{
		{"defaults", DefaultWeights(), false},
		{"skill only", types.Weights{Skill: 1}, false},
		{"sum too small", types.Weights{Skill: 0.5, Experience: 0.2}, true},
		{"sum too large", types.Weights{Skill: 0.9, Culture: 0.2}, true},
		{"negative component", types.Weights{Skill: 1.2, Culture: -0.2}, true},
		{"NaN component", types.Weights{Skill: 1, Culture: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWeights(tt.weights)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeights)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCombine_ClampsOverall(t *testing.T) {
	w := DefaultWeights()

	assert.InDelta(t, 1.0, combine(w, 1, 1, 1, 1, 1), 1e-12)
	assert.Equal(t, 0.0, combine(w, 0, 0, 0, 0, 0))
	assert.Equal(t, 1.0, combine(types.Weights{Skill: 1}, 1.5, 0, 0, 0, 0))
}

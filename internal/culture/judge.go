// Package culture provides culture-fit judges for the fit scorer: an LLM-backed
// judge and a caching wrapper.
package culture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/recruiting-platform/internal/llm"
	"github.com/jonathan/recruiting-platform/internal/logging"
	"github.com/jonathan/recruiting-platform/internal/prompts"
)

// ErrUnparsableScore is returned when the model answer contains no usable score.
var ErrUnparsableScore = errors.New("culture judge response contained no score")

// maxPromptTextLen caps each text passed to the model.
const maxPromptTextLen = 6000

// judgeResponse is the JSON shape requested from the model.
type judgeResponse struct {
	CultureFitScore *float64 `json:"culture_fit_score"`
	Score           *float64 `json:"score"`
}

// LLMJudge asks a language model to rate culture alignment.
type LLMJudge struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMJudge creates a judge backed by client, using the lite model tier.
func NewLLMJudge(client llm.Client) *LLMJudge {
	return &LLMJudge{client: client, tier: llm.TierLite}
}

// Judge returns the model's culture-fit score. The value is returned as parsed;
// range enforcement belongs to the caller.
func (j *LLMJudge) Judge(ctx context.Context, jobDescription, candidateSummary string) (float64, error) {
	prompt, err := prompts.Render("culture.json", "judge-culture-fit", map[string]string{
		"JobDescription":   logging.Truncate(jobDescription, maxPromptTextLen),
		"CandidateSummary": logging.Truncate(candidateSummary, maxPromptTextLen),
	})
	if err != nil {
		return 0, err
	}

	resp, err := j.client.GenerateContent(ctx, prompt, j.tier)
	if err != nil {
		return 0, fmt.Errorf("culture judgment request failed: %w", err)
	}

	return ParseScore(resp)
}

// ParseScore extracts a score from a model answer. It accepts a JSON object with a
// culture_fit_score (or score) field, optionally fenced, or an answer that is only a
// number. Numbers inside prose are rejected since they are often the rating scale.
func ParseScore(text string) (float64, error) {
	cleaned := llm.CleanJSONBlock(text)
	if cleaned == "" {
		return 0, ErrUnparsableScore
	}

	if strings.Contains(cleaned, "{") {
		var resp judgeResponse
		if err := json.Unmarshal([]byte(llm.ExtractJSONObject(cleaned)), &resp); err == nil {
			switch {
			case resp.CultureFitScore != nil:
				return *resp.CultureFitScore, nil
			case resp.Score != nil:
				return *resp.Score, nil
			}
		}
	}

	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return v, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnparsableScore, logging.Truncate(cleaned, 200))
}

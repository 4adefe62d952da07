// Package parsing turns raw job descriptions into structured job requirements,
// using a language model when available and regular expressions otherwise.
package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/recruiting-platform/internal/llm"
	"github.com/jonathan/recruiting-platform/internal/prompts"
	"github.com/jonathan/recruiting-platform/internal/types"
)

// Method names how a job description was parsed.
type Method string

// Parse methods
const (
	MethodLLM      Method = "llm"
	MethodFallback Method = "fallback"
)

// maxJobTextLen caps the description sent to the model.
const maxJobTextLen = 20000

// JobParseResult is the outcome of parsing one job description.
type JobParseResult struct {
	Requirements    types.JobRequirements `json:"requirements"`
	PreferredSkills []string              `json:"preferred_skills"`
	Method          Method                `json:"method"`
	FallbackReason  string                `json:"fallback_reason,omitempty"`
}

// jobExtraction is the JSON shape returned by the model.
type jobExtraction struct {
	Title              string   `json:"title"`
	RequiredSkills     []string `json:"required_skills"`
	PreferredSkills    []string `json:"preferred_skills"`
	ExperienceRequired *float64 `json:"experience_required"`
	EducationRequired  string   `json:"education_required"`
	Location           string   `json:"location"`
}

// jobExtractionFields describes jobExtraction to the model.
var jobExtractionFields = []llm.OutputField{
	{Name: "title", Kind: llm.KindString, Hint: "job title as written in the posting"},
	{Name: "required_skills", Kind: llm.KindStringList, Hint: "skills, tools and technologies the candidate must have", Required: true},
	{Name: "preferred_skills", Kind: llm.KindStringList, Hint: "nice-to-have skills"},
	{Name: "experience_required", Kind: llm.KindNumber, Hint: "minimum years of experience", Nullable: true},
	{Name: "education_required", Kind: llm.KindString, Hint: "minimum degree such as Bachelor, Master or PhD; empty if not stated"},
	{Name: "location", Kind: llm.KindString, Hint: "work location or \"Remote\"; empty if not stated"},
}

var errNoClient = errors.New("no LLM client configured")

// JobParser extracts requirements from job descriptions.
type JobParser struct {
	client llm.Client
	logger *zap.Logger
}

// NewJobParser creates a parser. A nil client always uses the regex fallback.
func NewJobParser(client llm.Client, logger *zap.Logger) *JobParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobParser{client: client, logger: logger}
}

// Parse extracts requirements from text. Model failures fall back to regex
// extraction; only blank input is an error.
func (p *JobParser) Parse(ctx context.Context, text string) (*JobParseResult, error) {
	text = CleanText(text)
	if text == "" {
		return nil, &ValidationError{Field: "description", Message: "job description is empty"}
	}

	if p.client == nil {
		return FallbackParse(text), nil
	}

	result, err := p.ParseWithLLM(ctx, text)
	if err != nil {
		p.logger.Warn("LLM job parsing failed, using regex fallback", zap.Error(err))
		fallback := FallbackParse(text)
		fallback.FallbackReason = err.Error()
		return fallback, nil
	}
	return result, nil
}

// ParseWithLLM extracts requirements using only the language model.
func (p *JobParser) ParseWithLLM(ctx context.Context, text string) (*JobParseResult, error) {
	if p.client == nil {
		return nil, &ExtractionError{Stage: StageRequest, Cause: errNoClient}
	}

	preamble := prompts.MustGet("parsing.json", "extract-job-requirements")
	prompt := llm.JSONPrompt(preamble, jobExtractionFields, truncateText(text, maxJobTextLen))

	resp, err := p.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &ExtractionError{Stage: StageRequest, Cause: err}
	}

	var extracted jobExtraction
	if err := json.Unmarshal([]byte(llm.ExtractJSONObject(resp)), &extracted); err != nil {
		return nil, &ExtractionError{Stage: StageDecode, Cause: err}
	}

	if err := validateExtraction(&extracted); err != nil {
		return nil, err
	}

	job := types.JobRequirements{
		Title:              strings.TrimSpace(extracted.Title),
		RequiredSkills:     NormalizeSkills(extracted.RequiredSkills),
		MinYearsExperience: extracted.ExperienceRequired,
		RequiredEducation:  strings.TrimSpace(extracted.EducationRequired),
		Description:        text,
		Location:           strings.TrimSpace(extracted.Location),
	}

	return &JobParseResult{
		Requirements:    job,
		PreferredSkills: NormalizeSkills(extracted.PreferredSkills),
		Method:          MethodLLM,
	}, nil
}

func validateExtraction(e *jobExtraction) error {
	if len(e.RequiredSkills) == 0 {
		return &ValidationError{Field: "required_skills", Message: "no required skills extracted"}
	}
	if e.ExperienceRequired != nil {
		y := *e.ExperienceRequired
		if math.IsNaN(y) || y < 0 || y > 60 {
			return &ValidationError{
				Field:   "experience_required",
				Message: fmt.Sprintf("implausible value %v", y),
			}
		}
	}
	return nil
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Package schemas holds the JSON Schemas for the documents the platform reads and writes.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names
const (
	JobRequirements  = "job_requirements.schema.json"
	CandidateProfile = "candidate_profile.schema.json"
	FitScoreResult   = "fit_score_result.schema.json"
	RankedCandidates = "ranked_candidates.schema.json"
	JobParseResult   = "job_parse_result.schema.json"
)

// Names lists all schema files.
func Names() []string {
	return []string{JobRequirements, CandidateProfile, FitScoreResult, RankedCandidates, JobParseResult}
}

package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/recruiting-platform/internal/db"
	"github.com/jonathan/recruiting-platform/internal/logging"
	"github.com/jonathan/recruiting-platform/internal/ranking"
	"github.com/jonathan/recruiting-platform/internal/types"
)

// FitScoreRequest is the body of POST /fit-score.
type FitScoreRequest struct {
	JobID       string `json:"job_id" validate:"required,uuid"`
	CandidateID string `json:"candidate_id" validate:"required,uuid"`
}

// FitScoreResponse is returned by POST /fit-score.
type FitScoreResponse struct {
	Application *db.Application       `json:"application"`
	Result      *types.FitScoreResult `json:"result"`
}

// ScoreRequest is the body of POST /score. Nothing is persisted.
type ScoreRequest struct {
	Job       types.JobRequirements  `json:"job"`
	Candidate types.CandidateProfile `json:"candidate"`
}

// RankRequest is the body of POST /jobs/{id}/rank. Without candidate_ids every
// candidate of the organization is ranked.
type RankRequest struct {
	CandidateIDs []string `json:"candidate_ids" validate:"max=1000,dive,uuid"`
	Top          int      `json:"top" validate:"gte=0,lte=1000"`
}

// RankResponse is returned by POST /jobs/{id}/rank.
type RankResponse struct {
	JobID      string                    `json:"job_id"`
	Total      int                       `json:"total"`
	Candidates []ranking.RankedCandidate `json:"candidates"`
}

func (s *Server) handleFitScore(w http.ResponseWriter, r *http.Request) {
	orgID, err := s.organizationID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req FitScoreRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	jobID := uuid.MustParse(req.JobID)
	candidateID := uuid.MustParse(req.CandidateID)

	job, err := s.store.GetJob(r.Context(), orgID, jobID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if job == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "job", ID: req.JobID})
		return
	}
	candidate, err := s.store.GetCandidate(r.Context(), orgID, candidateID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if candidate == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "candidate", ID: req.CandidateID})
		return
	}

	result := s.scorer.Score(r.Context(), job.Requirements(), candidate.Profile())

	app, err := s.store.SaveFitScore(r.Context(), orgID, jobID, candidateID, result)
	if err != nil {
		s.handleError(w, r, fmt.Errorf("failed to save fit score: %w", err))
		return
	}
	logging.WithFields(s.logger, logging.ScoreFields(orgID.String(), req.JobID, req.CandidateID)...).
		Debug("saved fit score", zap.Float64("overall_score", result.OverallScore))
	s.jsonResponse(w, http.StatusOK, FitScoreResponse{Application: app, Result: result})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	result := s.scorer.Score(r.Context(), &req.Job, &req.Candidate)
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleRankCandidates(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}

	var req RankRequest
	if r.ContentLength != 0 {
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.handleError(w, r, err)
			return
		}
	}

	candidates, err := s.rankPool(r, job.OrganizationID, req.CandidateIDs)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	profiles := make([]types.CandidateProfile, 0, len(candidates))
	for i := range candidates {
		profiles = append(profiles, *candidates[i].Profile())
	}

	ranked, err := s.ranker.Rank(r.Context(), job.Requirements(), profiles)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	// Every scored pair is persisted atomically so top-candidates reflects this run or the previous one.
	entries := make([]db.FitScoreEntry, 0, len(ranked))
	for _, rc := range ranked {
		candidateID, err := uuid.Parse(rc.CandidateID)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		entries = append(entries, db.FitScoreEntry{CandidateID: candidateID, Result: rc.Result})
	}
	if err := s.store.SaveFitScores(r.Context(), job.OrganizationID, job.ID, entries); err != nil {
		s.handleError(w, r, fmt.Errorf("failed to save fit scores: %w", err))
		return
	}

	logging.WithFields(s.logger, logging.ScoreFields(job.OrganizationID.String(), job.ID.String(), "")...).
		Debug("persisted ranking", zap.Int("candidates", len(ranked)))

	s.jsonResponse(w, http.StatusOK, RankResponse{
		JobID:      job.ID.String(),
		Total:      len(ranked),
		Candidates: ranking.TopN(ranked, req.Top),
	})
}

// rankPool loads the candidates to rank: the listed IDs, or the organization's first MaxListLimit.
func (s *Server) rankPool(r *http.Request, orgID uuid.UUID, ids []string) ([]db.Candidate, error) {
	if len(ids) == 0 {
		return s.store.ListCandidates(r.Context(), orgID, db.ListFilters{Limit: db.MaxListLimit})
	}

	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed = append(parsed, uuid.MustParse(id))
	}
	candidates, err := s.store.ListCandidatesByIDs(r.Context(), orgID, parsed)
	if err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]bool, len(candidates))
	for _, c := range candidates {
		found[c.ID] = true
	}
	for _, id := range parsed {
		if !found[id] {
			return nil, &ErrNotFound{Resource: "candidate", ID: id.String()}
		}
	}
	return candidates, nil
}

func (s *Server) handleTopCandidates(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", db.DefaultTopLimit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	top, err := s.store.ListTopCandidates(r.Context(), job.OrganizationID, job.ID, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":     job.ID.String(),
		"candidates": top,
		"count":      len(top),
	})
}

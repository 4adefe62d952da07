package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/recruiting-platform/internal/types"
)

// -----------------------------------------------------------------------------
// Fit Score Methods
// -----------------------------------------------------------------------------

const applicationColumns = `a.id, a.job_id, a.candidate_id, a.organization_id, a.status,
		a.fit_score, a.fit_score_details, a.created_at, a.updated_at`

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	var details []byte
	err := row.Scan(&a.ID, &a.JobID, &a.CandidateID, &a.OrganizationID, &a.Status,
		&a.FitScore, &details, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.FitScoreDetails = decodeDetails(details)
	return &a, nil
}

// decodeDetails parses a stored result. Empty or unreadable details yield nil.
func decodeDetails(details []byte) *types.FitScoreResult {
	if len(details) == 0 || string(details) == "{}" {
		return nil
	}
	var result types.FitScoreResult
	if err := json.Unmarshal(details, &result); err != nil {
		return nil
	}
	return &result
}

// rowQuerier is satisfied by both the pool and a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SaveFitScore records a result against the (job, candidate) application, creating it if needed.
// Both records must belong to the organization; otherwise ErrNotFound is returned.
func (db *DB) SaveFitScore(ctx context.Context, orgID, jobID, candidateID uuid.UUID, result *types.FitScoreResult) (*Application, error) {
	return saveFitScore(ctx, db.pool, orgID, jobID, candidateID, result)
}

// SaveFitScores records a batch of results for one job in a single transaction.
// Either every entry is stored or none is.
func (db *DB) SaveFitScores(ctx context.Context, orgID, jobID uuid.UUID, entries []FitScoreEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, entry := range entries {
		if _, err := saveFitScore(ctx, tx, orgID, jobID, entry.CandidateID, entry.Result); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit fit scores: %w", err)
	}
	return nil
}

func saveFitScore(ctx context.Context, q rowQuerier, orgID, jobID, candidateID uuid.UUID, result *types.FitScoreResult) (*Application, error) {
	if result == nil {
		return nil, fmt.Errorf("fit score result is required")
	}

	details, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fit score: %w", err)
	}

	app, err := scanApplication(q.QueryRow(ctx,
		`INSERT INTO applications AS a (job_id, candidate_id, organization_id, status, fit_score, fit_score_details)
		 SELECT j.id, c.id, j.organization_id, $4::text, $5::double precision, $6::jsonb
		 FROM jobs j JOIN candidates c ON c.organization_id = j.organization_id
		 WHERE j.id = $1 AND c.id = $2 AND j.organization_id = $3
		 ON CONFLICT (job_id, candidate_id) DO UPDATE
		     SET fit_score = EXCLUDED.fit_score,
		         fit_score_details = EXCLUDED.fit_score_details,
		         updated_at = NOW()
		 RETURNING `+applicationColumns,
		jobID, candidateID, orgID, ApplicationStatusNew, result.OverallScore, details,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job %s or candidate %s: %w", jobID, candidateID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to save fit score: %w", err)
	}
	return app, nil
}

// GetFitScore retrieves the application for a (job, candidate) pair. Returns nil when none exists.
func (db *DB) GetFitScore(ctx context.Context, orgID, jobID, candidateID uuid.UUID) (*Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications a
		 WHERE a.job_id = $1 AND a.candidate_id = $2 AND a.organization_id = $3`,
		jobID, candidateID, orgID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fit score: %w", err)
	}
	return app, nil
}

// ListTopCandidates returns the highest-scoring candidates for a job, ties broken by candidate ID.
// Applications without a score are excluded.
func (db *DB) ListTopCandidates(ctx context.Context, orgID, jobID uuid.UUID, limit int) ([]TopCandidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+`,
		        c.id, c.organization_id, c.name, c.email, c.skills, c.years_experience,
		        c.highest_education, c.summary, c.location, c.current_title, c.current_company,
		        c.created_at, c.updated_at
		 FROM applications a
		 JOIN candidates c ON c.id = a.candidate_id AND c.organization_id = a.organization_id
		 WHERE a.organization_id = $1 AND a.job_id = $2 AND a.fit_score IS NOT NULL
		 ORDER BY a.fit_score DESC, a.candidate_id ASC
		 LIMIT $3`,
		orgID, jobID, normalizeTopLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list top candidates: %w", err)
	}
	defer rows.Close()

	top := []TopCandidate{}
	for rows.Next() {
		var t TopCandidate
		var details []byte
		a, c := &t.Application, &t.Candidate
		if err := rows.Scan(&a.ID, &a.JobID, &a.CandidateID, &a.OrganizationID, &a.Status,
			&a.FitScore, &details, &a.CreatedAt, &a.UpdatedAt,
			&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Skills, &c.YearsExperience,
			&c.HighestEducation, &c.Summary, &c.Location, &c.CurrentTitle, &c.CurrentCompany,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan top candidate: %w", err)
		}
		a.FitScoreDetails = decodeDetails(details)
		top = append(top, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list top candidates: %w", err)
	}
	return top, nil
}

package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Candidate Methods
// -----------------------------------------------------------------------------

const candidateColumns = `id, organization_id, name, email, skills, years_experience,
		highest_education, summary, location, current_title, current_company, created_at, updated_at`

func scanCandidate(row pgx.Row) (*Candidate, error) {
	var c Candidate
	err := row.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Skills, &c.YearsExperience,
		&c.HighestEducation, &c.Summary, &c.Location, &c.CurrentTitle, &c.CurrentCompany,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCandidate stores a new candidate in the organization.
func (db *DB) CreateCandidate(ctx context.Context, input *CandidateCreateInput) (*Candidate, error) {
	if input == nil {
		return nil, fmt.Errorf("candidate input is required")
	}

	candidate, err := scanCandidate(db.pool.QueryRow(ctx,
		`INSERT INTO candidates (organization_id, name, email, skills, years_experience,
		                         highest_education, summary, location, current_title, current_company)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+candidateColumns,
		input.OrganizationID, strings.TrimSpace(input.Name), strings.TrimSpace(input.Email),
		cleanStrings(input.Skills), validYears(input.YearsExperience),
		strings.TrimSpace(input.HighestEducation), input.Summary, strings.TrimSpace(input.Location),
		strings.TrimSpace(input.CurrentTitle), strings.TrimSpace(input.CurrentCompany),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return candidate, nil
}

// GetCandidate retrieves a candidate by ID within an organization. Returns nil when it does not exist.
func (db *DB) GetCandidate(ctx context.Context, orgID, candidateID uuid.UUID) (*Candidate, error) {
	candidate, err := scanCandidate(db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1 AND organization_id = $2`,
		candidateID, orgID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return candidate, nil
}

// ListCandidates lists an organization's candidates ordered by ID.
func (db *DB) ListCandidates(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]Candidate, error) {
	filters = filters.normalize()

	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates
		 WHERE organization_id = $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		orgID, filters.Limit, filters.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return collectCandidates(rows)
}

// ListCandidatesByIDs returns the organization's candidates among ids. Unknown IDs are skipped.
func (db *DB) ListCandidatesByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]Candidate, error) {
	if len(ids) == 0 {
		return []Candidate{}, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates
		 WHERE organization_id = $1 AND id = ANY($2::uuid[])
		 ORDER BY id`,
		orgID, idStrings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return collectCandidates(rows)
}

func collectCandidates(rows pgx.Rows) ([]Candidate, error) {
	defer rows.Close()

	candidates := []Candidate{}
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

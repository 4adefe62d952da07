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
// Job Methods
// -----------------------------------------------------------------------------

const jobColumns = `id, organization_id, title, description, required_skills, preferred_skills,
		min_years_experience, required_education, location, status, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.OrganizationID, &j.Title, &j.Description, &j.RequiredSkills,
		&j.PreferredSkills, &j.MinYearsExperience, &j.RequiredEducation, &j.Location,
		&j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob stores a new job in the organization.
func (db *DB) CreateJob(ctx context.Context, input *JobCreateInput) (*Job, error) {
	if input == nil || strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("job title is required")
	}

	job, err := scanJob(db.pool.QueryRow(ctx,
		`INSERT INTO jobs (organization_id, title, description, required_skills, preferred_skills,
		                   min_years_experience, required_education, location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+jobColumns,
		input.OrganizationID, strings.TrimSpace(input.Title), input.Description,
		cleanStrings(input.RequiredSkills), cleanStrings(input.PreferredSkills),
		validYears(input.MinYearsExperience), strings.TrimSpace(input.RequiredEducation),
		strings.TrimSpace(input.Location),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// GetJob retrieves a job by ID within an organization. Returns nil when it does not exist.
func (db *DB) GetJob(ctx context.Context, orgID, jobID uuid.UUID) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND organization_id = $2`,
		jobID, orgID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs lists an organization's jobs, newest first.
func (db *DB) ListJobs(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]Job, error) {
	filters = filters.normalize()

	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE organization_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		orgID, filters.Limit, filters.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// DeleteJob deletes a job and its applications (via cascade).
func (db *DB) DeleteJob(ctx context.Context, orgID, jobID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM jobs WHERE id = $1 AND organization_id = $2`,
		jobID, orgID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", jobID, ErrNotFound)
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/recruiting-platform/internal/db"
	"github.com/jonathan/recruiting-platform/internal/types"
)

type appKey struct {
	job       uuid.UUID
	candidate uuid.UUID
}

// mockStore is an in-memory Store for handler tests.
type mockStore struct {
	mu         sync.Mutex
	orgs       map[uuid.UUID]*db.Organization
	jobs       map[uuid.UUID]*db.Job
	candidates map[uuid.UUID]*db.Candidate
	apps       map[appKey]*db.Application
	pingErr    error
	saveErr    error

	// failCandidate makes batch saves containing this candidate fail.
	failCandidate uuid.UUID
}

func newMockStore() *mockStore {
	return &mockStore{
		orgs:       make(map[uuid.UUID]*db.Organization),
		jobs:       make(map[uuid.UUID]*db.Job),
		candidates: make(map[uuid.UUID]*db.Candidate),
		apps:       make(map[appKey]*db.Application),
	}
}

func (m *mockStore) Ping(_ context.Context) error {
	return m.pingErr
}

func (m *mockStore) CreateOrganization(_ context.Context, name string) (*db.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	org := &db.Organization{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	m.orgs[org.ID] = org
	return org, nil
}

func (m *mockStore) GetOrganization(_ context.Context, id uuid.UUID) (*db.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orgs[id], nil
}

func (m *mockStore) CreateJob(_ context.Context, input *db.JobCreateInput) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := &db.Job{
		ID:                 uuid.New(),
		OrganizationID:     input.OrganizationID,
		Title:              input.Title,
		Description:        input.Description,
		RequiredSkills:     append([]string{}, input.RequiredSkills...),
		PreferredSkills:    append([]string{}, input.PreferredSkills...),
		MinYearsExperience: input.MinYearsExperience,
		RequiredEducation:  input.RequiredEducation,
		Location:           input.Location,
		Status:             db.JobStatusOpen,
	}
	m.jobs[job.ID] = job
	return job, nil
}

func (m *mockStore) GetJob(_ context.Context, orgID, jobID uuid.UUID) (*db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.OrganizationID != orgID {
		return nil, nil
	}
	return job, nil
}

func (m *mockStore) ListJobs(_ context.Context, orgID uuid.UUID, _ db.ListFilters) ([]db.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	jobs := []db.Job{}
	for _, job := range m.jobs {
		if job.OrganizationID == orgID {
			jobs = append(jobs, *job)
		}
	}
	return jobs, nil
}

func (m *mockStore) DeleteJob(_ context.Context, orgID, jobID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.OrganizationID != orgID {
		return db.ErrNotFound
	}
	delete(m.jobs, jobID)
	return nil
}

func (m *mockStore) addCandidate(orgID uuid.UUID, c db.Candidate) *db.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.OrganizationID = orgID
	m.candidates[c.ID] = &c
	return &c
}

func (m *mockStore) CreateCandidate(_ context.Context, input *db.CandidateCreateInput) (*db.Candidate, error) {
	return m.addCandidate(input.OrganizationID, db.Candidate{
		Name:             input.Name,
		Email:            input.Email,
		Skills:           append([]string{}, input.Skills...),
		YearsExperience:  input.YearsExperience,
		HighestEducation: input.HighestEducation,
		Summary:          input.Summary,
		Location:         input.Location,
		CurrentTitle:     input.CurrentTitle,
		CurrentCompany:   input.CurrentCompany,
	}), nil
}

func (m *mockStore) GetCandidate(_ context.Context, orgID, candidateID uuid.UUID) (*db.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[candidateID]
	if !ok || c.OrganizationID != orgID {
		return nil, nil
	}
	return c, nil
}

func (m *mockStore) ListCandidates(_ context.Context, orgID uuid.UUID, _ db.ListFilters) ([]db.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Candidate{}
	for _, c := range m.candidates {
		if c.OrganizationID == orgID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (m *mockStore) ListCandidatesByIDs(_ context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]db.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Candidate{}
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		c, ok := m.candidates[id]
		if ok && c.OrganizationID == orgID && !seen[id] {
			seen[id] = true
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockStore) SaveFitScore(_ context.Context, orgID, jobID, candidateID uuid.UUID, result *types.FitScoreResult) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	if err := m.checkPair(orgID, jobID, candidateID); err != nil {
		return nil, err
	}
	return m.upsert(orgID, jobID, candidateID, result), nil
}

// SaveFitScores validates every entry before writing any, like the transactional store.
func (m *mockStore) SaveFitScores(_ context.Context, orgID, jobID uuid.UUID, entries []db.FitScoreEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, entry := range entries {
		if entry.CandidateID == m.failCandidate {
			return errStoreDown
		}
		if err := m.checkPair(orgID, jobID, entry.CandidateID); err != nil {
			return err
		}
	}
	for _, entry := range entries {
		m.upsert(orgID, jobID, entry.CandidateID, entry.Result)
	}
	return nil
}

func (m *mockStore) checkPair(orgID, jobID, candidateID uuid.UUID) error {
	job, okJob := m.jobs[jobID]
	c, okCand := m.candidates[candidateID]
	if !okJob || !okCand || job.OrganizationID != orgID || c.OrganizationID != orgID {
		return db.ErrNotFound
	}
	return nil
}

func (m *mockStore) upsert(orgID, jobID, candidateID uuid.UUID, result *types.FitScoreResult) *db.Application {
	key := appKey{job: jobID, candidate: candidateID}
	app, ok := m.apps[key]
	if !ok {
		app = &db.Application{
			ID:             uuid.New(),
			JobID:          jobID,
			CandidateID:    candidateID,
			OrganizationID: orgID,
			Status:         db.ApplicationStatusNew,
		}
		m.apps[key] = app
	}
	score := result.OverallScore
	app.FitScore = &score
	app.FitScoreDetails = result
	return app
}

func (m *mockStore) GetFitScore(_ context.Context, orgID, jobID, candidateID uuid.UUID) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[appKey{job: jobID, candidate: candidateID}]
	if !ok || app.OrganizationID != orgID {
		return nil, nil
	}
	return app, nil
}

func (m *mockStore) ListTopCandidates(_ context.Context, orgID, jobID uuid.UUID, limit int) ([]db.TopCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.TopCandidate
	for key, app := range m.apps {
		if key.job != jobID || app.OrganizationID != orgID || app.FitScore == nil {
			continue
		}
		out = append(out, db.TopCandidate{Candidate: *m.candidates[key.candidate], Application: *app})
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := *out[i].Application.FitScore, *out[j].Application.FitScore
		if si != sj {
			return si > sj
		}
		return out[i].Candidate.ID.String() < out[j].Candidate.ID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var errStoreDown = errors.New("connection refused")

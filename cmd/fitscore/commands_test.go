package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/recruiting-platform/internal/parsing"
	"github.com/jonathan/recruiting-platform/internal/ranking"
	"github.com/jonathan/recruiting-platform/internal/types"
)

const jobJSON = `{
  "id": "job-1",
  "title": "Backend Engineer",
  "required_skills": ["Python", "AWS"],
  "min_years_experience": 5,
  "required_education": "Bachelor",
  "description": "",
  "location": "Remote"
}`

const candidateJSON = `{
  "id": "cand-1",
  "skills": ["python", "Docker"],
  "years_experience": 3,
  "highest_education": "Master's degree",
  "location": "Remote"
}`

const candidatesJSON = `[
  {"id": "b", "name": "Blake", "skills": ["Python"], "location": "Remote"},
  {"id": "a", "name": "Avery", "skills": ["Python", "AWS"], "location": "Remote"},
  {"id": "c", "name": "Casey", "skills": ["Java"], "location": "Berlin"}
]`

// resetFlags restores every flag to its default so commands can run repeatedly in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("FITSCORE_LLM_API_KEY", "")

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScoreCommand(t *testing.T) {
	jobPath := writeTemp(t, "job.json", jobJSON)
	candPath := writeTemp(t, "candidate.json", candidateJSON)
	outPath := filepath.Join(t.TempDir(), "score.json")

	output, err := executeCommand(t, "score", "--job", jobPath, "--candidate", candPath, "--out", outPath, "--no-llm")
	require.NoError(t, err, output)
	assert.Contains(t, output, "Output: "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var result types.FitScoreResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.InDelta(t, 0.65, result.OverallScore, 1e-9)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, "cand-1", result.CandidateID)
	assert.Equal(t, []string{"AWS"}, result.Breakdown.Skills.Unmatched)
}

func TestScoreCommand_Stdout(t *testing.T) {
	jobPath := writeTemp(t, "job.json", jobJSON)
	candPath := writeTemp(t, "candidate.json", candidateJSON)

	output, err := executeCommand(t, "score", "-j", jobPath, "-c", candPath, "--no-llm")
	require.NoError(t, err)

	var result types.FitScoreResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.InDelta(t, 0.5, result.SkillMatch, 1e-12)
}

func TestScoreCommand_Errors(t *testing.T) {
	jobPath := writeTemp(t, "job.json", jobJSON)
	badCand := writeTemp(t, "bad.json", `{"skills": ["Go"]}`)

	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{"missing flags", []string{"score", "--no-llm"}, "--job and --candidate are required"},
		{"missing file", []string{"score", "--job", jobPath, "--candidate", "/nonexistent.json", "--no-llm"}, "failed to read"},
		{"schema violation", []string{"score", "--job", jobPath, "--candidate", badCand, "--no-llm"}, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestRankCommand(t *testing.T) {
	jobPath := writeTemp(t, "job.json", jobJSON)
	poolPath := writeTemp(t, "candidates.json", candidatesJSON)
	outPath := filepath.Join(t.TempDir(), "ranked.json")

	output, err := executeCommand(t, "rank", "--job", jobPath, "--candidates", poolPath, "--top", "2", "--out", outPath, "--no-llm")
	require.NoError(t, err, output)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var ranked []ranking.RankedCandidate
	require.NoError(t, json.Unmarshal(data, &ranked))

	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].CandidateID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "b", ranked[1].CandidateID)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankCommand_Errors(t *testing.T) {
	jobPath := writeTemp(t, "job.json", jobJSON)
	notArray := writeTemp(t, "obj.json", candidateJSON)
	badEntry := writeTemp(t, "bad.json", `[{"id": "x", "skills": []}, {"skills": []}]`)

	_, err := executeCommand(t, "rank", "--job", jobPath, "--candidates", notArray, "--no-llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON array")

	_, err = executeCommand(t, "rank", "--job", jobPath, "--candidates", badEntry, "--no-llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")

	_, err = executeCommand(t, "rank", "--job", jobPath, "--candidates", badEntry, "--top", "-1", "--no-llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--top")
}

func TestParseJobCommand(t *testing.T) {
	inPath := writeTemp(t, "posting.txt", "Backend Engineer\nWe use Python and Docker.\n3+ years of experience.\nFully remote.")
	outPath := filepath.Join(t.TempDir(), "parsed.json")

	output, err := executeCommand(t, "parse-job", "--in", inPath, "--out", outPath, "--no-llm")
	require.NoError(t, err, output)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var result parsing.JobParseResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, parsing.MethodFallback, result.Method)
	assert.Equal(t, "Backend Engineer", result.Requirements.Title)
	assert.Equal(t, []string{"Python", "Docker"}, result.Requirements.RequiredSkills)
	assert.Equal(t, "Remote", result.Requirements.Location)
}

func TestParseJobCommand_HTML(t *testing.T) {
	inPath := writeTemp(t, "posting.html", `<html><body><nav>Jobs</nav><main><h1>SRE</h1><p>Kubernetes and Terraform</p></main></body></html>`)

	output, err := executeCommand(t, "parse-job", "--in", inPath, "--html", "--no-llm")
	require.NoError(t, err, output)

	var result parsing.JobParseResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, "SRE", result.Requirements.Title)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, result.Requirements.RequiredSkills)
}

func TestParseJobCommand_Errors(t *testing.T) {
	_, err := executeCommand(t, "parse-job", "--no-llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--in or --url is required")

	empty := writeTemp(t, "empty.txt", "   \n ")
	_, err = executeCommand(t, "parse-job", "--in", empty, "--no-llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestParseJobCommand_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><nav>Careers</nav><div class="job-description"><h1>Data Engineer</h1><p>SQL and Python, 4+ years of experience.</p></div></body></html>`))
	}))
	defer srv.Close()

	output, err := executeCommand(t, "parse-job", "--url", srv.URL+"/jobs/42", "--no-llm")
	require.NoError(t, err, output)

	var result parsing.JobParseResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, "Data Engineer", result.Requirements.Title)
	assert.Equal(t, []string{"SQL", "Python"}, result.Requirements.RequiredSkills)
	require.NotNil(t, result.Requirements.MinYearsExperience)
	assert.Equal(t, 4.0, *result.Requirements.MinYearsExperience)
}

func TestParseJobCommand_URLErrors(t *testing.T) {
	_, err := executeCommand(t, "parse-job", "--url", "ftp://example.com/job", "--no-llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL")

	inPath := writeTemp(t, "posting.txt", "Engineer")
	_, err = executeCommand(t, "parse-job", "--in", inPath, "--url", "https://example.com/job", "--no-llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestValidateCommand(t *testing.T) {
	candPath := writeTemp(t, "candidate.json", candidateJSON)

	output, err := executeCommand(t, "validate", "--schema", "candidate_profile", "--in", candPath)
	require.NoError(t, err)
	assert.Contains(t, output, "is a valid candidate_profile")

	_, err = executeCommand(t, "validate", "--schema", "job_requirements.schema.json", "--in", candPath)
	require.Error(t, err)

	_, err = executeCommand(t, "validate", "--schema", "nope", "--in", candPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestServeCommand_RequiresDatabase(t *testing.T) {
	t.Setenv("FITSCORE_DATABASE_URL", "")

	_, err := executeCommand(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("FITSCORE_LLM_PROVIDER", "anthropic")

	_, err := executeCommand(t, "validate", "--schema", "candidate_profile", "--in", "x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
}

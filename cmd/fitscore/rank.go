package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/recruiting-platform/internal/observability"
	"github.com/jonathan/recruiting-platform/internal/ranking"
	"github.com/jonathan/recruiting-platform/internal/schemas"
	"github.com/jonathan/recruiting-platform/internal/types"
	schemafiles "github.com/jonathan/recruiting-platform/schemas"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a pool of candidates against one job",
	Long:  "Score every candidate in a JSON array file against a job and write the ranked list, best first.",
	RunE:  runRank,
}

var (
	rankJobFile        string
	rankCandidatesFile string
	rankOutputFile     string
	rankTop            int
	rankNoLLM          bool
)

func init() {
	rankCmd.Flags().StringVarP(&rankJobFile, "job", "j", "", "Path to job requirements JSON (required)")
	rankCmd.Flags().StringVar(&rankCandidatesFile, "candidates", "", "Path to a JSON array of candidate profiles (required)")
	rankCmd.Flags().StringVarP(&rankOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	rankCmd.Flags().IntVar(&rankTop, "top", 0, "Keep only the top N candidates (0 keeps all)")
	rankCmd.Flags().BoolVar(&rankNoLLM, "no-llm", false, "Skip culture-fit model calls; culture fit stays neutral")

	rootCmd.AddCommand(rankCmd)
}

// readCandidates decodes a JSON array of profiles, validating each entry.
func readCandidates(path string) ([]types.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s must contain a JSON array of candidates: %w", path, err)
	}

	candidates := make([]types.CandidateProfile, 0, len(raw))
	for i, entry := range raw {
		if err := schemas.Validate(schemafiles.CandidateProfile, entry); err != nil {
			return nil, fmt.Errorf("invalid candidate at index %d: %w", i, err)
		}
		var c types.CandidateProfile
		if err := json.Unmarshal(entry, &c); err != nil {
			return nil, fmt.Errorf("failed to decode candidate at index %d: %w", i, err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func runRank(cmd *cobra.Command, _ []string) error {
	if rankJobFile == "" || rankCandidatesFile == "" {
		return fmt.Errorf("--job and --candidates are required")
	}
	if rankTop < 0 {
		return fmt.Errorf("--top must be non-negative")
	}

	var job types.JobRequirements
	if err := readJSONFile(rankJobFile, schemafiles.JobRequirements, &job); err != nil {
		return err
	}
	candidates, err := readCandidates(rankCandidatesFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newLLMClient(ctx, appConfig, appLogger, rankNoLLM)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	scorer, err := newScorer(appConfig, newCultureJudge(appConfig, client, nil, appLogger), nil, appLogger)
	if err != nil {
		return err
	}
	ranker := ranking.NewRanker(scorer,
		ranking.WithWorkers(appConfig.Ranking.Workers),
		ranking.WithLogger(appLogger),
	)

	ranked, err := ranker.Rank(ctx, &job, candidates)
	if err != nil {
		return err
	}
	ranked = ranking.TopN(ranked, rankTop)

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintRankedCandidates(ranked)
	}
	return writeOutput(cmd, rankOutputFile, schemafiles.RankedCandidates, ranked)
}

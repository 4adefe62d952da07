package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/recruiting-platform/internal/observability"
	"github.com/jonathan/recruiting-platform/internal/types"
	schemafiles "github.com/jonathan/recruiting-platform/schemas"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one candidate against one job",
	Long:  "Score a candidate profile JSON file against a job requirements JSON file and write the FitScoreResult JSON.",
	RunE:  runScore,
}

var (
	scoreJobFile       string
	scoreCandidateFile string
	scoreOutputFile    string
	scoreNoLLM         bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreJobFile, "job", "j", "", "Path to job requirements JSON (required)")
	scoreCmd.Flags().StringVarP(&scoreCandidateFile, "candidate", "c", "", "Path to candidate profile JSON (required)")
	scoreCmd.Flags().StringVarP(&scoreOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	scoreCmd.Flags().BoolVar(&scoreNoLLM, "no-llm", false, "Skip the culture-fit model call; culture fit stays neutral")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	if scoreJobFile == "" || scoreCandidateFile == "" {
		return fmt.Errorf("--job and --candidate are required")
	}

	var job types.JobRequirements
	if err := readJSONFile(scoreJobFile, schemafiles.JobRequirements, &job); err != nil {
		return err
	}
	var candidate types.CandidateProfile
	if err := readJSONFile(scoreCandidateFile, schemafiles.CandidateProfile, &candidate); err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newLLMClient(ctx, appConfig, appLogger, scoreNoLLM)
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

	result := scorer.Score(ctx, &job, &candidate)

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintFitScore(result)
	}
	return writeOutput(cmd, scoreOutputFile, schemafiles.FitScoreResult, result)
}

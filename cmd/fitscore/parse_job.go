package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/recruiting-platform/internal/observability"
	"github.com/jonathan/recruiting-platform/internal/parsing"
	schemafiles "github.com/jonathan/recruiting-platform/schemas"
)

var parseJobCmd = &cobra.Command{
	Use:   "parse-job",
	Short: "Parse a job posting into structured job requirements",
	Long: `Parse a job posting into JobParseResult JSON. The posting is read from a text
or HTML file (--in) or downloaded from a job board (--url). Uses the language model
when configured and regular expressions otherwise.`,
	RunE:  runParseJob,
}

var (
	parseInputFile  string
	parseURL        string
	parseOutputFile string
	parseHTML       bool
	parseNoLLM      bool
)

func init() {
	parseJobCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to job posting file")
	parseJobCmd.Flags().StringVarP(&parseURL, "url", "u", "", "URL of a job posting to fetch")
	parseJobCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	parseJobCmd.Flags().BoolVar(&parseHTML, "html", false, "Treat the input as HTML and extract its text first")
	parseJobCmd.Flags().BoolVar(&parseNoLLM, "no-llm", false, "Use regex extraction only")

	parseJobCmd.MarkFlagsMutuallyExclusive("in", "url")
	rootCmd.AddCommand(parseJobCmd)
}

func runParseJob(cmd *cobra.Command, _ []string) error {
	if parseInputFile == "" && parseURL == "" {
		return fmt.Errorf("--in or --url is required")
	}

	text, err := readPosting(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newLLMClient(ctx, appConfig, appLogger, parseNoLLM)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	result, err := parsing.NewJobParser(client, appLogger).Parse(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to parse job description: %w", err)
	}

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintJobRequirements(result)
	}
	return writeOutput(cmd, parseOutputFile, schemafiles.JobParseResult, result)
}

// readPosting returns the posting text from --url or --in.
func readPosting(cmd *cobra.Command) (string, error) {
	if parseURL != "" {
		rdb := pingRedis(cmd.Context(), newRedisClient(appConfig), appLogger)
		if rdb != nil {
			defer func() { _ = rdb.Close() }()
		}

		posting, err := newPostingFetcher(appConfig, rdb, appLogger).Fetch(cmd.Context(), parseURL)
		if err != nil {
			return "", err
		}
		appLogger.Info("fetched job posting",
			zap.String("url", posting.URL),
			zap.String("platform", string(posting.Platform)),
			zap.Int("chars", len(posting.Text)),
		)
		return posting.Text, nil
	}

	inputContent, err := os.ReadFile(parseInputFile)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}

	text := string(inputContent)
	if parseHTML {
		return parsing.HTMLToText(text)
	}
	return text, nil
}

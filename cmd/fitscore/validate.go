package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/recruiting-platform/internal/schemas"
	schemafiles "github.com/jonathan/recruiting-platform/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against a bundled schema",
	Long: fmt.Sprintf("Validate a JSON document against one of the bundled schemas: %s.",
		strings.Join(schemaNames(), ", ")),
	RunE: runValidate,
}

var (
	validateSchema    string
	validateInputFile string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema name, e.g. fit_score_result (required)")
	validateCmd.Flags().StringVarP(&validateInputFile, "in", "i", "", "Path to JSON document (required)")

	rootCmd.AddCommand(validateCmd)
}

func schemaNames() []string {
	names := make([]string, 0, len(schemafiles.Names()))
	for _, file := range schemafiles.Names() {
		names = append(names, strings.TrimSuffix(file, ".schema.json"))
	}
	return names
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validateSchema == "" || validateInputFile == "" {
		return fmt.Errorf("--schema and --in are required")
	}

	name := validateSchema
	if !strings.HasSuffix(name, ".schema.json") {
		name += ".schema.json"
	}

	data, err := os.ReadFile(validateInputFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", validateInputFile, err)
	}
	if err := schemas.Validate(name, data); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid %s\n", validateInputFile, strings.TrimSuffix(name, ".schema.json"))
	return nil
}

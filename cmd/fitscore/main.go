// Package main provides the fitscore CLI: the REST API server plus offline scoring,
// ranking and job parsing commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/recruiting-platform/internal/config"
	"github.com/jonathan/recruiting-platform/internal/logging"
)

var (
	configFile string
	verbose    bool

	appConfig *config.Config
	appLogger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "fitscore",
	Short: "Candidate fit scoring for recruiting teams",
	Long: `fitscore scores candidates against job requirements across skills, experience,
education, location and culture fit, ranks candidate pools and serves a multi-tenant REST API.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = appLogger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print human-readable summaries and debug logs")
}

// loadRuntime loads configuration and builds the logger shared by all commands.
func loadRuntime(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(nil, configFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Debug = true
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	appConfig = cfg
	appLogger = logger
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

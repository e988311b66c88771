// Package main provides the formcheck CLI: analyze recorded keypoints offline
// and browse the results kept in a local SQLite store.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/formcheck/internal/analysis"
	"github.com/2beens/formcheck/internal/assessment"
	"github.com/2beens/formcheck/internal/exercise"
	"github.com/2beens/formcheck/internal/logging"
	"github.com/2beens/formcheck/internal/narrative"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	storePath     string
	outputFormat  string
	logLevel      string
	referencePath string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "formcheck",
		Short:         "Exercise form analysis from pose keypoints",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			log.SetOutput(os.Stderr)
			log.SetLevel(logging.GetLevel(logLevel))
			switch outputFormat {
			case formatText, formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("unknown format [%s], use one of: text, json, yaml", outputFormat)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&storePath, "store", defaultStorePath(), "path of the SQLite results store")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", formatText, "output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&referencePath, "reference", "", "TOML file overriding the built in reference metrics")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newExercisesCmd())
	rootCmd.AddCommand(newHashSecretCmd())

	return rootCmd
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".formcheck", "results.db")
	}
	return filepath.Join(home, ".formcheck", "results.db")
}

// openService opens the store and builds the assessment service on top of it.
// The caller closes the returned store.
func openService(summarizer analysis.Summarizer) (*assessment.Service, *assessment.SQLiteStore, error) {
	table, err := exercise.LoadTable(referencePath)
	if err != nil {
		return nil, nil, fmt.Errorf("load reference metrics: %w", err)
	}

	store, err := assessment.OpenSQLiteStore(storePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	return assessment.NewService(assessment.ServiceParams{
		Repo:       store,
		Table:      table,
		Summarizer: summarizer,
	}), store, nil
}

func closeStore(store *assessment.SQLiteStore) {
	if err := store.Close(); err != nil {
		log.Errorf("failed to close store: %s", err)
	}
}

// geminiSummarizer uses the GEMINI_API_KEY env var, or returns nil when it is not set.
func geminiSummarizer(model string) analysis.Summarizer {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Warnln("GEMINI_API_KEY not set, using rule based summaries")
		return nil
	}
	return narrative.NewGeminiSummarizer(narrative.NewGeminiClient(apiKey, model))
}

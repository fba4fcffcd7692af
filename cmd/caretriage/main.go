package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/VINAY-SANDA/CareTriage/internal/config"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/backend"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/logger"
)

var version = "1.0.0"

func main() {
	loadEnvFiles()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "caretriage",
	Short: "CareTriage CLI - symptom triage client",
	Long: `caretriage is the command-line client for the clinical triage service.

It drives guided symptom conversations, one-shot analyses, report
retrieval and guideline knowledge management against a running
service instance.

Quick Start:
  caretriage chat                # Interactive symptom conversation

Examples:
  # One-shot analysis
  caretriage analyze --symptoms "fever and cough for 2 days" --age 34

  # Reports and the knowledge base
  caretriage report PAT-20250101120000-abcd1234
  caretriage knowledge upload guidelines/stw-cardiology.pdf
  caretriage knowledge search --query "chest pain workup"`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(knowledgeCmd)
	rootCmd.AddCommand(healthCmd)

	rootCmd.PersistentFlags().String("backend-url", "", "Service base URL (overrides CARETRIAGE_BACKEND_URL)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides CARETRIAGE_LOG_LEVEL)")
}

// newRuntime loads configuration, applies flag overrides and builds the
// logger and API client every command starts from.
func newRuntime(cmd *cobra.Command) (*config.Config, zerolog.Logger, *backend.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	if backendURL, _ := cmd.Flags().GetString("backend-url"); backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if logLevel, _ := cmd.Flags().GetString("log-level"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout, log)
	return cfg, log, client, nil
}

// loadEnvFiles runs before configuration is parsed, so failures are reported
// through the bootstrap logger.
func loadEnvFiles() {
	log := logger.GetLogger()
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				log.Warn().Str("path", path).Err(err).Msg("failed to load env file")
			}
		}
	}
}

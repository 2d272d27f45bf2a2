package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/terrainalert/landslide-risk-service/internal/app"
	"github.com/terrainalert/landslide-risk-service/internal/config"
	"github.com/terrainalert/landslide-risk-service/internal/domain"
	"github.com/terrainalert/landslide-risk-service/internal/observability"
)

var assessCmd = &cobra.Command{
	Use:   "assess PLACE",
	Short: "Run one assessment against the configured upstreams",
	Long: "Loads the service configuration from the environment (and .env if present), " +
		"builds the same pipeline the server uses, and prints the assessment as JSON.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		// Assessments are one-offs; never publish them to the stream.
		cfg.KafkaEnabled = false

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
		env, err := app.Build(cmd.Context(), cfg, logger, observability.NewMetricsForTesting())
		if err != nil {
			return err
		}
		defer env.Close()

		a, err := env.Pipeline.Assess(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("%s: %w", domain.Kind(err), err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)
}

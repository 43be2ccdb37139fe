package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-insight/internal/analytics"
	"github.com/jonathan/cv-insight/internal/observability"
	"github.com/jonathan/cv-insight/internal/store"
)

var (
	statsDays int
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard statistics from the database",
	Long:  `Aggregate the stored analysis and interview records into the dashboard summary for a trailing window.`,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 30, "Trailing window in days")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the full dashboard payload as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer st.Close()

	data, err := analytics.New(st).Dashboard(ctx, statsDays, nil)
	if err != nil {
		return err
	}

	if statsJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}

	observability.NewPrinter(os.Stdout).PrintDashboard(data)
	return nil
}

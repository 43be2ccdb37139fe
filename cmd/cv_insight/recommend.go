package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-insight/internal/observability"
)

var recommendJSON bool

var recommendCmd = &cobra.Command{
	Use:   "recommend <cv-text-file>",
	Short: "Generate a career recommendation from CV text",
	Long:  `Run the profile extraction and career recommendation stages only, without question generation.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Print the full result envelope as JSON")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read CV text file: %w", err)
	}

	orch, closeClient, err := buildPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	env := orch.QuickRecommendation(cmd.Context(), string(text))

	if recommendJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(env)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintRecommendation(env)

	if !env.Success {
		return fmt.Errorf("recommendation failed: %s", env.Error)
	}
	return nil
}

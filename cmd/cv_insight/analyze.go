package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-insight/internal/observability"
)

var (
	analyzeTargetRole string
	analyzeDifficulty string
	analyzeJSON       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <cv-file>",
	Short: "Run the full analysis pipeline on a CV file",
	Long:  `Extract text from a CV document, build a structured profile, recommend career paths, and generate interview questions.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTargetRole, "target-role", "", "Role to tailor interview questions to")
	analyzeCmd.Flags().StringVar(&analyzeDifficulty, "difficulty", "intermediate", "Question difficulty (beginner, intermediate, advanced)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full result envelope as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	orch, closeClient, err := buildPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	result := orch.Process(cmd.Context(), args[0], analyzeTargetRole, analyzeDifficulty)

	if analyzeJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintAnalysisResult(result)

	if result.Error != "" {
		return fmt.Errorf("analysis failed: %s", result.Error)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-insight/internal/observability"
)

var (
	questionsTargetRole string
	questionsDifficulty string
	questionsCount      int
	questionsJSON       bool
)

var questionsCmd = &cobra.Command{
	Use:   "questions <profile-file>",
	Short: "Generate interview questions from a profile",
	Long:  `Generate a targeted interview question set from a candidate profile file, without re-running the earlier analysis stages.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestions,
}

func init() {
	questionsCmd.Flags().StringVar(&questionsTargetRole, "target-role", "", "Role to tailor questions to")
	questionsCmd.Flags().StringVar(&questionsDifficulty, "difficulty", "intermediate", "Question difficulty (beginner, intermediate, advanced)")
	questionsCmd.Flags().IntVar(&questionsCount, "count", 10, "Number of questions to generate")
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "Print the full result envelope as JSON")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	profile, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}

	orch, closeClient, err := buildPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	env := orch.TargetedQuestions(cmd.Context(), string(profile), questionsTargetRole, questionsDifficulty, questionsCount)

	if questionsJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(env)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintQuestions(env)

	if !env.Success {
		return fmt.Errorf("question generation failed: %s", env.Error)
	}
	return nil
}

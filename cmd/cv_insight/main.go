// Package main provides the entry point for the CV Insight service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-insight/internal/config"
	"github.com/jonathan/cv-insight/internal/extract"
	"github.com/jonathan/cv-insight/internal/llm"
	"github.com/jonathan/cv-insight/internal/pipeline"
	"github.com/jonathan/cv-insight/internal/tools"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "cv_insight",
	Short: "CV analysis and career insight service",
	Long:  "CV Insight extracts structured profiles from CVs, recommends career paths, generates interview questions, and serves analytics over the accumulated results.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Print detailed output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges env vars with an optional config file and validates
func loadConfig() (*config.Config, error) {
	cfg := config.FromEnv()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	}
	cfg.Verbose = cfg.Verbose || verbose
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildPipeline wires the extractor and the three stage tools around one
// Gemini client. The returned close function releases the client.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Orchestrator, func() error, error) {
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := llm.NewGeminiClient(ctx, "", cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	opts := llm.GenerateOptions{
		Temperature:     float32(cfg.Temperature),
		MaxOutputTokens: int32(cfg.MaxTokens),
		Timeout:         cfg.Timeout(),
	}

	orch := pipeline.New(
		extract.NewFileExtractor(),
		tools.NewProfileExtractor(client, opts),
		tools.NewCareerRecommender(client, opts),
		tools.NewQuestionGenerator(client, opts),
	)
	return orch, client.Close, nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-insight/internal/server"
	"github.com/jonathan/cv-insight/internal/store"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes CV analysis, recommendation, interview session, and dashboard endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
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

	orch, closeClient, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	return server.New(cfg, st, orch).Start()
}

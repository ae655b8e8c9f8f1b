package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/config"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/db"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/logger"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/problems"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/storage"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the coding problem bank from a YAML file into the database.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "problems.yaml", "Path to the problem bank YAML file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, nil)

	database, cleanup, err := db.NewDatabase(cfg.Database, log)
	if err != nil {
		return err
	}
	defer cleanup()

	store := storage.NewStore(database.DB)
	return problems.Seed(cmd.Context(), store, seedFile, log)
}

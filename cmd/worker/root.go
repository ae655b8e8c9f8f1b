package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/wire"
)

var rootCmd = &cobra.Command{
	Use:   "interview-worker",
	Short: "Background worker for interview analysis and evaluation.",
	Long: `interview-worker listens on the new-interview and end-interview channels,
analyzes candidate resumes, generates interview questions, selects coding
problems, and evaluates completed interviews.`,
	RunE: runWorker,
}

func Execute() error {
	return rootCmd.Execute()
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize worker: %w", err)
	}
	defer cleanup()

	go func() {
		if err := app.Start(); err != nil {
			slog.Error("dispatcher error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		slog.Info("received shutdown signal")
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	if err := app.Stop(); err != nil {
		return fmt.Errorf("failed to stop worker: %w", err)
	}
	return nil
}

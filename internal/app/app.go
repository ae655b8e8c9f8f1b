// Package app ties the worker's components together and owns the
// start/stop lifecycle.
package app

import (
	"context"
	"log/slog"

	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/config"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/jobs"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/pubsub"
)

// App holds the main application components.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	dispatcher *jobs.Dispatcher
	sub        pubsub.Subscriber
	done       chan struct{}
}

// NewApp assembles the worker from already-constructed dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger, dispatcher *jobs.Dispatcher, sub pubsub.Subscriber) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		dispatcher: dispatcher,
		sub:        sub,
		done:       make(chan struct{}),
	}
}

// Start runs the dispatcher until the subscription is closed. It blocks; run
// it in a goroutine and call Stop to shut down.
func (a *App) Start() error {
	defer close(a.done)
	a.logger.Info("worker started",
		"max_concurrent_jobs", a.cfg.MaxConcurrentJobs,
		"problem_count", a.cfg.ProblemCount,
	)
	// A background context means only closing the subscription stops the
	// dispatcher; accepted events always run to completion.
	return a.dispatcher.Run(context.Background())
}

// Stop closes the subscription so no new messages are accepted, then waits
// for the dispatcher to drain all in-flight pipelines.
func (a *App) Stop() error {
	a.logger.Info("shutting down worker")
	if err := a.sub.Close(); err != nil {
		a.logger.Error("failed to close subscription", "error", err)
	}
	<-a.done
	a.logger.Info("worker stopped")
	return nil
}

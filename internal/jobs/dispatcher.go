// Package jobs contains the task dispatcher and the background pipelines it
// fans events out to.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/core"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/pubsub"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/storage"
)

const (
	stateWriteAttempts = 3
	stateWriteBackoff  = 250 * time.Millisecond
)

// Dispatcher owns the channel subscription and guarantees that every decoded
// event reaches exactly one terminal state: the pipeline either succeeds, or
// the dispatcher records ERROR at the task boundary. Malformed messages are
// dropped with a diagnostic and no state write.
type Dispatcher struct {
	sub    pubsub.Subscriber
	routes map[core.EventKind]core.Job
	store  storage.Store
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewDispatcher wires the dispatcher. maxConcurrent bounds in-flight
// pipelines; 0 means unbounded.
func NewDispatcher(sub pubsub.Subscriber, routes map[core.EventKind]core.Job, store storage.Store, maxConcurrent int, logger *slog.Logger) *Dispatcher {
	var sem *semaphore.Weighted
	if maxConcurrent > 0 {
		sem = semaphore.NewWeighted(int64(maxConcurrent))
	}
	return &Dispatcher{
		sub:    sub,
		routes: routes,
		store:  store,
		sem:    sem,
		logger: logger,
	}
}

// Run consumes messages until the subscription closes or ctx is cancelled,
// then waits for every in-flight pipeline to finish. No task is abandoned
// mid-flight; tasks run on a background context so shutdown never cancels
// work the dispatcher already accepted.
func (d *Dispatcher) Run(ctx context.Context) error {
	msgs := d.sub.Messages()
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher stopping, draining in-flight pipelines")
			d.wg.Wait()
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				d.logger.Info("subscription closed, draining in-flight pipelines")
				d.wg.Wait()
				return nil
			}
			d.handle(msg)
		}
	}
}

// handle decodes one message and spawns its pipeline task.
func (d *Dispatcher) handle(msg pubsub.Message) {
	event, err := core.DecodeEvent(msg.Channel, msg.Payload)
	if err != nil {
		// No valid interview id exists, so there is nothing to mark ERROR.
		d.logger.Warn("dropping malformed message", "channel", msg.Channel, "error", err)
		return
	}

	job, ok := d.routes[event.Kind]
	if !ok {
		d.logger.Warn("no job registered for event kind", "kind", event.Kind)
		return
	}

	if d.sem != nil {
		// The event is already accepted; admission control may delay it but
		// must not drop it, so the acquire is not tied to the run context.
		if err := d.sem.Acquire(context.Background(), 1); err != nil {
			d.logger.Error("failed to acquire job slot", "error", err)
			return
		}
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if d.sem != nil {
			defer d.sem.Release(1)
		}
		d.process(job, event)
	}()
}

// process is the per-event task boundary: any pipeline failure, including a
// panic, becomes a single ERROR state write and never reaches the listener loop.
func (d *Dispatcher) process(job core.Job, event *core.Event) {
	interviewID := event.InterviewID()
	log := d.logger.With("kind", event.Kind, "interview", interviewID)
	log.Info("processing event")

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked", "panic", r)
			d.writeErrorState(event, fmt.Errorf("pipeline panic: %v", r))
		}
	}()

	if err := job.Run(context.Background(), event); err != nil {
		log.Error("pipeline failed", "error", err)
		d.writeErrorState(event, err)
		return
	}
	log.Info("pipeline completed")
}

// writeErrorState records the terminal ERROR state for a failed event. It is
// best-effort with bounded retries; if it still fails, the interview may be
// left PENDING for an external reconciliation pass, which is logged as its
// own distinct condition.
func (d *Dispatcher) writeErrorState(event *core.Event, cause error) {
	interviewID := event.InterviewID()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	for attempt := 1; attempt <= stateWriteAttempts; attempt++ {
		switch event.Kind {
		case core.KindEndInterview:
			err = d.store.UpdateResultState(ctx, interviewID, core.StateError)
		default:
			err = d.store.UpdateInterviewState(ctx, interviewID, core.StateError)
		}
		if err == nil {
			return
		}
		time.Sleep(stateWriteBackoff * time.Duration(attempt))
	}

	d.logger.Error("error-state write failed, interview may be stuck in PENDING",
		"interview", interviewID,
		"kind", event.Kind,
		"write_error", err,
		"cause", cause,
	)
}

package core

import "context"

// Job represents a single, executable unit of work bound to one event kind.
// Each decoded event results in exactly one Run invocation. A non-nil error
// means the event failed as a whole; the dispatcher translates it into an
// ERROR state write for the event's interview.
type Job interface {
	Run(ctx context.Context, event *Event) error
}

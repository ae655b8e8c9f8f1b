package core

import "fmt"

// DecodeError marks an inbound message as malformed. The dispatcher drops
// such messages with a diagnostic; they never reach a pipeline and never
// produce a state write.
type DecodeError struct {
	Channel string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode message on %q: %v", e.Channel, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EventKind identifies the pub/sub channel an event arrived on.
type EventKind string

const (
	KindNewInterview EventKind = "new-interview"
	KindEndInterview EventKind = "end-interview"
)

// YearsOfExperience tolerates both JSON numbers and numeric strings, since
// publishers are not consistent about how they serialize the yoe field.
type YearsOfExperience int

func (y *YearsOfExperience) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	if s == "" || s == "null" {
		return fmt.Errorf("years of experience is empty")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Allow "4.0" style values from sloppy publishers.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("years of experience %q is not numeric", s)
		}
		n = int(f)
	}
	*y = YearsOfExperience(n)
	return nil
}

// NewInterviewPayload is the message body published on the new-interview channel.
type NewInterviewPayload struct {
	ID        string            `json:"id" validate:"required"`
	Name      string            `json:"name" validate:"required"`
	Role      string            `json:"role" validate:"required"`
	Company   string            `json:"company" validate:"required"`
	YOE       YearsOfExperience `json:"yoe" validate:"min=0"`
	ResumeURL string            `json:"resumeUrl" validate:"required,url"`
}

// EndInterviewPayload is the message body published on the end-interview channel.
type EndInterviewPayload struct {
	InterviewID string `json:"interviewId" validate:"required"`
}

// Event is one decoded inbound message. Exactly one of the payload fields is
// set, matching Kind.
type Event struct {
	Kind         EventKind
	NewInterview *NewInterviewPayload
	EndInterview *EndInterviewPayload
}

// InterviewID returns the interview the event targets, regardless of kind.
func (e *Event) InterviewID() string {
	switch e.Kind {
	case KindNewInterview:
		if e.NewInterview != nil {
			return e.NewInterview.ID
		}
	case KindEndInterview:
		if e.EndInterview != nil {
			return e.EndInterview.InterviewID
		}
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeEvent turns a raw channel message into a validated Event. It acts as
// an anti-corruption layer: a message that fails here carries no usable
// interview id, so the dispatcher drops it without a state write.
func DecodeEvent(channel string, payload []byte) (*Event, error) {
	switch EventKind(channel) {
	case KindNewInterview:
		var p NewInterviewPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, &DecodeError{Channel: channel, Err: err}
		}
		if err := validate.Struct(&p); err != nil {
			return nil, &DecodeError{Channel: channel, Err: err}
		}
		return &Event{Kind: KindNewInterview, NewInterview: &p}, nil

	case KindEndInterview:
		var p EndInterviewPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, &DecodeError{Channel: channel, Err: err}
		}
		if err := validate.Struct(&p); err != nil {
			return nil, &DecodeError{Channel: channel, Err: err}
		}
		return &Event{Kind: KindEndInterview, EndInterview: &p}, nil

	default:
		return nil, &DecodeError{Channel: channel, Err: fmt.Errorf("unknown channel")}
	}
}

package pairsel

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/event"
)

var (
	// ErrPrecondition marks an event whose indices or columns violate the
	// shape the algorithms require. It aborts the event and the batch.
	ErrPrecondition = errors.New("precondition violated")

	// ErrInvalidEvent marks an event that does not carry the collections,
	// masks or columns the configuration refers to.
	ErrInvalidEvent = errors.New("invalid event")
)

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.cause }

func configError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Reason: err.Error(), cause: err}
}

// EventError reports the step at which processing an event failed.
//
// errors.Is matches ErrPrecondition for index and length violations and
// ErrInvalidEvent otherwise; the underlying error is reachable with
// errors.As.
type EventError struct {
	Event event.ID
	Step  string
	Err   error
}

func (e *EventError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("event %s: %v", e.Event, e.Err)
	}
	return fmt.Sprintf("event %s: step %q: %v", e.Event, e.Step, e.Err)
}

func (e *EventError) Unwrap() []error {
	return []error{classify(e.Err), e.Err}
}

func classify(err error) error {
	var ie *collection.IndexError
	var le *collection.LengthError
	if errors.As(err, &ie) || errors.As(err, &le) {
		return ErrPrecondition
	}
	return ErrInvalidEvent
}

func eventError(id event.ID, step string, err error) error {
	if err == nil {
		return nil
	}
	return &EventError{Event: id, Step: step, Err: err}
}

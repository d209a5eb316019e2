package events

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTopic matches any *UnknownTopicError via errors.Is.
	ErrUnknownTopic             = errors.New("unknown topic")
	ErrDestinationNotConfigured = errors.New("topic destination not configured")
)

// UnknownTopicError is returned before any network call when the logical
// topic name is not registered.
type UnknownTopicError struct {
	Topic string
}

func (e *UnknownTopicError) Error() string {
	return fmt.Sprintf("unknown topic: %s", e.Topic)
}

func (e *UnknownTopicError) Is(target error) bool {
	return target == ErrUnknownTopic
}

// PublishError wraps any serialization or transport failure.
type PublishError struct {
	Topic     string
	EventType string
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish event %q to topic %q: %v", e.EventType, e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

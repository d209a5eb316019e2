package events

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Client is the notification service capability the publisher forwards to.
// Implementations must be safe for concurrent use.
type Client interface {
	Publish(ctx context.Context, destination string, body []byte) (messageID string, err error)
}

type ClientFunc func(ctx context.Context, destination string, body []byte) (string, error)

func (f ClientFunc) Publish(ctx context.Context, destination string, body []byte) (string, error) {
	return f(ctx, destination, body)
}

// LogClient writes messages to the logger instead of a remote service.
type LogClient struct {
	logger *slog.Logger
}

func NewLogClient(logger *slog.Logger) *LogClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogClient{logger: logger}
}

func (c *LogClient) Publish(_ context.Context, destination string, body []byte) (string, error) {
	id := uuid.NewString()
	c.logger.Info("event message", "destination", destination, "message_id", id, "body", string(body))
	return id, nil
}

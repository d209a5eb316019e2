package events

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/md-rashed-zaman/eventpub/libs/events"

// Publisher resolves logical topics and forwards serialized envelopes to a Client.
// There is no retry; every failure is returned to the caller.
type Publisher struct {
	client Client
	topics Topics
	logger *slog.Logger
	tracer trace.Tracer
	wg     sync.WaitGroup
}

func NewPublisher(client Client, topics Topics, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client: client,
		topics: topics,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

func (p *Publisher) Topics() Topics {
	return p.topics
}

// Publish blocks until the client accepts or rejects the message.
func (p *Publisher) Publish(ctx context.Context, topic string, env Envelope) error {
	destination, ok := p.topics.Destination(topic)
	if !ok {
		return &UnknownTopicError{Topic: topic}
	}

	ctx, span := p.tracer.Start(ctx, "events.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", topic),
			attribute.String("event.type", env.EventType),
			attribute.String("event.correlation_id", env.CorrelationID),
		),
	)
	defer span.End()

	messageID, err := p.send(ctx, destination, env)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		p.logger.Error("failed to publish event",
			"event_type", env.EventType,
			"topic", topic,
			"correlation_id", env.CorrelationID,
			"err", err,
		)
		return &PublishError{Topic: topic, EventType: env.EventType, Err: err}
	}

	span.SetAttributes(attribute.String("messaging.message.id", messageID))
	p.logger.Info("event published",
		"event_type", env.EventType,
		"topic", topic,
		"message_id", messageID,
		"correlation_id", env.CorrelationID,
	)
	return nil
}

func (p *Publisher) send(ctx context.Context, destination string, env Envelope) (string, error) {
	if destination == "" {
		return "", ErrDestinationNotConfigured
	}
	body, err := env.Marshal()
	if err != nil {
		return "", err
	}
	return p.client.Publish(ctx, destination, body)
}

// PublishAsync runs Publish on its own goroutine. Cancelling ctx does not
// stop an in-flight publish; its values (trace span) are kept.
func (p *Publisher) PublishAsync(ctx context.Context, topic string, env Envelope) *Pending {
	pending := newPending()
	ctx = context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		pending.complete(p.Publish(ctx, topic, env))
	}()
	return pending
}

// Wait blocks until every publish started by PublishAsync has finished.
func (p *Publisher) Wait() {
	p.wg.Wait()
}

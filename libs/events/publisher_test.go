package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type stubClient struct {
	mu    sync.Mutex
	calls []stubCall
	id    string
	err   error
	delay time.Duration
}

type stubCall struct {
	destination string
	body        []byte
}

func (c *stubClient) Publish(ctx context.Context, destination string, body []byte) (string, error) {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, stubCall{destination: destination, body: body})
	if c.err != nil {
		return "", c.err
	}
	return c.id, nil
}

func (c *stubClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTopics() Topics {
	return NewTopics(map[string]string{
		TopicDealEvents:   "arn:aws:sns:ap-northeast-2:000000000000:deal-events",
		TopicTicketEvents: "",
	})
}

func TestPublishUnknownTopic(t *testing.T) {
	client := &stubClient{id: "msg-1"}
	p := NewPublisher(client, testTopics(), testLogger())

	err := p.Publish(context.Background(), "unknown-topic-xyz", NewEnvelope("deal.requested", "service-trade", nil))

	var unknown *UnknownTopicError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTopicError, got %v", err)
	}
	if unknown.Topic != "unknown-topic-xyz" {
		t.Fatalf("unexpected topic: %s", unknown.Topic)
	}
	if !errors.Is(err, ErrUnknownTopic) {
		t.Fatal("expected errors.Is(err, ErrUnknownTopic)")
	}
	var pubErr *PublishError
	if errors.As(err, &pubErr) {
		t.Fatal("unknown topic must not be wrapped as a publish error")
	}
	if n := client.callCount(); n != 0 {
		t.Fatalf("expected 0 client calls, got %d", n)
	}
}

func TestPublishSuccess(t *testing.T) {
	client := &stubClient{id: "msg-1"}
	p := NewPublisher(client, testTopics(), testLogger())
	env := NewEnvelope("deal.requested", "service-trade", map[string]any{"dealId": "d-1", "quantity": 2.0})

	if err := p.Publish(context.Background(), TopicDealEvents, env); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if n := client.callCount(); n != 1 {
		t.Fatalf("expected 1 client call, got %d", n)
	}

	call := client.calls[0]
	if call.destination != "arn:aws:sns:ap-northeast-2:000000000000:deal-events" {
		t.Fatalf("unexpected destination: %s", call.destination)
	}

	var body map[string]any
	if err := json.Unmarshal(call.body, &body); err != nil {
		t.Fatalf("body is not json: %v", err)
	}
	if len(body) != 6 {
		t.Fatalf("expected 6 fields, got %v", body)
	}
	checks := map[string]any{
		"eventType":     "deal.requested",
		"source":        "service-trade",
		"version":       "1.0",
		"timestamp":     env.Timestamp.String(),
		"correlationId": env.CorrelationID,
	}
	for key, want := range checks {
		if body[key] != want {
			t.Errorf("%s = %v, want %v", key, body[key], want)
		}
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["dealId"] != "d-1" || data["quantity"] != 2.0 {
		t.Fatalf("unexpected data: %v", body["data"])
	}
}

func TestPublishClientFailure(t *testing.T) {
	cause := errors.New("sns: throttled")
	client := &stubClient{err: cause}
	p := NewPublisher(client, testTopics(), testLogger())
	env := NewEnvelope("deal.requested", "service-trade", nil)

	err := p.Publish(context.Background(), TopicDealEvents, env)

	var pubErr *PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected PublishError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if pubErr.Topic != TopicDealEvents || pubErr.EventType != "deal.requested" {
		t.Fatalf("unexpected error fields: %+v", pubErr)
	}
	if env.EventType != "deal.requested" {
		t.Fatalf("envelope mutated: %s", env.EventType)
	}
	if n := client.callCount(); n != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", n)
	}
}

func TestPublishSerializationFailure(t *testing.T) {
	client := &stubClient{id: "msg-1"}
	p := NewPublisher(client, testTopics(), testLogger())
	env := NewEnvelope("deal.requested", "service-trade", map[string]any{"fn": func() {}})

	err := p.Publish(context.Background(), TopicDealEvents, env)

	var pubErr *PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected PublishError, got %v", err)
	}
	var unsupported *json.UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected json cause, got %v", pubErr.Err)
	}
	if n := client.callCount(); n != 0 {
		t.Fatalf("expected 0 client calls, got %d", n)
	}
}

func TestPublishDestinationNotConfigured(t *testing.T) {
	client := &stubClient{id: "msg-1"}
	p := NewPublisher(client, testTopics(), testLogger())

	err := p.Publish(context.Background(), TopicTicketEvents, NewEnvelope("ticket.created", "service-ticket", nil))

	var pubErr *PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected PublishError, got %v", err)
	}
	if !errors.Is(err, ErrDestinationNotConfigured) {
		t.Fatalf("expected ErrDestinationNotConfigured, got %v", err)
	}
	if errors.Is(err, ErrUnknownTopic) {
		t.Fatal("registered topic must not report unknown topic")
	}
	if n := client.callCount(); n != 0 {
		t.Fatalf("expected 0 client calls, got %d", n)
	}
}

func TestPublishAsyncFailure(t *testing.T) {
	cause := errors.New("connection reset")
	client := &stubClient{err: cause}
	p := NewPublisher(client, testTopics(), testLogger())

	pending := p.PublishAsync(context.Background(), TopicDealEvents, NewEnvelope("deal.requested", "service-trade", nil))

	err := pending.Wait()
	var pubErr *PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected PublishError from handle, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if !errors.Is(pending.Err(), cause) {
		t.Fatalf("Err() after completion = %v", pending.Err())
	}
}

func TestPublishAsyncUnknownTopic(t *testing.T) {
	client := &stubClient{id: "msg-1"}
	p := NewPublisher(client, testTopics(), testLogger())

	pending := p.PublishAsync(context.Background(), "unknown-topic-xyz", NewEnvelope("deal.requested", "service-trade", nil))

	if err := pending.Wait(); !errors.Is(err, ErrUnknownTopic) {
		t.Fatalf("expected unknown topic error, got %v", err)
	}
	if n := client.callCount(); n != 0 {
		t.Fatalf("expected 0 client calls, got %d", n)
	}
}

func TestPublishAsyncIgnoresCallerCancel(t *testing.T) {
	client := &stubClient{id: "msg-1", delay: 50 * time.Millisecond}
	p := NewPublisher(client, testTopics(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	pending := p.PublishAsync(ctx, TopicDealEvents, NewEnvelope("deal.requested", "service-trade", nil))
	cancel()

	select {
	case <-pending.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("async publish did not complete")
	}
	if err := pending.Err(); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestPublisherWaitDrainsInFlight(t *testing.T) {
	client := &stubClient{id: "msg-1", delay: 20 * time.Millisecond}
	p := NewPublisher(client, testTopics(), testLogger())

	for i := 0; i < 10; i++ {
		p.PublishAsync(context.Background(), TopicDealEvents, NewEnvelope("deal.requested", "service-trade", nil))
	}
	p.Wait()

	if n := client.callCount(); n != 10 {
		t.Fatalf("expected 10 client calls after Wait, got %d", n)
	}
}

func TestPendingErrBeforeDone(t *testing.T) {
	pending := newPending()
	if err := pending.Err(); err != nil {
		t.Fatalf("expected nil while in flight, got %v", err)
	}
	pending.complete(errors.New("boom"))
	if pending.Wait() == nil {
		t.Fatal("expected error after completion")
	}
}

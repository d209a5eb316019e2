package natsx

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
)

type fakeStream struct {
	subjects []string
	bodies   [][]byte
	err      error
}

func (f *fakeStream) Publish(_ context.Context, subject string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, data)
	if f.err != nil {
		return nil, f.err
	}
	return &jetstream.PubAck{Stream: "EVENTS", Sequence: uint64(len(f.subjects))}, nil
}

func TestClientPublish(t *testing.T) {
	js := &fakeStream{}
	c := &Client{js: js}

	id, err := c.Publish(context.Background(), "events.deal", []byte(`{"eventType":"deal.requested"}`))
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if id != "EVENTS:1" {
		t.Fatalf("unexpected id: %s", id)
	}
	if js.subjects[0] != "events.deal" || string(js.bodies[0]) != `{"eventType":"deal.requested"}` {
		t.Fatalf("unexpected publish: %v %s", js.subjects, js.bodies[0])
	}
}

func TestClientPublishError(t *testing.T) {
	c := &Client{js: &fakeStream{err: jetstream.ErrNoStreamResponse}}

	if _, err := c.Publish(context.Background(), "events.deal", []byte("{}")); !errors.Is(err, jetstream.ErrNoStreamResponse) {
		t.Fatalf("expected no stream response error, got %v", err)
	}
}

func TestReadyCheckNotConfigured(t *testing.T) {
	if err := ReadyCheck(nil)(context.Background()); err == nil {
		t.Fatal("expected error for nil client")
	}
	if err := ReadyCheck(&Client{})(context.Background()); err == nil {
		t.Fatal("expected error without connection")
	}
}

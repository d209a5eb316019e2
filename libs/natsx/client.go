package natsx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type streamPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Client publishes message bodies to JetStream subjects. The destination is the subject.
type Client struct {
	nc *nats.Conn
	js streamPublisher
}

func Connect(url string, name string) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name(name))
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Client{nc: nc, js: js}, nil
}

// Publish waits for the stream acknowledgement and returns "stream:sequence".
func (c *Client) Publish(ctx context.Context, subject string, body []byte) (string, error) {
	ack, err := c.js.Publish(ctx, subject, body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", ack.Stream, ack.Sequence), nil
}

func (c *Client) Close() error {
	if c.nc != nil {
		c.nc.Close()
	}
	return nil
}

func ReadyCheck(c *Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if c == nil || c.nc == nil {
			return errors.New("nats not configured")
		}
		if !c.nc.IsConnected() {
			return fmt.Errorf("nats status %s", c.nc.Status())
		}
		return nil
	}
}

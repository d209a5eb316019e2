package kafkax

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Client publishes message bodies to Kafka topics. The destination is the topic name.
type Client struct {
	writer messageWriter
}

func NewClient(brokers string) (*Client, error) {
	list := SplitBrokers(brokers)
	if len(list) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(list...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  1,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	return &Client{writer: w}, nil
}

// Publish writes body to topic and returns the generated message key as its id.
func (c *Client) Publish(ctx context.Context, topic string, body []byte) (string, error) {
	id := uuid.NewString()
	err := c.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(id),
		Value: body,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (c *Client) Close() error {
	return c.writer.Close()
}

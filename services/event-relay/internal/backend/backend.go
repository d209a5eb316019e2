package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/md-rashed-zaman/eventpub/libs/config"
	"github.com/md-rashed-zaman/eventpub/libs/events"
	"github.com/md-rashed-zaman/eventpub/libs/kafkax"
	"github.com/md-rashed-zaman/eventpub/libs/natsx"
	"github.com/md-rashed-zaman/eventpub/libs/redisx"
	"github.com/md-rashed-zaman/eventpub/libs/runtime"
	"github.com/md-rashed-zaman/eventpub/libs/snsx"
)

const (
	SNS   = "sns"
	Kafka = "kafka"
	Redis = "redis"
	NATS  = "nats"
	Log   = "log"
)

// Backend is the notification service client plus its readiness check and cleanup.
type Backend struct {
	Name   string
	Client events.Client
	Ready  runtime.ReadyCheck
	Close  func() error
}

// FromEnv builds the client named by EVENTS_BACKEND.
func FromEnv(ctx context.Context, logger *slog.Logger, topics events.Topics) (*Backend, error) {
	name := strings.ToLower(strings.TrimSpace(config.String("EVENTS_BACKEND", Log)))
	destinations := make([]string, 0, topics.Len())
	for _, t := range topics.Names() {
		if d, _ := topics.Destination(t); d != "" {
			destinations = append(destinations, d)
		}
	}

	switch name {
	case SNS:
		c, err := snsx.New(ctx, snsx.Config{
			Region:   config.String("AWS_REGION", "ap-northeast-2"),
			Endpoint: config.String("SNS_ENDPOINT", ""),
		})
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		return &Backend{
			Name:   name,
			Client: c,
			Ready:  runtime.ReadyCheck{Name: "sns", Check: snsx.ReadyCheck(c, destinations)},
			Close:  func() error { return nil },
		}, nil
	case Kafka:
		brokers := config.String("KAFKA_BROKERS", "")
		c, err := kafkax.NewClient(brokers)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Name:   name,
			Client: c,
			Ready:  runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers, destinations...)},
			Close:  c.Close,
		}, nil
	case Redis:
		maxLen, err := config.Int("REDIS_STREAM_MAXLEN", 0)
		if err != nil {
			return nil, err
		}
		rdb, err := redisx.Open(ctx, redisx.Config{
			Addr:     config.String("REDIS_ADDR", ""),
			Password: config.String("REDIS_PASSWORD", ""),
		})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		return &Backend{
			Name:   name,
			Client: redisx.NewClient(rdb, int64(maxLen)),
			Ready:  runtime.ReadyCheck{Name: "redis", Check: redisx.ReadyCheck(rdb)},
			Close:  rdb.Close,
		}, nil
	case NATS:
		c, err := natsx.Connect(config.String("NATS_URL", ""), config.String("SERVICE_NAME", "event-relay"))
		if err != nil {
			return nil, err
		}
		return &Backend{
			Name:   name,
			Client: c,
			Ready:  runtime.ReadyCheck{Name: "nats", Check: natsx.ReadyCheck(c)},
			Close:  c.Close,
		}, nil
	case Log:
		logger.Warn("events backend is log only; messages are not delivered")
		return &Backend{
			Name:   name,
			Client: events.NewLogClient(logger),
			Close:  func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported EVENTS_BACKEND %q", name)
	}
}

package redisx

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// StreamField is the stream entry field holding the message body.
const StreamField = "message"

// Client appends message bodies to Redis streams. The destination is the stream key.
type Client struct {
	rdb    redis.UniversalClient
	maxLen int64
}

type Config struct {
	Addr     string
	Password string
	DB       int
	// MaxLen caps each stream approximately; zero means unbounded.
	MaxLen int64
}

func Open(ctx context.Context, cfg Config) (*redis.Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("redis addr not configured")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func NewClient(rdb redis.UniversalClient, maxLen int64) *Client {
	return &Client{rdb: rdb, maxLen: maxLen}
}

// Publish runs XADD and returns the stream entry id.
func (c *Client) Publish(ctx context.Context, stream string, body []byte) (string, error) {
	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{StreamField: body},
	}
	if c.maxLen > 0 {
		args.MaxLen = c.maxLen
		args.Approx = true
	}
	return c.rdb.XAdd(ctx, args).Result()
}

func ReadyCheck(rdb redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if rdb == nil {
			return errors.New("redis not configured")
		}
		return rdb.Ping(ctx).Err()
	}
}

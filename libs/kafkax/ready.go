package kafkax

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReadyCheck dials the first broker and, when topics are given, confirms
// the broker knows about them.
func ReadyCheck(brokers string, topics ...string) func(context.Context) error {
	return func(ctx context.Context) error {
		list := SplitBrokers(brokers)
		if len(list) == 0 {
			return errors.New("kafka brokers not configured")
		}
		dialer := kafka.Dialer{Timeout: 2 * time.Second}
		conn, err := dialer.DialContext(ctx, "tcp", list[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		var named []string
		for _, t := range topics {
			if t != "" {
				named = append(named, t)
			}
		}
		if len(named) == 0 {
			return nil
		}
		if _, err := conn.ReadPartitions(named...); err != nil {
			return fmt.Errorf("read partitions: %w", err)
		}
		return nil
	}
}

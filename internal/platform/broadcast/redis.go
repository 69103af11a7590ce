// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package broadcast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisBroker fans events out through Redis pub/sub.
//
// Channel names are namespaced as "<prefix>:<channel>", e.g. "yardmap:map-layout".
type RedisBroker struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisBroker wraps an already connected client. The client stays owned by the caller.
func NewRedisBroker(client *redis.Client, prefix string, logger *slog.Logger) *RedisBroker {
	return &RedisBroker{client: client, prefix: prefix, logger: logger}
}

func (broker *RedisBroker) key(channel string) string {
	return broker.prefix + ":" + channel
}

// Publish implements [Publisher].
func (broker *RedisBroker) Publish(context context.Context, channel, name string, payload any) error {
	event, err := NewEvent(channel, name, payload)
	if err != nil {
		return err
	}

	data, err := encode(event)
	if err != nil {
		return err
	}

	if err := broker.client.Publish(context, broker.key(channel), data).Err(); err != nil {
		return fmt.Errorf("broadcast: redis publish to %s failed: %w", channel, err)
	}
	return nil
}

// Subscribe implements [Subscriber].
func (broker *RedisBroker) Subscribe(context context.Context, channels ...string) (<-chan Event, error) {
	keys := make([]string, len(channels))
	for i, channel := range channels {
		keys[i] = broker.key(channel)
	}

	pubsub := broker.client.Subscribe(context, keys...)

	// Wait for the subscription confirmation so callers never miss the first event.
	if _, err := pubsub.Receive(context); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("broadcast: redis subscribe failed: %w", err)
	}

	events := make(chan Event, subscriberBuffer)
	messages := pubsub.Channel()

	go func() {
		defer close(events)
		defer pubsub.Close()

		for {
			select {
			case <-context.Done():
				return
			case message, ok := <-messages:
				if !ok {
					return
				}

				event, err := decode([]byte(message.Payload))
				if err != nil {
					broker.logger.Warn("broadcast_decode_failed",
						slog.String("channel", message.Channel),
						slog.Any("error", err),
					)
					continue
				}

				select {
				case events <- event:
				case <-context.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

// Close is a no-op; the Redis client is closed by its owner.
func (broker *RedisBroker) Close() error {
	return nil
}

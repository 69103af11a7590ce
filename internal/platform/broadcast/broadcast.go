// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package broadcast carries committed layout changes to every connected browser.

Services publish an [Event] after their unit of work commits; the API's event
stream endpoint subscribes and relays events as Server-Sent Events.

Drivers:

  - [RedisBroker]: Redis pub/sub, the default for multi-replica deployments.
  - [NATSBroker]: NATS core subjects.
  - [Hub]: In-process fan-out for single-node runs and tests.

Delivery is best effort. A failed publish never undoes the committed change; callers
log it through [Notify] and move on.
*/
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// # Event Envelope

// Event is the wire envelope shared by every driver.
type Event struct {
	Channel     string          `json:"channel"`
	Name        string          `json:"event"`
	Payload     json.RawMessage `json:"payload"`
	PublishedAt time.Time       `json:"published_at"`
}

// NewEvent marshals payload into an [Event] for the given channel.
func NewEvent(channel, name string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("broadcast: failed to encode %s payload: %w", name, err)
	}
	return Event{
		Channel:     channel,
		Name:        name,
		Payload:     raw,
		PublishedAt: time.Now().UTC(),
	}, nil
}

func encode(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("broadcast: failed to encode event: %w", err)
	}
	return data, nil
}

func decode(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("broadcast: failed to decode event: %w", err)
	}
	return event, nil
}

// # Contracts

// Publisher sends one event to one channel.
type Publisher interface {
	Publish(context context.Context, channel, name string, payload any) error
}

// Subscriber opens a live feed of events on the given channels.
//
// The returned stream is closed once context is cancelled or the broker shuts down.
type Subscriber interface {
	Subscribe(context context.Context, channels ...string) (<-chan Event, error)
}

// Broker is a full driver, as wired by the composition root.
type Broker interface {
	Publisher
	Subscriber
	Close() error
}

// subscriberBuffer is the per-subscription queue length. Slow consumers lose events
// beyond it instead of stalling the publisher.
const subscriberBuffer = 64

// # Post-commit Notification

// Observer receives the outcome of every publish attempt.
type Observer interface {
	ObserveBroadcast(channel, event string, err error)
}

// Notify publishes an event after a successful commit.
//
// Failures are logged at error level and reported to observer; they are never returned,
// because the state change they describe is already durable.
func Notify(context context.Context, publisher Publisher, observer Observer, logger *slog.Logger, channel, name string, payload any) {
	if publisher == nil {
		return
	}

	err := publisher.Publish(context, channel, name, payload)
	if observer != nil {
		observer.ObserveBroadcast(channel, name, err)
	}

	if err != nil {
		logger.ErrorContext(context, "broadcast_failed",
			slog.String("channel", channel),
			slog.String("event", name),
			slog.Any("error", err),
		)
		return
	}

	logger.DebugContext(context, "broadcast_sent",
		slog.String("channel", channel),
		slog.String("event", name),
	)
}

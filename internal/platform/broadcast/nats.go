// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSBroker fans events out through NATS core subjects.
//
// Subjects are namespaced as "<prefix>.<channel>", e.g. "yardmap.map-layout".
type NATSBroker struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
}

// ConnectNATS dials the server and returns a broker owning the connection.
func ConnectNATS(url, prefix string, logger *slog.Logger) (*NATSBroker, error) {
	conn, err := nats.Connect(url,
		nats.Name("yardmap-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(conn *nats.Conn) {
			logger.Info("nats_reconnected", slog.String("url", conn.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("broadcast: connect to NATS: %w", err)
	}

	logger.Info("nats_connected", slog.String("url", conn.ConnectedUrl()))
	return &NATSBroker{conn: conn, prefix: prefix, logger: logger}, nil
}

func (broker *NATSBroker) subject(channel string) string {
	return broker.prefix + "." + channel
}

// Publish implements [Publisher].
func (broker *NATSBroker) Publish(context context.Context, channel, name string, payload any) error {
	if err := context.Err(); err != nil {
		return err
	}

	event, err := NewEvent(channel, name, payload)
	if err != nil {
		return err
	}

	data, err := encode(event)
	if err != nil {
		return err
	}

	if err := broker.conn.Publish(broker.subject(channel), data); err != nil {
		return fmt.Errorf("broadcast: nats publish to %s failed: %w", channel, err)
	}
	return nil
}

// Subscribe implements [Subscriber].
func (broker *NATSBroker) Subscribe(context context.Context, channels ...string) (<-chan Event, error) {
	messages := make(chan *nats.Msg, subscriberBuffer)
	subscriptions := make([]*nats.Subscription, 0, len(channels))

	unsubscribe := func() {
		for _, subscription := range subscriptions {
			_ = subscription.Unsubscribe()
		}
	}

	for _, channel := range channels {
		subscription, err := broker.conn.ChanSubscribe(broker.subject(channel), messages)
		if err != nil {
			unsubscribe()
			return nil, fmt.Errorf("broadcast: nats subscribe to %s failed: %w", channel, err)
		}
		subscriptions = append(subscriptions, subscription)
	}

	events := make(chan Event, subscriberBuffer)

	go func() {
		defer close(events)
		defer unsubscribe()

		for {
			select {
			case <-context.Done():
				return
			case message := <-messages:
				event, err := decode(message.Data)
				if err != nil {
					broker.logger.Warn("broadcast_decode_failed",
						slog.String("subject", message.Subject),
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

// Ping reports whether the NATS connection is usable.
func (broker *NATSBroker) Ping(_ context.Context) error {
	if !broker.conn.IsConnected() {
		return fmt.Errorf("broadcast: nats status %s", broker.conn.Status())
	}
	return nil
}

// Close drains in-flight messages and closes the connection.
func (broker *NATSBroker) Close() error {
	return broker.conn.Drain()
}

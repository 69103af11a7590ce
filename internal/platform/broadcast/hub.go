// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package broadcast

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by a [Hub] after Close.
var ErrClosed = errors.New("broadcast: broker closed")

type hubSubscription struct {
	channels map[string]struct{}
	events   chan Event
	done     chan struct{}
}

// Hub is an in-process [Broker].
type Hub struct {
	mu     sync.RWMutex
	subs   map[*hubSubscription]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewHub returns an empty in-process broker.
func NewHub() *Hub {
	return &Hub{subs: make(map[*hubSubscription]struct{})}
}

// Publish implements [Publisher]. Full subscriber queues drop the event.
func (hub *Hub) Publish(_ context.Context, channel, name string, payload any) error {
	event, err := NewEvent(channel, name, payload)
	if err != nil {
		return err
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.closed {
		return ErrClosed
	}

	for sub := range hub.subs {
		if _, wanted := sub.channels[channel]; !wanted {
			continue
		}
		select {
		case sub.events <- event:
		default:
		}
	}
	return nil
}

// Subscribe implements [Subscriber].
func (hub *Hub) Subscribe(context context.Context, channels ...string) (<-chan Event, error) {
	sub := &hubSubscription{
		channels: make(map[string]struct{}, len(channels)),
		events:   make(chan Event, subscriberBuffer),
		done:     make(chan struct{}),
	}
	for _, channel := range channels {
		sub.channels[channel] = struct{}{}
	}

	hub.mu.Lock()
	if hub.closed {
		hub.mu.Unlock()
		return nil, ErrClosed
	}
	hub.subs[sub] = struct{}{}
	hub.wg.Add(1)
	hub.mu.Unlock()

	go func() {
		defer hub.wg.Done()
		select {
		case <-context.Done():
		case <-sub.done:
		}
		hub.remove(sub)
	}()

	return sub.events, nil
}

// remove unregisters sub and closes its stream exactly once.
func (hub *Hub) remove(sub *hubSubscription) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if _, ok := hub.subs[sub]; !ok {
		return
	}
	delete(hub.subs, sub)
	close(sub.events)
}

// Close ends every open subscription and waits for their watchers to exit.
func (hub *Hub) Close() error {
	hub.mu.Lock()
	if hub.closed {
		hub.mu.Unlock()
		return nil
	}
	hub.closed = true
	for sub := range hub.subs {
		close(sub.done)
	}
	hub.mu.Unlock()

	hub.wg.Wait()
	return nil
}

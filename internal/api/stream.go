// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/taibuivan/yardmap/internal/platform/apperr"
	"github.com/taibuivan/yardmap/internal/platform/broadcast"
	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/ctxutil"
	"github.com/taibuivan/yardmap/internal/platform/respond"
	"github.com/taibuivan/yardmap/pkg/query"
)

// streamChannels are the channels a client may follow.
var streamChannels = []string{
	constants.ChannelCategories,
	constants.ChannelMapLayout,
	constants.ChannelCellsInformation,
}

// StreamHandler relays broadcast events to browsers as Server-Sent Events.
//
// GET /api/v1/stream?channel=categories,map-layout follows the listed channels;
// without the parameter every channel is followed.
type StreamHandler struct {
	subscriber broadcast.Subscriber
	heartbeat  time.Duration
}

// NewStreamHandler constructs a [StreamHandler] sending a keep-alive comment every
// heartbeat while idle. A non-positive heartbeat uses [constants.StreamHeartbeatInterval].
func NewStreamHandler(subscriber broadcast.Subscriber, heartbeat time.Duration) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = constants.StreamHeartbeatInterval
	}
	return &StreamHandler{subscriber: subscriber, heartbeat: heartbeat}
}

// parseChannels validates the channel query parameter.
func parseChannels(raw string) ([]string, error) {
	channels := query.CSV(raw)
	for _, channel := range channels {
		if !slices.Contains(streamChannels, channel) {
			return nil, apperr.ValidationError("Unknown channel", apperr.FieldError{Field: "channel", Message: channel})
		}
	}
	if len(channels) == 0 {
		return streamChannels, nil
	}
	return channels, nil
}

func (handler *StreamHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	channels, err := parseChannels(request.URL.Query().Get("channel"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	context := request.Context()
	logger := ctxutil.GetLogger(context)

	events, err := handler.subscriber.Subscribe(context, channels...)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	controller := http.NewResponseController(writer)
	// Streams outlive the server write timeout; not every writer supports deadlines.
	_ = controller.SetWriteDeadline(time.Time{})

	header := writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	writer.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(writer, ": connected\n\n"); err != nil {
		return
	}
	if err := controller.Flush(); err != nil {
		logger.WarnContext(context, "stream_flush_unsupported", slog.Any("error", err))
		return
	}

	logger.DebugContext(context, "stream_opened", slog.Any("channels", channels))
	defer logger.DebugContext(context, "stream_closed")

	ticker := time.NewTicker(handler.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(writer, ": ping\n\n"); err != nil {
				return
			}

		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(writer, event); err != nil {
				return
			}
		}

		if err := controller.Flush(); err != nil {
			return
		}
	}
}

// writeEvent frames one event. The SSE event name is the broadcast event name and
// the data line carries the full envelope.
func writeEvent(writer http.ResponseWriter, event broadcast.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer, "event: %s\ndata: %s\n\n", event.Name, data)
	return err
}

// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/taibuivan/yardmap/internal/api"
	"github.com/taibuivan/yardmap/internal/platform/broadcast"
	"github.com/taibuivan/yardmap/internal/platform/constants"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// openStream connects to the handler and consumes the greeting comment.
func openStream(t *testing.T, handler http.Handler, query string) *bufio.Reader {
	t.Helper()

	server := httptest.NewServer(handler)
	context, cancel := context.WithCancel(context.Background())

	request, err := http.NewRequestWithContext(context, http.MethodGet, server.URL+query, nil)
	require.NoError(t, err)

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "text/event-stream", response.Header.Get("Content-Type"))

	t.Cleanup(func() {
		cancel()
		_ = response.Body.Close()
		server.Close()
	})

	reader := bufio.NewReader(response.Body)
	assert.Equal(t, ": connected", readFrame(t, reader)[0])
	return reader
}

// readFrame reads lines up to the blank line closing an SSE frame.
func readFrame(t *testing.T, reader *bufio.Reader) []string {
	t.Helper()

	lines := make(chan []string, 1)
	go func() {
		var frame []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				lines <- frame
				return
			}
			line = strings.TrimRight(line, "\n")
			if line == "" {
				lines <- frame
				return
			}
			frame = append(frame, line)
		}
	}()

	select {
	case frame := <-lines:
		require.NotEmpty(t, frame)
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return nil
	}
}

func TestStream_RelaysSubscribedChannels(t *testing.T) {
	hub := broadcast.NewHub()
	defer hub.Close()

	reader := openStream(t, api.NewStreamHandler(hub, time.Hour), "?channel=map-layout")

	context := context.Background()
	require.NoError(t, hub.Publish(context, constants.ChannelCategories, "CategoryCreated", map[string]int{"id": 1}))
	require.NoError(t, hub.Publish(context, constants.ChannelMapLayout, "CategoryDeleted", map[string]int{"category_id": 1}))

	frame := readFrame(t, reader)
	require.Len(t, frame, 2)
	assert.Equal(t, "event: CategoryDeleted", frame[0])

	var event broadcast.Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame[1], "data: ")), &event))
	assert.Equal(t, constants.ChannelMapLayout, event.Channel)
	assert.JSONEq(t, `{"category_id":1}`, string(event.Payload))
}

func TestStream_Heartbeat(t *testing.T) {
	hub := broadcast.NewHub()
	defer hub.Close()

	reader := openStream(t, api.NewStreamHandler(hub, 10*time.Millisecond), "")
	assert.Equal(t, []string{": ping"}, readFrame(t, reader))
}

func TestStream_RejectsUnknownChannel(t *testing.T) {
	hub := broadcast.NewHub()
	defer hub.Close()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/stream?channel=chat", nil)
	api.NewStreamHandler(hub, 0).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
}

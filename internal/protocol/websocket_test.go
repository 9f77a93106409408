package protocol

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/karate-runner/internal/domain"
)

// newHostServer accepts websocket connections and forwards every received
// frame to the returned channel.
func newHostServer(t *testing.T) (*httptest.Server, <-chan domain.RunEvent) {
	t.Helper()
	frames := make(chan domain.RunEvent, 16)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var e domain.RunEvent
			if json.Unmarshal(data, &e) == nil {
				frames <- e
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, frames
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func receive(t *testing.T, frames <-chan domain.RunEvent) domain.RunEvent {
	t.Helper()
	select {
	case e := <-frames:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("no frame received")
		return domain.RunEvent{}
	}
}

func TestWebSocketSink_RelaysEvents(t *testing.T) {
	srv, frames := newHostServer(t)

	sink, err := DialWebSocket(context.Background(), wsURL(srv), zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = sink.Close() }()

	sink.Emit(domain.StartEvent("a.feature"))
	sink.Emit(domain.EndEvent(domain.RunStatusPassed))

	assert.Equal(t, domain.StartEvent("a.feature"), receive(t, frames))
	assert.Equal(t, domain.EndEvent(domain.RunStatusPassed), receive(t, frames))
}

func TestWebSocketSink_DialsWhenDisconnected(t *testing.T) {
	srv, frames := newHostServer(t)

	sink := newWebSocketSink(wsURL(srv), zerolog.Nop())
	sink.start()
	defer func() { _ = sink.Close() }()

	sink.Emit(domain.LogEvent("after reconnect"))
	assert.Equal(t, domain.LogEvent("after reconnect"), receive(t, frames))
}

func TestWebSocketSink_CloseFlushesQueue(t *testing.T) {
	srv, frames := newHostServer(t)
	sink, err := DialWebSocket(context.Background(), wsURL(srv), zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		sink.Emit(domain.OutputEvent("line"))
	}
	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	for i := 0; i < 10; i++ {
		assert.Equal(t, domain.OutputEvent("line"), receive(t, frames))
	}
	assert.Zero(t, sink.Dropped())
}

func TestWebSocketSink_StalledHandshakeNeverBlocksEmit(t *testing.T) {
	// The listener accepts connections but never answers the upgrade.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var (
		mu       sync.Mutex
		accepted []net.Conn
	)
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range accepted {
			_ = conn.Close()
		}
	})
	go func() {
		for {
			conn, acceptErr := ln.Accept()
			if acceptErr != nil {
				return
			}
			mu.Lock()
			accepted = append(accepted, conn)
			mu.Unlock()
		}
	}()

	sink := newWebSocketSink("ws://"+ln.Addr().String(), zerolog.Nop())
	sink.start()

	start := time.Now()
	for i := 0; i < 5*wsQueueSize; i++ {
		sink.Emit(domain.OutputEvent("line"))
	}
	assert.Less(t, time.Since(start), time.Second, "emit must not wait on the host")
	assert.Positive(t, sink.Dropped())

	closed := make(chan struct{})
	go func() {
		_ = sink.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(3 * time.Second):
		t.Fatal("close waited for the stalled handshake")
	}
}

func TestDialWebSocket_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	_, err := DialWebSocket(context.Background(), url, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial host websocket")
}

func TestWebSocketSink_EmitWhileHostDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	sink := newWebSocketSink(url, zerolog.Nop())
	sink.start()

	assert.NotPanics(t, func() {
		sink.Emit(domain.LogEvent("dropped"))
		sink.Emit(domain.LogEvent("dropped too"))
	})
	require.NoError(t, sink.Close())
	assert.Equal(t, int64(2), sink.Dropped())
	assert.NotPanics(t, func() { sink.Emit(domain.LogEvent("after close")) })
}

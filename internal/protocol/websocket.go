package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mrz1836/karate-runner/internal/domain"
)

const (
	wsHandshakeTimeout = 10 * time.Second
	wsWriteTimeout     = 5 * time.Second
	wsRedialInterval   = 2 * time.Second
	wsCloseTimeout     = time.Second
	wsQueueSize        = 256
)

// WebSocketSink relays events to a host over a websocket as text frames.
//
// Emit never blocks: events are queued for a single writer goroutine and
// dropped when the queue is full or the host is unreachable. A broken
// connection is redialed at most once per wsRedialInterval.
type WebSocketSink struct {
	url    string
	dialer websocket.Dialer
	logger zerolog.Logger

	queue   chan []byte
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64

	// mu guards the connection of a handshake in progress so Close can
	// abort it.
	mu        sync.Mutex
	closing   bool
	handshake net.Conn

	// Owned by the writer goroutine.
	conn     *websocket.Conn
	lastDial time.Time
}

// DialWebSocket connects to the host at url and starts relaying.
func DialWebSocket(ctx context.Context, url string, logger zerolog.Logger) (*WebSocketSink, error) {
	s := newWebSocketSink(url, logger)

	conn, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	s.lastDial = time.Now()
	s.logger.Info().Msg("connected to host")

	s.start()
	return s, nil
}

func newWebSocketSink(url string, logger zerolog.Logger) *WebSocketSink {
	s := &WebSocketSink{
		url:    url,
		logger: logger.With().Str("component", "websocket").Str("url", url).Logger(),
		queue:  make(chan []byte, wsQueueSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.dialer = websocket.Dialer{
		HandshakeTimeout: wsHandshakeTimeout,
		NetDialContext:   s.netDial,
	}
	return s
}

// netDial records the raw connection while the handshake runs so that Close
// can abort a handshake the host never answers.
func (s *WebSocketSink) netDial(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		_ = conn.Close()
		return nil, net.ErrClosed
	}
	s.handshake = conn
	return conn, nil
}

func (s *WebSocketSink) start() {
	go s.writeLoop()
}

func (s *WebSocketSink) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	s.mu.Lock()
	s.handshake = nil
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("dial host websocket: %w", err)
	}
	return conn, nil
}

// Emit queues event for relay.
func (s *WebSocketSink) Emit(event domain.RunEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode event for relay")
		return
	}

	select {
	case <-s.stop:
	case s.queue <- data:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns the number of events that never reached the host.
func (s *WebSocketSink) Dropped() int64 {
	return s.dropped.Load()
}

func (s *WebSocketSink) writeLoop() {
	defer close(s.done)

	for {
		select {
		case data := <-s.queue:
			s.send(data, true)
		case <-s.stop:
			// Flush what is already queued without redialing.
			for {
				select {
				case data := <-s.queue:
					s.send(data, false)
				default:
					s.closeConn()
					return
				}
			}
		}
	}
}

func (s *WebSocketSink) send(data []byte, redial bool) {
	if s.conn == nil {
		if !redial || time.Since(s.lastDial) < wsRedialInterval {
			s.dropped.Add(1)
			return
		}
		s.lastDial = time.Now()
		conn, err := s.dial(context.Background())
		if err != nil {
			s.dropped.Add(1)
			s.logger.Warn().Err(err).Msg("relay unavailable, dropping events")
			return
		}
		s.conn = conn
		s.logger.Info().Int64("dropped", s.dropped.Load()).Msg("reconnected to host")
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.dropped.Add(1)
		s.logger.Warn().Err(err).Msg("relay write failed")
		_ = s.conn.Close()
		s.conn = nil
	}
}

func (s *WebSocketSink) closeConn() {
	if s.conn == nil {
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsCloseTimeout))
	_ = s.conn.Close()
	s.conn = nil
}

// Close flushes queued events and sends a close frame. A handshake still in
// progress is aborted. Close is safe to call more than once.
func (s *WebSocketSink) Close() error {
	s.once.Do(func() {
		close(s.stop)
		s.mu.Lock()
		s.closing = true
		if s.handshake != nil {
			_ = s.handshake.Close()
		}
		s.mu.Unlock()
		<-s.done
		if n := s.dropped.Load(); n > 0 {
			s.logger.Warn().Int64("dropped", n).Msg("some events were not relayed")
		}
	})
	return nil
}

var _ Sink = (*WebSocketSink)(nil)

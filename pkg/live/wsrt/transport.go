// Package wsrt implements the live transport over a websocket connection.
// It owns connection mechanics only: dialing, the setup handshake, frame
// reads and writes, and keepalive. Everything above raw payloads belongs
// to the live client.
package wsrt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Calicanx/aitutor-sub000/pkg/live"
)

const (
	defaultDialTimeout  = 15 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultPingInterval = 30 * time.Second
)

// Options configures a websocket transport.
type Options struct {
	// URL is the ws:// or wss:// live endpoint.
	URL string

	// APIKey, when set, is sent as a bearer token on the dial request.
	APIKey string

	// DialTimeout bounds connection establishment when the caller's
	// context carries no deadline. Defaults to 15s.
	DialTimeout time.Duration

	// WriteTimeout bounds each frame write. Defaults to 10s.
	WriteTimeout time.Duration

	// PingInterval is the keepalive ping cadence. Defaults to 30s.
	PingInterval time.Duration

	// Logger receives transport-level diagnostics. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Transport is a live.Transport over a single websocket connection at a
// time. It is safe for concurrent use.
type Transport struct {
	opts Options
	seq  atomic.Int64

	mu   sync.Mutex
	sess *session
}

var _ live.Transport = (*Transport)(nil)

// New creates a websocket transport for the given endpoint.
func New(opts Options) *Transport {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaultPingInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Transport{opts: opts}
}

// session is the state of one websocket connection.
type session struct {
	conn         *websocket.Conn
	cb           live.TransportCallbacks
	logger       *slog.Logger
	writeTimeout time.Duration
	pingInterval time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closing   atomic.Bool
	done      chan struct{}
}

// Connect dials the endpoint, sends the setup message, and starts the
// read and keepalive loops. It fails if a session is already open.
func (t *Transport) Connect(ctx context.Context, setup live.SetupConfig, cb live.TransportCallbacks) error {
	t.mu.Lock()
	if t.sess != nil && !t.sess.isDone() {
		t.mu.Unlock()
		return fmt.Errorf("transport already connected")
	}
	t.mu.Unlock()

	headers := make(http.Header)
	if t.opts.APIKey != "" {
		headers.Set("Authorization", "Bearer "+t.opts.APIKey)
	}

	dialCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, t.opts.DialTimeout)
		defer cancel()
	}

	dialer := websocket.DefaultDialer
	if dialer == nil {
		dialer = &websocket.Dialer{}
	}
	conn, resp, err := dialer.DialContext(dialCtx, t.opts.URL, headers)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket dial %s (status %d): %w", t.opts.URL, resp.StatusCode, err)
		}
		return fmt.Errorf("websocket dial %s: %w", t.opts.URL, err)
	}

	if err := conn.WriteJSON(live.ClientMessage{Setup: &setup}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("send setup: %w", err)
	}

	sess := &session{
		conn:         conn,
		cb:           cb,
		logger:       t.opts.Logger,
		writeTimeout: t.opts.WriteTimeout,
		pingInterval: t.opts.PingInterval,
		done:         make(chan struct{}),
	}
	t.mu.Lock()
	t.sess = sess
	t.mu.Unlock()

	cb.OnOpen()
	go sess.readLoop()
	go sess.pingLoop()
	return nil
}

// Disconnect closes the active session. The read loop reports the close
// through OnClose.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	sess := t.sess
	t.mu.Unlock()
	if sess == nil {
		return nil
	}
	sess.close()
	return nil
}

// SendRealtimeInput sends one media chunk with a monotonic sequence number.
func (t *Transport) SendRealtimeInput(chunk live.RealtimeChunk) error {
	return t.sendJSON(live.ClientMessage{RealtimeInput: &live.RealtimeInput{
		MediaChunks: []live.RealtimeChunk{chunk},
		Seq:         t.seq.Add(1),
	}})
}

// SendClientContent sends discrete conversational turns.
func (t *Transport) SendClientContent(turns []live.Content, turnComplete bool) error {
	return t.sendJSON(live.ClientMessage{ClientContent: &live.ClientContent{
		Turns:        turns,
		TurnComplete: turnComplete,
	}})
}

// SendToolResponse returns function results to the endpoint.
func (t *Transport) SendToolResponse(resp live.ToolResponse) error {
	return t.sendJSON(live.ClientMessage{ToolResponse: &resp})
}

// IsConnected reports whether a session is currently open.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sess != nil && !t.sess.isDone()
}

func (t *Transport) sendJSON(v any) error {
	t.mu.Lock()
	sess := t.sess
	t.mu.Unlock()
	if sess == nil || sess.isDone() {
		return fmt.Errorf("transport not connected")
	}
	return sess.writeJSON(v)
}

func (s *session) writeJSON(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.conn.WriteJSON(v)
}

// readLoop pumps inbound frames to the callbacks. It is the only place
// callbacks fire after Connect returns, which keeps them serialized.
func (s *session) readLoop() {
	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			_ = s.conn.Close()
			// Mark the session dead before reporting, so IsConnected is
			// already false when OnClose observers run.
			close(s.done)

			if s.closing.Load() {
				s.cb.OnClose(websocket.CloseNormalClosure, "client disconnect")
				return
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				s.cb.OnClose(closeErr.Code, closeErr.Text)
				return
			}
			s.logger.Debug("websocket read failed", "error", err)
			s.cb.OnError(err)
			s.cb.OnClose(websocket.CloseAbnormalClosure, err.Error())
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		s.cb.OnMessage(data)
	}
}

func (s *session) pingLoop() {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeTimeout))
			s.writeMu.Unlock()
			if err != nil {
				s.logger.Debug("websocket ping failed", "error", err)
				return
			}
		}
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		s.closing.Store(true)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(2*time.Second))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
	<-s.done
}

func (s *session) isDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Client is the public face of the streaming core. It owns the connection
// lifecycle and the four components behind it: the playback jitter buffer,
// the outbound scheduler, the event coalescer, and the message dispatcher.
// It is the only place ConnectionStatus is mutated and the only caller of
// Clear on the components it owns.
type Client struct {
	cfg       Config
	clock     Clock
	transport Transport

	mu     sync.Mutex
	status ConnectionStatus
	connID string

	playback  *PlaybackBuffer
	scheduler *RealtimeScheduler
	coalescer *EventCoalescer
	dispatch  *dispatcher

	events chan Event
}

// NewClient creates a client over the given transport. A nil clock uses
// the system clock; tests inject a virtual one.
func NewClient(transport Transport, cfg Config, clock Clock) *Client {
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = SystemClock()
	}

	c := &Client{
		cfg:       cfg,
		clock:     clock,
		transport: transport,
		status:    StatusDisconnected,
		events:    make(chan Event, cfg.EventBuffer),
	}

	c.coalescer = newEventCoalescer(cfg.Coalescer, clock,
		func(batch []LogEntry) { c.emit(&LogBatchEvent{Entries: batch}) },
		c.emitTranscript,
	)
	c.playback = newPlaybackBuffer(cfg.Playback, clock,
		func(pcm []byte) { c.emit(&AudioEvent{Data: pcm}) },
		c.coalescer.EnqueueLog,
	)
	c.scheduler = newRealtimeScheduler(cfg.Scheduler, clock,
		c.sendChunk,
		c.coalescer.EnqueueLog,
	)
	c.dispatch = &dispatcher{
		playback:  c.playback,
		coalescer: c.coalescer,
		emit:      c.emit,
	}
	return c
}

// Events returns the channel observers consume. Emission never blocks;
// events are dropped if the consumer falls this far behind.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Status returns the current connection status.
func (c *Client) Status() ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// ConnectionID returns the identifier of the current (or last) session.
func (c *Client) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connID
}

// Connect establishes a live session. It returns false with no side
// effects when a session is already connecting or connected. A transport
// failure resets the client to Disconnected, clears all buffers, and is
// surfaced both as the returned error and as a single ErrorEvent.
func (c *Client) Connect(ctx context.Context, setup SetupConfig) (bool, error) {
	c.mu.Lock()
	if c.status != StatusDisconnected {
		c.mu.Unlock()
		return false, nil
	}
	c.status = StatusConnecting
	c.connID = uuid.NewString()
	c.mu.Unlock()

	err := c.transport.Connect(ctx, setup, TransportCallbacks{
		OnOpen:    c.handleOpen,
		OnMessage: c.dispatch.HandleRaw,
		OnError:   c.handleError,
		OnClose:   c.handleClose,
	})
	if err != nil {
		c.mu.Lock()
		c.status = StatusDisconnected
		c.mu.Unlock()
		c.clearBuffers()
		c.emit(&ErrorEvent{Code: "connect_failed", Message: err.Error()})
		return false, fmt.Errorf("connect live session: %w", err)
	}
	return true, nil
}

// Disconnect tears down the active session. It returns false when there
// is nothing to tear down. The close itself is reported through the
// transport's OnClose callback.
func (c *Client) Disconnect() bool {
	c.mu.Lock()
	if c.status == StatusDisconnected {
		c.mu.Unlock()
		return false
	}
	c.status = StatusDisconnected
	c.mu.Unlock()

	c.clearBuffers()
	_ = c.transport.Disconnect()
	return true
}

// Send submits parts as one user turn. No-op unless connected.
func (c *Client) Send(parts []Part, turnComplete bool) {
	if c.Status() != StatusConnected {
		return
	}
	turns := []Content{{Role: "user", Parts: parts}}
	if err := c.transport.SendClientContent(turns, turnComplete); err != nil {
		c.coalescer.EnqueueLog("SEND", "client content send failed: "+err.Error())
		return
	}
	c.coalescer.EnqueueLog("SEND", fmt.Sprintf("client content (%d parts, turnComplete=%v)", len(parts), turnComplete))
}

// SendRealtimeInput hands captured media chunks to the outbound scheduler.
// No-op unless connected.
func (c *Client) SendRealtimeInput(chunks []RealtimeChunk) {
	if c.Status() != StatusConnected {
		return
	}
	c.scheduler.Push(chunks)
}

// SendToolResponse returns function results to the endpoint. No-op unless
// connected.
func (c *Client) SendToolResponse(resp ToolResponse) {
	if c.Status() != StatusConnected {
		return
	}
	if err := c.transport.SendToolResponse(resp); err != nil {
		c.coalescer.EnqueueLog("SEND", "tool response send failed: "+err.Error())
		return
	}
	c.coalescer.EnqueueLog("SEND", fmt.Sprintf("tool response (%d functions)", len(resp.FunctionResponses)))
}

// sendChunk is the scheduler's drain target.
func (c *Client) sendChunk(chunk RealtimeChunk) {
	if err := c.transport.SendRealtimeInput(chunk); err != nil {
		c.coalescer.EnqueueLog("SEND", chunk.Kind().String()+" chunk send failed: "+err.Error())
	}
}

// handleOpen runs when the transport session opens: fresh session, fresh
// buffers.
func (c *Client) handleOpen() {
	c.mu.Lock()
	c.status = StatusConnected
	id := c.connID
	c.mu.Unlock()

	c.clearBuffers()
	c.coalescer.EnqueueLog("SESSION", "open ("+id+")")
	c.emit(&OpenEvent{})
}

func (c *Client) handleError(err error) {
	c.mu.Lock()
	c.status = StatusDisconnected
	c.mu.Unlock()

	c.clearBuffers()
	msg := "transport error"
	if err != nil {
		msg = err.Error()
	}
	c.coalescer.EnqueueLog("SESSION", "error: "+msg)
	c.emit(&ErrorEvent{Code: "transport_error", Message: msg})
}

func (c *Client) handleClose(code int, reason string) {
	c.mu.Lock()
	c.status = StatusDisconnected
	c.mu.Unlock()

	c.clearBuffers()
	c.coalescer.EnqueueLog("SESSION", fmt.Sprintf("close (code=%d reason=%q)", code, reason))
	c.emit(&CloseEvent{Code: code, Reason: reason})
}

// clearBuffers resets every owned component. Idempotent; called on every
// open, error, and close transition so nothing leaks across sessions.
func (c *Client) clearBuffers() {
	c.playback.Clear()
	c.scheduler.Clear()
	c.coalescer.Clear()
}

func (c *Client) emitTranscript(kind TranscriptKind, t Transcript) {
	if kind == TranscriptOutput {
		c.emit(&OutputTranscriptEvent{Text: t.Text, Final: t.Final})
		return
	}
	c.emit(&InputTranscriptEvent{Text: t.Text, Final: t.Final})
}

// emit sends an event to the events channel without blocking.
func (c *Client) emit(event Event) {
	select {
	case c.events <- event:
	default:
		// Channel full, drop event.
	}
}

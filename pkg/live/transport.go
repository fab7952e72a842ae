package live

import "context"

// TransportCallbacks are the lifecycle hooks a Transport invokes for one
// session. OnMessage receives raw wire payloads; decoding belongs to the
// client, not the transport. A Transport must invoke OnClose exactly once
// per successfully connected session, and never invokes callbacks
// concurrently with one another.
type TransportCallbacks struct {
	OnOpen    func()
	OnMessage func(data []byte)
	OnError   func(err error)
	OnClose   func(code int, reason string)
}

// Transport is the duplex channel to the live endpoint. Implementations
// own connection mechanics (dialing, framing, keepalive); the client owns
// everything above that.
type Transport interface {
	// Connect establishes a session, sends the setup configuration, and
	// wires the callbacks. On error no callbacks fire and no session
	// exists.
	Connect(ctx context.Context, setup SetupConfig, cb TransportCallbacks) error

	// Disconnect closes the active session, triggering OnClose.
	Disconnect() error

	// SendRealtimeInput sends one captured media chunk.
	SendRealtimeInput(chunk RealtimeChunk) error

	// SendClientContent sends discrete conversational turns.
	SendClientContent(turns []Content, turnComplete bool) error

	// SendToolResponse returns function results to the endpoint.
	SendToolResponse(resp ToolResponse) error

	// IsConnected reports whether a session is currently open.
	IsConnected() bool
}

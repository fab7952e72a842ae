package live

import "time"

// Event is the interface for all client events.
type Event interface {
	// EventType returns the event type string for serialization.
	EventType() string
}

// OpenEvent is emitted when the transport session opens.
type OpenEvent struct{}

func (e *OpenEvent) EventType() string { return "open" }

// CloseEvent is emitted when the transport session closes.
type CloseEvent struct {
	Code   int    `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (e *CloseEvent) EventType() string { return "close" }

// ErrorEvent is emitted when the session fails.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorEvent) EventType() string { return "error" }

// AudioEvent carries one decoded PCM chunk for the playback sink. Chunks
// are emitted at a steady cadence by the jitter buffer.
type AudioEvent struct {
	Data []byte `json:"data"`
}

func (e *AudioEvent) EventType() string { return "audio" }

// ContentEvent carries model output with inline audio parts stripped.
type ContentEvent struct {
	Content *ServerContent `json:"content"`
}

func (e *ContentEvent) EventType() string { return "content" }

// InterruptedEvent is emitted when the server interrupts the current turn.
// Queued playback audio has already been discarded when this fires.
type InterruptedEvent struct{}

func (e *InterruptedEvent) EventType() string { return "interrupted" }

// TurnCompleteEvent is emitted when the server finishes a turn.
type TurnCompleteEvent struct{}

func (e *TurnCompleteEvent) EventType() string { return "turncomplete" }

// SetupCompleteEvent is emitted when the server acknowledges session setup.
type SetupCompleteEvent struct{}

func (e *SetupCompleteEvent) EventType() string { return "setupcomplete" }

// ToolCallEvent is emitted when the server requests tool execution.
type ToolCallEvent struct {
	Call *ToolCall `json:"call"`
}

func (e *ToolCallEvent) EventType() string { return "toolcall" }

// ToolCallCancellationEvent is emitted when the server cancels tool calls.
type ToolCallCancellationEvent struct {
	Cancellation *ToolCallCancellation `json:"cancellation"`
}

func (e *ToolCallCancellationEvent) EventType() string { return "toolcallcancellation" }

// InputTranscriptEvent carries the latest coalesced user-speech transcript.
type InputTranscriptEvent struct {
	Text  string `json:"text"`
	Final bool   `json:"final,omitempty"`
}

func (e *InputTranscriptEvent) EventType() string { return "inputTranscript" }

// OutputTranscriptEvent carries the latest coalesced model-speech transcript.
type OutputTranscriptEvent struct {
	Text  string `json:"text"`
	Final bool   `json:"final,omitempty"`
}

func (e *OutputTranscriptEvent) EventType() string { return "outputTranscript" }

// LogEntry is one diagnostic record.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"` // SESSION, SEND, RECV, AUDIO, TRANSCRIPT
	Message   string    `json:"message"`
}

// LogBatchEvent carries a coalesced batch of log entries in enqueue order.
type LogBatchEvent struct {
	Entries []LogEntry `json:"entries"`
}

func (e *LogBatchEvent) EventType() string { return "log" }

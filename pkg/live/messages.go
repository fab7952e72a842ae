package live

import "strings"

// SetupConfig is the session configuration sent to the live endpoint when
// a connection is established.
type SetupConfig struct {
	// Model is the live model to talk to.
	Model string `json:"model"`

	// System is the system instruction for the session.
	System string `json:"system,omitempty"`

	// Voice selects the output voice, when the endpoint supports it.
	Voice string `json:"voice,omitempty"`

	// Tools are function declarations the model may call.
	Tools []ToolDeclaration `json:"tools,omitempty"`
}

// ToolDeclaration describes one callable function exposed to the model.
type ToolDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// ChunkKind classifies a realtime media chunk.
type ChunkKind int

const (
	// ChunkOther is any chunk that is neither audio nor video. These are
	// sent immediately, bypassing the scheduler queues.
	ChunkOther ChunkKind = iota
	// ChunkAudio is a PCM audio chunk, queued FIFO by the scheduler.
	ChunkAudio
	// ChunkVideo is a still video frame; only the latest pending frame is
	// kept by the scheduler.
	ChunkVideo
)

// String returns a human-readable kind name.
func (k ChunkKind) String() string {
	switch k {
	case ChunkAudio:
		return "audio"
	case ChunkVideo:
		return "video"
	default:
		return "other"
	}
}

// RealtimeChunk is one locally captured media chunk headed for the live
// endpoint. Data is base64-encoded payload bytes.
type RealtimeChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Kind classifies the chunk by its MIME type: audio/* is audio, image/*
// is a video frame, anything else is other.
func (c RealtimeChunk) Kind() ChunkKind {
	switch {
	case strings.HasPrefix(c.MIMEType, "audio/"):
		return ChunkAudio
	case strings.HasPrefix(c.MIMEType, "image/"):
		return ChunkVideo
	default:
		return ChunkOther
	}
}

// Content is one conversational turn: a role plus an ordered list of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is one piece of a turn: either text or inline binary data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// IsInlineAudio reports whether the part carries inline audio payload.
func (p Part) IsInlineAudio() bool {
	return p.InlineData != nil && strings.HasPrefix(p.InlineData.MIMEType, "audio/")
}

// InlineData is base64-encoded binary payload with a MIME type.
type InlineData struct {
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// ServerMessage is the envelope for everything the live endpoint sends.
// Exactly one of the pointer fields is expected to be set; messages where
// none is set are ignored.
type ServerMessage struct {
	SetupComplete        *SetupComplete        `json:"setupComplete,omitempty"`
	ToolCall             *ToolCall             `json:"toolCall,omitempty"`
	ToolCallCancellation *ToolCallCancellation `json:"toolCallCancellation,omitempty"`
	ServerContent        *ServerContent        `json:"serverContent,omitempty"`
}

// SetupComplete marks the end of session setup on the server side.
type SetupComplete struct{}

// ToolCall asks the client to execute one or more functions.
type ToolCall struct {
	FunctionCalls []FunctionCall `json:"functionCalls,omitempty"`
}

// FunctionCall is one requested function invocation.
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolCallCancellation cancels previously issued tool calls by ID.
type ToolCallCancellation struct {
	IDs []string `json:"ids,omitempty"`
}

// ServerContent is one unit of model output. Control flags, transcriptions,
// and a model turn may all be present on the same message.
type ServerContent struct {
	Interrupted         bool           `json:"interrupted,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
	InputTranscription  *Transcription `json:"inputTranscription,omitempty"`
	OutputTranscription *Transcription `json:"outputTranscription,omitempty"`
	ModelTurn           *Content       `json:"modelTurn,omitempty"`
}

// Transcription is a speech-to-text result, partial until Finished.
type Transcription struct {
	Text     string `json:"text"`
	Finished bool   `json:"finished,omitempty"`
}

// RealtimeInput carries captured media chunks to the endpoint.
type RealtimeInput struct {
	MediaChunks []RealtimeChunk `json:"mediaChunks"`
	Seq         int64           `json:"seq,omitempty"`
}

// ClientContent carries discrete conversational turns to the endpoint.
type ClientContent struct {
	Turns        []Content `json:"turns,omitempty"`
	TurnComplete bool      `json:"turnComplete"`
}

// ToolResponse returns function results to the endpoint.
type ToolResponse struct {
	FunctionResponses []FunctionResponse `json:"functionResponses,omitempty"`
}

// FunctionResponse is the result of one function invocation.
type FunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name,omitempty"`
	Response map[string]any `json:"response,omitempty"`
}

// ClientMessage is the envelope for everything the client sends.
type ClientMessage struct {
	Setup         *SetupConfig   `json:"setup,omitempty"`
	RealtimeInput *RealtimeInput `json:"realtimeInput,omitempty"`
	ClientContent *ClientContent `json:"clientContent,omitempty"`
	ToolResponse  *ToolResponse  `json:"toolResponse,omitempty"`
}

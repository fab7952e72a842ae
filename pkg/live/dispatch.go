package live

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// dispatcher classifies inbound server messages and routes them: inline
// audio goes to the playback buffer, transcripts to the coalescer, and
// everything else to the event channel. It is a superset filter, not a
// schema validator; shapes it does not recognize are ignored.
type dispatcher struct {
	playback  *PlaybackBuffer
	coalescer *EventCoalescer
	emit      func(Event)
}

// HandleRaw decodes one wire payload and dispatches it. Undecodable
// payloads are logged and dropped.
func (d *dispatcher) HandleRaw(data []byte) {
	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		d.log("RECV", "dropping undecodable server message: "+err.Error())
		return
	}
	d.Handle(&msg)
}

// Handle routes one decoded server message. Dispatch order matches the
// wire contract: setup, tool call, cancellation, then content. Content
// flags and payloads on the same message are processed together, except
// that an interruption preempts everything else.
func (d *dispatcher) Handle(msg *ServerMessage) {
	if msg == nil {
		return
	}
	switch {
	case msg.SetupComplete != nil:
		d.log("RECV", "setup complete")
		d.emit(&SetupCompleteEvent{})
	case msg.ToolCall != nil:
		d.log("RECV", fmt.Sprintf("tool call (%d functions)", len(msg.ToolCall.FunctionCalls)))
		d.emit(&ToolCallEvent{Call: msg.ToolCall})
	case msg.ToolCallCancellation != nil:
		d.log("RECV", fmt.Sprintf("tool call cancellation (%d ids)", len(msg.ToolCallCancellation.IDs)))
		d.emit(&ToolCallCancellationEvent{Cancellation: msg.ToolCallCancellation})
	case msg.ServerContent != nil:
		d.handleContent(msg.ServerContent)
	}
}

func (d *dispatcher) handleContent(sc *ServerContent) {
	if sc.Interrupted {
		d.playback.Clear()
		d.log("RECV", "interrupted")
		d.emit(&InterruptedEvent{})
		return
	}
	if sc.TurnComplete {
		d.log("RECV", "turn complete")
		d.emit(&TurnCompleteEvent{})
		// Transcriptions may ride the same message; keep going.
	}
	if t := sc.InputTranscription; t != nil && t.Text != "" {
		d.coalescer.EnqueueTranscript(TranscriptInput, Transcript{Text: t.Text, Final: t.Finished})
	}
	if t := sc.OutputTranscription; t != nil && t.Text != "" {
		d.coalescer.EnqueueTranscript(TranscriptOutput, Transcript{Text: t.Text, Final: t.Finished})
	}
	if sc.ModelTurn != nil && len(sc.ModelTurn.Parts) > 0 {
		d.handleModelTurn(sc)
	}
}

// handleModelTurn splits inline audio out of a model turn. Audio payloads
// feed the playback buffer; any remaining parts are re-emitted as a
// reduced content message. A turn that was all audio produces no content
// event.
func (d *dispatcher) handleModelTurn(sc *ServerContent) {
	var rest []Part
	for _, part := range sc.ModelTurn.Parts {
		if !part.IsInlineAudio() {
			rest = append(rest, part)
			continue
		}
		pcm, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			d.log("RECV", "dropping audio part with invalid payload: "+err.Error())
			continue
		}
		d.playback.Push(pcm)
	}
	if len(rest) == 0 {
		return
	}

	reduced := &ServerContent{
		TurnComplete:        sc.TurnComplete,
		InputTranscription:  sc.InputTranscription,
		OutputTranscription: sc.OutputTranscription,
		ModelTurn: &Content{
			Role:  sc.ModelTurn.Role,
			Parts: rest,
		},
	}
	d.log("RECV", fmt.Sprintf("content (%d parts)", len(rest)))
	d.emit(&ContentEvent{Content: reduced})
}

func (d *dispatcher) log(category, message string) {
	d.coalescer.EnqueueLog(category, message)
}

package live

import (
	"fmt"
	"sync"
)

// TranscriptKind tags a transcript as user or model speech.
type TranscriptKind int

const (
	// TranscriptInput is a transcription of the user's speech.
	TranscriptInput TranscriptKind = iota
	// TranscriptOutput is a transcription of the model's speech.
	TranscriptOutput
)

// String returns a human-readable kind name.
func (k TranscriptKind) String() string {
	if k == TranscriptOutput {
		return "output"
	}
	return "input"
}

// Transcript is one coalesced transcription update.
type Transcript struct {
	Text  string `json:"text"`
	Final bool   `json:"final,omitempty"`
}

// EventCoalescer keeps high-frequency diagnostics from flooding observers.
// Log entries accumulate and flush as an ordered batch; transcript updates
// coalesce to the latest value per kind, since a newer partial supersedes
// an older one by definition.
type EventCoalescer struct {
	cfg   CoalescerConfig
	clock Clock

	mu              sync.Mutex
	pendingLogs     []LogEntry
	logTimer        Timer
	pendingInput    *Transcript
	pendingOutput   *Transcript
	transcriptTimer Timer

	onLogs       func(batch []LogEntry)
	onTranscript func(kind TranscriptKind, t Transcript)
}

func newEventCoalescer(cfg CoalescerConfig, clock Clock, onLogs func([]LogEntry), onTranscript func(TranscriptKind, Transcript)) *EventCoalescer {
	if clock == nil {
		clock = SystemClock()
	}
	return &EventCoalescer{
		cfg:          cfg,
		clock:        clock,
		onLogs:       onLogs,
		onTranscript: onTranscript,
	}
}

// EnqueueLog appends a log entry to the pending batch and schedules a
// flush if none is pending.
func (c *EventCoalescer) EnqueueLog(category, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingLogs = append(c.pendingLogs, LogEntry{
		Timestamp: c.clock.Now(),
		Category:  category,
		Message:   message,
	})
	if c.logTimer == nil {
		c.logTimer = c.clock.AfterFunc(c.cfg.LogWindow, c.flushLogs)
	}
}

// EnqueueTranscript records a transcript update, overwriting any pending
// update of the same kind, and schedules a flush if none is pending.
// Final transcripts are also logged at enqueue time for audit purposes.
func (c *EventCoalescer) EnqueueTranscript(kind TranscriptKind, t Transcript) {
	c.mu.Lock()
	switch kind {
	case TranscriptOutput:
		c.pendingOutput = &t
	default:
		c.pendingInput = &t
	}
	if c.transcriptTimer == nil {
		c.transcriptTimer = c.clock.AfterFunc(c.cfg.TranscriptWindow, c.flushTranscripts)
	}
	c.mu.Unlock()

	if t.Final {
		c.EnqueueLog("TRANSCRIPT", fmt.Sprintf("%s final: %s", kind, t.Text))
	}
}

// Clear cancels pending flushes and discards all pending state. Safe to
// call at any time.
func (c *EventCoalescer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.logTimer != nil {
		c.logTimer.Stop()
		c.logTimer = nil
	}
	if c.transcriptTimer != nil {
		c.transcriptTimer.Stop()
		c.transcriptTimer = nil
	}
	c.pendingLogs = nil
	c.pendingInput = nil
	c.pendingOutput = nil
}

func (c *EventCoalescer) flushLogs() {
	c.mu.Lock()
	batch := c.pendingLogs
	c.pendingLogs = nil
	c.logTimer = nil
	emit := c.onLogs
	c.mu.Unlock()

	if len(batch) > 0 && emit != nil {
		emit(batch)
	}
}

func (c *EventCoalescer) flushTranscripts() {
	c.mu.Lock()
	in := c.pendingInput
	out := c.pendingOutput
	c.pendingInput = nil
	c.pendingOutput = nil
	c.transcriptTimer = nil
	emit := c.onTranscript
	c.mu.Unlock()

	if emit == nil {
		return
	}
	if in != nil {
		emit(TranscriptInput, *in)
	}
	if out != nil {
		emit(TranscriptOutput, *out)
	}
}

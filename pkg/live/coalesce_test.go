package live

import (
	"strings"
	"testing"
	"time"
)

type coalescerRecorder struct {
	batches     [][]LogEntry
	transcripts []struct {
		kind TranscriptKind
		t    Transcript
	}
}

func newTestCoalescer(clk *manualClock) (*EventCoalescer, *coalescerRecorder) {
	rec := &coalescerRecorder{}
	c := newEventCoalescer(DefaultCoalescerConfig(), clk, func(batch []LogEntry) {
		rec.batches = append(rec.batches, batch)
	}, func(kind TranscriptKind, t Transcript) {
		rec.transcripts = append(rec.transcripts, struct {
			kind TranscriptKind
			t    Transcript
		}{kind, t})
	})
	return c, rec
}

func TestEventCoalescer_LogsBatchInOrder(t *testing.T) {
	clk := newManualClock()
	c, rec := newTestCoalescer(clk)

	c.EnqueueLog("WS", "first")
	c.EnqueueLog("AUDIO", "second")
	c.EnqueueLog("WS", "third")

	clk.Advance(50 * time.Millisecond)
	if len(rec.batches) != 0 {
		t.Fatalf("flushed %d batches before window elapsed, want 0", len(rec.batches))
	}

	clk.Advance(50 * time.Millisecond)
	if len(rec.batches) != 1 {
		t.Fatalf("flushed %d batches, want 1", len(rec.batches))
	}
	batch := rec.batches[0]
	if len(batch) != 3 {
		t.Fatalf("batch has %d entries, want 3", len(batch))
	}
	for i, want := range []string{"first", "second", "third"} {
		if batch[i].Message != want {
			t.Errorf("batch[%d].Message = %q, want %q", i, batch[i].Message, want)
		}
	}

	// A later entry opens a fresh window and a fresh batch.
	c.EnqueueLog("WS", "fourth")
	clk.Advance(100 * time.Millisecond)
	if len(rec.batches) != 2 || len(rec.batches[1]) != 1 {
		t.Fatalf("second flush = %v, want one batch of one entry", rec.batches[1:])
	}
}

func TestEventCoalescer_TranscriptLatestWinsPerKind(t *testing.T) {
	clk := newManualClock()
	c, rec := newTestCoalescer(clk)

	c.EnqueueTranscript(TranscriptInput, Transcript{Text: "hel"})
	c.EnqueueTranscript(TranscriptInput, Transcript{Text: "hello"})
	c.EnqueueTranscript(TranscriptOutput, Transcript{Text: "hi there", Final: true})

	clk.Advance(50 * time.Millisecond)
	if len(rec.transcripts) != 2 {
		t.Fatalf("flushed %d transcripts, want 2", len(rec.transcripts))
	}
	if rec.transcripts[0].kind != TranscriptInput || rec.transcripts[0].t.Text != "hello" {
		t.Errorf("input transcript = %+v, want latest text %q", rec.transcripts[0].t, "hello")
	}
	if rec.transcripts[1].kind != TranscriptOutput || !rec.transcripts[1].t.Final {
		t.Errorf("output transcript = %+v, want final %q", rec.transcripts[1].t, "hi there")
	}

	// Final transcripts are also logged; the log window is longer, so the
	// batch lands later.
	clk.Advance(50 * time.Millisecond)
	if len(rec.batches) != 1 {
		t.Fatalf("flushed %d log batches, want 1", len(rec.batches))
	}
	entry := rec.batches[0][0]
	if entry.Category != "TRANSCRIPT" || !strings.Contains(entry.Message, "hi there") {
		t.Errorf("final transcript log = %+v, want TRANSCRIPT entry mentioning text", entry)
	}
}

func TestEventCoalescer_ClearCancelsPendingFlushes(t *testing.T) {
	clk := newManualClock()
	c, rec := newTestCoalescer(clk)

	c.EnqueueLog("WS", "doomed")
	c.EnqueueTranscript(TranscriptInput, Transcript{Text: "doomed"})
	c.Clear()
	c.Clear()

	clk.Advance(time.Second)
	if len(rec.batches) != 0 || len(rec.transcripts) != 0 {
		t.Fatalf("flushed after Clear: batches=%d transcripts=%d, want 0/0",
			len(rec.batches), len(rec.transcripts))
	}

	// The coalescer keeps working after Clear.
	c.EnqueueLog("WS", "alive")
	clk.Advance(100 * time.Millisecond)
	if len(rec.batches) != 1 {
		t.Fatalf("flushed %d batches after Clear+Enqueue, want 1", len(rec.batches))
	}
}

package live

import (
	"testing"
	"time"
)

func audioChunk(data string) RealtimeChunk {
	return RealtimeChunk{MIMEType: "audio/pcm;rate=16000", Data: data}
}

func videoChunk(data string) RealtimeChunk {
	return RealtimeChunk{MIMEType: "image/jpeg", Data: data}
}

func TestRealtimeScheduler_AudioPacedOnePerTick(t *testing.T) {
	clk := newManualClock()
	var sent []RealtimeChunk
	s := newRealtimeScheduler(DefaultSchedulerConfig(), clk, func(c RealtimeChunk) {
		sent = append(sent, c)
	}, nil)

	s.Push([]RealtimeChunk{audioChunk("a1"), audioChunk("a2"), audioChunk("a3")})
	if len(sent) != 0 {
		t.Fatalf("sent %d chunks before first tick, want 0", len(sent))
	}

	clk.Advance(20 * time.Millisecond)
	if len(sent) != 1 || sent[0].Data != "a1" {
		t.Fatalf("after one tick sent = %v, want [a1]", sent)
	}
	clk.Advance(40 * time.Millisecond)
	if len(sent) != 3 {
		t.Fatalf("sent %d chunks, want 3", len(sent))
	}
	for i, want := range []string{"a1", "a2", "a3"} {
		if sent[i].Data != want {
			t.Errorf("sent[%d].Data = %q, want %q", i, sent[i].Data, want)
		}
	}

	// Queue drained: the ticker stops itself.
	clk.Advance(100 * time.Millisecond)
	if len(sent) != 3 {
		t.Fatalf("sent %d chunks after drain, want 3", len(sent))
	}
}

func TestRealtimeScheduler_VideoLatestWins(t *testing.T) {
	clk := newManualClock()
	var sent []RealtimeChunk
	s := newRealtimeScheduler(DefaultSchedulerConfig(), clk, func(c RealtimeChunk) {
		sent = append(sent, c)
	}, nil)

	s.Push([]RealtimeChunk{videoChunk("v1")})
	s.Push([]RealtimeChunk{videoChunk("v2")})
	s.Push([]RealtimeChunk{videoChunk("v3")})

	clk.Advance(20 * time.Millisecond)
	if len(sent) != 1 || sent[0].Data != "v3" {
		t.Fatalf("sent = %v, want exactly [v3]", sent)
	}
	clk.Advance(100 * time.Millisecond)
	if len(sent) != 1 {
		t.Fatalf("sent %d chunks after slot emptied, want 1", len(sent))
	}
}

func TestRealtimeScheduler_AudioAndVideoShareATick(t *testing.T) {
	clk := newManualClock()
	var sent []RealtimeChunk
	s := newRealtimeScheduler(DefaultSchedulerConfig(), clk, func(c RealtimeChunk) {
		sent = append(sent, c)
	}, nil)

	s.Push([]RealtimeChunk{audioChunk("a1"), videoChunk("v1"), audioChunk("a2")})

	clk.Advance(20 * time.Millisecond)
	if len(sent) != 2 || sent[0].Data != "a1" || sent[1].Data != "v1" {
		t.Fatalf("after first tick sent = %v, want [a1 v1]", sent)
	}
	clk.Advance(20 * time.Millisecond)
	if len(sent) != 3 || sent[2].Data != "a2" {
		t.Fatalf("after second tick sent = %v, want [a1 v1 a2]", sent)
	}
}

func TestRealtimeScheduler_NonMediaBypassesQueue(t *testing.T) {
	clk := newManualClock()
	var sent []RealtimeChunk
	s := newRealtimeScheduler(DefaultSchedulerConfig(), clk, func(c RealtimeChunk) {
		sent = append(sent, c)
	}, nil)

	s.Push([]RealtimeChunk{{MIMEType: "text/plain", Data: "hello"}})
	if len(sent) != 1 || sent[0].Data != "hello" {
		t.Fatalf("sent = %v, want immediate [hello]", sent)
	}
	if audio, video := s.Pending(); audio != 0 || video {
		t.Fatalf("Pending() = (%d, %v), want (0, false)", audio, video)
	}
}

func TestRealtimeScheduler_AudioOverflowDropsOldest(t *testing.T) {
	clk := newManualClock()
	var sent []RealtimeChunk
	cfg := SchedulerConfig{AudioCapacity: 3, TickInterval: 20 * time.Millisecond}
	s := newRealtimeScheduler(cfg, clk, func(c RealtimeChunk) {
		sent = append(sent, c)
	}, nil)

	s.Push([]RealtimeChunk{audioChunk("a1"), audioChunk("a2"), audioChunk("a3"), audioChunk("a4")})
	if audio, _ := s.Pending(); audio != 3 {
		t.Fatalf("Pending audio = %d, want 3", audio)
	}

	clk.Advance(100 * time.Millisecond)
	if len(sent) != 3 {
		t.Fatalf("sent %d chunks, want 3", len(sent))
	}
	for i, want := range []string{"a2", "a3", "a4"} {
		if sent[i].Data != want {
			t.Errorf("sent[%d].Data = %q, want %q", i, sent[i].Data, want)
		}
	}
}

func TestRealtimeScheduler_ClearDiscardsPendingWork(t *testing.T) {
	clk := newManualClock()
	var sent []RealtimeChunk
	s := newRealtimeScheduler(DefaultSchedulerConfig(), clk, func(c RealtimeChunk) {
		sent = append(sent, c)
	}, nil)

	s.Push([]RealtimeChunk{audioChunk("a1"), audioChunk("a2"), videoChunk("v1")})
	s.Clear()
	s.Clear()

	if audio, video := s.Pending(); audio != 0 || video {
		t.Fatalf("Pending() after Clear = (%d, %v), want (0, false)", audio, video)
	}
	clk.Advance(200 * time.Millisecond)
	if len(sent) != 0 {
		t.Fatalf("sent %d chunks after Clear, want 0", len(sent))
	}
}

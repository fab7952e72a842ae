package live

import (
	"fmt"
	"sync"
	"time"
)

// PlaybackBuffer absorbs network jitter on the inbound decoded-audio path.
// Chunks arrive at whatever rate the network delivers them; the buffer
// re-emits them to the playback sink at a fixed cadence once a small lead
// has accumulated, trading a little latency for gap-free playback.
//
// Draining stops itself when the queue empties and restarts when enough
// audio has accumulated again.
type PlaybackBuffer struct {
	cfg   PlaybackBufferConfig
	clock Clock

	mu       sync.Mutex
	queue    [][]byte
	draining bool
	timer    Timer

	onAudio func(pcm []byte)
	onDebug func(category, message string)
}

func newPlaybackBuffer(cfg PlaybackBufferConfig, clock Clock, onAudio func([]byte), onDebug func(category, message string)) *PlaybackBuffer {
	if clock == nil {
		clock = SystemClock()
	}
	return &PlaybackBuffer{
		cfg:     cfg,
		clock:   clock,
		onAudio: onAudio,
		onDebug: onDebug,
	}
}

// Push appends a decoded chunk. When the buffer is full the oldest chunk
// is dropped; stale audio is worthless in a live conversation, recent
// audio is not.
func (b *PlaybackBuffer) Push(pcm []byte) {
	b.mu.Lock()
	if len(b.queue) >= b.cfg.Capacity {
		b.queue = b.queue[1:]
		b.debugLocked("AUDIO", fmt.Sprintf("playback queue full (%d), dropped oldest chunk", b.cfg.Capacity))
	}
	b.queue = append(b.queue, pcm)

	if !b.draining && b.bufferedLocked() >= b.cfg.TargetLead {
		b.draining = true
		b.timer = b.clock.AfterFunc(b.cfg.DrainInterval, b.drainTick)
	}
	b.mu.Unlock()
}

// Len returns the number of queued chunks.
func (b *PlaybackBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Clear stops draining and discards all queued audio. Safe to call at any
// time, including when already empty.
func (b *PlaybackBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.draining = false
	b.queue = nil
}

// bufferedLocked estimates the buffered duration as queue length times the
// drain interval. Callers must hold b.mu.
func (b *PlaybackBuffer) bufferedLocked() time.Duration {
	return time.Duration(len(b.queue)) * b.cfg.DrainInterval
}

func (b *PlaybackBuffer) drainTick() {
	b.mu.Lock()
	if !b.draining || len(b.queue) == 0 {
		b.draining = false
		b.timer = nil
		b.mu.Unlock()
		return
	}
	chunk := b.queue[0]
	b.queue = b.queue[1:]
	if len(b.queue) > 0 {
		b.timer = b.clock.AfterFunc(b.cfg.DrainInterval, b.drainTick)
	} else {
		b.draining = false
		b.timer = nil
	}
	emit := b.onAudio
	b.mu.Unlock()

	if emit != nil {
		emit(chunk)
	}
}

func (b *PlaybackBuffer) debugLocked(category, message string) {
	if b.onDebug != nil {
		cb := b.onDebug
		go cb(category, message)
	}
}

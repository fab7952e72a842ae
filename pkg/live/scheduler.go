package live

import (
	"fmt"
	"sync"
)

// RealtimeScheduler absorbs bursty local capture and drains it to the
// transport at one steady rate. Audio is queued FIFO and rate-limited but
// never skipped; video keeps only the newest unsent frame, since a stale
// frame is superseded the moment a fresher one exists. Chunks of any other
// kind bypass scheduling entirely.
type RealtimeScheduler struct {
	cfg   SchedulerConfig
	clock Clock

	mu      sync.Mutex
	audio   []RealtimeChunk
	video   *RealtimeChunk
	running bool
	timer   Timer

	send    func(chunk RealtimeChunk)
	onDebug func(category, message string)
}

func newRealtimeScheduler(cfg SchedulerConfig, clock Clock, send func(RealtimeChunk), onDebug func(category, message string)) *RealtimeScheduler {
	if clock == nil {
		clock = SystemClock()
	}
	return &RealtimeScheduler{
		cfg:     cfg,
		clock:   clock,
		send:    send,
		onDebug: onDebug,
	}
}

// Push enqueues captured chunks and starts draining if it is not running.
// Non-media chunks are sent immediately.
func (s *RealtimeScheduler) Push(chunks []RealtimeChunk) {
	var immediate []RealtimeChunk

	s.mu.Lock()
	for _, chunk := range chunks {
		switch chunk.Kind() {
		case ChunkAudio:
			if len(s.audio) >= s.cfg.AudioCapacity {
				s.audio = s.audio[1:]
				s.debugLocked("AUDIO", fmt.Sprintf("outbound audio queue full (%d), dropped oldest chunk", s.cfg.AudioCapacity))
			}
			s.audio = append(s.audio, chunk)
		case ChunkVideo:
			frame := chunk
			s.video = &frame
		default:
			immediate = append(immediate, chunk)
		}
	}
	if !s.running && (len(s.audio) > 0 || s.video != nil) {
		s.running = true
		s.timer = s.clock.AfterFunc(s.cfg.TickInterval, s.tick)
	}
	send := s.send
	s.mu.Unlock()

	if send != nil {
		for _, chunk := range immediate {
			send(chunk)
		}
	}
}

// Pending returns the queued audio count and whether a video frame is pending.
func (s *RealtimeScheduler) Pending() (audio int, video bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.audio), s.video != nil
}

// Clear stops draining and discards the audio queue and the pending video
// frame. Safe to call at any time.
func (s *RealtimeScheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.running = false
	s.audio = nil
	s.video = nil
}

func (s *RealtimeScheduler) tick() {
	var toSend []RealtimeChunk

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	if len(s.audio) > 0 {
		toSend = append(toSend, s.audio[0])
		s.audio = s.audio[1:]
	}
	if s.video != nil {
		toSend = append(toSend, *s.video)
		s.video = nil
	}
	if len(s.audio) > 0 || s.video != nil {
		s.timer = s.clock.AfterFunc(s.cfg.TickInterval, s.tick)
	} else {
		s.running = false
		s.timer = nil
	}
	send := s.send
	s.mu.Unlock()

	if send != nil {
		for _, chunk := range toSend {
			send(chunk)
		}
	}
}

func (s *RealtimeScheduler) debugLocked(category, message string) {
	if s.onDebug != nil {
		cb := s.onDebug
		go cb(category, message)
	}
}

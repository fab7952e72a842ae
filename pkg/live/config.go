package live

import "time"

// ConnectionStatus is the lifecycle state of a Client.
type ConnectionStatus int

const (
	// StatusDisconnected means no transport session exists.
	StatusDisconnected ConnectionStatus = iota
	// StatusConnecting means a transport session is being established.
	StatusConnecting
	// StatusConnected means the transport session is open.
	StatusConnected
)

// String returns a human-readable status name.
func (s ConnectionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "DISCONNECTED"
	case StatusConnecting:
		return "CONNECTING"
	case StatusConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// PlaybackBufferConfig configures the inbound audio jitter buffer.
type PlaybackBufferConfig struct {
	// Capacity is the maximum number of queued chunks. When full, the
	// oldest chunk is dropped. Default: 200.
	Capacity int

	// DrainInterval is the period between chunk emissions while draining.
	// Default: 20ms.
	DrainInterval time.Duration

	// TargetLead is the estimated buffered duration that must accumulate
	// before draining starts. The estimate is queue length times
	// DrainInterval. Default: 80ms.
	TargetLead time.Duration
}

// DefaultPlaybackBufferConfig returns a PlaybackBufferConfig with sensible defaults.
func DefaultPlaybackBufferConfig() PlaybackBufferConfig {
	return PlaybackBufferConfig{
		Capacity:      200,
		DrainInterval: 20 * time.Millisecond,
		TargetLead:    80 * time.Millisecond,
	}
}

// SchedulerConfig configures the outbound realtime scheduler.
type SchedulerConfig struct {
	// AudioCapacity is the maximum number of queued audio chunks. When
	// full, the oldest chunk is dropped. Default: 300.
	AudioCapacity int

	// TickInterval is the period between drain ticks. Each tick sends at
	// most one audio chunk plus the latest pending video frame.
	// Default: 20ms.
	TickInterval time.Duration
}

// DefaultSchedulerConfig returns a SchedulerConfig with sensible defaults.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		AudioCapacity: 300,
		TickInterval:  20 * time.Millisecond,
	}
}

// CoalescerConfig configures the event coalescer.
type CoalescerConfig struct {
	// LogWindow is how long log entries accumulate before a batch is
	// emitted. Default: 100ms.
	LogWindow time.Duration

	// TranscriptWindow is how long transcript updates coalesce before the
	// latest value per kind is emitted. Default: 50ms.
	TranscriptWindow time.Duration
}

// DefaultCoalescerConfig returns a CoalescerConfig with sensible defaults.
func DefaultCoalescerConfig() CoalescerConfig {
	return CoalescerConfig{
		LogWindow:        100 * time.Millisecond,
		TranscriptWindow: 50 * time.Millisecond,
	}
}

// Config holds all configuration for a Client.
type Config struct {
	// Playback configures the inbound audio jitter buffer.
	Playback PlaybackBufferConfig

	// Scheduler configures the outbound realtime scheduler.
	Scheduler SchedulerConfig

	// Coalescer configures log and transcript coalescing.
	Coalescer CoalescerConfig

	// EventBuffer is the capacity of the Events channel. Default: 256.
	EventBuffer int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Playback:    DefaultPlaybackBufferConfig(),
		Scheduler:   DefaultSchedulerConfig(),
		Coalescer:   DefaultCoalescerConfig(),
		EventBuffer: 256,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Playback.Capacity <= 0 {
		c.Playback.Capacity = d.Playback.Capacity
	}
	if c.Playback.DrainInterval <= 0 {
		c.Playback.DrainInterval = d.Playback.DrainInterval
	}
	if c.Playback.TargetLead <= 0 {
		c.Playback.TargetLead = d.Playback.TargetLead
	}
	if c.Scheduler.AudioCapacity <= 0 {
		c.Scheduler.AudioCapacity = d.Scheduler.AudioCapacity
	}
	if c.Scheduler.TickInterval <= 0 {
		c.Scheduler.TickInterval = d.Scheduler.TickInterval
	}
	if c.Coalescer.LogWindow <= 0 {
		c.Coalescer.LogWindow = d.Coalescer.LogWindow
	}
	if c.Coalescer.TranscriptWindow <= 0 {
		c.Coalescer.TranscriptWindow = d.Coalescer.TranscriptWindow
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = d.EventBuffer
	}
	return c
}

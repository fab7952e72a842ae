// Package live implements the real-time streaming client that sits between
// a bidirectional live-model session and local audio/video I/O.
//
// The transport, capture devices, playback, and UI are all external
// collaborators; this package owns the timing-sensitive middle: smoothing
// inbound audio, pacing outbound media, coalescing chatty diagnostics, and
// classifying the server's message stream.
//
// # Architecture
//
//   - Client: connection lifecycle state machine and the only public object
//   - PlaybackBuffer: inbound audio jitter buffer with steady-cadence drain
//   - RealtimeScheduler: outbound audio/video pacing with type-aware backpressure
//   - EventCoalescer: batched logs and latest-wins transcript updates
//   - dispatcher: classifies server messages and routes them
//
// # Data Flow
//
//	Capture → Client.SendRealtimeInput → RealtimeScheduler → Transport
//	Transport → dispatcher → { audio → PlaybackBuffer → AudioEvent
//	                         ; everything else → EventCoalescer / Events }
//
// # Usage
//
//	transport := wsrt.New(wsrt.Options{URL: endpoint, APIKey: key})
//	client := live.NewClient(transport, live.DefaultConfig(), nil)
//
//	ok, err := client.Connect(ctx, live.SetupConfig{Model: "tutor-live-2"})
//	if err != nil || !ok {
//	    // handle
//	}
//
//	for event := range client.Events() {
//	    switch e := event.(type) {
//	    case *live.AudioEvent:
//	        speaker.Write(e.Data)
//	    case *live.InterruptedEvent:
//	        speaker.Flush()
//	    }
//	}
//
// All buffers are cleared on every open, error, and close transition, so
// no audio or diagnostics leak across session boundaries.
package live

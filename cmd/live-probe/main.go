// Command live-probe is an interactive harness for the live streaming
// client. It connects to a live endpoint, optionally streams a raw
// pcm_s16le audio file as microphone input, and plays model audio through
// ffplay while printing transcripts and diagnostics.
//
// Usage:
//
//	live-probe -url wss://host/v1/live -audio-file question.pcm
//
// The API key is read from -api-key or the LIVE_API_KEY environment
// variable (a .env file in the working directory is honored).
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Calicanx/aitutor-sub000/internal/dotenv"
	"github.com/Calicanx/aitutor-sub000/pkg/live"
	"github.com/Calicanx/aitutor-sub000/pkg/live/wsrt"
)

const (
	micSampleRateHz     = 16000
	speakerSampleRateHz = 24000
	micFrameDuration    = 20 * time.Millisecond
	// 16kHz mono s16le at 20ms per frame.
	micFrameBytes = micSampleRateHz * 2 * 20 / 1000
)

type options struct {
	url       string
	apiKey    string
	model     string
	system    string
	voice     string
	audioFile string
	noSpeaker bool
	ffplay    string
	volume    int
	debug     bool
}

func main() {
	os.Exit(run())
}

func run() int {
	_ = dotenv.LoadFile(".env")

	var opt options
	flag.StringVar(&opt.url, "url", strings.TrimSpace(os.Getenv("LIVE_URL")), "Live websocket endpoint (ws(s)://...); required")
	flag.StringVar(&opt.apiKey, "api-key", strings.TrimSpace(os.Getenv("LIVE_API_KEY")), "API key (also reads LIVE_API_KEY)")
	flag.StringVar(&opt.model, "model", "live-tutor-1", "Model to request")
	flag.StringVar(&opt.system, "system", "You are a patient math tutor.", "System instruction")
	flag.StringVar(&opt.voice, "voice", "", "Output voice (endpoint-specific; optional)")
	flag.StringVar(&opt.audioFile, "audio-file", "", "Raw pcm_s16le@16kHz mono file streamed as mic input (optional)")
	flag.BoolVar(&opt.noSpeaker, "no-speaker", false, "Do not spawn ffplay; discard model audio")
	flag.StringVar(&opt.ffplay, "ffplay-path", "ffplay", "Path to ffplay executable")
	flag.IntVar(&opt.volume, "volume", 80, "ffplay volume, 0-100")
	flag.BoolVar(&opt.debug, "debug", false, "Enable debug logging (includes coalesced client diagnostics)")
	flag.Parse()

	level := slog.LevelInfo
	if opt.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if opt.url == "" {
		fmt.Fprintln(os.Stderr, "live-probe: -url is required (or set LIVE_URL)")
		flag.Usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport := wsrt.New(wsrt.Options{
		URL:    opt.url,
		APIKey: opt.apiKey,
		Logger: logger,
	})
	client := live.NewClient(transport, live.Config{}, nil)

	var spk *speaker
	if !opt.noSpeaker {
		spk = newSpeaker(opt.ffplay, speakerSampleRateHz, opt.volume)
		if err := spk.Start(); err != nil {
			logger.Warn("speaker unavailable, continuing without audio output", "error", err)
			spk = nil
		} else {
			defer spk.Close()
		}
	}

	setup := live.SetupConfig{
		Model:  opt.model,
		System: opt.system,
		Voice:  opt.voice,
	}
	if _, err := client.Connect(ctx, setup); err != nil {
		logger.Error("connect failed", "error", err)
		return 1
	}
	logger.Info("connected", "url", opt.url, "session", client.ConnectionID())

	if opt.audioFile != "" {
		go streamAudioFile(ctx, client, opt.audioFile, logger)
	}

	go func() {
		<-ctx.Done()
		client.Disconnect()
	}()

	return eventLoop(client, spk, logger)
}

// eventLoop consumes client events until the session closes.
func eventLoop(client *live.Client, spk *speaker, logger *slog.Logger) int {
	for event := range client.Events() {
		switch e := event.(type) {
		case *live.OpenEvent:
			logger.Info("session open")
		case *live.SetupCompleteEvent:
			logger.Info("setup complete")
		case *live.AudioEvent:
			if spk != nil {
				if err := spk.Write(e.Data); err != nil {
					logger.Warn("speaker write failed", "error", err)
				}
			}
		case *live.InterruptedEvent:
			logger.Info("interrupted, flushing speaker")
			if spk != nil {
				if err := spk.Flush(); err != nil {
					logger.Warn("speaker flush failed", "error", err)
				}
			}
		case *live.TurnCompleteEvent:
			logger.Info("turn complete")
		case *live.InputTranscriptEvent:
			printTranscript("you", e.Text, e.Final)
		case *live.OutputTranscriptEvent:
			printTranscript("tutor", e.Text, e.Final)
		case *live.ContentEvent:
			for _, part := range e.Content.ModelTurn.Parts {
				if part.Text != "" {
					fmt.Printf("[tutor text] %s\n", part.Text)
				}
			}
		case *live.ToolCallEvent:
			respondToolCall(client, e.Call, logger)
		case *live.ToolCallCancellationEvent:
			logger.Info("tool calls cancelled", "ids", e.Cancellation.IDs)
		case *live.LogBatchEvent:
			for _, entry := range e.Entries {
				logger.Debug("client", "category", entry.Category, "message", entry.Message)
			}
		case *live.ErrorEvent:
			logger.Error("session error", "code", e.Code, "message", e.Message)
		case *live.CloseEvent:
			logger.Info("session closed", "code", e.Code, "reason", e.Reason)
			return 0
		}
	}
	return 0
}

// respondToolCall acknowledges every requested function with a canned
// result so tool-capable sessions keep moving during manual testing.
func respondToolCall(client *live.Client, call *live.ToolCall, logger *slog.Logger) {
	resp := live.ToolResponse{}
	for _, fc := range call.FunctionCalls {
		logger.Info("tool call", "id", fc.ID, "name", fc.Name)
		resp.FunctionResponses = append(resp.FunctionResponses, live.FunctionResponse{
			ID:       fc.ID,
			Name:     fc.Name,
			Response: map[string]any{"result": "ok"},
		})
	}
	client.SendToolResponse(resp)
}

// streamAudioFile feeds a raw PCM file to the client one 20ms frame at a
// time, mimicking live microphone capture.
func streamAudioFile(ctx context.Context, client *live.Client, path string, logger *slog.Logger) {
	f, err := os.Open(path)
	if err != nil {
		logger.Error("open audio file", "path", path, "error", err)
		return
	}
	defer f.Close()

	ticker := time.NewTicker(micFrameDuration)
	defer ticker.Stop()

	frame := make([]byte, micFrameBytes)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		n, err := io.ReadFull(f, frame)
		if n > 0 {
			client.SendRealtimeInput([]live.RealtimeChunk{{
				MIMEType: fmt.Sprintf("audio/pcm;rate=%d", micSampleRateHz),
				Data:     base64.StdEncoding.EncodeToString(frame[:n]),
			}})
		}
		if err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				logger.Error("read audio file", "error", err)
			}
			logger.Info("audio file streamed", "path", path)
			return
		}
	}
}

func printTranscript(who, text string, final bool) {
	marker := "…"
	if final {
		marker = ""
	}
	fmt.Printf("[%s] %s%s\n", who, text, marker)
}

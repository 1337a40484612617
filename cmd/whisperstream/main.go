// Command whisperstream runs the streaming speech-to-text TCP server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hubenschmidt/whisperstream/internal/config"
	"github.com/hubenschmidt/whisperstream/internal/metrics"
	"github.com/hubenschmidt/whisperstream/internal/recognizer"
	"github.com/hubenschmidt/whisperstream/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})))

	if cfg.MinChunkExceedsTrimWindow() {
		slog.Warn("min_chunk_size exceeds the segment trim window; first transcript may be delayed",
			"min_chunk_size", cfg.MinChunkSize)
	}

	rec, closeRec, err := buildRecognizer(cfg)
	if err != nil {
		slog.Error("recognizer init failed", "error", err)
		os.Exit(1)
	}
	if closeRec != nil {
		defer closeRec()
	}

	metricsCtx, cancelMetrics := context.WithCancel(context.Background())
	defer cancelMetrics()
	go metrics.Serve(metricsCtx, cfg.MetricsAddr)

	srv := server.New(server.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		MinChunkSize:       cfg.MinChunkSize,
		PacketSizeBytes:    cfg.PacketSizeBytes,
		PadPackets:         cfg.PadPackets,
		MaxSingleRecvBytes: cfg.MaxSingleRecvBytes,
		Backend:            cfg.Backend,
		Language:           cfg.Lan,
		Task:               cfg.Task,
		Recognizer:         rec,
	})

	if err := srv.Run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// buildRecognizer constructs every backend the config makes available and
// dispatches to cfg.Backend through a generic Router, so backend selection
// goes through the same map+fallback+lookup mechanism as the rest of the
// recognizer package rather than a one-off switch.
func buildRecognizer(cfg config.Config) (recognizer.Recognizer, func() error, error) {
	backends := map[string]recognizer.Recognizer{
		"stub": recognizer.NewStub(),
	}
	var closeNative func() error

	if cfg.WhisperServerURL != "" {
		backends["httpserver"] = recognizer.NewHTTPServer(cfg.WhisperServerURL, cfg.Lan)
	}
	if cfg.WhisperModelPath != "" {
		native, err := recognizer.NewNative(cfg.WhisperModelPath, cfg.Lan)
		if err != nil {
			return nil, nil, err
		}
		backends["native"] = native
		closeNative = native.Close
	}

	router := recognizer.NewRouter(backends, cfg.Backend)
	rec, err := router.Route(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	return rec, closeNative, nil
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

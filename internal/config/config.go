// Package config loads server configuration from environment variables,
// matching the env-var-with-typed-fallback pattern used throughout this
// codebase.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything needed to start the server.
type Config struct {
	Host         string
	Port         string
	MinChunkSize float64
	Model        string
	Lan          string
	Task         string
	Backend      string
	SamplingRate int
	LogLevel     string

	MaxSingleRecvBytes int
	PacketSizeBytes    int
	PadPackets         bool

	MetricsAddr      string
	WhisperServerURL string
	WhisperModelPath string
}

// segmentTrimSec mirrors stream.segmentTrimSec; duplicated here only for
// the startup sanity check, since config must not import stream.
const segmentTrimSec = 15.0

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (Config, error) {
	c := Config{
		Host:         envStr("HOST", "localhost"),
		Port:         envStr("PORT", "3000"),
		MinChunkSize: envFloat("MIN_CHUNK_SIZE", 1.0),
		Model:        envStr("MODEL", "base"),
		Lan:          envStr("LAN", "auto"),
		Task:         envStr("TASK", "transcribe"),
		Backend:      envStr("BACKEND", "native"),
		SamplingRate: envInt("SAMPLING_RATE", 16000),
		LogLevel:     envStr("LOG_LEVEL", "info"),

		MaxSingleRecvBytes: envInt("MAX_SINGLE_RECV_BYTES", 5*1024*1024),
		PacketSizeBytes:    envInt("PACKET_SIZE_BYTES", 65536),
		PadPackets:         envBool("PAD_PACKETS", false),

		MetricsAddr:      envStr("METRICS_ADDR", ":9090"),
		WhisperServerURL: envStr("WHISPER_SERVER_URL", ""),
		WhisperModelPath: envStr("WHISPER_MODEL_PATH", ""),
	}

	if c.SamplingRate != 16000 {
		return Config{}, fmt.Errorf("config: sampling_rate must be 16000, got %d", c.SamplingRate)
	}
	if c.Backend == "httpserver" && c.WhisperServerURL == "" {
		return Config{}, fmt.Errorf("config: backend=httpserver requires whisper_server_url")
	}
	if c.Backend == "native" && c.WhisperModelPath == "" {
		return Config{}, fmt.Errorf("config: backend=native requires whisper_model_path")
	}
	if c.MinChunkSize > segmentTrimSec {
		return c, nil // caller logs the sanity warning; this is not a fatal error
	}

	return c, nil
}

// MinChunkExceedsTrimWindow reports whether min_chunk_size is large enough
// to delay the first transcript past the segment trim window.
func (c Config) MinChunkExceedsTrimWindow() bool {
	return c.MinChunkSize > segmentTrimSec
}

func envStr(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func envInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

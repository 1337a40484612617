// Package server runs the single-client-at-a-time TCP accept loop.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/hubenschmidt/whisperstream/internal/connection"
	"github.com/hubenschmidt/whisperstream/internal/framing"
	"github.com/hubenschmidt/whisperstream/internal/metrics"
	"github.com/hubenschmidt/whisperstream/internal/recognizer"
	"github.com/hubenschmidt/whisperstream/internal/stream"
)

// acceptTimeout lets Accept wake up periodically to observe the shutdown
// flag even when no client is connecting.
const acceptTimeout = 1 * time.Second

// Config configures a Server.
type Config struct {
	Host               string
	Port               string
	MinChunkSize       float64
	PacketSizeBytes    int
	PadPackets         bool
	MaxSingleRecvBytes int
	Backend            string
	Language           string
	Task               string
	Recognizer         recognizer.Recognizer
}

// Server listens on a single TCP port and serves one client connection at a
// time, handing each off to a fresh stream processor before accepting the
// next.
type Server struct {
	cfg      Config
	listener net.Listener
	running  atomic.Bool
}

// New creates a Server bound to cfg. It does not start listening.
func New(cfg Config) *Server {
	s := &Server{cfg: cfg}
	s.running.Store(true)
	return s
}

// Run binds the listener, installs SIGINT/SIGTERM handling, and serves
// clients serially until a shutdown signal arrives.
func (s *Server) Run() error {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go s.awaitShutdown(sigCh)

	slog.Info("listening", "addr", addr)

	for s.running.Load() {
		tcpLn, ok := ln.(*net.TCPListener)
		if ok {
			tcpLn.SetDeadline(time.Now().Add(acceptTimeout))
		}

		conn, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				break
			}
			if isConnReset(err) {
				slog.Info("unexpected client disconnect", "error", err)
			} else {
				slog.Error("unexpected server loop error", "error", err)
			}
			continue
		}

		s.handleClient(conn)
	}

	slog.Info("server stopped")
	return nil
}

func (s *Server) awaitShutdown(sigCh <-chan os.Signal) {
	sig := <-sigCh
	slog.Info("shutdown signal received, finishing current operation", "signal", sig.String())
	s.running.Store(false)
	if s.listener != nil {
		s.listener.Close()
	}
}

func (s *Server) handleClient(conn net.Conn) {
	sessionID := uuid.NewString()
	log := slog.With("session", sessionID, "remote", conn.RemoteAddr().String())
	log.Info("client connected")

	metrics.ConnectionsActive.Inc()
	metrics.ConnectionsTotal.Inc()
	defer metrics.ConnectionsActive.Dec()
	defer conn.Close()

	sender := framing.LineSender{Pad: s.cfg.PadPackets, PacketSize: s.cfg.PacketSizeBytes}
	c := connection.New(conn, sender, s.cfg.MaxSingleRecvBytes)
	acc := connection.NewAccumulator(c, s.cfg.MinChunkSize, s.running.Load)
	proc := stream.New(s.cfg.Recognizer)
	formatter := newOutputFormatter(s.cfg.Language, s.cfg.Task)

	firstChunk := true
	abandoned := false

loop:
	for s.running.Load() {
		outcome, samples := acc.Next()
		switch outcome {
		case connection.ChunkNoData:
			continue
		case connection.ChunkEnded:
			log.Info("client stream ended")
			break loop
		case connection.ChunkReady:
			if firstChunk {
				firstChunk = false
				log.Info("receiving audio")
			}
			proc.InsertAudio(samples)
			metrics.BytesReceived.Add(float64(len(samples) * 2))

			start := time.Now()
			seg, err := proc.ProcessIter(context.Background())
			metrics.RecognizerDuration.WithLabelValues(s.cfg.Backend).Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.RecognizerErrors.WithLabelValues(s.cfg.Backend).Inc()
				log.Error("recognizer error, aborting connection", "error", err)
				abandoned = true
				break loop
			}
			if seg.Text != "" {
				metrics.CommitsTotal.Inc()
			}
			if line := formatter.format(seg); line != "" {
				if err := c.Send(line); err != nil {
					log.Info("broken pipe, abandoning connection", "error", err)
					abandoned = true
					break loop
				}
			}
		}
	}

	// A broken pipe or recognizer failure during the loop means the
	// connection is abandoned; finish() would either send into a dead
	// socket or re-invoke the same failing recognizer, so it's skipped.
	if abandoned || !s.running.Load() {
		log.Info("client disconnected")
		return
	}

	seg := proc.Finish()
	if line := formatter.format(seg); line != "" {
		if err := c.Send(line); err != nil {
			log.Info("broken pipe on final flush", "error", err)
		}
	}
	log.Info("client disconnected")
}

func isConnReset(err error) bool {
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED)
}

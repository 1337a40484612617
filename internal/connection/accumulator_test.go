package connection

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/hubenschmidt/whisperstream/internal/framing"
)

func TestAccumulatorReturnsChunkOnceMinSamplesReached(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	conn := New(server, framing.LineSender{}, 0)
	acc := NewAccumulator(conn, 16.0/16000.0, func() bool { return true })

	go func() {
		buf := make([]byte, 32)
		for i := 0; i < 16; i++ {
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(100)))
		}
		client.Write(buf)
	}()

	outcome, samples := acc.Next()
	if outcome != ChunkReady {
		t.Fatalf("expected ChunkReady, got %v", outcome)
	}
	if len(samples) != 16 {
		t.Fatalf("expected 16 samples, got %d", len(samples))
	}
}

func TestAccumulatorEndedWithNoData(t *testing.T) {
	server, client := net.Pipe()
	client.Close()

	conn := New(server, framing.LineSender{}, 0)
	acc := NewAccumulator(conn, 1.0, func() bool { return true })

	outcome, samples := acc.Next()
	if outcome != ChunkEnded {
		t.Fatalf("expected ChunkEnded, got %v", outcome)
	}
	if samples != nil {
		t.Fatalf("expected no samples, got %v", samples)
	}
}

func TestAccumulatorStopsWhenNotRunning(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	conn := New(server, framing.LineSender{}, 0)
	acc := NewAccumulator(conn, 10.0, func() bool { return false })

	outcome, samples := acc.Next()
	if outcome != ChunkNoData {
		t.Fatalf("expected ChunkNoData when not running, got %v", outcome)
	}
	if samples != nil {
		t.Fatalf("expected no samples, got %v", samples)
	}
}

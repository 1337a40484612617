package stream

import (
	"context"
	"testing"

	"github.com/hubenschmidt/whisperstream/internal/recognizer"
)

func res(words []recognizer.Word, ends []float64) recognizer.Result {
	return recognizer.NewStubResult(words, ends)
}

func TestProcessorCommitsOverlappingHypotheses(t *testing.T) {
	stub := recognizer.NewStub(
		res([]recognizer.Word{{Start: 0, End: 1, Text: "hello"}, {Start: 1, End: 2, Text: "world"}}, nil),
		res([]recognizer.Word{{Start: 0, End: 1, Text: "hello"}, {Start: 1, End: 2, Text: "world"}, {Start: 2, End: 3, Text: "again"}}, nil),
	)
	p := New(stub)
	p.InsertAudio(make([]float32, 32000))

	first, err := p.ProcessIter(context.Background())
	if err != nil {
		t.Fatalf("first ProcessIter: %v", err)
	}
	if first.Text != "" {
		t.Errorf("expected nothing committed on first pass, got %q", first.Text)
	}

	second, err := p.ProcessIter(context.Background())
	if err != nil {
		t.Fatalf("second ProcessIter: %v", err)
	}
	if second.Text != "hello world" {
		t.Errorf("expected 'hello world' committed, got %q", second.Text)
	}
	if second.Start == nil || second.End == nil {
		t.Fatalf("expected non-nil start/end on committed segment")
	}
}

func TestProcessorFinishFlushesIncomplete(t *testing.T) {
	stub := recognizer.NewStub(
		res([]recognizer.Word{{Start: 0, End: 1, Text: "partial"}}, nil),
	)
	p := New(stub)
	p.InsertAudio(make([]float32, 16000))

	if _, err := p.ProcessIter(context.Background()); err != nil {
		t.Fatalf("ProcessIter: %v", err)
	}

	seg := p.Finish()
	if seg.Text != "partial" {
		t.Errorf("expected incomplete word flushed on finish, got %q", seg.Text)
	}
}

func TestProcessorChunkAtTrimsBuffers(t *testing.T) {
	stub := recognizer.NewStub()
	p := New(stub)
	p.InsertAudio(make([]float32, 160000)) // 10s at 16kHz

	p.ChunkAt(5)

	if p.offset != 5 {
		t.Errorf("expected offset 5 after chunk, got %v", p.offset)
	}
	wantRemaining := 160000 - 5*16000
	if len(p.audioBuffer) != wantRemaining {
		t.Errorf("expected %d samples remaining, got %d", wantRemaining, len(p.audioBuffer))
	}
}

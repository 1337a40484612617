package recognizer

import "context"

// Stub is a test-only recognizer that returns a fixed, pre-programmed
// sequence of results, one per Transcribe call, regardless of the audio
// passed in. The last programmed result repeats once the sequence is
// exhausted.
type Stub struct {
	Results   []Result
	Calls     int
	UseVAD    bool
	Translate bool
}

// NewStub builds a Stub that replays results in order.
func NewStub(results ...Result) *Stub {
	return &Stub{Results: results}
}

// NewStubResult builds a Result directly from word triples, for use in
// tests that don't need a real recognizer backend.
func NewStubResult(words []Word, segmentEnds []float64) Result {
	return Result{words: words, segmentEnds: segmentEnds}
}

func (s *Stub) Transcribe(ctx context.Context, samples []float32, initPrompt string) (Result, error) {
	if len(s.Results) == 0 {
		return Result{}, nil
	}
	idx := s.Calls
	if idx >= len(s.Results) {
		idx = len(s.Results) - 1
	}
	s.Calls++
	return s.Results[idx], nil
}

func (s *Stub) Words(res Result) []Word          { return res.words }
func (s *Stub) SegmentEnds(res Result) []float64 { return res.segmentEnds }
func (s *Stub) Separator() string                { return " " }
func (s *Stub) SetUseVAD(v bool)                 { s.UseVAD = v }
func (s *Stub) SetTranslate(v bool)              { s.Translate = v }

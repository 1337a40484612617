// Package stream manages the rolling audio buffer and drives the
// hypothesis-commit engine across repeated recognizer calls for a single
// connection's lifetime.
package stream

import (
	"context"
	"log/slog"

	"github.com/hubenschmidt/whisperstream/internal/audio"
	"github.com/hubenschmidt/whisperstream/internal/hypothesis"
	"github.com/hubenschmidt/whisperstream/internal/metrics"
	"github.com/hubenschmidt/whisperstream/internal/recognizer"
)

// segmentTrimSec is the fixed window, in seconds of buffered audio, beyond
// which a completed segment boundary triggers a trim. This is intentionally
// not configurable: it is load-bearing for the deterministic timing of
// committed output, not a tuning knob.
const segmentTrimSec = 15.0

// promptCharBudget bounds how much trailing committed text is replayed to
// the recognizer as linguistic context after a trim.
const promptCharBudget = 200

// Segment is a flushed span of committed or pending text, ready to be sent
// to the client. Start and End are nil when text is empty.
type Segment struct {
	Start *float64
	End   *float64
	Text  string
}

// Processor owns one connection's audio buffer, hypothesis buffer, and time
// offset bookkeeping. It is not safe for concurrent use.
type Processor struct {
	rec    recognizer.Recognizer
	buffer hypothesis.Buffer

	audioBuffer []float32
	offset      float64
	committed   []hypothesis.Word
}

// New creates a processor bound to rec, with its buffers reset to zero
// offset.
func New(rec recognizer.Recognizer) *Processor {
	return &Processor{rec: rec}
}

// InsertAudio appends decoded samples to the rolling audio buffer.
func (p *Processor) InsertAudio(samples []float32) {
	p.audioBuffer = append(p.audioBuffer, samples...)
}

// Prompt returns the recognizer init prompt: up to promptCharBudget trailing
// characters of committed text that has scrolled out of the current audio
// window, plus the committed text that is still inside the window (returned
// only for logging).
func (p *Processor) Prompt() (prompt string, context string) {
	k := max(0, len(p.committed)-1)
	for k > 0 && p.committed[k-1].End > p.offset {
		k--
	}

	inWindow := p.committed[k:]
	outOfWindow := p.committed[:k]

	sep := p.rec.Separator()

	var promptWords []string
	total := 0
	for i := len(outOfWindow) - 1; i >= 0 && total < promptCharBudget; i-- {
		w := outOfWindow[i].Text
		total += len(w) + 1
		promptWords = append(promptWords, w)
	}
	for i, j := 0, len(promptWords)-1; i < j; i, j = i+1, j-1 {
		promptWords[i], promptWords[j] = promptWords[j], promptWords[i]
	}

	contextWords := make([]string, len(inWindow))
	for i, w := range inWindow {
		contextWords[i] = w.Text
	}

	return joinWords(promptWords, sep), joinWords(contextWords, sep)
}

// ProcessIter transcribes the current audio buffer, folds the result
// through the hypothesis buffer, trims on a completed segment boundary, and
// returns the segment of newly committed text (if any).
func (p *Processor) ProcessIter(ctx context.Context) (Segment, error) {
	prompt, dbgContext := p.Prompt()
	slog.Debug("process iter", "prompt", prompt, "context", dbgContext,
		"buffered_seconds", float64(len(p.audioBuffer))/float64(audio.SampleRate),
		"offset", p.offset)

	res, err := p.rec.Transcribe(ctx, p.audioBuffer, prompt)
	if err != nil {
		return Segment{}, err
	}

	words := toHypothesisWords(p.rec.Words(res))
	p.buffer.Insert(words, p.offset)
	committed := p.buffer.Flush()
	p.committed = append(p.committed, committed...)

	if float64(len(p.audioBuffer))/float64(audio.SampleRate) > segmentTrimSec {
		p.chunkCompletedSegment(res)
	}

	return p.toFlush(committed), nil
}

// chunkCompletedSegment trims the audio and hypothesis buffers at the
// second-to-last completed recognizer segment boundary, provided that
// boundary falls at or before the last committed word's end time.
func (p *Processor) chunkCompletedSegment(res recognizer.Result) {
	if len(p.committed) == 0 {
		return
	}

	ends := p.rec.SegmentEnds(res)
	t := p.committed[len(p.committed)-1].End

	if len(ends) <= 1 {
		slog.Debug("not enough segments to chunk")
		return
	}

	e := ends[len(ends)-2] + p.offset
	for len(ends) > 2 && e > t {
		ends = ends[:len(ends)-1]
		e = ends[len(ends)-2] + p.offset
	}

	if e <= t {
		p.chunkAt(e)
		slog.Debug("chunked segment", "at", e)
		return
	}
	slog.Debug("last segment not within committed area")
}

// ChunkAt trims the hypothesis and audio buffers at the given absolute
// time, discarding committed words and audio samples before it.
func (p *Processor) ChunkAt(t float64) {
	p.chunkAt(t)
}

func (p *Processor) chunkAt(t float64) {
	metrics.TrimsTotal.Inc()
	p.buffer.PopCommitted(t)
	cutSamples := int((t - p.offset) * audio.SampleRate)
	if cutSamples > len(p.audioBuffer) {
		cutSamples = len(p.audioBuffer)
	}
	if cutSamples > 0 {
		p.audioBuffer = p.audioBuffer[cutSamples:]
	}
	p.offset = t
}

// Finish flushes the incomplete tail of the transcript buffer when the
// connection ends, returning it in the same shape as ProcessIter.
func (p *Processor) Finish() Segment {
	seg := p.toFlush(p.buffer.Complete())
	p.offset += float64(len(p.audioBuffer)) / float64(audio.SampleRate)
	return seg
}

// toFlush concatenates timestamped words into a single segment: start of
// the first word, end of the last, and their joined text.
func (p *Processor) toFlush(words []hypothesis.Word) Segment {
	if len(words) == 0 {
		return Segment{}
	}
	start := words[0].Start
	end := words[len(words)-1].End
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	return Segment{Start: &start, End: &end, Text: joinWords(texts, p.rec.Separator())}
}

func toHypothesisWords(words []recognizer.Word) []hypothesis.Word {
	out := make([]hypothesis.Word, len(words))
	for i, w := range words {
		out[i] = hypothesis.Word{Start: w.Start, End: w.End, Text: w.Text}
	}
	return out
}

func joinWords(words []string, sep string) string {
	if len(words) == 0 {
		return ""
	}
	s := words[0]
	for _, w := range words[1:] {
		s += sep + w
	}
	return s
}

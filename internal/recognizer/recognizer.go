// Package recognizer defines the narrow capability surface the streaming
// processor needs from a speech recognizer, and provides backends that
// satisfy it.
package recognizer

import "context"

// Word is a single recognized token with a time span relative to the start
// of the audio buffer that was transcribed.
type Word struct {
	Start float64
	End   float64
	Text  string
}

// Result is an opaque recognizer output. Backends populate it privately and
// decode it back out via Words/SegmentEnds; callers never inspect it
// directly.
type Result struct {
	words       []Word
	segmentEnds []float64
}

// Recognizer is the capability set the stream processor depends on. It
// deliberately excludes model loading, GPU placement, VAD segmentation, and
// warm-up: those are backend construction concerns, not per-call ones.
type Recognizer interface {
	// Transcribe runs inference over samples (float32 mono, 16kHz), using
	// initPrompt as linguistic context for the model.
	Transcribe(ctx context.Context, samples []float32, initPrompt string) (Result, error)

	// Words extracts the timestamped word (or segment) list from a Result.
	Words(res Result) []Word

	// SegmentEnds returns the end timestamp of every recognizer-internal
	// segment boundary in a Result, in ascending order.
	SegmentEnds(res Result) []float64

	// Separator is the string used to join words/segments back into text.
	Separator() string

	// SetUseVAD toggles the recognizer's own voice-activity gating, when
	// supported. Backends that don't support it treat this as a no-op.
	SetUseVAD(bool)

	// SetTranslate toggles translate-to-English mode, when supported.
	// Backends that don't support it treat this as a no-op.
	SetTranslate(bool)
}

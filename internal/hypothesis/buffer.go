// Package hypothesis implements the incremental commit engine: it turns a
// sequence of overlapping, re-transcribed hypotheses into a stream of
// committed words that is never retracted.
package hypothesis

import "log/slog"

// Word is a single recognized token with its absolute time span.
type Word struct {
	Start float64
	End   float64
	Text  string
}

// maxNGram bounds the tail-suppression search: at most this many trailing
// words are compared between the committed log and the new hypothesis.
const maxNGram = 5

// Buffer holds the rolling state needed to turn repeated, overlapping
// transcription hypotheses into a monotonic stream of committed words. It is
// not safe for concurrent use.
type Buffer struct {
	committed     []Word
	buffer        []Word
	pending       []Word
	lastCommitEnd float64
	lastWord      string
}

// Insert absorbs a freshly transcribed hypothesis, offset into absolute
// time. Only words that start later than 0.1s before the last committed
// time survive into the pending set; a run of up to maxNGram words already present at the
// tail of the committed log is suppressed to avoid re-committing duplicate
// content across overlapping hypotheses.
func (b *Buffer) Insert(words []Word, offset float64) {
	shifted := make([]Word, len(words))
	for i, w := range words {
		shifted[i] = Word{Start: w.Start + offset, End: w.End + offset, Text: w.Text}
	}

	pending := shifted[:0:0]
	for _, w := range shifted {
		if w.Start > b.lastCommitEnd-0.1 {
			pending = append(pending, w)
		}
	}
	b.pending = pending

	if len(b.pending) == 0 {
		return
	}

	if first := b.pending[0]; abs(first.Start-b.lastCommitEnd) < 1 && len(b.committed) > 0 {
		cn := len(b.committed)
		nn := len(b.pending)
		limit := min(min(cn, nn), maxNGram)
		for i := 1; i <= limit; i++ {
			if b.tailMatches(i) {
				dropped := b.pending[:i]
				b.pending = b.pending[i:]
				slog.Debug("removing duplicate tail words", "count", i, "words", wordsText(dropped))
				break
			}
		}
	}
}

// tailMatches reports whether the last i words of the committed log equal
// the first i words of the pending set, joined by a single space.
func (b *Buffer) tailMatches(i int) bool {
	cn := len(b.committed)
	committedTail := ""
	for j := 1; j <= i; j++ {
		if committedTail != "" {
			committedTail = " " + committedTail
		}
		committedTail = b.committed[cn-j].Text + committedTail
	}
	pendingTail := ""
	for j := 0; j < i; j++ {
		if j > 0 {
			pendingTail += " "
		}
		pendingTail += b.pending[j].Text
	}
	return committedTail == pendingTail
}

// Flush returns the longest common prefix between the previous buffer and
// the newly inserted words, committing it permanently. Anything left in
// pending becomes the new buffer for the next comparison.
func (b *Buffer) Flush() []Word {
	var commit []Word
	for len(b.pending) > 0 && len(b.buffer) > 0 {
		next := b.pending[0]
		if next.Text != b.buffer[0].Text {
			break
		}
		commit = append(commit, next)
		b.lastWord = next.Text
		b.lastCommitEnd = next.End
		b.buffer = b.buffer[1:]
		b.pending = b.pending[1:]
	}
	b.buffer = b.pending
	b.pending = nil
	b.committed = append(b.committed, commit...)
	return commit
}

// PopCommitted discards committed words whose end time is at or before t,
// keeping the committed log from growing unboundedly across a long session.
func (b *Buffer) PopCommitted(t float64) {
	i := 0
	for i < len(b.committed) && b.committed[i].End <= t {
		i++
	}
	b.committed = b.committed[i:]
}

// Complete returns the words currently held in the comparison buffer,
// i.e. the not-yet-committed tail of the most recent hypothesis.
func (b *Buffer) Complete() []Word {
	return b.buffer
}

func wordsText(words []Word) string {
	s := ""
	for i, w := range words {
		if i > 0 {
			s += " "
		}
		s += w.Text
	}
	return s
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

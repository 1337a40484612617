package connection

import "github.com/hubenschmidt/whisperstream/internal/audio"

// ChunkOutcome mirrors Outcome for a fully accumulated audio chunk.
type ChunkOutcome int

const (
	// ChunkReady means samples holds a usable chunk.
	ChunkReady ChunkOutcome = iota
	// ChunkNoData means no chunk is ready yet; keep looping.
	ChunkNoData
	// ChunkEnded means the stream ended.
	ChunkEnded
)

// Accumulator gathers raw audio reads from a Connection until either
// minChunkSeconds worth of samples have arrived or the stream ends, so the
// recognizer is never driven with slivers of audio on every socket read.
type Accumulator struct {
	conn       *Connection
	minSamples int
	isFirst    bool
	running    func() bool
}

// NewAccumulator builds an Accumulator requiring minChunkSeconds of audio
// per chunk. running is polled so the accumulation loop can observe a
// shutdown signal without blocking forever.
func NewAccumulator(conn *Connection, minChunkSeconds float64, running func() bool) *Accumulator {
	return &Accumulator{
		conn:       conn,
		minSamples: int(minChunkSeconds * audio.SampleRate),
		isFirst:    true,
		running:    running,
	}
}

// Next accumulates raw reads into a chunk of decoded float32 samples,
// returning early with ChunkNoData when nothing has arrived yet, or early
// with a partial chunk once the stream has ended.
func (a *Accumulator) Next() (ChunkOutcome, []float32) {
	var samples []float32

	for a.running() && len(samples) < a.minSamples {
		outcome, raw := a.conn.ReceiveAudio()

		switch outcome {
		case OutcomeNoData:
			if len(samples) == 0 {
				return ChunkNoData, nil
			}
			continue

		case OutcomeEnded:
			if len(samples) > 0 {
				return ChunkReady, a.finish(samples)
			}
			return ChunkEnded, nil

		case OutcomeData:
			decoded := audio.DecodePCM16LE(raw)
			if len(decoded) == 0 {
				if len(samples) == 0 {
					return ChunkNoData, nil
				}
				return ChunkReady, a.finish(samples)
			}
			samples = append(samples, decoded...)
		}
	}

	if len(samples) == 0 {
		return ChunkNoData, nil
	}
	if a.isFirst && len(samples) < a.minSamples {
		return ChunkNoData, nil
	}
	return ChunkReady, a.finish(samples)
}

func (a *Accumulator) finish(samples []float32) []float32 {
	a.isFirst = false
	return samples
}

// Package audio converts raw wire audio into the float32 samples the
// recognizer expects.
package audio

import (
	"encoding/binary"
	"log/slog"
)

// SampleRate is the only sampling rate this server accepts on the wire.
const SampleRate = 16000

// DecodePCM16LE converts a run of little-endian signed 16-bit PCM bytes into
// float32 samples normalized to [-1, 1]. An odd trailing byte is dropped and
// logged at debug level. Empty input returns nil.
func DecodePCM16LE(data []byte) []float32 {
	if len(data)%2 == 1 {
		slog.Debug("dropping trailing odd byte in audio packet", "len", len(data))
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return nil
	}

	n := len(data) / 2
	samples := make([]float32, n)
	for i := range n {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(s) / 32768.0
	}
	return samples
}

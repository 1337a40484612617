// Package framing implements the wire framing used to send transcript lines
// back to the client: the first line of the given text, UTF-8 encoded,
// terminated by a single LF, optionally zero-padded to a fixed packet size.
package framing

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultPacketSize is the packet size used when padding is enabled and no
// override is configured.
const DefaultPacketSize = 65536

// LineSender transmits newline-delimited text over a stream writer, padding
// to PacketSize when Pad is true. The zero value sends unpadded lines.
type LineSender struct {
	// PacketSize is the packet size used for padding. Ignored unless Pad is
	// true. Defaults to DefaultPacketSize when zero.
	PacketSize int

	// Pad enables zero-byte padding to PacketSize, matching legacy
	// compatibility clients. Defaults to off.
	Pad bool
}

// firstLine returns the first line of text, splitting on LF, CR, CRLF, or
// NUL, and replaces invalid UTF-8 rather than rejecting it.
func firstLine(text string) string {
	text = strings.ReplaceAll(text, "\x00", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	if scanner.Scan() {
		return scanner.Text()
	}
	return ""
}

// SendLine writes the first line of text as UTF-8 followed by a single LF,
// optionally padded with zero bytes to a multiple of PacketSize. Send is a
// single write when padding is disabled.
func (s LineSender) SendLine(w io.Writer, text string) error {
	line := firstLine(text)
	data := append([]byte(line), '\n')

	if !s.Pad {
		_, err := w.Write(data)
		return err
	}

	packetSize := s.PacketSize
	if packetSize <= 0 {
		packetSize = DefaultPacketSize
	}

	for offset := 0; offset < len(data); offset += packetSize {
		remaining := len(data) - offset
		var packet []byte
		if remaining < packetSize {
			packet = make([]byte, packetSize)
			copy(packet, data[offset:])
		} else {
			packet = data[offset : offset+packetSize]
		}
		if _, err := w.Write(packet); err != nil {
			return err
		}
	}
	if len(data) == 0 {
		packet := make([]byte, packetSize)
		if _, err := w.Write(packet); err != nil {
			return err
		}
	}
	return nil
}

// Package connection adapts a raw TCP socket into the audio-chunk and
// transcript-line primitives the server loop needs, one connection at a
// time.
package connection

import (
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/hubenschmidt/whisperstream/internal/framing"
)

// recvTimeout bounds a single blocking recv, so the accept/process loop can
// observe a shutdown flag even with no client traffic. It is not a session
// idle timeout.
const recvTimeout = 1 * time.Second

// defaultMaxSingleRecvBytes is the oversized-packet warning threshold used
// when Connection isn't given an override. It does not reject the packet,
// only logs it.
const defaultMaxSingleRecvBytes = 5 * 1024 * 1024

// recvBufferBytes is the fixed size of a single recv call's buffer.
const recvBufferBytes = 32000 * 5 * 60

// Outcome is the sum-type result of a non-blocking audio receive.
type Outcome int

const (
	// OutcomeData means len(bytes) > 0 normal audio data was read.
	OutcomeData Outcome = iota
	// OutcomeNoData means the recv timed out with nothing read; the
	// socket is still open and the caller should try again.
	OutcomeNoData
	// OutcomeEnded means the remote closed or reset the connection.
	OutcomeEnded
)

// Connection wraps a net.Conn with the framing and send/receive semantics
// the streaming protocol needs.
type Connection struct {
	conn               net.Conn
	sender             framing.LineSender
	lastLine           string
	maxSingleRecvBytes int
}

// New wraps conn and clears any read deadline on it; ReceiveAudio applies
// the per-recv timeout on each call. maxSingleRecvBytes is
// the oversized-packet warning threshold (MAX_SINGLE_RECV_BYTES); 0 uses
// defaultMaxSingleRecvBytes.
func New(conn net.Conn, sender framing.LineSender, maxSingleRecvBytes int) *Connection {
	conn.SetReadDeadline(time.Time{})
	if maxSingleRecvBytes <= 0 {
		maxSingleRecvBytes = defaultMaxSingleRecvBytes
	}
	return &Connection{conn: conn, sender: sender, maxSingleRecvBytes: maxSingleRecvBytes}
}

// Send writes line to the client, suppressing a repeat of the immediately
// preceding line (some client stacks double-process duplicate lines).
func (c *Connection) Send(line string) error {
	if line == c.lastLine {
		return nil
	}
	if err := c.sender.SendLine(c.conn, line); err != nil {
		return err
	}
	c.lastLine = line
	return nil
}

// ReceiveAudio performs one bounded recv and classifies the result.
func (c *Connection) ReceiveAudio() (Outcome, []byte) {
	c.conn.SetReadDeadline(time.Now().Add(recvTimeout))

	buf := make([]byte, recvBufferBytes)
	n, err := c.conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return OutcomeNoData, nil
		}
		if errors.Is(err, net.ErrClosed) {
			return OutcomeEnded, nil
		}
		return OutcomeEnded, nil
	}
	if n == 0 {
		return OutcomeEnded, nil
	}
	if n > c.maxSingleRecvBytes {
		slog.Warn("oversized audio packet received", "mb", float64(n)/1024/1024, "threshold_mb", float64(c.maxSingleRecvBytes)/1024/1024)
	}
	return OutcomeData, buf[:n]
}

// Close closes the underlying connection.
func (c *Connection) Close() error {
	return c.conn.Close()
}

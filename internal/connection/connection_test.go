package connection

import (
	"net"
	"testing"

	"github.com/hubenschmidt/whisperstream/internal/framing"
)

func TestSendSuppressesDuplicateLine(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	c := New(server, framing.LineSender{}, 0)

	done := make(chan error, 1)
	go func() { done <- c.Send("hello") }()
	buf := make([]byte, 64)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "hello\n" {
		t.Fatalf("got %q", got)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}

	sent := make(chan error, 1)
	go func() { sent <- c.Send("hello") }()
	if err := <-sent; err != nil {
		t.Fatalf("Send duplicate: %v", err)
	}

	go func() { done <- c.Send("world") }()
	n, err = client.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "world\n" {
		t.Fatalf("got %q, expected duplicate 'hello' to be suppressed and 'world' to arrive next", got)
	}
}

// internal/server/handlers/websocket_test.go

package handlers

import (
	"testing"
	"time"
)

func TestEnqueueDropsWhenBufferFull(t *testing.T) {
	client := &WebSocketClient{send: make(chan []byte, 1)}

	done := make(chan struct{})
	go func() {
		client.enqueue([]byte("first"))
		client.enqueue([]byte("overflow"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full buffer")
	}

	if got := string(<-client.send); got != "first" {
		t.Errorf("expected the buffered event to survive, got %q", got)
	}
	select {
	case extra := <-client.send:
		t.Errorf("overflow event should have been dropped, got %q", extra)
	default:
	}
}

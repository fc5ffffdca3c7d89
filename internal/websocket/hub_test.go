package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/coder/websocket"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockClient has a send buffer but no connection.
func mockClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan []byte, sendBufferSize)}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(quietLogger())
	c1 := mockClient(hub)
	c2 := mockClient(hub)

	hub.Register(c1)
	hub.Register(c2)
	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("ClientCount() = %d, want 2", got)
	}

	hub.Unregister(c1)
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("ClientCount() = %d, want 1", got)
	}

	hub.Unregister(c2)
	hub.Unregister(c2)
	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("ClientCount() = %d, want 0", got)
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(quietLogger())
	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.Register(c1)
	hub.Register(c2)
	defer hub.Unregister(c1)
	defer hub.Unregister(c2)

	hub.Broadcast(NewMessage("seed", "completed", "default-family", map[string]any{"outcome": "seeded"}))

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "seed_completed" {
				t.Errorf("Type = %q, want %q", got.Type, "seed_completed")
			}
			if got.ID != "default-family" {
				t.Errorf("ID = %q, want %q", got.ID, "default-family")
			}
			if got.Extra["outcome"] != "seeded" {
				t.Errorf("Extra[outcome] = %v, want seeded", got.Extra["outcome"])
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(quietLogger())
	hub.Broadcast(NewMessage("connectivity", "offline", "", nil))
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(quietLogger())
	c := mockClient(hub)
	hub.Register(c)
	defer hub.Unregister(c)

	for i := 0; i < sendBufferSize+1; i++ {
		hub.Broadcast(NewMessage("connectivity", "online", "", nil))
	}

	if got := len(c.send); got != sendBufferSize {
		t.Errorf("queued = %d, want %d", got, sendBufferSize)
	}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("connectivity", "offline", "", nil)
	if msg.Type != "connectivity_offline" {
		t.Errorf("Type = %q, want %q", msg.Type, "connectivity_offline")
	}
	if msg.Entity != "connectivity" || msg.Action != "offline" {
		t.Errorf("Entity/Action = %q/%q, want connectivity/offline", msg.Entity, msg.Action)
	}

	data, _ := json.Marshal(msg)
	if strings.Contains(string(data), `"id"`) {
		t.Errorf("empty id serialized: %s", data)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(quietLogger())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub)
			hub.Register(c)
			hub.Broadcast(NewMessage("seed", "completed", "", nil))
			hub.Unregister(c)
		}()
	}
	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
}

func TestHandleWebSocket(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := httptest.NewServer(HandleWebSocket(hub, quietLogger()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.CloseNow()

	for hub.ClientCount() == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	hub.Broadcast(NewMessage("connectivity", "online", "", nil))

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "connectivity_online" {
		t.Errorf("Type = %q, want %q", got.Type, "connectivity_online")
	}

	conn.Close(ws.StatusNormalClosure, "")
	for hub.ClientCount() != 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never unregistered")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

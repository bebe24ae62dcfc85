package feed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaka3507/amanos/internal/models"
)

func dialFeed(t *testing.T, hub *Hub, alertID uint) (*websocket.Conn, func()) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(alertID, w, r)
	}))

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		server.Close()
		t.Fatalf("Failed to dial feed: %v", err)
	}
	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline failed: %v", err)
	}
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read feed event: %v", err)
	}
	return event
}

func TestFeedDeliversEvents(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialFeed(t, hub, 7)
	defer cleanup()

	// The handshake event confirms registration, so broadcasts after it
	// are guaranteed to reach this client.
	event := readEvent(t, conn)
	if event.Type != EventConnected || event.AlertID != 7 {
		t.Fatalf("Handshake event = %+v, want connected for alert 7", event)
	}

	hub.BroadcastMessage(7, &models.MessageView{
		AlertMessage: models.AlertMessage{ID: 3, AlertID: 7, Content: "hello"},
		Reactions:    map[string][]uint{},
	})
	event = readEvent(t, conn)
	if event.Type != EventMessageInsert {
		t.Fatalf("type = %q, want %q", event.Type, EventMessageInsert)
	}
	if event.Message == nil || event.Message.Content != "hello" {
		t.Fatalf("Unexpected message payload: %+v", event.Message)
	}
	if event.Item != nil {
		t.Error("Message event must not carry an item")
	}

	hub.BroadcastItem(7, &models.CrisisItem{ID: 9, AlertID: 7, Name: "Water Bottles", Quantity: 5, ClaimedQuantity: 2})
	event = readEvent(t, conn)
	if event.Type != EventItemUpdate {
		t.Fatalf("type = %q, want %q", event.Type, EventItemUpdate)
	}
	if event.Item == nil || event.Item.ClaimedQuantity != 2 {
		t.Fatalf("Unexpected item payload: %+v", event.Item)
	}
}

func TestFeedScopedToAlert(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialFeed(t, hub, 7)
	defer cleanup()
	readEvent(t, conn)

	// An event for a different alert must not reach this client.
	hub.BroadcastMessage(8, &models.MessageView{
		AlertMessage: models.AlertMessage{ID: 1, AlertID: 8, Content: "other"},
	})
	hub.BroadcastMessage(7, &models.MessageView{
		AlertMessage: models.AlertMessage{ID: 2, AlertID: 7, Content: "mine"},
	})

	event := readEvent(t, conn)
	if event.AlertID != 7 || event.Message.Content != "mine" {
		t.Fatalf("Received a foreign alert's event: %+v", event)
	}
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	// Must not panic or block when nobody is subscribed.
	hub.BroadcastMessage(1, &models.MessageView{})
	hub.BroadcastItem(1, &models.CrisisItem{})
}

// All writes to one connection go through a single goroutine, so
// broadcasts racing each other (or the ping ticker) must never trip
// the connection's concurrent-write check.
func TestFeedConcurrentBroadcasts(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialFeed(t, hub, 7)
	defer cleanup()
	readEvent(t, conn)

	const broadcasts = 8
	var wg sync.WaitGroup
	for i := 0; i < broadcasts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BroadcastItem(7, &models.CrisisItem{ID: 9, AlertID: 7, Name: "Water Bottles", Quantity: 5})
		}()
	}
	wg.Wait()

	for i := 0; i < broadcasts; i++ {
		event := readEvent(t, conn)
		if event.Type != EventItemUpdate {
			t.Fatalf("Event %d type = %q, want %q", i, event.Type, EventItemUpdate)
		}
	}
}

func TestFeedDisconnectUnregisters(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialFeed(t, hub, 7)
	defer cleanup()
	readEvent(t, conn)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		remaining := len(hub.clients)
		hub.mu.RUnlock()
		if remaining == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Client was not unregistered after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Broadcasting to the now-empty alert must be a no-op.
	hub.BroadcastMessage(7, &models.MessageView{})
}

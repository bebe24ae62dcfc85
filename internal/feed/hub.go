// Package feed delivers per-alert change events to websocket clients.
// Clients receive message inserts and item updates for exactly one
// alert; there is no replay or resume, a reconnecting client is
// expected to reload the snapshot first.
package feed

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaka3507/amanos/internal/models"
	"github.com/shaka3507/amanos/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendQueueSize  = 16
)

// Event types pushed over the feed.
const (
	EventConnected     = "connected"
	EventMessageInsert = "message.insert"
	EventItemUpdate    = "item.update"
)

// Event is one change-feed notification. Exactly one of Message and
// Item is set, matching Type.
type Event struct {
	Type    string              `json:"type"`
	AlertID uint                `json:"alert_id"`
	Message *models.MessageView `json:"message,omitempty"`
	Item    *models.CrisisItem  `json:"item,omitempty"`
}

// client pairs a connection with its outbound queue. The connection
// allows at most one concurrent writer, so every write, pings
// included, happens on the client's writePump goroutine.
type client struct {
	conn *websocket.Conn
	send chan Event
}

// writePump drains the send queue and keeps the connection alive with
// pings. It exits when the queue is closed on unregister or when a
// write fails, and closes the connection on the way out so the read
// loop unblocks.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Hub tracks the open feed connections per alert and fans events out
// to them.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uint]map[*client]bool
	upgrader websocket.Upgrader
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint]map[*client]bool),
		upgrader: websocket.Upgrader{
			// Auth happens before the upgrade, via the JWT middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// BroadcastMessage pushes a newly inserted message to every client
// subscribed to its alert.
func (h *Hub) BroadcastMessage(alertID uint, message *models.MessageView) {
	h.broadcast(alertID, Event{Type: EventMessageInsert, AlertID: alertID, Message: message})
}

// BroadcastItem pushes an updated crisis item to every client
// subscribed to its alert.
func (h *Hub) BroadcastItem(alertID uint, item *models.CrisisItem) {
	h.broadcast(alertID, Event{Type: EventItemUpdate, AlertID: alertID, Item: item})
}

func (h *Hub) broadcast(alertID uint, event Event) {
	h.mu.RLock()
	var slow []*client
	for c := range h.clients[alertID] {
		select {
		case c.send <- event:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	// A client that cannot drain its queue is dropped; it reconnects
	// and reloads the snapshot.
	for _, c := range slow {
		slog.Warn("Dropping slow feed client", "alert_id", alertID)
		h.remove(alertID, c)
	}
}

func (h *Hub) add(alertID uint, c *client) {
	h.mu.Lock()
	if h.clients[alertID] == nil {
		h.clients[alertID] = make(map[*client]bool)
	}
	h.clients[alertID][c] = true
	h.mu.Unlock()
	metrics.FeedConnections.Inc()
}

// remove unregisters a client and closes its queue exactly once. The
// closed queue stops the writePump, which closes the connection.
func (h *Hub) remove(alertID uint, c *client) {
	h.mu.Lock()
	if clients, exists := h.clients[alertID]; exists && clients[c] {
		delete(clients, c)
		close(c.send)
		metrics.FeedConnections.Dec()
		if len(clients) == 0 {
			delete(h.clients, alertID)
		}
	}
	h.mu.Unlock()
}

// Serve upgrades the request to a websocket, registers it against the
// alert, and blocks until the connection drops. Callers must have
// already authorized the user for this alert.
func (h *Hub) Serve(alertID uint, w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, send: make(chan Event, sendQueueSize)}
	// Queued before the client is visible to broadcasts, so it is
	// always the first event delivered.
	c.send <- Event{Type: EventConnected, AlertID: alertID}
	h.add(alertID, c)
	go c.writePump()
	defer func() {
		h.remove(alertID, c)
		slog.Debug("Feed connection closed", "alert_id", alertID)
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// The feed is one-directional; inbound frames only keep the
	// connection alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				slog.Warn("Feed connection error", "alert_id", alertID, "error", err)
			}
			return nil
		}
	}
}

package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vic/attendance/internal/attendance"
)

// DayLister provides the payload pushed to subscribers: the full
// snapshot list for a date. Clients always receive the whole day, not
// a diff, so a missed message costs nothing.
type DayLister interface {
	Day(ctx context.Context, date string) ([]attendance.Snapshot, error)
}

// DayListerFunc adapts a function to DayLister.
type DayListerFunc func(ctx context.Context, date string) ([]attendance.Snapshot, error)

func (f DayListerFunc) Day(ctx context.Context, date string) ([]attendance.Snapshot, error) {
	return f(ctx, date)
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	date string
	send chan []byte
}

// Hub tracks websocket subscribers grouped by date.
type Hub struct {
	lister DayLister

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(lister DayLister) *Hub {
	return &Hub{
		lister:  lister,
		clients: make(map[*client]struct{}),
	}
}

type dayMessage struct {
	Type      string                `json:"type"`
	Date      string                `json:"date"`
	Snapshots []attendance.Snapshot `json:"snapshots"`
}

// ServeWS upgrades the request and registers it for the date. The
// current day state is pushed immediately so the client never renders
// from nothing.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, date string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn, date: date, send: make(chan []byte, 8)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)

	if payload, err := h.dayPayload(r.Context(), date); err == nil {
		h.deliver(c, payload)
	}
}

// Notify pushes the date's full snapshot list to every subscriber of
// that date.
func (h *Hub) Notify(ctx context.Context, date string) {
	h.mu.Lock()
	var targets []*client
	for c := range h.clients {
		if c.date == date {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()
	if len(targets) == 0 {
		return
	}

	payload, err := h.dayPayload(ctx, date)
	if err != nil {
		log.Printf("day payload failed for %s: %v", date, err)
		return
	}
	for _, c := range targets {
		h.deliver(c, payload)
	}
}

// SnapshotChanged lets a hub act as the change publisher directly when
// no redis fan-out is configured.
func (h *Hub) SnapshotChanged(ctx context.Context, date string) {
	h.Notify(ctx, date)
}

// Subscribers reports how many sockets follow a date.
func (h *Hub) Subscribers(date string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.clients {
		if c.date == date {
			n++
		}
	}
	return n
}

func (h *Hub) dayPayload(ctx context.Context, date string) ([]byte, error) {
	snapshots, err := h.lister.Day(ctx, date)
	if err != nil {
		return nil, err
	}
	if snapshots == nil {
		snapshots = []attendance.Snapshot{}
	}
	return json.Marshal(dayMessage{Type: "day", Date: date, Snapshots: snapshots})
}

// deliver hands a payload to a registered client. Membership is
// rechecked and the send happens under h.mu, the same lock that guards
// close(c.send) in drop, so a concurrent disconnect can never turn
// this into a send on a closed channel.
func (h *Hub) deliver(c *client, payload []byte) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	select {
	case c.send <- payload:
		h.mu.Unlock()
	default:
		// Slow consumer: drop it rather than block the fanout.
		delete(h.clients, c)
		close(c.send)
		h.mu.Unlock()
		_ = c.conn.Close()
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Clients do not send data; reads only surface disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

package booking

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"tourguide/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// writeWait bounds each write so a stalled subscriber cannot hold up the feed.
var writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveFeed fans booking events out to websocket subscribers.
type LiveFeed struct {
	mu          sync.Mutex
	subscribers map[*websocket.Conn]struct{}
}

func NewLiveFeed() *LiveFeed {
	return &LiveFeed{subscribers: make(map[*websocket.Conn]struct{})}
}

// Count returns the number of connected subscribers.
func (f *LiveFeed) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}

// HandleWS upgrades the connection and keeps it registered until the client
// disconnects.
func (f *LiveFeed) HandleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	f.mu.Lock()
	f.subscribers[conn] = struct{}{}
	f.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	f.mu.Lock()
	delete(f.subscribers, conn)
	f.mu.Unlock()
	conn.Close()
}

// Broadcast sends ev to every subscriber, dropping connections that fail.
func (f *LiveFeed) Broadcast(ev models.BookingEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal booking event: %v", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.subscribers {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(f.subscribers, conn)
			conn.Close()
		}
	}
}

// Stop sends a close frame to every subscriber and disconnects them.
func (f *LiveFeed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn := range f.subscribers {
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
		delete(f.subscribers, conn)
	}
}

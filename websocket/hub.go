package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// WaitlistEvent is pushed to every connected instructor when the waitlist
// changes under them.
type WaitlistEvent struct {
	Action  string `json:"action"` // entry_added, entry_removed, pairing_created
	Date    string `json:"date"`
	Hour    string `json:"hour"`
	VenueID string `json:"venue_id"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)

// Buffered so Notify can absorb bursts while the hub is mid-write.
var Broadcast = make(chan *WaitlistEvent, 16)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Waitlist feed client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Waitlist feed client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			var stale []uuid.UUID
			for userID, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error pushing waitlist event to client %s: %v", userID, err)
					conn.Close()
					stale = append(stale, userID)
				}
			}
			clientsMu.RUnlock()
			if len(stale) > 0 {
				clientsMu.Lock()
				for _, userID := range stale {
					delete(clients, userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// Notify hands an event to the hub without ever blocking the caller. Events
// queue in the Broadcast buffer while the hub is busy; they are dropped only
// once the buffer fills (hub not running, e.g. in tests, or badly backlogged).
func Notify(event *WaitlistEvent) {
	select {
	case Broadcast <- event:
	default:
	}
}

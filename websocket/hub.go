package websocket

import (
	"log"
	"sync"

	"github.com/anjiri1684/private_tutor/scheduling"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type MeetingEvent struct {
	Event   string             `json:"event"`
	Meeting scheduling.Meeting `json:"meeting"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var events = make(chan MeetingEvent, 64)

// NotifyMeeting pushes a lifecycle event to every connected participant.
// Events are dropped rather than blocking the caller when the hub is behind.
func NotifyMeeting(event string, m scheduling.Meeting) {
	select {
	case events <- MeetingEvent{Event: event, Meeting: m}:
	default:
		log.Printf("Dropping websocket event %s for meeting %s: hub backlog full", event, m.ID)
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case ev := <-events:
			var stale []uuid.UUID
			clientsMu.RLock()
			for _, p := range ev.Meeting.Participants {
				conn, ok := clients[p.ID]
				if !ok {
					continue
				}
				if err := conn.WriteJSON(ev); err != nil {
					log.Printf("Error pushing %s to client %s: %v", ev.Event, p.ID, err)
					conn.Close()
					stale = append(stale, p.ID)
				}
			}
			clientsMu.RUnlock()
			if len(stale) > 0 {
				clientsMu.Lock()
				for _, id := range stale {
					delete(clients, id)
				}
				clientsMu.Unlock()
			}
		}
	}
}

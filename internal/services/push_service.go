package services

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"grocermart-backend/internal/models"
)

// PushMessage is the frame sent to connected dashboards
type PushMessage struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// pushClient is one connected dashboard
type pushClient struct {
	id      string
	session models.Session
	conn    *websocket.Conn
	send    chan PushMessage
	hub     *pushHub
}

// pushHub maintains the set of active clients and routes notifications
// to them by audience
type pushHub struct {
	clients    map[*pushClient]bool
	register   chan *pushClient
	unregister chan *pushClient
	notify     chan models.Notification

	mutex sync.RWMutex
}

// PushService upgrades dashboard connections and delivers notifications
// to them as they are created. Delivery is best effort; clients refetch
// their ledger on reconnect.
type PushService struct {
	hub      *pushHub
	upgrader websocket.Upgrader
}

// NewPushService creates a push service and starts its hub
func NewPushService(checkOrigin func(r *http.Request) bool) *PushService {
	hub := &pushHub{
		clients:    make(map[*pushClient]bool),
		register:   make(chan *pushClient),
		unregister: make(chan *pushClient),
		notify:     make(chan models.Notification, 64),
	}

	service := &PushService{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin,
		},
	}

	go hub.run()

	return service
}

// Publish implements Publisher. It never blocks the caller: if the hub's
// queue is full the notification is dropped and left for the next ledger
// fetch.
func (s *PushService) Publish(notification models.Notification) {
	select {
	case s.hub.notify <- notification:
	default:
		log.Printf("push queue full, dropping notification %s", notification.ID)
	}
}

// HandleWebSocket upgrades an authenticated request to a notification stream
func (s *PushService) HandleWebSocket(c *gin.Context) {
	value, exists := c.Get("session")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}
	session := value.(models.Session)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &pushClient{
		id:      uuid.New().String(),
		session: session,
		conn:    conn,
		send:    make(chan PushMessage, 64),
		hub:     s.hub,
	}

	s.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// ConnectedClients returns the number of open connections
func (s *PushService) ConnectedClients() int {
	s.hub.mutex.RLock()
	defer s.hub.mutex.RUnlock()
	return len(s.hub.clients)
}

// receives reports whether a notification should reach this client's
// session. Admin records go to admins, vendor records to the owning
// vendor, user records to the addressed user or everyone when broadcast.
func receives(session models.Session, n models.Notification) bool {
	switch n.Audience.Kind {
	case models.AudienceAdmin:
		return session.IsAdmin()
	case models.AudienceVendor:
		return session.IsVendor() && n.Audience.VisibleTo(session.VendorID)
	case models.AudienceUser:
		return n.Audience.VisibleTo(session.UserID)
	}
	return false
}

func (h *pushHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

			select {
			case client.send <- PushMessage{Type: "connected", Message: "Notification stream connected"}:
			default:
				h.drop(client)
			}

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()

		case notification := <-h.notify:
			h.mutex.RLock()
			var stale []*pushClient
			for client := range h.clients {
				if !receives(client.session, notification) {
					continue
				}
				select {
				case client.send <- PushMessage{Type: "notification", Data: notification}:
				default:
					stale = append(stale, client)
				}
			}
			h.mutex.RUnlock()

			for _, client := range stale {
				h.drop(client)
			}
		}
	}
}

func (h *pushHub) drop(client *pushClient) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (c *pushClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		var message PushMessage
		if err := c.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if message.Type == "ping" {
			select {
			case c.send <- PushMessage{Type: "pong"}:
			default:
				return
			}
		}
	}
}

func (c *pushClient) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteJSON(message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

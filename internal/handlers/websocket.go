package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"arcade-rewards-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler streams integrity decisions and anomalies to connected ops
// clients. It implements services.EventBroadcaster; drops are fine, this is a
// live view, not the system of record.
type WebSocketHandler struct {
	hub *WebSocketHub
}

type WebSocketHub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan *Message
}

type Message struct {
	Type      string      `json:"type"`
	Wallet    string      `json:"wallet,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewWebSocketHandler() *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	h.hub.register <- conn

	defer func() {
		h.hub.unregister <- conn
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if msg.Type == "PING" {
			conn.WriteJSON(Message{Type: "PONG", Timestamp: time.Now().Unix()})
		}
	}
}

// BroadcastDecision implements services.EventBroadcaster.
func (h *WebSocketHandler) BroadcastDecision(wallet string, gameType models.GameType, accepted bool, reasons []models.Reason) {
	h.send(&Message{
		Type:      "DECISION",
		Wallet:    wallet,
		Timestamp: time.Now().Unix(),
		Data: gin.H{
			"game_type": gameType,
			"accepted":  accepted,
			"reasons":   reasons,
		},
	})
}

// BroadcastAnomaly implements services.EventBroadcaster.
func (h *WebSocketHandler) BroadcastAnomaly(record *models.AnomalyRecord) {
	h.send(&Message{
		Type:      "ANOMALY",
		Wallet:    record.Wallet,
		Timestamp: record.Timestamp.Unix(),
		Data:      record,
	})
}

func (h *WebSocketHandler) send(msg *Message) {
	select {
	case h.hub.broadcast <- msg:
	default:
		// Feed is saturated; drop rather than block the request path.
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case conn := <-hub.register:
			hub.clients[conn] = true
			log.Printf("Ops client connected (%d active)", len(hub.clients))

		case conn := <-hub.unregister:
			if _, ok := hub.clients[conn]; ok {
				delete(hub.clients, conn)
				log.Printf("Ops client disconnected (%d active)", len(hub.clients))
			}

		case msg := <-hub.broadcast:
			for conn := range hub.clients {
				if err := conn.WriteJSON(msg); err != nil {
					conn.Close()
					delete(hub.clients, conn)
				}
			}
		}
	}
}

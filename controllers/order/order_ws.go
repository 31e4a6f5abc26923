// order_ws.go
package orderControllers

import (
	"net/http"
	"sync"

	"github.com/Diana725/thriftify/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// StatusPublisher delivers order-status changes to the order's owner.
// Delivery is fire-and-forget; a failed push never fails the status change.
type StatusPublisher interface {
	PublishStatus(userID string, orderID uint, status models.OrderStatus)
}

// StatusEvent is the wire format pushed to connected clients.
type StatusEvent struct {
	OrderID     uint               `json:"order_id"`
	OrderStatus models.OrderStatus `json:"order_status"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub keeps websocket connections grouped by user id so status events only
// reach the order's owner.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*websocket.Conn]bool)}
}

// WebSocketHandler upgrades the connection and parks it under the
// authenticated user until the client goes away.
func (h *Hub) WebSocketHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		h.register(userID, conn)
		defer h.unregister(userID, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}

func (h *Hub) register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
}

func (h *Hub) unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[userID], conn)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

func (h *Hub) PublishStatus(userID string, orderID uint, status models.OrderStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[userID] {
		if err := conn.WriteJSON(StatusEvent{OrderID: orderID, OrderStatus: status}); err != nil {
			conn.Close()
			delete(h.clients[userID], conn)
		}
	}
}

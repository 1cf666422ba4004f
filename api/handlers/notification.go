package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/finblood/finblood2/models"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NotificationHub tracks connected users (userId -> *websocket.Conn) and
// mirrors freshly written notifications to any of them who are online
type NotificationHub struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

// NewNotificationHub creates an empty hub
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients: make(map[string]*websocket.Conn),
	}
}

// HandleNotificationsWebSocket upgrades the connection and registers the
// user for live notification mirroring
func (h *NotificationHub) HandleNotificationsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade error", "error", err)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		conn.Close()
		return
	}

	h.mutex.Lock()
	if displaced, ok := h.clients[userID]; ok {
		displaced.Close()
	}
	h.clients[userID] = conn
	h.mutex.Unlock()
	zap.S().Infow("user connected to /ws/notifications", "userId", userID)

	conn.SetCloseHandler(func(code int, text string) error {
		h.mutex.Lock()
		// Only deregister if this connection is still the registered one; a
		// reconnect may have replaced it already.
		if h.clients[userID] == conn {
			delete(h.clients, userID)
		}
		h.mutex.Unlock()
		zap.S().Infow("user disconnected from /ws/notifications", "userId", userID)
		return nil
	})

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

// NotifyUser pushes a just-saved notification to the user's websocket, if
// they are connected. Delivery is best effort. The hub mutex is held for the
// whole write: websocket connections allow only one writer at a time, and
// callers may notify the same user from concurrent goroutines.
func (h *NotificationHub) NotifyUser(userID string, notification models.Notification) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conn, exists := h.clients[userID]
	if !exists {
		return
	}

	err := conn.WriteJSON(map[string]interface{}{
		"event": "new_notification",
		"data":  notification,
	})
	if err != nil {
		zap.S().Warnw("error mirroring notification over websocket", "userId", userID, "error", err)
		delete(h.clients, userID)
		conn.Close()
	}
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/finblood/finblood2/models"
)

func dialHub(t *testing.T, hub *NotificationHub, userID string) (*websocket.Conn, func()) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.HandleNotificationsWebSocket))
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?userId=" + userID

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.NoError(t, err)

	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func TestNotificationHub_NotifyUser(t *testing.T) {
	hub := NewNotificationHub()

	conn, cleanup := dialHub(t, hub, "user-1")
	defer cleanup()

	notification := models.Notification{
		UserID:  "user-1",
		Message: "Permintaan donor darah darurat. Apakah Anda bersedia untuk mendonor?",
		Type:    models.NotificationTypeDonorRequest,
	}

	// Registration is asynchronous relative to the dial.
	assert.Eventually(t, func() bool {
		hub.mutex.Lock()
		defer hub.mutex.Unlock()
		_, ok := hub.clients["user-1"]
		return ok
	}, time.Second, 10*time.Millisecond)

	hub.NotifyUser("user-1", notification)

	var envelope struct {
		Event string              `json:"event"`
		Data  models.Notification `json:"data"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	err := conn.ReadJSON(&envelope)
	assert.NoError(t, err)
	assert.Equal(t, "new_notification", envelope.Event)
	assert.Equal(t, "user-1", envelope.Data.UserID)
	assert.Equal(t, notification.Message, envelope.Data.Message)
}

func TestNotificationHub_ConcurrentNotifyUser(t *testing.T) {
	hub := NewNotificationHub()

	conn, cleanup := dialHub(t, hub, "user-1")
	defer cleanup()

	assert.Eventually(t, func() bool {
		hub.mutex.Lock()
		defer hub.mutex.Unlock()
		_, ok := hub.clients["user-1"]
		return ok
	}, time.Second, 10*time.Millisecond)

	// A dispatch writes one in-app record per donor record, so a user who
	// registered several donors is notified from concurrent goroutines.
	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.NotifyUser("user-1", models.Notification{
				UserID: "user-1",
				Type:   models.NotificationTypeDonorRequest,
			})
		}()
	}
	wg.Wait()

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	for i := 0; i < writers; i++ {
		var envelope struct {
			Event string              `json:"event"`
			Data  models.Notification `json:"data"`
		}
		err := conn.ReadJSON(&envelope)
		assert.NoError(t, err)
		assert.Equal(t, "new_notification", envelope.Event)
	}
}

func TestNotificationHub_ReconnectClosesPreviousConnection(t *testing.T) {
	hub := NewNotificationHub()

	first, cleanupFirst := dialHub(t, hub, "user-1")
	defer cleanupFirst()

	var firstServerConn *websocket.Conn
	assert.Eventually(t, func() bool {
		hub.mutex.Lock()
		defer hub.mutex.Unlock()
		firstServerConn = hub.clients["user-1"]
		return firstServerConn != nil
	}, time.Second, 10*time.Millisecond)

	second, cleanupSecond := dialHub(t, hub, "user-1")
	defer cleanupSecond()

	assert.Eventually(t, func() bool {
		hub.mutex.Lock()
		defer hub.mutex.Unlock()
		return hub.clients["user-1"] != nil && hub.clients["user-1"] != firstServerConn
	}, time.Second, 10*time.Millisecond)

	// The displaced connection is closed server-side.
	_ = first.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := first.ReadMessage()
	assert.Error(t, err)

	// Notifications now reach the replacement connection.
	hub.NotifyUser("user-1", models.Notification{UserID: "user-1", Type: models.NotificationTypeDonorRequest})

	var envelope struct {
		Event string              `json:"event"`
		Data  models.Notification `json:"data"`
	}
	_ = second.SetReadDeadline(time.Now().Add(time.Second))
	err = second.ReadJSON(&envelope)
	assert.NoError(t, err)
	assert.Equal(t, "new_notification", envelope.Event)
}

func TestNotificationHub_NotifyUnknownUserIsNoop(t *testing.T) {
	hub := NewNotificationHub()

	// Nothing is connected; this must simply return.
	hub.NotifyUser("nobody", models.Notification{UserID: "nobody"})
}

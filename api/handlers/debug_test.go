package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/finblood/finblood2/api/handlers"
	dbmocks "github.com/finblood/finblood2/databases/mocks"
	"github.com/finblood/finblood2/models"
	pushmocks "github.com/finblood/finblood2/push/mocks"
)

func TestDebugFCMHandler_WrongSecret(t *testing.T) {
	h := handlers.Debug{DB: &dbmocks.UserDatabase{}, Gateway: &pushmocks.Gateway{}, Secret: testSecret}

	w := postJSON(t, h.DebugFCMHandler, "/debugFCM", map[string]string{
		"userId":    "uid-1",
		"secretKey": "wrong",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDebugFCMHandler_UserNotFound(t *testing.T) {
	userDB := &dbmocks.UserDatabase{}
	userDB.On("FindOne", mock.Anything, bson.M{"_id": "ghost"}).Return(nil, mongo.ErrNoDocuments)

	h := handlers.Debug{DB: userDB, Gateway: &pushmocks.Gateway{}, Secret: testSecret}

	w := postJSON(t, h.DebugFCMHandler, "/debugFCM", map[string]string{
		"userId":    "ghost",
		"secretKey": testSecret,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestDebugFCMHandler_NoToken(t *testing.T) {
	userDB := &dbmocks.UserDatabase{}
	gateway := &pushmocks.Gateway{}
	userDB.On("FindOne", mock.Anything, bson.M{"_id": "uid-1"}).
		Return(&models.User{ID: "uid-1", AppState: "background"}, nil)

	h := handlers.Debug{DB: userDB, Gateway: gateway, Secret: testSecret}

	w := postJSON(t, h.DebugFCMHandler, "/debugFCM", map[string]string{
		"userId":    "uid-1",
		"secretKey": testSecret,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["hasToken"])
	assert.Equal(t, "User has no FCM token registered", resp["message"])
	gateway.AssertNotCalled(t, "Send")
}

func TestDebugFCMHandler_SendSuccess(t *testing.T) {
	userDB := &dbmocks.UserDatabase{}
	gateway := &pushmocks.Gateway{}

	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	userDB.On("FindOne", mock.Anything, bson.M{"_id": "uid-1"}).
		Return(&models.User{ID: "uid-1", FCMToken: "a-very-long-device-token-value", TokenUpdatedAt: &ts}, nil)
	gateway.On("Send", mock.Anything, "a-very-long-device-token-value", mock.AnythingOfType("push.Payload")).
		Return("projects/finblood/messages/123", nil)

	h := handlers.Debug{DB: userDB, Gateway: gateway, Secret: testSecret}

	w := postJSON(t, h.DebugFCMHandler, "/debugFCM", map[string]string{
		"userId":    "uid-1",
		"secretKey": testSecret,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["hasToken"])
	assert.Equal(t, "a-very-long-device-t...", resp["tokenPrefix"])
	assert.Equal(t, "projects/finblood/messages/123", resp["messageId"])
	assert.Equal(t, "Push sent successfully", resp["message"])
}

func TestDebugFCMHandler_SendFailureStillReports(t *testing.T) {
	userDB := &dbmocks.UserDatabase{}
	gateway := &pushmocks.Gateway{}

	userDB.On("FindOne", mock.Anything, bson.M{"_id": "uid-1"}).
		Return(&models.User{ID: "uid-1", FCMToken: "short-token"}, nil)
	gateway.On("Send", mock.Anything, "short-token", mock.AnythingOfType("push.Payload")).
		Return("", assert.AnError)

	h := handlers.Debug{DB: userDB, Gateway: gateway, Secret: testSecret}

	w := postJSON(t, h.DebugFCMHandler, "/debugFCM", map[string]string{
		"userId":    "uid-1",
		"secretKey": testSecret,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Push send failed", resp["message"])
	assert.NotEmpty(t, resp["sendError"])
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/finblood/finblood2/api"
	"github.com/finblood/finblood2/databases"
	"github.com/finblood/finblood2/models"
	"github.com/finblood/finblood2/push"
)

// Debug exposes a push-delivery probe for support diagnostics
type Debug struct {
	DB      databases.UserDatabase
	Gateway push.Gateway
	Secret  string
}

type debugFCMBody struct {
	UserID    string `json:"userId"`
	SecretKey string `json:"secretKey"`
}

type debugFCMResponse struct {
	Success        bool   `json:"success"`
	UserID         string `json:"userId"`
	HasToken       bool   `json:"hasToken"`
	TokenPrefix    string `json:"tokenPrefix,omitempty"`
	TokenUpdatedAt string `json:"tokenUpdatedAt,omitempty"`
	LastAppResume  string `json:"lastAppResume,omitempty"`
	AppState       string `json:"appState,omitempty"`
	MessageID      string `json:"messageId,omitempty"`
	SendError      string `json:"sendError,omitempty"`
	Message        string `json:"message"`
}

// DebugFCMHandler inspects one user's push token and fires a single test
// message at it, reporting what happened
func (d Debug) DebugFCMHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body debugFCMBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "invalid request body"})
		return
	}
	if body.UserID == "" || body.SecretKey == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Missing required fields"})
		return
	}
	if !api.VerifySecret(body.SecretKey, d.Secret) {
		zap.S().Error("invalid secret key")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := d.DB.FindOne(ctx, bson.M{"_id": body.UserID})
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "User not found"})
		return
	}

	resp := debugFCMResponse{
		Success:  true,
		UserID:   user.ID,
		HasToken: user.FCMToken != "",
		AppState: user.AppState,
	}
	if user.TokenUpdatedAt != nil {
		resp.TokenUpdatedAt = user.TokenUpdatedAt.Format(time.RFC3339)
	}
	if user.LastAppResume != nil {
		resp.LastAppResume = user.LastAppResume.Format(time.RFC3339)
	}

	if user.FCMToken == "" {
		resp.Message = "User has no FCM token registered"
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	resp.TokenPrefix = tokenPrefix(user.FCMToken)

	payload := push.Payload{
		Title: "Test Notifikasi Finblood",
		Body:  "Ini adalah notifikasi percobaan. Jika Anda melihat ini, push notification bekerja dengan baik.",
		Data: map[string]string{
			"click_action": "FLUTTER_NOTIFICATION_CLICK",
			"type":         "debug",
		},
	}

	messageID, sendErr := d.Gateway.Send(ctx, user.FCMToken, payload)
	if sendErr != nil {
		zap.S().Warnw("debug push send failed",
			"userId", user.ID, "tokenPrefix", resp.TokenPrefix, "error", sendErr)
		resp.SendError = sendErr.Error()
		resp.Message = "Push send failed"
	} else {
		resp.MessageID = messageID
		resp.Message = "Push sent successfully"
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// tokenPrefix keeps log and debug output from leaking whole device tokens
func tokenPrefix(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/finblood/finblood2/api"
	"github.com/finblood/finblood2/databases"
	"github.com/finblood/finblood2/identity"
	"github.com/finblood/finblood2/models"
)

// Account handles identity-provider account requests
type Account struct {
	Provider identity.Provider
	DB       databases.UserDatabase
	Secret   string
}

type updateDisplayNameBody struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	SecretKey   string `json:"secretKey"`
}

// UpdateDisplayNameHandler updates a user's display name in the identity
// provider, looked up by email
func (a Account) UpdateDisplayNameHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body updateDisplayNameBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "invalid request body"})
		return
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	if body.Email == "" || body.DisplayName == "" || body.SecretKey == "" {
		zap.S().Errorw("missing required fields",
			"emailProvided", body.Email != "",
			"displayNameProvided", body.DisplayName != "",
			"secretKeyProvided", body.SecretKey != "",
		)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Missing required fields"})
		return
	}
	if !api.VerifySecret(body.SecretKey, a.Secret) {
		zap.S().Error("invalid secret key")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	zap.S().Infow("updating displayName", "email", body.Email)

	account, err := a.Provider.LookupByEmail(r.Context(), body.Email)
	if err != nil {
		if identity.IsNotFound(err) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "User not found"})
			return
		}
		errorJSON(w, "failed to look up user", err)
		return
	}

	if err := a.Provider.SetDisplayName(r.Context(), account.UID, body.DisplayName); err != nil {
		errorJSON(w, "failed to update display name", err)
		return
	}

	zap.S().Infow("successfully updated displayName", "email", body.Email)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.SimpleResponse{Success: true, Message: "Display name updated successfully"})
}

// DeleteAccountHandler removes a user from the identity provider and
// best-effort deletes the matching user document
func (a Account) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	uid := r.URL.Query().Get("uid")
	secretKey := r.URL.Query().Get("secretKey")

	if uid == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "UID parameter is required"})
		return
	}
	if !api.VerifySecret(secretKey, a.Secret) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Invalid authorization"})
		return
	}

	if err := a.Provider.DeleteAccount(r.Context(), uid); err != nil {
		errorJSON(w, "failed to delete user", err)
		return
	}
	zap.S().Infow("user deleted from identity provider", "uid", uid)

	// Document cleanup is best effort; a failure here does not fail the
	// request.
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if _, err := a.DB.DeleteOne(ctx, bson.M{"_id": uid}); err != nil {
		zap.S().Errorw("error deleting user document", "uid", uid, "error", err)
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.SimpleResponse{
		Success: true,
		Message: fmt.Sprintf("User %s successfully deleted", uid),
	})
}

// errorJSON logs err and writes a 500 with the json failure envelope
func errorJSON(w http.ResponseWriter, message string, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: err.Error()})
}

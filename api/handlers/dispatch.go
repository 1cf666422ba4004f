package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/finblood/finblood2/api"
	"github.com/finblood/finblood2/dispatch"
	"github.com/finblood/finblood2/models"
)

// Dispatch exposes the donor-request notification engine over HTTP
type Dispatch struct {
	Engine *dispatch.Engine
	Secret string
}

type dispatchRequestBody struct {
	Kampus        string `json:"kampus"`
	GolonganDarah string `json:"golonganDarah"`
	SecretKey     string `json:"secretKey"`
}

// SendAdminNotificationHandler runs one notification dispatch for the given
// donor filters and reports the aggregate delivery counts
func (d Dispatch) SendAdminNotificationHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body dispatchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "invalid request body"})
		return
	}

	if body.SecretKey == "" {
		zap.S().Error("missing required fields: secretKey")
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

	ctx, cancel := api.WithDispatchTimeout(r.Context())
	defer cancel()

	result, err := d.Engine.Dispatch(ctx, dispatch.Request{
		Kampus:        body.Kampus,
		GolonganDarah: body.GolonganDarah,
	})
	if err != nil {
		switch {
		case errors.Is(err, dispatch.ErrEmptyAudience):
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: err.Error()})
		case errors.Is(err, dispatch.ErrPersistenceFailure):
			zap.S().With(err).Error("dispatch aborted, in-app writes failed")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Failed to save notifications to app"})
		default:
			zap.S().With(err).Error("dispatch failed")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: err.Error()})
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.DispatchResponse{
		Success:                   true,
		Message:                   result.Message,
		TotalSent:                 result.TotalSent,
		TotalFailed:               result.TotalFailed,
		TokensRefreshed:           result.TokensRefreshed,
		RecipientCount:            result.RecipientCount,
		InAppNotificationsSaved:   result.InAppSaved,
		PushNotificationAttempted: result.PushAttempted,
		OriginalDonorCount:        result.OriginalDonorCount,
		AdminUsersFiltered:        result.AdminUsersFiltered,
	})
}

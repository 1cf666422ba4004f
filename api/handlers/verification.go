package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/finblood/finblood2/api"
	"github.com/finblood/finblood2/databases"
	"github.com/finblood/finblood2/identity"
	"github.com/finblood/finblood2/models"
	templates "github.com/finblood/finblood2/templates/html"
)

// Verification sends email-verification mails through sendgrid, using links
// minted by the identity provider
type Verification struct {
	Provider       identity.Provider
	DB             databases.UserDatabase
	Secret         string
	RedirectURL    string
	SendgridAPIKey string
}

type verificationBody struct {
	UserID    string `json:"userId"`
	SecretKey string `json:"secretKey"`
}

// SendVerificationEmailHandler sends the initial verification email for a
// newly registered user
func (v Verification) SendVerificationEmailHandler(w http.ResponseWriter, r *http.Request) {
	v.handle(w, r, false)
}

// ResendVerificationEmailHandler sends a fresh verification email when the
// user asks for another one
func (v Verification) ResendVerificationEmailHandler(w http.ResponseWriter, r *http.Request) {
	v.handle(w, r, true)
}

func (v Verification) handle(w http.ResponseWriter, r *http.Request, resend bool) {
	w.Header().Set("Content-Type", "application/json")

	var body verificationBody
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
	if !api.VerifySecret(body.SecretKey, v.Secret) {
		zap.S().Error("invalid secret key")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := v.DB.FindOne(ctx, bson.M{"_id": body.UserID})
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "User not found"})
		return
	}
	if user.Email == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "User has no email address"})
		return
	}

	account, err := v.Provider.LookupByEmail(ctx, user.Email)
	if err != nil {
		if identity.IsNotFound(err) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "User not found"})
			return
		}
		errorJSON(w, "failed to look up user", err)
		return
	}
	if account.EmailVerified {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(models.SimpleResponse{Success: true, Message: "Email already verified"})
		return
	}

	link, err := v.Provider.EmailVerificationLink(ctx, user.Email, v.RedirectURL)
	if err != nil {
		errorJSON(w, "failed to generate verification link", err)
		return
	}

	// Mail delivery happens in the background so a slow sendgrid call never
	// blocks the response.
	go v.deliver(*user, link, resend)

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.SimpleResponse{Success: true, Message: "Verification email sent"})
}

func (v Verification) deliver(user models.User, link string, resend bool) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorw("recovered from panic while sending verification email", "panic", r)
		}
	}()

	displayName := firstName(user.Nama)
	from := mail.NewEmail("Finblood", "finbloodapp@gmail.com")
	to := mail.NewEmail(displayName, user.Email)
	htmlContent := templates.RenderVerificationEmail(displayName, user.Email, link, resend)
	plainText := "Halo " + displayName + ", silakan verifikasi email Anda melalui tautan berikut: " + link
	message := mail.NewSingleEmail(from, "Verifikasi Email Finblood", to, plainText, htmlContent)

	client := sendgrid.NewSendClient(v.SendgridAPIKey)
	response, err := client.Send(message)

	ctx, cancel := api.WithQueryTimeout(nil)
	defer cancel()

	now := time.Now()
	if err != nil || response.StatusCode >= 400 {
		if err == nil {
			zap.S().Errorw("sendgrid rejected verification email",
				"userId", user.ID, "status", response.StatusCode, "body", response.Body)
		} else {
			zap.S().Errorw("failed to send verification email", "userId", user.ID, "error", err)
		}
		errText := "sendgrid send failed"
		if err != nil {
			errText = err.Error()
		}
		update := bson.M{"$set": bson.M{
			"verificationEmailError":   errText,
			"verificationEmailErrorAt": now,
		}}
		if _, dbErr := v.DB.UpdateOne(ctx, bson.M{"_id": user.ID}, update); dbErr != nil {
			zap.S().Errorw("failed to record verification email error", "userId", user.ID, "error", dbErr)
		}
		return
	}

	zap.S().Infow("verification email sent", "userId", user.ID, "email", user.Email, "resend", resend)

	set := bson.M{
		"verificationEmailSent":   true,
		"verificationEmailSentAt": now,
	}
	if resend {
		set["resendVerification"] = false
	}
	if _, dbErr := v.DB.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set}); dbErr != nil {
		zap.S().Errorw("failed to record verification email send", "userId", user.ID, "error", dbErr)
	}
}

// firstName trims the user's name down to its first word for the greeting
func firstName(nama string) string {
	fields := strings.Fields(nama)
	if len(fields) == 0 {
		return "Pengguna"
	}
	return fields[0]
}

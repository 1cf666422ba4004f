package models

import "time"

// Roles that can appear on a user document. Anything else is treated as a
// regular user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User holds the structure for the users collection in mongo. Documents are
// keyed by the identity-provider uid, not an ObjectID.
type User struct {
	ID    string `json:"_id" bson:"_id"`
	Nama  string `json:"nama" bson:"nama,omitempty"`
	Email string `json:"email" bson:"email,omitempty"`
	Role  string `json:"role" bson:"role,omitempty"`

	// Push token lifecycle. A token without tokenUpdatedAt is treated as
	// maximally stale.
	FCMToken       string     `json:"fcmToken" bson:"fcmToken,omitempty"`
	TokenUpdatedAt *time.Time `json:"tokenUpdatedAt" bson:"tokenUpdatedAt,omitempty"`
	LastAppResume  *time.Time `json:"lastAppResume" bson:"lastAppResume,omitempty"`
	AppState       string     `json:"appState" bson:"appState,omitempty"`

	TokenRemovedAt       *time.Time `json:"tokenRemovedAt" bson:"tokenRemovedAt,omitempty"`
	TokenRemovalReason   string     `json:"tokenRemovalReason" bson:"tokenRemovalReason,omitempty"`
	NeedsTokenRefresh    bool       `json:"needsTokenRefresh" bson:"needsTokenRefresh,omitempty"`
	NeedsTokenValidation bool       `json:"needsTokenValidation" bson:"needsTokenValidation,omitempty"`
	LastTokenError       *time.Time `json:"lastTokenError" bson:"lastTokenError,omitempty"`
	LastTemporaryError   *time.Time `json:"lastTemporaryError" bson:"lastTemporaryError,omitempty"`
	LastErrorCode        string     `json:"lastErrorCode" bson:"lastErrorCode,omitempty"`

	// Verification email bookkeeping.
	VerificationEmailSent    bool       `json:"verificationEmailSent" bson:"verificationEmailSent,omitempty"`
	VerificationEmailSentAt  *time.Time `json:"verificationEmailSentAt" bson:"verificationEmailSentAt,omitempty"`
	VerificationEmailError   string     `json:"verificationEmailError" bson:"verificationEmailError,omitempty"`
	VerificationEmailErrorAt *time.Time `json:"verificationEmailErrorAt" bson:"verificationEmailErrorAt,omitempty"`
	ResendVerification       bool       `json:"resendVerification" bson:"resendVerification,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

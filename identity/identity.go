// Package identity wraps the firebase auth client behind the small provider
// interface the account handlers consume.
package identity

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ErrAccountNotFound is returned by Provider implementations that do not
// surface the firebase error types directly.
var ErrAccountNotFound = errors.New("account not found")

// Account is the subset of the identity-provider user record the handlers
// care about.
type Account struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
}

// Provider is the identity provider consumed by the account and verification
// handlers.
type Provider interface {
	LookupByEmail(ctx context.Context, email string) (*Account, error)
	SetDisplayName(ctx context.Context, uid, name string) error
	DeleteAccount(ctx context.Context, uid string) error
	// EmailVerificationLink returns a verification link that redirects to
	// redirectURL once the address is confirmed.
	EmailVerificationLink(ctx context.Context, email, redirectURL string) (string, error)
}

// IsNotFound reports whether the error means the account does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) || fbauth.IsUserNotFound(err)
}

type firebaseProvider struct {
	client *fbauth.Client
}

// NewFirebaseProvider builds a Provider backed by Firebase Auth using the
// given service-account key file.
func NewFirebaseProvider(ctx context.Context, credentialsPath string) (Provider, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path is not set")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	zap.S().Info("identity provider initialized")
	return &firebaseProvider{client: client}, nil
}

func (p *firebaseProvider) LookupByEmail(ctx context.Context, email string) (*Account, error) {
	rec, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &Account{
		UID:           rec.UID,
		Email:         rec.Email,
		DisplayName:   rec.DisplayName,
		EmailVerified: rec.EmailVerified,
	}, nil
}

func (p *firebaseProvider) SetDisplayName(ctx context.Context, uid, name string) error {
	_, err := p.client.UpdateUser(ctx, uid, (&fbauth.UserToUpdate{}).DisplayName(name))
	return err
}

func (p *firebaseProvider) DeleteAccount(ctx context.Context, uid string) error {
	return p.client.DeleteUser(ctx, uid)
}

func (p *firebaseProvider) EmailVerificationLink(ctx context.Context, email, redirectURL string) (string, error) {
	settings := &fbauth.ActionCodeSettings{
		URL:             redirectURL,
		HandleCodeInApp: false,
	}
	return p.client.EmailVerificationLinkWithSettings(ctx, email, settings)
}

package config

import (
	"os"

	"go.uber.org/zap"
)

// Config holds the project config values
type Config struct {
	URL                 string
	DatabaseName        string
	BaseURL             string
	Port                string
	AppSecretKey        string
	FirebaseCredentials string
	SendgridAPIKey      string
	VerifyRedirectURL   string
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:                 os.Getenv("DB_URI"),
		DatabaseName:        os.Getenv("DB_NAME"),
		BaseURL:             os.Getenv("BASE_URL"),
		Port:                os.Getenv("PORT"),
		AppSecretKey:        os.Getenv("APP_SECRET_KEY"),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS"),
		SendgridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		VerifyRedirectURL:   os.Getenv("VERIFY_REDIRECT_URL"),
	}

}

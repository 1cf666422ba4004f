package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/finblood/finblood2/api/scheduler"
	"github.com/finblood/finblood2/config"
	"github.com/finblood/finblood2/databases"
	"github.com/finblood/finblood2/dispatch"
	"github.com/finblood/finblood2/identity"
	"github.com/finblood/finblood2/models"
	"github.com/finblood/finblood2/push"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	dbHelper  databases.DatabaseHelper
	gateway   push.Gateway
	provider  identity.Provider
	scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	userDB := databases.NewUserDatabase(a.dbHelper)
	hub := NewNotificationHub()

	engine := dispatch.NewEngine(
		databases.NewDonorDatabase(a.dbHelper),
		userDB,
		databases.NewNotificationDatabase(a.dbHelper),
		databases.NewDispatchLogDatabase(a.dbHelper),
		a.gateway,
		hub,
	)

	d := Dispatch{Engine: engine, Secret: a.Config.AppSecretKey}
	acct := Account{Provider: a.provider, DB: userDB, Secret: a.Config.AppSecretKey}
	v := Verification{
		Provider:       a.provider,
		DB:             userDB,
		Secret:         a.Config.AppSecretKey,
		RedirectURL:    a.Config.VerifyRedirectURL,
		SendgridAPIKey: a.Config.SendgridAPIKey,
	}
	dbg := Debug{DB: userDB, Gateway: a.gateway, Secret: a.Config.AppSecretKey}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	r.Handle("/sendAdminNotification", http.HandlerFunc(d.SendAdminNotificationHandler)).Methods("POST")
	r.Handle("/updateUserDisplayName", http.HandlerFunc(acct.UpdateDisplayNameHandler)).Methods("POST")
	r.Handle("/deleteUserAccount", http.HandlerFunc(acct.DeleteAccountHandler)).Methods("GET")
	r.Handle("/sendVerificationEmail", http.HandlerFunc(v.SendVerificationEmailHandler)).Methods("POST")
	r.Handle("/resendVerificationEmail", http.HandlerFunc(v.ResendVerificationEmailHandler)).Methods("POST")
	r.Handle("/debugFCM", http.HandlerFunc(dbg.DebugFCMHandler)).Methods("POST")

	r.HandleFunc("/ws/notifications", hub.HandleNotificationsWebSocket)

	return r
}

// Initialize is invoked by main to connect with the database, the firebase
// clients and the scheduler, and to create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("finblood-api has connected to the database")

	ctx := context.Background()
	a.gateway, err = push.NewFCMGateway(ctx, a.Config.FirebaseCredentials)
	if err != nil {
		zap.S().With(err).Error("failed to initialize push gateway")
		return err
	}

	a.provider, err = identity.NewFirebaseProvider(ctx, a.Config.FirebaseCredentials)
	if err != nil {
		zap.S().With(err).Error("failed to initialize identity provider")
		return err
	}

	a.scheduler = scheduler.NewScheduler(
		databases.NewDispatchLogDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
	)
	a.scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

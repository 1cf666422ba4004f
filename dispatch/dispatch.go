// Package dispatch implements the donor-request notification engine: audience
// resolution, role filtering, the durable in-app write, push fan-out and the
// token lifecycle policy.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/finblood/finblood2/databases"
	"github.com/finblood/finblood2/models"
	"github.com/finblood/finblood2/push"
)

// Filter sentinel values meaning "no filter", as sent by the admin app.
const (
	AllKampus        = "Semua Kampus"
	AllGolonganDarah = "Semua Golongan Darah"
)

// ErrEmptyAudience is the base error for a dispatch that resolved nobody.
// ErrNoMatchingDonors and ErrNoEligibleRecipients both match it with
// errors.Is; they stay distinct so the caller can tell "no donors" from
// "everyone filtered out".
var (
	ErrEmptyAudience        = errors.New("empty audience")
	ErrNoMatchingDonors     = fmt.Errorf("%w: no donors found matching the criteria", ErrEmptyAudience)
	ErrNoEligibleRecipients = fmt.Errorf("%w: no valid non-admin users found matching the criteria", ErrEmptyAudience)

	// ErrPersistenceFailure means the in-app notification write failed for
	// every recipient. Push is never attempted in that case.
	ErrPersistenceFailure = errors.New("failed to save notifications to app")
)

// Request carries the audience filters for one dispatch.
type Request struct {
	Kampus        string
	GolonganDarah string
}

// Result aggregates the outcome of one dispatch run.
type Result struct {
	RecipientCount     int
	InAppSaved         int
	TotalSent          int
	TotalFailed        int
	TokensRefreshed    int
	PushAttempted      bool
	OriginalDonorCount int
	AdminUsersFiltered int
	Message            string
}

// Mirror receives every successfully written in-app record, e.g. to forward
// it to a connected websocket client. Implementations must not block.
type Mirror interface {
	NotifyUser(userID string, notification models.Notification)
}

// Engine wires the document store and push gateway together for one dispatch
// operation. All fields except Mirror are required.
type Engine struct {
	Donors        databases.DonorDatabase
	Users         databases.UserDatabase
	Notifications databases.NotificationDatabase
	Logs          databases.DispatchLogDatabase
	Gateway       push.Gateway
	Mirror        Mirror

	now func() time.Time
}

// NewEngine builds a dispatch engine over the given collaborators. mirror may
// be nil.
func NewEngine(donors databases.DonorDatabase, users databases.UserDatabase,
	notifications databases.NotificationDatabase, logs databases.DispatchLogDatabase,
	gateway push.Gateway, mirror Mirror) *Engine {
	return &Engine{
		Donors:        donors,
		Users:         users,
		Notifications: notifications,
		Logs:          logs,
		Gateway:       gateway,
		Mirror:        mirror,
		now:           time.Now,
	}
}

// Dispatch runs one donor-request notification fan-out. The in-app write is a
// hard precondition: once it has (at least partially) succeeded the run
// reports success, and every push-phase problem degrades to counts in the
// Result.
func (e *Engine) Dispatch(ctx context.Context, req Request) (*Result, error) {
	kampus := normalizeFilter(req.Kampus, AllKampus)
	golonganDarah := normalizeFilter(req.GolonganDarah, AllGolonganDarah)

	zap.S().Infow("admin dispatch started", "kampus", kampus, "golonganDarah", golonganDarah)

	ownerIDs, err := e.resolveAudience(ctx, kampus, golonganDarah)
	if err != nil {
		return nil, err
	}

	recipients := e.filterRoles(ctx, ownerIDs)
	if len(recipients) == 0 {
		zap.S().Infow("no recipients left after role filtering", "donorCount", len(ownerIDs))
		return nil, ErrNoEligibleRecipients
	}

	filterDesc := FilterDescription(kampus, golonganDarah)
	message := DonorRequestMessage(filterDesc)

	result := &Result{
		RecipientCount:     len(recipients),
		OriginalDonorCount: len(ownerIDs),
		AdminUsersFiltered: len(ownerIDs) - len(recipients),
	}

	// Durable in-app records come first; push is layered on top of them.
	saved, err := e.writeInAppNotifications(ctx, recipients, message, kampus, golonganDarah, filterDesc)
	if err != nil {
		return nil, err
	}
	result.InAppSaved = saved

	e.pushPhase(ctx, recipients, golonganDarah, message, result)

	e.writeAuditLog(ctx, message, kampus, golonganDarah, filterDesc, result)

	if result.PushAttempted {
		result.Message = fmt.Sprintf(
			"Donor request notifications sent successfully. Push notifications: %d sent, %d failed, %d tokens refreshed. In-app notifications: %d saved.",
			result.TotalSent, result.TotalFailed, result.TokensRefreshed, result.InAppSaved)
	} else {
		result.Message = fmt.Sprintf(
			"Donor request notifications saved to app successfully. No push notifications sent (no valid FCM tokens). In-app notifications: %d saved.",
			result.InAppSaved)
	}
	return result, nil
}

// pushPhase runs token validation, the batched gateway sends and the token
// lifecycle updates. It never fails the dispatch: every error degrades to
// counts on the result.
func (e *Engine) pushPhase(ctx context.Context, recipients []string, golonganDarah, message string, result *Result) {
	users, err := e.Users.FindByIDs(ctx, recipients)
	if err != nil {
		zap.S().Errorw("failed to load recipient accounts for push, continuing with in-app only", "error", err)
		return
	}

	targets := ValidateTokens(users, e.now())
	if len(targets) == 0 {
		zap.S().Info("no FCM tokens found, relying on in-app notifications only")
		return
	}

	result.PushAttempted = true
	payload := donorRequestPayload(message, golonganDarah)
	outcomes := e.sendBatches(ctx, targets, payload)

	for _, o := range outcomes {
		if o.Success {
			result.TotalSent++
		} else {
			result.TotalFailed++
		}
	}

	result.TokensRefreshed = e.applyTokenLifecycle(ctx, outcomes)

	zap.S().Infow("push notification sending complete",
		"totalSent", result.TotalSent,
		"totalFailed", result.TotalFailed,
		"tokensRefreshed", result.TokensRefreshed,
	)
}

func (e *Engine) writeAuditLog(ctx context.Context, message, kampus, golonganDarah, filterDesc string, result *Result) {
	entry := models.DispatchLog{
		Message:             message,
		FilterKampus:        kampus,
		FilterGolonganDarah: golonganDarah,
		FilterDescription:   filterDesc,
		RecipientCount:      result.RecipientCount,
		SuccessfulPushSends: result.TotalSent,
		FailedPushSends:     result.TotalFailed,
		TokensRefreshed:     result.TokensRefreshed,
		PushAttempted:       result.PushAttempted,
		SentBy:              "admin",
		Timestamp:           primitive.NewDateTimeFromTime(e.now()),
	}
	if _, err := e.Logs.InsertOne(ctx, entry); err != nil {
		// Audit entries are best effort and never affect the response.
		zap.S().Warnw("failed to save admin notification log", "error", err)
	}
}

// normalizeFilter collapses the "all" sentinel onto the empty string so the
// rest of the engine only deals with "set or not".
func normalizeFilter(value, sentinel string) string {
	if value == sentinel {
		return ""
	}
	return value
}

// FilterDescription renders the Indonesian filter clause embedded in the
// notification message, e.g. " dengan golongan darah O dari Kampus A".
func FilterDescription(kampus, golonganDarah string) string {
	switch {
	case kampus != "" && golonganDarah != "":
		return fmt.Sprintf(" dengan golongan darah %s dari %s", golonganDarah, kampus)
	case kampus != "":
		return fmt.Sprintf(" dari %s", kampus)
	case golonganDarah != "":
		return fmt.Sprintf(" dengan golongan darah %s", golonganDarah)
	}
	return ""
}

// DonorRequestMessage is the standard donor request text shown in-app and in
// the push notification body.
func DonorRequestMessage(filterDesc string) string {
	return fmt.Sprintf("Permintaan donor darah darurat%s. Apakah Anda bersedia untuk mendonor?", filterDesc)
}

func donorRequestPayload(message, golonganDarah string) push.Payload {
	if golonganDarah == "" {
		golonganDarah = "semua"
	}
	return push.Payload{
		Title: "Permintaan Donor Darah",
		Body:  message,
		Android: push.AndroidHints{
			Icon:     "ic_stat_finblood_logo",
			Color:    "#6C1022",
			Priority: "high",
		},
		APNS: push.APNSHints{Sound: "default"},
		Data: map[string]string{
			"click_action":   "FLUTTER_NOTIFICATION_CLICK",
			"screen":         "KonfirmasiBersediaPage",
			"type":           models.NotificationTypeDonorRequest,
			"golonganDarah":  golonganDarah,
			"notificationId": uuid.NewString(),
		},
	}
}

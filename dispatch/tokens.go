package dispatch

import (
	"time"

	"go.uber.org/zap"

	"github.com/finblood/finblood2/models"
)

// Token freshness policy. A token older than maxTokenAge belonging to an app
// that has not resumed within the inactivity window is still sent to, but
// flagged so its failures get closer scrutiny.
const (
	maxTokenAge      = 48 * time.Hour
	inactivityWindow = 6 * time.Hour
)

// Target is one send candidate: the owning user, their registered token and
// the staleness flag from validation.
type Target struct {
	UserID       string
	Token        string
	FlaggedStale bool
}

// ValidateTokens classifies each account's device token. Accounts without a
// token are excluded entirely. A missing tokenUpdatedAt or lastAppResume is
// treated as maximally stale.
func ValidateTokens(users []models.User, now time.Time) []Target {
	targets := make([]Target, 0, len(users))
	for _, user := range users {
		if user.FCMToken == "" {
			zap.S().Debugw("user has no FCM token", "userId", user.ID)
			continue
		}

		tokenAge := ageSince(user.TokenUpdatedAt, now)
		resumeAge := ageSince(user.LastAppResume, now)

		flagged := tokenAge >= maxTokenAge && resumeAge >= inactivityWindow
		if flagged {
			zap.S().Infow("token is very old and app inactive, will validate carefully",
				"userId", user.ID,
				"tokenAgeHours", int(tokenAge.Hours()),
				"resumeAgeHours", int(resumeAge.Hours()),
			)
		}

		targets = append(targets, Target{
			UserID:       user.ID,
			Token:        user.FCMToken,
			FlaggedStale: flagged,
		})
	}
	return targets
}

// ageSince returns the elapsed time since ts, or an effectively infinite age
// when the timestamp was never set.
func ageSince(ts *time.Time, now time.Time) time.Duration {
	if ts == nil {
		return time.Duration(1<<62 - 1)
	}
	return now.Sub(*ts)
}

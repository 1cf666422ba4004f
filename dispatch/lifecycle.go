package dispatch

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/finblood/finblood2/push"
)

// applyTokenLifecycle applies the three-tier failure policy to every failed
// outcome and returns how many token removals were scheduled.
//
//   - not-registered: the gateway confirms the token is permanently dead, so
//     the token field is deleted and the app is signalled to re-register.
//   - invalid token: possibly transient formatting problem; the token is kept
//     and only flagged for validation, since deletion is irreversible.
//   - anything else: assumed temporary (quota, network); the token is left
//     untouched and only the error is recorded.
//
// Updates fan out concurrently; their failures are logged and never surface
// to the dispatch result.
func (e *Engine) applyTokenLifecycle(ctx context.Context, outcomes []Outcome) int {
	now := e.now()

	var wg sync.WaitGroup
	refreshed := 0
	for _, outcome := range outcomes {
		if outcome.Success {
			continue
		}

		errMsg := ""
		if outcome.Err != nil {
			errMsg = outcome.Err.Error()
		}
		zap.S().Errorw("failed to send notification",
			"userId", outcome.UserID,
			"tokenPrefix", tokenPrefix(outcome.Token),
			"errorCode", outcome.ErrorCode,
			"error", errMsg,
			"flaggedStale", outcome.FlaggedStale,
		)

		var update bson.M
		switch outcome.ErrorCode {
		case push.CodeNotRegistered:
			refreshed++
			update = bson.M{
				"$unset": bson.M{"fcmToken": ""},
				"$set": bson.M{
					"tokenRemovedAt":     now,
					"tokenRemovalReason": outcome.ErrorCode + ": " + errMsg,
					"needsTokenRefresh":  true,
				},
			}
		case push.CodeInvalidToken:
			update = bson.M{
				"$set": bson.M{
					"lastTokenError":       now,
					"lastErrorCode":        outcome.ErrorCode,
					"needsTokenValidation": true,
				},
			}
		default:
			update = bson.M{
				"$set": bson.M{
					"lastTemporaryError": now,
					"lastErrorCode":      outcome.ErrorCode,
				},
			}
		}

		wg.Add(1)
		go func(userID string, update bson.M) {
			defer wg.Done()
			if _, err := e.Users.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
				zap.S().Errorw("failed to update token state", "userId", userID, "error", err)
			}
		}(outcome.UserID, update)
	}
	wg.Wait()
	return refreshed
}

// tokenPrefix truncates a token for logging; full tokens never go to the log.
func tokenPrefix(token string) string {
	if len(token) > 20 {
		return token[:20] + "..."
	}
	return token
}

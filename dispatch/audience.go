package dispatch

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// resolveAudience queries donor records by the (already normalized) filters
// and returns the owning user id of every match. Duplicates are preserved: a
// user owning two matching donor records appears twice, and deduplication is
// deliberately left to no one (each occurrence produces its own in-app
// record).
func (e *Engine) resolveAudience(ctx context.Context, kampus, golonganDarah string) ([]string, error) {
	filter := bson.M{}
	if kampus != "" {
		filter["kampus"] = kampus
	}
	if golonganDarah != "" {
		filter["golongan_darah"] = golonganDarah
	}

	donors, err := e.Donors.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]string, 0, len(donors))
	for _, donor := range donors {
		if donor.UserID == "" {
			zap.S().Warnw("donor record without user_id skipped", "donorId", donor.ID.Hex())
			continue
		}
		ownerIDs = append(ownerIDs, donor.UserID)
	}

	if len(ownerIDs) == 0 {
		return nil, ErrNoMatchingDonors
	}
	return ownerIDs, nil
}

// filterRoles drops admin accounts and unknown user ids from the audience.
// A missing user document excludes that id (fail-open logging only); a failed
// role lookup keeps it, since over-notifying an ambiguous account beats
// silently starving a legitimate donor.
func (e *Engine) filterRoles(ctx context.Context, ownerIDs []string) []string {
	filtered := make([]string, 0, len(ownerIDs))
	for _, userID := range ownerIDs {
		user, err := e.Users.FindOne(ctx, bson.M{"_id": userID})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				zap.S().Warnw("user document does not exist, excluding from audience", "userId", userID)
				continue
			}
			zap.S().Errorw("role lookup failed, keeping user in audience", "userId", userID, "error", err)
			filtered = append(filtered, userID)
			continue
		}
		if user.IsAdmin() {
			zap.S().Debugw("excluding admin user from notifications", "userId", userID)
			continue
		}
		filtered = append(filtered, userID)
	}
	return filtered
}

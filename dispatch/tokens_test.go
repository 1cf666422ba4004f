package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/finblood/finblood2/models"
)

func TestValidateTokens(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	fresh := now.Add(-time.Hour)
	oldToken := now.Add(-72 * time.Hour)
	recentResume := now.Add(-2 * time.Hour)
	staleResume := now.Add(-12 * time.Hour)

	tests := []struct {
		name         string
		user         models.User
		included     bool
		flaggedStale bool
	}{
		{
			name:     "no token is excluded",
			user:     models.User{ID: "u1"},
			included: false,
		},
		{
			name:     "fresh token",
			user:     models.User{ID: "u2", FCMToken: "t2", TokenUpdatedAt: &fresh, LastAppResume: &fresh},
			included: true,
		},
		{
			name:     "old token but app recently active",
			user:     models.User{ID: "u3", FCMToken: "t3", TokenUpdatedAt: &oldToken, LastAppResume: &recentResume},
			included: true,
		},
		{
			name:         "old token and inactive app is flagged",
			user:         models.User{ID: "u4", FCMToken: "t4", TokenUpdatedAt: &oldToken, LastAppResume: &staleResume},
			included:     true,
			flaggedStale: true,
		},
		{
			name:     "fresh token with stale resume",
			user:     models.User{ID: "u5", FCMToken: "t5", TokenUpdatedAt: &fresh, LastAppResume: &staleResume},
			included: true,
		},
		{
			name:         "missing timestamps treated as maximally stale",
			user:         models.User{ID: "u6", FCMToken: "t6"},
			included:     true,
			flaggedStale: true,
		},
		{
			name:         "missing resume with old token is flagged",
			user:         models.User{ID: "u7", FCMToken: "t7", TokenUpdatedAt: &oldToken},
			included:     true,
			flaggedStale: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targets := ValidateTokens([]models.User{tt.user}, now)
			if !tt.included {
				assert.Empty(t, targets)
				return
			}
			assert.Len(t, targets, 1)
			assert.Equal(t, tt.user.ID, targets[0].UserID)
			assert.Equal(t, tt.user.FCMToken, targets[0].Token)
			assert.Equal(t, tt.flaggedStale, targets[0].FlaggedStale)
		})
	}
}

func TestValidateTokens_MixedAudienceKeepsOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-time.Hour)

	users := []models.User{
		{ID: "a", FCMToken: "ta", TokenUpdatedAt: &fresh, LastAppResume: &fresh},
		{ID: "b"},
		{ID: "c", FCMToken: "tc", TokenUpdatedAt: &fresh, LastAppResume: &fresh},
	}

	targets := ValidateTokens(users, now)
	assert.Len(t, targets, 2)
	assert.Equal(t, "a", targets[0].UserID)
	assert.Equal(t, "c", targets[1].UserID)
}

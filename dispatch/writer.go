package dispatch

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/finblood/finblood2/models"
)

// writeInAppNotifications appends one notification record per recipient,
// fanning the inserts out concurrently. This step is the durability barrier
// of a dispatch: push is only attempted after it finishes. Individual write
// failures are logged and tolerated; only a total failure aborts the run
// with ErrPersistenceFailure.
func (e *Engine) writeInAppNotifications(ctx context.Context, recipients []string, message, kampus, golonganDarah, filterDesc string) (int, error) {
	ts := primitive.NewDateTimeFromTime(e.now())

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		saved int
	)
	for _, userID := range recipients {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			record := models.Notification{
				UserID:              userID,
				Message:             message,
				FilterKampus:        kampus,
				FilterGolonganDarah: golonganDarah,
				FilterDescription:   filterDesc,
				SentBy:              "admin",
				Type:                models.NotificationTypeDonorRequest,
				Timestamp:           ts,
			}
			if _, err := e.Notifications.InsertOne(ctx, record); err != nil {
				zap.S().Errorw("failed to save in-app notification", "userId", userID, "error", err)
				return
			}
			mu.Lock()
			saved++
			mu.Unlock()
			if e.Mirror != nil {
				e.Mirror.NotifyUser(userID, record)
			}
		}(userID)
	}
	wg.Wait()

	if saved == 0 {
		return 0, ErrPersistenceFailure
	}
	if saved < len(recipients) {
		zap.S().Warnw("some in-app notifications failed to save",
			"saved", saved, "recipients", len(recipients))
	}
	zap.S().Infow("in-app notifications saved", "count", saved)
	return saved, nil
}

package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/finblood/finblood2/databases"
)

// logRetention is how long dispatch audit entries are kept before the
// nightly sweep removes them.
const logRetention = 90 * 24 * time.Hour

// Scheduler handles periodic background jobs for notification housekeeping
type Scheduler struct {
	cron   *cron.Cron
	LogDB  databases.DispatchLogDatabase
	UserDB databases.UserDatabase
}

// NewScheduler creates a new scheduler instance
func NewScheduler(logDB databases.DispatchLogDatabase, userDB databases.UserDatabase) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		LogDB:  logDB,
		UserDB: userDB,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep old dispatch audit entries daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.sweepDispatchLogs)
	if err != nil {
		zap.S().Errorw("failed to register audit log retention job", "error", err)
	}

	// Report stale token counts daily at 2 AM UTC
	_, err = s.cron.AddFunc("0 2 * * *", s.reportStaleTokens)
	if err != nil {
		zap.S().Errorw("failed to register stale token report job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Notification scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Notification scheduler stopped")
}

// sweepDispatchLogs removes dispatch audit entries past the retention window
func (s *Scheduler) sweepDispatchLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-logRetention)
	deleted, err := s.LogDB.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		zap.S().Errorw("failed to sweep dispatch audit logs", "error", err)
		return
	}

	zap.S().Infow("Dispatch audit log sweep complete",
		"deleted", deleted,
		"cutoff", cutoff.Format(time.RFC3339),
	)
}

// reportStaleTokens logs how many users are flagged for token refresh or
// validation, so support can watch the backlog
func (s *Scheduler) reportStaleTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	needsRefresh, err := s.UserDB.CountDocuments(ctx, bson.M{"needsTokenRefresh": true})
	if err != nil {
		zap.S().Errorw("failed to count users needing token refresh", "error", err)
		return
	}

	needsValidation, err := s.UserDB.CountDocuments(ctx, bson.M{"needsTokenValidation": true})
	if err != nil {
		zap.S().Errorw("failed to count users needing token validation", "error", err)
		return
	}

	zap.S().Infow("Stale token report",
		"needsTokenRefresh", needsRefresh,
		"needsTokenValidation", needsValidation,
	)
}

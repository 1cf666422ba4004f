package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/finblood/finblood2/databases/mocks"
)

func TestNewScheduler(t *testing.T) {
	s := NewScheduler(&mocks.DispatchLogDatabase{}, &mocks.UserDatabase{})
	assert.NotNil(t, s)
	assert.NotNil(t, s.cron)
}

func TestSweepDispatchLogs(t *testing.T) {
	logDB := &mocks.DispatchLogDatabase{}
	logDB.On("DeleteOlderThan", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		age := time.Since(cutoff)
		return age > 89*24*time.Hour && age < 91*24*time.Hour
	})).Return(int64(3), nil)

	s := NewScheduler(logDB, &mocks.UserDatabase{})
	s.sweepDispatchLogs()

	logDB.AssertExpectations(t)
}

func TestSweepDispatchLogs_ErrorLoggedOnly(t *testing.T) {
	logDB := &mocks.DispatchLogDatabase{}
	logDB.On("DeleteOlderThan", mock.Anything, mock.Anything).Return(int64(0), assert.AnError)

	s := NewScheduler(logDB, &mocks.UserDatabase{})
	s.sweepDispatchLogs()

	logDB.AssertExpectations(t)
}

func TestReportStaleTokens(t *testing.T) {
	userDB := &mocks.UserDatabase{}
	userDB.On("CountDocuments", mock.Anything, bson.M{"needsTokenRefresh": true}).Return(int64(5), nil)
	userDB.On("CountDocuments", mock.Anything, bson.M{"needsTokenValidation": true}).Return(int64(2), nil)

	s := NewScheduler(&mocks.DispatchLogDatabase{}, userDB)
	s.reportStaleTokens()

	userDB.AssertExpectations(t)
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler(&mocks.DispatchLogDatabase{}, &mocks.UserDatabase{})
	s.Start()
	s.Stop()
}

package databases

// go generate: mockery --name DispatchLogDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/finblood/finblood2/models"
)

const dispatchLogCollectionName = "admin_notification_logs"

// DispatchLogDatabase contains the methods to use with the dispatch audit log
type DispatchLogDatabase interface {
	InsertOne(ctx context.Context, log models.DispatchLog) (InsertOneResultHelper, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type dispatchLogDatabase struct {
	db DatabaseHelper
}

// NewDispatchLogDatabase initializes a new instance of dispatch log database with the provided db connection
func NewDispatchLogDatabase(db DatabaseHelper) DispatchLogDatabase {
	return &dispatchLogDatabase{
		db: db,
	}
}

func (d *dispatchLogDatabase) InsertOne(ctx context.Context, log models.DispatchLog) (InsertOneResultHelper, error) {
	return d.db.Collection(dispatchLogCollectionName).InsertOne(ctx, log)
}

// DeleteOlderThan removes audit entries older than the cutoff. Used by the
// retention sweep in the scheduler.
func (d *dispatchLogDatabase) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{"timestamp": bson.M{"$lt": primitive.NewDateTimeFromTime(cutoff)}}
	return d.db.Collection(dispatchLogCollectionName).DeleteMany(ctx, filter)
}

package databases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/finblood/finblood2/databases"
	"github.com/finblood/finblood2/databases/mocks"
	"github.com/finblood/finblood2/models"
)

func TestDispatchLogDatabase_InsertOne(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	entry := models.DispatchLog{Message: "test", SentBy: "admin"}

	collectionHelper.(*mocks.CollectionHelper).
		On("InsertOne", context.Background(), entry).
		Return(nil, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "admin_notification_logs").Return(collectionHelper)

	logDba := databases.NewDispatchLogDatabase(dbHelper)

	_, err := logDba.InsertOne(context.Background(), entry)

	assert.NoError(t, err)
}

func TestDispatchLogDatabase_DeleteOlderThan(t *testing.T) {

	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}

	cutoff := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	collectionHelper.(*mocks.CollectionHelper).
		On("DeleteMany", context.Background(), bson.M{"timestamp": bson.M{"$lt": primitive.NewDateTimeFromTime(cutoff)}}).
		Return(int64(7), nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "admin_notification_logs").Return(collectionHelper)

	logDba := databases.NewDispatchLogDatabase(dbHelper)

	deleted, err := logDba.DeleteOlderThan(context.Background(), cutoff)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
}

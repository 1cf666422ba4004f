package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DispatchLog holds the structure for the admin_notification_logs collection
// in mongo. One document per dispatch, written best effort after the run.
type DispatchLog struct {
	ID                  primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Message             string             `json:"message" bson:"message"`
	FilterKampus        string             `json:"filter_kampus" bson:"filter_kampus,omitempty"`
	FilterGolonganDarah string             `json:"filter_golongan_darah" bson:"filter_golongan_darah,omitempty"`
	FilterDescription   string             `json:"filter_description" bson:"filter_description,omitempty"`
	RecipientCount      int                `json:"recipient_count" bson:"recipient_count"`
	SuccessfulPushSends int                `json:"successful_push_sends" bson:"successful_push_sends"`
	FailedPushSends     int                `json:"failed_push_sends" bson:"failed_push_sends"`
	TokensRefreshed     int                `json:"tokens_refreshed" bson:"tokens_refreshed"`
	PushAttempted       bool               `json:"push_notification_attempted" bson:"push_notification_attempted"`
	SentBy              string             `json:"sent_by" bson:"sent_by"`
	Timestamp           primitive.DateTime `json:"timestamp" bson:"timestamp"`
}

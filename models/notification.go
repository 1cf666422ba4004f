package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NotificationTypeDonorRequest tags in-app records created by an admin
// dispatch.
const NotificationTypeDonorRequest = "donor_request"

// Notification holds the structure for the notifications collection in mongo.
// One document per (dispatch, recipient); append-only, never mutated after
// creation.
type Notification struct {
	ID                  primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID              string             `json:"userId" bson:"userId"`
	Message             string             `json:"message" bson:"message"`
	FilterKampus        string             `json:"filter_kampus" bson:"filter_kampus,omitempty"`
	FilterGolonganDarah string             `json:"filter_golongan_darah" bson:"filter_golongan_darah,omitempty"`
	FilterDescription   string             `json:"filter_description" bson:"filter_description,omitempty"`
	SentBy              string             `json:"sent_by" bson:"sent_by"`
	Type                string             `json:"type" bson:"type"`
	Timestamp           primitive.DateTime `json:"timestamp" bson:"timestamp"`
}

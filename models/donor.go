package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Donor holds the structure for the pendonor collection in mongo. A user may
// own several donor records, one per registered donor profile.
type Donor struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Nama          string             `json:"nama" bson:"nama"`
	Kampus        string             `json:"kampus" bson:"kampus"`
	GolonganDarah string             `json:"golongan_darah" bson:"golongan_darah"`
	UserID        string             `json:"user_id" bson:"user_id,omitempty"`
	CreatedAt     primitive.DateTime `json:"created_at" bson:"created_at,omitempty"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is a quiz item. UserID is a soft owner reference: it is matched as a
// string and never checked against the users collection.
type Question struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	Tag          string             `bson:"tag" json:"tag"`
	Name         string             `bson:"name" json:"name"`
	Answer       string             `bson:"answer" json:"answer"`
	WrongOptions []string           `bson:"wrongOptions" json:"wrongOptions"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AuthToken is the single live bearer token of a user. Key is an opaque
// high-entropy value presented in the Authorization header.
type AuthToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    string        `bson:"user_id"`
	Key       string        `bson:"key"`
	CreatedAt time.Time     `bson:"created_at"`
}

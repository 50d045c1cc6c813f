package model

import "time"

// RoomLock is an advisory lock held for the duration of a booking write. It
// serializes the overlap check and the subsequent persistence write for one
// room, closing the check-then-act race between concurrent requests. Expired
// locks are reaped by a TTL index on expires_at.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

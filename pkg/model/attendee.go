package model

import "time"

// Attendee is a meeting participant identity, keyed by normalized email and
// created on first sight ("find or create").
type Attendee struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at"`
}

// BookingAttendee links an attendee email to a booking. The pair is unique;
// reconciliation adds and removes links to match the desired attendee set.
type BookingAttendee struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID string    `json:"booking_id" bson:"booking_id"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at"`
}

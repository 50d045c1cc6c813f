package model

import (
	"time"
)

// Booking is a room reservation mirrored to the external calendar provider.
// Wire and storage representations both use snake_case; the JSON tags are the
// bijective boundary mapping for round-tripping. ExternalEventID is set only
// once the calendar provider confirms the mirrored event; a persisted booking
// without one is an unsynchronized anomaly, not a valid steady state.
type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Description     string    `json:"description" bson:"description" validate:"required,min=1,max=200"`
	Start           time.Time `json:"start" bson:"start" validate:"required"`
	End             time.Time `json:"end" bson:"end" validate:"required,gtfield=Start"`
	RoomID          string    `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	OrganizerID     string    `json:"organizer_id" bson:"organizer_id" validate:"required"`
	ExternalEventID string    `json:"event_id,omitempty" bson:"event_id,omitempty"`
	Attendees       []string  `json:"attendees" bson:"attendees" validate:"omitempty,dive,email"`
	CreatedAt       time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty" bson:"updated_at" validate:"omitempty"`
}

// BookingInput is the wire shape of a create request. Start and end arrive as
// strings and are normalized into UTC instants before any rule runs; an
// offset-less timestamp is anchored in the business timezone.
type BookingInput struct {
	Description string   `json:"description"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	RoomID      string   `json:"room_id"`
	Attendees   []string `json:"attendees"`
}

// BookingUpdate carries a partial update; nil pointers and empty strings mean
// "leave unchanged". Organizer and id never change after creation.
type BookingUpdate struct {
	Description string    `json:"description,omitempty" validate:"omitempty,min=1,max=200"`
	Start       string    `json:"start,omitempty"`
	End         string    `json:"end,omitempty"`
	RoomID      string    `json:"room_id,omitempty" validate:"omitempty,mongodb"`
	Attendees   *[]string `json:"attendees,omitempty" validate:"omitempty,dive,email"`
}

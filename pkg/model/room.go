package model

import "time"

// Room is a bookable conference room. The (Name, Color) pair is unique across
// all rooms; neither field is unique on its own.
type Room struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Color     string    `json:"color" bson:"color" validate:"required,min=1,max=50"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at" validate:"omitempty"`
}

// RoomUpdate carries a partial room update.
type RoomUpdate struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Color string `json:"color,omitempty" validate:"omitempty,min=1,max=50"`
}

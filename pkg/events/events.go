// Package events publishes booking lifecycle notifications. Publishing is
// best effort: a broker failure is logged and never fails the request that
// produced the event.
package events

import (
	"context"
	"time"
)

const (
	TypeBookingCreated = "booking.created"
	TypeBookingUpdated = "booking.updated"
	TypeBookingCancelled = "booking.cancelled"
)

// Event describes a booking state change.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits booking events to whatever backend is configured.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

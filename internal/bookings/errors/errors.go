package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrSlotTaken = errors.New("slot is already booked for this room")

	ErrRoomNotFound = errors.New("room does not exist")

	ErrAlreadyEnded = errors.New("cannot cancel a meeting that has already ended")
)

package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrInvalidID = errors.New("invalid room ID format")

	ErrDuplicateNameColor = errors.New("room with the same name and color already exists")
)

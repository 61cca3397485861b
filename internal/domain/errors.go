package domain

import "errors"

// Sentinel errors shared by services and delivery.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateGuest is returned by storage when a guest with the same name, age and location exists.
	ErrDuplicateGuest = errors.New("guest already submitted")

	// ErrInsufficientGuests is returned when a reassignment is requested for fewer guests
	// than MinGuestsForReassignment.
	ErrInsufficientGuests = errors.New("not enough guests to reassign tables")

	// ErrTableConstraintViolation is returned when a reassignment would leave a table
	// outside [MinTableSize, MaxTableSize]. The guest list is left unchanged.
	ErrTableConstraintViolation = errors.New("table size constraints violated after reassignment")
)

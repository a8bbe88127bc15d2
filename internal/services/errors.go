package services

import "errors"

// Domain errors surfaced by the order path. Controllers map these to
// HTTP status codes and APIError payloads with errors.Is; none of them
// is fatal to the process.
var (
	// Admission
	ErrSlotFull = errors.New("time slot is fully booked")

	// Validation
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrUnavailableItem = errors.New("food item is not available")
	ErrCrossStall      = errors.New("all order items must belong to the same stall")

	// Lifecycle
	ErrTerminalState            = errors.New("order is in a terminal state")
	ErrInvalidTransition        = errors.New("status transition not allowed")
	ErrCancellationWindowClosed = errors.New("only pending orders can be cancelled by the student")
	ErrNotOrderOwner            = errors.New("order does not belong to this student")
)

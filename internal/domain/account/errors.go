package account

import "errors"

var (
	ErrNotFound = errors.New("account not found")

	// ErrInvalidScheduleState: e.g. recording a payment against an item that
	// is already paid or waived.
	ErrInvalidScheduleState = errors.New("invalid schedule state")

	// ErrIneligibleTransition: an officer status change not allowed from the
	// current account state.
	ErrIneligibleTransition = errors.New("ineligible account transition")

	// ErrConcurrentModification: optimistic version check failed on write.
	ErrConcurrentModification = errors.New("account modified concurrently")
)

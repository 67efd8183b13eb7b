package application

import "errors"

var (
	ErrNotFound = errors.New("application not found")

	// ErrMissingDocument: a document-completeness gate failed. Always wrapped
	// with the specific missing types.
	ErrMissingDocument = errors.New("missing required document")

	// ErrIneligibleTransition: the requested action is not valid from the
	// current state, or a non-document precondition failed.
	ErrIneligibleTransition = errors.New("ineligible transition")

	// ErrStageNotComplete: the in_review join condition is unmet.
	ErrStageNotComplete = errors.New("review stage not complete")

	// ErrConcurrentModification: optimistic version check failed on write.
	ErrConcurrentModification = errors.New("application modified concurrently")
)

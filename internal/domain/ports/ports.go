// Package ports declares the boundaries to collaborators that live outside
// the lifecycle engine: document storage, identity/eligibility services and
// notification delivery. Only their decision-relevant surface is modeled.
package ports

import (
	"context"

	"amanah-mortgage-backend/internal/domain/application"
)

// DocumentStore yields the document types and verification statuses known
// for an application. Upload/storage mechanics are out of scope.
type DocumentStore interface {
	GetDocuments(ctx context.Context, applicationID string) ([]application.Document, error)
}

// IdentityVerifier runs the system eligibility check for an application
// snapshot. The default implementation computes the debt-to-income rule
// locally; a remote bureau can be swapped in behind this interface.
type IdentityVerifier interface {
	CheckEligibility(ctx context.Context, a *application.FinancingApplication) (application.EligibilityCheck, error)
}

// Event is a post-commit notification payload.
type Event struct {
	Name    string         `json:"name"`
	Subject string         `json:"subject"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NotificationService is fire-and-forget after commit: a failure never rolls
// back the state transition, it is reported for retry instead.
type NotificationService interface {
	Notify(ctx context.Context, recipient string, ev Event) error
}

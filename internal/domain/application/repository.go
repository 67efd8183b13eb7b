package application

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *FinancingApplication) error
	GetByApplicationID(ctx context.Context, applicationID string) (*FinancingApplication, error)
	// GetByApplicationIDForUpdate locks the row for the current transaction.
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*FinancingApplication, error)
	// Save persists the aggregate with an optimistic version check; a stale
	// version fails with ErrConcurrentModification.
	Save(ctx context.Context, a *FinancingApplication) error

	// ListExpiredOffers returns applications sitting in offer_sent whose
	// offer expiry is strictly before the given instant.
	ListExpiredOffers(ctx context.Context, before time.Time) ([]FinancingApplication, error)

	UpsertDocument(ctx context.Context, d *Document) error
	GetDocuments(ctx context.Context, applicationRef uint64) ([]Document, error)

	CreateStages(ctx context.Context, stages []ApprovalStage) error
	GetStages(ctx context.Context, applicationRef uint64) ([]ApprovalStage, error)
	SaveStage(ctx context.Context, s *ApprovalStage) error

	AppendTransition(ctx context.Context, rec *TransitionRecord) error
	ListTransitions(ctx context.Context, applicationRef uint64) ([]TransitionRecord, error)
}

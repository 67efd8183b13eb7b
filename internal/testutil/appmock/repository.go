package appmock

import (
	"context"
	"time"

	domain "amanah-mortgage-backend/internal/domain/application"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying application.Repository. Fill in
// the fields a test needs; unfilled ones are benign no-ops.
type Repo struct {
	CreateFn                      func(ctx context.Context, a *domain.FinancingApplication) error
	GetByApplicationIDFn          func(ctx context.Context, applicationID string) (*domain.FinancingApplication, error)
	GetByApplicationIDForUpdateFn func(ctx context.Context, applicationID string) (*domain.FinancingApplication, error)
	SaveFn                        func(ctx context.Context, a *domain.FinancingApplication) error
	ListExpiredOffersFn           func(ctx context.Context, before time.Time) ([]domain.FinancingApplication, error)
	UpsertDocumentFn              func(ctx context.Context, d *domain.Document) error
	GetDocumentsFn                func(ctx context.Context, applicationRef uint64) ([]domain.Document, error)
	CreateStagesFn                func(ctx context.Context, stages []domain.ApprovalStage) error
	GetStagesFn                   func(ctx context.Context, applicationRef uint64) ([]domain.ApprovalStage, error)
	SaveStageFn                   func(ctx context.Context, s *domain.ApprovalStage) error
	AppendTransitionFn            func(ctx context.Context, rec *domain.TransitionRecord) error
	ListTransitionsFn             func(ctx context.Context, applicationRef uint64) ([]domain.TransitionRecord, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.FinancingApplication) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.FinancingApplication, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.FinancingApplication, error) {
	if m.GetByApplicationIDForUpdateFn != nil {
		return m.GetByApplicationIDForUpdateFn(ctx, applicationID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, a *domain.FinancingApplication) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) ListExpiredOffers(ctx context.Context, before time.Time) ([]domain.FinancingApplication, error) {
	if m.ListExpiredOffersFn != nil {
		return m.ListExpiredOffersFn(ctx, before)
	}
	return nil, nil
}

func (m *Repo) UpsertDocument(ctx context.Context, d *domain.Document) error {
	if m.UpsertDocumentFn != nil {
		return m.UpsertDocumentFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetDocuments(ctx context.Context, applicationRef uint64) ([]domain.Document, error) {
	if m.GetDocumentsFn != nil {
		return m.GetDocumentsFn(ctx, applicationRef)
	}
	return nil, nil
}

func (m *Repo) CreateStages(ctx context.Context, stages []domain.ApprovalStage) error {
	if m.CreateStagesFn != nil {
		return m.CreateStagesFn(ctx, stages)
	}
	return nil
}

func (m *Repo) GetStages(ctx context.Context, applicationRef uint64) ([]domain.ApprovalStage, error) {
	if m.GetStagesFn != nil {
		return m.GetStagesFn(ctx, applicationRef)
	}
	return nil, nil
}

func (m *Repo) SaveStage(ctx context.Context, s *domain.ApprovalStage) error {
	if m.SaveStageFn != nil {
		return m.SaveStageFn(ctx, s)
	}
	return nil
}

func (m *Repo) AppendTransition(ctx context.Context, rec *domain.TransitionRecord) error {
	if m.AppendTransitionFn != nil {
		return m.AppendTransitionFn(ctx, rec)
	}
	return nil
}

func (m *Repo) ListTransitions(ctx context.Context, applicationRef uint64) ([]domain.TransitionRecord, error) {
	if m.ListTransitionsFn != nil {
		return m.ListTransitionsFn(ctx, applicationRef)
	}
	return nil, nil
}

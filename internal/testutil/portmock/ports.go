package portmock

import (
	"context"
	"sync"

	appDomain "amanah-mortgage-backend/internal/domain/application"
	"amanah-mortgage-backend/internal/domain/ports"
)

var (
	_ ports.DocumentStore       = (*DocumentStore)(nil)
	_ ports.IdentityVerifier    = (*IdentityVerifier)(nil)
	_ ports.NotificationService = (*Notifier)(nil)
)

type DocumentStore struct {
	GetDocumentsFn func(ctx context.Context, applicationID string) ([]appDomain.Document, error)
}

func (m *DocumentStore) GetDocuments(ctx context.Context, applicationID string) ([]appDomain.Document, error) {
	if m.GetDocumentsFn != nil {
		return m.GetDocumentsFn(ctx, applicationID)
	}
	return nil, nil
}

type IdentityVerifier struct {
	CheckEligibilityFn func(ctx context.Context, a *appDomain.FinancingApplication) (appDomain.EligibilityCheck, error)
}

func (m *IdentityVerifier) CheckEligibility(ctx context.Context, a *appDomain.FinancingApplication) (appDomain.EligibilityCheck, error) {
	if m.CheckEligibilityFn != nil {
		return m.CheckEligibilityFn(ctx, a)
	}
	return appDomain.EligibilityCheck{Eligible: true}, nil
}

// Notifier records delivered events; tests inspect Sent after the fact. Safe
// for concurrent use since RunTick dispatches from worker goroutines.
type Notifier struct {
	NotifyFn func(ctx context.Context, recipient string, ev ports.Event) error

	mu   sync.Mutex
	Sent []ports.Event
}

func (m *Notifier) Notify(ctx context.Context, recipient string, ev ports.Event) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, ev)
	m.mu.Unlock()
	if m.NotifyFn != nil {
		return m.NotifyFn(ctx, recipient, ev)
	}
	return nil
}

func (m *Notifier) Events() []ports.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.Event, len(m.Sent))
	copy(out, m.Sent)
	return out
}

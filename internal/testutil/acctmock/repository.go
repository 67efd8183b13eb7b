package acctmock

import (
	"context"

	domain "amanah-mortgage-backend/internal/domain/account"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying account.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, acc *domain.MortgageAccount, items []domain.ScheduleItem) error
	GetByAccountIDFn          func(ctx context.Context, accountID string) (*domain.MortgageAccount, error)
	GetByAccountIDForUpdateFn func(ctx context.Context, accountID string) (*domain.MortgageAccount, error)
	GetByApplicationRefFn     func(ctx context.Context, applicationRef uint64) (*domain.MortgageAccount, error)
	SaveFn                    func(ctx context.Context, acc *domain.MortgageAccount) error
	GetScheduleFn             func(ctx context.Context, accountRef uint64) ([]domain.ScheduleItem, error)
	GetItemByItemIDFn         func(ctx context.Context, itemID string) (*domain.ScheduleItem, error)
	SaveItemFn                func(ctx context.Context, it *domain.ScheduleItem) error
	DeleteUnsettledFn         func(ctx context.Context, accountRef uint64) error
	CreateItemsFn             func(ctx context.Context, items []domain.ScheduleItem) error
	CreatePaymentFn           func(ctx context.Context, p *domain.Payment) error
	ListPaymentsFn            func(ctx context.Context, accountRef uint64) ([]domain.Payment, error)
	ListMonitoredFn           func(ctx context.Context) ([]domain.MortgageAccount, error)
}

func (m *Repo) Create(ctx context.Context, acc *domain.MortgageAccount, items []domain.ScheduleItem) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, acc, items)
	}
	return nil
}

func (m *Repo) GetByAccountID(ctx context.Context, accountID string) (*domain.MortgageAccount, error) {
	if m.GetByAccountIDFn != nil {
		return m.GetByAccountIDFn(ctx, accountID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*domain.MortgageAccount, error) {
	if m.GetByAccountIDForUpdateFn != nil {
		return m.GetByAccountIDForUpdateFn(ctx, accountID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByApplicationRef(ctx context.Context, applicationRef uint64) (*domain.MortgageAccount, error) {
	if m.GetByApplicationRefFn != nil {
		return m.GetByApplicationRefFn(ctx, applicationRef)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, acc *domain.MortgageAccount) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, acc)
	}
	return nil
}

func (m *Repo) GetSchedule(ctx context.Context, accountRef uint64) ([]domain.ScheduleItem, error) {
	if m.GetScheduleFn != nil {
		return m.GetScheduleFn(ctx, accountRef)
	}
	return nil, nil
}

func (m *Repo) GetItemByItemID(ctx context.Context, itemID string) (*domain.ScheduleItem, error) {
	if m.GetItemByItemIDFn != nil {
		return m.GetItemByItemIDFn(ctx, itemID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SaveItem(ctx context.Context, it *domain.ScheduleItem) error {
	if m.SaveItemFn != nil {
		return m.SaveItemFn(ctx, it)
	}
	return nil
}

func (m *Repo) DeleteUnsettled(ctx context.Context, accountRef uint64) error {
	if m.DeleteUnsettledFn != nil {
		return m.DeleteUnsettledFn(ctx, accountRef)
	}
	return nil
}

func (m *Repo) CreateItems(ctx context.Context, items []domain.ScheduleItem) error {
	if m.CreateItemsFn != nil {
		return m.CreateItemsFn(ctx, items)
	}
	return nil
}

func (m *Repo) CreatePayment(ctx context.Context, p *domain.Payment) error {
	if m.CreatePaymentFn != nil {
		return m.CreatePaymentFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListPayments(ctx context.Context, accountRef uint64) ([]domain.Payment, error) {
	if m.ListPaymentsFn != nil {
		return m.ListPaymentsFn(ctx, accountRef)
	}
	return nil, nil
}

func (m *Repo) ListMonitored(ctx context.Context) ([]domain.MortgageAccount, error) {
	if m.ListMonitoredFn != nil {
		return m.ListMonitoredFn(ctx)
	}
	return nil, nil
}

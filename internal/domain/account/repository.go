package account

import "context"

type Repository interface {
	// Create persists the account together with its generated schedule. The
	// unique index on application_ref makes duplicate activation impossible.
	Create(ctx context.Context, acc *MortgageAccount, items []ScheduleItem) error
	GetByAccountID(ctx context.Context, accountID string) (*MortgageAccount, error)
	GetByAccountIDForUpdate(ctx context.Context, accountID string) (*MortgageAccount, error)
	GetByApplicationRef(ctx context.Context, applicationRef uint64) (*MortgageAccount, error)
	// Save persists the aggregate with an optimistic version check; a stale
	// version fails with ErrConcurrentModification.
	Save(ctx context.Context, acc *MortgageAccount) error

	GetSchedule(ctx context.Context, accountRef uint64) ([]ScheduleItem, error)
	GetItemByItemID(ctx context.Context, itemID string) (*ScheduleItem, error)
	SaveItem(ctx context.Context, it *ScheduleItem) error
	// DeleteUnsettled removes upcoming/overdue rows ahead of restructuring
	// regeneration. Paid, partially paid and waived rows are historical and
	// never touched.
	DeleteUnsettled(ctx context.Context, accountRef uint64) error
	CreateItems(ctx context.Context, items []ScheduleItem) error

	CreatePayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, accountRef uint64) ([]Payment, error)

	// ListMonitored returns accounts still subject to automatic evaluation.
	ListMonitored(ctx context.Context) ([]MortgageAccount, error)
}

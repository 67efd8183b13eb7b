package uow

import (
	"context"

	"amanah-mortgage-backend/internal/domain/account"
	"amanah-mortgage-backend/internal/domain/application"
)

type Repos struct {
	Applications application.Repository
	Accounts     account.Repository
}

// UnitOfWork serializes entity mutations: a transition reads current state
// under lock, validates preconditions and writes the new state as one atomic
// unit. Side effects (notifications) run only after the transaction commits.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinApplicationTx locks the application row first, then passes it in.
	WithinApplicationTx(ctx context.Context, applicationID string, fn func(r Repos, a *application.FinancingApplication) error) error
	// WithinAccountTx locks the account row first, then passes it in.
	WithinAccountTx(ctx context.Context, accountID string, fn func(r Repos, acc *account.MortgageAccount) error) error
}

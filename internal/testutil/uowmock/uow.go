package uowmock

import (
	"context"

	acctDomain "amanah-mortgage-backend/internal/domain/account"
	appDomain "amanah-mortgage-backend/internal/domain/application"
	"amanah-mortgage-backend/internal/domain/uow"
	"amanah-mortgage-backend/internal/testutil/acctmock"
	"amanah-mortgage-backend/internal/testutil/appmock"
)

var _ uow.UnitOfWork = (*UoW)(nil)

// UoW runs transaction closures directly against the embedded mocks. There is
// no real transaction: an error from the closure simply propagates, which is
// enough to assert commit/rollback decisions in usecase tests.
type UoW struct {
	Applications *appmock.Repo
	Accounts     *acctmock.Repo

	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinApplicationTxFn func(ctx context.Context, applicationID string, fn func(r uow.Repos, a *appDomain.FinancingApplication) error) error
	WithinAccountTxFn     func(ctx context.Context, accountID string, fn func(r uow.Repos, acc *acctDomain.MortgageAccount) error) error
}

func New() *UoW {
	return &UoW{Applications: &appmock.Repo{}, Accounts: &acctmock.Repo{}}
}

func (m *UoW) repos() uow.Repos {
	return uow.Repos{Applications: m.Applications, Accounts: m.Accounts}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(m.repos())
}

func (m *UoW) WithinApplicationTx(ctx context.Context, applicationID string, fn func(r uow.Repos, a *appDomain.FinancingApplication) error) error {
	if m.WithinApplicationTxFn != nil {
		return m.WithinApplicationTxFn(ctx, applicationID, fn)
	}
	a, err := m.Applications.GetByApplicationIDForUpdate(ctx, applicationID)
	if err != nil {
		return err
	}
	return fn(m.repos(), a)
}

func (m *UoW) WithinAccountTx(ctx context.Context, accountID string, fn func(r uow.Repos, acc *acctDomain.MortgageAccount) error) error {
	if m.WithinAccountTxFn != nil {
		return m.WithinAccountTxFn(ctx, accountID, fn)
	}
	acc, err := m.Accounts.GetByAccountIDForUpdate(ctx, accountID)
	if err != nil {
		return err
	}
	return fn(m.repos(), acc)
}

package account

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	acctDomain "amanah-mortgage-backend/internal/domain/account"
	"amanah-mortgage-backend/internal/domain/ports"
	"amanah-mortgage-backend/internal/domain/uow"
	"amanah-mortgage-backend/pkg/clock"
)

type Usecase struct {
	accounts acctDomain.Repository
	uow      uow.UnitOfWork
	notifier ports.NotificationService
	clk      clock.Clock
	log      *zap.Logger
	moncfg   acctDomain.MonitorConfig
	workers  int
}

func NewUsecase(
	accounts acctDomain.Repository,
	tx uow.UnitOfWork,
	notifier ports.NotificationService,
	clk clock.Clock,
	log *zap.Logger,
	moncfg acctDomain.MonitorConfig,
	workers int,
) *Usecase {
	if workers <= 0 {
		workers = 1
	}
	return &Usecase{
		accounts: accounts, uow: tx, notifier: notifier,
		clk: clk, log: log, moncfg: moncfg, workers: workers,
	}
}

func (u *Usecase) GetSchedule(ctx context.Context, accountID string) ([]ScheduleItemDTO, error) {
	acc, err := u.accounts.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	items, err := u.accounts.GetSchedule(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	out := make([]ScheduleItemDTO, 0, len(items))
	for i := range items {
		out = append(out, *toItemDTO(&items[i]))
	}
	return out, nil
}

func (u *Usecase) GetStatus(ctx context.Context, accountID string) (*AccountStatusDTO, error) {
	acc, err := u.accounts.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	items, err := u.accounts.GetSchedule(ctx, acc.ID)
	if err != nil {
		return nil, err
	}
	a := acctDomain.Evaluate(acc, items, u.clk.Today(), u.moncfg)
	return &AccountStatusDTO{
		AccountID:            acc.AccountID,
		MortgageNumber:       acc.MortgageNumber,
		FinancingType:        string(acc.FinancingType),
		Status:               string(a.Status),
		OverdueDays:          a.OverdueDays,
		OverduePrincipal:     a.OverduePrincipal,
		OverdueProfit:        a.OverdueProfit,
		OverdueAmount:        a.OverduePrincipal.Add(a.OverdueProfit),
		Penalties:            a.Penalties,
		OutstandingPrincipal: a.OutstandingPrincipal,
		OutstandingProfit:    a.OutstandingProfit,
		OwnershipPercentage:  a.OwnershipPercentage,
		TransferEligible:     a.TransferEligible,
	}, nil
}

// RecordPayment applies a repayment to one schedule item and immediately
// re-evaluates the account. Partial amounts leave the item partially_paid;
// settling the last open item forces matured.
func (u *Usecase) RecordPayment(ctx context.Context, in RecordPaymentInput) (*ScheduleItemDTO, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", acctDomain.ErrInvalidScheduleState)
	}

	var dto *ScheduleItemDTO
	err := u.uow.WithinAccountTx(ctx, in.AccountID, func(r uow.Repos, acc *acctDomain.MortgageAccount) error {
		it, err := r.Accounts.GetItemByItemID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if it.AccountRef != acc.ID {
			return acctDomain.ErrNotFound
		}
		if it.Status.Settled() {
			return fmt.Errorf("%w: item %s already %s", acctDomain.ErrInvalidScheduleState, it.ItemID, it.Status)
		}

		it.PaidAmount = it.PaidAmount.Add(in.Amount)
		if it.PaidAmount.GreaterThanOrEqual(it.Amount) {
			it.Status = acctDomain.ItemPaid
			d := in.ValueDate.UTC()
			it.PaymentDate = &d
		} else {
			it.Status = acctDomain.ItemPartiallyPaid
		}
		if err := r.Accounts.SaveItem(ctx, it); err != nil {
			return err
		}
		if err := r.Accounts.CreatePayment(ctx, &acctDomain.Payment{
			PaymentID:  uuid.NewString(),
			AccountRef: acc.ID,
			ItemID:     it.ItemID,
			Amount:     in.Amount,
			ValueDate:  in.ValueDate.UTC(),
		}); err != nil {
			return err
		}

		if err := u.reevaluate(ctx, r, acc); err != nil {
			return err
		}
		dto = toItemDTO(it)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("payment recorded",
		zap.String("account_id", in.AccountID),
		zap.String("item_id", in.ItemID),
		zap.String("amount", in.Amount.String()),
		zap.String("actor", in.Actor))
	return dto, nil
}

// Restructure discards the unsettled tail and regenerates it from the
// point-in-time outstanding principal under the new terms. Settled history
// is never touched. The account leaves automatic monitoring until
// explicitly reactivated.
func (u *Usecase) Restructure(ctx context.Context, in RestructureInput) (*AccountStatusDTO, error) {
	if in.TenorMonths <= 0 || in.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: tenor must be positive and rate non-negative", acctDomain.ErrInvalidScheduleState)
	}

	err := u.uow.WithinAccountTx(ctx, in.AccountID, func(r uow.Repos, acc *acctDomain.MortgageAccount) error {
		switch acc.Status {
		case acctDomain.StatusClosed, acctDomain.StatusMatured, acctDomain.StatusForeclosed, acctDomain.StatusTransferred:
			return fmt.Errorf("%w: cannot restructure a %s account", acctDomain.ErrIneligibleTransition, acc.Status)
		}

		items, err := r.Accounts.GetSchedule(ctx, acc.ID)
		if err != nil {
			return err
		}
		outstanding := acctDomain.OutstandingPrincipal(acc.PrincipalAmount, items)

		lastSettled := 0
		for _, it := range items {
			if it.Status.Settled() || it.Status == acctDomain.ItemPartiallyPaid {
				if it.Period > lastSettled {
					lastSettled = it.Period
				}
			}
		}

		tail, err := acctDomain.RegenerateTail(outstanding, in.Rate, in.TenorMonths, lastSettled+1, u.clk.Today())
		if err != nil {
			return err
		}
		for i := range tail {
			tail[i].AccountRef = acc.ID
		}
		if err := r.Accounts.DeleteUnsettled(ctx, acc.ID); err != nil {
			return err
		}
		if err := r.Accounts.CreateItems(ctx, tail); err != nil {
			return err
		}

		acc.Rate = in.Rate
		acc.TenorMonths = lastSettled + in.TenorMonths
		acc.Status = acctDomain.StatusRestructured
		acc.MonitorSuspended = true
		acc.StatusUpdatedAt = u.clk.Now()
		return r.Accounts.Save(ctx, acc)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("account restructured",
		zap.String("account_id", in.AccountID),
		zap.Int("tenor_months", in.TenorMonths),
		zap.String("rate", in.Rate.String()),
		zap.String("actor", in.Actor))
	return u.GetStatus(ctx, in.AccountID)
}

// SetStatus applies an officer-triggered account state change, or
// reactivates automatic monitoring.
func (u *Usecase) SetStatus(ctx context.Context, in SetStatusInput) (*AccountStatusDTO, error) {
	err := u.uow.WithinAccountTx(ctx, in.AccountID, func(r uow.Repos, acc *acctDomain.MortgageAccount) error {
		switch acc.Status {
		case acctDomain.StatusClosed, acctDomain.StatusForeclosed, acctDomain.StatusTransferred:
			return fmt.Errorf("%w: %s is final", acctDomain.ErrIneligibleTransition, acc.Status)
		}

		if in.Reactivate {
			acc.Status = acctDomain.StatusActive
			acc.MonitorSuspended = false
			acc.StatusUpdatedAt = u.clk.Now()
			if err := u.reevaluate(ctx, r, acc); err != nil {
				return err
			}
			return nil
		}

		switch in.Status {
		case acctDomain.StatusSuspended, acctDomain.StatusClosed, acctDomain.StatusForeclosed, acctDomain.StatusMatured:
			// allowed unconditionally
		case acctDomain.StatusTransferred:
			items, err := r.Accounts.GetSchedule(ctx, acc.ID)
			if err != nil {
				return err
			}
			a := acctDomain.Evaluate(acc, items, u.clk.Today(), u.moncfg)
			if !a.TransferEligible {
				return fmt.Errorf("%w: account is not transfer eligible", acctDomain.ErrIneligibleTransition)
			}
		default:
			return fmt.Errorf("%w: %s is not an officer-assignable state", acctDomain.ErrIneligibleTransition, in.Status)
		}

		acc.Status = in.Status
		acc.MonitorSuspended = true
		acc.StatusUpdatedAt = u.clk.Now()
		return r.Accounts.Save(ctx, acc)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("account status set",
		zap.String("account_id", in.AccountID),
		zap.String("status", string(in.Status)),
		zap.Bool("reactivate", in.Reactivate),
		zap.String("actor", in.Actor))
	return u.GetStatus(ctx, in.AccountID)
}

// RunTick re-evaluates every monitored account. Accounts are independent,
// so evaluation fans out across workers; the evaluate-then-write step for
// each account stays atomic inside its own transaction.
func (u *Usecase) RunTick(ctx context.Context) (*TickReport, error) {
	accs, err := u.accounts.ListMonitored(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		report TickReport
		wg     sync.WaitGroup
	)
	sem := make(chan struct{}, u.workers)
	for i := range accs {
		accountID := accs[i].AccountID
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			changed, err := u.evaluateOne(ctx, accountID)
			mu.Lock()
			defer mu.Unlock()
			report.Evaluated++
			if err != nil {
				report.Failures++
				u.log.Error("tick evaluation failed",
					zap.String("account_id", accountID), zap.Error(err))
				return
			}
			if changed {
				report.StatusChanges++
			}
		}()
	}
	wg.Wait()
	return &report, nil
}

func (u *Usecase) evaluateOne(ctx context.Context, accountID string) (bool, error) {
	changed := false
	var from, to acctDomain.Status
	err := u.uow.WithinAccountTx(ctx, accountID, func(r uow.Repos, acc *acctDomain.MortgageAccount) error {
		from = acc.Status
		if err := u.reevaluate(ctx, r, acc); err != nil {
			return err
		}
		to = acc.Status
		changed = to != from
		return nil
	})
	if err == nil && changed {
		// Post-commit, fire-and-forget.
		ev := ports.Event{
			Name:    "account.reclassified",
			Subject: accountID,
			Fields:  map[string]any{"from": string(from), "to": string(to)},
		}
		if nerr := u.notifier.Notify(ctx, accountID, ev); nerr != nil {
			u.log.Error("notification dispatch failed",
				zap.String("account_id", accountID), zap.Error(nerr))
		}
	}
	return changed, err
}

// reevaluate applies the monitor classification to the locked account and
// persists the result. Must run inside the account transaction.
func (u *Usecase) reevaluate(ctx context.Context, r uow.Repos, acc *acctDomain.MortgageAccount) error {
	items, err := r.Accounts.GetSchedule(ctx, acc.ID)
	if err != nil {
		return err
	}
	a := acctDomain.Evaluate(acc, items, u.clk.Today(), u.moncfg)

	if !a.StatusChanged && a.Penalties.Equal(acc.PenaltyBalance) {
		return nil
	}

	if a.StatusChanged {
		u.log.Info("account reclassified",
			zap.String("account_id", acc.AccountID),
			zap.String("from", string(acc.Status)),
			zap.String("to", string(a.Status)),
			zap.Int("overdue_days", a.OverdueDays))
		acc.Status = a.Status
		acc.StatusUpdatedAt = u.clk.Now()
		if a.Status == acctDomain.StatusMatured {
			// Full settlement ends automatic monitoring.
			acc.MonitorSuspended = true
		}
	}
	acc.PenaltyBalance = a.Penalties
	return r.Accounts.Save(ctx, acc)
}

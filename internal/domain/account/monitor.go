package account

import (
	"time"

	"github.com/shopspring/decimal"

	"amanah-mortgage-backend/pkg/money"
)

// MonitorConfig carries the tunable classification knobs. The arrears →
// default boundary is deliberately configurable; 30 days is the shipped
// default.
type MonitorConfig struct {
	// DefaultAfterDays: overdue beyond this many days classifies as default;
	// at or under it (and above zero) as in_arrears.
	DefaultAfterDays int
	// PenaltyDailyRate accrues on overdue principal for each day spent in
	// default.
	PenaltyDailyRate decimal.Decimal
}

// Assessment is the deterministic output of one monitor evaluation.
type Assessment struct {
	Status               Status          `json:"status"`
	StatusChanged        bool            `json:"-"`
	OverdueDays          int             `json:"overdue_days"`
	OverduePrincipal     decimal.Decimal `json:"overdue_principal"`
	OverdueProfit        decimal.Decimal `json:"overdue_profit"`
	Penalties            decimal.Decimal `json:"penalties"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	OutstandingProfit    decimal.Decimal `json:"outstanding_profit"`
	OwnershipPercentage  decimal.Decimal `json:"ownership_percentage"`
	TransferEligible     bool            `json:"transfer_eligible"`
	Matured              bool            `json:"-"`
}

// Evaluate classifies the account from its schedule and recorded payments as
// of today. It runs on every payment event and on the daily tick. Only
// active, in_arrears and default may be assigned automatically; externally
// triggered states freeze the classification until reactivation. All-settled
// schedules force matured.
func Evaluate(acc *MortgageAccount, items []ScheduleItem, today time.Time, cfg MonitorConfig) Assessment {
	a := Assessment{
		Status:               acc.Status,
		OverduePrincipal:     decimal.Zero,
		OverdueProfit:        decimal.Zero,
		Penalties:            acc.PenaltyBalance,
		OutstandingPrincipal: OutstandingPrincipal(acc.PrincipalAmount, items),
		OutstandingProfit:    OutstandingProfit(items),
		OwnershipPercentage:  OwnershipPercentage(acc.PrincipalAmount, items),
	}

	allSettled := len(items) > 0
	var earliest *ScheduleItem
	for idx := range items {
		it := &items[idx]
		if !it.Status.Settled() {
			allSettled = false
			if it.DueDate.Before(today) {
				if earliest == nil || it.DueDate.Before(earliest.DueDate) {
					earliest = it
				}
				a.OverduePrincipal = a.OverduePrincipal.Add(it.PrincipalComponent.Sub(it.PrincipalSettled()))
				a.OverdueProfit = a.OverdueProfit.Add(it.ProfitComponent.Sub(it.ProfitSettled()))
			}
		}
	}
	a.Matured = allSettled

	if allSettled {
		// All items paid or waived forces matured regardless of suspension.
		a.Status = StatusMatured
		a.StatusChanged = acc.Status != StatusMatured
		a.TransferEligible = true
		return a
	}

	if acc.MonitorSuspended || !acc.Status.AutoAssignable() {
		a.TransferEligible = transferEligible(a)
		return a
	}

	next := StatusActive
	if earliest != nil {
		a.OverdueDays = int(today.Sub(dateOnly(earliest.DueDate)).Hours() / 24)
		switch {
		case a.OverdueDays > cfg.DefaultAfterDays:
			next = StatusDefault
			daysInDefault := decimal.NewFromInt(int64(a.OverdueDays - cfg.DefaultAfterDays))
			a.Penalties = money.Round2(a.OverduePrincipal.Mul(cfg.PenaltyDailyRate).Mul(daysInDefault))
		case a.OverdueDays > 0:
			next = StatusInArrears
		}
	}

	a.Status = next
	a.StatusChanged = next != acc.Status
	if next != StatusDefault {
		a.Penalties = acc.PenaltyBalance
	}
	a.TransferEligible = transferEligible(a)
	return a
}

func transferEligible(a Assessment) bool {
	return a.Status == StatusMatured || a.OwnershipPercentage.GreaterThanOrEqual(money.Hundred)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

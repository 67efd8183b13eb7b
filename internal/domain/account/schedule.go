package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"amanah-mortgage-backend/pkg/money"
)

// GenerateSchedule produces the full diminishing-balance schedule for a new
// account. The arithmetic is identical for every product type: Ijara labels
// the non-principal component rent, Murabaha/Musharaka label it profit, the
// numbers do not change.
//
// Grace periods (if any) defer principal entirely: the item carries profit
// computed on the full outstanding principal. After grace, the principal
// component is a constant straight-line slice and profit is computed on the
// balance left after the previous period's reduction. Every period's
// components derive from the closed-form balance, never from a running
// float, so rounding cannot drift; the final period absorbs the residual so
// the principal components sum exactly to the principal.
func GenerateSchedule(principal, annualRate decimal.Decimal, tenorMonths, graceMonths int, startDate time.Time) ([]ScheduleItem, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: principal must be positive", ErrInvalidScheduleState)
	}
	if tenorMonths <= 0 || graceMonths < 0 || graceMonths >= tenorMonths {
		return nil, fmt.Errorf("%w: tenor %d with grace %d", ErrInvalidScheduleState, tenorMonths, graceMonths)
	}
	if annualRate.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", ErrInvalidScheduleState)
	}

	return buildItems(principal, annualRate, tenorMonths, graceMonths, 1, startDate), nil
}

// RegenerateTail rebuilds the unsettled tail of a schedule during
// restructuring: outstanding is the point-in-time outstanding principal, the
// new terms take effect from `from`, and period numbering continues at
// startPeriod. Settled historical items are never touched.
func RegenerateTail(outstanding, annualRate decimal.Decimal, tenorMonths int, startPeriod int, from time.Time) ([]ScheduleItem, error) {
	if outstanding.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: nothing outstanding to restructure", ErrInvalidScheduleState)
	}
	if tenorMonths <= 0 {
		return nil, fmt.Errorf("%w: tenor %d", ErrInvalidScheduleState, tenorMonths)
	}
	if annualRate.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", ErrInvalidScheduleState)
	}

	return buildItems(outstanding, annualRate, tenorMonths, 0, startPeriod, from), nil
}

func buildItems(principal, annualRate decimal.Decimal, tenorMonths, graceMonths, firstPeriod int, startDate time.Time) []ScheduleItem {
	monthly := money.MonthlyRate(annualRate)
	repayMonths := int64(tenorMonths - graceMonths)
	base := money.Round2(principal.Div(decimal.NewFromInt(repayMonths)))

	items := make([]ScheduleItem, 0, tenorMonths)
	for i := 1; i <= tenorMonths; i++ {
		var principalComp, before decimal.Decimal
		switch {
		case i <= graceMonths:
			principalComp = decimal.Zero
			before = principal
		default:
			k := int64(i - graceMonths) // 1-based repayment period
			before = principal.Sub(base.Mul(decimal.NewFromInt(k - 1)))
			if k == repayMonths {
				// Final period: absorb the rounding residual.
				principalComp = before
			} else {
				principalComp = base
			}
		}

		profit := money.Round2(before.Mul(monthly))
		remaining := before.Sub(principalComp)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		items = append(items, ScheduleItem{
			ItemID:              uuid.NewString(),
			Period:              firstPeriod + i - 1,
			DueDate:             startDate.AddDate(0, i, 0),
			Amount:              principalComp.Add(profit),
			PrincipalComponent:  principalComp,
			ProfitComponent:     profit,
			CumulativePrincipal: principal.Sub(remaining),
			RemainingBalance:    remaining,
			Status:              ItemUpcoming,
			PaidAmount:          decimal.Zero,
		})
	}
	return items
}

// OutstandingPrincipal is the principal not yet settled across the schedule.
func OutstandingPrincipal(principal decimal.Decimal, items []ScheduleItem) decimal.Decimal {
	out := principal
	for _, it := range items {
		out = out.Sub(it.PrincipalSettled())
	}
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// OutstandingProfit is the unsettled profit/rent across the schedule.
func OutstandingProfit(items []ScheduleItem) decimal.Decimal {
	out := decimal.Zero
	for _, it := range items {
		out = out.Add(it.ProfitComponent.Sub(it.ProfitSettled()))
	}
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// OwnershipPercentage is the share of the financed asset economically
// acquired via principal repayment, derived from the schedule, never stored.
func OwnershipPercentage(principal decimal.Decimal, items []ScheduleItem) decimal.Decimal {
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	repaid := principal.Sub(OutstandingPrincipal(principal, items))
	return money.Ratio(repaid, principal).Mul(money.Hundred).Round(2)
}

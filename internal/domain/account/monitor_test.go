package account

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monitorCfg() MonitorConfig {
	return MonitorConfig{
		DefaultAfterDays: 30,
		PenaltyDailyRate: dec("0.0005"),
	}
}

func testAccount(items []ScheduleItem) *MortgageAccount {
	return &MortgageAccount{
		PrincipalAmount: dec("36000000"),
		Status:          StatusActive,
		PenaltyBalance:  decimal.Zero,
	}
}

func twoItemSchedule(due1, due2 time.Time) []ScheduleItem {
	return []ScheduleItem{
		{
			Period: 1, DueDate: due1, Status: ItemUpcoming,
			Amount: dec("285000"), PrincipalComponent: dec("120000"), ProfitComponent: dec("165000"),
			PaidAmount: decimal.Zero,
		},
		{
			Period: 2, DueDate: due2, Status: ItemUpcoming,
			Amount: dec("284450"), PrincipalComponent: dec("120000"), ProfitComponent: dec("164450"),
			PaidAmount: decimal.Zero,
		},
	}
}

func TestEvaluate_Active(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := twoItemSchedule(due, due.AddDate(0, 1, 0))
	acc := testAccount(items)

	// Nothing due yet: stays active. Due today is not overdue.
	got := Evaluate(acc, items, due, monitorCfg())
	assert.Equal(t, StatusActive, got.Status)
	assert.Zero(t, got.OverdueDays)
	assert.True(t, got.OverduePrincipal.IsZero())
}

func TestEvaluate_ArrearsDefaultBoundary(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := twoItemSchedule(due, due.AddDate(0, 1, 0))
	acc := testAccount(items)

	// Exactly 30 days past due: in_arrears, not default.
	got := Evaluate(acc, items, due.AddDate(0, 0, 30), monitorCfg())
	assert.Equal(t, StatusInArrears, got.Status)
	assert.Equal(t, 30, got.OverdueDays)
	assert.True(t, got.Penalties.IsZero())

	// 31 days past due: default.
	got = Evaluate(acc, items, due.AddDate(0, 0, 31), monitorCfg())
	assert.Equal(t, StatusDefault, got.Status)
	assert.Equal(t, 31, got.OverdueDays)
}

func TestEvaluate_ConfigurableThreshold(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := twoItemSchedule(due, due.AddDate(0, 1, 0))
	acc := testAccount(items)

	cfg := monitorCfg()
	cfg.DefaultAfterDays = 60

	got := Evaluate(acc, items, due.AddDate(0, 0, 45), cfg)
	assert.Equal(t, StatusInArrears, got.Status)

	got = Evaluate(acc, items, due.AddDate(0, 0, 61), cfg)
	assert.Equal(t, StatusDefault, got.Status)
}

func TestEvaluate_OverdueSumsAndPenalties(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := twoItemSchedule(due, due.AddDate(0, 1, 0))
	acc := testAccount(items)

	// 40 days past the first due date: both items overdue (second by ~9
	// days), overdue sums span both, penalties accrue on overdue principal
	// for the 10 days beyond the threshold.
	today := due.AddDate(0, 0, 40)
	got := Evaluate(acc, items, today, monitorCfg())
	require.Equal(t, StatusDefault, got.Status)
	assert.True(t, got.OverduePrincipal.Equal(dec("240000")), "overdue principal = %s", got.OverduePrincipal)
	assert.True(t, got.OverdueProfit.Equal(dec("329450")), "overdue profit = %s", got.OverdueProfit)

	// 240000 * 0.0005 * 10 = 1200.00
	assert.True(t, got.Penalties.Equal(dec("1200")), "penalties = %s", got.Penalties)
}

func TestEvaluate_PartialPaymentReducesOverdue(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := twoItemSchedule(due, due.AddDate(0, 1, 0))
	items[0].Status = ItemPartiallyPaid
	items[0].PaidAmount = dec("200000") // settles all profit + 35,000 principal
	acc := testAccount(items)

	got := Evaluate(acc, items, due.AddDate(0, 0, 10), monitorCfg())
	assert.Equal(t, StatusInArrears, got.Status)
	assert.True(t, got.OverduePrincipal.Equal(dec("85000")), "overdue principal = %s", got.OverduePrincipal)
	assert.True(t, got.OverdueProfit.IsZero(), "overdue profit = %s", got.OverdueProfit)
}

func TestEvaluate_SettledItemsClearArrears(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := twoItemSchedule(due, due.AddDate(0, 1, 0))
	items[0].Status = ItemPaid
	items[0].PaidAmount = items[0].Amount
	acc := testAccount(items)
	acc.Status = StatusInArrears

	got := Evaluate(acc, items, due.AddDate(0, 0, 5), monitorCfg())
	assert.Equal(t, StatusActive, got.Status)
	assert.True(t, got.StatusChanged)
}

func TestEvaluate_AllSettledForcesMatured(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := twoItemSchedule(due, due.AddDate(0, 1, 0))
	for i := range items {
		items[i].Status = ItemPaid
		items[i].PaidAmount = items[i].Amount
	}
	acc := testAccount(items)

	got := Evaluate(acc, items, due.AddDate(0, 2, 0), monitorCfg())
	assert.Equal(t, StatusMatured, got.Status)
	assert.True(t, got.TransferEligible)

	// Waived counts as settled too.
	items[1].Status = ItemWaived
	got = Evaluate(acc, items, due.AddDate(0, 2, 0), monitorCfg())
	assert.Equal(t, StatusMatured, got.Status)
}

func TestEvaluate_SuspendedStatesFreezeClassification(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := twoItemSchedule(due, due.AddDate(0, 1, 0))

	for _, s := range []Status{StatusRestructured, StatusSuspended, StatusForeclosed, StatusTransferred, StatusClosed} {
		acc := testAccount(items)
		acc.Status = s
		acc.MonitorSuspended = true

		// 90 days overdue would normally be default; suspension freezes it.
		got := Evaluate(acc, items, due.AddDate(0, 0, 90), monitorCfg())
		assert.Equal(t, s, got.Status, "state %s reclassified", s)
		assert.False(t, got.StatusChanged)
	}
}

func TestEvaluate_TransferEligibility(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := twoItemSchedule(due, due.AddDate(0, 1, 0))
	acc := testAccount(items)
	// Shrink the principal so full settlement of item 1 alone reaches 100%.
	acc.PrincipalAmount = dec("120000")
	items[0].Status = ItemPaid
	items[0].PaidAmount = items[0].Amount

	got := Evaluate(acc, items, due, monitorCfg())
	assert.True(t, got.OwnershipPercentage.GreaterThanOrEqual(dec("100")))
	assert.True(t, got.TransferEligible)
}

package account

import (
	"time"

	"github.com/shopspring/decimal"

	acctDomain "amanah-mortgage-backend/internal/domain/account"
)

type RecordPaymentInput struct {
	AccountID string
	ItemID    string
	Amount    decimal.Decimal
	ValueDate time.Time
	Actor     string
}

type RestructureInput struct {
	AccountID   string
	TenorMonths int
	Rate        decimal.Decimal
	Actor       string
}

type SetStatusInput struct {
	AccountID string
	Status    acctDomain.Status
	// Reactivate flips a suspended/restructured account back under
	// automatic monitoring; Status is ignored when set.
	Reactivate bool
	Actor      string
}

type ScheduleItemDTO struct {
	ItemID              string          `json:"item_id"`
	Period              int             `json:"period"`
	DueDate             time.Time       `json:"due_date"`
	Amount              decimal.Decimal `json:"amount"`
	PrincipalComponent  decimal.Decimal `json:"principal_component"`
	ProfitComponent     decimal.Decimal `json:"profit_component"`
	CumulativePrincipal decimal.Decimal `json:"cumulative_principal"`
	RemainingBalance    decimal.Decimal `json:"remaining_balance"`
	Status              string          `json:"status"`
	PaidAmount          decimal.Decimal `json:"paid_amount"`
	PaymentDate         *time.Time      `json:"payment_date,omitempty"`
}

func toItemDTO(it *acctDomain.ScheduleItem) *ScheduleItemDTO {
	return &ScheduleItemDTO{
		ItemID:              it.ItemID,
		Period:              it.Period,
		DueDate:             it.DueDate,
		Amount:              it.Amount,
		PrincipalComponent:  it.PrincipalComponent,
		ProfitComponent:     it.ProfitComponent,
		CumulativePrincipal: it.CumulativePrincipal,
		RemainingBalance:    it.RemainingBalance,
		Status:              string(it.Status),
		PaidAmount:          it.PaidAmount,
		PaymentDate:         it.PaymentDate,
	}
}

type AccountStatusDTO struct {
	AccountID            string          `json:"account_id"`
	MortgageNumber       string          `json:"mortgage_number"`
	FinancingType        string          `json:"financing_type"`
	Status               string          `json:"status"`
	OverdueDays          int             `json:"overdue_days"`
	OverduePrincipal     decimal.Decimal `json:"overdue_principal"`
	OverdueProfit        decimal.Decimal `json:"overdue_profit"`
	OverdueAmount        decimal.Decimal `json:"overdue_amount"`
	Penalties            decimal.Decimal `json:"penalties"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	OutstandingProfit    decimal.Decimal `json:"outstanding_profit"`
	OwnershipPercentage  decimal.Decimal `json:"ownership_percentage"`
	TransferEligible     bool            `json:"transfer_eligible"`
}

// TickReport summarizes one monitor sweep.
type TickReport struct {
	Evaluated     int `json:"evaluated"`
	StatusChanges int `json:"status_changes"`
	Failures      int `json:"failures"`
}

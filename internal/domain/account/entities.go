package account

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"amanah-mortgage-backend/internal/domain/application"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInArrears Status = "in_arrears"
	StatusDefault   Status = "default"

	// Externally triggered states. Once set, automatic overdue evaluation is
	// suspended until the account is explicitly reactivated.
	StatusRestructured Status = "restructured"
	StatusSuspended    Status = "suspended"
	StatusClosed       Status = "closed"
	StatusMatured      Status = "matured"
	StatusForeclosed   Status = "foreclosed"
	StatusTransferred  Status = "transferred"
)

// AutoAssignable reports whether the monitor may assign s on its own.
func (s Status) AutoAssignable() bool {
	return s == StatusActive || s == StatusInArrears || s == StatusDefault
}

type ItemStatus string

const (
	ItemUpcoming      ItemStatus = "upcoming"
	ItemPaid          ItemStatus = "paid"
	ItemPartiallyPaid ItemStatus = "partially_paid"
	ItemOverdue       ItemStatus = "overdue"
	ItemWaived        ItemStatus = "waived"
)

// Settled reports whether the item no longer carries an obligation.
func (s ItemStatus) Settled() bool { return s == ItemPaid || s == ItemWaived }

// MortgageAccount is created exactly once, when its application reaches
// lease_activated. ApplicationRef carries a unique index: the DB is the
// final arbiter of exactly-once activation.
type MortgageAccount struct {
	ID             uint64 `gorm:"primaryKey;column:id" json:"-"`
	AccountID      string `gorm:"size:32;uniqueIndex:ux_accounts_account_id" json:"account_id"`
	MortgageNumber string `gorm:"size:32;uniqueIndex:ux_accounts_number" json:"mortgage_number"`
	ApplicationRef uint64 `gorm:"column:application_ref;uniqueIndex:ux_accounts_application" json:"-"`
	ApplicationID  string `gorm:"size:32;index" json:"application_id"`

	FinancingType      application.FinancingType `gorm:"size:16" json:"financing_type"`
	PrincipalAmount    decimal.Decimal           `gorm:"type:decimal(18,2)" json:"principal_amount"`
	EquityContribution decimal.Decimal           `gorm:"type:decimal(18,2)" json:"equity_contribution"`
	TenorMonths        int                       `json:"tenor_months"`
	GraceMonths        int                       `json:"grace_months"`
	Rate               decimal.Decimal           `gorm:"type:decimal(6,4)" json:"rate"`
	StartDate          time.Time                 `json:"start_date"`

	Status Status `gorm:"size:16;default:'active';index" json:"status"`
	// MonitorSuspended mirrors the externally-triggered states: while set,
	// the daily tick skips this account.
	MonitorSuspended bool            `json:"monitor_suspended"`
	PenaltyBalance   decimal.Decimal `gorm:"type:decimal(18,2)" json:"penalty_balance"`

	Version         uint           `gorm:"default:0" json:"-"`
	StatusUpdatedAt time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MortgageAccount) TableName() string { return "mortgage_accounts" }

// ScheduleItem is one period of the amortization schedule. Rows are
// immutable once generated except for status, paid amount and payment date;
// restructuring deletes and regenerates the unsettled tail.
type ScheduleItem struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	ItemID     string `gorm:"size:36;uniqueIndex:ux_schedule_items_item_id" json:"item_id"`
	AccountRef uint64 `gorm:"column:account_ref;index" json:"-"`
	Period     int    `json:"period"`

	DueDate             time.Time       `gorm:"type:date" json:"due_date"`
	Amount              decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	PrincipalComponent  decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal_component"`
	ProfitComponent     decimal.Decimal `gorm:"type:decimal(18,2)" json:"profit_component"`
	CumulativePrincipal decimal.Decimal `gorm:"type:decimal(18,2)" json:"cumulative_principal"`
	RemainingBalance    decimal.Decimal `gorm:"type:decimal(18,2)" json:"remaining_balance"`

	Status      ItemStatus      `gorm:"size:16;default:'upcoming';index" json:"status"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(18,2)" json:"paid_amount"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScheduleItem) TableName() string { return "schedule_items" }

// PrincipalSettled is the principal portion already covered by payments.
// Partial payments settle the profit component first, then principal.
func (i ScheduleItem) PrincipalSettled() decimal.Decimal {
	switch i.Status {
	case ItemPaid, ItemWaived:
		return i.PrincipalComponent
	case ItemPartiallyPaid:
		p := i.PaidAmount.Sub(i.ProfitComponent)
		if p.IsNegative() {
			return decimal.Zero
		}
		if p.GreaterThan(i.PrincipalComponent) {
			return i.PrincipalComponent
		}
		return p
	}
	return decimal.Zero
}

// ProfitSettled is the profit portion already covered by payments.
func (i ScheduleItem) ProfitSettled() decimal.Decimal {
	switch i.Status {
	case ItemPaid, ItemWaived:
		return i.ProfitComponent
	case ItemPartiallyPaid:
		if i.PaidAmount.GreaterThan(i.ProfitComponent) {
			return i.ProfitComponent
		}
		return i.PaidAmount
	}
	return decimal.Zero
}

// Payment is one recorded repayment against a schedule item.
type Payment struct {
	ID         uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID  string          `gorm:"size:36;uniqueIndex" json:"payment_id"`
	AccountRef uint64          `gorm:"column:account_ref;index" json:"-"`
	ItemID     string          `gorm:"size:36;index" json:"item_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	ValueDate  time.Time       `gorm:"type:date" json:"value_date"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

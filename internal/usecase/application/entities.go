package application

import (
	"time"

	"github.com/shopspring/decimal"

	appDomain "amanah-mortgage-backend/internal/domain/application"
)

type CreateApplicationInput struct {
	CustomerType       appDomain.CustomerType     `json:"customer_type"`
	FinancingType      appDomain.FinancingType    `json:"financing_type"`
	PropertyValue      decimal.Decimal            `json:"property_value"`
	EquityContribution decimal.Decimal            `json:"equity_contribution"`
	TenorMonths        int                        `json:"tenor_months"`
	GraceMonths        int                        `json:"grace_months"`
	Rate               decimal.Decimal            `json:"rate"`
	MonthlyIncome      decimal.Decimal            `json:"monthly_income"`
	MonthlyDebt        decimal.Decimal            `json:"monthly_debt"`
	EmploymentStatus   appDomain.EmploymentStatus `json:"employment_status"`
	NHFRegistered      bool                       `json:"nhf_registered"`
	Actor              string                     `json:"-"`
}

type TransitionInput struct {
	ApplicationID string
	Action        appDomain.Action
	Actor         string
	Reason        string
	// Stage fields apply to assign_stage / approve_stage / reject_stage.
	Stage      appDomain.StageName
	AssignedTo string
	Decision   string
}

type DocumentInput struct {
	ApplicationID      string
	Type               appDomain.DocumentType
	VerificationStatus appDomain.VerificationStatus
}

type ApplicationDTO struct {
	ApplicationID      string          `json:"application_id"`
	ApplicationNumber  string          `json:"application_number"`
	CustomerType       string          `json:"customer_type"`
	FinancingType      string          `json:"financing_type"`
	Status             string          `json:"status"`
	PropertyValue      decimal.Decimal `json:"property_value"`
	EquityContribution decimal.Decimal `json:"equity_contribution"`
	FinancingAmount    decimal.Decimal `json:"financing_amount"`
	TenorMonths        int             `json:"tenor_months"`
	GraceMonths        int             `json:"grace_months"`
	Rate               decimal.Decimal `json:"rate"`
	Eligible           *bool           `json:"eligible,omitempty"`
	EligibilityReasons []string        `json:"eligibility_reasons,omitempty"`
	OfferExpiresAt     *time.Time      `json:"offer_expires_at,omitempty"`
	AccountID          string          `json:"account_id,omitempty"`
	StatusUpdatedAt    time.Time       `json:"status_updated_at"`
	CreatedAt          time.Time       `json:"created_at"`
}

func toDTO(a *appDomain.FinancingApplication) *ApplicationDTO {
	return &ApplicationDTO{
		ApplicationID:      a.ApplicationID,
		ApplicationNumber:  a.ApplicationNumber,
		CustomerType:       string(a.CustomerType),
		FinancingType:      string(a.FinancingType),
		Status:             string(a.Status),
		PropertyValue:      a.PropertyValue,
		EquityContribution: a.EquityContribution,
		FinancingAmount:    a.FinancingAmount,
		TenorMonths:        a.TenorMonths,
		GraceMonths:        a.GraceMonths,
		Rate:               a.Rate,
		Eligible:           a.Eligible,
		EligibilityReasons: a.EligibilityReasons,
		OfferExpiresAt:     a.OfferExpiresAt,
		AccountID:          a.AccountID,
		StatusUpdatedAt:    a.StatusUpdatedAt,
		CreatedAt:          a.CreatedAt,
	}
}

type TransitionDTO struct {
	RecordID  string    `json:"record_id"`
	Actor     string    `json:"actor"`
	FromState string    `json:"from_state"`
	ToState   string    `json:"to_state"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

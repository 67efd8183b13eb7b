package application

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft              Status = "draft"
	StatusSubmitted          Status = "submitted"
	StatusInReview           Status = "in_review"
	StatusManagementApproval Status = "management_approval"
	StatusBoardApproval      Status = "board_approval"
	StatusApproved           Status = "approved"
	StatusOfferSent          Status = "offer_sent"
	StatusOfferAccepted      Status = "offer_accepted"
	StatusContractGenerated  Status = "contract_generated"
	StatusContractSigned     Status = "contract_signed"
	StatusLeaseActivated     Status = "lease_activated"

	// Terminal failure states.
	StatusRejected     Status = "rejected"
	StatusCancelled    Status = "cancelled"
	StatusOfferRejected Status = "offer_rejected"
	StatusOfferExpired  Status = "offer_expired"
)

// Terminal reports whether s admits no further transitions. lease_activated
// is terminal for the application; the account takes over from there.
func (s Status) Terminal() bool {
	switch s {
	case StatusLeaseActivated, StatusRejected, StatusCancelled, StatusOfferRejected, StatusOfferExpired:
		return true
	}
	return false
}

type CustomerType string

const (
	CustomerNHFContributor CustomerType = "nhf_contributor"
	CustomerGovernment     CustomerType = "government_worker"
	CustomerPrivateSector  CustomerType = "private_sector"
	CustomerDiaspora       CustomerType = "diaspora"
	CustomerCooperative    CustomerType = "cooperative"
)

type FinancingType string

const (
	FinancingIjara     FinancingType = "ijara"
	FinancingMurabaha  FinancingType = "murabaha"
	FinancingMusharaka FinancingType = "musharaka"
	FinancingIstisna   FinancingType = "istisna"
)

type DocumentType string

const (
	DocEmployerLetter      DocumentType = "employer_letter"
	DocPayslip             DocumentType = "payslip"
	DocUtilityBill         DocumentType = "utility_bill"
	DocIDCard              DocumentType = "id_card"
	DocNHFContribution     DocumentType = "nhf_contribution"
	DocEmployerUndertaking DocumentType = "employer_undertaking"
	DocTakafulPolicy       DocumentType = "takaful_policy"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type EmploymentStatus string

const (
	EmploymentEmployed     EmploymentStatus = "employed"
	EmploymentSelfEmployed EmploymentStatus = "self_employed"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
)

type StageName string

const (
	StageCreditAssessment StageName = "credit_assessment"
	StageLegalReview      StageName = "legal_review"
	StageShariahReview    StageName = "shariah_review"
)

type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageAssigned  StageStatus = "assigned"
	StageApproved  StageStatus = "approved"
	StageRejected  StageStatus = "rejected"
	StageCancelled StageStatus = "cancelled"
)

// FinancingApplication is the application aggregate root. It owns its
// documents, approval stages and transition log exclusively.
type FinancingApplication struct {
	ID                uint64       `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID     string       `gorm:"size:32;uniqueIndex:ux_applications_application_id" json:"application_id"`
	ApplicationNumber string       `gorm:"size:32;uniqueIndex:ux_applications_number" json:"application_number"`
	CustomerType      CustomerType `gorm:"size:32" json:"customer_type"`
	FinancingType     FinancingType `gorm:"size:16" json:"financing_type"`
	Status            Status        `gorm:"size:32;default:'draft';index" json:"status"`

	PropertyValue      decimal.Decimal `gorm:"type:decimal(18,2)" json:"property_value"`
	EquityContribution decimal.Decimal `gorm:"type:decimal(18,2)" json:"equity_contribution"`
	FinancingAmount    decimal.Decimal `gorm:"type:decimal(18,2)" json:"financing_amount"`
	TenorMonths        int             `json:"tenor_months"`
	GraceMonths        int             `json:"grace_months"`
	Rate               decimal.Decimal `gorm:"type:decimal(6,4)" json:"rate"`

	MonthlyIncome    decimal.Decimal  `gorm:"type:decimal(18,2)" json:"monthly_income"`
	MonthlyDebt      decimal.Decimal  `gorm:"type:decimal(18,2)" json:"monthly_debt"`
	EmploymentStatus EmploymentStatus `gorm:"size:16" json:"employment_status"`
	NHFRegistered    bool             `json:"nhf_registered"`

	Eligible           *bool    `json:"eligible,omitempty"`
	EligibilityReasons []string `gorm:"serializer:json;type:text" json:"eligibility_reasons,omitempty"`

	OfferExpiresAt *time.Time `json:"offer_expires_at,omitempty"`

	// Set exactly once, when the application reaches lease_activated.
	AccountID string `gorm:"size:32;index" json:"account_id,omitempty"`

	Version         uint           `gorm:"default:0" json:"-"`
	StatusUpdatedAt time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FinancingApplication) TableName() string { return "financing_applications" }

// EligibilityCheck is the recorded outcome of the automatic system check run
// on submitted → in_review.
type EligibilityCheck struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Document is one required-document entry. Storage/upload mechanics live
// outside; only the type and verification status are consumed here.
type Document struct {
	ID                 uint64             `gorm:"primaryKey;column:id" json:"-"`
	ApplicationRef     uint64             `gorm:"column:application_ref;index;uniqueIndex:ux_documents_app_type" json:"-"`
	Type               DocumentType       `gorm:"size:32;uniqueIndex:ux_documents_app_type" json:"type"`
	VerificationStatus VerificationStatus `gorm:"size:16;default:'pending'" json:"verification_status"`
	CreatedAt          time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string { return "application_documents" }

// ApprovalStage is one independently assignable review sub-stage inside
// in_review. The aggregate stage completes only when all of them approve.
type ApprovalStage struct {
	ID             uint64      `gorm:"primaryKey;column:id" json:"-"`
	ApplicationRef uint64      `gorm:"column:application_ref;index;uniqueIndex:ux_stages_app_stage" json:"-"`
	Stage          StageName   `gorm:"size:32;uniqueIndex:ux_stages_app_stage" json:"stage"`
	Status         StageStatus `gorm:"size:16;default:'pending'" json:"status"`
	AssignedTo     string      `gorm:"size:64" json:"assigned_to,omitempty"`
	Decision       string      `gorm:"type:text" json:"decision,omitempty"`
	DecidedAt      *time.Time  `json:"decided_at,omitempty"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ApprovalStage) TableName() string { return "approval_stages" }

// TransitionRecord is one append-only audit log entry. Automatic branches
// (eligibility rejection, offer expiry) are recorded here as decisions.
type TransitionRecord struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	RecordID       string    `gorm:"size:36;uniqueIndex" json:"record_id"`
	ApplicationRef uint64    `gorm:"column:application_ref;index" json:"-"`
	Actor          string    `gorm:"size:64" json:"actor"`
	FromState      Status    `gorm:"size:32" json:"from_state"`
	ToState        Status    `gorm:"size:32" json:"to_state"`
	Reason         string    `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TransitionRecord) TableName() string { return "application_transitions" }

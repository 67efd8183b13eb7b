package application

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"amanah-mortgage-backend/pkg/money"
)

// Action is a requested workflow step. Automatic branches (eligibility
// rejection, offer expiry) are not actions; they are applied by the engine
// itself and recorded as decisions.
type Action string

const (
	ActionSubmit            Action = "submit"
	ActionStartReview       Action = "start_review"
	ActionAssignStage       Action = "assign_stage"
	ActionApproveStage      Action = "approve_stage"
	ActionRejectStage       Action = "reject_stage"
	ActionManagementApprove Action = "management_approve"
	ActionBoardApprove      Action = "board_approve"
	ActionSendOffer         Action = "send_offer"
	ActionAcceptOffer       Action = "accept_offer"
	ActionRejectOffer       Action = "reject_offer"
	ActionGenerateContract  Action = "generate_contract"
	ActionSignContract      Action = "sign_contract"
	ActionActivateLease     Action = "activate_lease"
	ActionCancel            Action = "cancel"
	ActionReject            Action = "reject"
)

// transitions is the single transition table. Stage actions keep the
// application in in_review; promotion out of in_review happens via the join
// condition (ReviewComplete), rejection short-circuits to rejected.
var transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionSubmit: StatusSubmitted,
	},
	StatusSubmitted: {
		ActionStartReview: StatusInReview,
	},
	StatusInReview: {
		ActionAssignStage:  StatusInReview,
		ActionApproveStage: StatusInReview,
		ActionRejectStage:  StatusRejected,
	},
	StatusManagementApproval: {
		ActionManagementApprove: StatusBoardApproval,
	},
	StatusBoardApproval: {
		ActionBoardApprove: StatusApproved,
	},
	StatusApproved: {
		ActionSendOffer: StatusOfferSent,
	},
	StatusOfferSent: {
		ActionAcceptOffer: StatusOfferAccepted,
		ActionRejectOffer: StatusOfferRejected,
	},
	StatusOfferAccepted: {
		ActionGenerateContract: StatusContractGenerated,
	},
	StatusContractGenerated: {
		ActionSignContract: StatusContractSigned,
	},
	StatusContractSigned: {
		ActionActivateLease: StatusLeaseActivated,
	},
}

// Next resolves the target state for action a from state s. cancel and
// reject are valid from every non-terminal state.
func Next(s Status, a Action) (Status, error) {
	if s.Terminal() {
		return "", fmt.Errorf("%w: %s is terminal", ErrIneligibleTransition, s)
	}
	switch a {
	case ActionCancel:
		return StatusCancelled, nil
	case ActionReject:
		return StatusRejected, nil
	}
	if to, ok := transitions[s][a]; ok {
		return to, nil
	}
	return "", fmt.Errorf("%w: %s not allowed from %s", ErrIneligibleTransition, a, s)
}

// ReviewStages is the fixed set of in_review sub-stages.
func ReviewStages() []StageName {
	return []StageName{StageCreditAssessment, StageLegalReview, StageShariahReview}
}

// ReviewComplete reports whether every sub-stage has approved.
func ReviewComplete(stages []ApprovalStage) bool {
	if len(stages) == 0 {
		return false
	}
	for _, s := range stages {
		if s.Status != StageApproved {
			return false
		}
	}
	return true
}

// MandatoryDocuments is the submission gate set for the customer type.
func MandatoryDocuments(ct CustomerType) []DocumentType {
	base := []DocumentType{DocEmployerLetter, DocPayslip, DocUtilityBill, DocIDCard}
	if ct == CustomerNHFContributor {
		base = append(base, DocNHFContribution)
	}
	return base
}

// MissingDocuments returns the mandatory types absent from docs. Presence is
// enough for submission; verification is only demanded at activation.
func MissingDocuments(ct CustomerType, docs []Document) []DocumentType {
	present := make(map[DocumentType]bool, len(docs))
	for _, d := range docs {
		present[d.Type] = true
	}
	var missing []DocumentType
	for _, t := range MandatoryDocuments(ct) {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	return missing
}

// ActivationDocuments are additionally required, verified, before
// contract_signed → lease_activated.
func ActivationDocuments() []DocumentType {
	return []DocumentType{DocEmployerUndertaking, DocTakafulPolicy}
}

// MissingActivationDocuments returns activation document types that are
// absent or not yet verified.
func MissingActivationDocuments(docs []Document) []DocumentType {
	verified := make(map[DocumentType]bool, len(docs))
	for _, d := range docs {
		if d.VerificationStatus == VerificationVerified {
			verified[d.Type] = true
		}
	}
	var missing []DocumentType
	for _, t := range ActivationDocuments() {
		if !verified[t] {
			missing = append(missing, t)
		}
	}
	return missing
}

// ValidateFinancials enforces the draft-exit invariants: the financing
// amount arithmetic and the minimum equity ratio.
func (a *FinancingApplication) ValidateFinancials(minEquityRatio decimal.Decimal) error {
	if a.PropertyValue.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: property value must be positive", ErrIneligibleTransition)
	}
	if !a.FinancingAmount.Equal(a.PropertyValue.Sub(a.EquityContribution)) {
		return fmt.Errorf("%w: financing amount must equal property value minus equity contribution", ErrIneligibleTransition)
	}
	ratio := money.Ratio(a.EquityContribution, a.PropertyValue)
	if ratio.LessThan(minEquityRatio) {
		return fmt.Errorf("%w: equity contribution %s%% is below the %s%% minimum",
			ErrIneligibleTransition,
			ratio.Mul(money.Hundred).Round(1),
			minEquityRatio.Mul(money.Hundred).Round(1))
	}
	if a.TenorMonths <= 0 || a.GraceMonths < 0 || a.GraceMonths >= a.TenorMonths {
		return fmt.Errorf("%w: tenor must be positive and exceed grace months", ErrIneligibleTransition)
	}
	return nil
}

// EvaluateEligibility runs the automatic system check: income, employment,
// NHF status and the debt-to-income ceiling.
func EvaluateEligibility(a *FinancingApplication, maxDTI decimal.Decimal) EligibilityCheck {
	var reasons []string

	if a.EmploymentStatus == EmploymentUnemployed || a.EmploymentStatus == "" {
		reasons = append(reasons, "applicant is not in verifiable employment")
	}
	if a.MonthlyIncome.LessThanOrEqual(decimal.Zero) {
		reasons = append(reasons, "monthly income not established")
	} else {
		dti := money.Ratio(a.MonthlyDebt, a.MonthlyIncome)
		if dti.GreaterThan(maxDTI) {
			reasons = append(reasons, fmt.Sprintf(
				"debt-to-income ratio %s exceeds maximum %s",
				dti.Round(2), maxDTI.Round(2)))
		}
	}
	if a.CustomerType == CustomerNHFContributor && !a.NHFRegistered {
		reasons = append(reasons, "NHF contribution record not found for nhf_contributor")
	}

	return EligibilityCheck{Eligible: len(reasons) == 0, Reasons: reasons}
}

// DocumentList renders document types for error messages.
func DocumentList(types []DocumentType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

// Package eligibility provides the in-process identity verifier. It applies
// the bank's underwriting rules to the application snapshot it is handed,
// without any remote bureau call.
package eligibility

import (
	"context"

	"github.com/shopspring/decimal"

	appDomain "amanah-mortgage-backend/internal/domain/application"
	"amanah-mortgage-backend/internal/domain/ports"
)

var _ ports.IdentityVerifier = (*LocalVerifier)(nil)

type LocalVerifier struct {
	maxDTI decimal.Decimal
}

func NewLocalVerifier(maxDTI decimal.Decimal) *LocalVerifier {
	return &LocalVerifier{maxDTI: maxDTI}
}

func (v *LocalVerifier) CheckEligibility(_ context.Context, a *appDomain.FinancingApplication) (appDomain.EligibilityCheck, error) {
	return appDomain.EvaluateEligibility(a, v.maxDTI), nil
}

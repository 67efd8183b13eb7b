package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	acctDomain "amanah-mortgage-backend/internal/domain/account"
	appDomain "amanah-mortgage-backend/internal/domain/application"
	"amanah-mortgage-backend/internal/domain/ports"
	"amanah-mortgage-backend/internal/domain/uow"
	"amanah-mortgage-backend/pkg/clock"
	"amanah-mortgage-backend/pkg/id"
)

// Params are the workflow knobs sourced from config.
type Params struct {
	MinEquityRatio    decimal.Decimal
	OfferValidityDays int
}

type Usecase struct {
	apps     appDomain.Repository
	uow      uow.UnitOfWork
	docs     ports.DocumentStore
	verifier ports.IdentityVerifier
	notifier ports.NotificationService
	clk      clock.Clock
	log      *zap.Logger
	params   Params
}

func NewUsecase(
	apps appDomain.Repository,
	tx uow.UnitOfWork,
	docs ports.DocumentStore,
	verifier ports.IdentityVerifier,
	notifier ports.NotificationService,
	clk clock.Clock,
	log *zap.Logger,
	params Params,
) *Usecase {
	return &Usecase{
		apps: apps, uow: tx, docs: docs, verifier: verifier,
		notifier: notifier, clk: clk, log: log, params: params,
	}
}

// Create opens a new application in draft. The equity/financing invariants
// are only enforced when the application tries to leave draft.
func (u *Usecase) Create(ctx context.Context, in CreateApplicationInput) (*ApplicationDTO, error) {
	if in.PropertyValue.LessThanOrEqual(decimal.Zero) || in.TenorMonths <= 0 {
		return nil, fmt.Errorf("%w: property value and tenor must be positive", appDomain.ErrIneligibleTransition)
	}
	now := u.clk.Now()
	a := &appDomain.FinancingApplication{
		ApplicationID:      id.NewID32(),
		ApplicationNumber:  id.NewReference("APP", now),
		CustomerType:       in.CustomerType,
		FinancingType:      in.FinancingType,
		Status:             appDomain.StatusDraft,
		PropertyValue:      in.PropertyValue,
		EquityContribution: in.EquityContribution,
		FinancingAmount:    in.PropertyValue.Sub(in.EquityContribution),
		TenorMonths:        in.TenorMonths,
		GraceMonths:        in.GraceMonths,
		Rate:               in.Rate,
		MonthlyIncome:      in.MonthlyIncome,
		MonthlyDebt:        in.MonthlyDebt,
		EmploymentStatus:   in.EmploymentStatus,
		NHFRegistered:      in.NHFRegistered,
		StatusUpdatedAt:    now,
	}
	if err := u.apps.Create(ctx, a); err != nil {
		return nil, err
	}
	u.log.Info("application created",
		zap.String("application_id", a.ApplicationID),
		zap.String("actor", in.Actor))
	return toDTO(a), nil
}

func (u *Usecase) Get(ctx context.Context, applicationID string) (*ApplicationDTO, error) {
	a, err := u.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

func (u *Usecase) GetTransitions(ctx context.Context, applicationID string) ([]TransitionDTO, error) {
	a, err := u.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	recs, err := u.apps.ListTransitions(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	out := make([]TransitionDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, TransitionDTO{
			RecordID:  r.RecordID,
			Actor:     r.Actor,
			FromState: string(r.FromState),
			ToState:   string(r.ToState),
			Reason:    r.Reason,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// UpsertDocument records a document type/verification pair on a non-terminal
// application.
func (u *Usecase) UpsertDocument(ctx context.Context, in DocumentInput) error {
	return u.uow.WithinApplicationTx(ctx, in.ApplicationID, func(r uow.Repos, a *appDomain.FinancingApplication) error {
		if a.Status.Terminal() {
			return fmt.Errorf("%w: %s is terminal", appDomain.ErrIneligibleTransition, a.Status)
		}
		return r.Applications.UpsertDocument(ctx, &appDomain.Document{
			ApplicationRef:     a.ID,
			Type:               in.Type,
			VerificationStatus: in.VerificationStatus,
		})
	})
}

// ApplyTransition drives the workflow state machine. The transition runs as
// one atomic unit under a row lock: preconditions are validated against the
// locked state and either everything is applied or nothing is. External
// reads (documents, eligibility) happen before the transaction opens;
// notification dispatch happens after it commits.
func (u *Usecase) ApplyTransition(ctx context.Context, in TransitionInput) (*ApplicationDTO, error) {
	docs, chk, err := u.preload(ctx, in)
	if err != nil {
		return nil, err
	}

	var dto *ApplicationDTO
	var committed []appDomain.TransitionRecord

	err = u.uow.WithinApplicationTx(ctx, in.ApplicationID, func(r uow.Repos, a *appDomain.FinancingApplication) error {
		committed = nil

		// Idempotent activation replay: the account exists, return it as-is.
		if in.Action == appDomain.ActionActivateLease && a.Status == appDomain.StatusLeaseActivated && a.AccountID != "" {
			dto = toDTO(a)
			return nil
		}

		to, err := appDomain.Next(a.Status, in.Action)
		if err != nil {
			return err
		}
		from := a.Status
		reason := in.Reason

		switch in.Action {
		case appDomain.ActionSubmit:
			if err := a.ValidateFinancials(u.params.MinEquityRatio); err != nil {
				return err
			}
			if missing := appDomain.MissingDocuments(a.CustomerType, docs); len(missing) > 0 {
				return fmt.Errorf("%w: %s", appDomain.ErrMissingDocument, appDomain.DocumentList(missing))
			}

		case appDomain.ActionStartReview:
			a.Eligible = &chk.Eligible
			a.EligibilityReasons = chk.Reasons
			if !chk.Eligible {
				// Automatic branch: a decision, not an error.
				to = appDomain.StatusRejected
				reason = "ineligible: " + strings.Join(chk.Reasons, "; ")
			} else {
				stages := make([]appDomain.ApprovalStage, 0, 3)
				for _, name := range appDomain.ReviewStages() {
					stages = append(stages, appDomain.ApprovalStage{
						ApplicationRef: a.ID, Stage: name, Status: appDomain.StagePending,
					})
				}
				if err := r.Applications.CreateStages(ctx, stages); err != nil {
					return err
				}
			}

		case appDomain.ActionAssignStage:
			st, err := u.findStage(ctx, r, a, in.Stage)
			if err != nil {
				return err
			}
			if st.Status != appDomain.StagePending && st.Status != appDomain.StageAssigned {
				return fmt.Errorf("%w: %s already %s", appDomain.ErrStageNotComplete, st.Stage, st.Status)
			}
			st.Status = appDomain.StageAssigned
			st.AssignedTo = in.AssignedTo
			if err := r.Applications.SaveStage(ctx, st); err != nil {
				return err
			}
			reason = fmt.Sprintf("%s assigned to %s", st.Stage, st.AssignedTo)

		case appDomain.ActionApproveStage:
			st, err := u.findStage(ctx, r, a, in.Stage)
			if err != nil {
				return err
			}
			if st.Status != appDomain.StageAssigned && st.Status != appDomain.StagePending {
				return fmt.Errorf("%w: %s already %s", appDomain.ErrStageNotComplete, st.Stage, st.Status)
			}
			now := u.clk.Now()
			st.Status = appDomain.StageApproved
			st.Decision = in.Decision
			st.DecidedAt = &now
			if err := r.Applications.SaveStage(ctx, st); err != nil {
				return err
			}
			stages, err := r.Applications.GetStages(ctx, a.ID)
			if err != nil {
				return err
			}
			if appDomain.ReviewComplete(stages) {
				// Join condition met: in_review completes.
				to = appDomain.StatusManagementApproval
				reason = "all review stages approved"
			} else {
				reason = fmt.Sprintf("%s approved", st.Stage)
			}

		case appDomain.ActionRejectStage:
			st, err := u.findStage(ctx, r, a, in.Stage)
			if err != nil {
				return err
			}
			if st.Status == appDomain.StageApproved || st.Status == appDomain.StageRejected || st.Status == appDomain.StageCancelled {
				return fmt.Errorf("%w: %s already %s", appDomain.ErrStageNotComplete, st.Stage, st.Status)
			}
			now := u.clk.Now()
			st.Status = appDomain.StageRejected
			st.Decision = in.Decision
			st.DecidedAt = &now
			if err := r.Applications.SaveStage(ctx, st); err != nil {
				return err
			}
			// Short-circuit: the remaining stages are cancelled, not evaluated.
			stages, err := r.Applications.GetStages(ctx, a.ID)
			if err != nil {
				return err
			}
			for i := range stages {
				if stages[i].ID == st.ID || stages[i].Status == appDomain.StageApproved || stages[i].Status == appDomain.StageRejected {
					continue
				}
				stages[i].Status = appDomain.StageCancelled
				if err := r.Applications.SaveStage(ctx, &stages[i]); err != nil {
					return err
				}
			}
			if reason == "" {
				reason = fmt.Sprintf("%s rejected", st.Stage)
			}

		case appDomain.ActionSendOffer:
			exp := u.clk.Today().AddDate(0, 0, u.params.OfferValidityDays)
			a.OfferExpiresAt = &exp

		case appDomain.ActionAcceptOffer:
			if a.OfferExpiresAt != nil && u.clk.Now().After(*a.OfferExpiresAt) {
				return fmt.Errorf("%w: offer expired %s", appDomain.ErrIneligibleTransition,
					a.OfferExpiresAt.Format(time.RFC3339))
			}

		case appDomain.ActionActivateLease:
			if missing := appDomain.MissingActivationDocuments(docs); len(missing) > 0 {
				return fmt.Errorf("%w: verified %s required", appDomain.ErrMissingDocument, appDomain.DocumentList(missing))
			}
			acc, items, err := u.buildAccount(a)
			if err != nil {
				return err
			}
			if err := r.Accounts.Create(ctx, acc, items); err != nil {
				return err
			}
			a.AccountID = acc.AccountID
			reason = "mortgage account " + acc.MortgageNumber + " opened"
		}

		if to != a.Status {
			a.Status = to
			a.StatusUpdatedAt = u.clk.Now()
		}
		if err := r.Applications.Save(ctx, a); err != nil {
			return err
		}

		rec := appDomain.TransitionRecord{
			RecordID:       uuid.NewString(),
			ApplicationRef: a.ID,
			Actor:          in.Actor,
			FromState:      from,
			ToState:        a.Status,
			Reason:         reason,
		}
		if err := r.Applications.AppendTransition(ctx, &rec); err != nil {
			return err
		}
		committed = append(committed, rec)
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range committed {
		u.log.Info("application transition",
			zap.String("application_id", in.ApplicationID),
			zap.String("actor", rec.Actor),
			zap.String("from", string(rec.FromState)),
			zap.String("to", string(rec.ToState)),
			zap.String("reason", rec.Reason))
		u.dispatch(ctx, in.ApplicationID, rec)
	}
	return dto, nil
}

// ExpireOffers is the scheduler-driven sweep moving lapsed offer_sent
// applications to offer_expired. Returns the number expired.
func (u *Usecase) ExpireOffers(ctx context.Context) (int, error) {
	now := u.clk.Now()
	lapsed, err := u.apps.ListExpiredOffers(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range lapsed {
		appID := lapsed[i].ApplicationID
		var rec appDomain.TransitionRecord
		err := u.uow.WithinApplicationTx(ctx, appID, func(r uow.Repos, a *appDomain.FinancingApplication) error {
			// Re-check under lock: someone may have accepted meanwhile.
			if a.Status != appDomain.StatusOfferSent || a.OfferExpiresAt == nil || !a.OfferExpiresAt.Before(now) {
				return nil
			}
			from := a.Status
			a.Status = appDomain.StatusOfferExpired
			a.StatusUpdatedAt = now
			if err := r.Applications.Save(ctx, a); err != nil {
				return err
			}
			rec = appDomain.TransitionRecord{
				RecordID:       uuid.NewString(),
				ApplicationRef: a.ID,
				Actor:          "system",
				FromState:      from,
				ToState:        a.Status,
				Reason:         "offer validity lapsed",
			}
			return r.Applications.AppendTransition(ctx, &rec)
		})
		if err != nil {
			u.log.Error("offer expiry sweep failed",
				zap.String("application_id", appID), zap.Error(err))
			continue
		}
		if rec.RecordID != "" {
			expired++
			u.log.Info("offer expired",
				zap.String("application_id", appID),
				zap.String("actor", "system"))
			u.dispatch(ctx, appID, rec)
		}
	}
	return expired, nil
}

// preload performs the external reads a transition needs before the
// transaction opens: document sets for gates, the eligibility check for
// start_review.
func (u *Usecase) preload(ctx context.Context, in TransitionInput) ([]appDomain.Document, appDomain.EligibilityCheck, error) {
	var docs []appDomain.Document
	var chk appDomain.EligibilityCheck
	switch in.Action {
	case appDomain.ActionSubmit, appDomain.ActionActivateLease:
		var err error
		docs, err = u.docs.GetDocuments(ctx, in.ApplicationID)
		if err != nil {
			return nil, chk, err
		}
	case appDomain.ActionStartReview:
		snap, err := u.apps.GetByApplicationID(ctx, in.ApplicationID)
		if err != nil {
			return nil, chk, err
		}
		chk, err = u.verifier.CheckEligibility(ctx, snap)
		if err != nil {
			return nil, chk, err
		}
	}
	return docs, chk, nil
}

func (u *Usecase) findStage(ctx context.Context, r uow.Repos, a *appDomain.FinancingApplication, name appDomain.StageName) (*appDomain.ApprovalStage, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: stage name required", appDomain.ErrStageNotComplete)
	}
	stages, err := r.Applications.GetStages(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	for i := range stages {
		if stages[i].Stage == name {
			return &stages[i], nil
		}
	}
	return nil, fmt.Errorf("%w: unknown stage %s", appDomain.ErrStageNotComplete, name)
}

func (u *Usecase) buildAccount(a *appDomain.FinancingApplication) (*acctDomain.MortgageAccount, []acctDomain.ScheduleItem, error) {
	now := u.clk.Now()
	start := u.clk.Today()
	items, err := acctDomain.GenerateSchedule(a.FinancingAmount, a.Rate, a.TenorMonths, a.GraceMonths, start)
	if err != nil {
		return nil, nil, err
	}
	acc := &acctDomain.MortgageAccount{
		AccountID:          id.NewID32(),
		MortgageNumber:     id.NewReference("MRT", now),
		ApplicationRef:     a.ID,
		ApplicationID:      a.ApplicationID,
		FinancingType:      a.FinancingType,
		PrincipalAmount:    a.FinancingAmount,
		EquityContribution: a.EquityContribution,
		TenorMonths:        a.TenorMonths,
		GraceMonths:        a.GraceMonths,
		Rate:               a.Rate,
		StartDate:          start,
		Status:             acctDomain.StatusActive,
		PenaltyBalance:     decimal.Zero,
		StatusUpdatedAt:    now,
	}
	return acc, items, nil
}

// dispatch is fire-and-forget after commit; a failure is reported for retry
// by the notifier itself and never affects the committed transition.
func (u *Usecase) dispatch(ctx context.Context, applicationID string, rec appDomain.TransitionRecord) {
	ev := ports.Event{
		Name:    "application.transition",
		Subject: applicationID,
		Fields: map[string]any{
			"from":   string(rec.FromState),
			"to":     string(rec.ToState),
			"actor":  rec.Actor,
			"reason": rec.Reason,
		},
	}
	if err := u.notifier.Notify(ctx, applicationID, ev); err != nil {
		u.log.Error("notification dispatch failed",
			zap.String("application_id", applicationID), zap.Error(err))
	}
}

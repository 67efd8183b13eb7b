package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	acctDomain "amanah-mortgage-backend/internal/domain/account"
	"amanah-mortgage-backend/internal/testutil/portmock"
	"amanah-mortgage-backend/internal/testutil/uowmock"
	ucAcct "amanah-mortgage-backend/internal/usecase/account"
	"amanah-mortgage-backend/pkg/logger"
)

func newAccountHandler(tx *uowmock.UoW) *AccountHandler {
	uc := ucAcct.NewUsecase(
		tx.Accounts, tx, &portmock.Notifier{},
		testClock, logger.NewNop(),
		acctDomain.MonitorConfig{
			DefaultAfterDays: 30,
			PenaltyDailyRate: decimal.RequireFromString("0.0005"),
		},
		2,
	)
	return NewAccountHandler(uc)
}

func activeAccount(t *testing.T) (*acctDomain.MortgageAccount, []acctDomain.ScheduleItem) {
	t.Helper()
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	items, err := acctDomain.GenerateSchedule(
		decimal.RequireFromString("12000000"),
		decimal.RequireFromString("0.06"),
		12, 0, start,
	)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	acc := &acctDomain.MortgageAccount{
		ID:              5,
		AccountID:       "cccccccccccccccccccccccccccccccc",
		MortgageNumber:  "MRT-20251201-9F1B2D",
		PrincipalAmount: decimal.RequireFromString("12000000"),
		TenorMonths:     12,
		Rate:            decimal.RequireFromString("0.06"),
		StartDate:       start,
		Status:          acctDomain.StatusActive,
		PenaltyBalance:  decimal.Zero,
	}
	for i := range items {
		items[i].AccountRef = acc.ID
	}
	return acc, items
}

func TestGetStatus_Success(t *testing.T) {
	e := newEchoWithValidator()
	tx := uowmock.New()

	acc, items := activeAccount(t)
	tx.Accounts.GetByAccountIDFn = func(ctx context.Context, accountID string) (*acctDomain.MortgageAccount, error) {
		return acc, nil
	}
	tx.Accounts.GetScheduleFn = func(ctx context.Context, accountRef uint64) ([]acctDomain.ScheduleItem, error) {
		return items, nil
	}
	h := newAccountHandler(tx)

	req := httptest.NewRequest(stdhttp.MethodGet, "/accounts/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("account_id")
	c.SetParamValues(acc.AccountID)

	if err := h.GetStatus(c); err != nil {
		t.Fatalf("GetStatus error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var dto ucAcct.AccountStatusDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	// Nothing due before 2026-01-15 except period 1 (due 2026-01-01): 14 days
	// overdue, inside the 30-day threshold.
	if dto.Status != string(acctDomain.StatusInArrears) {
		t.Fatalf("status = %s, want in_arrears", dto.Status)
	}
	if dto.OverdueDays != 14 {
		t.Fatalf("overdue_days = %d, want 14", dto.OverdueDays)
	}
	if dto.TransferEligible {
		t.Fatal("fresh account must not be transfer eligible")
	}
}

func TestGetSchedule_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	h := newAccountHandler(uowmock.New())

	req := httptest.NewRequest(stdhttp.MethodGet, "/accounts/x/schedule", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("account_id")
	c.SetParamValues("cccccccccccccccccccccccccccccccc")

	if err := h.GetSchedule(c); err != nil {
		t.Fatalf("GetSchedule error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRecordPayment_Success(t *testing.T) {
	e := newEchoWithValidator()
	tx := uowmock.New()

	acc, items := activeAccount(t)
	first := items[0]
	tx.Accounts.GetByAccountIDForUpdateFn = func(ctx context.Context, accountID string) (*acctDomain.MortgageAccount, error) {
		return acc, nil
	}
	tx.Accounts.GetItemByItemIDFn = func(ctx context.Context, itemID string) (*acctDomain.ScheduleItem, error) {
		if itemID == first.ItemID {
			return &first, nil
		}
		return nil, acctDomain.ErrNotFound
	}
	tx.Accounts.GetScheduleFn = func(ctx context.Context, accountRef uint64) ([]acctDomain.ScheduleItem, error) {
		return items, nil
	}
	var paid *acctDomain.Payment
	tx.Accounts.CreatePaymentFn = func(ctx context.Context, p *acctDomain.Payment) error {
		paid = p
		return nil
	}
	h := newAccountHandler(tx)

	body := map[string]any{
		"item_id":    first.ItemID,
		"amount":     first.Amount.StringFixed(2),
		"value_date": "2026-01-10",
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/accounts/x/payments", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Ax-Actor-Id", "teller.yusuf")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("account_id")
	c.SetParamValues(acc.AccountID)

	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var dto ucAcct.ScheduleItemDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if dto.Status != string(acctDomain.ItemPaid) {
		t.Fatalf("item status = %s, want paid", dto.Status)
	}
	if paid == nil || !paid.Amount.Equal(first.Amount) {
		t.Fatalf("unexpected payment: %+v", paid)
	}
}

func TestRecordPayment_ValidationFailure(t *testing.T) {
	e := newEchoWithValidator()
	h := newAccountHandler(uowmock.New())

	body := map[string]any{"item_id": "not-a-uuid", "amount": "-5"}
	req := httptest.NewRequest(stdhttp.MethodPost, "/accounts/x/payments", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("account_id")
	c.SetParamValues("cccccccccccccccccccccccccccccccc")

	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if !containsFieldMsg(er.Details, "ItemID", "UUID") {
		t.Fatalf("missing ItemID detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "Amount", "amount") {
		t.Fatalf("missing Amount detail: %+v", er.Details)
	}
}

func TestRecordPayment_AlreadyPaid_Conflict(t *testing.T) {
	e := newEchoWithValidator()
	tx := uowmock.New()

	acc, items := activeAccount(t)
	first := items[0]
	first.Status = acctDomain.ItemPaid
	tx.Accounts.GetByAccountIDForUpdateFn = func(ctx context.Context, accountID string) (*acctDomain.MortgageAccount, error) {
		return acc, nil
	}
	tx.Accounts.GetItemByItemIDFn = func(ctx context.Context, itemID string) (*acctDomain.ScheduleItem, error) {
		return &first, nil
	}
	h := newAccountHandler(tx)

	body := map[string]any{"item_id": first.ItemID, "amount": "100.00"}
	req := httptest.NewRequest(stdhttp.MethodPost, "/accounts/x/payments", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("account_id")
	c.SetParamValues(acc.AccountID)

	if err := h.RecordPayment(c); err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409, body=%s", rec.Code, rec.Body.String())
	}
}

func TestRestructure_Success(t *testing.T) {
	e := newEchoWithValidator()
	tx := uowmock.New()

	acc, items := activeAccount(t)
	// Periods 1-3 settled, the tail gets regenerated.
	for i := 0; i < 3; i++ {
		items[i].Status = acctDomain.ItemPaid
		items[i].PaidAmount = items[i].Amount
	}
	current := items
	tx.Accounts.GetByAccountIDForUpdateFn = func(ctx context.Context, accountID string) (*acctDomain.MortgageAccount, error) {
		return acc, nil
	}
	tx.Accounts.GetByAccountIDFn = func(ctx context.Context, accountID string) (*acctDomain.MortgageAccount, error) {
		return acc, nil
	}
	tx.Accounts.GetScheduleFn = func(ctx context.Context, accountRef uint64) ([]acctDomain.ScheduleItem, error) {
		return current, nil
	}
	deleted := false
	tx.Accounts.DeleteUnsettledFn = func(ctx context.Context, accountRef uint64) error {
		deleted = true
		return nil
	}
	tx.Accounts.CreateItemsFn = func(ctx context.Context, tail []acctDomain.ScheduleItem) error {
		current = append(current[:3], tail...)
		return nil
	}
	h := newAccountHandler(tx)

	body := map[string]any{"tenor_months": 18, "rate": "0.05"}
	req := httptest.NewRequest(stdhttp.MethodPost, "/accounts/x/restructure", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Ax-Actor-Id", "officer.amina")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("account_id")
	c.SetParamValues(acc.AccountID)

	if err := h.Restructure(c); err != nil {
		t.Fatalf("Restructure error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	if !deleted {
		t.Fatal("expected unsettled tail to be deleted")
	}
	var dto ucAcct.AccountStatusDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if dto.Status != string(acctDomain.StatusRestructured) {
		t.Fatalf("status = %s, want restructured", dto.Status)
	}
	if len(current) != 3+18 {
		t.Fatalf("schedule length = %d, want 21", len(current))
	}
	if current[3].Period != 4 {
		t.Fatalf("tail must continue numbering at 4, got %d", current[3].Period)
	}
}

func TestSetStatus_TransferNotEligible_Conflict(t *testing.T) {
	e := newEchoWithValidator()
	tx := uowmock.New()

	acc, items := activeAccount(t)
	tx.Accounts.GetByAccountIDForUpdateFn = func(ctx context.Context, accountID string) (*acctDomain.MortgageAccount, error) {
		return acc, nil
	}
	tx.Accounts.GetScheduleFn = func(ctx context.Context, accountRef uint64) ([]acctDomain.ScheduleItem, error) {
		return items, nil
	}
	h := newAccountHandler(tx)

	body := map[string]any{"status": "transferred"}
	req := httptest.NewRequest(stdhttp.MethodPost, "/accounts/x/status", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("account_id")
	c.SetParamValues(acc.AccountID)

	if err := h.SetStatus(c); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409, body=%s", rec.Code, rec.Body.String())
	}
}

func TestSetStatus_RequiresStatusOrReactivate(t *testing.T) {
	e := newEchoWithValidator()
	h := newAccountHandler(uowmock.New())

	req := httptest.NewRequest(stdhttp.MethodPost, "/accounts/x/status", mustJSON(map[string]any{}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("account_id")
	c.SetParamValues("cccccccccccccccccccccccccccccccc")

	if err := h.SetStatus(c); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	acctDomain "amanah-mortgage-backend/internal/domain/account"
	"amanah-mortgage-backend/internal/usecase/account"
)

type AccountHandler struct{ uc *account.Usecase }

func NewAccountHandler(uc *account.Usecase) *AccountHandler { return &AccountHandler{uc: uc} }

func (h *AccountHandler) GetStatus(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing account_id path param"})
	}
	dto, err := h.uc.GetStatus(c.Request().Context(), accountID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) GetSchedule(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing account_id path param"})
	}
	items, err := h.uc.GetSchedule(c.Request().Context(), accountID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

type recordPaymentReq struct {
	ItemID string `json:"item_id"    validate:"required,uuid"`
	Amount string `json:"amount"     validate:"required,money"`
	// Canonical date YYYY-MM-DD; defaults to today when omitted.
	ValueDate string `json:"value_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *AccountHandler) RecordPayment(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing account_id path param"})
	}
	var req recordPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	valueDate := time.Now().UTC()
	if req.ValueDate != "" {
		valueDate, _ = time.Parse("2006-01-02", req.ValueDate)
	}
	dto, err := h.uc.RecordPayment(c.Request().Context(), account.RecordPaymentInput{
		AccountID: accountID,
		ItemID:    req.ItemID,
		Amount:    decimal.RequireFromString(req.Amount),
		ValueDate: valueDate,
		Actor:     actorFrom(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type restructureReq struct {
	TenorMonths int    `json:"tenor_months" validate:"required,gte=1,lte=360"`
	Rate        string `json:"rate"         validate:"required,rate"`
}

func (h *AccountHandler) Restructure(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing account_id path param"})
	}
	var req restructureReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Restructure(c.Request().Context(), account.RestructureInput{
		AccountID:   accountID,
		TenorMonths: req.TenorMonths,
		Rate:        decimal.RequireFromString(req.Rate),
		Actor:       actorFrom(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type setStatusReq struct {
	Status     string `json:"status"     validate:"omitempty,oneof=suspended closed foreclosed matured transferred"`
	Reactivate bool   `json:"reactivate"`
}

func (h *AccountHandler) SetStatus(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing account_id path param"})
	}
	var req setStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if !req.Reactivate && req.Status == "" {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "status", Message: "is required unless reactivate is set"}},
		})
	}

	dto, err := h.uc.SetStatus(c.Request().Context(), account.SetStatusInput{
		AccountID:  accountID,
		Status:     acctDomain.Status(req.Status),
		Reactivate: req.Reactivate,
		Actor:      actorFrom(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

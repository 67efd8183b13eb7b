package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	appDomain "amanah-mortgage-backend/internal/domain/application"
	"amanah-mortgage-backend/internal/usecase/application"
)

type ApplicationHandler struct{ uc *application.Usecase }

func NewApplicationHandler(uc *application.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// Money and rate fields ride as strings so scale survives JSON intact.
type createApplicationReq struct {
	CustomerType       string `json:"customer_type"       validate:"required,oneof=nhf_contributor government_worker private_sector diaspora cooperative"`
	FinancingType      string `json:"financing_type"      validate:"required,oneof=ijara murabaha musharaka istisna"`
	PropertyValue      string `json:"property_value"      validate:"required,money"`
	EquityContribution string `json:"equity_contribution" validate:"required,money"`
	TenorMonths        int    `json:"tenor_months"        validate:"required,gte=1,lte=360"`
	GraceMonths        int    `json:"grace_months"        validate:"gte=0,lte=24"`
	Rate               string `json:"rate"                validate:"required,rate"`
	MonthlyIncome      string `json:"monthly_income"      validate:"required,money"`
	MonthlyDebt        string `json:"monthly_debt"        validate:"money"`
	EmploymentStatus   string `json:"employment_status"   validate:"required,oneof=employed self_employed unemployed"`
	NHFRegistered      bool   `json:"nhf_registered"`
}

func (h *ApplicationHandler) Create(c echo.Context) error {
	var req createApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.MonthlyDebt == "" {
		req.MonthlyDebt = "0"
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := application.CreateApplicationInput{
		CustomerType:       appDomain.CustomerType(req.CustomerType),
		FinancingType:      appDomain.FinancingType(req.FinancingType),
		PropertyValue:      decimal.RequireFromString(req.PropertyValue),
		EquityContribution: decimal.RequireFromString(req.EquityContribution),
		TenorMonths:        req.TenorMonths,
		GraceMonths:        req.GraceMonths,
		Rate:               decimal.RequireFromString(req.Rate),
		MonthlyIncome:      decimal.RequireFromString(req.MonthlyIncome),
		MonthlyDebt:        decimal.RequireFromString(req.MonthlyDebt),
		EmploymentStatus:   appDomain.EmploymentStatus(req.EmploymentStatus),
		NHFRegistered:      req.NHFRegistered,
		Actor:              actorFrom(c),
	}
	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	applicationID := c.Param("application_id")
	if applicationID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing application_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), applicationID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type upsertDocumentReq struct {
	Type               string `json:"type"                validate:"required,oneof=employer_letter payslip utility_bill id_card nhf_contribution employer_undertaking takaful_policy"`
	VerificationStatus string `json:"verification_status" validate:"required,oneof=pending verified rejected"`
}

func (h *ApplicationHandler) UpsertDocument(c echo.Context) error {
	applicationID := c.Param("application_id")
	if applicationID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing application_id path param"})
	}
	var req upsertDocumentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	err := h.uc.UpsertDocument(c.Request().Context(), application.DocumentInput{
		ApplicationID:      applicationID,
		Type:               appDomain.DocumentType(req.Type),
		VerificationStatus: appDomain.VerificationStatus(req.VerificationStatus),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "recorded"})
}

type transitionReq struct {
	Action     string `json:"action"      validate:"required,oneof=submit start_review assign_stage approve_stage reject_stage management_approve board_approve send_offer accept_offer reject_offer generate_contract sign_contract activate_lease cancel reject"`
	Reason     string `json:"reason"`
	Stage      string `json:"stage"       validate:"omitempty,oneof=credit_assessment legal_review shariah_review"`
	AssignedTo string `json:"assigned_to"`
	Decision   string `json:"decision"`
}

func (h *ApplicationHandler) Transition(c echo.Context) error {
	applicationID := c.Param("application_id")
	if applicationID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing application_id path param"})
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.ApplyTransition(c.Request().Context(), application.TransitionInput{
		ApplicationID: applicationID,
		Action:        appDomain.Action(req.Action),
		Actor:         actorFrom(c),
		Reason:        req.Reason,
		Stage:         appDomain.StageName(req.Stage),
		AssignedTo:    req.AssignedTo,
		Decision:      req.Decision,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) ListTransitions(c echo.Context) error {
	applicationID := c.Param("application_id")
	if applicationID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing application_id path param"})
	}
	recs, err := h.uc.GetTransitions(c.Request().Context(), applicationID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}

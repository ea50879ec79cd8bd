package http

import (
	"net/http"

	"lendledger/internal/adapter/middleware"
	"lendledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

// shared by request creation and term changes
type loanTermsReq struct {
	Amount       uint64 `json:"amount"        validate:"gt=0,lte=1000000000000000"`
	InterestRate uint64 `json:"interest_rate" validate:"lte=10000"`
	Duration     uint64 `json:"duration"      validate:"gt=0,lte=3153600000"`
}

type assignLenderReq struct {
	// empty means the caller lends
	LenderID string `json:"lender_id" validate:"omitempty,identity"`
}

type extensionReq struct {
	Duration uint64 `json:"duration" validate:"gt=0,lte=3153600000"`
}

func (h *LoanHandler) CreateRequest(c echo.Context) error {
	var req loanTermsReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateLoanRequest(c.Request().Context(), middleware.CallerID(c), loan.CreateLoanRequestInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) ListRequests(c echo.Context) error {
	out, err := h.uc.GetLoanRequests(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) AcceptRequest(c echo.Context) error {
	dto, err := h.uc.AcceptLoanRequest(c.Request().Context(), middleware.CallerID(c), c.Param("request_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	out, err := h.uc.GetLoans(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Status(c echo.Context) error {
	loanID := c.Param("loan_id")
	st, err := h.uc.GetLoanStatus(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"loan_id": loanID, "status": string(st)})
}

func (h *LoanHandler) Summary(c echo.Context) error {
	dto, err := h.uc.GetLoanSummary(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) AssignLender(c echo.Context) error {
	var req assignLenderReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	lender := req.LenderID
	if lender == "" {
		lender = middleware.CallerID(c)
	}
	dto, err := h.uc.AssignLender(c.Request().Context(), c.Param("loan_id"), lender)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ModifyTerms(c echo.Context) error {
	var req loanTermsReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.ModifyLoanTerms(c.Request().Context(), middleware.CallerID(c), c.Param("loan_id"), loan.ModifyTermsInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Extend(c echo.Context) error {
	var req extensionReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RequestLoanExtension(c.Request().Context(), middleware.CallerID(c), c.Param("loan_id"), req.Duration)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) UserHistory(c echo.Context) error {
	userID := c.Param("user_id")
	if !middleware.ValidIdentity(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id path param"})
	}
	out, err := h.uc.GetUserLoanHistory(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

package http

import (
	"net/http"

	"lendledger/internal/adapter/middleware"
	"lendledger/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
)

type RepaymentHandler struct{ uc *repayment.Usecase }

func NewRepaymentHandler(uc *repayment.Usecase) *RepaymentHandler {
	return &RepaymentHandler{uc: uc}
}

type makeRepaymentReq struct {
	Amount uint64 `json:"amount" validate:"gt=0"`
}

func (h *RepaymentHandler) Make(c echo.Context) error {
	var req makeRepaymentReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.MakeRepayment(c.Request().Context(), middleware.CallerID(c), c.Param("loan_id"), req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RepaymentHandler) List(c echo.Context) error {
	out, err := h.uc.ListRepayments(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

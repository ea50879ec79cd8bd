package http

import (
	"context"
	"net/http"

	"lendledger/internal/usecase/loan"
	"lendledger/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
)

// JobHandler triggers the ledger-wide batch jobs on demand; the scheduler
// runs the same usecase methods.
type JobHandler struct {
	loans      *loan.Usecase
	repayments *repayment.Usecase
}

func NewJobHandler(loans *loan.Usecase, repayments *repayment.Usecase) *JobHandler {
	return &JobHandler{loans: loans, repayments: repayments}
}

type jobResult struct {
	Job     string   `json:"job"`
	LoanIDs []string `json:"loan_ids"`
	Error   string   `json:"error,omitempty"`
}

func (h *JobHandler) CheckDefaults(c echo.Context) error {
	return runJob(c, "check_defaults", h.loans.CheckForDefault)
}

func (h *JobHandler) Accrue(c echo.Context) error {
	return runJob(c, "accrue", h.repayments.AccrueAll)
}

func (h *JobHandler) AutoRepay(c echo.Context) error {
	return runJob(c, "auto_repay", h.repayments.AutomateLoanRepayment)
}

// runJob reports partial progress alongside a failure.
func runJob(c echo.Context, name string, fn func(context.Context) ([]string, error)) error {
	ids, err := fn(c.Request().Context())
	if ids == nil {
		ids = []string{}
	}
	res := jobResult{Job: name, LoanIDs: ids}
	if err != nil {
		res.Error = err.Error()
		return c.JSON(http.StatusInternalServerError, res)
	}
	return c.JSON(http.StatusOK, res)
}

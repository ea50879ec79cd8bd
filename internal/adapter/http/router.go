package http

import (
	"net/http"

	"lendledger/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type Router struct {
	Health     *Handler
	Users      *UserHandler
	Loans      *LoanHandler
	Repayments *RepaymentHandler
	Jobs       *JobHandler
	Metrics    http.Handler

	// JobMiddleware guards /jobs; the routes are not mounted when Jobs is nil.
	JobMiddleware []echo.MiddlewareFunc
}

// Register mounts every route on e. Caller routes run Identity first, then mw
// in order. Operator routes (/health, /metrics, /jobs) carry no identity.
func (rt Router) Register(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	e.GET("/health", rt.Health.Health)
	if rt.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(rt.Metrics))
	}

	if rt.Jobs != nil {
		jobs := e.Group("/jobs", rt.JobMiddleware...)
		jobs.POST("/check-defaults", rt.Jobs.CheckDefaults)
		jobs.POST("/accrue", rt.Jobs.Accrue)
		jobs.POST("/auto-repay", rt.Jobs.AutoRepay)
	}

	api := e.Group("", append([]echo.MiddlewareFunc{middleware.Identity()}, mw...)...)

	api.POST("/users", rt.Users.Register)
	api.POST("/users/me/funds", rt.Users.SaveFunds)
	api.GET("/users/me", rt.Users.Me)
	api.GET("/users/:user_id/loans", rt.Loans.UserHistory)

	api.POST("/loan-requests", rt.Loans.CreateRequest)
	api.GET("/loan-requests", rt.Loans.ListRequests)
	api.POST("/loan-requests/:request_id/accept", rt.Loans.AcceptRequest)

	api.GET("/loans", rt.Loans.List)
	api.GET("/loans/:loan_id", rt.Loans.Get)
	api.GET("/loans/:loan_id/status", rt.Loans.Status)
	api.GET("/loans/:loan_id/summary", rt.Loans.Summary)
	api.POST("/loans/:loan_id/lender", rt.Loans.AssignLender)
	api.PUT("/loans/:loan_id/terms", rt.Loans.ModifyTerms)
	api.POST("/loans/:loan_id/extension", rt.Loans.Extend)
	api.POST("/loans/:loan_id/repayments", rt.Repayments.Make)
	api.GET("/loans/:loan_id/repayments", rt.Repayments.List)
}

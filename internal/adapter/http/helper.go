package http

import (
	"errors"
	"net/http"

	"lendledger/internal/domain/errs"

	"github.com/labstack/echo/v4"
)

// bind decodes and validates the body. On failure it writes the response and
// returns false.
func bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// writeError maps domain errors onto HTTP codes.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, errs.ErrInvalidPayload):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		// the cause reaches the access log, not the client
		return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Error: "internal error"}).SetInternal(err)
	}
}

package middleware

import (
	"time"

	"lendledger/internal/infrastructure/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AccessLog logs one line per request and feeds the HTTP metrics. Handler
// errors are rendered here so the logged status is the one sent.
func AccessLog(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			took := time.Since(start)

			req, res := c.Request(), c.Response()
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveHTTP(req.Method, route, res.Status, took)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("route", route),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Int64("bytes", res.Size),
				zap.Duration("took", took),
				zap.String("remote_ip", c.RealIP()),
			}
			if caller := CallerID(c); caller != "" {
				fields = append(fields, zap.String("caller", caller))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			if res.Status >= 500 {
				log.Error("http request", fields...)
			} else {
				log.Info("http request", fields...)
			}
			return nil
		}
	}
}

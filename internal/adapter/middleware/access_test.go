package middleware

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(AccessLog(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, Identity())
	e.GET("/boom", func(c echo.Context) error { return errors.New("kaput") })

	doReq(t, e, http.MethodGet, "/ok", "", map[string]string{HeaderCallerID: "bob"})
	rec := doReq(t, e, http.MethodGet, "/boom", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("boom: want 500, got %d", rec.Code)
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("want 2 log lines, got %d", len(entries))
	}
	ok := entries[0].ContextMap()
	if ok["route"] != "/ok" || ok["status"] != int64(http.StatusNoContent) || ok["caller"] != "bob" {
		t.Fatalf("ok entry fields: %v", ok)
	}
	if entries[1].Level != zap.ErrorLevel || entries[1].ContextMap()["status"] != int64(http.StatusInternalServerError) {
		t.Fatalf("boom entry: %v %v", entries[1].Level, entries[1].ContextMap())
	}
}

func TestAccessLog_SeesHandlerErrorBehindIdempotency(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(AccessLog(zap.New(core)))
	g := e.Group("", Identity(), Idempotency(newMiniredisClient(t), time.Minute, zap.NewNop()))
	g.POST("/loans/:loan_id/repayments", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(errors.New("db gone"))
	})

	rec := doReq(t, e, http.MethodPost, "/loans/x/repayments", `{}`, validHeaders())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rec.Code)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusInternalServerError) {
		t.Fatalf("status field: %v", fields)
	}
	if msg, _ := fields["error"].(string); !strings.Contains(msg, "db gone") {
		t.Fatalf("cause missing from access log: %v", fields)
	}
}

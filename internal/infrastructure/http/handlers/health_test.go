package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serve(t *testing.T, fn echo.HandlerFunc) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	if err := fn(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var body readinessResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func ok(context.Context) error { return nil }

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	if err := NewHealthHandler().Liveness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	h := NewReadinessHandler(Dependency{Name: "mongodb", Ping: ok}, Dependency{Name: "redis", Ping: ok})

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body.Status != "ok" || body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }
	h := NewReadinessHandler(Dependency{Name: "postgres", Ping: down}, Dependency{Name: "redis", Ping: ok})

	rec, body := serve(t, h.Readiness)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body.Status != "degraded" {
		t.Fatalf("expected degraded, got %s", body.Status)
	}
	if got := body.Dependencies["postgres"]; got.Status != "unhealthy" || got.Error != "connection refused" {
		t.Fatalf("unexpected postgres status: %+v", got)
	}
	if body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("redis should stay ok: %+v", body.Dependencies["redis"])
	}
}

package crm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/laylabot/leasing-agent/pkg/logging"
)

func newTestLeadRouter(t *testing.T) (http.Handler, *InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	h := NewHandler(repo, logging.Default())

	r := chi.NewRouter()
	r.Post("/leads", h.SyncLead)
	r.Get("/leads/{phone}", h.GetLead)
	return r, repo
}

func TestHandlerSyncLead(t *testing.T) {
	r, repo := newTestLeadRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/leads",
		strings.NewReader(`{"name": "Sarah", "phone": "0501234567", "property_interest": "rocky_001"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	lead, err := repo.GetByPhone(context.Background(), "0501234567")
	if err != nil {
		t.Fatalf("lead not stored: %v", err)
	}
	if lead.PropertyInterest != "rocky_001" || lead.Source != "api" {
		t.Errorf("lead = %+v", lead)
	}
}

func TestHandlerSyncLeadValidation(t *testing.T) {
	r, _ := newTestLeadRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(`{"phone": "0501234567"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing name: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(`{not json`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: status = %d", rec.Code)
	}
}

func TestHandlerGetLead(t *testing.T) {
	r, repo := newTestLeadRouter(t)
	if _, err := repo.Sync(context.Background(), &Lead{Name: "Sarah", Phone: "0501234567"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/0501234567", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sarah") {
		t.Errorf("body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/0000", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing lead: status = %d", rec.Code)
	}
}

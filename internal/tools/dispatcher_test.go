package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/laylabot/leasing-agent/internal/booking"
	"github.com/laylabot/leasing-agent/internal/conversation"
	"github.com/laylabot/leasing-agent/internal/crm"
	"github.com/laylabot/leasing-agent/internal/search"
	"github.com/laylabot/leasing-agent/pkg/logging"
)

func fixedClock() time.Time {
	return time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *crm.InMemoryRepository) {
	t.Helper()
	store := booking.NewStore(booking.WithClock(fixedClock))
	validator := booking.NewSmartValidator(store, logging.Default())
	index := search.NewInMemoryIndex(search.DemoListings())
	leads := crm.NewInMemoryRepository()
	return NewDispatcher(index, store, validator, leads, logging.Default()), leads
}

func dispatch(t *testing.T, d *Dispatcher, state *conversation.State, name string, args map[string]any) conversation.Observation {
	t.Helper()
	return d.Dispatch(context.Background(), state, conversation.ActionCall{ID: "c1", Name: name, Args: args})
}

func TestDispatchSearch(t *testing.T) {
	d, _ := newTestDispatcher(t)
	obs := dispatch(t, d, conversation.NewState(), conversation.ActionSearchProperties, map[string]any{
		"query":           "2 bedroom business bay",
		"score_threshold": 0.1,
	})

	if obs.Status != "ok" {
		t.Fatalf("status = %q, text %q", obs.Status, obs.Text)
	}
	if len(obs.SearchResults) == 0 {
		t.Fatal("expected hits")
	}
	if obs.SearchResults[0].ID != "rocky_002" {
		t.Errorf("top hit = %q", obs.SearchResults[0].ID)
	}
	if !strings.Contains(obs.Text, "Property 1 (Similarity Score:") {
		t.Errorf("text = %q", obs.Text)
	}
}

func TestDispatchSearchStructuredFilters(t *testing.T) {
	d, _ := newTestDispatcher(t)
	obs := dispatch(t, d, conversation.NewState(), conversation.ActionSearchProperties, map[string]any{
		"query":           "apartment with gym",
		"bedrooms":        float64(1),
		"max_price":       float64(5000),
		"score_threshold": 0.0,
	})

	if len(obs.SearchResults) != 1 || obs.SearchResults[0].ID != "rocky_004" {
		t.Fatalf("hits = %+v", obs.SearchResults)
	}
}

func TestDispatchSearchNoMatches(t *testing.T) {
	d, _ := newTestDispatcher(t)
	obs := dispatch(t, d, conversation.NewState(), conversation.ActionSearchProperties, map[string]any{
		"query":    "apartment",
		"bedrooms": float64(9),
	})

	if obs.Status != "ok" {
		t.Errorf("status = %q", obs.Status)
	}
	if !strings.Contains(obs.Text, "No properties found") {
		t.Errorf("text = %q", obs.Text)
	}
	if obs.SearchResults != nil {
		t.Errorf("unexpected hits: %+v", obs.SearchResults)
	}
}

func TestDispatchPropertyDetails(t *testing.T) {
	d, _ := newTestDispatcher(t)

	obs := dispatch(t, d, conversation.NewState(), conversation.ActionGetPropertyDetails, map[string]any{
		"property_id": "rocky_003",
	})
	if obs.Status != "ok" {
		t.Fatalf("status = %q, text %q", obs.Status, obs.Text)
	}
	if !strings.Contains(obs.Text, "Full Property Details:") || !strings.Contains(obs.Text, "rocky_003") {
		t.Errorf("text = %q", obs.Text)
	}

	// Bare numeric references resolve to the same listing.
	obs = dispatch(t, d, conversation.NewState(), conversation.ActionGetPropertyDetails, map[string]any{
		"property_id": "#3",
	})
	if !strings.Contains(obs.Text, "rocky_003") {
		t.Errorf("normalized lookup failed: %q", obs.Text)
	}
}

func TestDispatchPropertyDetailsNotFound(t *testing.T) {
	d, _ := newTestDispatcher(t)
	obs := dispatch(t, d, conversation.NewState(), conversation.ActionGetPropertyDetails, map[string]any{
		"property_id": "rocky_099",
	})
	if obs.Status != "rejected" {
		t.Errorf("status = %q", obs.Status)
	}
	if !strings.Contains(obs.Text, "Property rocky_099 not found") {
		t.Errorf("text = %q", obs.Text)
	}
}

func TestDispatchPropertyDetailsFromSelection(t *testing.T) {
	d, _ := newTestDispatcher(t)
	state := conversation.NewState()
	state.SelectedProperty = &conversation.SelectedProperty{PropertyID: "rocky_001"}

	obs := dispatch(t, d, state, conversation.ActionGetPropertyDetails, nil)
	if !strings.Contains(obs.Text, "rocky_001") {
		t.Errorf("text = %q", obs.Text)
	}
}

func TestDispatchTourSlots(t *testing.T) {
	d, _ := newTestDispatcher(t)
	obs := dispatch(t, d, conversation.NewState(), conversation.ActionGetTourSlots, map[string]any{
		"property_id": "rocky_001",
	})

	if obs.Status != "ok" {
		t.Fatalf("status = %q", obs.Status)
	}
	if !strings.Contains(obs.Text, "Available tour slots for property rocky_001:") {
		t.Errorf("text = %q", obs.Text)
	}
	if !strings.Contains(obs.Text, "2025-11-03: 10:00, 14:00, 16:00") {
		t.Errorf("slot grouping wrong: %q", obs.Text)
	}
}

func TestDispatchTourSlotsNoProperty(t *testing.T) {
	d, _ := newTestDispatcher(t)
	obs := dispatch(t, d, conversation.NewState(), conversation.ActionGetTourSlots, nil)
	if obs.Status != "rejected" {
		t.Errorf("status = %q, text %q", obs.Status, obs.Text)
	}
}

func TestDispatchCheckAvailability(t *testing.T) {
	d, _ := newTestDispatcher(t)
	state := conversation.NewState()
	state.TourDetails = conversation.TourDetails{PropertyID: "rocky_001", Date: "2025-11-04", Time: "14:00"}

	obs := dispatch(t, d, state, conversation.ActionCheckAvailability, nil)
	if !strings.Contains(obs.Text, "is available") {
		t.Errorf("text = %q", obs.Text)
	}

	obs = dispatch(t, d, state, conversation.ActionCheckAvailability, map[string]any{"time": "11:00"})
	if !strings.Contains(obs.Text, "is not available") {
		t.Errorf("text = %q", obs.Text)
	}
}

func TestDispatchBookTour(t *testing.T) {
	d, _ := newTestDispatcher(t)
	state := conversation.NewState()
	state.LeadInfo = conversation.LeadInfo{Name: "Sarah", Phone: "0501234567"}
	state.TourDetails = conversation.TourDetails{PropertyID: "rocky_001", Date: "2025-11-04", Time: "14:00"}

	obs := dispatch(t, d, state, conversation.ActionBookTourSmart, nil)
	if obs.Status != "ok" || !obs.BookingConfirmed {
		t.Fatalf("status = %q confirmed = %v text %q", obs.Status, obs.BookingConfirmed, obs.Text)
	}
	if !strings.Contains(obs.Text, "Confirmation ID: rocky_001_2025_11_04_14_00") {
		t.Errorf("text = %q", obs.Text)
	}

	// Same slot again is rejected, not double-booked.
	obs = dispatch(t, d, state, conversation.ActionBookTourSmart, nil)
	if obs.Status != "rejected" || obs.BookingConfirmed {
		t.Errorf("second booking: status = %q confirmed = %v", obs.Status, obs.BookingConfirmed)
	}
	if !strings.Contains(obs.Text, "Booking failed") {
		t.Errorf("text = %q", obs.Text)
	}
}

func TestDispatchBookTourMissingFacts(t *testing.T) {
	d, _ := newTestDispatcher(t)
	state := conversation.NewState()
	state.TourDetails = conversation.TourDetails{Date: "2025-11-04", Time: "14:00"}

	obs := dispatch(t, d, state, conversation.ActionBookTourSmart, nil)
	if obs.Status != "rejected" || obs.BookingConfirmed {
		t.Fatalf("status = %q confirmed = %v", obs.Status, obs.BookingConfirmed)
	}
	if !strings.Contains(obs.Text, "property selection, your name, your phone number") {
		t.Errorf("text = %q", obs.Text)
	}
}

func TestDispatchSyncToCRM(t *testing.T) {
	d, leads := newTestDispatcher(t)
	state := conversation.NewState()
	state.LeadInfo = conversation.LeadInfo{Name: "Sarah", Phone: "0501234567"}
	state.TourDetails = conversation.TourDetails{PropertyID: "rocky_002", Date: "2025-11-04"}

	obs := dispatch(t, d, state, conversation.ActionSyncToCRM, nil)
	if obs.Status != "ok" {
		t.Fatalf("status = %q text %q", obs.Status, obs.Text)
	}
	if obs.Text != "Lead information synced to CRM successfully. Lead: Sarah (0501234567)" {
		t.Errorf("text = %q", obs.Text)
	}

	lead, err := leads.GetByPhone(context.Background(), "0501234567")
	if err != nil {
		t.Fatalf("lead not stored: %v", err)
	}
	if lead.PropertyInterest != "rocky_002" || lead.Source != "layla_agent" {
		t.Errorf("lead = %+v", lead)
	}
}

func TestDispatchSyncToCRMMissingContact(t *testing.T) {
	d, _ := newTestDispatcher(t)
	obs := dispatch(t, d, conversation.NewState(), conversation.ActionSyncToCRM, nil)
	if obs.Status != "rejected" {
		t.Errorf("status = %q", obs.Status)
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	d, _ := newTestDispatcher(t)
	obs := dispatch(t, d, conversation.NewState(), "send_rocket", nil)
	if obs.Status != "unknown_action" {
		t.Errorf("status = %q", obs.Status)
	}
	if !strings.Contains(obs.Text, "send_rocket") {
		t.Errorf("text = %q", obs.Text)
	}
}

func TestFormatSlotsGroupsByDate(t *testing.T) {
	text := formatSlots("rocky_001", []booking.Slot{
		{PropertyID: "rocky_001", Date: "2025-11-05", Time: "16:00", Available: true},
		{PropertyID: "rocky_001", Date: "2025-11-04", Time: "10:00", Available: true},
		{PropertyID: "rocky_001", Date: "2025-11-04", Time: "14:00", Available: true},
	})
	want := "Available tour slots for property rocky_001:\n\n2025-11-04: 10:00, 14:00\n2025-11-05: 16:00"
	if text != want {
		t.Errorf("formatSlots = %q, want %q", text, want)
	}
}

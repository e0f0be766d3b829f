package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/laylabot/leasing-agent/internal/booking"
	"github.com/laylabot/leasing-agent/internal/conversation"
	"github.com/laylabot/leasing-agent/internal/crm"
	"github.com/laylabot/leasing-agent/internal/search"
)

func (d *Dispatcher) searchProperties(ctx context.Context, call conversation.ActionCall, obs *conversation.Observation) {
	query := stringArg(call.Args, "query")
	filters := search.ParseFilters(query)
	applyFilterArgs(filters, call.Args)

	threshold := floatArg(call.Args, "score_threshold", defaultScoreThreshold)

	hits, err := d.index.Search(ctx, query, filters, d.searchLimit, threshold)
	if err != nil {
		d.logger.Error("property search failed", "query", query, "error", err)
		obs.Status = "error"
		obs.Text = "Property search is temporarily unavailable. Please try again."
		return
	}
	if len(hits) == 0 {
		obs.Text = "No properties found matching your criteria. Try adjusting the filters or broadening the search."
		return
	}

	obs.Text = search.FormatSummaries(hits)
	obs.SearchResults = hits
}

func (d *Dispatcher) propertyDetails(ctx context.Context, state *conversation.State, call conversation.ActionCall, obs *conversation.Observation) {
	propertyID := stringArg(call.Args, "property_id")
	if propertyID == "" {
		propertyID = state.TourPropertyID()
	}
	if propertyID == "" {
		obs.Status = "rejected"
		obs.Text = "No property selected. Please search for available properties first."
		return
	}

	p, err := d.index.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, search.ErrPropertyNotFound) {
			obs.Status = "rejected"
			obs.Text = fmt.Sprintf("Property %s not found. Please search for available properties first.", propertyID)
			return
		}
		d.logger.Error("property lookup failed", "property_id", propertyID, "error", err)
		obs.Status = "error"
		obs.Text = "Property lookup is temporarily unavailable. Please try again."
		return
	}

	obs.Text = search.FormatProperty(p)
}

func (d *Dispatcher) checkAvailability(state *conversation.State, call conversation.ActionCall, obs *conversation.Observation) {
	propertyID := firstNonEmpty(stringArg(call.Args, "property_id"), state.TourPropertyID())
	date := firstNonEmpty(stringArg(call.Args, "date"), state.TourDetails.Date)
	tourTime := firstNonEmpty(stringArg(call.Args, "time"), state.TourDetails.Time)

	if propertyID == "" || date == "" || tourTime == "" {
		obs.Status = "rejected"
		obs.Text = "I need a property, date and time to check availability."
		return
	}

	if d.slots.CheckAvailability(propertyID, date, tourTime) {
		obs.Text = fmt.Sprintf("The %s %s slot for property %s is available.", date, tourTime, propertyID)
	} else {
		obs.Text = fmt.Sprintf("The %s %s slot for property %s is not available.", date, tourTime, propertyID)
	}
}

func (d *Dispatcher) tourSlots(state *conversation.State, call conversation.ActionCall, obs *conversation.Observation) {
	propertyID := firstNonEmpty(stringArg(call.Args, "property_id"), state.TourPropertyID())
	if propertyID == "" {
		obs.Status = "rejected"
		obs.Text = "No property selected. Please pick a property before asking for tour slots."
		return
	}

	slots := d.slots.AvailableSlots(propertyID, stringArg(call.Args, "date"))
	if len(slots) == 0 {
		obs.Text = fmt.Sprintf("No tour slots are currently available for property %s.", propertyID)
		return
	}

	obs.Text = formatSlots(propertyID, slots)
}

func (d *Dispatcher) bookTour(ctx context.Context, state *conversation.State, obs *conversation.Observation) {
	facts := booking.TourFacts{
		PropertyID: state.TourPropertyID(),
		Date:       state.TourDetails.Date,
		Time:       state.TourDetails.Time,
		Name:       state.LeadInfo.Name,
		Phone:      state.LeadInfo.Phone,
	}

	text, b := d.validator.BookTour(ctx, facts)
	obs.Text = text
	if b != nil {
		obs.BookingConfirmed = true
	} else {
		obs.Status = "rejected"
	}
}

func (d *Dispatcher) syncToCRM(ctx context.Context, state *conversation.State, obs *conversation.Observation) {
	lead := &crm.Lead{
		Name:             state.LeadInfo.Name,
		Phone:            state.LeadInfo.Phone,
		Email:            state.LeadInfo.Email,
		PropertyInterest: state.TourPropertyID(),
		TourDate:         state.TourDetails.Date,
		TourTime:         state.TourDetails.Time,
		Source:           leadSource,
	}

	synced, err := d.leads.Sync(ctx, lead)
	if err != nil {
		if errors.Is(err, crm.ErrInvalidName) || errors.Is(err, crm.ErrMissingPhone) {
			obs.Status = "rejected"
			obs.Text = "I need your name and phone number to save your information."
			return
		}
		d.logger.Error("crm sync failed", "error", err)
		obs.Status = "error"
		obs.Text = "CRM sync is temporarily unavailable. Please try again later."
		return
	}

	obs.Text = fmt.Sprintf("Lead information synced to CRM successfully. Lead: %s (%s)", synced.Name, synced.Phone)
}

// formatSlots groups open slots by date, one line per day.
func formatSlots(propertyID string, slots []booking.Slot) string {
	byDate := make(map[string][]string)
	var dates []string
	for _, s := range slots {
		if _, ok := byDate[s.Date]; !ok {
			dates = append(dates, s.Date)
		}
		byDate[s.Date] = append(byDate[s.Date], s.Time)
	}
	sort.Strings(dates)

	var b strings.Builder
	fmt.Fprintf(&b, "Available tour slots for property %s:\n", propertyID)
	for _, date := range dates {
		times := byDate[date]
		sort.Strings(times)
		fmt.Fprintf(&b, "\n%s: %s", date, strings.Join(times, ", "))
	}
	return b.String()
}

func applyFilterArgs(f *search.Filters, args map[string]any) {
	if n, ok := intFromArg(args, "bedrooms"); ok {
		f.Bedrooms = &n
	}
	if n, ok := intFromArg(args, "bathrooms"); ok {
		f.Bathrooms = &n
	}
	if v, ok := floatFromArg(args, "max_price"); ok {
		f.MaxMonthlyRent = &v
	}
	if v, ok := floatFromArg(args, "min_price"); ok {
		f.MinMonthlyRent = &v
	}
	if b, ok := args["furnished"].(bool); ok {
		furnished := b
		f.Furnished = &furnished
	}
	if area := stringArg(args, "area"); area != "" {
		f.Area = area
	}
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// JSON numbers decode as float64, so integer args arrive that way too.
func intFromArg(args map[string]any, key string) (int, bool) {
	if v, ok := floatFromArg(args, key); ok {
		return int(v), true
	}
	return 0, false
}

func floatFromArg(args map[string]any, key string) (float64, bool) {
	if args == nil {
		return 0, false
	}
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func floatArg(args map[string]any, key string, fallback float64) float64 {
	if v, ok := floatFromArg(args, key); ok {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

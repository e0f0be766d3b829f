package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var bookingTracer = otel.Tracer("layla.internal.booking")

// ErrSlotUnavailable indicates the slot is not offered or already booked.
var ErrSlotUnavailable = errors.New("booking: slot unavailable")

// Slot is an offered tour time for a property.
type Slot struct {
	PropertyID string `json:"property_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"` // HH:MM
	Available  bool   `json:"available"`
}

// Booking is a committed tour reservation.
type Booking struct {
	PropertyID     string    `json:"property_id"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	CustomerName   string    `json:"customer_name"`
	CustomerPhone  string    `json:"customer_phone"`
	CreatedAt      time.Time `json:"created_at"`
	ConfirmationID string    `json:"confirmation_id"`
}

// daily tour offers, matching what the leasing office staffs
var defaultOfferHours = []int{10, 14, 16}

// Store holds per-property tour calendars and committed bookings. A
// property's calendar is generated lazily on first reference: the default
// offer hours on each of the next windowDays days. Stores are injected
// per process (or per test) rather than shared through package state.
type Store struct {
	windowDays int
	offerHours []int
	now        func() time.Time

	mu        sync.Mutex
	calendars map[string]*calendar
}

type calendar struct {
	mu       sync.Mutex
	slots    []*Slot
	bookings []Booking
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithWindowDays overrides the forward booking window.
func WithWindowDays(days int) StoreOption {
	return func(s *Store) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// WithOfferHours overrides the daily tour hours.
func WithOfferHours(hours []int) StoreOption {
	return func(s *Store) {
		if len(hours) > 0 {
			s.offerHours = append([]int(nil), hours...)
		}
	}
}

// WithClock overrides wall-clock time, for deterministic tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty booking store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		windowDays: 7,
		offerHours: defaultOfferHours,
		now:        time.Now,
		calendars:  make(map[string]*calendar),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// calendarFor returns the property's calendar, generating it on first use.
func (s *Store) calendarFor(propertyID string) *calendar {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cal, ok := s.calendars[propertyID]; ok {
		return cal
	}

	cal := &calendar{}
	day := s.now().Truncate(24 * time.Hour)
	for offset := 0; offset < s.windowDays; offset++ {
		date := day.AddDate(0, 0, offset).Format("2006-01-02")
		for _, hour := range s.offerHours {
			cal.slots = append(cal.slots, &Slot{
				PropertyID: propertyID,
				Date:       date,
				Time:       fmt.Sprintf("%02d:00", hour),
				Available:  true,
			})
		}
	}
	s.calendars[propertyID] = cal
	return cal
}

// AvailableSlots lists open slots for a property, optionally filtered to one
// date, sorted by date then time.
func (s *Store) AvailableSlots(propertyID string, date string) []Slot {
	cal := s.calendarFor(propertyID)
	cal.mu.Lock()
	defer cal.mu.Unlock()

	var open []Slot
	for _, slot := range cal.slots {
		if !slot.Available {
			continue
		}
		if date != "" && slot.Date != date {
			continue
		}
		open = append(open, *slot)
	}
	sort.Slice(open, func(i, j int) bool {
		if open[i].Date != open[j].Date {
			return open[i].Date < open[j].Date
		}
		return open[i].Time < open[j].Time
	})
	return open
}

// CheckAvailability reports whether the exact (date, time) slot is open.
func (s *Store) CheckAvailability(propertyID, date, tourTime string) bool {
	cal := s.calendarFor(propertyID)
	cal.mu.Lock()
	defer cal.mu.Unlock()

	for _, slot := range cal.slots {
		if slot.Date == date && slot.Time == tourTime {
			return slot.Available
		}
	}
	return false
}

// Reserve books a slot. The check-then-mark sequence is atomic per property,
// so concurrent callers cannot double-book. A repeat reservation of the same
// slot fails with ErrSlotUnavailable rather than returning the original
// confirmation.
func (s *Store) Reserve(ctx context.Context, propertyID, date, tourTime, customerName, customerPhone string) (*Booking, error) {
	_, span := bookingTracer.Start(ctx, "booking.reserve", trace.WithAttributes(
		attribute.String("layla.property_id", propertyID),
		attribute.String("layla.slot", date+" "+tourTime),
	))
	defer span.End()

	cal := s.calendarFor(propertyID)
	cal.mu.Lock()
	defer cal.mu.Unlock()

	for _, slot := range cal.slots {
		if slot.Date != date || slot.Time != tourTime {
			continue
		}
		if !slot.Available {
			span.RecordError(ErrSlotUnavailable)
			return nil, fmt.Errorf("booking: slot %s %s already booked for %s: %w", date, tourTime, propertyID, ErrSlotUnavailable)
		}
		slot.Available = false

		b := Booking{
			PropertyID:     propertyID,
			Date:           date,
			Time:           tourTime,
			CustomerName:   customerName,
			CustomerPhone:  customerPhone,
			CreatedAt:      s.now().UTC(),
			ConfirmationID: ConfirmationID(propertyID, date, tourTime),
		}
		cal.bookings = append(cal.bookings, b)
		return &b, nil
	}

	span.RecordError(ErrSlotUnavailable)
	return nil, fmt.Errorf("booking: no %s %s slot offered for %s: %w", date, tourTime, propertyID, ErrSlotUnavailable)
}

// Bookings returns committed bookings for a property, oldest first.
func (s *Store) Bookings(propertyID string) []Booking {
	cal := s.calendarFor(propertyID)
	cal.mu.Lock()
	defer cal.mu.Unlock()
	return append([]Booking(nil), cal.bookings...)
}

// ConfirmationID derives the deterministic confirmation code for a slot.
// Identical (property, date, time) triples always produce the same code,
// which makes duplicate booking attempts detectable downstream.
func ConfirmationID(propertyID, date, tourTime string) string {
	id := propertyID + "_" + date + "_" + tourTime
	id = strings.ReplaceAll(id, "-", "_")
	id = strings.ReplaceAll(id, ":", "_")
	return id
}

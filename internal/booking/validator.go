package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/laylabot/leasing-agent/pkg/logging"
)

// TourFacts is the accumulated knowledge the validator judges
// booking-readiness against.
type TourFacts struct {
	PropertyID string
	Date       string
	Time       string
	Name       string
	Phone      string
}

var placeholderNames = map[string]struct{}{
	"layla": {}, "customer": {}, "user": {}, "test": {},
	"demo": {}, "example": {}, "placeholder": {},
}

var placeholderPhones = map[string]struct{}{
	"1234567890": {}, "0000000000": {}, "1111111111": {},
	"123456789": {}, "00000000": {},
}

// SmartValidator gates tour bookings: it computes what is still missing or
// invalid and only delegates to the store when the facts are complete.
type SmartValidator struct {
	store  *Store
	logger *logging.Logger
}

// NewSmartValidator creates a validator over the given store.
func NewSmartValidator(store *Store, logger *logging.Logger) *SmartValidator {
	if store == nil {
		panic("booking: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SmartValidator{store: store, logger: logger}
}

// MissingRequirements returns the outstanding requirements in priority
// order: property, date, time, name, phone. Placeholder values count as
// invalid even though they are populated.
func MissingRequirements(facts TourFacts) []string {
	var missing []string
	if facts.PropertyID == "" {
		missing = append(missing, "property selection")
	}
	if facts.Date == "" {
		missing = append(missing, "tour date")
	}
	if facts.Time == "" {
		missing = append(missing, "tour time")
	}
	if facts.Name == "" {
		missing = append(missing, "your name")
	}
	if facts.Phone == "" {
		missing = append(missing, "your phone number")
	}

	if facts.Name != "" {
		if _, bad := placeholderNames[strings.ToLower(facts.Name)]; bad {
			missing = append(missing, "your actual name (not a placeholder)")
		}
	}
	if facts.Phone != "" && isPlaceholderPhone(facts.Phone) {
		missing = append(missing, "your actual phone number (not a placeholder)")
	}
	return missing
}

func isPlaceholderPhone(phone string) bool {
	if _, bad := placeholderPhones[phone]; bad {
		return true
	}
	return len(phone) >= 8 && repeatedDigits(phone)
}

func repeatedDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return len(s) > 0
}

// BookTour validates the facts and reserves the slot when complete. The
// returned text is the observation fed back into the conversation; booking
// is non-nil only on success.
func (v *SmartValidator) BookTour(ctx context.Context, facts TourFacts) (string, *Booking) {
	if missing := MissingRequirements(facts); len(missing) > 0 {
		return fmt.Sprintf(
			"I need the following information to book your tour: %s. Please provide this information.",
			strings.Join(missing, ", "),
		), nil
	}

	b, err := v.store.Reserve(ctx, facts.PropertyID, facts.Date, facts.Time, facts.Name, facts.Phone)
	if err != nil {
		v.logger.Warn("tour booking rejected",
			"property_id", facts.PropertyID,
			"date", facts.Date,
			"time", facts.Time,
			"error", err,
		)
		return fmt.Sprintf("Booking failed: the %s %s slot for property %s is not available. Please pick another slot.",
			facts.Date, facts.Time, facts.PropertyID), nil
	}

	v.logger.Info("tour booked",
		"property_id", b.PropertyID,
		"confirmation_id", b.ConfirmationID,
		"date", b.Date,
		"time", b.Time,
	)
	return fmt.Sprintf(`Tour booking confirmed!

Confirmation ID: %s
Property ID: %s
Date: %s
Time: %s
Customer: %s
Phone: %s

We'll send you a reminder 1 hour before your tour.`,
		b.ConfirmationID, b.PropertyID, b.Date, b.Time, b.CustomerName, b.CustomerPhone), b
}

package crm

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidName is returned when the lead name is missing.
	ErrInvalidName = errors.New("crm: name is required")

	// ErrMissingPhone is returned when the lead phone is missing.
	ErrMissingPhone = errors.New("crm: phone is required")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("crm: lead not found")
)

// Lead is a customer record synced from a conversation.
type Lead struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email,omitempty"`
	PropertyInterest string    `json:"property_interest,omitempty"`
	TourDate         string    `json:"tour_date,omitempty"`
	TourTime         string    `json:"tour_time,omitempty"`
	Source           string    `json:"source"`
	CreatedAt        time.Time `json:"created_at"`
	SyncedAt         time.Time `json:"synced_at"`
}

// Validate checks the minimum facts a lead needs before syncing.
func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(l.Phone) == "" {
		return ErrMissingPhone
	}
	return nil
}

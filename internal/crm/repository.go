package crm

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository stores synced leads. Sync upserts by phone number so a
// conversation can push updated facts without duplicating records.
type Repository interface {
	Sync(ctx context.Context, lead *Lead) (*Lead, error)
	GetByPhone(ctx context.Context, phone string) (*Lead, error)
}

// InMemoryRepository keeps leads in memory, keyed by phone.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// Sync upserts the lead record for its phone number.
func (r *InMemoryRepository) Sync(ctx context.Context, lead *Lead) (*Lead, error) {
	if err := lead.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.leads[lead.Phone]
	if !ok {
		existing = &Lead{
			ID:        uuid.New().String(),
			Phone:     lead.Phone,
			CreatedAt: now,
		}
		r.leads[lead.Phone] = existing
	}

	existing.Name = lead.Name
	if lead.Email != "" {
		existing.Email = lead.Email
	}
	if lead.PropertyInterest != "" {
		existing.PropertyInterest = lead.PropertyInterest
	}
	if lead.TourDate != "" {
		existing.TourDate = lead.TourDate
	}
	if lead.TourTime != "" {
		existing.TourTime = lead.TourTime
	}
	if lead.Source != "" {
		existing.Source = lead.Source
	}
	existing.SyncedAt = now

	out := *existing
	return &out, nil
}

// GetByPhone retrieves a lead by phone number.
func (r *InMemoryRepository) GetByPhone(ctx context.Context, phone string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[phone]
	if !ok {
		return nil, ErrLeadNotFound
	}
	out := *lead
	return &out, nil
}

package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool db
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool db) *PostgresRepository {
	if pool == nil {
		panic("crm: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Sync upserts the lead row for its phone number.
func (r *PostgresRepository) Sync(ctx context.Context, lead *Lead) (*Lead, error) {
	if err := lead.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, phone, email, property_interest, tour_date, tour_time, source, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (phone) DO UPDATE SET
			name = EXCLUDED.name,
			email = COALESCE(NULLIF(EXCLUDED.email, ''), leads.email),
			property_interest = COALESCE(NULLIF(EXCLUDED.property_interest, ''), leads.property_interest),
			tour_date = COALESCE(NULLIF(EXCLUDED.tour_date, ''), leads.tour_date),
			tour_time = COALESCE(NULLIF(EXCLUDED.tour_time, ''), leads.tour_time),
			source = EXCLUDED.source,
			synced_at = EXCLUDED.synced_at
		RETURNING id, created_at, synced_at
	`
	syncedAt := time.Now().UTC()
	var (
		outID     uuid.UUID
		createdAt time.Time
		storedAt  time.Time
	)
	if err := r.pool.QueryRow(ctx, query,
		id,
		lead.Name,
		lead.Phone,
		lead.Email,
		lead.PropertyInterest,
		lead.TourDate,
		lead.TourTime,
		lead.Source,
		syncedAt,
	).Scan(&outID, &createdAt, &storedAt); err != nil {
		return nil, fmt.Errorf("crm: upsert failed: %w", err)
	}

	out := *lead
	out.ID = outID.String()
	out.CreatedAt = createdAt
	out.SyncedAt = storedAt
	return &out, nil
}

// GetByPhone fetches a lead by phone number.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*Lead, error) {
	query := `
		SELECT id, name, phone, email, property_interest, tour_date, tour_time, source, created_at, synced_at
		FROM leads
		WHERE phone = $1
	`
	row := r.pool.QueryRow(ctx, query, phone)
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.PropertyInterest,
		&lead.TourDate,
		&lead.TourTime,
		&lead.Source,
		&lead.CreatedAt,
		&lead.SyncedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("crm: select failed: %w", err)
	}
	return &lead, nil
}

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is one row of appointment_events waiting to be published.
type Record struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// Store hands out batches of unpublished events. fn runs while the batch is
// locked; the batch is marked published only when fn returns nil.
type Store interface {
	ProcessUnpublished(ctx context.Context, limit int, fn func(ctx context.Context, batch []Record) error) (int, error)
}

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// ProcessUnpublished locks rows with SKIP LOCKED so several relays can run
// side by side without publishing the same event twice.
func (s *PgStore) ProcessUnpublished(ctx context.Context, limit int, fn func(ctx context.Context, batch []Record) error) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT id, event_type, appointment_id, COALESCE(payload::text, ''), created_at
		FROM appointment_events
		WHERE published_at IS NULL
		ORDER BY id ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return 0, fmt.Errorf("fetch unpublished events: %w", err)
	}

	var batch []Record
	for rows.Next() {
		var rec Record
		var payload string
		if err := rows.Scan(&rec.ID, &rec.EventType, &rec.AppointmentID, &payload, &rec.CreatedAt); err != nil {
			rows.Close()
			return 0, err
		}
		if payload != "" {
			rec.Payload = []byte(payload)
		}
		batch = append(batch, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(batch) == 0 {
		return 0, tx.Commit(ctx)
	}

	if err := fn(ctx, batch); err != nil {
		return 0, err
	}

	ids := make([]int64, 0, len(batch))
	for _, r := range batch {
		ids = append(ids, r.ID)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE appointment_events
		SET published_at = now()
		WHERE id = ANY($1)
	`, ids); err != nil {
		return 0, fmt.Errorf("mark events published: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(batch), nil
}

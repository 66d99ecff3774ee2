package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hackgods/salon-booking/internal/db"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `id, customer_id, service_id, start_time, end_time, price::text, status, notes, created_at`

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var price string

	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.ServiceID,
		&a.StartTime,
		&a.EndTime,
		&price,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	return &a, nil
}

func translateWriteError(err error) error {
	if db.IsExclusionViolation(err) {
		return ErrSchedulingConflict
	}
	return err
}

// Interface methods

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

// HasConflict uses the same range expression as the appointments_no_overlap
// constraint so the pre-check and the constraint never disagree.
func (r *PgRepository) HasConflict(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	var conflict bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM appointments
			WHERE tstzrange(start_time, end_time, '[)') && tstzrange($1, $2, '[)')
			  AND status NOT IN ('CANCELLED', 'NO_SHOW')
			  AND ($3::uuid IS NULL OR id <> $3)
		)
	`, start, end, excludeID).Scan(&conflict)
	if err != nil {
		return false, fmt.Errorf("check conflict: %w", err)
	}
	return conflict, nil
}

func (r *PgRepository) CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, customer_id, service_id, start_time, end_time, price, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9)
		RETURNING `+appointmentColumns,
		a.ID, a.CustomerID, a.ServiceID, a.StartTime, a.EndTime, a.Price.String(), a.Status, a.Notes, a.CreatedAt)

	created, err := scanAppointment(row)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return created, nil
}

func (r *PgRepository) UpdateAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET customer_id = $2,
		    service_id = $3,
		    start_time = $4,
		    end_time = $5,
		    price = $6::numeric,
		    notes = $7
		WHERE id = $1
		RETURNING `+appointmentColumns,
		a.ID, a.CustomerID, a.ServiceID, a.StartTime, a.EndTime, a.Price.String(), a.Notes)

	updated, err := scanAppointment(row)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return updated, nil
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status Status) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2
		WHERE id = $1
		RETURNING `+appointmentColumns,
		id, status)

	updated, err := scanAppointment(row)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return updated, nil
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) ListAppointments(ctx context.Context, f Filter) ([]Appointment, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.CustomerID != nil {
		add("customer_id = $%d", *f.CustomerID)
	}
	if f.ServiceID != nil {
		add("service_id = $%d", *f.ServiceID)
	}
	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.From != nil {
		add("start_time >= $%d", *f.From)
	}
	if f.To != nil {
		add("start_time <= $%d", *f.To)
	}
	if f.After != nil {
		add("start_time > $%d", *f.After)
	}
	if f.Before != nil {
		add("start_time < $%d", *f.Before)
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	if f.Order == Descending {
		query += ` ORDER BY start_time DESC, created_at DESC`
	} else {
		query += ` ORDER BY start_time ASC, created_at ASC`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment_events (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

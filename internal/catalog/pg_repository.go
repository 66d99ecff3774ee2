package catalog

import (
	"context"
	"errors"

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

const serviceColumns = `id, name, description, price::text, duration_minutes, active`

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	var price string
	var duration *int32

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&price,
		&duration,
		&s.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	if duration != nil {
		d := int(*duration)
		s.DurationMinutes = &d
	}
	return &s, nil
}

func collectServices(rows pgx.Rows, err error) ([]Service, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) CreateService(ctx context.Context, s *Service) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, name, description, price, duration_minutes, active)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		RETURNING `+serviceColumns,
		s.ID, s.Name, s.Description, s.Price.String(), s.DurationMinutes, s.Active)
	return scanService(row)
}

func (r *PgRepository) UpdateService(ctx context.Context, s *Service) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE services
		SET name = $2,
		    description = $3,
		    price = $4::numeric,
		    duration_minutes = $5,
		    active = $6
		WHERE id = $1
		RETURNING `+serviceColumns,
		s.ID, s.Name, s.Description, s.Price.String(), s.DurationMinutes, s.Active)
	return scanService(row)
}

func (r *PgRepository) SetServiceActive(ctx context.Context, id uuid.UUID, active bool) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE services
		SET active = $2
		WHERE id = $1
		RETURNING `+serviceColumns,
		id, active)
	return scanService(row)
}

func (r *PgRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) ListServices(ctx context.Context) ([]Service, error) {
	return collectServices(r.pool.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		ORDER BY name ASC
	`))
}

func (r *PgRepository) ListActiveServices(ctx context.Context) ([]Service, error) {
	return collectServices(r.pool.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE active
		ORDER BY name ASC
	`))
}

func (r *PgRepository) SearchServicesByName(ctx context.Context, fragment string) ([]Service, error) {
	return collectServices(r.pool.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
	`, fragment))
}

func (r *PgRepository) ListActiveServicesByPrice(ctx context.Context, min, max decimal.Decimal) ([]Service, error) {
	return collectServices(r.pool.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE active
		  AND price BETWEEN $1::numeric AND $2::numeric
		ORDER BY price ASC, name ASC
	`, min.String(), max.String()))
}

package customer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/salon-booking/internal/db"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const customerColumns = `id, name, email, phone, address, registered_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func collectCustomers(rows pgx.Rows, err error) ([]Customer, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) GetCustomerByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1
	`, id)
	return scanCustomer(row)
}

func (r *PgRepository) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE email = $1
	`, email)
	return scanCustomer(row)
}

func (r *PgRepository) CreateCustomer(ctx context.Context, c *Customer) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (id, name, email, phone, address, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+customerColumns,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.RegisteredAt)

	created, err := scanCustomer(row)
	if db.IsUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	return created, err
}

func (r *PgRepository) UpdateCustomer(ctx context.Context, c *Customer) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE customers
		SET name = $2,
		    email = $3,
		    phone = $4,
		    address = $5
		WHERE id = $1
		RETURNING `+customerColumns,
		c.ID, c.Name, c.Email, c.Phone, c.Address)

	updated, err := scanCustomer(row)
	if db.IsUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	return updated, err
}

func (r *PgRepository) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
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

func (r *PgRepository) ListCustomers(ctx context.Context) ([]Customer, error) {
	return collectCustomers(r.pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		ORDER BY name ASC
	`))
}

func (r *PgRepository) SearchCustomersByName(ctx context.Context, fragment string) ([]Customer, error) {
	return collectCustomers(r.pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
	`, fragment))
}

func (r *PgRepository) ListCustomersByPhone(ctx context.Context, phone string) ([]Customer, error) {
	return collectCustomers(r.pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE phone = $1
		ORDER BY name ASC
	`, phone))
}

func (r *PgRepository) ListCustomersRegisteredBetween(ctx context.Context, from, to time.Time) ([]Customer, error) {
	return collectCustomers(r.pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE registered_at BETWEEN $1 AND $2
		ORDER BY registered_at ASC
	`, from, to))
}

package order

import (
	"context"
	"io"
	"log"

	"shoestore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `
id::text, user_id, items, total_amount, status, shipping_address, phone_number, phone_verified,
created_at, updated_at
`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	q := `
INSERT INTO orders (user_id, items, total_amount, status, shipping_address, phone_number, phone_verified)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + orderColumns
	created, err := scanOrder(r.pool.QueryRow(ctx, q,
		o.UserID, o.Items, o.TotalAmount, o.Status, o.ShippingAddress, o.PhoneNumber, o.PhoneVerified))
	if err != nil {
		r.logger.Printf("order repo: create user_id=%s error=%v", o.UserID, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1
`, id, status)
	if err != nil {
		r.logger.Printf("order repo: update status id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.ID, &o.UserID, &o.Items, &o.TotalAmount, &o.Status, &o.ShippingAddress,
		&o.PhoneNumber, &o.PhoneVerified, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

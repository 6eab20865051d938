package verification

import (
	"context"
	"errors"

	"shoestore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, v Verification) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO phone_verifications (id, phone_number, code, expires_at)
VALUES ($1, $2, $3, $4)
`, v.ID, v.PhoneNumber, v.Code, v.ExpiresAt)
	return err
}

func (r *postgresRepo) GetActive(ctx context.Context, phoneNumber string) (*Verification, error) {
	var v Verification
	err := r.pool.QueryRow(ctx, `
SELECT id::text, phone_number, code, expires_at, consumed, attempts, created_at
FROM phone_verifications
WHERE phone_number = $1 AND NOT consumed AND expires_at > now()
ORDER BY created_at DESC
LIMIT 1
`, phoneNumber).Scan(&v.ID, &v.PhoneNumber, &v.Code, &v.ExpiresAt, &v.Consumed, &v.Attempts, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *postgresRepo) MarkConsumed(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE phone_verifications
SET consumed = true
WHERE id = $1
`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := r.pool.QueryRow(ctx, `
UPDATE phone_verifications
SET attempts = attempts + 1
WHERE id = $1
RETURNING attempts
`, id).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return attempts, nil
}

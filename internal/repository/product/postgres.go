package product

import (
	"context"
	"errors"
	"io"
	"log"

	"shoestore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const productColumns = `
id::text, name, brand, COALESCE(description, ''), category, COALESCE(lot_number, ''),
price, original_price, stock, rating, reviews, is_new, is_featured,
images, colors, sizes, created_at
`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (name, brand, description, category, lot_number, price, original_price,
                      stock, rating, reviews, is_new, is_featured, images, colors, sizes)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + productColumns
	created, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Brand, p.Description, p.Category, p.LotNumber, p.Price, p.OriginalPrice,
		p.Stock, p.Rating, p.Reviews, p.IsNew, p.IsFeatured, jsonOrEmpty(p.Images), p.Colors, p.Sizes))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("product repo: create name=%q error=%v", p.Name, err)
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
UPDATE products
SET name = $2, brand = $3, description = $4, category = $5, lot_number = NULLIF($6, ''),
    price = $7, original_price = $8, stock = $9, rating = $10, reviews = $11,
    is_new = $12, is_featured = $13, images = $14, colors = $15, sizes = $16
WHERE id = $1
RETURNING ` + productColumns
	updated, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Brand, p.Description, p.Category, p.LotNumber, p.Price, p.OriginalPrice,
		p.Stock, p.Rating, p.Reviews, p.IsNew, p.IsFeatured, jsonOrEmpty(p.Images), p.Colors, p.Sizes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.Description, &p.Category, &p.LotNumber,
		&p.Price, &p.OriginalPrice, &p.Stock, &p.Rating, &p.Reviews, &p.IsNew, &p.IsFeatured,
		&p.Images, &p.Colors, &p.Sizes, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

// jsonOrEmpty keeps jsonb columns as [] rather than null for nil slices.
func jsonOrEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

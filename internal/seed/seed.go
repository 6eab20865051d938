package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"shoestore/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply inserts the demo catalog for manual testing. It is idempotent via
// ON CONFLICT on the lot number.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, p := range catalog() {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.LotNumber, err)
		}
	}
	return nil
}

func catalog() []domain.Product {
	origRunner := int64(6499)
	origCourt := int64(4999)
	return []domain.Product{
		{
			Name:          "Air Runner Pro Max",
			Brand:         "Raja's Athletic",
			Description:   "Premium running shoes with advanced cushioning technology and breathable mesh upper.",
			Category:      "Running",
			LotNumber:     "RJ-AR-2024-001",
			Price:         4999,
			OriginalPrice: &origRunner,
			Stock:         25,
			Rating:        4.8,
			Reviews:       124,
			IsNew:         true,
			IsFeatured:    true,
			Images:        []string{"/images/hero-shoe.png", "/images/shoe-1.png"},
			Colors: []domain.ProductColor{
				{Name: "White/Green", Value: "#ffffff", Image: "/images/hero-shoe.png"},
				{Name: "Black/Gold", Value: "#000000", Image: "/images/shoe-2.png"},
				{Name: "Navy Blue", Value: "#1e40af"},
				{Name: "Red", Value: "#dc2626"},
			},
			Sizes: []domain.ProductSize{
				{Value: "7", Label: "7", InStock: true},
				{Value: "8", Label: "8", InStock: true},
				{Value: "9", Label: "9", InStock: true},
				{Value: "10", Label: "10", InStock: false},
				{Value: "11", Label: "11", InStock: true},
			},
		},
		{
			Name:          "Classic Court Sneaker",
			Brand:         "Raja's Lifestyle",
			Description:   "Timeless court-inspired sneakers with premium leather construction.",
			Category:      "Casual",
			LotNumber:     "RJ-CC-2024-002",
			Price:         3999,
			OriginalPrice: &origCourt,
			Stock:         40,
			Rating:        4.6,
			Reviews:       89,
			IsFeatured:    true,
			Images:        []string{"/images/shoe-1.png", "/images/hero-shoe.png"},
			Colors: []domain.ProductColor{
				{Name: "White/Green", Value: "#ffffff", Image: "/images/shoe-1.png"},
				{Name: "All White", Value: "#f8f9fa"},
				{Name: "Black", Value: "#000000"},
				{Name: "Brown", Value: "#8b4513"},
			},
			Sizes: []domain.ProductSize{
				{Value: "6", Label: "6", InStock: true},
				{Value: "7", Label: "7", InStock: true},
				{Value: "8", Label: "8", InStock: true},
				{Value: "9", Label: "9", InStock: true},
				{Value: "10", Label: "10", InStock: true},
				{Value: "11", Label: "11", InStock: false},
			},
		},
		{
			Name:        "Street Flex Trainer",
			Brand:       "Raja's Athletic",
			Description: "Lightweight cross trainers built for the gym and the street.",
			Category:    "Training",
			LotNumber:   "RJ-SF-2024-003",
			Price:       5499,
			Stock:       18,
			Rating:      4.4,
			Reviews:     57,
			IsNew:       true,
			Images:      []string{"/images/shoe-3.png"},
			Colors: []domain.ProductColor{
				{Name: "Graphite", Value: "#374151"},
				{Name: "Volt", Value: "#a3e635"},
			},
			Sizes: []domain.ProductSize{
				{Value: "8", Label: "8", InStock: true},
				{Value: "9", Label: "9", InStock: true},
				{Value: "10", Label: "10", InStock: true},
			},
		},
	}
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p domain.Product) error {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}
	colors, err := json.Marshal(p.Colors)
	if err != nil {
		return err
	}
	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO products (name, brand, description, category, lot_number, price, original_price,
                      stock, rating, reviews, is_new, is_featured, images, colors, sizes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (lot_number) WHERE lot_number IS NOT NULL DO UPDATE
SET name = EXCLUDED.name,
    brand = EXCLUDED.brand,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    price = EXCLUDED.price,
    original_price = EXCLUDED.original_price,
    stock = EXCLUDED.stock,
    images = EXCLUDED.images,
    colors = EXCLUDED.colors,
    sizes = EXCLUDED.sizes
`
	_, err = pool.Exec(ctx, q, p.Name, p.Brand, p.Description, p.Category, p.LotNumber,
		p.Price, p.OriginalPrice, p.Stock, p.Rating, p.Reviews, p.IsNew, p.IsFeatured,
		images, colors, sizes)
	return err
}

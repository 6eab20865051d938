// Package order validates and persists submitted orders and handles the
// back-office status lifecycle.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"shoestore/internal/domain"
	"shoestore/internal/pricing"
)

// Repository is the subset of order storage the service needs.
type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

// ProductGetter resolves order lines against the live catalog.
type ProductGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Publisher emits an event after an order is stored. Delivery is best
// effort; failures are logged, never surfaced to the customer.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, o domain.Order) error
}

type Service struct {
	repo      Repository
	products  ProductGetter
	publisher Publisher
	logger    *log.Logger
}

// New builds the order service. publisher may be nil when no broker is
// configured.
func New(repo Repository, products ProductGetter, publisher Publisher, logger *log.Logger) *Service {
	return &Service{repo: repo, products: products, publisher: publisher, logger: logger}
}

// Create validates the order against the catalog, reprices it server-side
// and persists it with status pending.
func (s *Service) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if strings.TrimSpace(o.UserID) == "" {
		return nil, errors.New("user id required")
	}
	if len(o.Items) == 0 {
		return nil, errors.New("order has no items")
	}
	if !strings.HasPrefix(o.PhoneNumber, "+") {
		return nil, errors.New("phone number must be in international format")
	}

	var subtotal int64
	for i, item := range o.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("item %d: quantity must be at least 1", i)
		}
		p, err := s.products.GetByID(ctx, item.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("item %d: unknown product %s", i, item.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if item.Price != p.Price {
			return nil, fmt.Errorf("item %d: price changed for %s", i, p.Name)
		}
		subtotal += p.Price * int64(item.Quantity)
	}
	total := subtotal + pricing.Shipping(subtotal)
	if o.TotalAmount != total {
		return nil, errors.New("total mismatch")
	}

	o.Status = domain.OrderStatusPending
	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order created id=%s user=%s total=%d", created.ID, created.UserID, created.TotalAmount)

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, *created); err != nil {
			s.logger.Printf("publish order created id=%s: %v", created.ID, err)
		}
	}
	return created, nil
}

// List returns every order for admins, or the caller's own orders.
func (s *Service) List(ctx context.Context, userID string, isAdmin bool) ([]domain.Order, error) {
	if isAdmin {
		return s.repo.ListAll(ctx)
	}
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus moves an order through its lifecycle. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, isAdmin bool, id string, status domain.OrderStatus) error {
	if !isAdmin {
		return domain.ErrUnauthorized
	}
	if !domain.ValidOrderStatus(status) {
		return fmt.Errorf("unknown order status %q", status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Printf("order status updated id=%s status=%s", id, status)
	return nil
}

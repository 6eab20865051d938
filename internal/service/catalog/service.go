// Package catalog exposes product browsing for everyone and product
// management for admins.
package catalog

import (
	"context"
	"errors"
	"log"
	"strings"

	"shoestore/internal/domain"
)

// Repository is the subset of product storage the service needs.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo   Repository
	logger *log.Logger
}

func New(repo Repository, logger *log.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the whole catalog, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Add creates a product. Admin only.
func (s *Service) Add(ctx context.Context, isAdmin bool, p domain.Product) (*domain.Product, error) {
	if !isAdmin {
		return nil, domain.ErrUnauthorized
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("product created id=%s lot=%s", created.ID, created.LotNumber)
	return created, nil
}

// Update replaces a product. Admin only.
func (s *Service) Update(ctx context.Context, isAdmin bool, p domain.Product) (*domain.Product, error) {
	if !isAdmin {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(p.ID) == "" {
		return nil, errors.New("product id required")
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("product updated id=%s", updated.ID)
	return updated, nil
}

// Delete removes a product. Admin only.
func (s *Service) Delete(ctx context.Context, isAdmin bool, id string) error {
	if !isAdmin {
		return domain.ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Printf("product deleted id=%s", id)
	return nil
}

func validate(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name required")
	}
	if p.Price < 0 {
		return errors.New("price must not be negative")
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < p.Price {
		return errors.New("original price must not be below price")
	}
	if p.Stock < 0 {
		return errors.New("stock must not be negative")
	}
	seenColors := make(map[string]struct{}, len(p.Colors))
	for _, c := range p.Colors {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return errors.New("color name required")
		}
		if _, dup := seenColors[name]; dup {
			return errors.New("duplicate color name: " + name)
		}
		seenColors[name] = struct{}{}
	}
	seenSizes := make(map[string]struct{}, len(p.Sizes))
	for _, sz := range p.Sizes {
		value := strings.TrimSpace(sz.Value)
		if value == "" {
			return errors.New("size value required")
		}
		if _, dup := seenSizes[value]; dup {
			return errors.New("duplicate size value: " + value)
		}
		seenSizes[value] = struct{}{}
	}
	return nil
}

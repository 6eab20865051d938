package order

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"shoestore/internal/domain"
)

type stubRepo struct {
	created       []domain.Order
	all           []domain.Order
	byUser        map[string][]domain.Order
	statusUpdates map[string]domain.OrderStatus
	err           error
}

func (r *stubRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if r.err != nil {
		return nil, r.err
	}
	o.ID = "order-1"
	r.created = append(r.created, o)
	return &o, nil
}

func (r *stubRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.all, r.err
}

func (r *stubRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.byUser[userID], r.err
}

func (r *stubRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if r.err != nil {
		return r.err
	}
	if r.statusUpdates == nil {
		r.statusUpdates = make(map[string]domain.OrderStatus)
	}
	r.statusUpdates[id] = status
	return nil
}

type stubProducts struct {
	products map[string]domain.Product
}

func (p *stubProducts) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	prod, ok := p.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &prod, nil
}

type stubPublisher struct {
	published []domain.Order
	err       error
}

func (p *stubPublisher) PublishOrderCreated(ctx context.Context, o domain.Order) error {
	p.published = append(p.published, o)
	return p.err
}

func newService(repo *stubRepo, products *stubProducts, pub Publisher) *Service {
	return New(repo, products, pub, log.New(io.Discard, "", 0))
}

func sampleOrder() domain.Order {
	return domain.Order{
		UserID: "u1",
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "Shoe", Color: "Black", Size: "9", Quantity: 2, Price: 1000},
		},
		// 2000 subtotal + 200 flat shipping
		TotalAmount: 2200,
		ShippingAddress: domain.ShippingInfo{
			FullName: "A", Address: "B", City: "C",
		},
		PhoneNumber:   "+923001234567",
		PhoneVerified: true,
	}
}

func sampleProducts() *stubProducts {
	return &stubProducts{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Shoe", Price: 1000},
	}}
}

func TestCreateValidOrder(t *testing.T) {
	repo := &stubRepo{}
	pub := &stubPublisher{}
	svc := newService(repo, sampleProducts(), pub)

	created, err := svc.Create(context.Background(), sampleOrder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.Status != domain.OrderStatusPending {
		t.Fatalf("expected status pending, got %s", created.Status)
	}
	if len(pub.published) != 1 || pub.published[0].ID != "order-1" {
		t.Fatalf("expected one published event for the stored order, got %v", pub.published)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := newService(&stubRepo{}, sampleProducts(), nil)
	ctx := context.Background()

	o := sampleOrder()
	o.UserID = ""
	if _, err := svc.Create(ctx, o); err == nil {
		t.Fatalf("expected error for missing user")
	}

	o = sampleOrder()
	o.Items = nil
	if _, err := svc.Create(ctx, o); err == nil {
		t.Fatalf("expected error for empty items")
	}

	o = sampleOrder()
	o.PhoneNumber = "03001234567"
	if _, err := svc.Create(ctx, o); err == nil {
		t.Fatalf("expected error for non-international phone")
	}

	o = sampleOrder()
	o.Items[0].Quantity = 0
	if _, err := svc.Create(ctx, o); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	svc := newService(&stubRepo{}, &stubProducts{products: map[string]domain.Product{}}, nil)
	if _, err := svc.Create(context.Background(), sampleOrder()); err == nil {
		t.Fatalf("expected error for unknown product")
	}
}

func TestCreateRejectsStalePrice(t *testing.T) {
	products := &stubProducts{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Shoe", Price: 1500},
	}}
	svc := newService(&stubRepo{}, products, nil)
	if _, err := svc.Create(context.Background(), sampleOrder()); err == nil {
		t.Fatalf("expected error when catalog price differs from submitted price")
	}
}

func TestCreateRejectsTotalMismatch(t *testing.T) {
	svc := newService(&stubRepo{}, sampleProducts(), nil)
	o := sampleOrder()
	o.TotalAmount = 2000 // missing shipping fee
	_, err := svc.Create(context.Background(), o)
	if err == nil || !strings.Contains(err.Error(), "total mismatch") {
		t.Fatalf("expected total mismatch, got %v", err)
	}
}

func TestCreatePublisherFailureDoesNotFailOrder(t *testing.T) {
	repo := &stubRepo{}
	pub := &stubPublisher{err: errors.New("broker down")}
	svc := newService(repo, sampleProducts(), pub)

	if _, err := svc.Create(context.Background(), sampleOrder()); err != nil {
		t.Fatalf("publish failure must not fail the order: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected order stored")
	}
}

func TestListAdminSeesAll(t *testing.T) {
	repo := &stubRepo{
		all:    []domain.Order{{ID: "o1"}, {ID: "o2"}},
		byUser: map[string][]domain.Order{"u1": {{ID: "o1"}}},
	}
	svc := newService(repo, sampleProducts(), nil)

	orders, err := svc.List(context.Background(), "u1", true)
	if err != nil || len(orders) != 2 {
		t.Fatalf("expected 2 orders for admin, got %d err=%v", len(orders), err)
	}

	orders, err = svc.List(context.Background(), "u1", false)
	if err != nil || len(orders) != 1 {
		t.Fatalf("expected 1 order for user, got %d err=%v", len(orders), err)
	}

	if _, err := svc.List(context.Background(), "", false); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for anonymous list, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo, sampleProducts(), nil)
	ctx := context.Background()

	if err := svc.UpdateStatus(ctx, false, "o1", domain.OrderStatusShipped); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.UpdateStatus(ctx, true, "o1", "unknown"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if err := svc.UpdateStatus(ctx, true, "o1", domain.OrderStatusShipped); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.statusUpdates["o1"] != domain.OrderStatusShipped {
		t.Fatalf("expected status persisted")
	}
}

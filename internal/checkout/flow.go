// Package checkout sequences the order flow: shipping info, phone
// verification, payment confirmation and order submission.
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"shoestore/internal/cart"
	"shoestore/internal/domain"
	"shoestore/internal/phone"
	"shoestore/internal/pricing"
)

// Step identifies the current checkout step.
type Step string

const (
	StepShipping     Step = "shipping"
	StepPhone        Step = "phone"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
	StepClosed       Step = "closed"
)

var (
	// ErrEmptyCart rejects starting checkout with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrBadStep is returned when an operation is not valid in the current
	// step.
	ErrBadStep = errors.New("operation not allowed in current step")
	// ErrClosed is returned when the flow was cancelled, including for
	// in-flight order submissions whose outcome arrives after Cancel.
	ErrClosed = errors.New("checkout flow closed")
	// ErrPhoneNotVerified guards the payment step.
	ErrPhoneNotVerified = errors.New("phone verification required")
)

// OrderCreator is the external order-creation collaborator.
type OrderCreator interface {
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
}

// Flow owns the state of one checkout attempt. It is discarded between
// attempts, never reused. The only network effect is the Create call at the
// payment -> confirmation transition; every other transition is a local
// state update.
type Flow struct {
	mu         sync.Mutex
	step       Step
	gen        uint64
	submitting bool
	userID     string
	cart       *cart.Store
	shipping   domain.ShippingInfo
	verifier   phone.Verifier
	phoneFlow  *phone.Flow
	verified   string
	order      *domain.Order
	orders     OrderCreator
	onComplete func()
}

// NewFlow starts a checkout attempt in the shipping step. The cart must be
// non-empty. onComplete fires when the confirmed flow is closed via
// Complete; it is the enclosing scope's chance to clear the cart.
func NewFlow(userID string, store *cart.Store, verifier phone.Verifier, orders OrderCreator, onComplete func()) (*Flow, error) {
	if store == nil || store.Len() == 0 {
		return nil, ErrEmptyCart
	}
	f := &Flow{
		step:       StepShipping,
		userID:     userID,
		cart:       store,
		verifier:   verifier,
		orders:     orders,
		onComplete: onComplete,
	}
	f.phoneFlow = phone.NewFlow(verifier, f.phoneVerified, f.phoneCancelled)
	return f, nil
}

// Step returns the current checkout step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Phone exposes the verification sub-flow; it only accepts operations while
// the checkout is in the phone step.
func (f *Flow) Phone() *phone.Flow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phoneFlow
}

// VerifiedPhone returns the E.164 number once verification succeeded.
func (f *Flow) VerifiedPhone() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verified
}

// Shipping returns the captured shipping info.
func (f *Flow) Shipping() domain.ShippingInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shipping
}

// Order returns the created order after a successful confirmation.
func (f *Flow) Order() *domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

// SubmitShipping validates the required fields and advances to the phone
// step. On validation failure the flow stays in shipping.
func (f *Flow) SubmitShipping(info domain.ShippingInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepShipping {
		return ErrBadStep
	}
	if strings.TrimSpace(info.FullName) == "" ||
		strings.TrimSpace(info.Address) == "" ||
		strings.TrimSpace(info.City) == "" {
		return errors.New("full name, address and city are required")
	}
	f.shipping = info
	f.step = StepPhone
	return nil
}

// phoneVerified is the sub-flow's onVerified callback.
func (f *Flow) phoneVerified(number string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepPhone {
		return
	}
	f.verified = number
	f.step = StepPayment
}

// phoneCancelled is the sub-flow's onCancel callback; cancelling phone
// verification returns the checkout to the shipping step. A fresh sub-flow
// replaces the closed one for the next pass through the phone step.
func (f *Flow) phoneCancelled() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepPhone {
		return
	}
	f.step = StepShipping
	f.phoneFlow = phone.NewFlow(f.verifier, f.phoneVerified, f.phoneCancelled)
}

// Confirm assembles the order from the cart, shipping info and verified
// phone, and submits it to the order collaborator. The flow advances to
// confirmation only if the call succeeds; on failure it stays in payment.
// At most one submission is in flight: concurrent Confirm calls get
// ErrBadStep instead of issuing a second order.
func (f *Flow) Confirm(ctx context.Context) (*domain.Order, error) {
	f.mu.Lock()
	if f.step != StepPayment || f.submitting {
		f.mu.Unlock()
		return nil, ErrBadStep
	}
	if f.verified == "" {
		f.mu.Unlock()
		return nil, ErrPhoneNotVerified
	}
	f.submitting = true
	items := f.cart.Items()
	order := domain.Order{
		UserID:          f.userID,
		Items:           orderItems(items),
		TotalAmount:     pricing.Total(items),
		ShippingAddress: f.shipping,
		PhoneNumber:     f.verified,
		PhoneVerified:   true,
	}
	gen := f.gen
	f.mu.Unlock()

	created, err := f.orders.Create(ctx, order)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if f.gen != gen {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, err
	}
	f.order = created
	f.step = StepConfirmation
	return created, nil
}

// Complete closes a confirmed flow ("continue shopping") and notifies the
// enclosing scope, which clears the cart.
func (f *Flow) Complete() error {
	f.mu.Lock()
	if f.step != StepConfirmation {
		f.mu.Unlock()
		return ErrBadStep
	}
	f.step = StepClosed
	onComplete := f.onComplete
	f.mu.Unlock()

	if onComplete != nil {
		onComplete()
	}
	return nil
}

// Cancel abandons the flow from any step. The cart and any already-created
// order are untouched; results of in-flight calls are discarded.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == StepClosed {
		return
	}
	f.step = StepClosed
	f.gen++
}

func orderItems(items []domain.CartItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, domain.OrderItem{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Color:       item.SelectedColor.Name,
			Size:        item.SelectedSize.Value,
			Quantity:    item.Quantity,
			Price:       item.Product.Price,
		})
	}
	return out
}

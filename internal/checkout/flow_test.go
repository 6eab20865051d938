package checkout

import (
	"context"
	"errors"
	"testing"

	"shoestore/internal/cart"
	"shoestore/internal/domain"
)

type stubVerifier struct {
	sendErr   error
	sendCalls int

	verifyOK    bool
	verifyErr   error
	verifyCalls int
}

func (s *stubVerifier) SendVerification(_ context.Context, _ string) (string, error) {
	s.sendCalls++
	return "123456", s.sendErr
}

func (s *stubVerifier) VerifyPhone(_ context.Context, _, _ string) (bool, string, error) {
	s.verifyCalls++
	return s.verifyOK, "", s.verifyErr
}

type stubOrderCreator struct {
	created   *domain.Order
	err       error
	calls     int
	lastOrder domain.Order
	onCreate  func()
}

func (s *stubOrderCreator) Create(_ context.Context, order domain.Order) (*domain.Order, error) {
	s.calls++
	s.lastOrder = order
	if s.onCreate != nil {
		s.onCreate()
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.created != nil {
		return s.created, nil
	}
	out := order
	out.ID = "order-1"
	out.Status = domain.OrderStatusPending
	return &out, nil
}

func cartWith(price int64, qty int) *cart.Store {
	product := domain.Product{
		ID:     "p1",
		Name:   "Air Runner",
		Price:  price,
		Colors: []domain.ProductColor{{Name: "White", Value: "#fff"}},
		Sizes:  []domain.ProductSize{{Value: "9", Label: "9", InStock: true}},
	}
	s := cart.New(nil)
	for i := 0; i < qty; i++ {
		s.AddItem(product, product.Colors[0], product.Sizes[0])
	}
	return s
}

func validShipping() domain.ShippingInfo {
	return domain.ShippingInfo{FullName: "A", Address: "B", City: "C"}
}

func TestNewFlowRejectsEmptyCart(t *testing.T) {
	_, err := NewFlow("u1", cart.New(nil), &stubVerifier{}, &stubOrderCreator{}, nil)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestSubmitShippingValidation(t *testing.T) {
	f, err := NewFlow("u1", cartWith(1000, 1), &stubVerifier{}, &stubOrderCreator{}, nil)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}

	if err := f.SubmitShipping(domain.ShippingInfo{FullName: "A", City: "C"}); err == nil {
		t.Fatalf("expected validation error for missing address")
	}
	if f.Step() != StepShipping {
		t.Fatalf("expected flow to stay in shipping, got %s", f.Step())
	}

	if err := f.SubmitShipping(validShipping()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Step() != StepPhone {
		t.Fatalf("expected phone step, got %s", f.Step())
	}
}

func TestFullFlowCreatesOneOrder(t *testing.T) {
	verifier := &stubVerifier{verifyOK: true}
	creator := &stubOrderCreator{}
	store := cartWith(1000, 2)
	completed := false

	f, err := NewFlow("u1", store, verifier, creator, func() {
		store.Clear()
		completed = true
	})
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}

	if err := f.SubmitShipping(validShipping()); err != nil {
		t.Fatalf("shipping: %v", err)
	}
	if _, err := f.Phone().SendCode(context.Background(), "+923001234567"); err != nil {
		t.Fatalf("send code: %v", err)
	}
	if err := f.Phone().SubmitCode(context.Background(), "123456"); err != nil {
		t.Fatalf("submit code: %v", err)
	}
	if f.Step() != StepPayment {
		t.Fatalf("expected payment step, got %s", f.Step())
	}
	if f.VerifiedPhone() != "+923001234567" {
		t.Fatalf("expected verified phone, got %q", f.VerifiedPhone())
	}

	order, err := f.Confirm(context.Background())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if creator.calls != 1 {
		t.Fatalf("expected exactly one create call, got %d", creator.calls)
	}
	if creator.lastOrder.TotalAmount != 2200 {
		t.Fatalf("expected total 2200 (2000 + 200 shipping), got %d", creator.lastOrder.TotalAmount)
	}
	if creator.lastOrder.PhoneNumber != "+923001234567" {
		t.Fatalf("expected E.164 phone on order, got %q", creator.lastOrder.PhoneNumber)
	}
	if len(creator.lastOrder.Items) != 1 || creator.lastOrder.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", creator.lastOrder.Items)
	}
	if order.ID == "" || f.Step() != StepConfirmation {
		t.Fatalf("expected confirmation step with order id, got %s %+v", f.Step(), order)
	}

	if err := f.Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !completed || store.Len() != 0 {
		t.Fatalf("expected completion callback to clear cart")
	}
	if f.Step() != StepClosed {
		t.Fatalf("expected closed, got %s", f.Step())
	}
}

func TestConfirmUnreachableWithoutVerifiedPhone(t *testing.T) {
	f, err := NewFlow("u1", cartWith(1000, 1), &stubVerifier{}, &stubOrderCreator{}, nil)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	if err := f.SubmitShipping(validShipping()); err != nil {
		t.Fatalf("shipping: %v", err)
	}

	if _, err := f.Confirm(context.Background()); !errors.Is(err, ErrBadStep) {
		t.Fatalf("expected ErrBadStep from phone step, got %v", err)
	}
}

func TestConfirmFailureStaysInPayment(t *testing.T) {
	verifier := &stubVerifier{verifyOK: true}
	creator := &stubOrderCreator{err: errors.New("backend down")}
	f, err := NewFlow("u1", cartWith(1000, 1), verifier, creator, nil)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	if err := f.SubmitShipping(validShipping()); err != nil {
		t.Fatalf("shipping: %v", err)
	}
	if _, err := f.Phone().SendCode(context.Background(), "03001234567"); err != nil {
		t.Fatalf("send code: %v", err)
	}
	if err := f.Phone().SubmitCode(context.Background(), "123456"); err != nil {
		t.Fatalf("submit code: %v", err)
	}

	if _, err := f.Confirm(context.Background()); err == nil || err.Error() != "backend down" {
		t.Fatalf("expected collaborator error, got %v", err)
	}
	if f.Step() != StepPayment {
		t.Fatalf("expected flow to stay in payment, got %s", f.Step())
	}

	// retry succeeds
	creator.err = nil
	if _, err := f.Confirm(context.Background()); err != nil {
		t.Fatalf("retry confirm: %v", err)
	}
	if f.Step() != StepConfirmation {
		t.Fatalf("expected confirmation, got %s", f.Step())
	}
}

func TestPhoneCancelReturnsToShipping(t *testing.T) {
	verifier := &stubVerifier{}
	f, err := NewFlow("u1", cartWith(1000, 1), verifier, &stubOrderCreator{}, nil)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	if err := f.SubmitShipping(validShipping()); err != nil {
		t.Fatalf("shipping: %v", err)
	}

	f.Phone().Cancel()
	if f.Step() != StepShipping {
		t.Fatalf("expected shipping after phone cancel, got %s", f.Step())
	}

	// the sub-flow is replaced, so the phone step works again
	if err := f.SubmitShipping(validShipping()); err != nil {
		t.Fatalf("resubmit shipping: %v", err)
	}
	if _, err := f.Phone().SendCode(context.Background(), "03001234567"); err != nil {
		t.Fatalf("send code on fresh sub-flow: %v", err)
	}
}

func TestCancelFromShippingIssuesNoCalls(t *testing.T) {
	verifier := &stubVerifier{}
	creator := &stubOrderCreator{}
	store := cartWith(1000, 2)
	f, err := NewFlow("u1", store, verifier, creator, nil)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}

	f.Cancel()
	if f.Step() != StepClosed {
		t.Fatalf("expected closed, got %s", f.Step())
	}
	if verifier.sendCalls != 0 || verifier.verifyCalls != 0 || creator.calls != 0 {
		t.Fatalf("expected zero collaborator calls, got send=%d verify=%d create=%d",
			verifier.sendCalls, verifier.verifyCalls, creator.calls)
	}
	if store.Len() != 2 {
		t.Fatalf("expected cart untouched, got %d lines", store.Len())
	}
}

func TestConcurrentConfirmCreatesOneOrder(t *testing.T) {
	verifier := &stubVerifier{verifyOK: true}
	creator := &stubOrderCreator{}
	f, err := NewFlow("u1", cartWith(1000, 1), verifier, creator, nil)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	if err := f.SubmitShipping(validShipping()); err != nil {
		t.Fatalf("shipping: %v", err)
	}
	if _, err := f.Phone().SendCode(context.Background(), "03001234567"); err != nil {
		t.Fatalf("send code: %v", err)
	}
	if err := f.Phone().SubmitCode(context.Background(), "123456"); err != nil {
		t.Fatalf("submit code: %v", err)
	}

	inFlight := make(chan struct{})
	release := make(chan struct{})
	creator.onCreate = func() {
		close(inFlight)
		<-release
	}

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.Confirm(context.Background())
		firstErr <- err
	}()
	<-inFlight

	// A second confirm while the first is still in flight must not reach
	// the collaborator again.
	if _, err := f.Confirm(context.Background()); !errors.Is(err, ErrBadStep) {
		t.Fatalf("expected ErrBadStep for concurrent confirm, got %v", err)
	}

	close(release)
	if err := <-firstErr; err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if creator.calls != 1 {
		t.Fatalf("expected exactly one create call, got %d", creator.calls)
	}
	if f.Step() != StepConfirmation {
		t.Fatalf("expected confirmation, got %s", f.Step())
	}
}

func TestCancelDuringConfirmDiscardsResult(t *testing.T) {
	verifier := &stubVerifier{verifyOK: true}
	creator := &stubOrderCreator{}
	f, err := NewFlow("u1", cartWith(1000, 1), verifier, creator, nil)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	creator.onCreate = f.Cancel

	if err := f.SubmitShipping(validShipping()); err != nil {
		t.Fatalf("shipping: %v", err)
	}
	if _, err := f.Phone().SendCode(context.Background(), "03001234567"); err != nil {
		t.Fatalf("send code: %v", err)
	}
	if err := f.Phone().SubmitCode(context.Background(), "123456"); err != nil {
		t.Fatalf("submit code: %v", err)
	}

	if _, err := f.Confirm(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed for stale completion, got %v", err)
	}
	if f.Order() != nil {
		t.Fatalf("stale order must be discarded")
	}
}

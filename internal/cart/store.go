// Package cart holds the session-scoped shopping cart.
package cart

import (
	"errors"
	"sync"

	"shoestore/internal/domain"
)

// ErrIndexOutOfRange is returned when a line index does not reference an
// existing cart line.
var ErrIndexOutOfRange = errors.New("cart line index out of range")

// Event describes a cart mutation for user-visible acknowledgment.
type Event struct {
	Action string // "added", "updated", "removed"
	Item   domain.CartItem
}

// Store is an ordered collection of cart lines owned by a single session.
// Lines are identified by (product id, color name, size value); adding a
// product already present under the same color and size increments quantity
// instead of creating a duplicate line.
type Store struct {
	mu     sync.Mutex
	items  []domain.CartItem
	notify func(Event)
}

// New returns an empty store. notify may be nil; when set it is invoked
// after every successful mutation.
func New(notify func(Event)) *Store {
	return &Store{notify: notify}
}

// AddItem appends a new line with quantity 1, or increments the quantity of
// the line matching the identity tuple. Stock is not checked here; callers
// are expected to have verified size.InStock.
func (s *Store) AddItem(product domain.Product, color domain.ProductColor, size domain.ProductSize) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].Matches(product.ID, color.Name, size.Value) {
			s.items[i].Quantity++
			item := s.items[i]
			s.mu.Unlock()
			s.emit(Event{Action: "updated", Item: item})
			return
		}
	}
	item := domain.CartItem{
		Product:       product,
		SelectedColor: color,
		SelectedSize:  size,
		Quantity:      1,
	}
	s.items = append(s.items, item)
	s.mu.Unlock()
	s.emit(Event{Action: "added", Item: item})
}

// UpdateQuantity sets the quantity of the line at index. A quantity of zero
// or less removes the line.
func (s *Store) UpdateQuantity(index, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(index)
	}
	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		s.mu.Unlock()
		return ErrIndexOutOfRange
	}
	s.items[index].Quantity = quantity
	item := s.items[index]
	s.mu.Unlock()
	s.emit(Event{Action: "updated", Item: item})
	return nil
}

// RemoveItem deletes the line at index, preserving the order of the rest.
func (s *Store) RemoveItem(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		s.mu.Unlock()
		return ErrIndexOutOfRange
	}
	item := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	s.mu.Unlock()
	s.emit(Event{Action: "removed", Item: item})
	return nil
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of cart lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clear empties the cart without emitting events. Used on order completion.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *Store) emit(ev Event) {
	if s.notify != nil {
		s.notify(ev)
	}
}

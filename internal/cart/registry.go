package cart

import "sync"

// Registry maps session tokens to their cart stores. A store is created
// empty on first access and dropped explicitly, typically on sign-out or
// after order completion.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
	notify func(Event)
}

// NewRegistry returns an empty registry. notify is passed to every store it
// creates.
func NewRegistry(notify func(Event)) *Registry {
	return &Registry{
		stores: make(map[string]*Store),
		notify: notify,
	}
}

// Get returns the store for the given session token, creating it if needed.
func (r *Registry) Get(token string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[token]
	if !ok {
		store = New(r.notify)
		r.stores[token] = store
	}
	return store
}

// Drop removes the store for the given session token.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	delete(r.stores, token)
	r.mu.Unlock()
}

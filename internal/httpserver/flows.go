package httpserver

import (
	"sync"

	"shoestore/internal/checkout"
)

// flowRegistry maps session tokens to their active checkout flow. A session
// has at most one flow; starting a new one cancels the previous.
type flowRegistry struct {
	mu    sync.Mutex
	flows map[string]*checkout.Flow
}

func newFlowRegistry() *flowRegistry {
	return &flowRegistry{flows: make(map[string]*checkout.Flow)}
}

func (r *flowRegistry) get(token string) (*checkout.Flow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[token]
	return f, ok
}

// put installs a new flow, cancelling whatever it replaces.
func (r *flowRegistry) put(token string, f *checkout.Flow) {
	r.mu.Lock()
	old := r.flows[token]
	r.flows[token] = f
	r.mu.Unlock()
	if old != nil {
		old.Cancel()
	}
}

func (r *flowRegistry) drop(token string) {
	r.mu.Lock()
	f := r.flows[token]
	delete(r.flows, token)
	r.mu.Unlock()
	if f != nil {
		f.Cancel()
	}
}

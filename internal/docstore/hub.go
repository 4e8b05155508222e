package docstore

import (
	"context"
	"sync"
)

// Hub is an in-process Notifier. Signals coalesce: a listener that has not
// consumed the previous signal gets no second one.
type Hub struct {
	mu        sync.Mutex
	listeners map[string]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{
		listeners: make(map[string]map[chan struct{}]struct{}),
	}
}

func hubKey(ownerID, collection string) string {
	return ownerID + "\x00" + collection
}

func (h *Hub) Notify(_ context.Context, ownerID, collection string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.listeners[hubKey(ownerID, collection)] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (h *Hub) Listen(ctx context.Context, ownerID, collection string) (<-chan struct{}, error) {
	if err := validateScope(ownerID, collection); err != nil {
		return nil, err
	}

	key := hubKey(ownerID, collection)
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.listeners[key] == nil {
		h.listeners[key] = make(map[chan struct{}]struct{})
	}
	h.listeners[key][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.listeners[key], ch)
		if len(h.listeners[key]) == 0 {
			delete(h.listeners, key)
		}
		close(ch)
		h.mu.Unlock()
	}()

	return ch, nil
}

// Listeners returns the number of active listeners for a collection.
func (h *Hub) Listeners(ownerID, collection string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners[hubKey(ownerID, collection)])
}

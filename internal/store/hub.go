package store

import (
	"context"
	"sync"
)

// hub fans committed table changes out to commit hooks and subscriptions
type hub struct {
	mu     sync.Mutex
	next   uint64
	subs   map[uint64]*Subscription
	hooks  map[uint64]CommitHook
	closed bool
}

// CommitHook runs synchronously after a unit of work commits, with the tables
// it wrote
type CommitHook func(ctx context.Context, tables []string)

func newHub() *hub {
	return &hub{subs: make(map[uint64]*Subscription), hooks: make(map[uint64]CommitHook)}
}

// Subscription receives a signal after every committed write touching one of
// its tables. Signals coalesce: a pending signal absorbs later ones.
type Subscription struct {
	id     uint64
	hub    *hub
	tables map[string]struct{}
	ch     chan struct{}
	done   chan struct{}
	once   sync.Once
}

// C delivers change signals
func (s *Subscription) C() <-chan struct{} { return s.ch }

// Done is closed once the subscription is cancelled or the store closes
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Cancel stops delivery. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.hub.remove(s.id)
	s.stop()
}

func (s *Subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *Subscription) wants(tables []string) bool {
	for _, t := range tables {
		if _, ok := s.tables[t]; ok {
			return true
		}
	}
	return false
}

func (h *hub) subscribe(tables []string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	sub := &Subscription{
		id:     h.next,
		hub:    h,
		tables: make(map[string]struct{}, len(tables)),
		ch:     make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, t := range tables {
		sub.tables[t] = struct{}{}
	}
	if h.closed {
		sub.stop()
		return sub
	}
	h.subs[sub.id] = sub
	return sub
}

func (h *hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

func (h *hub) addHook(hook CommitHook) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.hooks[id] = hook
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.hooks, id)
	}
}

// commit runs the hooks in the caller's goroutine, then signals subscribers
func (h *hub) commit(ctx context.Context, tables []string) {
	if len(tables) == 0 {
		return
	}
	h.mu.Lock()
	hooks := make([]CommitHook, 0, len(h.hooks))
	for _, hook := range h.hooks {
		hooks = append(hooks, hook)
	}
	h.mu.Unlock()
	for _, hook := range hooks {
		hook(ctx, tables) // Outside h.mu so a hook may subscribe
	}
	h.publish(tables)
}

func (h *hub) publish(tables []string) {
	if len(tables) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		if !sub.wants(tables) {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	clear(h.hooks)
	for id, sub := range h.subs {
		sub.stop()
		delete(h.subs, id)
	}
}

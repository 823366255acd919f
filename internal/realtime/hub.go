// Package realtime fans out full store snapshots to path subscribers.
//
// Subscribers always receive a complete snapshot of the path, never a delta:
// one right after subscribing and one after every change the feed worker sees.
package realtime

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Store paths, named after the document tree the browser app used.
const (
	PathContacts      = "contact_submissions"
	PathRegistrations = "registrations"
	PathAnnouncements = "announcements"
	PathRegisterLink  = "settings/registerLink"
	PathUsers         = "users"
)

// Loader reads the current snapshot of a path.
type Loader func(ctx context.Context) (any, error)

type Unsubscribe func()

type Hub struct {
	mu      sync.RWMutex
	loaders map[string]Loader
	subs    map[string]map[uint64]func(any)
	next    uint64

	// delivery serializes load+deliver per path, so a subscriber never gets an
	// older snapshot after a newer one.
	delivery map[string]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		loaders:  map[string]Loader{},
		subs:     map[string]map[uint64]func(any){},
		delivery: map[string]*sync.Mutex{},
	}
}

func (h *Hub) Register(path string, l Loader) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaders[path] = l
	if h.delivery[path] == nil {
		h.delivery[path] = &sync.Mutex{}
	}
}

func (h *Hub) Paths() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.loaders))
	for p := range h.loaders {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Subscribe delivers the current snapshot of path to onChange before
// returning, then every later snapshot until the returned func is called.
// onChange must not block or call back into the hub for the same path.
func (h *Hub) Subscribe(ctx context.Context, path string, onChange func(any)) (Unsubscribe, error) {
	h.mu.RLock()
	lock := h.delivery[path]
	h.mu.RUnlock()
	if lock == nil {
		return nil, fmt.Errorf("unknown path %q", path)
	}
	lock.Lock()
	defer lock.Unlock()

	h.mu.Lock()
	load := h.loaders[path]
	id := h.next
	h.next++
	if h.subs[path] == nil {
		h.subs[path] = map[uint64]func(any){}
	}
	h.subs[path][id] = onChange
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		delete(h.subs[path], id)
		h.mu.Unlock()
	}

	snap, err := load(ctx)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	onChange(snap)

	var once sync.Once
	return func() { once.Do(unsubscribe) }, nil
}

// Notify loads a fresh snapshot of path and hands it to every subscriber.
// Paths nobody listens to are not loaded.
func (h *Hub) Notify(ctx context.Context, path string) error {
	h.mu.RLock()
	lock := h.delivery[path]
	h.mu.RUnlock()
	if lock == nil {
		return fmt.Errorf("unknown path %q", path)
	}
	lock.Lock()
	defer lock.Unlock()

	h.mu.RLock()
	load := h.loaders[path]
	fns := make([]func(any), 0, len(h.subs[path]))
	for _, fn := range h.subs[path] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	if len(fns) == 0 {
		return nil
	}
	snap, err := load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	for _, fn := range fns {
		fn(snap)
	}
	return nil
}

func (h *Hub) Subscribers(path string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[path])
}

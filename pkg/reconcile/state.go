package reconcile

import (
	"sort"
	"sync"

	"github.com/go-drift/mountgraph/pkg/component"
)

type update struct {
	seq  uint64
	key  string
	fn   component.StateUpdate
	lazy bool
}

// StateHandler owns the committed state of one tree and the updates queued
// against it. Enqueue is safe from any goroutine; Commit is serialized by
// the tree.
type StateHandler struct {
	mu        sync.Mutex
	committed map[string]any
	pending   []update
	seq       uint64
}

// NewStateHandler creates an empty handler.
func NewStateHandler() *StateHandler {
	return &StateHandler{committed: make(map[string]any)}
}

// Enqueue queues fn for key and returns its sequence number.
func (h *StateHandler) Enqueue(key string, fn component.StateUpdate, lazy bool) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	h.pending = append(h.pending, update{seq: h.seq, key: key, fn: fn, lazy: lazy})
	return h.seq
}

// HasPending reports whether any non-lazy update is queued.
func (h *StateHandler) HasPending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, u := range h.pending {
		if !u.lazy {
			return true
		}
	}
	return false
}

// PendingKeys returns the keys with queued updates, lazy ones included.
// It exposes the queue to tests.
func (h *StateHandler) PendingKeys() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	seen := make(map[string]bool)
	var keys []string
	for _, u := range h.pending {
		if !seen[u.key] {
			seen[u.key] = true
			keys = append(keys, u.key)
		}
	}
	return keys
}

// Committed returns the committed state of key.
func (h *StateHandler) Committed(key string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.committed[key]
	return v, ok
}

// Snapshot captures the committed state and every queued update. The queue
// is copied, not drained: a calculation that is abandoned leaves it intact.
func (h *StateHandler) Snapshot() *Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := &Snapshot{
		base:     make(map[string]any, len(h.committed)),
		updates:  make(map[string][]update),
		resolved: make(map[string]any),
		upTo:     h.seq,
	}
	for k, v := range h.committed {
		s.base[k] = v
	}
	for _, u := range h.pending {
		s.updates[u.key] = append(s.updates[u.key], u)
	}
	for _, us := range s.updates {
		// Lazy updates fold before non-lazy ones; each group keeps enqueue order.
		sort.SliceStable(us, func(i, j int) bool { return us[i].lazy && !us[j].lazy })
	}
	return s
}

// Commit atomically folds the snapshot into the committed state and drops
// every update it covered. Updates queued after the snapshot stay pending.
// State of keys outside live is discarded.
func (h *StateHandler) Commit(s *Snapshot, live map[string]bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for k, v := range s.resolved {
		h.committed[k] = v
	}
	for k := range s.updates {
		if _, ok := s.resolved[k]; !ok {
			if _, known := h.committed[k]; known {
				h.committed[k] = s.fold(k, h.committed[k])
			}
		}
	}
	if live != nil {
		for k := range h.committed {
			if !live[k] {
				delete(h.committed, k)
			}
		}
	}
	kept := h.pending[:0]
	for _, u := range h.pending {
		if u.seq > s.upTo {
			kept = append(kept, u)
		}
	}
	h.pending = kept
}

// Snapshot is the state view of one calculation.
type Snapshot struct {
	mu       sync.Mutex
	base     map[string]any
	updates  map[string][]update
	resolved map[string]any
	upTo     uint64
}

// Version is the sequence number of the newest update included.
func (s *Snapshot) Version() uint64 { return s.upTo }

// Dirty reports whether key has a queued update in this snapshot.
func (s *Snapshot) Dirty(key string) bool {
	_, ok := s.updates[key]
	return ok
}

// DirtyKeys returns every key with a queued update.
func (s *Snapshot) DirtyKeys() []string {
	keys := make([]string, 0, len(s.updates))
	for k := range s.updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// State returns the state of key for this calculation: the committed value,
// or initial() for a new component, with every queued update folded on in
// order. The result is memoized so resumed calculations see the same value.
func (s *Snapshot) State(key string, initial func() any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.resolved[key]; ok {
		return v
	}
	v, ok := s.base[key]
	if !ok {
		v = initial()
	}
	v = s.fold(key, v)
	s.resolved[key] = v
	return v
}

// Keep records that key resolved without re-rendering, carrying its
// previous state.
func (s *Snapshot) Keep(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resolved[key]; !ok {
		s.resolved[key] = v
	}
}

func (s *Snapshot) fold(key string, v any) any {
	for _, u := range s.updates[key] {
		v = u.fn(v)
	}
	return v
}

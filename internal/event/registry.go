package event

import (
	"sort"
	"sync"
)

// Registry manages subscriptions per channel.
// It is safe for concurrent access.
type Registry struct {
	mu    sync.RWMutex
	subs  map[Channel][]*subscription
	byID  map[string]*subscription
	order uint64
}

// NewRegistry creates a new subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[Channel][]*subscription),
		byID: make(map[string]*subscription),
	}
}

// Add adds a subscription. Subscriptions are kept in priority order, and in
// the order they were added within one priority.
func (r *Registry) Add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order++
	sub.seq = r.order

	subs := append(r.subs[sub.Channel()], sub)
	sort.SliceStable(subs, func(i, j int) bool {
		pi, pj := subs[i].Config().Priority, subs[j].Config().Priority
		if pi != pj {
			return pi < pj
		}
		return subs[i].seq < subs[j].seq
	})
	r.subs[sub.Channel()] = subs
	r.byID[sub.ID()] = sub
}

// Remove removes a subscription by ID.
func (r *Registry) Remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.byID[subID]
	if !exists {
		return false
	}

	ch := sub.Channel()
	subs := r.subs[ch]
	for i, s := range subs {
		if s.ID() == subID {
			// Copy so slices handed out by Match stay intact.
			next := make([]*subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			r.subs[ch] = next
			break
		}
	}
	if len(r.subs[ch]) == 0 {
		delete(r.subs, ch)
	}
	delete(r.byID, subID)

	return true
}

// Get returns a subscription by ID.
func (r *Registry) Get(subID string) (*subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.byID[subID]
	return sub, exists
}

// Match returns the subscriptions for ch in delivery order.
// The returned slice is a copy.
func (r *Registry) Match(ch Channel) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.subs[ch]
	if len(subs) == 0 {
		return nil
	}
	result := make([]*subscription, len(subs))
	copy(result, subs)
	return result
}

// MatchActive returns only the active subscriptions for ch.
func (r *Registry) MatchActive(ch Channel) []*subscription {
	all := r.Match(ch)
	active := all[:0]
	for _, s := range all {
		if s.IsActive() {
			active = append(active, s)
		}
	}
	return active
}

// Count returns the total number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// CountActive returns the number of active subscriptions.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.byID {
		if s.IsActive() {
			n++
		}
	}
	return n
}

// Clear removes all subscriptions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = make(map[Channel][]*subscription)
	r.byID = make(map[string]*subscription)
}

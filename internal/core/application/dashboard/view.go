// Package dashboard maintains the kitchen dashboard: the active orders in
// first-in-first-out order, updated incrementally as orders change.
//
// Readers never lock. Each write builds a new immutable state and publishes
// it through an atomic pointer, so a reader always sees one consistent
// version and a long listing never holds up the writers.
package dashboard

import (
	"slices"
	"sync"
	"sync/atomic"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/ports"
)

type state struct {
	// orders is sorted by order.Snapshot.Before and never modified once published.
	orders []order.Snapshot
	index  map[kernel.UUID]struct{}
}

var emptyState = &state{index: map[kernel.UUID]struct{}{}}

// View is safe for concurrent use.
type View struct {
	mu      sync.Mutex
	current atomic.Pointer[state]
}

func NewView() *View {
	v := &View{}
	v.current.Store(emptyState)
	return v
}

// Apply inserts, replaces or removes the order depending on its status.
func (v *View) Apply(snapshot order.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	cur := v.load()
	_, present := cur.index[snapshot.ID]

	switch {
	case snapshot.IsActive():
		v.current.Store(cur.upsert(snapshot, present))
	case present:
		v.current.Store(cur.remove(snapshot.ID))
	}
}

// Reset replaces the content with the active snapshots given.
func (v *View) Reset(snapshots []order.Snapshot) {
	active := make([]order.Snapshot, 0, len(snapshots))
	index := make(map[kernel.UUID]struct{}, len(snapshots))
	for _, s := range snapshots {
		if !s.IsActive() {
			continue
		}
		if _, dup := index[s.ID]; dup {
			continue
		}
		index[s.ID] = struct{}{}
		active = append(active, s)
	}
	slices.SortFunc(active, compare)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.current.Store(&state{orders: active, index: index})
}

// List returns the active orders, oldest first.
func (v *View) List() []order.Snapshot {
	return slices.Clone(v.load().orders)
}

// Contains reports in constant time whether the order is on the dashboard.
func (v *View) Contains(id kernel.UUID) bool {
	_, ok := v.load().index[id]
	return ok
}

func (v *View) Len() int {
	return len(v.load().orders)
}

// StatusCounts returns how many dashboard orders are in each status.
func (v *View) StatusCounts() map[order.Status]int {
	counts := make(map[order.Status]int)
	for _, s := range v.load().orders {
		counts[s.Status]++
	}
	return counts
}

func (v *View) load() *state {
	if s := v.current.Load(); s != nil {
		return s
	}
	return emptyState
}

func (s *state) upsert(snapshot order.Snapshot, present bool) *state {
	pos, found := slices.BinarySearchFunc(s.orders, snapshot, compare)

	if present && found {
		orders := slices.Clone(s.orders)
		orders[pos] = snapshot
		return &state{orders: orders, index: s.index}
	}
	if present {
		// creation time changed: drop the stale entry first
		return s.remove(snapshot.ID).upsert(snapshot, false)
	}

	orders := make([]order.Snapshot, 0, len(s.orders)+1)
	orders = append(orders, s.orders[:pos]...)
	orders = append(orders, snapshot)
	orders = append(orders, s.orders[pos:]...)

	index := cloneIndex(s.index, 1)
	index[snapshot.ID] = struct{}{}
	return &state{orders: orders, index: index}
}

func (s *state) remove(id kernel.UUID) *state {
	orders := make([]order.Snapshot, 0, len(s.orders))
	for _, o := range s.orders {
		if !o.ID.IsEqual(id) {
			orders = append(orders, o)
		}
	}
	index := cloneIndex(s.index, 0)
	delete(index, id)
	return &state{orders: orders, index: index}
}

func cloneIndex(src map[kernel.UUID]struct{}, extra int) map[kernel.UUID]struct{} {
	dst := make(map[kernel.UUID]struct{}, len(src)+extra)
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}

func compare(a, b order.Snapshot) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	default:
		return 0
	}
}

var _ ports.KitchenDashboard = (*View)(nil)

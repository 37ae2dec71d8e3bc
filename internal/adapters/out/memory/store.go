// Package memory keeps orders in process memory. It backs the service when
// no database is configured and gives tests the same transactional
// behaviour as the postgres adapter.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/pkg/errs"
)

// ErrNoTransaction is returned by Commit and Rollback outside of Begin.
var ErrNoTransaction = errors.New("no active transaction")

// OrderStore holds committed orders. Every read hands out a clone, so callers
// never share state with the store or with each other.
type OrderStore struct {
	mu      sync.RWMutex
	orders  map[kernel.UUID]*order.Order
	numbers map[int64]kernel.UUID
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:  make(map[kernel.UUID]*order.Order),
		numbers: make(map[int64]kernel.UUID),
	}
}

// Get reads a committed order.
func (s *OrderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id.String())
	}
	return stored.Clone(), nil
}

func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

func (s *OrderStore) activeOrders() []*order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o.IsActive() {
			active = append(active, o.Clone())
		}
	}
	return active
}

func (s *OrderStore) maxNumber() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var maxNumber int64
	for n := range s.numbers {
		maxNumber = max(maxNumber, n)
	}
	return maxNumber
}

// write is one staged change. expected is the stored version the change was
// based on; zero marks an insert.
type write struct {
	aggregate *order.Order
	expected  int64
}

// apply stores every write or none of them.
func (s *OrderStore) apply(writes []write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if err := s.check(w); err != nil {
			return err
		}
	}
	for _, w := range writes {
		stored := w.aggregate.Clone()
		stored.ClearDomainEvents()
		s.orders[stored.ID()] = stored
		s.numbers[stored.Number().Value()] = stored.ID()
	}
	return nil
}

func (s *OrderStore) check(w write) error {
	id := w.aggregate.ID()
	current, exists := s.orders[id]

	if w.expected == 0 {
		if exists {
			return errs.NewValueIsInvalidErrorWithCause("orderId", errors.New("order already exists"))
		}
		if owner, taken := s.numbers[w.aggregate.Number().Value()]; taken && !owner.IsEqual(id) {
			return errs.NewValueIsInvalidErrorWithCause("number", errors.New(w.aggregate.Number().String()+" is taken"))
		}
		return nil
	}

	if !exists {
		return errs.NewObjectNotFoundError("orderId", id.String())
	}
	if current.Version() != w.expected {
		return errs.NewVersionIsInvalidError("order")
	}
	return nil
}

func sortOldestFirst(orders []*order.Order) {
	sort.Slice(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().Before(b.CreatedAt())
		}
		return a.ID().Compare(b.ID()) < 0
	})
}

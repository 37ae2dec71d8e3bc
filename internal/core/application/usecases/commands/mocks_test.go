package commands_test

import (
	"context"
	"sync"

	"kitchen/internal/core/application/usecases/commands"
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetAllActive(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if orders, ok := args.Get(0).([]*order.Order); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) MaxNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockMenuCatalog struct{ mock.Mock }

func (m *MockMenuCatalog) Get(ctx context.Context, id int64) (menu.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(menu.Item), args.Error(1)
}

func (m *MockMenuCatalog) List(ctx context.Context) ([]menu.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]menu.Item), args.Error(1)
}

type MockDashboard struct{ mock.Mock }

func (m *MockDashboard) Apply(s order.Snapshot) { m.Called(s) }

func (m *MockDashboard) Reset(s []order.Snapshot) { m.Called(s) }

func (m *MockDashboard) List() []order.Snapshot {
	args := m.Called()
	return args.Get(0).([]order.Snapshot)
}

func (m *MockDashboard) Contains(id kernel.UUID) bool {
	args := m.Called(id)
	return args.Bool(0)
}

func (m *MockDashboard) Len() int {
	args := m.Called()
	return args.Int(0)
}

// recordingLocker counts lock and unlock calls per order.
type recordingLocker struct {
	mu       sync.Mutex
	locked   map[kernel.UUID]int
	unlocked map[kernel.UUID]int
}

func newRecordingLocker() *recordingLocker {
	return &recordingLocker{
		locked:   make(map[kernel.UUID]int),
		unlocked: make(map[kernel.UUID]int),
	}
}

func (l *recordingLocker) Lock(id kernel.UUID) func() {
	l.mu.Lock()
	l.locked[id]++
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		l.unlocked[id]++
		l.mu.Unlock()
	}
}

type fixedNumbers struct {
	next  int64
	calls int
}

func (f *fixedNumbers) Next() kernel.OrderNumber {
	f.calls++
	n, _ := kernel.NewOrderNumber(f.next)
	f.next++
	return n
}

type recordingSeeder struct{ advancedTo int64 }

func (r *recordingSeeder) AdvanceTo(n int64) { r.advancedTo = n }

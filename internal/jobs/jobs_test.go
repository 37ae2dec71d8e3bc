package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"kitchen/internal/core/application/usecases/queries"
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockActiveOrdersLister struct {
	mock.Mock
}

func (m *MockActiveOrdersLister) Handle(
	ctx context.Context,
	query queries.ListActiveOrdersQuery,
) (queries.ListActiveOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.ListActiveOrdersQueryResponse), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func snapshotAt(t *testing.T, number int64, createdAt time.Time) order.Snapshot {
	t.Helper()
	n, err := kernel.NewOrderNumber(number)
	require.NoError(t, err)
	return order.Snapshot{ID: kernel.NewUUID(), Number: n, Status: order.Pending, CreatedAt: createdAt}
}

func TestOverdueOrdersJob_Run(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := snapshotAt(t, 1, now.Add(-45*time.Minute))
	old := snapshotAt(t, 2, now.Add(-21*time.Minute))
	fresh := snapshotAt(t, 3, now.Add(-5*time.Minute))

	lister := new(MockActiveOrdersLister)
	lister.On("Handle", mock.Anything, mock.Anything).Return(queries.ListActiveOrdersQueryResponse{
		Orders: []order.Snapshot{oldest, old, fresh},
	}, nil)

	job := NewOverdueOrdersJob(lister, 20*time.Minute, discardLogger())
	job.now = func() time.Time { return now }

	overdue, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []order.Snapshot{oldest, old}, overdue)
	lister.AssertExpectations(t)
}

func TestOverdueOrdersJob_Run_NothingOverdue(t *testing.T) {
	lister := new(MockActiveOrdersLister)
	lister.On("Handle", mock.Anything, mock.Anything).Return(queries.ListActiveOrdersQueryResponse{
		Orders: []order.Snapshot{snapshotAt(t, 1, time.Now())},
	}, nil)

	overdue, err := NewOverdueOrdersJob(lister, time.Hour, discardLogger()).Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestOverdueOrdersJob_Run_QueryError(t *testing.T) {
	lister := new(MockActiveOrdersLister)
	lister.On("Handle", mock.Anything, mock.Anything).
		Return(queries.ListActiveOrdersQueryResponse{}, errors.New("boom"))

	_, err := NewOverdueOrdersJob(lister, time.Hour, discardLogger()).Run(context.Background())

	assert.EqualError(t, err, "boom")
}

func TestCacheSweepJob_Run(t *testing.T) {
	now := time.Now()
	c := cache.New[string, int](time.Minute, cache.WithClock(func() time.Time { return now }))
	for _, key := range []string{"a", "b"} {
		_, err := c.GetOrLoad(context.Background(), key, func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, err)
	}

	job := NewCacheSweepJob(c, discardLogger())
	assert.Zero(t, job.Run(context.Background()))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, job.Run(context.Background()))
	assert.Zero(t, c.Len())
}

func TestJobManager_StartStop(t *testing.T) {
	lister := new(MockActiveOrdersLister)
	lister.On("Handle", mock.Anything, mock.Anything).
		Return(queries.ListActiveOrdersQueryResponse{}, nil).Maybe()

	jm := NewJobManager(cache.New[string, int](time.Minute), lister, time.Hour, discardLogger())

	require.NoError(t, jm.StartAll())
	jm.StopAll()
}

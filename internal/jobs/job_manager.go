package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager starts and stops the kitchen's background jobs together.
type JobManager struct {
	cacheSweepJob    *CacheSweepJob
	overdueOrdersJob *OverdueOrdersJob
}

func NewJobManager(
	cache Sweeper,
	activeOrders ActiveOrdersLister,
	overdueAfter time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		cacheSweepJob:    NewCacheSweepJob(cache, logger),
		overdueOrdersJob: NewOverdueOrdersJob(activeOrders, overdueAfter, logger),
	}
}

// StartAll starts every job. If one fails to start, the ones already
// running are stopped.
func (jm *JobManager) StartAll() error {
	if err := jm.cacheSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start cache sweep job: %w", err)
	}

	if err := jm.overdueOrdersJob.Start(); err != nil {
		jm.cacheSweepJob.Stop()
		return fmt.Errorf("failed to start overdue orders job: %w", err)
	}

	return nil
}

func (jm *JobManager) StopAll() {
	jm.overdueOrdersJob.Stop()
	jm.cacheSweepJob.Stop()
}

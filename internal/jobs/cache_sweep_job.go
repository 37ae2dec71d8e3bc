package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper drops expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// CacheSweepJob evicts expired cache entries every 30 seconds so values
// nobody asks for again do not linger until the next read.
type CacheSweepJob struct {
	cache  Sweeper
	cron   *cron.Cron
	logger *slog.Logger
}

func NewCacheSweepJob(cache Sweeper, logger *slog.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		cache:  cache,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "cache_sweep_job"),
	}
}

func (j *CacheSweepJob) Start() error {
	if _, err := j.cron.AddFunc("*/30 * * * * *", func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Cache sweep job started (running every 30 seconds)")
	return nil
}

// Run performs a single sweep.
func (j *CacheSweepJob) Run(ctx context.Context) int {
	removed := j.cache.Sweep()
	if removed > 0 {
		j.logger.DebugContext(ctx, "Expired cache entries removed", "count", removed)
	}
	return removed
}

// Stop waits for a running sweep to finish.
func (j *CacheSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Cache sweep job stopped")
}

package jobs

import (
	"context"
	"log/slog"
	"time"

	"kitchen/internal/core/application/usecases/queries"
	"kitchen/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
)

// ActiveOrdersLister is the query the overdue report reads from.
type ActiveOrdersLister interface {
	Handle(ctx context.Context, query queries.ListActiveOrdersQuery) (queries.ListActiveOrdersQueryResponse, error)
}

// OverdueOrdersJob reports, once a minute, the active orders that were
// placed longer than overdueAfter ago.
type OverdueOrdersJob struct {
	handler      ActiveOrdersLister
	overdueAfter time.Duration
	now          func() time.Time
	cron         *cron.Cron
	logger       *slog.Logger
}

func NewOverdueOrdersJob(handler ActiveOrdersLister, overdueAfter time.Duration, logger *slog.Logger) *OverdueOrdersJob {
	return &OverdueOrdersJob{
		handler:      handler,
		overdueAfter: overdueAfter,
		now:          time.Now,
		cron:         cron.New(cron.WithSeconds()),
		logger:       logger.With("component", "overdue_orders_job"),
	}
}

func (j *OverdueOrdersJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Overdue orders job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue orders job started (running every minute)",
		"overdue_after", j.overdueAfter.String())
	return nil
}

// Run logs every overdue order and returns them oldest first.
func (j *OverdueOrdersJob) Run(ctx context.Context) ([]order.Snapshot, error) {
	resp, err := j.handler.Handle(ctx, queries.NewListActiveOrdersQuery())
	if err != nil {
		return nil, err
	}

	cutoff := j.now().Add(-j.overdueAfter)
	var overdue []order.Snapshot
	for _, o := range resp.Orders {
		// the dashboard is FIFO, so the first fresh order ends the scan
		if !o.CreatedAt.Before(cutoff) {
			break
		}
		overdue = append(overdue, o)
		j.logger.WarnContext(ctx, "Order is overdue",
			"order_id", o.ID.String(),
			"order_number", o.Number.String(),
			"status", o.Status.String(),
			"waiting", j.now().Sub(o.CreatedAt).Round(time.Second).String())
	}
	return overdue, nil
}

func (j *OverdueOrdersJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Overdue orders job stopped")
}

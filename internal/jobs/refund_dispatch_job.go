package jobs

import (
	"context"
	"log/slog"

	"campusmarket/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultRefundDispatchSchedule runs the dispatcher every ten seconds.
const DefaultRefundDispatchSchedule = "*/10 * * * * *"

type refundDispatcher interface {
	Handle(ctx context.Context, cmd commands.DispatchRefundsCommand) (int, error)
}

// RefundDispatchJob hands initiated refunds to the payment processor on a
// schedule. Ticks never overlap: a tick still running when the next one is
// due makes that next one skip.
type RefundDispatchJob struct {
	handler  refundDispatcher
	schedule string
	batch    int
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewRefundDispatchJob creates the job. schedule is a cron expression with a
// seconds field; batch bounds the orders handled per tick.
func NewRefundDispatchJob(handler refundDispatcher, schedule string, batch int, logger *slog.Logger) *RefundDispatchJob {
	if schedule == "" {
		schedule = DefaultRefundDispatchSchedule
	}
	return &RefundDispatchJob{
		handler:  handler,
		schedule: schedule,
		batch:    batch,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "refund_dispatch_job"),
	}
}

// Start schedules the job and starts the scheduler.
func (j *RefundDispatchJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Refund dispatch job started", "schedule", j.schedule)
	return nil
}

// RunOnce performs a single tick. Errors are logged; whatever was not
// dispatched is picked up by a later tick.
func (j *RefundDispatchJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewDispatchRefundsCommand(j.batch)
	if err != nil {
		j.logger.ErrorContext(ctx, "Refund dispatch job misconfigured", "error", err)
		return
	}

	dispatched, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Refund dispatch job failed", "error", err)
		return
	}
	if dispatched > 0 {
		j.logger.InfoContext(ctx, "Refunds dispatched", "count", dispatched)
	}
}

// Stop stops the scheduler and waits for a running tick to finish.
func (j *RefundDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Refund dispatch job stopped")
}

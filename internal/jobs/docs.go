// Package jobs provides scheduled background tasks for the order engine.
//
// Jobs use github.com/robfig/cron/v3 with a seconds field in their schedule.
//
// # Available Jobs
//
// 1. RefundDispatchJob - hands refunds initiated by cancellations to the
// payment processor and records the hand-off on the order
//
// # Usage
//
// Jobs are managed through JobManager:
//
//	refunds := jobs.NewRefundDispatchJob(dispatchHandler, cfg.RefundDispatchSchedule, cfg.RefundDispatchBatch, logger)
//	jobManager := jobs.NewJobManager(refunds)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed tick is logged; the orders it did not finish stay pending for the next tick
// - Failed job starts stop any already running jobs
package jobs

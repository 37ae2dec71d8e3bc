// Package jobs runs the kitchen's periodic background work on
// github.com/robfig/cron/v3 schedules.
//
// # Available Jobs
//
//  1. CacheSweepJob - every 30 seconds, evicts expired menu cache entries
//  2. OverdueOrdersJob - every minute, logs active orders older than the
//     configured OVERDUE_AFTER
//
// # Usage
//
//	jobManager := jobs.NewJobManager(menuCache, listActiveOrdersHandler, 20*time.Minute, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Both jobs expose Run so a single pass can be triggered outside the
// schedule.
package jobs

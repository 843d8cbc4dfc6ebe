// Package jobs provides scheduled background tasks for the laundry dispatch service.
//
// Jobs are cron-based, using github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// PartnerLoadReconciliationJob recomputes partners.current_load from the partner's
// non-completed orders, clamped to capacity. It repairs drift left by administrative
// status overrides and by crashes between commit and release. Corrections are logged and
// counted in laundry_partner_load_corrections_total.
//
// # Usage
//
//	job := jobs.NewPartnerLoadReconciliationJob(handler, recorder, "0 * * * * *", logger)
//	jobManager := jobs.NewJobManager(job)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and retried on the next tick. Overlapping runs are skipped and
// panics are recovered by the cron chain.
package jobs

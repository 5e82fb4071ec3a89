// Package constants defines shared constant values used across layers.
package constants

// Database table names
const (
	TableUsers         = "users"
	TablePlans         = "plans"
	TableSubscriptions = "subscriptions"
	TableQuotaRecords  = "quota_records"
	TableScheduledJobs = "scheduled_jobs"
)

// Scheduled job names. Also used as distributed lock lease names, prefixed
// by the lock key namespace.
const (
	JobNotifyExpiring = "notify-expiring"
	JobReapLapsed     = "reap-lapsed"
	JobHeartbeat      = "heartbeat"
)

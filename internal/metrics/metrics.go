// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Signup outcomes.
const (
	SignupSuccess  = "success"
	SignupConflict = "conflict"
	SignupInvalid  = "invalid"
)

// Record kinds as reported in metric labels.
const (
	KindExpense = "expense"
	KindIncome  = "income"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Authentication metrics
	IncSignup(outcome string)
	IncLogin(success bool)
	ObserveLoginDuration(duration time.Duration)
	IncAuthRejected()
	IncAccessDenied()

	// Record management metrics, kind is "expense" or "income"
	IncRecordCreated(kind string)
	IncRecordUpdated(kind string)
	IncRecordDeleted(kind string)

	// Stats cache metrics
	IncStatsCacheHit()
	IncStatsCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

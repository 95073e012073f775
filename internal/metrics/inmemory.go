package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SignupsSucceeded     uint64
	SignupsConflicted    uint64
	SignupsInvalid       uint64
	LoginsSucceeded      uint64
	LoginsFailed         uint64
	LoginDurationCount   uint64
	LoginDurationTotalNs int64
	AuthRejected         uint64
	AccessDenied         uint64
	ExpensesCreated      uint64
	ExpensesUpdated      uint64
	ExpensesDeleted      uint64
	IncomesCreated       uint64
	IncomesUpdated       uint64
	IncomesDeleted       uint64
	StatsCacheHits       uint64
	StatsCacheMisses     uint64
}

type kindCounters struct {
	created uint64
	updated uint64
	deleted uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	signupsSucceeded     uint64
	signupsConflicted    uint64
	signupsInvalid       uint64
	loginsSucceeded      uint64
	loginsFailed         uint64
	loginDurationCount   uint64
	loginDurationTotalNs int64
	authRejected         uint64
	accessDenied         uint64
	expenses             kindCounters
	incomes              kindCounters
	statsCacheHits       uint64
	statsCacheMisses     uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		SignupsSucceeded:     atomic.LoadUint64(&m.signupsSucceeded),
		SignupsConflicted:    atomic.LoadUint64(&m.signupsConflicted),
		SignupsInvalid:       atomic.LoadUint64(&m.signupsInvalid),
		LoginsSucceeded:      atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:         atomic.LoadUint64(&m.loginsFailed),
		LoginDurationCount:   atomic.LoadUint64(&m.loginDurationCount),
		LoginDurationTotalNs: atomic.LoadInt64(&m.loginDurationTotalNs),
		AuthRejected:         atomic.LoadUint64(&m.authRejected),
		AccessDenied:         atomic.LoadUint64(&m.accessDenied),
		ExpensesCreated:      atomic.LoadUint64(&m.expenses.created),
		ExpensesUpdated:      atomic.LoadUint64(&m.expenses.updated),
		ExpensesDeleted:      atomic.LoadUint64(&m.expenses.deleted),
		IncomesCreated:       atomic.LoadUint64(&m.incomes.created),
		IncomesUpdated:       atomic.LoadUint64(&m.incomes.updated),
		IncomesDeleted:       atomic.LoadUint64(&m.incomes.deleted),
		StatsCacheHits:       atomic.LoadUint64(&m.statsCacheHits),
		StatsCacheMisses:     atomic.LoadUint64(&m.statsCacheMisses),
	}
}

// IncSignup increments the counter for the given signup outcome.
// Unknown outcomes are ignored.
func (m *InMemoryRecorder) IncSignup(outcome string) {
	switch outcome {
	case SignupSuccess:
		atomic.AddUint64(&m.signupsSucceeded, 1)
	case SignupConflict:
		atomic.AddUint64(&m.signupsConflicted, 1)
	case SignupInvalid:
		atomic.AddUint64(&m.signupsInvalid, 1)
	}
}

// IncLogin increments the login success or failure counter.
func (m *InMemoryRecorder) IncLogin(success bool) {
	if success {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// ObserveLoginDuration records login duration.
func (m *InMemoryRecorder) ObserveLoginDuration(duration time.Duration) {
	atomic.AddUint64(&m.loginDurationCount, 1)
	atomic.AddInt64(&m.loginDurationTotalNs, duration.Nanoseconds())
}

// IncAuthRejected increments the rejected bearer token counter.
func (m *InMemoryRecorder) IncAuthRejected() {
	atomic.AddUint64(&m.authRejected, 1)
}

// IncAccessDenied increments the ownership denial counter.
func (m *InMemoryRecorder) IncAccessDenied() {
	atomic.AddUint64(&m.accessDenied, 1)
}

// IncRecordCreated increments record created counter.
func (m *InMemoryRecorder) IncRecordCreated(kind string) {
	if c := m.counters(kind); c != nil {
		atomic.AddUint64(&c.created, 1)
	}
}

// IncRecordUpdated increments record updated counter.
func (m *InMemoryRecorder) IncRecordUpdated(kind string) {
	if c := m.counters(kind); c != nil {
		atomic.AddUint64(&c.updated, 1)
	}
}

// IncRecordDeleted increments record deleted counter.
func (m *InMemoryRecorder) IncRecordDeleted(kind string) {
	if c := m.counters(kind); c != nil {
		atomic.AddUint64(&c.deleted, 1)
	}
}

// IncStatsCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncStatsCacheHit() {
	atomic.AddUint64(&m.statsCacheHits, 1)
}

// IncStatsCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncStatsCacheMiss() {
	atomic.AddUint64(&m.statsCacheMisses, 1)
}

func (m *InMemoryRecorder) counters(kind string) *kindCounters {
	switch kind {
	case KindExpense:
		return &m.expenses
	case KindIncome:
		return &m.incomes
	default:
		return nil
	}
}

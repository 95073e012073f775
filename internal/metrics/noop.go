package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncSignup(outcome string)                    {}
func (n *NoopRecorder) IncLogin(success bool)                       {}
func (n *NoopRecorder) ObserveLoginDuration(duration time.Duration) {}
func (n *NoopRecorder) IncAuthRejected()                            {}
func (n *NoopRecorder) IncAccessDenied()                            {}
func (n *NoopRecorder) IncRecordCreated(kind string)                {}
func (n *NoopRecorder) IncRecordUpdated(kind string)                {}
func (n *NoopRecorder) IncRecordDeleted(kind string)                {}
func (n *NoopRecorder) IncStatsCacheHit()                           {}
func (n *NoopRecorder) IncStatsCacheMiss()                          {}

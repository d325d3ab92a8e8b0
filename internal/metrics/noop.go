package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncUserConflict is a no-op.
func (n *NoopRecorder) IncUserConflict() {}

// IncArticleCreated is a no-op.
func (n *NoopRecorder) IncArticleCreated() {}

// IncArticleAuthorMissing is a no-op.
func (n *NoopRecorder) IncArticleAuthorMissing() {}

// IncAvatarServed is a no-op.
func (n *NoopRecorder) IncAvatarServed() {}

// IncAvatarNotModified is a no-op.
func (n *NoopRecorder) IncAvatarNotModified() {}

// ObserveStoreDuration is a no-op.
func (n *NoopRecorder) ObserveStoreDuration(duration time.Duration) {}

package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated         uint64
	UserConflicts        uint64
	ArticlesCreated      uint64
	ArticleAuthorMissing uint64
	AvatarsServed        uint64
	AvatarsNotModified   uint64
	StoreDurationCount   uint64
	StoreDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersCreated         uint64
	userConflicts        uint64
	articlesCreated      uint64
	articleAuthorMissing uint64
	avatarsServed        uint64
	avatarsNotModified   uint64
	storeDurationCount   uint64
	storeDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:         atomic.LoadUint64(&m.usersCreated),
		UserConflicts:        atomic.LoadUint64(&m.userConflicts),
		ArticlesCreated:      atomic.LoadUint64(&m.articlesCreated),
		ArticleAuthorMissing: atomic.LoadUint64(&m.articleAuthorMissing),
		AvatarsServed:        atomic.LoadUint64(&m.avatarsServed),
		AvatarsNotModified:   atomic.LoadUint64(&m.avatarsNotModified),
		StoreDurationCount:   atomic.LoadUint64(&m.storeDurationCount),
		StoreDurationTotalNs: atomic.LoadInt64(&m.storeDurationTotalNs),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserConflict increments the duplicate email counter.
func (m *InMemoryRecorder) IncUserConflict() {
	atomic.AddUint64(&m.userConflicts, 1)
}

// IncArticleCreated increments the article created counter.
func (m *InMemoryRecorder) IncArticleCreated() {
	atomic.AddUint64(&m.articlesCreated, 1)
}

// IncArticleAuthorMissing increments the rejected article counter.
func (m *InMemoryRecorder) IncArticleAuthorMissing() {
	atomic.AddUint64(&m.articleAuthorMissing, 1)
}

// IncAvatarServed increments the avatar served counter.
func (m *InMemoryRecorder) IncAvatarServed() {
	atomic.AddUint64(&m.avatarsServed, 1)
}

// IncAvatarNotModified increments the avatar revalidation counter.
func (m *InMemoryRecorder) IncAvatarNotModified() {
	atomic.AddUint64(&m.avatarsNotModified, 1)
}

// ObserveStoreDuration records store call duration.
func (m *InMemoryRecorder) ObserveStoreDuration(duration time.Duration) {
	atomic.AddUint64(&m.storeDurationCount, 1)
	atomic.AddInt64(&m.storeDurationTotalNs, duration.Nanoseconds())
}

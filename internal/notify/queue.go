// Package notify holds transient user-facing messages that expire on their
// own after a fixed time-to-live.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/reminders/internal/model"
)

// DefaultTTL is how long a notification stays visible unless dismissed.
const DefaultTTL = 5 * time.Second

// Timer is the handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Queue.
type Option func(*Queue)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(q *Queue) {
		if ttl > 0 {
			q.ttl = ttl
		}
	}
}

// WithScheduler replaces the wall-clock timer source.
func WithScheduler(s Scheduler) Option {
	return func(q *Queue) { q.sched = s }
}

// WithClock replaces time.Now for notification timestamps.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// Queue is an ordered, self-expiring list of notifications. Removal by id is
// idempotent, so an expiry timer and a manual dismissal may race safely.
type Queue struct {
	mu      sync.Mutex
	entries []model.Notification
	timers  map[string]Timer
	ttl     time.Duration
	sched   Scheduler
	now     func() time.Time
	changes chan struct{}
	closed  bool
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		timers:  make(map[string]Timer),
		ttl:     DefaultTTL,
		sched:   realScheduler{},
		now:     time.Now,
		changes: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends a notification and schedules its removal after the TTL.
func (q *Queue) Push(message string, kind model.NotificationKind) model.Notification {
	n := model.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Kind:      kind,
		Timestamp: q.now(),
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return n
	}
	q.entries = append(q.entries, n)
	id := n.ID
	q.timers[id] = q.sched.AfterFunc(q.ttl, func() { q.expire(id) })
	q.mu.Unlock()

	q.signal()
	return n
}

// Dismiss removes the notification immediately and cancels its expiry.
// It reports false if the notification was already gone.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	removed := q.removeLocked(id)
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()

	if removed {
		q.signal()
	}
	return removed
}

// DismissAll clears the queue.
func (q *Queue) DismissAll() {
	q.mu.Lock()
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	had := len(q.entries) > 0
	q.entries = nil
	q.mu.Unlock()

	if had {
		q.signal()
	}
}

// Entries returns the current notifications, oldest first.
func (q *Queue) Entries() []model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]model.Notification, len(q.entries))
	copy(out, q.entries)
	return out
}

// Len returns the number of visible notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// SetTTL changes the lifetime of notifications pushed from now on.
func (q *Queue) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	q.mu.Lock()
	q.ttl = ttl
	q.mu.Unlock()
}

// Changes delivers a coalesced signal whenever the entries change.
func (q *Queue) Changes() <-chan struct{} {
	return q.changes
}

// Close cancels every pending expiry. Pushes after Close are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.closed = true
}

func (q *Queue) expire(id string) {
	q.mu.Lock()
	delete(q.timers, id)
	removed := q.removeLocked(id)
	q.mu.Unlock()

	if removed {
		q.signal()
	}
}

func (q *Queue) removeLocked(id string) bool {
	for i, n := range q.entries {
		if n.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// signal sends on the change channel without blocking. One pending signal
// is enough for a reader to pick up the latest entries.
func (q *Queue) signal() {
	select {
	case q.changes <- struct{}{}:
	default:
	}
}

// Package watch polls the reminder collection and announces reminders that
// are about to fall due.
package watch

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/reminders/internal/logging"
	"github.com/nhle/reminders/internal/model"
)

const (
	DefaultInterval  = 60 * time.Second
	DefaultLookahead = 5 * time.Minute
)

// Source provides the current reminders. The watcher only reads it.
type Source interface {
	Snapshot() []model.Reminder
}

// Notifier receives "due soon" messages.
type Notifier interface {
	Push(message string, kind model.NotificationKind) model.Notification
}

// Watcher checks Source on a fixed interval.
type Watcher struct {
	source   Source
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
	loc      *time.Location

	mu        sync.Mutex
	interval  time.Duration
	lookahead time.Duration
	repeat    bool
	// fired maps a reminder id to the due instant it was announced for.
	fired   map[int64]time.Time
	running bool
	stopCh  chan struct{}
	resetCh chan time.Duration
	done    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithLookahead sets how far ahead of its due instant a reminder is
// announced.
func WithLookahead(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.lookahead = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) { w.now = now }
}

// WithLocation sets the zone that reminder dates and times are read in.
func WithLocation(loc *time.Location) Option {
	return func(w *Watcher) {
		if loc != nil {
			w.loc = loc
		}
	}
}

// WithRepeat makes the watcher announce a reminder on every tick it stays in
// the window instead of once.
func WithRepeat(repeat bool) Option {
	return func(w *Watcher) { w.repeat = repeat }
}

// New creates a Watcher. It does nothing until Start is called.
func New(src Source, n Notifier, logger *zap.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		source:    src,
		notifier:  n,
		logger:    logging.OrNop(logger),
		now:       time.Now,
		loc:       time.Local,
		interval:  DefaultInterval,
		lookahead: DefaultLookahead,
		fired:     make(map[int64]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the polling goroutine. The first check happens one interval
// after Start. Calling Start on a running watcher does nothing.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.resetCh = make(chan time.Duration, 1)
	w.done = make(chan struct{})

	go w.loop(w.interval, w.stopCh, w.resetCh, w.done)
}

// Stop halts polling and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.done
	w.mu.Unlock()

	<-done
}

// Running reports whether the polling goroutine is active.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// SetInterval changes the tick period, restarting the current tick.
func (w *Watcher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.interval = d
	if !w.running {
		return
	}
	select {
	case <-w.resetCh:
	default:
	}
	w.resetCh <- d
}

// SetLookahead changes the window for subsequent checks.
func (w *Watcher) SetLookahead(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	w.lookahead = d
	w.mu.Unlock()
}

// SetRepeat switches between once-per-due-instant and every-tick
// announcements.
func (w *Watcher) SetRepeat(repeat bool) {
	w.mu.Lock()
	w.repeat = repeat
	w.mu.Unlock()
}

func (w *Watcher) loop(interval time.Duration, stopCh <-chan struct{}, resetCh <-chan time.Duration, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case d := <-resetCh:
			ticker.Reset(d)
		case <-ticker.C:
			if n := w.Check(w.now()); n > 0 {
				w.logger.Debug("due reminders announced", zap.Int("count", n))
			}
		}
	}
}

// Check announces every pending reminder whose due instant lies in
// (now, now+lookahead] and returns how many notifications it pushed. Unless
// repeat is on, a reminder is announced once per due instant; moving it out
// of the window and back in makes it eligible again.
func (w *Watcher) Check(now time.Time) int {
	items := w.source.Snapshot()

	w.mu.Lock()
	lookahead := w.lookahead
	repeat := w.repeat

	var due []model.Reminder
	inWindow := make(map[int64]bool)
	for _, r := range items {
		if r.Completed {
			continue
		}
		at, ok := r.DueAt(w.loc)
		if !ok {
			continue
		}
		until := at.Sub(now)
		if until <= 0 || until > lookahead {
			continue
		}
		inWindow[r.ID] = true
		if !repeat {
			if prev, seen := w.fired[r.ID]; seen && prev.Equal(at) {
				continue
			}
		}
		w.fired[r.ID] = at
		due = append(due, r)
	}
	for id := range w.fired {
		if !inWindow[id] {
			delete(w.fired, id)
		}
	}
	w.mu.Unlock()

	for _, r := range due {
		if w.notifier != nil {
			w.notifier.Push(DueMessage(r), model.KindWarning)
		}
	}
	return len(due)
}

// DueMessage is the notification text for a reminder that is due soon.
func DueMessage(r model.Reminder) string {
	return fmt.Sprintf("%s is due soon!", r.Text)
}

package watch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/reminders/internal/model"
)

type staticSource struct {
	mu    sync.Mutex
	items []model.Reminder
}

func (s *staticSource) Snapshot() []model.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reminder, len(s.items))
	copy(out, s.items)
	return out
}

func (s *staticSource) set(items ...model.Reminder) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

type collector struct {
	mu   sync.Mutex
	msgs []string
}

func (c *collector) Push(message string, kind model.NotificationKind) model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, message)
	return model.Notification{Message: message, Kind: kind}
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

var base = time.Date(2024, 1, 5, 8, 57, 0, 0, time.UTC)

func rent() model.Reminder {
	return model.Reminder{ID: 1, Text: "Pay rent", Date: "2024-01-05", Time: "09:00", Priority: model.PriorityHigh, Category: "finance"}
}

func newTestWatcher(src Source, opts ...Option) (*Watcher, *collector) {
	c := &collector{}
	opts = append([]Option{WithLocation(time.UTC)}, opts...)
	return New(src, c, nil, opts...), c
}

func TestCheckWindowBoundaries(t *testing.T) {
	due := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"just outside lookahead", due.Add(-5*time.Minute - time.Second), 0},
		{"exactly at lookahead", due.Add(-5 * time.Minute), 1},
		{"inside window", due.Add(-time.Minute), 1},
		{"exactly due", due, 0},
		{"overdue", due.Add(time.Minute), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := newTestWatcher(&staticSource{items: []model.Reminder{rent()}})
			assert.Equal(t, tt.want, w.Check(tt.now))
			assert.Equal(t, tt.want, c.count())
		})
	}
}

func TestCheckSkipsCompletedAndUndated(t *testing.T) {
	done := rent()
	done.Completed = true
	noTime := model.Reminder{ID: 2, Text: "no time", Date: "2024-01-05"}
	noDate := model.Reminder{ID: 3, Text: "no date", Time: "09:00"}
	bad := model.Reminder{ID: 4, Text: "bad", Date: "05/01/2024", Time: "09:00"}

	w, c := newTestWatcher(&staticSource{items: []model.Reminder{done, noTime, noDate, bad}})
	assert.Zero(t, w.Check(base))
	assert.Zero(t, c.count())
}

func TestCheckMessage(t *testing.T) {
	w, c := newTestWatcher(&staticSource{items: []model.Reminder{rent()}})
	require.Equal(t, 1, w.Check(base))
	assert.Equal(t, []string{"Pay rent is due soon!"}, c.msgs)
}

func TestCheckFiresOncePerDueInstant(t *testing.T) {
	src := &staticSource{items: []model.Reminder{rent()}}
	w, c := newTestWatcher(src)

	assert.Equal(t, 1, w.Check(base))
	assert.Equal(t, 0, w.Check(base.Add(time.Minute)))
	assert.Equal(t, 0, w.Check(base.Add(2*time.Minute)))
	assert.Equal(t, 1, c.count())

	// Rescheduling inside the window announces the new instant.
	moved := rent()
	moved.Time = "09:01"
	src.set(moved)
	assert.Equal(t, 1, w.Check(base.Add(2*time.Minute)))
	assert.Equal(t, 2, c.count())
}

func TestCheckFiresAgainAfterLeavingWindow(t *testing.T) {
	src := &staticSource{items: []model.Reminder{rent()}}
	w, _ := newTestWatcher(src)

	require.Equal(t, 1, w.Check(base))

	// Completing drops it from the window; reopening makes it eligible again.
	done := rent()
	done.Completed = true
	src.set(done)
	assert.Equal(t, 0, w.Check(base.Add(time.Minute)))

	src.set(rent())
	assert.Equal(t, 1, w.Check(base.Add(time.Minute)))
}

func TestCheckRepeatFiresEveryTick(t *testing.T) {
	w, c := newTestWatcher(&staticSource{items: []model.Reminder{rent()}}, WithRepeat(true))

	w.Check(base)
	w.Check(base.Add(time.Minute))
	w.Check(base.Add(2 * time.Minute))
	assert.Equal(t, 3, c.count())

	w.SetRepeat(false)
	w.Check(base.Add(150 * time.Second))
	assert.Equal(t, 3, c.count())
}

func TestCheckDoesNotMutateSource(t *testing.T) {
	src := &staticSource{items: []model.Reminder{rent()}}
	w, _ := newTestWatcher(src)

	w.Check(base)
	assert.Equal(t, []model.Reminder{rent()}, src.Snapshot())
}

func TestSetLookahead(t *testing.T) {
	w, _ := newTestWatcher(&staticSource{items: []model.Reminder{rent()}})

	w.SetLookahead(time.Minute)
	assert.Zero(t, w.Check(base))
	assert.Equal(t, 1, w.Check(base.Add(2*time.Minute)))
}

func TestStartTicksAndStop(t *testing.T) {
	c := &collector{}
	w := New(&staticSource{items: []model.Reminder{rent()}}, c, nil,
		WithLocation(time.UTC),
		WithInterval(10*time.Millisecond),
		WithRepeat(true),
		WithClock(func() time.Time { return base }),
	)

	assert.Zero(t, c.count(), "nothing fires before the first tick")
	w.Start()
	w.Start()
	assert.True(t, w.Running())

	assert.Eventually(t, func() bool { return c.count() >= 2 }, time.Second, 5*time.Millisecond)

	w.Stop()
	w.Stop()
	assert.False(t, w.Running())

	stopped := c.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, c.count())
}

func TestSetIntervalWhileRunning(t *testing.T) {
	c := &collector{}
	w := New(&staticSource{items: []model.Reminder{rent()}}, c, nil,
		WithLocation(time.UTC),
		WithInterval(time.Hour),
		WithRepeat(true),
		WithClock(func() time.Time { return base }),
	)
	w.Start()
	defer w.Stop()

	w.SetInterval(10 * time.Millisecond)
	assert.Eventually(t, func() bool { return c.count() >= 1 }, time.Second, 5*time.Millisecond)
}

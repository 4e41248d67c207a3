// Package reminder owns the ordered reminder collection. It is the single
// writer: every mutation goes through Store, is persisted wholesale and is
// published to subscribers as a fresh snapshot.
package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/reminders/internal/logging"
	"github.com/nhle/reminders/internal/model"
	"github.com/nhle/reminders/internal/store"
)

// ErrEmptyText is returned when a reminder would end up without text.
var ErrEmptyText = errors.New("reminder text must not be empty")

// Notifier receives user-facing messages about mutations.
type Notifier interface {
	Push(message string, kind model.NotificationKind) model.Notification
}

// Store holds reminders newest first.
type Store struct {
	mu        sync.Mutex
	kv        store.Store
	notifier  Notifier
	logger    *zap.Logger
	now       func() time.Time
	items     []model.Reminder
	lastID    int64
	subs      map[int]chan []model.Reminder
	nextSubID int
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for ids and creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = logging.OrNop(l) }
}

// New creates an empty store backed by kv. Call Load to restore saved
// reminders.
func New(kv store.Store, n Notifier, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		notifier: n,
		logger:   zap.NewNop(),
		now:      time.Now,
		subs:     make(map[int]chan []model.Reminder),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the persisted one. Missing or corrupt
// data yields an empty collection; only storage I/O failures are returned.
func (s *Store) Load(ctx context.Context) error {
	items, err := s.read(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items = items
	for _, r := range items {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
	s.publishLocked(s.snapshotLocked())
	s.mu.Unlock()
	return nil
}

func (s *Store) read(ctx context.Context) ([]model.Reminder, error) {
	raw, err := s.kv.Get(ctx, store.KeyReminders)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading reminders: %w", err)
	}

	var items []model.Reminder
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn("discarding unreadable reminders", zap.Error(err))
		return nil, nil
	}
	return items, nil
}

// Persist writes the whole collection.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, s.snapshotLocked())
}

func (s *Store) write(ctx context.Context, items []model.Reminder) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding reminders: %w", err)
	}
	if err := s.kv.Put(ctx, store.KeyReminders, raw); err != nil {
		return fmt.Errorf("persisting reminders: %w", err)
	}
	return nil
}

// Add creates a reminder from d and puts it at the front of the collection.
func (s *Store) Add(ctx context.Context, d model.Draft) (model.Reminder, error) {
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return model.Reminder{}, ErrEmptyText
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = model.DefaultCategory
	}
	priority := d.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	s.mu.Lock()
	now := s.now()
	r := model.Reminder{
		ID:        s.nextIDLocked(now),
		Text:      text,
		Date:      strings.TrimSpace(d.Date),
		Time:      strings.TrimSpace(d.Time),
		Priority:  priority,
		Category:  category,
		CreatedAt: now.UTC(),
	}
	s.items = append([]model.Reminder{r}, s.items...)
	err := s.commitLocked(ctx)
	s.mu.Unlock()

	s.logger.Debug("reminder added", zap.Int64("id", r.ID))
	if err != nil {
		return r, s.failed(err)
	}
	s.notify("Reminder added successfully!", model.KindSuccess)
	return r, nil
}

// Toggle flips the completion flag. An unknown id is a no-op.
func (s *Store) Toggle(ctx context.Context, id int64) (model.Reminder, bool, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Reminder{}, false, nil
	}
	s.items[i].Completed = !s.items[i].Completed
	r := s.items[i]
	err := s.commitLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return r, true, s.failed(err)
	}
	if r.Completed {
		s.notify("Reminder completed!", model.KindSuccess)
	} else {
		s.notify("Reminder marked as pending", model.KindInfo)
	}
	return r, true, nil
}

// Edit merges p into the reminder. An unknown id is a no-op, even when p
// would blank the text.
func (s *Store) Edit(ctx context.Context, id int64, p model.Patch) (model.Reminder, bool, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Reminder{}, false, nil
	}
	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if text == "" {
			r := s.items[i]
			s.mu.Unlock()
			return r, true, ErrEmptyText
		}
		p.Text = &text
	}
	s.items[i] = p.Apply(s.items[i])
	r := s.items[i]
	err := s.commitLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return r, true, s.failed(err)
	}
	s.notify("Reminder updated!", model.KindInfo)
	return r, true, nil
}

// Remove deletes the reminder. An unknown id is a no-op.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	err := s.commitLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return true, s.failed(err)
	}
	s.notify("Reminder deleted!", model.KindWarning)
	return true, nil
}

// Get returns the reminder with id.
func (s *Store) Get(id int64) (model.Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], true
	}
	return model.Reminder{}, false
}

// Snapshot returns a copy of the collection, newest first.
func (s *Store) Snapshot() []model.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of reminders.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. A slow reader only ever sees the most recent snapshot. Call the
// returned function to unsubscribe.
func (s *Store) Subscribe() (<-chan []model.Reminder, func()) {
	ch := make(chan []model.Reminder, 1)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// commitLocked publishes the current collection and persists it. Writes
// happen under the lock so they reach storage in mutation order. A failed
// write keeps the in-memory change.
func (s *Store) commitLocked(ctx context.Context) error {
	snap := s.snapshotLocked()
	s.publishLocked(snap)
	return s.write(ctx, snap)
}

// failed logs a persistence error and surfaces it to the user.
func (s *Store) failed(err error) error {
	s.logger.Error("saving reminders failed", zap.Error(err))
	s.notify("Could not save reminders", model.KindError)
	return err
}

func (s *Store) publishLocked(snap []model.Reminder) {
	for _, ch := range s.subs {
		// Drop a stale pending snapshot so the newest one fits.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Store) notify(message string, kind model.NotificationKind) {
	if s.notifier != nil {
		s.notifier.Push(message, kind)
	}
}

// nextIDLocked derives an id from the creation time in milliseconds, bumped
// past the last issued id so ids stay strictly increasing.
func (s *Store) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) indexLocked(id int64) int {
	for i, r := range s.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []model.Reminder {
	out := make([]model.Reminder, len(s.items))
	copy(out, s.items)
	return out
}

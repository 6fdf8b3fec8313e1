package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/anayy09/AcademiaFlow/internal/model"
	"github.com/anayy09/AcademiaFlow/internal/storage"
)

// Listener receives session states.
type Listener func(State)

type subscriber struct {
	fn     Listener
	active atomic.Bool
}

// notification is one state delivered to the subscribers registered when
// it was queued.
type notification struct {
	state State
	subs  []*subscriber
}

// Store owns the in-memory session and its durable copy.
//
// Mutations replace the whole state. Notifications are delivered in the
// order mutations were applied, one at a time; a listener that mutates the
// store from inside its callback has its change queued behind the current
// notification instead of interleaving with it.
type Store struct {
	kv     storage.KV
	logger *slog.Logger

	// writeMu is held from the storage write until the matching state is
	// committed, so storage and memory agree on who is signed in.
	writeMu sync.Mutex

	mu          sync.Mutex
	state       State
	subs        []*subscriber
	queue       []notification
	dispatching bool
	initialized bool
}

// New creates a Store in the loading state. kv may be nil when no durable
// storage is available; the session then lives only in memory.
func New(kv storage.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		kv:     kv,
		logger: logger.With("component", "session.store"),
		state:  initialState(),
	}
}

// Get returns the current state.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the current bearer token, or "" when signed out.
// It is read on every call so a login or logout is seen immediately.
func (s *Store) Token() string {
	return s.Get().Token
}

// Subscribe registers fn. fn receives the current state right away and then
// every later state. The returned function stops delivery.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	sub := &subscriber{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.queue = append(s.queue, notification{state: s.state, subs: []*subscriber{sub}})
	s.dispatchLocked()

	return func() {
		sub.active.Store(false)
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				break
			}
		}
	}
}

// Login persists user and token and marks the session authenticated.
// Storage failures are logged and otherwise ignored.
func (s *Store) Login(ctx context.Context, user model.User, token string) {
	s.writeMu.Lock()
	if s.kv != nil {
		s.persist(ctx, storage.KeyToken, token)
		s.persistUser(ctx, user)
	}
	s.commit(replace(authenticatedState(user, token)))
	s.writeMu.Unlock()
	s.flush()
}

// Logout removes the persisted session and resets to signed out.
func (s *Store) Logout(ctx context.Context) {
	s.writeMu.Lock()
	if s.kv != nil {
		for _, key := range []string{storage.KeyToken, storage.KeyUser} {
			if err := s.kv.Remove(ctx, key); err != nil {
				s.logger.Warn("failed to remove persisted session key",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		}
	}
	s.commit(replace(emptyState()))
	s.writeMu.Unlock()
	s.flush()
}

// SetUser replaces the signed-in user, e.g. after a profile update.
// It does nothing when signed out.
func (s *Store) SetUser(ctx context.Context, user model.User) {
	s.writeMu.Lock()
	if !s.Get().IsAuthenticated {
		s.writeMu.Unlock()
		return
	}
	if s.kv != nil {
		s.persistUser(ctx, user)
	}
	s.commit(func(st State) State {
		u := user
		st.User = &u
		return st
	})
	s.writeMu.Unlock()
	s.flush()
}

// Initialize restores the session from durable storage. It must run once at
// startup before any authenticated request. Without durable storage it
// leaves the state untouched.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.logger.Warn("session store initialized more than once")
	}
	s.initialized = true
	s.mu.Unlock()

	if s.kv == nil {
		return
	}

	s.writeMu.Lock()
	s.commit(replace(s.restore(ctx)))
	s.writeMu.Unlock()
	s.flush()
}

// restore builds the state described by durable storage.
func (s *Store) restore(ctx context.Context) State {
	token, hasToken := s.read(ctx, storage.KeyToken)
	rawUser, hasUser := s.read(ctx, storage.KeyUser)
	if !hasToken || !hasUser || token == "" || rawUser == "" {
		return emptyState()
	}

	var user model.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.logger.Error("error parsing stored user data", slog.String("error", err.Error()))
		return emptyState()
	}

	s.logger.Debug("session restored", slog.Uint64("user_id", uint64(user.ID)))
	return authenticatedState(user, token)
}

// SetLoading updates only the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.update(func(st State) State {
		st.IsLoading = loading
		return st
	})
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("failed to read persisted session key",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return "", false
	}
	return v, ok
}

func (s *Store) persist(ctx context.Context, key, value string) {
	if err := s.kv.Set(ctx, key, value); err != nil {
		s.logger.Warn("failed to persist session key",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Store) persistUser(ctx context.Context, user model.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("failed to encode user for storage", slog.String("error", err.Error()))
		return
	}
	s.persist(ctx, storage.KeyUser, string(raw))
}

func replace(st State) func(State) State {
	return func(State) State { return st }
}

// update applies fn to the current state and delivers the result.
func (s *Store) update(fn func(State) State) {
	s.commit(fn)
	s.flush()
}

// commit applies fn to the current state and queues the result without
// delivering it.
func (s *Store) commit(fn func(State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)
	s.queue = append(s.queue, notification{state: s.state, subs: subs})
}

// flush delivers queued notifications.
func (s *Store) flush() {
	s.mu.Lock()
	s.dispatchLocked()
}

// dispatchLocked drains the queue. Called with s.mu held; returns with it
// released. If another call is already draining, the queued notification
// is left for that call to deliver.
func (s *Store) dispatchLocked() {
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true

	for len(s.queue) > 0 {
		n := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		for _, sub := range n.subs {
			if sub.active.Load() {
				sub.fn(n.state)
			}
		}

		s.mu.Lock()
	}

	s.dispatching = false
	s.mu.Unlock()
}

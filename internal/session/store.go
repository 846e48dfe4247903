package session

import (
	"context"
	"sync"
	"time"
)

// defaultTimeout bounds every network call the store makes. A hung request
// must never leave the session loading forever.
const defaultTimeout = 10 * time.Second

// Notifier receives user-facing confirmations and failures (toast-style).
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Info(string)  {}
func (NopNotifier) Error(string) {}

// Store is the single source of truth for the current session. It is the
// sole writer of both the in-memory snapshot and durable storage; consumers
// read via Snapshot or Subscribe and never mutate state directly.
//
// Every mutating call advances a generation counter. A network response is
// applied only while its generation is still current, so a rapid second
// login or a logout discards the stale result instead of racing it.
type Store struct {
	client   *Client
	storage  Storage
	notifier Notifier
	timeout  time.Duration

	mu      sync.Mutex
	snap    Snapshot
	gen     uint64
	subs    map[uint64]func(Snapshot)
	nextSub uint64
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewStore creates a session store. The session starts in PhaseUnknown;
// call Bootstrap once at startup to settle it.
func NewStore(client *Client, storage Storage, opts ...Option) *Store {
	s := &Store{
		client:   client,
		storage:  storage,
		notifier: NopNotifier{},
		timeout:  defaultTimeout,
		snap:     Snapshot{Phase: PhaseUnknown},
		subs:     make(map[uint64]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current session snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to receive every published snapshot. The returned
// cancel func removes the subscription. Callbacks run on the mutating
// goroutine and must not call back into the store.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Bootstrap restores and revalidates a persisted session. With nothing
// persisted it settles empty without any network call. With a persisted
// pair it publishes an optimistic snapshot, then reconciles against
// /auth/me: the server record wins, and any rejection purges both memory
// and storage.
func (s *Store) Bootstrap(ctx context.Context) error {
	token, user, err := s.storage.Load()
	if err != nil {
		_ = s.storage.Clear()
		s.publish(Snapshot{Phase: PhaseRejected})
		return err
	}
	if token == "" || user == nil {
		// A half-written pair is purged; token and user travel together.
		if token != "" || user != nil {
			_ = s.storage.Clear()
		}
		s.publish(Snapshot{Phase: PhaseRejected})
		return nil
	}

	gen := s.publish(Snapshot{User: user, Token: token, Phase: PhaseOptimistic})

	ctx, cancelCtx := context.WithTimeout(ctx, s.timeout)
	defer cancelCtx()
	confirmed, err := s.client.Me(ctx, token)
	if err != nil {
		if s.applyIfCurrent(gen, Snapshot{Phase: PhaseRejected}) {
			_ = s.storage.Clear()
		}
		return err
	}
	if !s.applyIfCurrent(gen, Snapshot{User: confirmed, Token: token, Phase: PhaseConfirmed}) {
		return ErrSuperseded
	}
	// Refresh the persisted copy; the role may have changed server-side.
	return s.storage.Save(token, confirmed)
}

// Login exchanges credentials for a session. On failure the previous
// settled snapshot is restored untouched and the error carries the server
// message when one was provided.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.exchange(ctx, func(ctx context.Context) (string, *User, error) {
		return s.client.Login(ctx, email, password)
	}, "Welcome back")
}

// Register creates an account and logs the user in, same contract as Login.
func (s *Store) Register(ctx context.Context, in RegisterInput) error {
	return s.exchange(ctx, func(ctx context.Context) (string, *User, error) {
		return s.client.Register(ctx, in)
	}, "Account created")
}

func (s *Store) exchange(ctx context.Context, call func(context.Context) (string, *User, error), confirmation string) error {
	gen, prev := s.begin()
	settled := false
	// The loading phase is released on every exit path, including panics.
	defer func() {
		if !settled {
			s.applyIfCurrent(gen, prev)
		}
	}()

	ctx, cancelCtx := context.WithTimeout(ctx, s.timeout)
	defer cancelCtx()
	token, user, err := call(ctx)
	if err != nil {
		s.notifier.Error(err.Error())
		return err
	}
	if !s.applyIfCurrent(gen, Snapshot{User: user, Token: token, Phase: PhaseConfirmed}) {
		// A newer call owns the session; nothing to restore.
		settled = true
		return ErrSuperseded
	}
	settled = true
	if err := s.storage.Save(token, user); err != nil {
		return err
	}
	s.notifier.Info(confirmation + ", " + user.Name)
	return nil
}

// Logout clears memory and durable storage synchronously, then revokes the
// server-side session best effort. Idempotent apart from the confirmation.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	token := s.snap.Token
	s.snap = Snapshot{Phase: PhaseRejected}
	snap, subs := s.snap, s.subscribersLocked()
	s.mu.Unlock()

	_ = s.storage.Clear()
	for _, fn := range subs {
		fn(snap)
	}

	if token != "" {
		ctx, cancelCtx := context.WithTimeout(ctx, s.timeout)
		defer cancelCtx()
		_ = s.client.Logout(ctx, token)
	}
	s.notifier.Info("Logged out")
}

// begin starts a mutating call: bumps the generation, publishes a loading
// snapshot, and returns the state to restore on failure.
func (s *Store) begin() (uint64, Snapshot) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	prev := s.snap
	if !prev.Phase.Settled() {
		// The previous call was just superseded and will never settle;
		// failure falls back to signed-out rather than loading forever.
		prev = Snapshot{Phase: PhaseRejected}
	}
	s.snap = Snapshot{User: prev.User, Token: prev.Token, Phase: PhaseUnknown}
	snap, subs := s.snap, s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return gen, prev
}

// publish unconditionally replaces the snapshot under a fresh generation.
func (s *Store) publish(snap Snapshot) uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.snap = snap
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return gen
}

// applyIfCurrent replaces the snapshot only if gen is still the latest
// mutating call; stale responses are dropped.
func (s *Store) applyIfCurrent(gen uint64, snap Snapshot) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.snap = snap
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

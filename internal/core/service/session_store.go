package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
)

// SessionState tracks the per-process session life cycle.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateRestoring
	StateActive
	StateAnonymous
)

func (s SessionState) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateActive:
		return "active"
	case StateAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// DefaultCacheTTL bounds how long a durable-record read is memoized. The
// cache exists purely to keep dozens of UI interactions per second from each
// hitting persistent storage; it is invalidated synchronously on every write.
const DefaultCacheTTL = 2 * time.Minute

// SessionStore owns the process session: the in-memory identity, the durable
// record behind it, and the memoized reads in between. One instance serves
// one user context (single-user-per-machine assumption).
type SessionStore struct {
	medium   ports.SessionMedium
	users    ports.UserStore
	audit    ports.AuditSink
	log      zerolog.Logger
	cacheTTL time.Duration
	now      func() time.Time

	initOnce sync.Once

	mu       sync.Mutex
	state    SessionState
	identity *domain.Identity
	record   *domain.SessionRecord

	// memoized durable read
	cached     *domain.SessionRecord
	cachedAt   time.Time
	cacheValid bool
}

// NewSessionStore builds a session store. audit may be nil when no trail is
// configured.
func NewSessionStore(medium ports.SessionMedium, users ports.UserStore, cacheTTL time.Duration, audit ports.AuditSink, log zerolog.Logger) *SessionStore {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &SessionStore{
		medium:   medium,
		users:    users,
		audit:    audit,
		log:      log,
		cacheTTL: cacheTTL,
		now:      time.Now,
		state:    StateUninitialized,
	}
}

// Init attempts a restore exactly once per process lifetime. Subsequent calls
// are no-ops regardless of outcome.
func (s *SessionStore) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		s.mu.Lock()
		s.state = StateRestoring
		s.mu.Unlock()

		if !s.Restore(ctx) {
			s.mu.Lock()
			s.state = StateAnonymous
			s.mu.Unlock()
		}
	})
}

// Restore reads the durable record, validates it, and resolves the identity
// behind it. Any failure (missing record, expiry, missing or inactive
// identity) deletes the stale record and leaves the store anonymous. A
// durable medium that cannot be read is treated as holding no record.
func (s *SessionStore) Restore(ctx context.Context) bool {
	record := s.readRecord(ctx)
	if record == nil {
		return false
	}

	if record.Expired(s.now()) {
		s.log.Info().Str("username", record.Username).Msg("session record expired, discarding")
		s.discardRecord(ctx)
		return false
	}

	identity, err := s.users.FindByID(ctx, record.IdentityID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Err(err).Msg("identity lookup failed during restore")
		}
		s.discardRecord(ctx)
		return false
	}
	if !identity.IsActive {
		s.log.Warn().Str("username", identity.Username).Msg("session references inactive account, discarding")
		s.discardRecord(ctx)
		return false
	}

	s.mu.Lock()
	s.state = StateActive
	s.identity = identity
	s.record = record
	s.mu.Unlock()

	s.log.Info().Str("username", identity.Username).Time("expires_at", record.ExpiresAt).Msg("session restored")
	if s.audit != nil {
		_ = s.audit.Record(ctx, domain.AuditEvent{Kind: domain.AuditRestored, Username: identity.Username})
	}
	return true
}

// Login activates a session for the identity and writes a fresh durable
// record expiring domain.SessionTimeout from now. A medium write failure is
// logged and swallowed: persistence is a convenience, not a login gate.
func (s *SessionStore) Login(ctx context.Context, identity *domain.Identity) error {
	record := domain.NewSessionRecord(identity, s.now())

	s.mu.Lock()
	s.state = StateActive
	s.identity = identity
	s.record = record
	s.invalidateCacheLocked()
	s.mu.Unlock()

	if err := s.medium.Write(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("username", identity.Username).Msg("session record write failed")
		return nil
	}

	s.log.Info().Str("username", identity.Username).Time("expires_at", record.ExpiresAt).Msg("session created")
	return nil
}

// Logout clears the in-memory session and deletes the durable record.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	username := ""
	if s.identity != nil {
		username = s.identity.Username
	}
	s.state = StateAnonymous
	s.identity = nil
	s.record = nil
	s.invalidateCacheLocked()
	s.mu.Unlock()

	if err := s.medium.Delete(ctx); err != nil {
		s.log.Warn().Err(err).Msg("session record delete failed")
	}
	s.log.Info().Str("username", username).Msg("session destroyed")
}

// CurrentIdentity returns the cached identity when the session is active.
// It never touches the durable medium.
func (s *SessionStore) CurrentIdentity() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return nil
	}
	return s.identity
}

// CheckTimeout reports whether the active session passed its absolute expiry,
// logging out as a side effect when it has. Callers must react (timeout
// message, redirect to login).
func (s *SessionStore) CheckTimeout(ctx context.Context) bool {
	s.mu.Lock()
	expired := s.state == StateActive && s.record != nil && s.record.Expired(s.now())
	s.mu.Unlock()

	if !expired {
		return false
	}
	s.Logout(ctx)
	return true
}

// State exposes the current life-cycle state for health reporting.
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// readRecord reads the durable record through the memoizing cache. Medium
// errors downgrade to "no record".
func (s *SessionStore) readRecord(ctx context.Context) *domain.SessionRecord {
	s.mu.Lock()
	if s.cacheValid && s.now().Sub(s.cachedAt) < s.cacheTTL {
		record := s.cached
		s.mu.Unlock()
		return record
	}
	s.mu.Unlock()

	record, err := s.medium.Read(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session record read failed, treating as absent")
		record = nil
	}

	s.mu.Lock()
	s.cached = record
	s.cachedAt = s.now()
	s.cacheValid = true
	s.mu.Unlock()
	return record
}

// discardRecord deletes a stale durable record and drops the read cache.
func (s *SessionStore) discardRecord(ctx context.Context) {
	if err := s.medium.Delete(ctx); err != nil {
		s.log.Warn().Err(err).Msg("stale session record delete failed")
	}
	s.mu.Lock()
	s.invalidateCacheLocked()
	s.mu.Unlock()
}

func (s *SessionStore) invalidateCacheLocked() {
	s.cached = nil
	s.cacheValid = false
}

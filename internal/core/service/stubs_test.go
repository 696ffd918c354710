package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// stubUserStore is an in-memory UserStore keyed by username.
type stubUserStore struct {
	mu     sync.Mutex
	users  map[string]*domain.Identity
	nextID int64

	findErr   error
	createErr error

	// createHook runs before Create's own logic, letting tests interleave a
	// concurrent writer.
	createHook func()
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[string]*domain.Identity), nextID: 1}
}

func cloneIdentity(u *domain.Identity) *domain.Identity {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (s *stubUserStore) add(u *domain.Identity) *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID
		s.nextID++
	}
	s.users[u.Username] = cloneIdentity(u)
	return cloneIdentity(u)
}

func (s *stubUserStore) FindByUsername(_ context.Context, username string) (*domain.Identity, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok {
		return cloneIdentity(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserStore) FindByID(_ context.Context, id int64) (*domain.Identity, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return cloneIdentity(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneIdentity(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserStore) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if s.createHook != nil {
		s.createHook()
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.mu.Lock()
	if _, exists := s.users[identity.Username]; exists {
		s.mu.Unlock()
		return nil, domain.ErrUserExists
	}
	for _, u := range s.users {
		if u.Email == identity.Email {
			s.mu.Unlock()
			return nil, domain.ErrUserExists
		}
	}
	s.mu.Unlock()
	return s.add(cloneIdentity(identity)), nil
}

func (s *stubUserStore) Update(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, u := range s.users {
		if u.ID == identity.ID {
			if name != identity.Username {
				delete(s.users, name)
			}
			s.users[identity.Username] = cloneIdentity(identity)
			return cloneIdentity(identity), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserStore) Deactivate(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u.IsActive = false
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (s *stubUserStore) ListActive(_ context.Context) ([]domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Identity
	for _, u := range s.users {
		if u.IsActive {
			out = append(out, *cloneIdentity(u))
		}
	}
	return out, nil
}

func (s *stubUserStore) ListAdmins(_ context.Context) ([]domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Identity
	for _, u := range s.users {
		if u.IsAdmin && u.IsActive {
			out = append(out, *cloneIdentity(u))
		}
	}
	return out, nil
}

// stubHasher uses reversible prefixing so tests can assert without bcrypt cost.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "digest:" + password, nil }
func (stubHasher) Verify(password, digest string) bool  { return digest == "digest:"+password }

// stubMedium is an in-memory SessionMedium with call counters and injectable
// failures.
type stubMedium struct {
	mu     sync.Mutex
	record *domain.SessionRecord

	reads, writes, deletes int
	readErr                error
	writeErr               error
}

func (m *stubMedium) Read(context.Context) (*domain.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.record == nil {
		return nil, nil
	}
	clone := *m.record
	return &clone, nil
}

func (m *stubMedium) Write(_ context.Context, record *domain.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	clone := *record
	m.record = &clone
	return nil
}

func (m *stubMedium) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	m.record = nil
	return nil
}

func (m *stubMedium) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// stubAuditSink records delivered events in order.
type stubAuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *stubAuditSink) Record(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *stubAuditSink) snapshot() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEvent(nil), s.events...)
}

var errStoreDown = errors.New("store unavailable")

package service

import (
	"context"
	"testing"
	"time"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

func newTestSessionStore(medium *stubMedium, store *stubUserStore) *SessionStore {
	return NewSessionStore(medium, store, DefaultCacheTTL, nil, testLogger())
}

func TestSessionStore_LoginThenCurrentIdentity(t *testing.T) {
	store := newStubUserStore()
	alice := seedUser(store, "alice", "secret1", false, true)
	medium := &stubMedium{}
	s := newTestSessionStore(medium, store)
	s.Init(context.Background())

	if err := s.Login(context.Background(), alice); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	got := s.CurrentIdentity()
	if got == nil || got.ID != alice.ID {
		t.Fatalf("expected identity %d, got %+v", alice.ID, got)
	}
	if medium.record == nil {
		t.Fatalf("expected durable record written")
	}
	if want := medium.record.IssuedAt.Add(domain.SessionTimeout); !medium.record.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at not derived from issued_at: %v vs %v", medium.record.ExpiresAt, want)
	}
}

func TestSessionStore_RestartRoundTrip(t *testing.T) {
	store := newStubUserStore()
	alice := seedUser(store, "alice", "secret1", false, true)
	medium := &stubMedium{}

	first := newTestSessionStore(medium, store)
	first.Init(context.Background())
	if err := first.Login(context.Background(), alice); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Simulated process restart: a fresh store over the same medium.
	second := newTestSessionStore(medium, store)
	second.Init(context.Background())

	got := second.CurrentIdentity()
	if got == nil || got.ID != alice.ID {
		t.Fatalf("expected restored identity %d, got %+v", alice.ID, got)
	}
	if second.State() != StateActive {
		t.Fatalf("expected active state, got %s", second.State())
	}
}

func TestSessionStore_InitWithoutRecordIsAnonymous(t *testing.T) {
	s := newTestSessionStore(&stubMedium{}, newStubUserStore())
	s.Init(context.Background())

	if s.State() != StateAnonymous {
		t.Fatalf("expected anonymous, got %s", s.State())
	}
	if s.CurrentIdentity() != nil {
		t.Fatalf("expected nil identity")
	}
}

func TestSessionStore_InitRunsOnce(t *testing.T) {
	store := newStubUserStore()
	seedUser(store, "alice", "secret1", false, true)
	medium := &stubMedium{}
	s := newTestSessionStore(medium, store)

	s.Init(context.Background())
	reads := medium.readCount()
	s.Init(context.Background())
	s.Init(context.Background())

	if medium.readCount() != reads {
		t.Fatalf("Init re-entered: %d reads after, %d before", medium.readCount(), reads)
	}
}

func TestSessionStore_RestoreExpiryBoundary(t *testing.T) {
	store := newStubUserStore()
	alice := seedUser(store, "alice", "secret1", false, true)
	now := time.Now()

	cases := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"expired one second ago", now.Add(-time.Second), false},
		{"expires in one second", now.Add(time.Second), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			medium := &stubMedium{record: &domain.SessionRecord{
				IdentityID: alice.ID,
				Username:   alice.Username,
				IssuedAt:   tc.expiresAt.Add(-domain.SessionTimeout),
				ExpiresAt:  tc.expiresAt,
			}}
			s := newTestSessionStore(medium, store)

			if got := s.Restore(context.Background()); got != tc.want {
				t.Fatalf("Restore = %v, want %v", got, tc.want)
			}
			if !tc.want && medium.record != nil {
				t.Fatalf("stale record not deleted")
			}
		})
	}
}

func TestSessionStore_RestoreRecordsAuditEvent(t *testing.T) {
	store := newStubUserStore()
	alice := seedUser(store, "alice", "secret1", false, true)
	medium := &stubMedium{record: domain.NewSessionRecord(alice, time.Now())}
	sink := &stubAuditSink{}
	s := NewSessionStore(medium, store, DefaultCacheTTL, sink, testLogger())

	if !s.Restore(context.Background()) {
		t.Fatalf("restore failed")
	}

	events := sink.snapshot()
	if len(events) != 1 || events[0].Kind != domain.AuditRestored || events[0].Username != "alice" {
		t.Fatalf("expected restored audit event for alice, got %+v", events)
	}

	// A failed restore leaves no trail entry.
	sink2 := &stubAuditSink{}
	s2 := NewSessionStore(&stubMedium{}, store, DefaultCacheTTL, sink2, testLogger())
	if s2.Restore(context.Background()) {
		t.Fatalf("restore without record succeeded")
	}
	if len(sink2.snapshot()) != 0 {
		t.Fatalf("failed restore must not record an event: %+v", sink2.snapshot())
	}
}

func TestSessionStore_RestoreInactiveIdentity(t *testing.T) {
	store := newStubUserStore()
	bob := seedUser(store, "bob", "secret1", false, false)
	medium := &stubMedium{record: domain.NewSessionRecord(bob, time.Now())}
	s := newTestSessionStore(medium, store)

	if s.Restore(context.Background()) {
		t.Fatalf("restore succeeded for inactive identity")
	}
	if medium.record != nil {
		t.Fatalf("record for inactive identity not deleted")
	}
}

func TestSessionStore_RestoreMissingIdentity(t *testing.T) {
	medium := &stubMedium{record: &domain.SessionRecord{
		IdentityID: 42,
		Username:   "ghost",
		IssuedAt:   time.Now(),
		ExpiresAt:  time.Now().Add(domain.SessionTimeout),
	}}
	s := newTestSessionStore(medium, newStubUserStore())

	if s.Restore(context.Background()) {
		t.Fatalf("restore succeeded for missing identity")
	}
	if medium.record != nil {
		t.Fatalf("orphan record not deleted")
	}
}

func TestSessionStore_RestoreMediumFailureIsAnonymous(t *testing.T) {
	medium := &stubMedium{readErr: errStoreDown}
	s := newTestSessionStore(medium, newStubUserStore())
	s.Init(context.Background())

	if s.State() != StateAnonymous {
		t.Fatalf("medium failure must degrade to anonymous, got %s", s.State())
	}
}

func TestSessionStore_ReadsAreMemoized(t *testing.T) {
	medium := &stubMedium{}
	s := newTestSessionStore(medium, newStubUserStore())

	for i := 0; i < 20; i++ {
		s.Restore(context.Background())
	}
	if medium.readCount() != 1 {
		t.Fatalf("expected 1 medium read within cache TTL, got %d", medium.readCount())
	}
}

func TestSessionStore_CacheExpiresAfterTTL(t *testing.T) {
	medium := &stubMedium{}
	s := NewSessionStore(medium, newStubUserStore(), time.Minute, nil, testLogger())

	current := time.Now()
	s.now = func() time.Time { return current }

	s.Restore(context.Background())
	current = current.Add(2 * time.Minute)
	s.Restore(context.Background())

	if medium.readCount() != 2 {
		t.Fatalf("expected fresh read after TTL, got %d reads", medium.readCount())
	}
}

func TestSessionStore_LoginInvalidatesReadCache(t *testing.T) {
	store := newStubUserStore()
	alice := seedUser(store, "alice", "secret1", false, true)
	medium := &stubMedium{}
	s := newTestSessionStore(medium, store)

	// Prime the read cache with "no record".
	s.Restore(context.Background())
	if err := s.Login(context.Background(), alice); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// The write must bust the memoized read: a restore right after login has
	// to observe the new record, not the cached absence.
	if !s.Restore(context.Background()) {
		t.Fatalf("restore served stale cached read after login")
	}
}

func TestSessionStore_Logout(t *testing.T) {
	store := newStubUserStore()
	alice := seedUser(store, "alice", "secret1", false, true)
	medium := &stubMedium{}
	s := newTestSessionStore(medium, store)
	s.Init(context.Background())

	_ = s.Login(context.Background(), alice)
	s.Logout(context.Background())

	if s.CurrentIdentity() != nil {
		t.Fatalf("identity still present after logout")
	}
	if s.State() != StateAnonymous {
		t.Fatalf("expected anonymous after logout, got %s", s.State())
	}
	if medium.record != nil {
		t.Fatalf("durable record not deleted on logout")
	}
}

func TestSessionStore_LoginSurvivesMediumWriteFailure(t *testing.T) {
	store := newStubUserStore()
	alice := seedUser(store, "alice", "secret1", false, true)
	medium := &stubMedium{writeErr: errStoreDown}
	s := newTestSessionStore(medium, store)

	if err := s.Login(context.Background(), alice); err != nil {
		t.Fatalf("login must not fail on medium write error: %v", err)
	}
	if got := s.CurrentIdentity(); got == nil || got.ID != alice.ID {
		t.Fatalf("in-memory session not established despite write failure")
	}
}

func TestSessionStore_CheckTimeout(t *testing.T) {
	store := newStubUserStore()
	alice := seedUser(store, "alice", "secret1", false, true)
	medium := &stubMedium{}
	s := newTestSessionStore(medium, store)

	current := time.Now()
	s.now = func() time.Time { return current }

	_ = s.Login(context.Background(), alice)
	if s.CheckTimeout(context.Background()) {
		t.Fatalf("fresh session reported as timed out")
	}

	current = current.Add(9 * time.Hour)
	if !s.CheckTimeout(context.Background()) {
		t.Fatalf("expired session not reported")
	}
	if s.CurrentIdentity() != nil {
		t.Fatalf("identity still present after timeout logout")
	}
	if medium.record != nil {
		t.Fatalf("durable record not deleted after timeout")
	}
}

func TestSessionStore_CheckTimeoutAnonymous(t *testing.T) {
	s := newTestSessionStore(&stubMedium{}, newStubUserStore())
	if s.CheckTimeout(context.Background()) {
		t.Fatalf("anonymous store reported timeout")
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

type guardFixture struct {
	guard    *Guard
	sessions *SessionStore
	store    *stubUserStore
	medium   *stubMedium
	clock    *time.Time
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	store := newStubUserStore()
	medium := &stubMedium{}
	sessions := newTestSessionStore(medium, store)

	now := time.Now()
	sessions.now = func() time.Time { return now }
	sessions.Init(context.Background())

	return &guardFixture{
		guard:    NewGuard(sessions, newTestRegistry(), nil, testLogger()),
		sessions: sessions,
		store:    store,
		medium:   medium,
		clock:    &now,
	}
}

func TestGuard_LoginHappyPath(t *testing.T) {
	f := newGuardFixture(t)
	store := f.store
	alice := seedUser(store, "alice", "secret1", false, true)

	auth := NewAuthService(store, stubHasher{}, testLogger())
	identity, err := auth.Authenticate(context.Background(), "alice", "secret1")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if err := f.sessions.Login(context.Background(), identity); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	got, err := f.guard.Enforce(context.Background(), "dashboard")
	if err != nil {
		t.Fatalf("enforce denied: %v", err)
	}
	if got.ID != alice.ID {
		t.Fatalf("expected identity %d, got %d", alice.ID, got.ID)
	}
}

func TestGuard_BypassAttemptWithoutSession(t *testing.T) {
	f := newGuardFixture(t)

	identity, err := f.guard.Enforce(context.Background(), "admin_users")
	if err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if identity != nil {
		t.Fatalf("denied enforce must not return an identity")
	}
}

func TestGuard_PrivilegeEscalationAttempt(t *testing.T) {
	f := newGuardFixture(t)
	bob := seedUser(f.store, "bob", "secret1", false, true)
	_ = f.sessions.Login(context.Background(), bob)

	if _, err := f.guard.Enforce(context.Background(), "admin_users"); err != domain.ErrInsufficientRole {
		t.Fatalf("expected ErrInsufficientRole, got %v", err)
	}
}

func TestGuard_SessionTimeout(t *testing.T) {
	f := newGuardFixture(t)
	alice := seedUser(f.store, "alice", "secret1", false, true)
	_ = f.sessions.Login(context.Background(), alice)

	*f.clock = f.clock.Add(9 * time.Hour)

	if _, err := f.guard.Enforce(context.Background(), "dashboard"); err != domain.ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if f.sessions.CurrentIdentity() != nil {
		t.Fatalf("timeout must log the session out")
	}
}

func TestGuard_PublicResourceAnonymous(t *testing.T) {
	f := newGuardFixture(t)

	identity, err := f.guard.Enforce(context.Background(), "login")
	if err != nil {
		t.Fatalf("public resource denied: %v", err)
	}
	if identity != nil {
		t.Fatalf("anonymous access should carry nil identity")
	}
}

func TestGuard_UnknownResource(t *testing.T) {
	f := newGuardFixture(t)

	if _, err := f.guard.Enforce(context.Background(), "no-such-page"); err != domain.ErrUnknownResource {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestGuard_CanAccessMirrorsPolicy(t *testing.T) {
	f := newGuardFixture(t)
	admin := activeUser(true)
	member := activeUser(false)

	cases := []struct {
		identity *domain.Identity
		resource string
		want     bool
	}{
		{nil, "login", true},
		{nil, "dashboard", false},
		{member, "dashboard", true},
		{member, "admin_users", false},
		{admin, "admin_users", true},
		{admin, "no-such-page", false},
	}
	for _, tc := range cases {
		if got := f.guard.CanAccess(tc.identity, tc.resource); got != tc.want {
			t.Fatalf("CanAccess(%v, %q) = %v, want %v", tc.identity, tc.resource, got, tc.want)
		}
	}
}

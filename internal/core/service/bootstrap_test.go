package service

import (
	"context"
	"testing"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

func TestBootstrap_CreatesDefaultAdmin(t *testing.T) {
	store := newStubUserStore()
	b := NewBootstrap(store, stubHasher{}, testLogger())

	admin, err := b.EnsureAdminExists(context.Background())
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if admin.Username != DefaultAdminUsername || !admin.IsAdmin || !admin.IsActive {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	if admin.PasswordDigest == DefaultAdminPassword {
		t.Fatalf("default password stored unhashed")
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	store := newStubUserStore()

	first, err := NewBootstrap(store, stubHasher{}, testLogger()).EnsureAdminExists(context.Background())
	if err != nil {
		t.Fatalf("first bootstrap failed: %v", err)
	}
	second, err := NewBootstrap(store, stubHasher{}, testLogger()).EnsureAdminExists(context.Background())
	if err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("bootstrap created duplicate admins: %d vs %d", first.ID, second.ID)
	}
	admins, _ := store.ListAdmins(context.Background())
	if len(admins) != 1 {
		t.Fatalf("expected exactly one admin, got %d", len(admins))
	}
}

func TestBootstrap_OncePerProcess(t *testing.T) {
	store := newStubUserStore()
	b := NewBootstrap(store, stubHasher{}, testLogger())

	first, _ := b.EnsureAdminExists(context.Background())
	second, _ := b.EnsureAdminExists(context.Background())
	if first != second {
		t.Fatalf("expected cached result on repeat call")
	}
}

func TestBootstrap_KeepsExistingAdmins(t *testing.T) {
	store := newStubUserStore()
	boss := seedUser(store, "boss", "topsecret", true, true)
	b := NewBootstrap(store, stubHasher{}, testLogger())

	admin, err := b.EnsureAdminExists(context.Background())
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if admin.ID != boss.ID {
		t.Fatalf("expected existing admin %d, got %d", boss.ID, admin.ID)
	}
	if _, err := store.FindByUsername(context.Background(), DefaultAdminUsername); err != domain.ErrUserNotFound {
		t.Fatalf("default admin created despite existing admin")
	}
}

func TestBootstrap_RaceLoserRequeries(t *testing.T) {
	store := newStubUserStore()
	b := NewBootstrap(store, stubHasher{}, testLogger())

	// Another process inserts the admin between our existence check and our
	// insert; the uniqueness violation must trigger a re-query, not an error.
	var winner *domain.Identity
	store.createHook = func() {
		winner = seedUser(store, DefaultAdminUsername, "somepass", true, true)
		store.createErr = domain.ErrUserExists
	}

	admin, err := b.EnsureAdminExists(context.Background())
	if err != nil {
		t.Fatalf("bootstrap failed after losing race: %v", err)
	}
	if admin.ID != winner.ID {
		t.Fatalf("expected winner's admin %d, got %d", winner.ID, admin.ID)
	}
}

func TestBootstrap_StoreFailureIsFatal(t *testing.T) {
	store := newStubUserStore()
	store.findErr = errStoreDown
	b := NewBootstrap(store, stubHasher{}, testLogger())

	if _, err := b.EnsureAdminExists(context.Background()); err == nil {
		t.Fatalf("expected error when the store is unreachable")
	}
}

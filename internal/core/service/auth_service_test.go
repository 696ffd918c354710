package service

import (
	"context"
	"testing"
	"time"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

func seedUser(store *stubUserStore, username, password string, admin, active bool) *domain.Identity {
	now := time.Now().UTC()
	return store.add(&domain.Identity{
		DisplayName:    username,
		Email:          username + "@example.com",
		Username:       username,
		PasswordDigest: "digest:" + password,
		IsAdmin:        admin,
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	store := newStubUserStore()
	seeded := seedUser(store, "alice", "secret1", false, true)
	svc := NewAuthService(store, stubHasher{}, testLogger())

	identity, err := svc.Authenticate(context.Background(), "alice", "secret1")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if identity.ID != seeded.ID {
		t.Fatalf("expected identity %d, got %d", seeded.ID, identity.ID)
	}
}

func TestAuthService_Authenticate_WrongPassword(t *testing.T) {
	store := newStubUserStore()
	seedUser(store, "alice", "secret1", false, true)
	svc := NewAuthService(store, stubHasher{}, testLogger())

	if _, err := svc.Authenticate(context.Background(), "alice", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubUserStore(), stubHasher{}, testLogger())

	// Indistinguishable from a wrong password.
	if _, err := svc.Authenticate(context.Background(), "ghost", "whatever"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_InactiveAccount(t *testing.T) {
	store := newStubUserStore()
	seedUser(store, "carol", "secret1", false, false)
	svc := NewAuthService(store, stubHasher{}, testLogger())

	if _, err := svc.Authenticate(context.Background(), "carol", "secret1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for inactive account, got %v", err)
	}
}

func TestAuthService_Authenticate_EmptyInput(t *testing.T) {
	svc := NewAuthService(newStubUserStore(), stubHasher{}, testLogger())

	if _, err := svc.Authenticate(context.Background(), "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "alice", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_StoreFailure(t *testing.T) {
	store := newStubUserStore()
	store.findErr = errStoreDown
	svc := NewAuthService(store, stubHasher{}, testLogger())

	// Infrastructure failures must not leak; the caller sees a login failure.
	if _, err := svc.Authenticate(context.Background(), "alice", "secret1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

type captureSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *captureSink) Record(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) snapshot() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEvent(nil), s.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	sink := &captureSink{}
	d := NewDispatcher(2, sink, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	_ = d.Record(ctx, domain.AuditEvent{Kind: domain.AuditLogin, Username: "alice"})
	_ = d.Record(ctx, domain.AuditEvent{Kind: domain.AuditLogout, Username: "alice"})

	waitFor(t, func() bool { return len(sink.snapshot()) == 2 })

	events := sink.snapshot()
	if events[0].Kind != domain.AuditLogin || events[1].Kind != domain.AuditLogout {
		t.Fatalf("per-user ordering lost: %+v", events)
	}
	if events[0].At.IsZero() {
		t.Fatalf("dispatcher did not stamp event time")
	}
}

func TestDispatcher_SameUserSameWorker(t *testing.T) {
	d := NewDispatcher(8, &captureSink{}, zerolog.Nop())

	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice") != first {
			t.Fatalf("shard index not stable for same username")
		}
	}
}

func TestDispatcher_FullQueueDoesNotBlock(t *testing.T) {
	// Workers never started: channels fill up and Record must still return.
	d := NewDispatcher(1, &captureSink{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			_ = d.Record(context.Background(), domain.AuditEvent{Username: "alice"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on full queue")
	}
}

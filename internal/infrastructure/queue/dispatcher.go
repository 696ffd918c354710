package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans audit events out to a fixed set of workers using consistent
// hashing on the username, guaranteeing per-user event ordering. It
// implements ports.AuditSink itself, so services enqueue without knowing the
// delivery is asynchronous.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	sink    ports.AuditSink
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers
// delivering to sink. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.AuditSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event for asynchronous delivery. A full worker channel
// drops the event rather than blocking the auth path.
func (d *Dispatcher) Record(_ context.Context, event domain.AuditEvent) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	select {
	case d.workers[d.shardIndex(event.Username)] <- event:
	default:
		d.log.Warn().Str("username", event.Username).Str("kind", string(event.Kind)).Msg("audit queue full, event dropped")
	}
	return nil
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Record(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("username", event.Username).
					Int("worker_id", id).
					Msg("audit delivery failed")
			}
		}
	}
}

// LogSink writes audit events to the structured log. It is the default
// delivery target when no external sink is configured.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(_ context.Context, event domain.AuditEvent) error {
	s.log.Info().
		Str("kind", string(event.Kind)).
		Str("username", event.Username).
		Str("resource", event.Resource).
		Str("reason", event.Reason).
		Time("at", event.At).
		Msg("audit event")
	return nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mim3/sales-dashboard/internal/core/domain"
	"github.com/mim3/sales-dashboard/internal/infrastructure/session"
)

const sessionKey = "session:record"

// SessionMedium stores the durable session record in Redis so multiple server
// workers behind a load balancer observe the same login. The key carries a
// TTL equal to the remaining session lifetime, so Redis reaps expired records
// on its own; the session store still treats expiry as its own decision.
type SessionMedium struct {
	client *redis.Client
	codec  *session.Codec
	log    zerolog.Logger
}

func NewSessionMedium(client *redis.Client, codec *session.Codec, log zerolog.Logger) *SessionMedium {
	return &SessionMedium{client: client, codec: codec, log: log}
}

func (m *SessionMedium) Read(ctx context.Context) (*domain.SessionRecord, error) {
	token, err := m.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session key: %w", err)
	}

	record, err := m.codec.Decode(token)
	if err != nil {
		m.log.Warn().Err(err).Msg("session key failed verification, ignoring")
		return nil, nil
	}
	return record, nil
}

func (m *SessionMedium) Write(ctx context.Context, record *domain.SessionRecord) error {
	token, err := m.codec.Encode(record)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}

	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := m.client.Set(ctx, sessionKey, token, ttl).Err(); err != nil {
		return fmt.Errorf("write session key: %w", err)
	}
	return nil
}

func (m *SessionMedium) Delete(ctx context.Context) error {
	if err := m.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("delete session key: %w", err)
	}
	return nil
}

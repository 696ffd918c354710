// Package session provides durable media for the single per-process session
// record: a local JSON file and a Redis-backed variant for multi-worker
// deployments. Records are signed before they hit storage so a tampered or
// truncated record reads back as "no session", never as an error.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

type recordClaims struct {
	IdentityID     int64 `json:"identity_id"`
	LastActivityAt int64 `json:"last_activity_at,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session records as HS256 tokens.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode serializes a record into a signed token.
func (c *Codec) Encode(record *domain.SessionRecord) (string, error) {
	claims := recordClaims{
		IdentityID:     record.IdentityID,
		LastActivityAt: record.LastActivityAt.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   record.Username,
			IssuedAt:  jwt.NewNumericDate(record.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(record.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies a token and reconstructs the record. Claim validation is
// disabled: expiry is the session store's decision, so it can delete the
// stale record rather than merely failing to read it.
func (c *Codec) Decode(token string) (*domain.SessionRecord, error) {
	claims := &recordClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	record := &domain.SessionRecord{
		IdentityID: claims.IdentityID,
		Username:   claims.Subject,
	}
	if claims.IssuedAt != nil {
		record.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		record.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.LastActivityAt != 0 {
		record.LastActivityAt = time.Unix(claims.LastActivityAt, 0).UTC()
	}
	return record, nil
}

package domain

import "time"

// SessionTimeout is the fixed lifetime of a login session. Expiry is absolute:
// a session lasts exactly this long from login regardless of activity.
const SessionTimeout = 8 * time.Hour

// SessionRecord is the durable evidence that an identity logged in. At most
// one record exists per process/device. The username is denormalized so a
// restore can log who it is resurrecting before the identity lookup completes.
type SessionRecord struct {
	IdentityID     int64     `json:"identity_id"`
	Username       string    `json:"username"`
	IssuedAt       time.Time `json:"issued_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastActivityAt time.Time `json:"last_activity_at,omitempty"`
}

// NewSessionRecord issues a record for the given identity. ExpiresAt is always
// derived from IssuedAt, never set independently.
func NewSessionRecord(identity *Identity, now time.Time) *SessionRecord {
	return &SessionRecord{
		IdentityID:     identity.ID,
		Username:       identity.Username,
		IssuedAt:       now,
		ExpiresAt:      now.Add(SessionTimeout),
		LastActivityAt: now,
	}
}

// Expired reports whether the record's absolute expiry has passed.
func (r *SessionRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

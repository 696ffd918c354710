package domain

import "time"

// AuditKind labels an authentication lifecycle event.
type AuditKind string

const (
	AuditLogin     AuditKind = "login"
	AuditLogout    AuditKind = "logout"
	AuditDenied    AuditKind = "denied"
	AuditRestored  AuditKind = "restored"
	AuditBootstrap AuditKind = "bootstrap"
)

// AuditEvent is one entry in the authentication audit trail. Events for the
// same username are delivered in order; ordering across users is not defined.
type AuditEvent struct {
	Kind     AuditKind `json:"kind"`
	Username string    `json:"username"`
	Resource string    `json:"resource,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

package domain

import "errors"

// AccessLevel is the required privilege for a resource. It is a closed set:
// policy evaluation switches over it exhaustively, so an unhandled level is a
// bug caught in review, not a silent allow.
type AccessLevel int

const (
	// LevelPublic resources are reachable without a session.
	LevelPublic AccessLevel = iota
	// LevelAuthenticated resources require any active identity.
	LevelAuthenticated
	// LevelAdmin resources require an active identity with IsAdmin set.
	LevelAdmin
)

// String renders the level for logs and policy listings.
func (l AccessLevel) String() string {
	switch l {
	case LevelPublic:
		return "public"
	case LevelAuthenticated:
		return "authenticated"
	case LevelAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// DenialReason classifies why access to a resource was refused. Each reason
// maps to a distinct user-facing message and redirect target.
type DenialReason int

const (
	DenyNone DenialReason = iota
	DenyNotAuthenticated
	DenySessionExpired
	DenyAccountInactive
	DenyInsufficientRole
	DenyUnknownResource
)

func (r DenialReason) String() string {
	switch r {
	case DenyNotAuthenticated:
		return "not_authenticated"
	case DenySessionExpired:
		return "session_expired"
	case DenyAccountInactive:
		return "account_inactive"
	case DenyInsufficientRole:
		return "insufficient_role"
	case DenyUnknownResource:
		return "unknown_resource"
	default:
		return "none"
	}
}

// Err converts a denial reason to its sentinel error.
func (r DenialReason) Err() error {
	switch r {
	case DenyNotAuthenticated:
		return ErrNotAuthenticated
	case DenySessionExpired:
		return ErrSessionExpired
	case DenyAccountInactive:
		return ErrAccountInactive
	case DenyInsufficientRole:
		return ErrInsufficientRole
	case DenyUnknownResource:
		return ErrUnknownResource
	default:
		return nil
	}
}

var ErrNotAuthenticated = errors.New("authentication required")
var ErrSessionExpired = errors.New("session expired")
var ErrAccountInactive = errors.New("account is inactive")
var ErrInsufficientRole = errors.New("admin access required")
var ErrUnknownResource = errors.New("unknown resource")

// Decision is the outcome of a policy check. Identity is non-nil on Allow for
// non-public resources; it may be nil only when the resource is public.
type Decision struct {
	Allowed  bool
	Reason   DenialReason
	Identity *Identity
}

// Allow builds an allowing decision carrying the evaluated identity.
func Allow(identity *Identity) Decision {
	return Decision{Allowed: true, Identity: identity}
}

// Deny builds a denying decision with the given reason.
func Deny(reason DenialReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

package audit

import "time"

// Event is an immutable, append-only record of an authentication outcome.
//
// Invariants:
// - Events are never updated or deleted.
// - Passwords and tokens are never recorded.
// - Actor and IP capture are best-effort; do not block logins on audit failures.
//
// Storage (Postgres): table auth_audit_events with an INSERT-only policy.
type Event struct {
	ID   string    `json:"id" db:"id"`
	Type EventType `json:"type" db:"type"`

	// Tier is "user" or "admin": which endpoint family produced the event.
	Tier string `json:"tier" db:"tier"`

	// Username is the login name as submitted; it may not exist.
	Username    string `json:"username,omitempty" db:"username"`
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Message is a short description for internal ops. Never shown to clients.
	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventLoginSucceeded  EventType = "login_succeeded"
	EventLoginFailed     EventType = "login_failed"
	EventLoginThrottled  EventType = "login_throttled"
	EventTokenRefreshed  EventType = "token_refreshed"
	EventRefreshRejected EventType = "refresh_rejected"
	EventUserRegistered  EventType = "user_registered"
)

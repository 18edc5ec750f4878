package domain

import "time"

// RequestEventType names a lifecycle transition recorded in the audit trail.
type RequestEventType string

const (
	EventSubmitted RequestEventType = "submitted"
	EventAnswered  RequestEventType = "answered"
)

// RequestEvent is an audit entry for a request transition.
type RequestEvent struct {
	RequestID  string
	Type       RequestEventType
	ActorID    string
	Status     RequestStatus
	OccurredAt time.Time
}

// IdentityEventType names a change in a caller's authentication state.
type IdentityEventType string

const (
	IdentitySignedUp         IdentityEventType = "signed_up"
	IdentitySignedIn         IdentityEventType = "signed_in"
	IdentitySignedOut        IdentityEventType = "signed_out"
	IdentityPasswordRecovery IdentityEventType = "password_recovery"
	IdentityPasswordUpdated  IdentityEventType = "password_updated"
)

// IdentityEvent is published to subscribers of the identity provider.
type IdentityEvent struct {
	Type       IdentityEventType
	UserID     string
	Email      string
	OccurredAt time.Time
}

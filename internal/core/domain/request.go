package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus represents the lifecycle state of a customer request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAnswered RequestStatus = "answered"
)

// validTransitions defines the allowed state machine transitions.
// StatusAnswered is terminal.
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusPending: {StatusAnswered},
}

var ErrRequestNotFound = errors.New("request not found")
var ErrAlreadyAnswered = errors.New("request already answered")
var ErrInconsistentAnswer = errors.New("answer fields do not match request status")
var ErrDuplicateIdempotencyKey = errors.New("idempotency key already used by this owner")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusAnswered
}

// Answer is the admin-authored quote that closes a request. Its fields are
// always written together.
type Answer struct {
	Response     string
	MonthlyValue decimal.Decimal
	AnsweredAt   time.Time
	AnsweredBy   string
}

// Request is the core aggregate root.
type Request struct {
	ID             string
	OwnerID        string
	Description    string
	Status         RequestStatus
	CreatedAt      time.Time
	Answer         *Answer
	IdempotencyKey string
}

// OwnerProfile is the subset of the owner's identity shown to admins.
type OwnerProfile struct {
	Name  string
	Email string
	CPF   string
}

// RequestWithOwner is a request joined with its owner's profile.
type RequestWithOwner struct {
	Request
	Owner OwnerProfile
}

// NewRequest builds a pending request owned by ownerID.
func NewRequest(id, ownerID, description, idempotencyKey string, now time.Time) *Request {
	return &Request{
		ID:             id,
		OwnerID:        ownerID,
		Description:    description,
		Status:         StatusPending,
		CreatedAt:      now.UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

// IsAnswered reports whether the request has reached its terminal state.
func (r *Request) IsAnswered() bool {
	return r.Status == StatusAnswered
}

// Validate checks that the answer fields are present if and only if the
// request is answered.
func (r *Request) Validate() error {
	if !r.Status.Valid() {
		return ErrInconsistentAnswer
	}
	if (r.Status == StatusAnswered) != (r.Answer != nil) {
		return ErrInconsistentAnswer
	}
	if r.Answer != nil && (r.Answer.AnsweredAt.IsZero() || r.Answer.MonthlyValue.IsNegative()) {
		return ErrInconsistentAnswer
	}
	return nil
}

// ApplyAnswer moves a pending request to answered. It is the in-memory
// counterpart of the store's conditional update.
func (r *Request) ApplyAnswer(a Answer) error {
	if !r.Status.CanTransitionTo(StatusAnswered) {
		return ErrAlreadyAnswered
	}
	a.AnsweredAt = a.AnsweredAt.UTC()
	r.Answer = &a
	r.Status = StatusAnswered
	return nil
}

package ports

import (
	"context"

	"github.com/portalcliente/portal-api/internal/core/domain"
)

// SubmitInput carries the data needed to open a new request.
type SubmitInput struct {
	Description    string
	IdempotencyKey string
}

// SubmitResult is returned by Submit.
type SubmitResult struct {
	Request *domain.Request
	// AlreadyExisted is true when the Idempotency-Key matched an earlier request.
	AlreadyExisted bool
}

// AnswerInput carries an admin's quote for a pending request.
type AnswerInput struct {
	RequestID string
	Response  string
	// MonthlyValue is the raw user-typed amount, e.g. "79,00".
	MonthlyValue string
}

// RequestService is the request lifecycle engine. Every failure it returns is
// a *domain.Error.
type RequestService interface {
	Submit(ctx context.Context, session *domain.Session, in SubmitInput) (*SubmitResult, error)
	ListOwn(ctx context.Context, session *domain.Session) ([]*domain.Request, error)
	ListAll(ctx context.Context, session *domain.Session) ([]*domain.RequestWithOwner, error)
	Answer(ctx context.Context, session *domain.Session, in AnswerInput) (*domain.Request, error)
	Get(ctx context.Context, session *domain.Session, id string) (*domain.Request, error)
}

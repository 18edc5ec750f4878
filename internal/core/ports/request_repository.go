package ports

import (
	"context"

	"github.com/portalcliente/portal-api/internal/core/domain"
)

// RequestRepository defines persistence operations for customer requests.
// List methods return requests newest first, ties broken by id descending.
type RequestRepository interface {
	Insert(ctx context.Context, r *domain.Request) error
	FindByID(ctx context.Context, id string) (*domain.Request, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Request, error)
	FindByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.Request, error)
	FindAllWithOwners(ctx context.Context) ([]*domain.RequestWithOwner, error)

	// MarkAnswered sets the answer fields and moves the request to answered,
	// only if it is still pending. It returns domain.ErrRequestNotFound when no
	// request has the id and domain.ErrAlreadyAnswered when it was answered
	// before this call.
	MarkAnswered(ctx context.Context, id string, answer domain.Answer) (*domain.Request, error)
}

// AuditRepository appends lifecycle transitions to the audit trail.
type AuditRepository interface {
	Append(ctx context.Context, event *domain.RequestEvent) error
}

package ports

import (
	"context"
	"time"

	"github.com/portalcliente/portal-api/internal/core/domain"
)

// UserRepository defines the interface for identity persistence.
type UserRepository interface {
	// Create stores a new user. Returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error
	UpdateRole(ctx context.Context, id, role string, at time.Time) error
}

// SessionStore keeps short-lived authentication state: revoked token ids and
// password reset tokens.
type SessionStore interface {
	// Revoke marks a token id as unusable until the given expiry.
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// SaveResetToken stores the hash of a reset token for userID.
	SaveResetToken(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	// ConsumeResetToken returns the owner of tokenHash and deletes it. A missing
	// or expired token yields domain.ErrInvalidResetToken.
	ConsumeResetToken(ctx context.Context, tokenHash string) (string, error)
}

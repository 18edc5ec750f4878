package ports

import (
	"context"
	"time"

	"github.com/portalcliente/portal-api/internal/core/domain"
)

type RegisterInput struct {
	Email    string
	Password string
	Profile  domain.Profile
}

// AuthResult is returned after a successful sign-in.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService is the identity provider.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	CurrentIdentity(ctx context.Context, session *domain.Session) (*domain.User, error)
	Deauthenticate(ctx context.Context, session *domain.Session) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	AssignRole(ctx context.Context, email, role string) (*domain.User, error)
	// Subscribe registers fn for identity changes and returns a function that
	// removes the subscription.
	Subscribe(fn func(domain.IdentityEvent)) func()
}

package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
	"github.com/portalcliente/portal-api/internal/pkg/validation"
)

const (
	defaultTokenTTL = 24 * time.Hour
	defaultResetTTL = time.Hour
	resetTokenBytes = 32
)

// AuthConfig holds the token settings of the identity provider.
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
}

// AuthService implements registration, sign-in, sign-out and password
// recovery. Tokens are HS256 JWTs carrying sub, email, role and jti claims.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	queue    ports.NotificationQueue
	log      zerolog.Logger

	jwtSecret string
	tokenTTL  time.Duration
	resetTTL  time.Duration
	now       func() time.Time

	mu      sync.RWMutex
	subs    map[int]func(domain.IdentityEvent)
	nextSub int
}

// NewAuthService builds the identity provider. queue may be nil.
func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, queue ports.NotificationQueue, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = defaultResetTTL
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		queue:     queue,
		log:       log,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.TokenTTL,
		resetTTL:  cfg.ResetTokenTTL,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		subs:      make(map[int]func(domain.IdentityEvent)),
	}
}

var _ ports.AuthService = (*AuthService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPassword(password string) *domain.Error {
	switch {
	case len(password) < minPasswordLength:
		return domain.InvalidInput(msgPasswordTooShort)
	case len(password) > maxPasswordBytes:
		return domain.InvalidInput(msgPasswordTooLong)
	}
	return nil
}

// Register creates a user with the default role. CPF is stored masked and the
// phone, when given, in E.164.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, domain.InvalidInput(msgEmailRequired)
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Profile.Name)
	if name == "" {
		return nil, domain.InvalidInput(msgNameRequired)
	}
	cpf, err := validation.NormalizeCPF(in.Profile.CPF)
	if err != nil {
		return nil, domain.Wrap(domain.KindInvalidInput, msgInvalidCPF, err)
	}
	var phone string
	if strings.TrimSpace(in.Profile.Phone) != "" {
		phone, err = validation.NormalizePhone(in.Profile.Phone)
		if err != nil {
			return nil, domain.Wrap(domain.KindInvalidInput, msgInvalidPhone, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Profile:      domain.Profile{Name: name, CPF: cpf, Phone: phone},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.Wrap(domain.KindInvalidState, msgEmailTaken, err)
		}
		s.log.Error().Err(err).Msg("failed to create user")
		return nil, domain.StorageFailure(msgRegisterFailed, err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	s.publish(domain.IdentitySignedUp, created)
	return created, nil
}

// Authenticate verifies credentials and issues a token. Unknown emails and
// wrong passwords fail the same way.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Wrap(domain.KindUnauthenticated, msgInvalidCredentials, domain.ErrInvalidCredentials)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Wrap(domain.KindUnauthenticated, msgInvalidCredentials, domain.ErrInvalidCredentials)
		}
		return nil, domain.StorageFailure(msgSignInFailed, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.Wrap(domain.KindUnauthenticated, msgInvalidCredentials, domain.ErrInvalidCredentials)
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.publish(domain.IdentitySignedIn, user)
	return &ports.AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CurrentIdentity returns the stored user behind session.
func (s *AuthService) CurrentIdentity(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if !session.Authenticated() {
		return nil, domain.Unauthenticated(msgUnauthenticated)
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Wrap(domain.KindUnauthenticated, msgUnauthenticated, err)
		}
		return nil, domain.StorageFailure(msgIdentityLookup, err)
	}
	return user, nil
}

// Deauthenticate revokes the session's token until it would have expired.
func (s *AuthService) Deauthenticate(ctx context.Context, session *domain.Session) error {
	if !session.Authenticated() || session.TokenID == "" {
		return domain.Unauthenticated(msgUnauthenticated)
	}

	until := session.ExpiresAt
	if until.IsZero() {
		until = s.now().Add(s.tokenTTL)
	}
	if err := s.sessions.Revoke(ctx, session.TokenID, until); err != nil {
		s.log.Error().Err(err).Str("user_id", session.UserID).Msg("failed to revoke token")
		return domain.StorageFailure(msgSignOutFailed, err)
	}

	s.publish(domain.IdentitySignedOut, &domain.User{ID: session.UserID, Email: session.Email})
	return nil
}

// RequestPasswordReset issues a single-use reset token for email. It reports
// success for unknown emails too.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.InvalidInput(msgEmailRequired)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return domain.StorageFailure(msgResetFailed, err)
	}

	token, err := newResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.sessions.SaveResetToken(ctx, hashToken(token), user.ID, s.resetTTL); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to store reset token")
		return domain.StorageFailure(msgResetFailed, err)
	}

	if s.queue != nil {
		ok := s.queue.Enqueue(ports.Notification{
			Type:       ports.NotifyPasswordResetRequested,
			Key:        user.ID,
			Recipient:  user.Email,
			Subject:    "Redefinição de senha",
			Body:       "Use o código abaixo para redefinir sua senha. Ele expira em " + s.resetTTL.String() + ".",
			Data:       map[string]string{"reset_token": token},
			OccurredAt: s.now(),
		})
		if !ok {
			s.log.Warn().Str("user_id", user.ID).Msg("password reset notification dropped")
		}
	}

	s.publish(domain.IdentityPasswordRecovery, user)
	return nil
}

// ResetPassword consumes a reset token and replaces the user's password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Wrap(domain.KindInvalidInput, msgInvalidResetToken, domain.ErrInvalidResetToken)
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	userID, err := s.sessions.ConsumeResetToken(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidResetToken) {
			return domain.Wrap(domain.KindInvalidInput, msgInvalidResetToken, err)
		}
		return domain.StorageFailure(msgPasswordFailed, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash), s.now()); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Wrap(domain.KindInvalidInput, msgInvalidResetToken, err)
		}
		return domain.StorageFailure(msgPasswordFailed, err)
	}

	s.log.Info().Str("user_id", userID).Msg("password updated")
	s.publish(domain.IdentityPasswordUpdated, &domain.User{ID: userID})
	return nil
}

// AssignRole changes the role of the user with the given email. It is only
// reachable from the admin command line.
func (s *AuthService) AssignRole(ctx context.Context, email, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.InvalidInput(msgInvalidRole)
	}
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Wrap(domain.KindInvalidInput, msgUserNotFound, err)
		}
		return nil, domain.StorageFailure(msgRoleFailed, err)
	}
	if user.Role == role {
		return user, nil
	}

	now := s.now()
	if err := s.users.UpdateRole(ctx, user.ID, role, now); err != nil {
		return nil, domain.StorageFailure(msgRoleFailed, err)
	}
	user.Role = role
	user.UpdatedAt = now
	s.log.Info().Str("user_id", user.ID).Str("role", role).Msg("role assigned")
	return user, nil
}

// Subscribe registers fn for identity events. Calling the returned function
// more than once is a no-op.
func (s *AuthService) Subscribe(fn func(domain.IdentityEvent)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *AuthService) publish(typ domain.IdentityEventType, user *domain.User) {
	s.mu.RLock()
	fns := make([]func(domain.IdentityEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	event := domain.IdentityEvent{Type: typ, UserID: user.ID, Email: user.Email, OccurredAt: s.now()}
	for _, fn := range fns {
		fn(event)
	}
}

func (s *AuthService) generateToken(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

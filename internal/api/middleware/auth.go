package middleware

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/portalcliente/portal-api/internal/core/domain"
)

// SessionKey is the echo context key holding the caller's *domain.Session.
const SessionKey = "session"

const (
	msgMissingToken = "Faça login para continuar."
	msgInvalidToken = "Sessão inválida ou expirada. Faça login novamente."
	msgSessionCheck = "Não foi possível validar a sessão"
	msgAdminOnly    = "Apenas administradores podem acessar este recurso."
)

// RevocationChecker reports whether a token id has been revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the bearer JWT, rejects revoked tokens and injects the
// caller's session into the context.
func Auth(jwtSecret string, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return domain.Unauthenticated(msgMissingToken)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.Unauthenticated(msgInvalidToken)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			}, jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return domain.Unauthenticated(msgInvalidToken)
			}

			session, ok := sessionFromClaims(claims)
			if !ok {
				return domain.Unauthenticated(msgInvalidToken)
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(c.Request().Context(), session.TokenID)
				if err != nil {
					return domain.StorageFailure(msgSessionCheck, err)
				}
				if isRevoked {
					return domain.Unauthenticated(msgInvalidToken)
				}
			}

			c.Set(SessionKey, session)
			return next(c)
		}
	}
}

func sessionFromClaims(claims jwt.MapClaims) (*domain.Session, bool) {
	sub, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || jti == "" {
		return nil, false
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	s := &domain.Session{UserID: sub, Email: email, Role: role, TokenID: jti}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time.UTC()
	}
	return s, true
}

// SessionFrom returns the session injected by Auth, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(SessionKey).(*domain.Session)
	return s
}

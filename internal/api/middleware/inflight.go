package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portalcliente/portal-api/internal/api/metrics"
	"github.com/portalcliente/portal-api/internal/core/domain"
)

const msgInFlight = "Aguarde: esta operação já está em andamento."

// Locker acquires a short-lived exclusive lock on key.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), acquired bool, err error)
}

// InFlight rejects a mutating call with 409 while an identical call from the
// same user is still running. The lock key is route, user and target id.
// When the lock store is unreachable the request proceeds unguarded.
func InFlight(locker Locker, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFrom(c)
			if !session.Authenticated() {
				return next(c)
			}

			key := inFlightKey(c, session.UserID)
			release, acquired, err := locker.Acquire(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("in-flight guard unavailable")
				return next(c)
			}
			if !acquired {
				metrics.InFlightRejectedTotal.WithLabelValues(c.Path()).Inc()
				return &domain.Error{Kind: domain.KindInvalidState, Message: msgInFlight}
			}
			defer release()
			return next(c)
		}
	}
}

func inFlightKey(c echo.Context, userID string) string {
	parts := []string{c.Request().Method, c.Path(), userID}
	if id := c.Param("id"); id != "" {
		parts = append(parts, id)
	}
	return strings.Join(parts, "|")
}

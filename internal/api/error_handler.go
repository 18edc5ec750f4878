package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portalcliente/portal-api/internal/api/handler"
	"github.com/portalcliente/portal-api/internal/core/domain"
)

const msgInternal = "Erro interno do servidor"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs storage and unexpected errors with method, path and request id.
//   - Renders a consistent JSON envelope: {"error", "kind", "notice"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, kind, msg := resolveError(err, log, c)
		body := handler.ErrorResponse{Error: msg, Kind: kind, Notice: handler.ErrorNotice(c, msg)}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	var de *domain.Error
	if errors.As(err, &de) {
		code := statusForKind(de)
		if de.Kind == domain.KindStorage {
			logError(log, c, err, "storage failure")
		}
		return code, string(de.Kind), de.Display()
	}

	// Echo's own errors (bind failures, 404 from router, rate limiting, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, kindForStatus(he.Code), fmt.Sprintf("%v", he.Message)
	}

	// Unexpected error: log the real cause, return a generic message.
	logError(log, c, err, "unhandled error")
	return http.StatusInternalServerError, "internal", msgInternal
}

func statusForKind(de *domain.Error) int {
	switch de.Kind {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindInvalidInput:
		if errors.Is(de, domain.ErrRequestNotFound) || errors.Is(de, domain.ErrUserNotFound) {
			return http.StatusNotFound
		}
		return http.StatusUnprocessableEntity
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(code int) string {
	switch {
	case code == http.StatusUnauthorized:
		return string(domain.KindUnauthenticated)
	case code == http.StatusForbidden:
		return string(domain.KindForbidden)
	case code == http.StatusTooManyRequests:
		return "rate_limited"
	case code == http.StatusConflict:
		return string(domain.KindInvalidState)
	case code >= 500:
		return "internal"
	default:
		return string(domain.KindInvalidInput)
	}
}

func logError(log zerolog.Logger, c echo.Context, err error, msg string) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg(msg)
}

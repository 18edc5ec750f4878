package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
	"github.com/portalcliente/portal-api/internal/infrastructure/http/handlers"
)

const routerSecret = "router-test-secret-0123"

type fakeAuth struct{ ports.AuthService }

func (fakeAuth) Subscribe(func(domain.IdentityEvent)) func() { return func() {} }

type fakeRequests struct{ ports.RequestService }

func (fakeRequests) ListOwn(context.Context, *domain.Session) ([]*domain.Request, error) {
	return []*domain.Request{}, nil
}

type noRevocations struct{}

func (noRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }

type noLocker struct{}

func (noLocker) Acquire(context.Context, string) (func(), bool, error) { return func() {}, true, nil }

func bearer(t *testing.T, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"jti":  "jti-1",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(routerSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + signed
}

func TestRouter(t *testing.T) {
	// NewRouter registers HTTP metrics on the default registry, so it is
	// built once for every case.
	e := NewRouter(Deps{
		Auth:           fakeAuth{},
		Requests:       fakeRequests{},
		Revocations:    noRevocations{},
		Locker:         noLocker{},
		Readiness:      map[string]handlers.Pinger{},
		JWTSecret:      routerSecret,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		Log:            zerolog.Nop(),
	})

	tests := []struct {
		name     string
		method   string
		path     string
		auth     string
		wantCode int
		wantBody string
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK, `"ok"`},
		{"readiness", http.MethodGet, "/health/ready", "", http.StatusOK, `"dependencies"`},
		{"plans are public", http.MethodGet, "/v1/plans", "", http.StatusOK, `"premium"`},
		{"requests need a token", http.MethodGet, "/v1/requests", "", http.StatusUnauthorized, `"unauthenticated"`},
		{"own list", http.MethodGet, "/v1/requests", "user", http.StatusOK, `"requests":[]`},
		{"admin list needs admin", http.MethodGet, "/v1/admin/requests", "user", http.StatusForbidden, `"forbidden"`},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, `"error"`},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK, "portal_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set(echo.HeaderAuthorization, bearer(t, tt.auth))
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("body %q does not contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

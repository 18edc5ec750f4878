package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portalcliente/portal-api/internal/core/domain"
)

type stubLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	released []string
}

func (l *stubLocker) Acquire(_ context.Context, key string) (func(), bool, error) {
	if l.err != nil {
		return func() {}, false, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return func() {}, false, nil
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.released = append(l.released, key)
	}, true, nil
}

func newInFlightContext(id string) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	c.SetPath("/v1/admin/requests/:id/answer")
	c.SetParamNames("id")
	c.SetParamValues(id)
	c.Set(SessionKey, &domain.Session{UserID: "admin-1", Role: domain.RoleAdmin})
	return c
}

func TestInFlight_RejectsConcurrentDuplicate(t *testing.T) {
	locker := &stubLocker{held: map[string]bool{}}
	mw := InFlight(locker, zerolog.Nop())

	var inner error
	outer := mw(func(c echo.Context) error {
		// A second identical call arrives while the first is running.
		inner = mw(func(echo.Context) error {
			t.Fatalf("duplicate should not run")
			return nil
		})(newInFlightContext("r-1"))

		// A call for another request is not blocked.
		return mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(newInFlightContext("r-2"))
	})(newInFlightContext("r-1"))

	if outer != nil {
		t.Fatalf("first call failed: %v", outer)
	}
	if domain.KindOf(inner) != domain.KindInvalidState {
		t.Fatalf("expected invalid_state for duplicate, got %v", inner)
	}
	if len(locker.held) != 0 {
		t.Fatalf("locks not released: %v", locker.held)
	}
	if len(locker.released) != 2 {
		t.Fatalf("expected 2 releases, got %v", locker.released)
	}
}

func TestInFlight_FailsOpen(t *testing.T) {
	locker := &stubLocker{err: errors.New("redis down")}
	called := false
	err := InFlight(locker, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return nil
	})(newInFlightContext("r-1"))

	if err != nil || !called {
		t.Fatalf("expected request to proceed, called=%v err=%v", called, err)
	}
}

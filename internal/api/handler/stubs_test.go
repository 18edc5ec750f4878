package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portalcliente/portal-api/internal/api/middleware"
	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	authenticateFn func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	currentFn      func(ctx context.Context, s *domain.Session) (*domain.User, error)
	deauthFn       func(ctx context.Context, s *domain.Session) error
	forgotFn       func(ctx context.Context, email string) error
	resetFn        func(ctx context.Context, token, password string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubAuthService) CurrentIdentity(ctx context.Context, session *domain.Session) (*domain.User, error) {
	return s.currentFn(ctx, session)
}

func (s *stubAuthService) Deauthenticate(ctx context.Context, session *domain.Session) error {
	return s.deauthFn(ctx, session)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.forgotFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, password string) error {
	return s.resetFn(ctx, token, password)
}

func (s *stubAuthService) AssignRole(context.Context, string, string) (*domain.User, error) {
	panic("not used by handlers")
}

func (s *stubAuthService) Subscribe(func(domain.IdentityEvent)) func() { return func() {} }

type stubRequestService struct {
	submitFn  func(ctx context.Context, s *domain.Session, in ports.SubmitInput) (*ports.SubmitResult, error)
	listOwnFn func(ctx context.Context, s *domain.Session) ([]*domain.Request, error)
	listAllFn func(ctx context.Context, s *domain.Session) ([]*domain.RequestWithOwner, error)
	answerFn  func(ctx context.Context, s *domain.Session, in ports.AnswerInput) (*domain.Request, error)
	getFn     func(ctx context.Context, s *domain.Session, id string) (*domain.Request, error)
}

func (s *stubRequestService) Submit(ctx context.Context, session *domain.Session, in ports.SubmitInput) (*ports.SubmitResult, error) {
	return s.submitFn(ctx, session, in)
}

func (s *stubRequestService) ListOwn(ctx context.Context, session *domain.Session) ([]*domain.Request, error) {
	return s.listOwnFn(ctx, session)
}

func (s *stubRequestService) ListAll(ctx context.Context, session *domain.Session) ([]*domain.RequestWithOwner, error) {
	return s.listAllFn(ctx, session)
}

func (s *stubRequestService) Answer(ctx context.Context, session *domain.Session, in ports.AnswerInput) (*domain.Request, error) {
	return s.answerFn(ctx, session, in)
}

func (s *stubRequestService) Get(ctx context.Context, session *domain.Session, id string) (*domain.Request, error) {
	return s.getFn(ctx, session, id)
}

// newTestContext builds an echo context for method/target with an optional
// JSON body and session.
func newTestContext(method, target, body string, session *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if session != nil {
		c.Set(middleware.SessionKey, session)
	}
	return c, rec
}

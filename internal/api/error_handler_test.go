package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portalcliente/portal-api/internal/api/handler"
	"github.com/portalcliente/portal-api/internal/core/domain"
)

func renderError(t *testing.T, err error, op string) (int, handler.ErrorResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	if op != "" {
		c.Set(handler.OperationKey, op)
	}

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body handler.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"unauthenticated", domain.Unauthenticated("Faça login"), http.StatusUnauthorized, "unauthenticated"},
		{"invalid input", domain.InvalidInput("A descrição da solicitação é obrigatória"), http.StatusUnprocessableEntity, "invalid_input"},
		{"request not found", domain.Wrap(domain.KindInvalidInput, "Solicitação não encontrada", domain.ErrRequestNotFound), http.StatusNotFound, "invalid_input"},
		{"user not found", domain.Wrap(domain.KindInvalidInput, "Usuário não encontrado", domain.ErrUserNotFound), http.StatusNotFound, "invalid_input"},
		{"forbidden", domain.Forbidden("Acesso restrito a administradores"), http.StatusForbidden, "forbidden"},
		{"invalid state", domain.Wrap(domain.KindInvalidState, "Esta solicitação já foi respondida", domain.ErrAlreadyAnswered), http.StatusConflict, "invalid_state"},
		{"storage", domain.StorageFailure("Não foi possível salvar a solicitação", errors.New("timeout")), http.StatusInternalServerError, "storage_error"},
		{"wrapped domain error", fmt.Errorf("ctx: %w", domain.Forbidden("x")), http.StatusForbidden, "forbidden"},
		{"malformed body", echo.NewHTTPError(http.StatusBadRequest, "Corpo da requisição inválido"), http.StatusBadRequest, "invalid_input"},
		{"rate limited", echo.NewHTTPError(http.StatusTooManyRequests, "Muitas tentativas"), http.StatusTooManyRequests, "rate_limited"},
		{"route not found", echo.ErrNotFound, http.StatusNotFound, "invalid_input"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := renderError(t, tt.err, "")
			if code != tt.wantCode || body.Kind != tt.wantKind {
				t.Fatalf("got %d/%s, want %d/%s", code, body.Kind, tt.wantCode, tt.wantKind)
			}
		})
	}
}

func TestHTTPErrorHandler_Messages(t *testing.T) {
	_, body := renderError(t, domain.StorageFailure("Não foi possível salvar a solicitação", errors.New("connection reset")), handler.OpSubmit)
	if body.Error != "Não foi possível salvar a solicitação: connection reset" {
		t.Fatalf("storage message should carry the cause, got %q", body.Error)
	}
	if body.Notice.Title != "Erro ao enviar solicitação" || body.Notice.Description != body.Error {
		t.Fatalf("unexpected notice: %+v", body.Notice)
	}

	_, body = renderError(t, domain.Wrap(domain.KindUnauthenticated, "E-mail ou senha inválidos", domain.ErrInvalidCredentials), handler.OpLogin)
	if body.Error != "E-mail ou senha inválidos" || body.Notice.Title != "Erro ao fazer login" {
		t.Fatalf("unexpected body: %+v", body)
	}

	_, body = renderError(t, errors.New("secret driver detail"), handler.OpAnswer)
	if body.Error != msgInternal || body.Notice.Title != "Erro ao responder solicitação" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

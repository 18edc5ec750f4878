package handler

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portalcliente/portal-api/internal/api/middleware"
	"github.com/portalcliente/portal-api/internal/core/domain"
)

const msgMalformedBody = "Corpo da requisição inválido"

// ctxSession returns the caller session set by the Auth middleware. Routes
// without Auth get a nil session and the services answer Unauthenticated.
func ctxSession(c echo.Context) *domain.Session {
	return middleware.SessionFrom(c)
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgMalformedBody).SetInternal(err)
	}
	return c.Validate(req)
}

// jsonFieldName reports validation errors under the JSON field name.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portalcliente/portal-api/internal/api/metrics"
	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
)

// AdminHandler serves the admin side of the request lifecycle.
type AdminHandler struct {
	service ports.RequestService
}

func NewAdminHandler(service ports.RequestService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListAll handles GET /v1/admin/requests.
//
// @Summary      List every request with its owner
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/admin/requests [get]
func (h *AdminHandler) ListAll(c echo.Context) error {
	setOperation(c, OpListAll)

	rows, err := h.service.ListAll(c.Request().Context(), ctxSession(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminListResponse{Requests: toAdminRequestList(rows)})
}

// Answer handles POST /v1/admin/requests/:id/answer.
//
// @Summary      Answer a pending request
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Request id"
// @Param        body  body      answerRequestBody  true  "Response text and monthly value"
// @Success      200   {object}  answerResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /v1/admin/requests/{id}/answer [post]
func (h *AdminHandler) Answer(c echo.Context) error {
	setOperation(c, OpAnswer)

	var req answerRequestBody
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RequestsAnsweredTotal.WithLabelValues(string(domain.KindInvalidInput)).Inc()
		return err
	}

	answered, err := h.service.Answer(c.Request().Context(), ctxSession(c), toAnswerInput(c.Param("id"), req))
	if err != nil {
		metrics.RequestsAnsweredTotal.WithLabelValues(failureLabel(err)).Inc()
		return err
	}
	metrics.RequestsAnsweredTotal.WithLabelValues("answered").Inc()

	return c.JSON(http.StatusOK, answerResponse{
		Request: toRequestResponse(answered),
		Notice:  noticeAnswered,
	})
}

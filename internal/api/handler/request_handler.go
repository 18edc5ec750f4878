package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portalcliente/portal-api/internal/api/metrics"
	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
)

// IdempotencyKeyHeader lets clients retry Submit safely.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// RequestHandler serves the customer side of the request lifecycle.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Submit handles POST /v1/requests.
//
// @Summary      Submit a request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Client key for safe retries"
// @Param        body             body      submitRequestBody  true   "Request description"
// @Success      201              {object}  submitResponse
// @Success      200              {object}  submitResponse  "Replay of an earlier submission"
// @Failure      400              {object}  ErrorResponse
// @Failure      401              {object}  ErrorResponse
// @Failure      409              {object}  ErrorResponse
// @Failure      422              {object}  ErrorResponse
// @Failure      500              {object}  ErrorResponse
// @Router       /v1/requests [post]
func (h *RequestHandler) Submit(c echo.Context) error {
	setOperation(c, OpSubmit)

	var req submitRequestBody
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RequestsSubmittedTotal.WithLabelValues(string(domain.KindInvalidInput)).Inc()
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		metrics.RequestsSubmittedTotal.WithLabelValues(string(domain.KindInvalidInput)).Inc()
		return domain.InvalidInput("Idempotency-Key muito longa")
	}

	result, err := h.service.Submit(c.Request().Context(), ctxSession(c), ports.SubmitInput{
		Description:    req.Description,
		IdempotencyKey: key,
	})
	if err != nil {
		metrics.RequestsSubmittedTotal.WithLabelValues(failureLabel(err)).Inc()
		return err
	}

	status, outcome := http.StatusCreated, "created"
	if result.AlreadyExisted {
		status, outcome = http.StatusOK, "replayed"
	}
	metrics.RequestsSubmittedTotal.WithLabelValues(outcome).Inc()

	c.Response().Header().Set(echo.HeaderLocation, "/v1/requests/"+result.Request.ID)
	return c.JSON(status, submitResponse{
		Request:  toRequestResponse(result.Request),
		Replayed: result.AlreadyExisted,
		Notice:   noticeSubmitted,
	})
}

// ListOwn handles GET /v1/requests.
//
// @Summary      List the caller's requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/requests [get]
func (h *RequestHandler) ListOwn(c echo.Context) error {
	setOperation(c, OpListOwn)

	reqs, err := h.service.ListOwn(c.Request().Context(), ctxSession(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Requests: toRequestList(reqs)})
}

// Get handles GET /v1/requests/:id.
//
// @Summary      Get one request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  requestResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/requests/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	setOperation(c, OpGet)

	req, err := h.service.Get(c.Request().Context(), ctxSession(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(req))
}

// failureLabel is the metrics label for a failed operation.
func failureLabel(err error) string {
	if kind := domain.KindOf(err); kind != "" {
		return string(kind)
	}
	return "internal"
}

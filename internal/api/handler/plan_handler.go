package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portalcliente/portal-api/internal/core/domain"
)

type PlanHandler struct{}

func NewPlanHandler() *PlanHandler {
	return &PlanHandler{}
}

// List handles GET /v1/plans.
//
// @Summary      List pricing plans
// @Tags         plans
// @Produce      json
// @Success      200  {object}  planListResponse
// @Router       /v1/plans [get]
func (h *PlanHandler) List(c echo.Context) error {
	plans := domain.Plans()
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	return c.JSON(http.StatusOK, planListResponse{Plans: out})
}

package handler

import (
	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Profile: domain.Profile{
			Name:  req.Name,
			CPF:   req.CPF,
			Phone: req.Phone,
		},
	}
}

func toAnswerInput(id string, req answerRequestBody) ports.AnswerInput {
	return ports.AnswerInput{
		RequestID:    id,
		Response:     req.Response,
		MonthlyValue: req.MonthlyValue,
	}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Name:      u.Profile.Name,
		CPF:       u.Profile.CPF,
		Phone:     u.Profile.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func toRequestResponse(r *domain.Request) requestResponse {
	resp := requestResponse{
		ID:          r.ID,
		Description: r.Description,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
	}
	if a := r.Answer; a != nil {
		value := a.MonthlyValue.StringFixed(2)
		display := domain.FormatBRL(a.MonthlyValue)
		answeredAt := a.AnsweredAt
		response := a.Response
		resp.AdminResponse = &response
		resp.MonthlyValue = &value
		resp.MonthlyValueDisplay = &display
		resp.AnsweredAt = &answeredAt
	}
	return resp
}

func toRequestList(reqs []*domain.Request) []requestResponse {
	out := make([]requestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toRequestResponse(r))
	}
	return out
}

func toAdminRequestList(rows []*domain.RequestWithOwner) []adminRequestResponse {
	out := make([]adminRequestResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, adminRequestResponse{
			requestResponse: toRequestResponse(&row.Request),
			Owner: ownerResponse{
				Name:  row.Owner.Name,
				Email: row.Owner.Email,
				CPF:   row.Owner.CPF,
			},
		})
	}
	return out
}

func toPlanResponse(p domain.Plan) planResponse {
	return planResponse{
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		MonthlyPrice: domain.FormatBRL(domain.FromCents(p.MonthlyCents)),
		MonthlyCents: p.MonthlyCents,
		Popular:      p.Popular,
		Features:     p.Features,
		Limitations:  p.Limitations,
	}
}

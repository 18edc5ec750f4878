package handler

import "time"

// ErrorResponse is the standard error envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Notice Notice `json:"notice"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name"     validate:"required,max=120"`
	CPF      string `json:"cpf"      validate:"required,cpf"`
	Phone    string `json:"phone"    validate:"omitempty,phone"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Token     string        `json:"token,omitempty"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
	User      *userResponse `json:"user,omitempty"`
	Notice    *Notice       `json:"notice,omitempty"`
}

type noticeResponse struct {
	Notice Notice `json:"notice"`
}

// --- Requests ---

type submitRequestBody struct {
	Description string `json:"description" validate:"required,max=5000"`
}

type answerRequestBody struct {
	Response string `json:"response" validate:"required,max=5000"`
	// MonthlyValue accepts Brazilian notation, e.g. "79,90" or "R$ 1.234,56".
	MonthlyValue string `json:"monthly_value" validate:"required,max=32"`
}

type requestResponse struct {
	ID                  string     `json:"id"`
	Description         string     `json:"description"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	AdminResponse       *string    `json:"admin_response,omitempty"`
	MonthlyValue        *string    `json:"monthly_value,omitempty"`
	MonthlyValueDisplay *string    `json:"monthly_value_display,omitempty"`
	AnsweredAt          *time.Time `json:"answered_at,omitempty"`
}

type ownerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
}

type adminRequestResponse struct {
	requestResponse
	Owner ownerResponse `json:"owner"`
}

type submitResponse struct {
	Request  requestResponse `json:"request"`
	Replayed bool            `json:"replayed"`
	Notice   Notice          `json:"notice"`
}

type listResponse struct {
	Requests []requestResponse `json:"requests"`
}

type adminListResponse struct {
	Requests []adminRequestResponse `json:"requests"`
}

type answerResponse struct {
	Request requestResponse `json:"request"`
	Notice  Notice          `json:"notice"`
}

// --- Plans ---

type planResponse struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	MonthlyPrice string   `json:"monthly_price"`
	MonthlyCents int64    `json:"monthly_cents"`
	Popular      bool     `json:"popular"`
	Features     []string `json:"features"`
	Limitations  []string `json:"limitations"`
}

type planListResponse struct {
	Plans []planResponse `json:"plans"`
}

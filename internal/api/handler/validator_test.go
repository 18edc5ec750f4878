package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalcliente/portal-api/internal/core/domain"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		in   any
		want []string
	}{
		{
			name: "register with several problems",
			in:   &registerRequest{Email: "x", Password: "1", CPF: "123"},
			want: []string{"email deve ser um e-mail válido", "password deve ter pelo menos 6 caracteres", "name é obrigatório", "cpf deve ser um CPF válido"},
		},
		{
			name: "invalid phone",
			in:   &registerRequest{Email: "a@b.com", Password: "secret1", Name: "A", CPF: "529.982.247-25", Phone: "999"},
			want: []string{"phone deve ser um telefone válido"},
		},
		{
			name: "register password over bcrypt limit",
			in:   &registerRequest{Email: "a@b.com", Password: strings.Repeat("a", 73), Name: "A", CPF: "529.982.247-25"},
			want: []string{"password deve ter no máximo 72 caracteres"},
		},
		{
			name: "reset password over bcrypt limit",
			in:   &resetPasswordRequest{Token: "t", Password: strings.Repeat("a", 80)},
			want: []string{"password deve ter no máximo 72 caracteres"},
		},
		{
			name: "answer too long",
			in:   &answerRequestBody{Response: "ok", MonthlyValue: strings.Repeat("9", 40)},
			want: []string{"monthly_value deve ter no máximo 32 caracteres"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			require.Error(t, err)
			assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestValidator_AcceptsValidPayloads(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&registerRequest{
		Email: "maria@example.com", Password: "secret1", Name: "Maria", CPF: "52998224725", Phone: "+55 11 98765-4321",
	}))
	assert.NoError(t, v.Validate(&registerRequest{
		Email: "maria@example.com", Password: "secret1", Name: "Maria", CPF: "529.982.247-25",
	}))
	assert.NoError(t, v.Validate(&answerRequestBody{Response: "ok", MonthlyValue: "R$ 1.234,56"}))
}

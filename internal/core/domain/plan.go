package domain

// Plan is a static pricing tier shown on the landing page. Plans are
// informational; no billing happens against them.
type Plan struct {
	Code         string
	Name         string
	Description  string
	MonthlyCents int64
	Popular      bool
	Features     []string
	Limitations  []string
}

var plans = []Plan{
	{
		Code:         "basico",
		Name:         "Básico",
		Description:  "Ideal para iniciantes",
		MonthlyCents: 2900,
		Features: []string{
			"Acesso ao conteúdo básico",
			"Suporte por email",
			"Dashboard pessoal",
			"Relatórios mensais",
			"Armazenamento 5GB",
		},
		Limitations: []string{
			"Até 100 downloads/mês",
			"Sem acesso a webinars",
		},
	},
	{
		Code:         "premium",
		Name:         "Premium",
		Description:  "Para profissionais em crescimento",
		MonthlyCents: 7900,
		Popular:      true,
		Features: []string{
			"Tudo do plano Básico",
			"Acesso a conteúdo premium",
			"Suporte prioritário",
			"Webinars exclusivos",
			"Armazenamento 50GB",
			"Relatórios detalhados",
			"Downloads ilimitados",
		},
	},
	{
		Code:         "enterprise",
		Name:         "Enterprise",
		Description:  "Para empresas e equipes",
		MonthlyCents: 19900,
		Features: []string{
			"Tudo do plano Premium",
			"Múltiplos usuários (até 20)",
			"Suporte 24/7",
			"Consultoria personalizada",
			"Armazenamento 500GB",
			"API access",
			"White-label option",
			"Integração customizada",
		},
	},
}

// Plans returns a copy of the pricing catalog in display order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

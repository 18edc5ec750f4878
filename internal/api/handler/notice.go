package handler

import "github.com/labstack/echo/v4"

// OperationKey is the echo context key holding the operation a handler is
// serving. The error handler reads it to title failure notices.
const OperationKey = "operation"

const (
	OpRegister       = "register"
	OpLogin          = "login"
	OpLogout         = "logout"
	OpMe             = "me"
	OpForgotPassword = "forgot_password"
	OpResetPassword  = "reset_password"
	OpSubmit         = "submit"
	OpListOwn        = "list_own"
	OpGet            = "get"
	OpListAll        = "list_all"
	OpAnswer         = "answer"
)

// Notice is the user-facing message attached to every response, shown by the
// portal as a toast.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

var (
	noticeSubmitted = Notice{
		Title:       "Solicitação enviada!",
		Description: "Sua solicitação foi enviada com sucesso. Em breve entraremos em contato.",
	}
	noticeAnswered = Notice{
		Title:       "Resposta enviada!",
		Description: "A resposta foi enviada com sucesso para o cliente.",
	}
	noticeRegistered = Notice{
		Title:       "Conta criada com sucesso!",
		Description: "Sua conta foi criada. Faça login para continuar.",
	}
	noticeSignedIn = Notice{
		Title:       "Login realizado com sucesso!",
		Description: "Bem-vindo de volta!",
	}
	noticeSignedOut = Notice{
		Title:       "Logout realizado",
		Description: "Você foi desconectado com sucesso.",
	}
	noticeResetSent = Notice{
		Title:       "Email enviado",
		Description: "Verifique seu email para redefinir a senha.",
	}
	noticePasswordUpdated = Notice{
		Title:       "Senha atualizada",
		Description: "Sua senha foi redefinida com sucesso.",
	}
)

var errorTitles = map[string]string{
	OpRegister:       "Erro ao criar conta",
	OpLogin:          "Erro ao fazer login",
	OpLogout:         "Erro ao fazer logout",
	OpMe:             "Erro ao carregar perfil",
	OpForgotPassword: "Erro ao enviar email",
	OpResetPassword:  "Erro ao redefinir senha",
	OpSubmit:         "Erro ao enviar solicitação",
	OpListOwn:        "Erro ao buscar solicitações",
	OpGet:            "Erro ao buscar solicitações",
	OpListAll:        "Erro ao buscar solicitações",
	OpAnswer:         "Erro ao responder solicitação",
}

// ErrorNotice builds the failure notice for the operation recorded on c.
func ErrorNotice(c echo.Context, description string) Notice {
	op, _ := c.Get(OperationKey).(string)
	title, ok := errorTitles[op]
	if !ok {
		title = "Erro"
	}
	return Notice{Title: title, Description: description}
}

func setOperation(c echo.Context, op string) {
	c.Set(OperationKey, op)
}

package service

// User-facing messages returned inside *domain.Error.
const (
	msgUnauthenticated     = "Você precisa estar autenticado para continuar"
	msgIdentityLookup      = "Não foi possível verificar sua identidade"
	msgDescriptionRequired = "A descrição da solicitação é obrigatória"
	msgSubmitFailed        = "Não foi possível salvar a solicitação"
	msgListFailed          = "Não foi possível carregar as solicitações"
	msgAdminOnly           = "Acesso restrito a administradores"
	msgRequestIDRequired   = "O identificador da solicitação é obrigatório"
	msgResponseRequired    = "A resposta é obrigatória"
	msgInvalidValue        = "Valor da mensalidade inválido"
	msgNegativeValue       = "O valor da mensalidade não pode ser negativo"
	msgValueTooLarge       = "O valor da mensalidade excede o máximo permitido"
	msgRequestNotFound     = "Solicitação não encontrada"
	msgAlreadyAnswered     = "Esta solicitação já foi respondida"
	msgAnswerFailed        = "Não foi possível salvar a resposta"
	msgLoadFailed          = "Não foi possível carregar a solicitação"

	msgEmailRequired      = "O e-mail é obrigatório"
	msgPasswordTooShort   = "A senha deve ter pelo menos 6 caracteres"
	msgPasswordTooLong    = "A senha deve ter no máximo 72 bytes"
	msgNameRequired       = "O nome é obrigatório"
	msgInvalidCPF         = "CPF inválido"
	msgInvalidPhone       = "Telefone inválido"
	msgEmailTaken         = "Este e-mail já está cadastrado"
	msgRegisterFailed     = "Não foi possível criar a conta"
	msgInvalidCredentials = "E-mail ou senha inválidos"
	msgSignInFailed       = "Não foi possível fazer login"
	msgSignOutFailed      = "Não foi possível encerrar a sessão"
	msgResetFailed        = "Não foi possível enviar o e-mail de recuperação"
	msgInvalidResetToken  = "Link de recuperação inválido ou expirado"
	msgPasswordFailed     = "Não foi possível atualizar a senha"
	msgInvalidRole        = "Perfil inválido"
	msgUserNotFound       = "Usuário não encontrado"
	msgRoleFailed         = "Não foi possível atualizar o perfil"
)

const (
	minPasswordLength = 6
	// bcrypt only accepts passwords up to 72 bytes.
	maxPasswordBytes = 72
)

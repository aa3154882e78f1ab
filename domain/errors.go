package domain

import "errors"

// Erros sentinela da aplicação. Os services retornam (ou embrulham com %w)
// exatamente um destes por falha; os controllers traduzem para o status HTTP.
var (
	// ErrNotFound indica que o recurso pedido não existe
	ErrNotFound = errors.New("not found")

	// ErrConflict indica violação de unicidade (ex.: username duplicado)
	ErrConflict = errors.New("already exists")

	// ErrInvalidCredentials indica falha de autenticação no login
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indica token ausente, malformado, expirado ou com
	// assinatura inválida
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbidden indica caller autenticado sem o papel necessário
	ErrForbidden = errors.New("forbidden")

	// ErrInactiveUser indica usuário desativado
	ErrInactiveUser = errors.New("inactive user")

	// ErrValidation indica entrada malformada ou rejeitada (tipo de arquivo,
	// tamanho, path traversal)
	ErrValidation = errors.New("validation failed")

	// ErrLastAdmin protege contra apagar o último administrador
	ErrLastAdmin = errors.New("cannot delete the last remaining admin")

	// ErrRateLimited indica que o limite de requisições foi excedido
	ErrRateLimited = errors.New("rate limit exceeded")
)

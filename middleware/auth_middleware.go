package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"imoveis-api/domain"
	"imoveis-api/dto"
	"imoveis-api/services"
	"imoveis-api/utils"
)

// Chave do contexto onde o usuário autenticado fica guardado
const ContextUserKey = "user"

// AuthMiddleware valida o token Bearer de cada request. Token válido carrega
// o usuário do banco e o coloca no contexto; qualquer falha responde 401.
// Usuários desativados são rejeitados.
func AuthMiddleware(tokens *utils.TokenManager, users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "authorization header required",
			})
			return
		}

		// Formato esperado: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "invalid authorization header format",
			})
			return
		}

		username, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: domain.ErrInvalidToken.Error(),
			})
			return
		}

		user, err := users.GetByUsername(c.Request.Context(), username)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "could not validate credentials",
			})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "inactive_user",
				Message: domain.ErrInactiveUser.Error(),
			})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// AdminMiddleware exige usuário com is_admin; usado DEPOIS de AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "authentication required",
			})
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "forbidden",
				Message: "admin privileges required",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser retorna o usuário autenticado do contexto, ou nil
func CurrentUser(c *gin.Context) *domain.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

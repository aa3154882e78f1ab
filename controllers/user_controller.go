package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"imoveis-api/dto"
	"imoveis-api/middleware"
	"imoveis-api/services"
)

// UserController maneja os endpoints HTTP de usuários e autenticação
type UserController struct {
	service services.UserService
}

// NewUserController cria uma nova instância do controller
func NewUserController(service services.UserService) *UserController {
	return &UserController{service: service}
}

// Token maneja POST /token: login form-encoded que emite o JWT
func (ctrl *UserController) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	token, err := ctrl.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// CreateUser maneja POST /users/ (somente admin)
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	user, err := ctrl.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserOut(user))
}

// ListUsers maneja GET /users/ (somente admin): listagem paginada por id
func (ctrl *UserController) ListUsers(c *gin.Context) {
	var page dto.PaginationParams
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	result, err := ctrl.service.ListUsers(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Me maneja GET /users/me: o registro do próprio caller autenticado
func (ctrl *UserController) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserOut(user))
}

// DeleteUser maneja DELETE /users/{id} (somente admin). Apagar o último
// admin responde 409.
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "invalid user id",
		})
		return
	}

	if err := ctrl.service.DeleteUser(c.Request.Context(), uint(id)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"imoveis-api/domain"
	"imoveis-api/dto"
	"imoveis-api/logger"
)

// respondError traduz um erro de serviço para exatamente uma classificação
// HTTP. Erros não mapeados viram 500 com mensagem genérica; o detalhe fica
// apenas no log.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: "incorrect username or password"})
	case errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "forbidden", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrLastAdmin):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "conflict", Message: err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "rate_limited", Message: err.Error()})
	default:
		logger.L.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: "internal server error"})
	}
}

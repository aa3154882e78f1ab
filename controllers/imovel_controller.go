package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"imoveis-api/dto"
	"imoveis-api/middleware"
	"imoveis-api/services"
)

// ImovelController maneja os endpoints HTTP de imóveis e imagens
type ImovelController struct {
	service services.ImovelService
	images  services.ImageService
}

// NewImovelController cria uma nova instância do controller
func NewImovelController(service services.ImovelService, images services.ImageService) *ImovelController {
	return &ImovelController{service: service, images: images}
}

// ListDisponiveis maneja GET /imoveis: listagem pública, paginada e
// filtrada dos imóveis disponíveis
func (ctrl *ImovelController) ListDisponiveis(c *gin.Context) {
	ctrl.list(c, true)
}

// ListIndisponiveis maneja GET /imoveis_indisponiveis: igual à pública,
// mas só para callers autenticados e com disponivel=false
func (ctrl *ImovelController) ListIndisponiveis(c *gin.Context) {
	ctrl.list(c, false)
}

func (ctrl *ImovelController) list(c *gin.Context, disponivel bool) {
	var filters dto.ImovelFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}
	var page dto.PaginationParams
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	result, err := ctrl.service.ListImoveis(c.Request.Context(), filters, page, disponivel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create maneja POST /imoveis: multipart com os campos do imóvel e imagens
// opcionais no campo "imagens"
func (ctrl *ImovelController) Create(c *gin.Context) {
	var req dto.ImovelCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	imovel, err := ctrl.service.CreateImovel(c.Request.Context(), req, user.ID, formFiles(c, "imagens"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewImovelOut(imovel))
}

// Update maneja PUT /imoveis/{id}: substitui os atributos mutáveis e aceita
// imagens novas no campo "novas_imagens"
func (ctrl *ImovelController) Update(c *gin.Context) {
	id, ok := imovelID(c)
	if !ok {
		return
	}

	var req dto.ImovelUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	imovel, err := ctrl.service.UpdateImovel(c.Request.Context(), id, req, formFiles(c, "novas_imagens"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewImovelOut(imovel))
}

// ToggleDisponibilidade maneja PATCH /imoveis/{id}/disponibilidade:
// disponível vira indisponível e vice-versa
func (ctrl *ImovelController) ToggleDisponibilidade(c *gin.Context) {
	id, ok := imovelID(c)
	if !ok {
		return
	}

	imovel, err := ctrl.service.ToggleDisponibilidade(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewImovelOut(imovel))
}

// UploadImages maneja POST /imoveis/{id}/images: associa uploads do campo
// "files" a um imóvel existente
func (ctrl *ImovelController) UploadImages(c *gin.Context) {
	id, ok := imovelID(c)
	if !ok {
		return
	}

	files := formFiles(c, "files")
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "at least one file is required",
		})
		return
	}

	imovel, err := ctrl.service.AddImages(c.Request.Context(), id, files)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewImovelOut(imovel))
}

// ServeImage maneja GET /images/{filename}: serve os bytes do arquivo depois
// de revalidar que o caminho fica dentro do diretório de imagens
func (ctrl *ImovelController) ServeImage(c *gin.Context) {
	path, err := ctrl.images.Resolve(c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(path)
}

func imovelID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "invalid imovel id",
		})
		return 0, false
	}
	return uint(id), true
}

// formFiles retorna os uploads do campo multipart, ou nil quando o form não
// tem arquivos
func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

package dto

import (
	"fmt"

	"imoveis-api/domain"
)

// ImovelCreateRequest representa o request multipart para criar um imóvel
type ImovelCreateRequest struct {
	Titulo         string  `form:"titulo" binding:"required"`
	Descricao      string  `form:"descricao" binding:"required"`
	Metragem       int     `form:"metragem" binding:"required,gt=0"`
	Quartos        int     `form:"quartos" binding:"required,gte=0"`
	DistanciaPraia string  `form:"distancia_praia" binding:"required"`
	TipoAluguel    string  `form:"tipo_aluguel" binding:"required"`
	Mobilhada      bool    `form:"mobilhada"`
	Preco          float64 `form:"preco" binding:"required,gte=0"`
}

// ImovelUpdateRequest representa o request de atualização (PUT).
// A atualização substitui todos os atributos mutáveis do imóvel.
type ImovelUpdateRequest struct {
	Titulo         string  `form:"titulo" binding:"required"`
	Descricao      string  `form:"descricao" binding:"required"`
	Metragem       int     `form:"metragem" binding:"required,gt=0"`
	Quartos        int     `form:"quartos" binding:"required,gte=0"`
	DistanciaPraia string  `form:"distancia_praia" binding:"required"`
	TipoAluguel    string  `form:"tipo_aluguel" binding:"required"`
	Mobilhada      bool    `form:"mobilhada"`
	Preco          float64 `form:"preco" binding:"required,gte=0"`
}

// ImovelFilters representa os filtros de listagem; compõem conjuntivamente
type ImovelFilters struct {
	Quartos        *int   `form:"quartos"`
	TipoAluguel    string `form:"tipo_aluguel"`
	DistanciaPraia string `form:"distancia_praia"`
}

// CacheKey gera a chave de cache da listagem a partir dos filtros,
// disponibilidade e paginação
func (f ImovelFilters) CacheKey(disponivel bool, page, pageSize int) string {
	quartos := -1
	if f.Quartos != nil {
		quartos = *f.Quartos
	}
	return fmt.Sprintf("imoveis:%t:q=%d:t=%s:d=%s:p=%d:s=%d",
		disponivel, quartos, f.TipoAluguel, f.DistanciaPraia, page, pageSize)
}

// ImovelOut representa a resposta pública de um imóvel
type ImovelOut struct {
	ID             uint     `json:"id"`
	Titulo         string   `json:"titulo"`
	Descricao      string   `json:"descricao"`
	Metragem       int      `json:"metragem"`
	Quartos        int      `json:"quartos"`
	DistanciaPraia string   `json:"distancia_praia"`
	TipoAluguel    string   `json:"tipo_aluguel"`
	Mobilhada      bool     `json:"mobilhada"`
	Preco          float64  `json:"preco"`
	Disponivel     bool     `json:"disponivel"`
	OwnerID        uint     `json:"owner_id"`
	Imagens        []string `json:"imagens"`
}

// NewImovelOut converte a entidade Imovel para a resposta pública; cada
// imagem vira a URL servida pela própria API
func NewImovelOut(im *domain.Imovel) ImovelOut {
	imagens := make([]string, 0, len(im.Images))
	for _, img := range im.Images {
		imagens = append(imagens, "/images/"+img.Filename)
	}
	return ImovelOut{
		ID:             im.ID,
		Titulo:         im.Titulo,
		Descricao:      im.Descricao,
		Metragem:       im.Metragem,
		Quartos:        im.Quartos,
		DistanciaPraia: im.DistanciaPraia,
		TipoAluguel:    im.TipoAluguel,
		Mobilhada:      im.Mobilhada,
		Preco:          im.Preco,
		Disponivel:     im.Disponivel,
		OwnerID:        im.OwnerID,
		Imagens:        imagens,
	}
}

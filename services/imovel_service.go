package services

import (
	"context"
	"mime/multipart"

	"imoveis-api/domain"
	"imoveis-api/dto"
	"imoveis-api/logger"
	"imoveis-api/publishers"
	"imoveis-api/repositories"
)

// ImovelService define a interface do serviço de imóveis
type ImovelService interface {
	CreateImovel(ctx context.Context, req dto.ImovelCreateRequest, ownerID uint, files []*multipart.FileHeader) (*domain.Imovel, error)
	UpdateImovel(ctx context.Context, id uint, req dto.ImovelUpdateRequest, files []*multipart.FileHeader) (*domain.Imovel, error)
	ToggleDisponibilidade(ctx context.Context, id uint) (*domain.Imovel, error)
	AddImages(ctx context.Context, id uint, files []*multipart.FileHeader) (*domain.Imovel, error)
	ListImoveis(ctx context.Context, filters dto.ImovelFilters, page dto.PaginationParams, disponivel bool) (*dto.PaginatedResponse[dto.ImovelOut], error)
}

type imovelService struct {
	repo      repositories.ImovelRepository
	cache     repositories.ListingCache
	images    ImageService
	publisher publishers.Publisher
}

// NewImovelService cria uma nova instância do serviço de imóveis
func NewImovelService(repo repositories.ImovelRepository, cache repositories.ListingCache, images ImageService, publisher publishers.Publisher) ImovelService {
	return &imovelService{repo: repo, cache: cache, images: images, publisher: publisher}
}

// CreateImovel grava as imagens, cria o imóvel numa transação e invalida o
// cache de listagens. disponivel nasce sempre true. Se a transação falhar,
// as imagens já gravadas são removidas do disco.
func (s *imovelService) CreateImovel(ctx context.Context, req dto.ImovelCreateRequest, ownerID uint, files []*multipart.FileHeader) (*domain.Imovel, error) {
	images, err := s.images.Store(files)
	if err != nil {
		return nil, err
	}

	imovel := &domain.Imovel{
		Titulo:         req.Titulo,
		Descricao:      req.Descricao,
		Metragem:       req.Metragem,
		Quartos:        req.Quartos,
		DistanciaPraia: req.DistanciaPraia,
		TipoAluguel:    req.TipoAluguel,
		Mobilhada:      req.Mobilhada,
		Preco:          req.Preco,
		Disponivel:     true,
		OwnerID:        ownerID,
	}

	if err := s.repo.Create(ctx, imovel, images); err != nil {
		s.images.Remove(images)
		logger.L.Error().Err(err).Msg("error creating imovel")
		return nil, err
	}

	s.cache.Clear()
	s.publisher.PublishImovelEvent("create", imovel.ID)
	return imovel, nil
}

// UpdateImovel substitui os atributos mutáveis, associa imagens novas e
// invalida o cache
func (s *imovelService) UpdateImovel(ctx context.Context, id uint, req dto.ImovelUpdateRequest, files []*multipart.FileHeader) (*domain.Imovel, error) {
	images, err := s.images.Store(files)
	if err != nil {
		return nil, err
	}

	imovel := &domain.Imovel{
		ID:             id,
		Titulo:         req.Titulo,
		Descricao:      req.Descricao,
		Metragem:       req.Metragem,
		Quartos:        req.Quartos,
		DistanciaPraia: req.DistanciaPraia,
		TipoAluguel:    req.TipoAluguel,
		Mobilhada:      req.Mobilhada,
		Preco:          req.Preco,
	}

	if err := s.repo.Update(ctx, imovel, images); err != nil {
		s.images.Remove(images)
		return nil, err
	}

	s.cache.Clear()
	s.publisher.PublishImovelEvent("update", id)
	return imovel, nil
}

// ToggleDisponibilidade inverte a flag do imóvel e invalida o cache para que
// a próxima listagem já reflita o novo estado
func (s *imovelService) ToggleDisponibilidade(ctx context.Context, id uint) (*domain.Imovel, error) {
	imovel, err := s.repo.ToggleDisponibilidade(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Clear()
	s.publisher.PublishImovelEvent("toggle", id)
	return imovel, nil
}

// AddImages grava os uploads e associa ao imóvel; se o imóvel não existir,
// nenhum arquivo fica no disco e nenhuma linha é persistida
func (s *imovelService) AddImages(ctx context.Context, id uint, files []*multipart.FileHeader) (*domain.Imovel, error) {
	images, err := s.images.Store(files)
	if err != nil {
		return nil, err
	}

	imovel, err := s.repo.AddImages(ctx, id, images)
	if err != nil {
		s.images.Remove(images)
		return nil, err
	}

	s.cache.Clear()
	s.publisher.PublishImovelEvent("update", id)
	return imovel, nil
}

// ListImoveis responde listagens paginadas e filtradas, memoizadas no cache
// com TTL. Uma página além do total retorna items vazio.
func (s *imovelService) ListImoveis(ctx context.Context, filters dto.ImovelFilters, page dto.PaginationParams, disponivel bool) (*dto.PaginatedResponse[dto.ImovelOut], error) {
	page.Normalize()
	key := filters.CacheKey(disponivel, page.Page, page.PageSize)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	imoveis, total, err := s.repo.List(ctx, filters, disponivel, page.Offset(), page.PageSize)
	if err != nil {
		logger.L.Error().Err(err).Msg("error listing imoveis")
		return nil, err
	}

	items := make([]dto.ImovelOut, 0, len(imoveis))
	for i := range imoveis {
		items = append(items, dto.NewImovelOut(&imoveis[i]))
	}
	result := dto.NewPaginatedResponse(items, total, page.Page, page.PageSize)
	s.cache.Set(key, result)
	return result, nil
}

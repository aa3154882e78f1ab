package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"imoveis-api/domain"
	"imoveis-api/dto"
)

// ImovelRepository define a interface do repositório de imóveis
type ImovelRepository interface {
	Create(ctx context.Context, imovel *domain.Imovel, images []domain.Image) error
	GetByID(ctx context.Context, id uint) (*domain.Imovel, error)
	Update(ctx context.Context, imovel *domain.Imovel, newImages []domain.Image) error
	ToggleDisponibilidade(ctx context.Context, id uint) (*domain.Imovel, error)
	AddImages(ctx context.Context, imovelID uint, images []domain.Image) (*domain.Imovel, error)
	List(ctx context.Context, filters dto.ImovelFilters, disponivel bool, offset, limit int) ([]domain.Imovel, int64, error)
}

type imovelRepository struct {
	db *gorm.DB
}

// NewImovelRepository cria uma nova instância do repositório de imóveis
func NewImovelRepository(db *gorm.DB) ImovelRepository {
	return &imovelRepository{db: db}
}

// Create insere o imóvel e as imagens associadas numa única transação;
// qualquer falha desfaz todas as escritas anteriores.
func (r *imovelRepository) Create(ctx context.Context, imovel *domain.Imovel, images []domain.Image) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(imovel).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ImovelID = imovel.ID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		imovel.Images = images
		return nil
	})
}

func (r *imovelRepository) GetByID(ctx context.Context, id uint) (*domain.Imovel, error) {
	var imovel domain.Imovel
	err := r.db.WithContext(ctx).Preload("Images").First(&imovel, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &imovel, nil
}

// Update substitui os atributos mutáveis e associa imagens novas (se houver)
// numa única transação
func (r *imovelRepository) Update(ctx context.Context, imovel *domain.Imovel, newImages []domain.Image) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Imovel{}).
			Where("id = ?", imovel.ID).
			Updates(map[string]interface{}{
				"titulo":          imovel.Titulo,
				"descricao":       imovel.Descricao,
				"metragem":        imovel.Metragem,
				"quartos":         imovel.Quartos,
				"distancia_praia": imovel.DistanciaPraia,
				"tipo_aluguel":    imovel.TipoAluguel,
				"mobilhada":       imovel.Mobilhada,
				"preco":           imovel.Preco,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Confirma se o imóvel existe: Updates sem mudança também
			// reporta zero linhas afetadas
			var count int64
			if err := tx.Model(&domain.Imovel{}).Where("id = ?", imovel.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domain.ErrNotFound
			}
		}
		for i := range newImages {
			newImages[i].ImovelID = imovel.ID
		}
		if len(newImages) > 0 {
			if err := tx.Create(&newImages).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Images").First(imovel, imovel.ID).Error
	})
}

// ToggleDisponibilidade inverte a flag disponivel do imóvel
func (r *imovelRepository) ToggleDisponibilidade(ctx context.Context, id uint) (*domain.Imovel, error) {
	var imovel domain.Imovel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Images").First(&imovel, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		imovel.Disponivel = !imovel.Disponivel
		return tx.Model(&domain.Imovel{}).
			Where("id = ?", id).
			Update("disponivel", imovel.Disponivel).Error
	})
	if err != nil {
		return nil, err
	}
	return &imovel, nil
}

// AddImages associa imagens já gravadas em disco a um imóvel existente.
// Se o imóvel não existir nada é persistido.
func (r *imovelRepository) AddImages(ctx context.Context, imovelID uint, images []domain.Image) (*domain.Imovel, error) {
	var imovel domain.Imovel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&imovel, imovelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		for i := range images {
			images[i].ImovelID = imovelID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Images").First(&imovel, imovelID).Error
	})
	if err != nil {
		return nil, err
	}
	return &imovel, nil
}

// List retorna uma página de imóveis com a disponibilidade pedida aplicando
// os filtros conjuntivamente, mais o total de registros que casam
func (r *imovelRepository) List(ctx context.Context, filters dto.ImovelFilters, disponivel bool, offset, limit int) ([]domain.Imovel, int64, error) {
	// Monta a query filtrada do zero para cada finisher; reusar a mesma
	// cadeia entre Count e Find contamina o statement do GORM
	filtered := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&domain.Imovel{}).Where("disponivel = ?", disponivel)
		if filters.Quartos != nil {
			query = query.Where("quartos >= ?", *filters.Quartos)
		}
		if filters.TipoAluguel != "" {
			query = query.Where("tipo_aluguel = ?", filters.TipoAluguel)
		}
		if filters.DistanciaPraia != "" {
			query = query.Where("distancia_praia = ?", filters.DistanciaPraia)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var imoveis []domain.Imovel
	err := filtered().
		Preload("Images").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&imoveis).Error
	if err != nil {
		return nil, 0, err
	}
	return imoveis, total, nil
}

package repositories

import (
	"time"

	"github.com/karlseguin/ccache/v3"

	"imoveis-api/dto"
	"imoveis-api/logger"
)

// ListingCache define a interface do cache de listagens de imóveis
type ListingCache interface {
	Get(key string) (*dto.PaginatedResponse[dto.ImovelOut], bool)
	Set(key string, value *dto.PaginatedResponse[dto.ImovelOut])
	// Clear limpa o cache inteiro; chamado em qualquer mutação de imóvel
	// para garantir que nenhuma disponibilidade velha seja servida
	Clear()
	Enabled() bool
	Len() int
	TTL() time.Duration
}

// listingCache implementa ListingCache sobre um ccache local com TTL.
// Com o flag desabilitado, Get sempre falha e Set/Clear são no-ops.
type listingCache struct {
	enabled bool
	ttl     time.Duration
	cache   *ccache.Cache[*dto.PaginatedResponse[dto.ImovelOut]]
}

// NewListingCache cria uma nova instância do cache de listagens
func NewListingCache(enabled bool, ttl time.Duration) ListingCache {
	var cache *ccache.Cache[*dto.PaginatedResponse[dto.ImovelOut]]
	if enabled {
		cache = ccache.New(ccache.Configure[*dto.PaginatedResponse[dto.ImovelOut]]().MaxSize(1000))
	}
	return &listingCache{
		enabled: enabled,
		ttl:     ttl,
		cache:   cache,
	}
}

// Get obtém uma listagem do cache; entradas expiradas contam como miss
func (c *listingCache) Get(key string) (*dto.PaginatedResponse[dto.ImovelOut], bool) {
	if !c.enabled {
		return nil, false
	}
	item := c.cache.Get(key)
	if item == nil || item.Expired() {
		logger.L.Debug().Str("key", key).Msg("cache miss")
		return nil, false
	}
	logger.L.Debug().Str("key", key).Msg("cache hit")
	return item.Value(), true
}

// Set guarda uma listagem com o TTL configurado, sobrescrevendo a entrada
func (c *listingCache) Set(key string, value *dto.PaginatedResponse[dto.ImovelOut]) {
	if !c.enabled {
		return
	}
	c.cache.Set(key, value, c.ttl)
	logger.L.Debug().Str("key", key).Dur("ttl", c.ttl).Msg("cache set")
}

func (c *listingCache) Clear() {
	if !c.enabled {
		return
	}
	c.cache.Clear()
	logger.L.Debug().Msg("cache cleared")
}

func (c *listingCache) Enabled() bool {
	return c.enabled
}

// Len retorna o número de entradas vivas; usado no health check
func (c *listingCache) Len() int {
	if !c.enabled {
		return 0
	}
	return c.cache.ItemCount()
}

func (c *listingCache) TTL() time.Duration {
	return c.ttl
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"imoveis-api/config"
	"imoveis-api/middleware"
	"imoveis-api/repositories"
)

// HealthController expõe os endpoints de saúde do serviço
type HealthController struct {
	db      *gorm.DB
	cache   repositories.ListingCache
	limiter *middleware.RateLimiter
	cfg     *config.Config
}

// NewHealthController cria uma nova instância do controller
func NewHealthController(db *gorm.DB, cache repositories.ListingCache, limiter *middleware.RateLimiter, cfg *config.Config) *HealthController {
	return &HealthController{db: db, cache: cache, limiter: limiter, cfg: cfg}
}

// Status maneja GET /health/: estado agregado do serviço e dos subsistemas
func (ctrl *HealthController) Status(c *gin.Context) {
	dbStatus := "ok"
	if err := ctrl.ping(); err != nil {
		dbStatus = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"cache": gin.H{
			"enabled":     ctrl.cache.Enabled(),
			"entries":     ctrl.cache.Len(),
			"ttl_seconds": int(ctrl.cache.TTL().Seconds()),
		},
		"rate_limit": gin.H{
			"enabled":    ctrl.limiter.Enabled(),
			"per_minute": ctrl.cfg.RateLimitPerMinute,
		},
	})
}

// Ready maneja GET /health/ready: 503 enquanto o banco não responde
func (ctrl *HealthController) Ready(c *gin.Context) {
	if err := ctrl.ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live maneja GET /health/live: sempre 200 enquanto o processo atende
func (ctrl *HealthController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (ctrl *HealthController) ping() error {
	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

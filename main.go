package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"imoveis-api/config"
	"imoveis-api/controllers"
	"imoveis-api/domain"
	"imoveis-api/logger"
	"imoveis-api/middleware"
	"imoveis-api/publishers"
	"imoveis-api/repositories"
	"imoveis-api/services"
	"imoveis-api/utils"
)

func main() {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		logger.L.Fatal().Err(err).Msg("Error configurando logger")
	}

	db, err := gorm.Open(mysql.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.L.Fatal().Err(err).Msg("Error conectando ao banco de dados")
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Imovel{}, &domain.Image{}); err != nil {
		logger.L.Fatal().Err(err).Msg("Error migrando o esquema")
	}

	tokens, err := utils.NewTokenManager(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenExpireMinutes)
	if err != nil {
		logger.L.Fatal().Err(err).Msg("Error configurando tokens")
	}

	imageService, err := services.NewImageService(cfg.ImagesDir, cfg.MaxUploadBytes)
	if err != nil {
		logger.L.Fatal().Err(err).Msg("Error preparando diretório de imagens")
	}

	var publisher publishers.Publisher
	if cfg.RabbitMQURL != "" {
		rabbit, err := publishers.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			logger.L.Fatal().Err(err).Msg("Error conectando ao RabbitMQ")
		}
		defer rabbit.Close()
		publisher = rabbit
	} else {
		publisher = publishers.NewNoopPublisher()
	}

	// Repositórios e serviços
	userRepo := repositories.NewUserRepository(db)
	imovelRepo := repositories.NewImovelRepository(db)
	listingCache := repositories.NewListingCache(cfg.CacheEnabled, time.Duration(cfg.CacheTTLSeconds)*time.Second)

	userService := services.NewUserService(userRepo, tokens)
	imovelService := services.NewImovelService(imovelRepo, listingCache, imageService, publisher)

	// Admin inicial, idempotente
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userService.SeedAdmin(seedCtx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		cancel()
		logger.L.Fatal().Err(err).Msg("Error criando usuário admin")
	}
	cancel()

	limiter := middleware.NewRateLimiter(cfg.RateLimitEnabled)

	userController := controllers.NewUserController(userService)
	imovelController := controllers.NewImovelController(imovelService, imageService)
	healthController := controllers.NewHealthController(db, listingCache, limiter, cfg)

	router := setupRouter(cfg, limiter, tokens, userService, userController, imovelController, healthController)

	logger.L.Info().Str("port", cfg.Port).Msg("Servidor iniciando")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.L.Fatal().Err(err).Msg("Error iniciando servidor")
	}
}

func setupRouter(
	cfg *config.Config,
	limiter *middleware.RateLimiter,
	tokens *utils.TokenManager,
	userService services.UserService,
	users *controllers.UserController,
	imoveis *controllers.ImovelController,
	health *controllers.HealthController,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	auth := middleware.AuthMiddleware(tokens, userService)
	admin := middleware.AdminMiddleware()

	// Auth
	router.POST("/token", limiter.Middleware("login", cfg.RateLimitLogin), users.Token)

	// Usuários
	router.POST("/users/", limiter.Middleware("user_create", cfg.RateLimitUserCreate), auth, admin, users.CreateUser)
	router.GET("/users/", limiter.Middleware("user_list", cfg.RateLimitUserList), auth, admin, users.ListUsers)
	router.GET("/users/me", auth, users.Me)
	router.DELETE("/users/:id", auth, admin, users.DeleteUser)

	// Imóveis
	listingLimit := limiter.Middleware("listing", cfg.RateLimitListing)
	router.GET("/imoveis", listingLimit, imoveis.ListDisponiveis)
	router.GET("/imoveis_indisponiveis", listingLimit, auth, imoveis.ListIndisponiveis)
	router.POST("/imoveis", auth, imoveis.Create)
	router.PUT("/imoveis/:id", auth, imoveis.Update)
	router.PATCH("/imoveis/:id/disponibilidade", auth, imoveis.ToggleDisponibilidade)
	router.POST("/imoveis/:id/images", auth, imoveis.UploadImages)

	// Imagens
	router.GET("/images/:filename", auth, imoveis.ServeImage)

	// Health
	router.GET("/health/", health.Status)
	router.GET("/health/ready", health.Ready)
	router.GET("/health/live", health.Live)

	return router
}

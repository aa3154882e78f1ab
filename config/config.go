package config

import (
	"os"
	"strconv"
	"strings"
)

// Config contém a configuração da aplicação
type Config struct {
	// Token
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int

	// Banco de dados (DSN MySQL: usuario:senha@tcp(host:porta)/banco?parseTime=True)
	DatabaseURL string

	// Admin criado no startup (idempotente)
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	// HTTP
	Port               string
	CORSAllowedOrigins []string

	// Logging
	LogLevel string
	LogFile  string

	// Rate limiting (janela fixa de 1 minuto)
	RateLimitEnabled    bool
	RateLimitPerMinute  int
	RateLimitLogin      int
	RateLimitUserCreate int
	RateLimitUserList   int
	RateLimitListing    int

	// Cache de listagens
	CacheEnabled    bool
	CacheTTLSeconds int

	// Upload de imagens
	ImagesDir      string
	MaxUploadBytes int64

	// Eventos de mutação (vazio = desabilitado)
	RabbitMQURL   string
	RabbitMQQueue string
}

// Load carrega a configuração desde variáveis de ambiente com valores por defeito
func Load() *Config {
	cfg := &Config{
		SecretKey:                getEnv("SECRET_KEY", "default-secret-change-in-production"),
		Algorithm:                getEnv("ALGORITHM", "HS256"),
		AccessTokenExpireMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		DatabaseURL:              getEnv("DATABASE_URL", "imoveis_user:imoveis_password@tcp(localhost:3306)/imoveis_db?charset=utf8mb4&parseTime=True&loc=Local"),
		AdminUsername:            getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:               getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:            getEnv("ADMIN_PASSWORD", "admin"),
		Port:                     getEnv("SERVER_PORT", "8080"),
		CORSAllowedOrigins:       getEnvList("CORS_ALLOWED_ORIGINS", "*"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		LogFile:                  getEnv("LOG_FILE", ""),
		RateLimitEnabled:         getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitPerMinute:       getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitLogin:           getEnvInt("RATE_LIMIT_LOGIN_PER_MINUTE", 10),
		RateLimitUserCreate:      getEnvInt("RATE_LIMIT_USER_CREATE_PER_MINUTE", 5),
		RateLimitUserList:        getEnvInt("RATE_LIMIT_USER_LIST_PER_MINUTE", 30),
		RateLimitListing:         getEnvInt("RATE_LIMIT_LISTING_PER_MINUTE", 60),
		CacheEnabled:             getEnvBool("CACHE_ENABLED", true),
		CacheTTLSeconds:          getEnvInt("CACHE_TTL_SECONDS", 300),
		ImagesDir:                getEnv("IMAGES_DIR", "./images"),
		MaxUploadBytes:           int64(getEnvInt("MAX_UPLOAD_BYTES", 5*1024*1024)),
		RabbitMQURL:              getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue:            getEnv("RABBITMQ_QUEUE", "imoveis_queue"),
	}
	return cfg
}

// getEnv obtém uma variável de ambiente ou retorna um valor por defeito
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

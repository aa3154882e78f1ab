package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"imoveis-api/domain"
	"imoveis-api/dto"
)

// RateLimiter conta requests por cliente e rota numa janela fixa. Quando a
// janela vira, o contador zera por completo (o burst na borda é aceito).
// O estado é um mapa em memória compartilhado entre requests concorrentes,
// então todo acesso passa pelo mutex.
type RateLimiter struct {
	mu      sync.Mutex
	enabled bool
	window  time.Duration
	counts  map[string]*windowCounter
	now     func() time.Time
}

type windowCounter struct {
	start time.Time
	count int
}

// NewRateLimiter cria o limiter com janela de um minuto
func NewRateLimiter(enabled bool) *RateLimiter {
	return newRateLimiter(enabled, time.Minute)
}

func newRateLimiter(enabled bool, window time.Duration) *RateLimiter {
	return &RateLimiter{
		enabled: enabled,
		window:  window,
		counts:  make(map[string]*windowCounter),
		now:     time.Now,
	}
}

// Allow incrementa o contador do cliente no bucket e decide se a request
// passa. limit <= 0 significa sem limite.
func (l *RateLimiter) Allow(clientKey, bucket string, limit int) bool {
	if !l.enabled || limit <= 0 {
		return true
	}

	key := clientKey + "|" + bucket
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	counter, ok := l.counts[key]
	if !ok || now.Sub(counter.start) >= l.window {
		counter = &windowCounter{start: now}
		l.counts[key] = counter
	}
	counter.count++
	return counter.count <= limit
}

// Enabled reporta se o rate limiting está ativo; usado no health check
func (l *RateLimiter) Enabled() bool {
	return l.enabled
}

// Middleware aplica o limite por minuto do bucket usando o IP do cliente
// como chave; excedido responde 429
func (l *RateLimiter) Middleware(bucket string, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP(), bucket, perMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error:   "rate_limited",
				Message: domain.ErrRateLimited.Error(),
			})
			return
		}
		c.Next()
	}
}

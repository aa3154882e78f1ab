package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"imoveis-api/domain"
)

// TokenManager emite e valida os tokens JWT da aplicação
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	expiry time.Duration
}

// NewTokenManager cria o gerenciador de tokens com o segredo, algoritmo e
// expiração vindos da configuração. Algoritmos não-HMAC são rejeitados.
func NewTokenManager(secret, algorithm string, expireMinutes int) (*TokenManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q: only HMAC is allowed", algorithm)
	}
	return &TokenManager{
		secret: []byte(secret),
		method: method,
		expiry: time.Duration(expireMinutes) * time.Minute,
	}, nil
}

// Generate emite um token assinado com subject = username e a expiração
// configurada. Chamado depois do login exitoso.
func (m *TokenManager) Generate(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
	}
	token := jwt.NewWithClaims(m.method, claims)
	return token.SignedString(m.secret)
}

// Verify valida assinatura e expiração e retorna o subject (username).
// Qualquer falha de parsing ou validação vira domain.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

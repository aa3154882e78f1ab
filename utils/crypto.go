package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword gera o hash bcrypt de uma senha.
// Nunca guardamos senhas em texto plano.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash verifica se uma senha coincide com o hash guardado
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

package domain

import "time"

// User representa um usuário do sistema
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"unique;not null" json:"username"`
	Email          string    `gorm:"unique;not null" json:"email"`
	FullName       string    `json:"full_name"`
	HashedPassword string    `gorm:"not null" json:"-"` // O "-" oculta o hash no JSON
	IsAdmin        bool      `gorm:"default:false" json:"is_admin"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName especifica o nome da tabela no MySQL
func (User) TableName() string {
	return "users"
}

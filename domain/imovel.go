package domain

import "time"

// Imovel representa um imóvel de temporada disponível para aluguel
type Imovel struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Titulo         string    `gorm:"not null" json:"titulo"`
	Descricao      string    `gorm:"not null" json:"descricao"`
	Metragem       int       `gorm:"not null" json:"metragem"`
	Quartos        int       `gorm:"not null" json:"quartos"`
	DistanciaPraia string    `gorm:"not null" json:"distancia_praia"`
	TipoAluguel    string    `gorm:"not null" json:"tipo_aluguel"`
	Mobilhada      bool      `gorm:"not null" json:"mobilhada"`
	Preco          float64   `gorm:"not null" json:"preco"`
	Disponivel     bool      `gorm:"not null;default:true" json:"disponivel"`
	OwnerID        uint      `gorm:"index" json:"owner_id"`
	Images         []Image   `gorm:"foreignKey:ImovelID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName especifica o nome da tabela no MySQL
func (Imovel) TableName() string {
	return "imoveis"
}

// Image representa uma imagem associada a um imóvel.
// Ao apagar o imóvel as imagens são apagadas em cascata.
type Image struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Filename    string `gorm:"unique;not null;index" json:"filename"`
	ContentType string `json:"content_type"`
	ImovelID    uint   `gorm:"index;not null" json:"imovel_id"`
}

// TableName especifica o nome da tabela no MySQL
func (Image) TableName() string {
	return "images"
}

package dto

// Paginação por defeito e teto aplicados a todas as listagens
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginationParams representa os parâmetros de paginação de uma listagem
type PaginationParams struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize aplica os valores por defeito e o teto de page_size
func (p *PaginationParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset retorna o deslocamento correspondente à página normalizada
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PaginatedResponse representa uma resposta paginada genérica.
// Uma página além de total_pages produz items vazio, nunca um erro.
type PaginatedResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginatedResponse monta a resposta com total_pages = ceil(total/page_size)
func NewPaginatedResponse[T any](items []T, total int64, page, pageSize int) *PaginatedResponse[T] {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	if items == nil {
		items = []T{}
	}
	return &PaginatedResponse[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

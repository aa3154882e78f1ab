package dto

import "testing"

// Test: normalização dos parâmetros de paginação
func TestPaginationParams_Normalize(t *testing.T) {
	cases := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", 0, 0, 1, DefaultPageSize},
		{"negative page", -3, 20, 1, 20},
		{"size above cap", 1, 500, 1, MaxPageSize},
		{"valid values kept", 3, 25, 3, 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := PaginationParams{Page: tc.page, PageSize: tc.size}
			p.Normalize()
			if p.Page != tc.wantPage {
				t.Errorf("Expected page %d, got %d", tc.wantPage, p.Page)
			}
			if p.PageSize != tc.wantPageSize {
				t.Errorf("Expected page_size %d, got %d", tc.wantPageSize, p.PageSize)
			}
		})
	}
}

// Test: offset derivado da página normalizada
func TestPaginationParams_Offset(t *testing.T) {
	p := PaginationParams{Page: 3, PageSize: 10}
	if got := p.Offset(); got != 20 {
		t.Errorf("Expected offset 20, got %d", got)
	}
}

// Test: total_pages = ceil(total/page_size)
func TestNewPaginatedResponse_TotalPages(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{100, 100, 1},
	}

	for _, tc := range cases {
		resp := NewPaginatedResponse([]int{}, tc.total, 1, tc.pageSize)
		if resp.TotalPages != tc.want {
			t.Errorf("total=%d page_size=%d: expected total_pages %d, got %d",
				tc.total, tc.pageSize, tc.want, resp.TotalPages)
		}
	}
}

// Test: items nil vira slice vazia para serializar como [] e não null
func TestNewPaginatedResponse_NilItems(t *testing.T) {
	resp := NewPaginatedResponse[int](nil, 0, 1, 10)
	if resp.Items == nil {
		t.Error("Expected empty slice, got nil")
	}
	if len(resp.Items) != 0 {
		t.Errorf("Expected 0 items, got %d", len(resp.Items))
	}
}

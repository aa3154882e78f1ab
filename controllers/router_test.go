package controllers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"imoveis-api/domain"
	"imoveis-api/dto"
	"imoveis-api/middleware"
	"imoveis-api/publishers"
	"imoveis-api/repositories"
	"imoveis-api/services"
	"imoveis-api/utils"
)

// ============================================
// MOCKS dos repositórios para os tests de rotas
// ============================================

type mockUserRepository struct {
	users  map[uint]*domain.User
	nextID uint
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uint]*domain.User), nextID: 1}
}

func (m *mockUserRepository) Create(_ context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return domain.ErrConflict
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id uint) (*domain.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepository) List(_ context.Context, offset, limit int) ([]domain.User, int64, error) {
	all := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepository) Delete(_ context.Context, id uint) error {
	if _, exists := m.users[id]; !exists {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) CountAdmins(_ context.Context) (int64, error) {
	var total int64
	for _, u := range m.users {
		if u.IsAdmin {
			total++
		}
	}
	return total, nil
}

type mockImovelRepository struct {
	imoveis map[uint]*domain.Imovel
	nextID  uint
}

func newMockImovelRepository() *mockImovelRepository {
	return &mockImovelRepository{imoveis: make(map[uint]*domain.Imovel), nextID: 1}
}

func (m *mockImovelRepository) Create(_ context.Context, imovel *domain.Imovel, images []domain.Image) error {
	imovel.ID = m.nextID
	m.nextID++
	for i := range images {
		images[i].ImovelID = imovel.ID
	}
	imovel.Images = images
	stored := *imovel
	m.imoveis[imovel.ID] = &stored
	return nil
}

func (m *mockImovelRepository) GetByID(_ context.Context, id uint) (*domain.Imovel, error) {
	imovel, exists := m.imoveis[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	return imovel, nil
}

func (m *mockImovelRepository) Update(_ context.Context, imovel *domain.Imovel, newImages []domain.Image) error {
	stored, exists := m.imoveis[imovel.ID]
	if !exists {
		return domain.ErrNotFound
	}
	stored.Titulo = imovel.Titulo
	stored.Descricao = imovel.Descricao
	stored.Metragem = imovel.Metragem
	stored.Quartos = imovel.Quartos
	stored.DistanciaPraia = imovel.DistanciaPraia
	stored.TipoAluguel = imovel.TipoAluguel
	stored.Mobilhada = imovel.Mobilhada
	stored.Preco = imovel.Preco
	for i := range newImages {
		newImages[i].ImovelID = imovel.ID
	}
	stored.Images = append(stored.Images, newImages...)
	*imovel = *stored
	return nil
}

func (m *mockImovelRepository) ToggleDisponibilidade(_ context.Context, id uint) (*domain.Imovel, error) {
	imovel, exists := m.imoveis[id]
	if !exists {
		return nil, domain.ErrNotFound
	}
	imovel.Disponivel = !imovel.Disponivel
	return imovel, nil
}

func (m *mockImovelRepository) AddImages(_ context.Context, imovelID uint, images []domain.Image) (*domain.Imovel, error) {
	imovel, exists := m.imoveis[imovelID]
	if !exists {
		return nil, domain.ErrNotFound
	}
	for i := range images {
		images[i].ImovelID = imovelID
	}
	imovel.Images = append(imovel.Images, images...)
	return imovel, nil
}

func (m *mockImovelRepository) List(_ context.Context, filters dto.ImovelFilters, disponivel bool, offset, limit int) ([]domain.Imovel, int64, error) {
	matching := make([]domain.Imovel, 0)
	for _, im := range m.imoveis {
		if im.Disponivel != disponivel {
			continue
		}
		if filters.Quartos != nil && im.Quartos < *filters.Quartos {
			continue
		}
		if filters.TipoAluguel != "" && im.TipoAluguel != filters.TipoAluguel {
			continue
		}
		if filters.DistanciaPraia != "" && im.DistanciaPraia != filters.DistanciaPraia {
			continue
		}
		matching = append(matching, *im)
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].ID < matching[j].ID })
	total := int64(len(matching))
	if offset >= len(matching) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matching) {
		end = len(matching)
	}
	return matching[offset:end], total, nil
}

// ============================================
// Router de teste com a mesma tabela de rotas do serviço
// ============================================

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := utils.NewTokenManager("test-secret", "HS256", 30)
	if err != nil {
		t.Fatalf("Expected no error creating token manager, got %v", err)
	}
	imageService, err := services.NewImageService(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("Expected no error creating image service, got %v", err)
	}

	userRepo := newMockUserRepository()
	imovelRepo := newMockImovelRepository()
	cache := repositories.NewListingCache(true, time.Minute)

	userService := services.NewUserService(userRepo, tokens)
	imovelService := services.NewImovelService(imovelRepo, cache, imageService, publishers.NewNoopPublisher())

	if err := userService.SeedAdmin(context.Background(), "admin", "admin@example.com", "admin123"); err != nil {
		t.Fatalf("Expected no error seeding admin, got %v", err)
	}

	users := NewUserController(userService)
	imoveis := NewImovelController(imovelService, imageService)

	auth := middleware.AuthMiddleware(tokens, userService)
	admin := middleware.AdminMiddleware()

	router := gin.New()
	router.POST("/token", users.Token)
	router.POST("/users/", auth, admin, users.CreateUser)
	router.GET("/users/", auth, admin, users.ListUsers)
	router.GET("/users/me", auth, users.Me)
	router.DELETE("/users/:id", auth, admin, users.DeleteUser)
	router.GET("/imoveis", imoveis.ListDisponiveis)
	router.GET("/imoveis_indisponiveis", auth, imoveis.ListIndisponiveis)
	router.POST("/imoveis", auth, imoveis.Create)
	router.PUT("/imoveis/:id", auth, imoveis.Update)
	router.PATCH("/imoveis/:id/disponibilidade", auth, imoveis.ToggleDisponibilidade)
	router.POST("/imoveis/:id/images", auth, imoveis.UploadImages)
	router.GET("/images/:filename", auth, imoveis.ServeImage)
	return router
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on login, got %d: %s", w.Code, w.Body.String())
	}
	var resp dto.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Expected token response, got %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("Expected token_type bearer, got %s", resp.TokenType)
	}
	return resp.AccessToken
}

func postImovel(t *testing.T, router *gin.Engine, token string, quartos int, tipoAluguel string) dto.ImovelOut {
	t.Helper()

	var buf strings.Builder
	writer := multipart.NewWriter(&buf)
	writer.WriteField("titulo", "Casa na praia")
	writer.WriteField("descricao", "Casa ampla a duas quadras do mar")
	writer.WriteField("metragem", "120")
	writer.WriteField("quartos", strconv.Itoa(quartos))
	writer.WriteField("distancia_praia", "200m")
	writer.WriteField("tipo_aluguel", tipoAluguel)
	writer.WriteField("preco", "350.0")
	writer.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/imoveis", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var out dto.ImovelOut
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Expected imovel response, got %v", err)
	}
	return out
}

func listImoveis(t *testing.T, router *gin.Engine, path, token string) dto.PaginatedResponse[dto.ImovelOut] {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on %s, got %d: %s", path, w.Code, w.Body.String())
	}
	var page dto.PaginatedResponse[dto.ImovelOut]
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("Expected paginated response, got %v", err)
	}
	return page
}

func containsID(items []dto.ImovelOut, id uint) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// ============================================
// TESTS
// ============================================

// Test: admin do seed faz login e consulta o próprio registro
func TestRouter_SeedAdminLoginAndMe(t *testing.T) {
	router := newTestRouter(t)

	token := login(t, router, "admin", "admin123")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	// Verificações
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var me dto.UserOut
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("Expected user response, got %v", err)
	}
	if me.Username != "admin" {
		t.Errorf("Expected username admin, got %s", me.Username)
	}
	if !me.IsAdmin {
		t.Error("Expected is_admin=true for seed admin")
	}
}

// Test: login com credenciais erradas responde 401
func TestRouter_LoginWrongPassword(t *testing.T) {
	router := newTestRouter(t)

	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	// Verificações
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("Expected WWW-Authenticate: Bearer header")
	}
}

// Test: ciclo completo do imóvel: criar, filtrar, alternar disponibilidade
func TestRouter_ImovelLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "admin", "admin123")

	created := postImovel(t, router, token, 2, "mensal")
	if !created.Disponivel {
		t.Fatal("Expected new imovel to be available")
	}

	// O imóvel novo aparece na listagem pública filtrada
	page := listImoveis(t, router, "/imoveis?quartos=2", "")
	if !containsID(page.Items, created.ID) {
		t.Fatal("Expected created imovel in filtered listing")
	}

	// Alternar a disponibilidade
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/imoveis/"+strconv.FormatUint(uint64(created.ID), 10)+"/disponibilidade", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on toggle, got %d: %s", w.Code, w.Body.String())
	}

	// Verificações: some das disponíveis, aparece nas indisponíveis
	available := listImoveis(t, router, "/imoveis", "")
	if containsID(available.Items, created.ID) {
		t.Error("Expected toggled imovel to vanish from available listing")
	}
	unavailable := listImoveis(t, router, "/imoveis_indisponiveis", token)
	if !containsID(unavailable.Items, created.ID) {
		t.Error("Expected toggled imovel in unavailable listing")
	}
}

// Test: listagem de indisponíveis exige autenticação
func TestRouter_UnavailableListingRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/imoveis_indisponiveis", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

// Test: criar usuário exige admin; usuário comum recebe 403
func TestRouter_CreateUserRequiresAdmin(t *testing.T) {
	router := newTestRouter(t)
	adminToken := login(t, router, "admin", "admin123")

	// Admin cria um usuário comum
	body := `{"username":"bob","email":"bob@example.com","password":"secret123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// O usuário comum não pode criar outros
	bobToken := login(t, router, "bob", "secret123")
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(
		`{"username":"eve","email":"eve@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bobToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", w.Code)
	}
}

// Test: username duplicado responde 409
func TestRouter_DuplicateUserConflict(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "admin", "admin123")

	body := `{"username":"admin","email":"x@example.com","password":"secret123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", w.Code)
	}
}

// Test: apagar o último admin responde 409
func TestRouter_DeleteLastAdminConflict(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "admin", "admin123")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/users/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", w.Code)
	}
}

// Test: imagem desconhecida responde 404
func TestRouter_ServeImageNotFound(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "admin", "admin123")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/images/nao-existe.png", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

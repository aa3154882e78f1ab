package services

import (
	"context"
	"fmt"

	"imoveis-api/domain"
	"imoveis-api/dto"
	"imoveis-api/logger"
	"imoveis-api/repositories"
	"imoveis-api/utils"
)

// UserService define a interface do serviço de usuários
type UserService interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context, page dto.PaginationParams) (*dto.PaginatedResponse[dto.UserOut], error)
	DeleteUser(ctx context.Context, id uint) error
	Login(ctx context.Context, username, password string) (string, error)
	SeedAdmin(ctx context.Context, username, email, password string) error
}

type userService struct {
	repo   repositories.UserRepository
	tokens *utils.TokenManager
}

// NewUserService cria uma nova instância do serviço de usuários
func NewUserService(repo repositories.UserRepository, tokens *utils.TokenManager) UserService {
	return &userService{repo: repo, tokens: tokens}
}

// CreateUser cria um novo usuário; username duplicado resulta em ErrConflict.
// A verificação é check-then-create protegida pela constraint de unicidade.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: username %q", domain.ErrConflict, req.Username)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: hashed,
		IsAdmin:        req.IsAdmin,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		logger.L.Error().Err(err).Str("username", req.Username).Msg("error creating user")
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// ListUsers retorna uma página de usuários ordenada por id
func (s *userService) ListUsers(ctx context.Context, page dto.PaginationParams) (*dto.PaginatedResponse[dto.UserOut], error) {
	page.Normalize()
	users, total, err := s.repo.List(ctx, page.Offset(), page.PageSize)
	if err != nil {
		logger.L.Error().Err(err).Msg("error listing users")
		return nil, err
	}
	items := make([]dto.UserOut, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserOut(&users[i]))
	}
	return dto.NewPaginatedResponse(items, total, page.Page, page.PageSize), nil
}

// DeleteUser apaga um usuário por id. Apagar o último admin é proibido
// para evitar perder o acesso administrativo.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		admins, err := s.repo.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return domain.ErrLastAdmin
		}
	}
	return s.repo.Delete(ctx, id)
}

// Login autentica o usuário e emite um token JWT. O erro é sempre genérico:
// não revelamos se o username existe ou não.
func (s *userService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.HashedPassword) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		logger.L.Error().Err(err).Str("username", username).Msg("error generating token")
		return "", fmt.Errorf("generating token: %w", err)
	}
	return token, nil
}

// SeedAdmin cria o admin configurado se ainda não existir (idempotente);
// executado uma vez no arranque do processo
func (s *userService) SeedAdmin(ctx context.Context, username, email, password string) error {
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil
	}
	_, err := s.CreateUser(ctx, dto.CreateUserRequest{
		Username: username,
		Email:    email,
		FullName: "Administrador",
		Password: password,
		IsAdmin:  true,
	})
	if err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}
	logger.L.Info().Str("username", username).Msg("seed admin created")
	return nil
}

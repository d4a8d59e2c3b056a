package users

import (
	"context"
	"strings"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/Domenick1991/flightcatalog/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserUseCase interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (uuid.UUID, error)
	List(ctx context.Context) ([]domain.User, error)
}

type LoginResult struct {
	DisplayedName string  `json:"displayed_name"`
	Token         *string `json:"token"`
}

type RegisterInput struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	DisplayedName string `json:"displayed_name"`
}

type UserService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || password != user.PasswordHash {
		return nil, domain.Unauthorized("invalid credentials")
	}

	displayed := user.DisplayName
	if strings.TrimSpace(displayed) == "" {
		displayed = user.Username
	}
	// No token issuance yet.
	return &LoginResult{DisplayedName: displayed, Token: nil}, nil
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (uuid.UUID, error) {
	if strings.TrimSpace(input.Username) == "" {
		return uuid.Nil, domain.BadRequest("username is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return uuid.Nil, domain.BadRequest("email is required")
	}
	if input.Password == "" {
		return uuid.Nil, domain.BadRequest("password is required")
	}

	taken, err := s.repo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return uuid.Nil, err
	}
	if taken {
		return uuid.Nil, domain.BadRequest("username already registered")
	}
	taken, err = s.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return uuid.Nil, err
	}
	if taken {
		return uuid.Nil, domain.BadRequest("email already registered")
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: input.Password,
		DisplayName:  input.DisplayedName,
	}
	saved, err := s.repo.Create(ctx, user)
	if err != nil {
		return uuid.Nil, err
	}
	s.logger.Info("registered user", zap.String("username", saved.Username))
	return saved.ID, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

var _ UserUseCase = (*UserService)(nil)

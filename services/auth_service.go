package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/pokedex-tracker/models"
	"github.com/Dosada05/pokedex-tracker/repositories"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, models.TokenPair, error)
	Login(ctx context.Context, username, password string) (*models.User, models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	tokens    *TokenManager
}

func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, tokens *TokenManager) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) (*models.User, models.TokenPair, error) {
	if username == "" || password == "" {
		return nil, models.TokenPair{}, ErrCredentialsRequired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserUsernameConflict) {
			return nil, models.TokenPair{}, ErrUsernameTaken
		}
		return nil, models.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, models.TokenPair{}, err
	}

	user.PasswordHash = ""
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, models.TokenPair, error) {
	if username == "" || password == "" {
		return nil, models.TokenPair{}, ErrCredentialsRequired
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, models.TokenPair{}, ErrInvalidCredentials
		}
		return nil, models.TokenPair{}, fmt.Errorf("failed to find user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, models.TokenPair{}, ErrInvalidCredentials
		}
		return nil, models.TokenPair{}, fmt.Errorf("failed to compare password hash: %w", err)
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, models.TokenPair{}, err
	}

	user.PasswordHash = ""
	return user, pair, nil
}

// Refresh выпускает новую пару по действующему refresh-токену.
// Отозванный (logout) токен отклоняется как невалидный.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}

	revoked, err := s.tokenRepo.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return models.TokenPair{}, ErrInvalidToken
	}

	return s.tokens.IssuePair(&models.User{ID: claims.UserID, Username: claims.Username})
}

// Logout заносит jti refresh-токена в список отозванных.
// Некорректный токен возвращает ошибку разбора как есть — наружу она
// уходит как внутренняя ошибка, а не как 401.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return fmt.Errorf("failed to parse refresh token: %v", err)
	}

	if err := s.tokenRepo.Revoke(ctx, claims.JTI, claims.UserID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

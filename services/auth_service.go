package services

import (
	"context"
	"ecommerce/jwt"
	"ecommerce/models"
	"ecommerce/repository"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

type TokenIssuer interface {
	GenerateToken(userID uint, username string) (token, tokenID string, expiresAt time.Time, err error)
	VerifyToken(token string) (*jwt.Claims, error)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type AuthService struct {
	users    repository.UserStore
	tokens   repository.TokenStore
	hasher   PasswordHasher
	issuer   TokenIssuer
	validate *validator.Validate
}

func NewAuthService(users repository.UserStore, tokens repository.TokenStore, hasher PasswordHasher, issuer TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		issuer:   issuer,
		validate: newValidator(),
	}
}

// 驗證帳密並發出Token，記錄jti供登出使用
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	if err := s.validate.Struct(req); err != nil {
		return "", validationError(err)
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
		}
		return "", err
	}
	if err := s.hasher.Compare(user.Password, req.Password); err != nil {
		return "", fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}

	token, tokenID, expiresAt, err := s.issuer.GenerateToken(user.ID, user.Username)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Save(ctx, &models.LoginToken{
		TokenID:        tokenID,
		ExpirationTime: expiresAt,
		UserID:         user.ID,
	}); err != nil {
		return "", err
	}

	log.Info().Str("username", user.Username).Msg("登入成功")
	return token, nil
}

// 檢查Token簽章且尚未登出
func (s *AuthService) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.issuer.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	exists, err := s.tokens.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: token has been revoked", ErrUnauthorized)
	}
	return claims, nil
}

func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	deleted, err := s.tokens.Delete(ctx, tokenID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: token %s", ErrNotFound, tokenID)
	}
	return nil
}

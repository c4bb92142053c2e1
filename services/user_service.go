package services

import (
	"context"
	"ecommerce/events"
	"ecommerce/models"
	"ecommerce/repository"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const MinPasswordLength = 7

type CreateUserRequest struct {
	Username        string `json:"username" validate:"required,max=50,username"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type UserService struct {
	users    repository.UserStore
	hasher   PasswordHasher
	events   events.Publisher
	validate *validator.Validate
}

func NewUserService(users repository.UserStore, hasher PasswordHasher, publisher events.Publisher) *UserService {
	return &UserService{
		users:    users,
		hasher:   hasher,
		events:   publisher,
		validate: newValidator(),
	}
}

// 註冊使用者，只儲存Hash後的密碼
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	//檢查使用者名稱是否重複
	_, err := s.users.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, fmt.Errorf("%w: username %q is already taken", ErrValidation, req.Username)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Password: hashedPassword,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username %q is already taken", ErrValidation, req.Username)
		}
		return nil, err
	}

	log.Info().Uint("user", user.ID).Str("username", user.Username).Msg("使用者已成功註冊")
	publish(ctx, s.events, events.UserCreated, events.UserCreatedPayload{
		UserID:   user.ID,
		Username: user.Username,
	})
	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user %d", id)
	}
	return user, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, lookupError(err, "user %q", username)
	}
	return user, nil
}

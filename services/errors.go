package services

import (
	"context"
	"ecommerce/events"
	"ecommerce/repository"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func newValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) >= MinPasswordLength
	})
	return validate
}

func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		if fe.Tag() == "password" {
			return fmt.Errorf("%w: %s must be at least %d characters", ErrValidation, fe.Field(), MinPasswordLength)
		}
		if fe.Param() != "" {
			return fmt.Errorf("%w: %s failed on %s=%s", ErrValidation, fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%w: %s failed on %s", ErrValidation, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// 將repository的找不到轉為ErrNotFound，其餘錯誤原樣回傳
func lookupError(err error, format string, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}

// 事件發布失敗只記錄，不影響請求結果
func publish(ctx context.Context, publisher events.Publisher, routingKey string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, routingKey, payload); err != nil {
		log.Warn().Err(err).Str("event", routingKey).Msg("發布事件失敗")
	}
}

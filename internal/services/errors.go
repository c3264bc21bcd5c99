package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("referenced job does not exist")
	ErrDuplicate        = errors.New("already exists")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("invalid email or password")
	// ErrUpstream marks a failed call to the language model.
	ErrUpstream = errors.New("language model request failed")
)

// translate maps gorm errors onto the service sentinels. what names the
// entity for the message, e.g. "job 3".
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", what, ErrInvalidReference)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

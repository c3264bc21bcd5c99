package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/resume-screener/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		// Multi-byte passwords can pass the 72 character check and still exceed 72 bytes.
		return nil, fmt.Errorf("password is longer than 72 bytes: %w", ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("user %s", email))
	}
	return user, nil
}

// Authenticate returns ErrUnauthorized for both unknown emails and wrong
// passwords so callers cannot tell which accounts exist.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, translate(err, "authenticate")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

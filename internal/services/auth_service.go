package services

import (
	"context"

	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/security"
	"github.com/mrouhi13/laum/pkg/errors"
	"github.com/mrouhi13/laum/pkg/logger"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint) error
}

type AuthService struct {
	users UserStore
	cfg   *config.Config
}

func NewAuthService(users UserStore, cfg *config.Config) *AuthService {
	return &AuthService{users: users, cfg: cfg}
}

// Login checks staff credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	invalid := errors.New(errors.ErrCodeUnauthorized, "ایمیل یا رمز عبور اشتباه است")

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeNotFound {
			return "", invalid
		}
		return "", err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		logger.Warn("Failed staff login", "email", user.Email)
		return "", invalid
	}
	if !user.CanModerate() {
		return "", errors.New(errors.ErrCodeForbidden, "این حساب دسترسی مدیریت ندارد")
	}

	token, err := security.GenerateJWT(user.ID, user.Email, user.IsSuperuser, s.cfg.JWTSecret, security.DefaultTokenTTL)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to sign token")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	}
	logger.Info("Staff logged in", "user_id", user.ID, "name", user.FullName())
	return token, nil
}

// CreateStaff registers a staff account
func (s *AuthService) CreateStaff(ctx context.Context, email, password, firstName, lastName string, superuser bool) (*models.User, error) {
	normalized, ok := security.NormalizeEmail(email)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "ایمیل معتبر نیست")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, err.Error())
	}

	user := &models.User{
		Email:        normalized,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		IsStaff:      true,
		IsSuperuser:  superuser,
		IsActive:     true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("Staff user created", "email", user.Email, "superuser", superuser)
	return user, nil
}

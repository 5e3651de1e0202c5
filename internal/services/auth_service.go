package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"inspection-system/internal/dto"
	"inspection-system/internal/entities"
	"inspection-system/internal/repositories"
	apperrors "inspection-system/pkg/errors"
	"inspection-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error)
	// EnsureAdmin creates the master admin when no admin exists yet.
	// It reports whether a user was created.
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

type AuthService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) AuthServiceInterface {
	return &AuthService{userRepo: userRepo, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, payload.Username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		s.logger.Warn("Login: senha incorreta", zap.String("username", payload.Username))
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.userRepo.CountByRole(ctx, entities.RoleAdmin)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if len(password) < 6 {
		return false, apperrors.NewInvalidInputError("a senha do administrador precisa ter ao menos 6 caracteres")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}
	id, err := s.userRepo.Create(ctx, entities.User{
		Username:     username,
		PasswordHash: hash,
		Cargo:        "Administrador",
		Role:         entities.RoleAdmin,
	})
	if err != nil {
		// Another process won the race.
		if errors.Is(err, apperrors.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("administrador master criado", zap.String("userID", id), zap.String("username", username))
	return true, nil
}

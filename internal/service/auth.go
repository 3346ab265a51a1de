package service

import (
	"context"
	"errors"
	"fmt"

	"tripdesk-backend/internal/domain"
	"tripdesk-backend/internal/repository"
	"tripdesk-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	staffRepo    repository.StaffRepository
	tokenManager security.TokenManager
}

func NewAuthService(staffRepo repository.StaffRepository, tokenManager security.TokenManager) AuthService {
	return &authService{
		staffRepo:    staffRepo,
		tokenManager: tokenManager,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.StaffUser, error) {
	user, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return "", nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}

	token, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return token, user, nil
}

func (s *authService) CreateStaffUser(ctx context.Context, email, name, password string, role domain.StaffRole) (*domain.StaffUser, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	if role != domain.StaffRoleCoordinator && role != domain.StaffRoleAdmin {
		return nil, fmt.Errorf("unknown staff role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.StaffUser{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.staffRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

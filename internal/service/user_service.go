package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"billmunshi/internal/domain"
	"billmunshi/internal/port"
)

// CreateUserInput is the DTO for adding an operator to an organization.
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"full_name" binding:"required"`
	Role     domain.UserRole `json:"role"`
}

// UserService manages the operators within an organization.
type UserService interface {
	Create(ctx context.Context, orgID uuid.UUID, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, orgID, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.User, int, error)
}

type userService struct {
	userRepo port.UserRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(userRepo port.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, orgID uuid.UUID, input CreateUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if existing, err := s.userRepo.GetByEmail(ctx, orgID, email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("userService.Create: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}

	user := &domain.User{
		OrgID:        orgID,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("userService.Create: %w", err)
	}
	log.Printf("userService.Create: created user %s (%s) in org %s", user.Email, user.ID, orgID)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, orgID, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, orgID, userID)
}

func (s *userService) List(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.User, int, error) {
	return s.userRepo.ListByOrg(ctx, orgID, offset, limit)
}

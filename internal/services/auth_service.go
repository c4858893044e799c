package services

import (
	"errors"
	"strings"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/repositories"
	"gigmarket_backend/internal/services/dto"
	"gigmarket_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Signup(db *gorm.DB, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	CurrentUser(db *gorm.DB, caller auth.CallerContext) (*dto.PublicProfile, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Signup(db *gorm.DB, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	if !auth.ValidateRole(req.UserType) {
		return nil, apperrors.ValidationError(map[string]string{"userType": "userType must be client or freelancer"})
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	email := normalizeEmail(req.Email)
	if _, err := s.userRepo.FindByEmail(db, email); err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, handleUserError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         req.UserType,
		Skills:       []string{},
	}
	// гонка двух регистраций ловится уникальным индексом
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, handleUserError(err)
	}
	logger.CtxInfo(dbContext(db), "user registered", "user_id", user.ID, "role", user.Role)

	return s.issue(user)
}

func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, handleUserError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authService) CurrentUser(db *gorm.DB, caller auth.CallerContext) (*dto.PublicProfile, error) {
	user, err := s.userRepo.FindByID(db, caller.UserID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return dto.NewPublicProfile(user), nil
}

func (s *authService) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{Token: token, User: dto.NewPublicProfile(user)}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package services

import (
	"errors"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/repositories"
	"gigmarket_backend/internal/services/dto"
	"gigmarket_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.PublicProfile, error)
	UpdateProfile(db *gorm.DB, caller auth.CallerContext, req *dto.UpdateProfileRequest) (*dto.PublicProfile, error)
	DeleteAccount(db *gorm.DB, caller auth.CallerContext) error
	SearchFreelancers(db *gorm.DB, query *dto.FreelancerSearchQuery) (*dto.FreelancerListResponse, error)
	GetWallet(db *gorm.DB, caller auth.CallerContext) (*dto.WalletResponse, error)
}

type userService struct {
	userRepo  repositories.UserRepository
	orderRepo repositories.OrderRepository
}

func NewUserService(userRepo repositories.UserRepository, orderRepo repositories.OrderRepository) UserService {
	return &userService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

func (s *userService) GetProfile(db *gorm.DB, userID string) (*dto.PublicProfile, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return dto.NewPublicProfile(user), nil
}

func (s *userService) UpdateProfile(db *gorm.DB, caller auth.CallerContext, req *dto.UpdateProfileRequest) (*dto.PublicProfile, error) {
	if err := s.userRepo.UpdateFields(db, caller.UserID, profileUpdates(req)); err != nil {
		return nil, handleUserError(err)
	}

	user, err := s.userRepo.FindByID(db, caller.UserID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return dto.NewPublicProfile(user), nil
}

// DeleteAccount удаляет только пользователя: заказы, отзывы и сообщения
// остаются, рейтинги и история переписки не пересчитываются.
func (s *userService) DeleteAccount(db *gorm.DB, caller auth.CallerContext) error {
	if err := s.userRepo.Delete(db, caller.UserID); err != nil {
		return handleUserError(err)
	}
	logger.CtxInfo(dbContext(db), "account deleted", "user_id", caller.UserID)
	return nil
}

func (s *userService) SearchFreelancers(db *gorm.DB, query *dto.FreelancerSearchQuery) (*dto.FreelancerListResponse, error) {
	page, limit := query.Normalize()
	users, total, err := s.userRepo.SearchFreelancers(db, repositories.FreelancerFilter{
		Category:  query.Category,
		Skill:     query.Skill,
		MinRating: query.Rating,
		Offset:    query.Offset(),
		Limit:     limit,
	})
	if err != nil {
		return nil, handleUserError(err)
	}

	freelancers := make([]*dto.PublicProfile, 0, len(users))
	for i := range users {
		freelancers = append(freelancers, dto.NewPublicProfile(&users[i]))
	}
	return &dto.FreelancerListResponse{
		Count:       len(freelancers),
		Total:       total,
		Page:        page,
		TotalPages:  dto.TotalPages(total, limit),
		Freelancers: freelancers,
	}, nil
}

func (s *userService) GetWallet(db *gorm.DB, caller auth.CallerContext) (*dto.WalletResponse, error) {
	user, err := s.userRepo.FindByID(db, caller.UserID)
	if err != nil {
		return nil, handleUserError(err)
	}

	resp := &dto.WalletResponse{WalletBalance: user.WalletBalance}
	if user.Role == models.UserRoleFreelancer {
		if resp.CompletedOrders, err = s.orderRepo.CountCompletedByFreelancer(db, user.ID); err != nil {
			return nil, handleUserError(err)
		}
	}
	return resp, nil
}

func profileUpdates(req *dto.UpdateProfileRequest) map[string]interface{} {
	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ProfilePicture != nil {
		fields["profile_picture"] = *req.ProfilePicture
	}
	if req.Skills != nil {
		fields["skills"] = jsonColumn(*req.Skills)
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	return fields
}

func handleUserError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrUserAlreadyExists
	}
	return apperrors.ErrDatabase(err)
}

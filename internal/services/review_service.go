package services

import (
	"errors"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/metrics"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/repositories"
	"gigmarket_backend/internal/services/dto"
	"gigmarket_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	CreateReview(db *gorm.DB, caller auth.CallerContext, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetGigReviews(db *gorm.DB, gigID string) ([]*dto.ReviewResponse, error)
	GetUserReviews(db *gorm.DB, userID string) ([]*dto.ReviewResponse, error)
}

type reviewService struct {
	reviewRepo repositories.ReviewRepository
	orderRepo  repositories.OrderRepository
	ratings    *RatingAggregator
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	orderRepo repositories.OrderRepository,
	ratings *RatingAggregator,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		ratings:    ratings,
	}
}

// CreateReview создает отзыв, помечает заказ и пересчитывает рейтинги
// фрилансера и гига. Все записи в одной транзакции; блокировки субъектов
// держатся до коммита, чтобы пересчеты одного субъекта не пересекались.
func (s *reviewService) CreateReview(db *gorm.DB, caller auth.CallerContext, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	order, err := s.orderRepo.FindByID(db, req.OrderID)
	if err != nil {
		return nil, handleReviewError(err)
	}
	if err := checkCanReview(caller, order); err != nil {
		return nil, err
	}

	unlock := s.ratings.LockSubjects(order.FreelancerID, order.GigID)
	defer unlock()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	review := &models.Review{
		OrderID:    order.ID,
		ReviewerID: caller.UserID,
		RevieweeID: order.FreelancerID,
		Rating:     req.Rating,
		Message:    req.Message,
		Anonymous:  req.Anonymous,
	}
	if err := s.reviewRepo.Create(tx, review); err != nil {
		return nil, handleReviewError(err)
	}
	if err := s.orderRepo.MarkReviewed(tx, order.ID); err != nil {
		return nil, handleReviewError(err)
	}
	if _, err := s.ratings.RecomputeUser(tx, order.FreelancerID); err != nil {
		return nil, handleReviewError(err)
	}
	if _, err := s.ratings.RecomputeGig(tx, order.GigID); err != nil {
		return nil, handleReviewError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, handleReviewError(err)
	}
	metrics.ReviewsCreated.Inc()
	logger.CtxInfo(dbContext(db), "review created",
		"review_id", review.ID,
		"order_id", order.ID,
		"rating", review.Rating,
	)

	full, err := s.reviewRepo.FindByID(db, review.ID)
	if err != nil {
		return nil, handleReviewError(err)
	}
	// автор видит свой отзыв без маскировки
	return dto.NewReviewResponse(full, false), nil
}

func (s *reviewService) GetGigReviews(db *gorm.DB, gigID string) ([]*dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByGig(db, gigID)
	if err != nil {
		return nil, handleReviewError(err)
	}
	return dto.NewReviewList(reviews), nil
}

func (s *reviewService) GetUserReviews(db *gorm.DB, userID string) ([]*dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByReviewee(db, userID)
	if err != nil {
		return nil, handleReviewError(err)
	}
	return dto.NewReviewList(reviews), nil
}

func handleReviewError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repositories.ErrOrderNotFound):
		return apperrors.ErrOrderNotFound
	case errors.Is(err, repositories.ErrReviewNotFound):
		return apperrors.NewNotFoundError("review", "Review not found")
	// второй отзыв на тот же заказ: уникальный индекс или уже isReviewed
	case errors.Is(err, repositories.ErrReviewAlreadyExists),
		errors.Is(err, repositories.ErrOrderStateChanged):
		return apperrors.ErrAlreadyReviewed
	}
	return apperrors.ErrDatabase(err)
}

package repositories

import (
	"errors"

	"gigmarket_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this order")
)

// RatingStats - сумма и количество оценок субъекта
type RatingStats struct {
	Count int64
	Sum   int64
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	ExistsForOrder(db *gorm.DB, orderID string) (bool, error)
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	FindByReviewee(db *gorm.DB, userID string) ([]models.Review, error)
	FindByGig(db *gorm.DB, gigID string) ([]models.Review, error)

	// Полный пересчет: все отзывы пользователя / все отзывы по заказам гига
	UserRatingStats(db *gorm.DB, userID string) (RatingStats, error)
	GigRatingStats(db *gorm.DB, gigID string) (RatingStats, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	if err := db.Create(review).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrReviewAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ReviewRepositoryImpl) ExistsForOrder(db *gorm.DB, orderID string) (bool, error) {
	var count int64
	err := db.Model(&models.Review{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	if err := db.Preload("Reviewer").Preload("Order").First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByReviewee(db *gorm.DB, userID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Preload("Reviewer").Preload("Order").
		Where("reviewee_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) FindByGig(db *gorm.DB, gigID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Preload("Reviewer").Preload("Order").
		Where("order_id IN (?)", gigOrderIDs(db, gigID)).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) UserRatingStats(db *gorm.DB, userID string) (RatingStats, error) {
	var stats RatingStats
	err := db.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("reviewee_id = ?", userID).
		Scan(&stats).Error
	return stats, err
}

func (r *ReviewRepositoryImpl) GigRatingStats(db *gorm.DB, gigID string) (RatingStats, error) {
	var stats RatingStats
	err := db.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("order_id IN (?)", gigOrderIDs(db, gigID)).
		Scan(&stats).Error
	return stats, err
}

func gigOrderIDs(db *gorm.DB, gigID string) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Order{}).Select("id").Where("gig_id = ?", gigID)
}

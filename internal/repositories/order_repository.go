package repositories

import (
	"errors"
	"time"

	"gigmarket_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderStateChanged - статус заказа изменился между чтением и записью
	ErrOrderStateChanged = errors.New("order state changed concurrently")
)

type OrderRepository interface {
	Create(db *gorm.DB, order *models.Order) error
	FindByID(db *gorm.DB, id string) (*models.Order, error)
	FindByIDWithRelations(db *gorm.DB, id string) (*models.Order, error)
	FindByClient(db *gorm.DB, clientID string, status models.OrderStatus) ([]models.Order, error)
	FindByFreelancer(db *gorm.DB, freelancerID string, status models.OrderStatus) ([]models.Order, error)
	FindByParticipant(db *gorm.DB, userID string) ([]models.Order, error)
	FindIDsByGig(db *gorm.DB, gigID string) ([]string, error)
	CountCompletedByFreelancer(db *gorm.DB, freelancerID string) (int64, error)

	// Переходы состояния. Обновление проходит, только если текущий
	// статус равен from, иначе ErrOrderStateChanged.
	TransitionStatus(db *gorm.DB, id string, from, to models.OrderStatus) error
	MarkCompleted(db *gorm.DB, id string, at time.Time) error
	MarkReviewed(db *gorm.DB, id string) error
}

type OrderRepositoryImpl struct{}

func NewOrderRepository() OrderRepository {
	return &OrderRepositoryImpl{}
}

func (r *OrderRepositoryImpl) Create(db *gorm.DB, order *models.Order) error {
	return db.Create(order).Error
}

func (r *OrderRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) FindByIDWithRelations(db *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Gig").Preload("Client").Preload("Freelancer").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) FindByClient(db *gorm.DB, clientID string, status models.OrderStatus) ([]models.Order, error) {
	return r.findBy(db.Preload("Freelancer"), "client_id", clientID, status)
}

func (r *OrderRepositoryImpl) FindByFreelancer(db *gorm.DB, freelancerID string, status models.OrderStatus) ([]models.Order, error) {
	return r.findBy(db.Preload("Client"), "freelancer_id", freelancerID, status)
}

func (r *OrderRepositoryImpl) findBy(db *gorm.DB, column, userID string, status models.OrderStatus) ([]models.Order, error) {
	query := db.Preload("Gig").Where(column+" = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// FindByParticipant - заказы, где пользователь клиент или фрилансер,
// свежие изменения первыми
func (r *OrderRepositoryImpl) FindByParticipant(db *gorm.DB, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Gig").Preload("Client").Preload("Freelancer").
		Where("client_id = ? OR freelancer_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepositoryImpl) FindIDsByGig(db *gorm.DB, gigID string) ([]string, error) {
	var ids []string
	err := db.Model(&models.Order{}).Where("gig_id = ?", gigID).Pluck("id", &ids).Error
	return ids, err
}

func (r *OrderRepositoryImpl) CountCompletedByFreelancer(db *gorm.DB, freelancerID string) (int64, error) {
	var count int64
	err := db.Model(&models.Order{}).
		Where("freelancer_id = ? AND status = ?", freelancerID, models.OrderStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *OrderRepositoryImpl) TransitionStatus(db *gorm.DB, id string, from, to models.OrderStatus) error {
	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to})
	return checkTransition(result)
}

func (r *OrderRepositoryImpl) MarkCompleted(db *gorm.DB, id string, at time.Time) error {
	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusDelivered).
		Updates(map[string]interface{}{
			"status":       models.OrderStatusCompleted,
			"completed_at": at,
		})
	return checkTransition(result)
}

func (r *OrderRepositoryImpl) MarkReviewed(db *gorm.DB, id string) error {
	result := db.Model(&models.Order{}).
		Where("id = ? AND is_reviewed = ?", id, false).
		Updates(map[string]interface{}{"is_reviewed": true})
	return checkTransition(result)
}

func checkTransition(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStateChanged
	}
	return nil
}

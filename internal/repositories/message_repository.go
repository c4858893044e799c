package repositories

import (
	"errors"

	"gigmarket_backend/internal/models"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(db *gorm.DB, message *models.Message) error
	FindByID(db *gorm.DB, id string) (*models.Message, error)
	FindByIDWithSender(db *gorm.DB, id string) (*models.Message, error)
	MarkRead(db *gorm.DB, id string) error
	CountUnread(db *gorm.DB, receiverID string) (int64, error)

	// Переписка по заказу
	FindByOrder(db *gorm.DB, orderID string) ([]models.Message, error)
	FindByOrders(db *gorm.DB, orderIDs []string) ([]models.Message, error)
	MarkOrderRead(db *gorm.DB, orderID, receiverID string) (int64, error)

	// Запросы по гигу (orderId пустой)
	FindInquiryThread(db *gorm.DB, gigID, userA, userB string) ([]models.Message, error)
	FindInquiriesForUser(db *gorm.DB, userID string) ([]models.Message, error)
	MarkInquiryRead(db *gorm.DB, gigID, senderID, receiverID string) (int64, error)
}

type MessageRepositoryImpl struct{}

func NewMessageRepository() MessageRepository {
	return &MessageRepositoryImpl{}
}

func (r *MessageRepositoryImpl) Create(db *gorm.DB, message *models.Message) error {
	return db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Message, error) {
	return r.find(db, id)
}

func (r *MessageRepositoryImpl) FindByIDWithSender(db *gorm.DB, id string) (*models.Message, error) {
	return r.find(db.Preload("Sender"), id)
}

func (r *MessageRepositoryImpl) find(db *gorm.DB, id string) (*models.Message, error) {
	var message models.Message
	if err := db.First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepositoryImpl) MarkRead(db *gorm.DB, id string) error {
	result := db.Model(&models.Message{}).Where("id = ?", id).UpdateColumn("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepositoryImpl) CountUnread(db *gorm.DB, receiverID string) (int64, error) {
	var count int64
	err := db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) FindByOrder(db *gorm.DB, orderID string) ([]models.Message, error) {
	var messages []models.Message
	err := db.Preload("Sender").
		Where("order_id = ?", orderID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) FindByOrders(db *gorm.DB, orderIDs []string) ([]models.Message, error) {
	var messages []models.Message
	if len(orderIDs) == 0 {
		return messages, nil
	}
	err := db.Where("order_id IN ?", orderIDs).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) MarkOrderRead(db *gorm.DB, orderID, receiverID string) (int64, error) {
	result := db.Model(&models.Message{}).
		Where("order_id = ? AND receiver_id = ? AND is_read = ?", orderID, receiverID, false).
		UpdateColumn("is_read", true)
	return result.RowsAffected, result.Error
}

// FindInquiryThread - переписка двух пользователей по гигу без заказа
func (r *MessageRepositoryImpl) FindInquiryThread(db *gorm.DB, gigID, userA, userB string) ([]models.Message, error) {
	var messages []models.Message
	err := db.Preload("Sender").
		Where("gig_id = ? AND order_id IS NULL", gigID).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) FindInquiriesForUser(db *gorm.DB, userID string) ([]models.Message, error) {
	var messages []models.Message
	err := db.Where("order_id IS NULL").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) MarkInquiryRead(db *gorm.DB, gigID, senderID, receiverID string) (int64, error) {
	result := db.Model(&models.Message{}).
		Where("gig_id = ? AND order_id IS NULL", gigID).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		UpdateColumn("is_read", true)
	return result.RowsAffected, result.Error
}

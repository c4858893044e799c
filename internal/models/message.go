package models

// Message принадлежит либо заказу (OrderID), либо запросу по гигу
// (GigID при пустом OrderID).
type Message struct {
	BaseModel
	OrderID     *string  `gorm:"type:varchar(36);index" json:"orderId"`
	GigID       *string  `gorm:"type:varchar(36);index" json:"gigId"`
	SenderID    string   `gorm:"type:varchar(36);not null;index" json:"senderId"`
	ReceiverID  string   `gorm:"type:varchar(36);not null;index" json:"receiverId"`
	Message     string   `gorm:"type:text;not null" json:"message"`
	Attachments []string `gorm:"serializer:json" json:"attachments"`
	IsRead      bool     `gorm:"not null;default:false;index" json:"isRead"`

	Sender *User `gorm:"foreignKey:SenderID" json:"-"`
}

func (m *Message) IsInquiry() bool {
	return m.OrderID == nil
}

// Counterpart возвращает собеседника относительно userID
func (m *Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

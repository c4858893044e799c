package models

import "time"

type Order struct {
	BaseModel
	ClientID     string      `gorm:"type:varchar(36);not null;index" json:"clientId"`
	FreelancerID string      `gorm:"type:varchar(36);not null;index" json:"freelancerId"`
	GigID        string      `gorm:"type:varchar(36);not null;index" json:"gigId"`
	Requirements string      `gorm:"type:varchar(2000);not null" json:"requirements"`
	Price        float64     `gorm:"not null" json:"price"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CompletedAt  *time.Time  `json:"completedAt"`
	IsReviewed   bool        `gorm:"not null;default:false" json:"isReviewed"`

	Gig        *Gig  `gorm:"foreignKey:GigID" json:"gig,omitempty"`
	Client     *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Freelancer *User `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}

// HasParty проверяет, что пользователь - клиент или фрилансер заказа
func (o *Order) HasParty(userID string) bool {
	return userID != "" && (o.ClientID == userID || o.FreelancerID == userID)
}

// Counterpart возвращает второго участника заказа
func (o *Order) Counterpart(userID string) string {
	if o.ClientID == userID {
		return o.FreelancerID
	}
	return o.ClientID
}

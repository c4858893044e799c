package models

type Review struct {
	BaseModel
	OrderID    string `gorm:"type:varchar(36);not null;uniqueIndex" json:"orderId"`
	ReviewerID string `gorm:"type:varchar(36);not null;index" json:"reviewerId"`
	RevieweeID string `gorm:"type:varchar(36);not null;index" json:"revieweeId"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Message    string `gorm:"type:varchar(1000);not null" json:"message"`
	Anonymous  bool   `gorm:"not null;default:false" json:"anonymous"`

	Reviewer *User  `gorm:"foreignKey:ReviewerID" json:"-"`
	Order    *Order `gorm:"foreignKey:OrderID" json:"-"`
}

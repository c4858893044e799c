package models

type Gig struct {
	BaseModel
	FreelancerID string      `gorm:"type:varchar(36);not null;index" json:"freelancerId"`
	Title        string      `gorm:"type:varchar(120);not null" json:"title"`
	Description  string      `gorm:"type:text;not null" json:"description"`
	Category     GigCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Price        float64     `gorm:"not null" json:"price"`
	DeliveryDays int         `gorm:"not null" json:"deliveryDays"`
	Revisions    int         `gorm:"not null;default:1" json:"revisions"`
	Images       []string    `gorm:"serializer:json" json:"images"`
	Tags         []string    `gorm:"serializer:json" json:"tags"`
	Status       GigStatus   `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	Views        int     `gorm:"not null;default:0" json:"views"`
	Orders       int     `gorm:"not null;default:0" json:"orders"`
	Rating       float64 `gorm:"not null;default:0" json:"rating"`
	TotalReviews int     `gorm:"not null;default:0" json:"totalReviews"`

	Freelancer *User `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}

func (g *Gig) IsActive() bool {
	return g.Status == GigStatusActive
}

// GigSummary - краткая карточка гига для заказов и диалогов
type GigSummary struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Price  float64  `json:"price,omitempty"`
	Images []string `json:"images,omitempty"`
}

func (g *Gig) Summary() *GigSummary {
	if g == nil {
		return nil
	}
	return &GigSummary{ID: g.ID, Title: g.Title, Price: g.Price, Images: g.Images}
}

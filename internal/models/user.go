package models

type User struct {
	BaseModel
	Name           string   `gorm:"not null" json:"name"`
	Email          string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string   `gorm:"not null" json:"-"`
	Role           UserRole `gorm:"type:varchar(20);not null;index" json:"userType"`
	ProfilePicture *string  `json:"profilePicture"`
	Description    string   `gorm:"type:varchar(500)" json:"description"`
	Skills         []string `gorm:"serializer:json" json:"skills"`
	Category       *string  `json:"category"`

	// Производные поля, меняются только пересчетом рейтинга и расчетом заказа
	Rating        float64 `gorm:"not null;default:0" json:"rating"`
	TotalReviews  int     `gorm:"not null;default:0" json:"totalReviews"`
	WalletBalance float64 `gorm:"not null;default:0" json:"-"`
}

// UserSummary - краткая карточка пользователя для вложенных ответов
type UserSummary struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email,omitempty"`
	ProfilePicture *string `json:"profilePicture"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, ProfilePicture: u.ProfilePicture}
}

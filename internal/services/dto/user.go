package dto

import (
	"time"

	"gigmarket_backend/internal/models"
)

// PublicProfile - профиль без пароля и кошелька
type PublicProfile struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	UserType       models.UserRole `json:"userType"`
	ProfilePicture *string         `json:"profilePicture"`
	Description    string          `json:"description"`
	Skills         []string        `json:"skills"`
	Category       *string         `json:"category"`
	Rating         float64         `json:"rating"`
	TotalReviews   int             `json:"totalReviews"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func NewPublicProfile(u *models.User) *PublicProfile {
	if u == nil {
		return nil
	}
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return &PublicProfile{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		UserType:       u.Role,
		ProfilePicture: u.ProfilePicture,
		Description:    u.Description,
		Skills:         skills,
		Category:       u.Category,
		Rating:         u.Rating,
		TotalReviews:   u.TotalReviews,
		CreatedAt:      u.CreatedAt,
	}
}

// UpdateProfileRequest - изменяемые поля профиля. nil означает "не менять".
type UpdateProfileRequest struct {
	Name           *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Description    *string   `json:"description" validate:"omitempty,max=500"`
	ProfilePicture *string   `json:"profilePicture" validate:"omitempty,url"`
	Skills         *[]string `json:"skills" validate:"omitempty,max=50"`
	Category       *string   `json:"category" validate:"omitempty,max=50"`
}

type FreelancerSearchQuery struct {
	PageQuery
	Category string  `form:"category" validate:"omitempty,max=50"`
	Skill    string  `form:"skill" validate:"omitempty,max=50"`
	Rating   float64 `form:"rating" validate:"omitempty,min=0,max=5"`
}

type FreelancerListResponse struct {
	Count       int              `json:"count"`
	Total       int64            `json:"total"`
	Page        int              `json:"page"`
	TotalPages  int              `json:"totalPages"`
	Freelancers []*PublicProfile `json:"freelancers"`
}

type WalletResponse struct {
	WalletBalance   float64 `json:"walletBalance"`
	CompletedOrders int64   `json:"completedOrders"`
}

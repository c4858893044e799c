package dto

import "gigmarket_backend/internal/models"

type CreateGigRequest struct {
	Title        string             `json:"title" validate:"required,max=120"`
	Description  string             `json:"description" validate:"required,max=5000"`
	Category     models.GigCategory `json:"category" validate:"required,is-gig-category"`
	Price        float64            `json:"price" validate:"required,min=100,max=500000"`
	DeliveryDays int                `json:"deliveryDays" validate:"required,min=1,max=30"`
	Revisions    *int               `json:"revisions" validate:"omitempty,min=0,max=10"`
	Images       []string           `json:"images" validate:"omitempty,max=10"`
	Tags         []string           `json:"tags" validate:"omitempty,max=20,dive,max=40"`
}

// UpdateGigRequest - изменяемые поля гига. nil означает "не менять".
type UpdateGigRequest struct {
	Title        *string             `json:"title" validate:"omitempty,min=1,max=120"`
	Description  *string             `json:"description" validate:"omitempty,min=1,max=5000"`
	Category     *models.GigCategory `json:"category" validate:"omitempty,is-gig-category"`
	Price        *float64            `json:"price" validate:"omitempty,min=100,max=500000"`
	DeliveryDays *int                `json:"deliveryDays" validate:"omitempty,min=1,max=30"`
	Revisions    *int                `json:"revisions" validate:"omitempty,min=0,max=10"`
	Images       *[]string           `json:"images" validate:"omitempty,max=10"`
	Tags         *[]string           `json:"tags" validate:"omitempty,max=20"`
	Status       *models.GigStatus   `json:"status" validate:"omitempty,is-gig-status"`
}

type GigListQuery struct {
	PageQuery
	Category string   `form:"category" validate:"omitempty,is-gig-category"`
	MinPrice *float64 `form:"minPrice" validate:"omitempty,min=0"`
	MaxPrice *float64 `form:"maxPrice" validate:"omitempty,min=0"`
	Search   string   `form:"search" validate:"omitempty,max=100"`
	SortBy   string   `form:"sortBy" validate:"omitempty,oneof=createdAt price rating orders views"`
	Order    string   `form:"order" validate:"omitempty,oneof=asc desc"`
}

type GigListResponse struct {
	Count      int          `json:"count"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	Gigs       []models.Gig `json:"gigs"`
}

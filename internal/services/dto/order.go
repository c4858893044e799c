package dto

import (
	"time"

	"gigmarket_backend/internal/models"
)

type CreateOrderRequest struct {
	GigID        string `json:"gigId" validate:"required"`
	Requirements string `json:"requirements" validate:"required,max=2000"`
}

// Допустимость статуса проверяет сервис, чтобы ответ был "Invalid status".
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

type OrderListQuery struct {
	Status string `form:"status" validate:"omitempty,is-order-status"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	ClientID     string              `json:"clientId"`
	FreelancerID string              `json:"freelancerId"`
	GigID        string              `json:"gigId"`
	Requirements string              `json:"requirements"`
	Price        float64             `json:"price"`
	Status       models.OrderStatus  `json:"status"`
	CompletedAt  *time.Time          `json:"completedAt"`
	IsReviewed   bool                `json:"isReviewed"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Gig          *models.GigSummary  `json:"gig,omitempty"`
	Client       *models.UserSummary `json:"client,omitempty"`
	Freelancer   *models.UserSummary `json:"freelancer,omitempty"`
}

func NewOrderResponse(o *models.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	resp := &OrderResponse{
		ID:           o.ID,
		ClientID:     o.ClientID,
		FreelancerID: o.FreelancerID,
		GigID:        o.GigID,
		Requirements: o.Requirements,
		Price:        o.Price,
		Status:       o.Status,
		CompletedAt:  o.CompletedAt,
		IsReviewed:   o.IsReviewed,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Gig:          o.Gig.Summary(),
		Client:       o.Client.Summary(),
		Freelancer:   o.Freelancer.Summary(),
	}
	if o.Client != nil {
		resp.Client.Email = o.Client.Email
	}
	if o.Freelancer != nil {
		resp.Freelancer.Email = o.Freelancer.Email
	}
	return resp
}

func NewOrderList(orders []models.Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

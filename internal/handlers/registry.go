package handlers

import (
	"gigmarket_backend/internal/services"
	"gigmarket_backend/internal/validator"
)

// AppHandlers содержит все HTTP хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	GigHandler     *GigHandler
	OrderHandler   *OrderHandler
	ReviewHandler  *ReviewHandler
	MessageHandler *MessageHandler
}

// NewAppHandlers создает хэндлеры поверх общего BaseHandler
func NewAppHandlers(v *validator.Validator, svc *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		AuthHandler:    NewAuthHandler(base, svc.AuthService),
		UserHandler:    NewUserHandler(base, svc.UserService),
		GigHandler:     NewGigHandler(base, svc.GigService),
		OrderHandler:   NewOrderHandler(base, svc.OrderService),
		ReviewHandler:  NewReviewHandler(base, svc.ReviewService),
		MessageHandler: NewMessageHandler(base, svc.MessageService),
	}
}

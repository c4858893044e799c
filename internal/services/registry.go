package services

import (
	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/email"
	"gigmarket_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService    AuthService
	UserService    UserService
	GigService     GigService
	OrderService   OrderService
	ReviewService  ReviewService
	MessageService MessageService

	// Ratings нужен и сервису отзывов, и фоновому пересчету:
	// блокировки субъектов у них общие.
	Ratings *RatingAggregator
}

// NewServiceContainer собирает репозитории и сервисы
func NewServiceContainer(tokens *auth.TokenManager, notifier *email.Notifier) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	gigRepo := repositories.NewGigRepository()
	orderRepo := repositories.NewOrderRepository()
	reviewRepo := repositories.NewReviewRepository()
	messageRepo := repositories.NewMessageRepository()

	ratings := NewRatingAggregator(reviewRepo, userRepo, gigRepo)

	return &ServiceContainer{
		AuthService:    NewAuthService(userRepo, tokens),
		UserService:    NewUserService(userRepo, orderRepo),
		GigService:     NewGigService(gigRepo),
		OrderService:   NewOrderService(orderRepo, gigRepo, userRepo, notifier),
		ReviewService:  NewReviewService(reviewRepo, orderRepo, ratings),
		MessageService: NewMessageService(messageRepo, orderRepo, gigRepo, userRepo),
		Ratings:        ratings,
	}
}

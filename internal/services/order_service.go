package services

import (
	"context"
	"errors"
	"time"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/email"
	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/metrics"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/repositories"
	"gigmarket_backend/internal/services/dto"
	"gigmarket_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(db *gorm.DB, caller auth.CallerContext, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetClientOrders(db *gorm.DB, caller auth.CallerContext, status models.OrderStatus) ([]*dto.OrderResponse, error)
	GetFreelancerOrders(db *gorm.DB, caller auth.CallerContext, status models.OrderStatus) ([]*dto.OrderResponse, error)
	GetOrder(db *gorm.DB, caller auth.CallerContext, orderID string) (*dto.OrderResponse, error)

	// Переходы состояния
	UpdateStatus(db *gorm.DB, caller auth.CallerContext, orderID string, status models.OrderStatus) (*dto.OrderResponse, error)
	CompleteOrder(db *gorm.DB, caller auth.CallerContext, orderID string) (*dto.OrderResponse, error)
	CancelOrder(db *gorm.DB, caller auth.CallerContext, orderID string) (*dto.OrderResponse, error)
}

type orderService struct {
	orderRepo repositories.OrderRepository
	gigRepo   repositories.GigRepository
	userRepo  repositories.UserRepository
	notifier  *email.Notifier
	now       func() time.Time
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	gigRepo repositories.GigRepository,
	userRepo repositories.UserRepository,
	notifier *email.Notifier,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		gigRepo:   gigRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *orderService) CreateOrder(db *gorm.DB, caller auth.CallerContext, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if !caller.IsClient() {
		return nil, apperrors.ErrOnlyClientsOrder
	}

	gig, err := s.gigRepo.FindByID(db, req.GigID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	if err := checkCanPlaceOrder(caller, gig); err != nil {
		return nil, err
	}

	// цена копируется из гига и дальше от него не зависит
	order := &models.Order{
		ClientID:     caller.UserID,
		FreelancerID: gig.FreelancerID,
		GigID:        gig.ID,
		Requirements: req.Requirements,
		Price:        gig.Price,
		Status:       models.OrderStatusPending,
	}
	if err := s.orderRepo.Create(db, order); err != nil {
		return nil, handleOrderError(err)
	}
	metrics.OrderTransitions.WithLabelValues(string(models.OrderStatusPending)).Inc()

	full, err := s.orderRepo.FindByIDWithRelations(db, order.ID)
	if err != nil {
		return nil, handleOrderError(err)
	}

	ctx := dbContext(db)
	logger.CtxInfo(ctx, "order placed", "order_id", order.ID, "gig_id", gig.ID, "price", order.Price)
	s.notifier.OrderPlacedAsync(context.WithoutCancel(ctx), orderEvent(full))

	return dto.NewOrderResponse(full), nil
}

func (s *orderService) GetClientOrders(db *gorm.DB, caller auth.CallerContext, status models.OrderStatus) ([]*dto.OrderResponse, error) {
	orders, err := s.orderRepo.FindByClient(db, caller.UserID, status)
	if err != nil {
		return nil, handleOrderError(err)
	}
	return dto.NewOrderList(orders), nil
}

func (s *orderService) GetFreelancerOrders(db *gorm.DB, caller auth.CallerContext, status models.OrderStatus) ([]*dto.OrderResponse, error) {
	orders, err := s.orderRepo.FindByFreelancer(db, caller.UserID, status)
	if err != nil {
		return nil, handleOrderError(err)
	}
	return dto.NewOrderList(orders), nil
}

func (s *orderService) GetOrder(db *gorm.DB, caller auth.CallerContext, orderID string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByIDWithRelations(db, orderID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	if err := checkCanViewOrder(caller, order); err != nil {
		return nil, err
	}
	return dto.NewOrderResponse(order), nil
}

func (s *orderService) UpdateStatus(db *gorm.DB, caller auth.CallerContext, orderID string, status models.OrderStatus) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(db, orderID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	if err := checkCanSetStatus(caller, order, status); err != nil {
		return nil, err
	}

	if err := s.orderRepo.TransitionStatus(db, order.ID, order.Status, status); err != nil {
		return nil, handleOrderError(err)
	}
	metrics.OrderTransitions.WithLabelValues(string(status)).Inc()
	logger.CtxInfo(dbContext(db), "order status updated", "order_id", order.ID, "from", order.Status, "to", status)

	return s.reload(db, order.ID)
}

// CompleteOrder закрывает заказ и делает расчет: completedAt, счетчик
// заказов гига и баланс фрилансера меняются в одной транзакции.
func (s *orderService) CompleteOrder(db *gorm.DB, caller auth.CallerContext, orderID string) (*dto.OrderResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindByID(tx, orderID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	if err := checkCanComplete(caller, order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.MarkCompleted(tx, order.ID, s.now()); err != nil {
		return nil, handleOrderError(err)
	}
	// удаленный гиг или аккаунт не блокирует завершение заказа
	if err := s.gigRepo.IncrementOrders(tx, order.GigID); err != nil && !errors.Is(err, repositories.ErrGigNotFound) {
		return nil, handleOrderError(err)
	}
	if err := s.userRepo.CreditWallet(tx, order.FreelancerID, order.Price); err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, handleOrderError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.OrderTransitions.WithLabelValues(string(models.OrderStatusCompleted)).Inc()
	metrics.Settlements.Inc()
	metrics.SettledAmount.Add(order.Price)

	ctx := dbContext(db)
	logger.CtxInfo(ctx, "order settled",
		"order_id", order.ID,
		"freelancer_id", order.FreelancerID,
		"amount", order.Price,
	)

	full, err := s.orderRepo.FindByIDWithRelations(db, order.ID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	s.notifier.OrderCompletedAsync(context.WithoutCancel(ctx), orderEvent(full))

	return dto.NewOrderResponse(full), nil
}

func (s *orderService) CancelOrder(db *gorm.DB, caller auth.CallerContext, orderID string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(db, orderID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	if err := checkCanCancel(caller, order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.TransitionStatus(db, order.ID, models.OrderStatusPending, models.OrderStatusCancelled); err != nil {
		return nil, handleOrderError(err)
	}
	metrics.OrderTransitions.WithLabelValues(string(models.OrderStatusCancelled)).Inc()
	logger.CtxInfo(dbContext(db), "order cancelled", "order_id", order.ID, "by", caller.UserID)

	return s.reload(db, order.ID)
}

func (s *orderService) reload(db *gorm.DB, orderID string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByIDWithRelations(db, orderID)
	if err != nil {
		return nil, handleOrderError(err)
	}
	return dto.NewOrderResponse(order), nil
}

func orderEvent(o *models.Order) email.OrderEvent {
	gig := o.Gig
	if gig == nil {
		gig = &models.Gig{}
	}
	return email.OrderEvent{Order: o, Gig: gig, Client: o.Client, Freelancer: o.Freelancer}
}

func handleOrderError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repositories.ErrOrderNotFound):
		return apperrors.ErrOrderNotFound
	case errors.Is(err, repositories.ErrGigNotFound):
		return apperrors.ErrGigNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrOrderStateChanged):
		return apperrors.ErrOrderStateChanged
	}
	return apperrors.ErrDatabase(err)
}

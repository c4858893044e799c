package services

import (
	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/pkg/apperrors"
)

/*
Правила переходов заказа. Функции чистые: проверяют предусловия и
возвращают первую нарушенную причину. Запись делает OrderService.

	create       client                      gig active, gig не свой   -> pending
	status       freelancer заказа           accepted|in_progress|delivered, порядок не проверяется
	complete     client заказа               delivered                 -> completed + расчет
	cancel       client или freelancer       pending                   -> cancelled
*/

func checkCanPlaceOrder(caller auth.CallerContext, gig *models.Gig) error {
	if !caller.IsClient() {
		return apperrors.ErrOnlyClientsOrder
	}
	if !gig.IsActive() {
		return apperrors.ErrGigNotAvailable
	}
	if gig.FreelancerID == caller.UserID {
		return apperrors.ErrOwnGigOrder
	}
	return nil
}

func checkCanViewOrder(caller auth.CallerContext, order *models.Order) error {
	if !order.HasParty(caller.UserID) {
		return apperrors.ErrNotOrderParty
	}
	return nil
}

// checkCanSetStatus: закрытый заказ (completed, cancelled) статус не меняет.
func checkCanSetStatus(caller auth.CallerContext, order *models.Order, next models.OrderStatus) error {
	if !caller.Is(order.FreelancerID) {
		return apperrors.ErrOnlyFreelancerState
	}
	if !next.FreelancerSettable() {
		return apperrors.ErrInvalidOrderStatus
	}
	if order.Status.Terminal() {
		return apperrors.ErrOrderClosed
	}
	return nil
}

func checkCanComplete(caller auth.CallerContext, order *models.Order) error {
	if !caller.Is(order.ClientID) {
		return apperrors.ErrOnlyClientComplete
	}
	if order.Status != models.OrderStatusDelivered {
		return apperrors.ErrOrderNotDelivered
	}
	return nil
}

func checkCanCancel(caller auth.CallerContext, order *models.Order) error {
	if !order.HasParty(caller.UserID) {
		return apperrors.ErrCannotCancel
	}
	if order.Status != models.OrderStatusPending {
		return apperrors.ErrOrderNotPending
	}
	return nil
}

func checkCanReview(caller auth.CallerContext, order *models.Order) error {
	if !caller.Is(order.ClientID) {
		return apperrors.ErrOnlyClientReview
	}
	if order.Status != models.OrderStatusCompleted {
		return apperrors.ErrOrderNotCompleted
	}
	if order.IsReviewed {
		return apperrors.ErrAlreadyReviewed
	}
	return nil
}

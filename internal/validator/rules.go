package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"gigmarket_backend/internal/models"
)

// registerCustomRules регистрирует кастомные правила валидации
func registerCustomRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		// 'is-user-role': client | freelancer
		"is-user-role": validateUserRole,
		// 'is-gig-category': одна из категорий гигов
		"is-gig-category": validateGigCategory,
		// 'is-gig-status': active | inactive
		"is-gig-status": validateGigStatus,
		// 'is-order-status': любой статус заказа (для фильтров)
		"is-order-status": validateOrderStatus,
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register validation tag '%s': %w", tag, err)
		}
	}
	return nil
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения проверяет 'required'
	}
	switch models.UserRole(value) {
	case models.UserRoleClient, models.UserRoleFreelancer:
		return true
	default:
		return false
	}
}

func validateGigCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.GigCategory(value).Valid()
}

func validateGigStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.GigStatus(value).Valid()
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.OrderStatus(value) {
	case models.OrderStatusPending, models.OrderStatusAccepted, models.OrderStatusInProgress,
		models.OrderStatusDelivered, models.OrderStatusCompleted, models.OrderStatusCancelled:
		return true
	default:
		return false
	}
}

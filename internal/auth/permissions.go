package auth

import "gigmarket_backend/internal/models"

// CallerContext - кто вызывает операцию. Создается один раз на запрос
// из токена и дальше передается в сервисы явно.
type CallerContext struct {
	UserID string
	Role   models.UserRole
}

func (c CallerContext) IsClient() bool {
	return c.Role == models.UserRoleClient
}

func (c CallerContext) IsFreelancer() bool {
	return c.Role == models.UserRoleFreelancer
}

// Is проверяет, что вызывающий - указанный пользователь
func (c CallerContext) Is(userID string) bool {
	return c.UserID != "" && c.UserID == userID
}

// ValidateRole проверяет валидность роли при регистрации
func ValidateRole(role models.UserRole) bool {
	switch role {
	case models.UserRoleClient, models.UserRoleFreelancer:
		return true
	default:
		return false
	}
}

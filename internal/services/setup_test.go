package services_test

import (
	"testing"
	"time"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/email"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/services"
	"gigmarket_backend/internal/testutil"

	"gorm.io/gorm"
)

type env struct {
	db       *gorm.DB
	svc      *services.ServiceContainer
	mail     *email.LogProvider
	notifier *email.Notifier
	tokens   *auth.TokenManager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewTestDB(t)
	mail := email.NewLogProvider(email.NewTemplateManager())
	notifier := email.NewNotifier(mail, "http://localhost:3000")
	// письма досылаются до закрытия базы
	t.Cleanup(notifier.Wait)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return &env{
		db:       db,
		svc:      services.NewServiceContainer(tokens, notifier),
		mail:     mail,
		notifier: notifier,
		tokens:   tokens,
	}
}

func callerOf(u *models.User) auth.CallerContext {
	return auth.CallerContext{UserID: u.ID, Role: u.Role}
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var u models.User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		t.Fatalf("Пользователь %s не найден: %v", id, err)
	}
	return &u
}

func reloadGig(t *testing.T, db *gorm.DB, id string) *models.Gig {
	t.Helper()
	var g models.Gig
	if err := db.First(&g, "id = ?", id).Error; err != nil {
		t.Fatalf("Гиг %s не найден: %v", id, err)
	}
	return &g
}

func reloadOrder(t *testing.T, db *gorm.DB, id string) *models.Order {
	t.Helper()
	var o models.Order
	if err := db.First(&o, "id = ?", id).Error; err != nil {
		t.Fatalf("Заказ %s не найден: %v", id, err)
	}
	return &o
}

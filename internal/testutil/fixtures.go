package testutil

import (
	"fmt"
	"testing"
	"time"

	"gigmarket_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword - пароль всех пользователей, созданных через CreateUser
const DefaultPassword = "secret123"

// CreateUser создает пользователя с уникальным email и захешированным
// DefaultPassword. Минимальная стоимость bcrypt ускоряет тесты.
func CreateUser(t *testing.T, db *gorm.DB, role models.UserRole, opts ...func(*models.User)) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)

	short := uuid.NewString()[:8]
	user := &models.User{
		Name:         fmt.Sprintf("%s-%s", role, short),
		Email:        fmt.Sprintf("%s-%s@example.com", role, short),
		PasswordHash: string(hash),
		Role:         role,
		Skills:       []string{},
	}
	for _, opt := range opts {
		opt(user)
	}
	require.NoError(t, db.Create(user).Error, "Не удалось создать пользователя %s", user.Email)
	return user
}

// CreateGig создает активный гиг фрилансера
func CreateGig(t *testing.T, db *gorm.DB, freelancerID string, opts ...func(*models.Gig)) *models.Gig {
	t.Helper()

	gig := &models.Gig{
		FreelancerID: freelancerID,
		Title:        "Landing page " + uuid.NewString()[:6],
		Description:  "Responsive landing page with a contact form",
		Category:     models.GigCategoryProgramming,
		Price:        500,
		DeliveryDays: 3,
		Revisions:    1,
		Images:       []string{},
		Tags:         []string{"web"},
		Status:       models.GigStatusActive,
	}
	for _, opt := range opts {
		opt(gig)
	}
	require.NoError(t, db.Create(gig).Error, "Не удалось создать гиг")
	return gig
}

// CreateOrder создает заказ клиента на гиг в указанном статусе
func CreateOrder(t *testing.T, db *gorm.DB, clientID string, gig *models.Gig, status models.OrderStatus) *models.Order {
	t.Helper()

	order := &models.Order{
		ClientID:     clientID,
		FreelancerID: gig.FreelancerID,
		GigID:        gig.ID,
		Requirements: "Need it by Friday",
		Price:        gig.Price,
		Status:       status,
	}
	if status == models.OrderStatusCompleted {
		now := time.Now()
		order.CompletedAt = &now
	}
	require.NoError(t, db.Create(order).Error, "Не удалось создать заказ")
	return order
}

// CreateReview вставляет отзыв напрямую, без пересчета рейтингов
func CreateReview(t *testing.T, db *gorm.DB, order *models.Order, rating int) *models.Review {
	t.Helper()

	review := &models.Review{
		OrderID:    order.ID,
		ReviewerID: order.ClientID,
		RevieweeID: order.FreelancerID,
		Rating:     rating,
		Message:    "Great work",
	}
	require.NoError(t, db.Create(review).Error, "Не удалось создать отзыв")
	return review
}

// CreateMessage вставляет сообщение с заданным временем создания
func CreateMessage(t *testing.T, db *gorm.DB, msg *models.Message, at time.Time) *models.Message {
	t.Helper()

	if msg.Attachments == nil {
		msg.Attachments = []string{}
	}
	msg.CreatedAt = at
	msg.UpdatedAt = at
	require.NoError(t, db.Create(msg).Error, "Не удалось создать сообщение")
	return msg
}

// WithEmail, WithRating и WithGigStatus - опции фабрик
func WithEmail(email string) func(*models.User) {
	return func(u *models.User) { u.Email = email }
}

func WithRating(rating float64, total int) func(*models.User) {
	return func(u *models.User) {
		u.Rating = rating
		u.TotalReviews = total
	}
}

func WithGigStatus(status models.GigStatus) func(*models.Gig) {
	return func(g *models.Gig) { g.Status = status }
}

func WithPrice(price float64) func(*models.Gig) {
	return func(g *models.Gig) { g.Price = price }
}

package services_test

import (
	"sync"
	"testing"

	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/services/dto"
	"gigmarket_backend/internal/testutil"
	"gigmarket_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_CreateOrder(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, freelancer.ID, testutil.WithPrice(750))

	order, err := e.svc.OrderService.CreateOrder(e.db, callerOf(client), &dto.CreateOrderRequest{
		GigID:        gig.ID,
		Requirements: "Two pages",
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 750.0, order.Price)
	assert.Equal(t, client.ID, order.ClientID)
	assert.Equal(t, freelancer.ID, order.FreelancerID)
	assert.False(t, order.IsReviewed)
	assert.Nil(t, order.CompletedAt)
	require.NotNil(t, order.Gig)
	assert.Equal(t, gig.Title, order.Gig.Title)
	require.NotNil(t, order.Freelancer)
	assert.Equal(t, freelancer.Email, order.Freelancer.Email)

	// фрилансер получает письмо о новом заказе
	e.notifier.Wait()
	require.Len(t, e.mail.Sent(), 1)
	assert.Equal(t, []string{freelancer.Email}, e.mail.Sent()[0].To)
}

func TestOrderService_CreateOrder_PriceIsSnapshot(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, freelancer.ID, testutil.WithPrice(500))

	order, err := e.svc.OrderService.CreateOrder(e.db, callerOf(client), &dto.CreateOrderRequest{GigID: gig.ID, Requirements: "x"})
	require.NoError(t, err)

	newPrice := 900.0
	_, err = e.svc.GigService.UpdateGig(e.db, callerOf(freelancer), gig.ID, &dto.UpdateGigRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 500.0, reloadOrder(t, e.db, order.ID).Price, "Цена заказа не должна следовать за гигом")
}

func TestOrderService_CreateOrder_Rejections(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	active := testutil.CreateGig(t, e.db, freelancer.ID)
	inactive := testutil.CreateGig(t, e.db, freelancer.ID, testutil.WithGigStatus(models.GigStatusInactive))

	tests := []struct {
		name    string
		caller  *models.User
		gigID   string
		wantErr error
	}{
		{"фрилансер не может заказывать", freelancer, active.ID, apperrors.ErrOnlyClientsOrder},
		{"неактивный гиг", client, inactive.ID, apperrors.ErrGigNotAvailable},
		{"несуществующий гиг", client, "missing", apperrors.ErrGigNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.OrderService.CreateOrder(e.db, callerOf(tt.caller), &dto.CreateOrderRequest{GigID: tt.gigID, Requirements: "x"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var count int64
	require.NoError(t, e.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderService_CreateOrder_OwnGig(t *testing.T) {
	e := newEnv(t)
	// клиент с гигом, оставшимся от прежней роли
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	gig := testutil.CreateGig(t, e.db, client.ID)

	_, err := e.svc.OrderService.CreateOrder(e.db, callerOf(client), &dto.CreateOrderRequest{GigID: gig.ID, Requirements: "x"})
	assert.ErrorIs(t, err, apperrors.ErrOwnGigOrder)
}

func TestOrderService_UpdateStatus_PermissiveOrder(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, freelancer.ID)
	order := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusPending)

	// фрилансер может перескакивать и возвращаться между статусами
	for _, status := range []models.OrderStatus{
		models.OrderStatusDelivered,
		models.OrderStatusAccepted,
		models.OrderStatusInProgress,
		models.OrderStatusDelivered,
	} {
		resp, err := e.svc.OrderService.UpdateStatus(e.db, callerOf(freelancer), order.ID, status)
		require.NoError(t, err, "Переход в %s", status)
		assert.Equal(t, status, resp.Status)
	}
}

func TestOrderService_UpdateStatus_Rejections(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, freelancer.ID)
	pending := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusPending)
	completed := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusCompleted)
	cancelled := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusCancelled)

	tests := []struct {
		name    string
		caller  *models.User
		orderID string
		status  models.OrderStatus
		wantErr error
	}{
		{"клиент не меняет статус", client, pending.ID, models.OrderStatusAccepted, apperrors.ErrOnlyFreelancerState},
		{"completed через status запрещен", freelancer, pending.ID, models.OrderStatusCompleted, apperrors.ErrInvalidOrderStatus},
		{"cancelled через status запрещен", freelancer, pending.ID, models.OrderStatusCancelled, apperrors.ErrInvalidOrderStatus},
		{"неизвестный статус", freelancer, pending.ID, "archived", apperrors.ErrInvalidOrderStatus},
		{"завершенный заказ закрыт", freelancer, completed.ID, models.OrderStatusDelivered, apperrors.ErrOrderClosed},
		{"отмененный заказ закрыт", freelancer, cancelled.ID, models.OrderStatusAccepted, apperrors.ErrOrderClosed},
		{"несуществующий заказ", freelancer, "missing", models.OrderStatusAccepted, apperrors.ErrOrderNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.OrderService.UpdateStatus(e.db, callerOf(tt.caller), tt.orderID, tt.status)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, models.OrderStatusCompleted, reloadOrder(t, e.db, completed.ID).Status)
	assert.Equal(t, models.OrderStatusCancelled, reloadOrder(t, e.db, cancelled.ID).Status)
}

func TestOrderService_CompleteOrder_Settles(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, freelancer.ID, testutil.WithPrice(1200))
	order := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusDelivered)

	resp, err := e.svc.OrderService.CompleteOrder(e.db, callerOf(client), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, resp.Status)
	assert.NotNil(t, resp.CompletedAt)

	assert.Equal(t, 1200.0, reloadUser(t, e.db, freelancer.ID).WalletBalance)
	assert.Equal(t, 1, reloadGig(t, e.db, gig.ID).Orders)

	// повторное завершение не начисляет второй раз
	_, err = e.svc.OrderService.CompleteOrder(e.db, callerOf(client), order.ID)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotDelivered)
	assert.Equal(t, 1200.0, reloadUser(t, e.db, freelancer.ID).WalletBalance)
	assert.Equal(t, 1, reloadGig(t, e.db, gig.ID).Orders)

	e.notifier.Wait()
	require.Len(t, e.mail.Sent(), 1)
}

func TestOrderService_CompleteOrder_Rejections(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, freelancer.ID)
	delivered := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusDelivered)
	inProgress := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusInProgress)

	_, err := e.svc.OrderService.CompleteOrder(e.db, callerOf(freelancer), delivered.ID)
	assert.ErrorIs(t, err, apperrors.ErrOnlyClientComplete)

	_, err = e.svc.OrderService.CompleteOrder(e.db, callerOf(client), inProgress.ID)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotDelivered)

	assert.Zero(t, reloadUser(t, e.db, freelancer.ID).WalletBalance)
	assert.Zero(t, reloadGig(t, e.db, gig.ID).Orders)
}

func TestOrderService_CompleteOrder_DeletedGig(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, freelancer.ID, testutil.WithPrice(300))
	order := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusDelivered)

	require.NoError(t, e.svc.GigService.DeleteGig(e.db, callerOf(freelancer), gig.ID))

	resp, err := e.svc.OrderService.CompleteOrder(e.db, callerOf(client), order.ID)
	require.NoError(t, err, "Удаленный гиг не должен блокировать завершение")
	assert.Equal(t, models.OrderStatusCompleted, resp.Status)
	assert.Equal(t, 300.0, reloadUser(t, e.db, freelancer.ID).WalletBalance)
}

func TestOrderService_CompleteOrder_ConcurrentSettlesOnce(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, freelancer.ID, testutil.WithPrice(400))
	order := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusDelivered)

	const workers = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.svc.OrderService.CompleteOrder(e.db, callerOf(client), order.ID); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes, "Заказ завершается ровно один раз")
	assert.Equal(t, 400.0, reloadUser(t, e.db, freelancer.ID).WalletBalance)
	assert.Equal(t, 1, reloadGig(t, e.db, gig.ID).Orders)
}

func TestOrderService_CancelOrder(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	stranger := testutil.CreateUser(t, e.db, models.UserRoleClient)
	gig := testutil.CreateGig(t, e.db, freelancer.ID)

	byClient := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusPending)
	resp, err := e.svc.OrderService.CancelOrder(e.db, callerOf(client), byClient.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, resp.Status)

	byFreelancer := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusPending)
	_, err = e.svc.OrderService.CancelOrder(e.db, callerOf(freelancer), byFreelancer.ID)
	require.NoError(t, err)

	pending := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusPending)
	_, err = e.svc.OrderService.CancelOrder(e.db, callerOf(stranger), pending.ID)
	assert.ErrorIs(t, err, apperrors.ErrCannotCancel)

	accepted := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusAccepted)
	_, err = e.svc.OrderService.CancelOrder(e.db, callerOf(client), accepted.ID)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotPending)
}

func TestOrderService_GetOrderAndLists(t *testing.T) {
	e := newEnv(t)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	stranger := testutil.CreateUser(t, e.db, models.UserRoleClient)
	gig := testutil.CreateGig(t, e.db, freelancer.ID)

	pending := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusPending)
	testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusDelivered)

	got, err := e.svc.OrderService.GetOrder(e.db, callerOf(freelancer), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	_, err = e.svc.OrderService.GetOrder(e.db, callerOf(stranger), pending.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotOrderParty)

	all, err := e.svc.OrderService.GetClientOrders(e.db, callerOf(client), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	delivered, err := e.svc.OrderService.GetFreelancerOrders(e.db, callerOf(freelancer), models.OrderStatusDelivered)
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, models.OrderStatusDelivered, delivered[0].Status)

	none, err := e.svc.OrderService.GetClientOrders(e.db, callerOf(stranger), "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

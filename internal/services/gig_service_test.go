package services_test

import (
	"testing"

	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/services/dto"
	"gigmarket_backend/internal/testutil"
	"gigmarket_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGigService_CreateGig(t *testing.T) {
	e := newEnv(t)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	client := testutil.CreateUser(t, e.db, models.UserRoleClient)

	req := &dto.CreateGigRequest{
		Title:        "Logo design",
		Description:  "Three concepts",
		Category:     models.GigCategoryDesign,
		Price:        250,
		DeliveryDays: 5,
		Tags:         []string{"logo"},
	}

	gig, err := e.svc.GigService.CreateGig(e.db, callerOf(freelancer), req)
	require.NoError(t, err)
	assert.Equal(t, freelancer.ID, gig.FreelancerID)
	assert.Equal(t, 1, gig.Revisions, "revisions по умолчанию 1")
	assert.Equal(t, models.GigStatusActive, gig.Status)
	assert.Equal(t, []string{}, gig.Images)

	_, err = e.svc.GigService.CreateGig(e.db, callerOf(client), req)
	assert.ErrorIs(t, err, apperrors.ErrOnlyFreelancers)
}

func TestGigService_ListGigs(t *testing.T) {
	e := newEnv(t)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	testutil.CreateGig(t, e.db, freelancer.ID, testutil.WithPrice(100), func(g *models.Gig) {
		g.Title = "Go microservice"
		g.Tags = []string{"golang", "api"}
	})
	testutil.CreateGig(t, e.db, freelancer.ID, testutil.WithPrice(300), func(g *models.Gig) {
		g.Title = "Brand identity"
		g.Category = models.GigCategoryDesign
	})
	testutil.CreateGig(t, e.db, freelancer.ID, testutil.WithPrice(200), testutil.WithGigStatus(models.GigStatusInactive))

	all, err := e.svc.GigService.ListGigs(e.db, &dto.GigListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total, "Неактивные гиги не попадают в каталог")
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 1, all.TotalPages)

	byCategory, err := e.svc.GigService.ListGigs(e.db, &dto.GigListQuery{Category: string(models.GigCategoryDesign)})
	require.NoError(t, err)
	require.Len(t, byCategory.Gigs, 1)
	assert.Equal(t, "Brand identity", byCategory.Gigs[0].Title)

	search, err := e.svc.GigService.ListGigs(e.db, &dto.GigListQuery{Search: "GOLANG"})
	require.NoError(t, err)
	require.Len(t, search.Gigs, 1)
	assert.Equal(t, "Go microservice", search.Gigs[0].Title)

	maxPrice := 150.0
	cheap, err := e.svc.GigService.ListGigs(e.db, &dto.GigListQuery{MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, cheap.Gigs, 1)
	assert.Equal(t, 100.0, cheap.Gigs[0].Price)

	asc, err := e.svc.GigService.ListGigs(e.db, &dto.GigListQuery{SortBy: "price", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, asc.Gigs, 2)
	assert.Equal(t, 100.0, asc.Gigs[0].Price)
	assert.Equal(t, 300.0, asc.Gigs[1].Price)

	paged, err := e.svc.GigService.ListGigs(e.db, &dto.GigListQuery{PageQuery: dto.PageQuery{Page: 2, Limit: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, paged.Count)
	assert.Equal(t, 2, paged.TotalPages)
}

func TestGigService_GetGigCountsViews(t *testing.T) {
	e := newEnv(t)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, freelancer.ID)

	for i := 0; i < 2; i++ {
		got, err := e.svc.GigService.GetGig(e.db, gig.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Freelancer)
		assert.Equal(t, freelancer.ID, got.Freelancer.ID)
	}
	assert.Equal(t, 2, reloadGig(t, e.db, gig.ID).Views)

	_, err := e.svc.GigService.GetGig(e.db, "missing")
	assert.ErrorIs(t, err, apperrors.ErrGigNotFound)
}

func TestGigService_UpdateAndDelete(t *testing.T) {
	e := newEnv(t)
	owner := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	other := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, owner.ID)

	title := "Updated title"
	tags := []string{"new", "tags"}
	inactive := models.GigStatusInactive
	updated, err := e.svc.GigService.UpdateGig(e.db, callerOf(owner), gig.ID, &dto.UpdateGigRequest{
		Title:  &title,
		Tags:   &tags,
		Status: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, tags, updated.Tags)
	assert.Equal(t, inactive, updated.Status)
	assert.Equal(t, gig.Price, updated.Price, "Незаданные поля не меняются")

	_, err = e.svc.GigService.UpdateGig(e.db, callerOf(other), gig.ID, &dto.UpdateGigRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrNotGigOwner)

	err = e.svc.GigService.DeleteGig(e.db, callerOf(other), gig.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotGigDeleter)

	require.NoError(t, e.svc.GigService.DeleteGig(e.db, callerOf(owner), gig.ID))
	err = e.svc.GigService.DeleteGig(e.db, callerOf(owner), gig.ID)
	assert.ErrorIs(t, err, apperrors.ErrGigNotFound)
}

func TestGigService_FreelancerGigs(t *testing.T) {
	e := newEnv(t)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	testutil.CreateGig(t, e.db, freelancer.ID)
	testutil.CreateGig(t, e.db, freelancer.ID, testutil.WithGigStatus(models.GigStatusInactive))

	mine, err := e.svc.GigService.GetMyGigs(e.db, callerOf(freelancer))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	public, err := e.svc.GigService.GetFreelancerGigs(e.db, freelancer.ID)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, models.GigStatusActive, public[0].Status)
}

func TestGigService_DeleteGigWithHistory(t *testing.T) {
	e := newEnv(t)

	var foreignKeys int
	require.NoError(t, e.db.Raw("PRAGMA foreign_keys").Scan(&foreignKeys).Error)
	require.Equal(t, 1, foreignKeys, "Тестовая база проверяет внешние ключи, как postgres")

	client := testutil.CreateUser(t, e.db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, e.db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, e.db, freelancer.ID)
	pending := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusPending)
	done := testutil.CreateOrder(t, e.db, client.ID, gig, models.OrderStatusCompleted)
	testutil.CreateReview(t, e.db, done, 5)

	require.NoError(t, e.svc.GigService.DeleteGig(e.db, callerOf(freelancer), gig.ID))

	_, err := e.svc.GigService.GetGig(e.db, gig.ID)
	assert.ErrorIs(t, err, apperrors.ErrGigNotFound)
	assert.Equal(t, gig.ID, reloadOrder(t, e.db, pending.ID).GigID, "Заказы переживают удаление гига")

	reviews, err := e.svc.ReviewService.GetUserReviews(e.db, freelancer.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

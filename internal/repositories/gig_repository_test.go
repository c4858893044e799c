package repositories_test

import (
	"testing"

	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/repositories"
	"gigmarket_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGigRepository_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewGigRepository()

	freelancer := testutil.CreateUser(t, db, models.UserRoleFreelancer)
	cheap := testutil.CreateGig(t, db, freelancer.ID, testutil.WithPrice(100), func(g *models.Gig) {
		g.Title = "Logo in 100% vector"
	})
	mid := testutil.CreateGig(t, db, freelancer.ID, testutil.WithPrice(300))
	testutil.CreateGig(t, db, freelancer.ID, testutil.WithPrice(900), func(g *models.Gig) {
		g.Category = models.GigCategoryDesign
	})
	testutil.CreateGig(t, db, freelancer.ID, testutil.WithGigStatus(models.GigStatusInactive))

	minPrice, maxPrice := 150.0, 500.0

	tests := []struct {
		name    string
		filter  repositories.GigFilter
		wantIDs []string
		total   int64
	}{
		{
			name:   "только активные",
			filter: repositories.GigFilter{Limit: 10},
			total:  3,
		},
		{
			name:    "диапазон цены",
			filter:  repositories.GigFilter{MinPrice: &minPrice, MaxPrice: &maxPrice, Limit: 10},
			wantIDs: []string{mid.ID},
			total:   1,
		},
		{
			name:    "поиск экранирует процент",
			filter:  repositories.GigFilter{Search: "100%", Limit: 10},
			wantIDs: []string{cheap.ID},
			total:   1,
		},
		{
			name:    "сортировка по цене по возрастанию с лимитом",
			filter:  repositories.GigFilter{SortBy: "price", Asc: true, Limit: 2},
			wantIDs: []string{cheap.ID, mid.ID},
			total:   3,
		},
		{
			name:   "категория",
			filter: repositories.GigFilter{Category: string(models.GigCategoryDesign), Limit: 10},
			total:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gigs, total, err := repo.List(db, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			if tt.wantIDs == nil {
				return
			}
			ids := make([]string, 0, len(gigs))
			for _, g := range gigs {
				ids = append(ids, g.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGigRepository_Counters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewGigRepository()

	freelancer := testutil.CreateUser(t, db, models.UserRoleFreelancer)
	gig := testutil.CreateGig(t, db, freelancer.ID)

	require.NoError(t, repo.IncrementViews(db, gig.ID))
	require.NoError(t, repo.IncrementViews(db, gig.ID))
	require.NoError(t, repo.IncrementOrders(db, gig.ID))
	assert.ErrorIs(t, repo.IncrementOrders(db, "missing"), repositories.ErrGigNotFound)

	stored, err := repo.FindByID(db, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Views)
	assert.Equal(t, 1, stored.Orders)
}

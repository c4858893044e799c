package workers_test

import (
	"context"
	"testing"

	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/repositories"
	"gigmarket_backend/internal/services"
	"gigmarket_backend/internal/testutil"
	"gigmarket_backend/internal/workers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatings() *services.RatingAggregator {
	return services.NewRatingAggregator(
		repositories.NewReviewRepository(),
		repositories.NewUserRepository(),
		repositories.NewGigRepository(),
	)
}

func TestRatingWorker_RunOnceReconcilesStaleRatings(t *testing.T) {
	db := testutil.NewTestDB(t)

	client := testutil.CreateUser(t, db, models.UserRoleClient)
	freelancer := testutil.CreateUser(t, db, models.UserRoleFreelancer)
	idle := testutil.CreateUser(t, db, models.UserRoleFreelancer, testutil.WithRating(3.3, 7))
	gig := testutil.CreateGig(t, db, freelancer.ID)

	// отзывы вставлены напрямую, агрегаты устарели
	testutil.CreateReview(t, db, testutil.CreateOrder(t, db, client.ID, gig, models.OrderStatusCompleted), 5)
	testutil.CreateReview(t, db, testutil.CreateOrder(t, db, client.ID, gig, models.OrderStatusCompleted), 4)

	worker := workers.NewRatingWorker(db, newRatings(), 0)
	updated, err := worker.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, updated, "Должны обновиться фрилансер и его гиг")

	var gotUser models.User
	require.NoError(t, db.First(&gotUser, "id = ?", freelancer.ID).Error)
	assert.Equal(t, 4.5, gotUser.Rating)
	assert.Equal(t, 2, gotUser.TotalReviews)

	var gotGig models.Gig
	require.NoError(t, db.First(&gotGig, "id = ?", gig.ID).Error)
	assert.Equal(t, 4.5, gotGig.Rating)
	assert.Equal(t, 2, gotGig.TotalReviews)

	// без отзывов запись не трогается
	var gotIdle models.User
	require.NoError(t, db.First(&gotIdle, "id = ?", idle.ID).Error)
	assert.Equal(t, 3.3, gotIdle.Rating)
	assert.Equal(t, 7, gotIdle.TotalReviews)
}

func TestRatingWorker_RunOnceStopsOnCancelledContext(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, models.UserRoleFreelancer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	worker := workers.NewRatingWorker(db, newRatings(), 0)
	_, err := worker.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRatingWorker_StartDisabled(t *testing.T) {
	db := testutil.NewTestDB(t)
	worker := workers.NewRatingWorker(db, newRatings(), 0)

	// не должен запускать горутину и не должен паниковать
	worker.Start(context.Background())
}

package workers

import (
	"context"
	"time"

	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/metrics"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/repositories"
	"gigmarket_backend/internal/services"

	"gorm.io/gorm"
)

const ratingWorkerName = "rating_reconcile"

// RatingWorker периодически пересчитывает рейтинги всех фрилансеров и
// гигов по отзывам. Выравнивает расхождения, когда несколько инстансов
// пересчитывали один субъект одновременно.
type RatingWorker struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
	gigRepo  repositories.GigRepository
	ratings  *services.RatingAggregator
	interval time.Duration
}

func NewRatingWorker(db *gorm.DB, ratings *services.RatingAggregator, interval time.Duration) *RatingWorker {
	return &RatingWorker{
		db:       db,
		userRepo: repositories.NewUserRepository(),
		gigRepo:  repositories.NewGigRepository(),
		ratings:  ratings,
		interval: interval,
	}
}

// Start запускает пересчет по тикеру. interval <= 0 отключает воркер.
func (w *RatingWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		logger.Info("Rating worker disabled")
		return
	}
	go w.loop(ctx)
}

func (w *RatingWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Rating worker stopped")
			return
		case <-ticker.C:
			_, _ = w.RunOnce(ctx)
		}
	}
}

// RunOnce делает один проход и возвращает число обновленных субъектов
func (w *RatingWorker) RunOnce(ctx context.Context) (updated int, err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.WorkerRuns.WithLabelValues(ratingWorkerName, result).Inc()
		logger.WorkerLog(ratingWorkerName, "reconcile", err,
			"updated", updated,
			"duration", time.Since(start),
		)
	}()

	db := w.db.WithContext(ctx)

	userIDs, err := w.userRepo.ListIDsByRole(db, models.UserRoleFreelancer)
	if err != nil {
		return updated, err
	}
	for _, id := range userIDs {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		unlock := w.ratings.LockUser(id)
		ok, err := w.ratings.RecomputeUser(db, id)
		unlock()
		if err != nil {
			return updated, err
		}
		if ok {
			updated++
		}
	}

	gigIDs, err := w.gigRepo.ListIDs(db)
	if err != nil {
		return updated, err
	}
	for _, id := range gigIDs {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		unlock := w.ratings.LockGig(id)
		ok, err := w.ratings.RecomputeGig(db, id)
		unlock()
		if err != nil {
			return updated, err
		}
		if ok {
			updated++
		}
	}

	return updated, nil
}

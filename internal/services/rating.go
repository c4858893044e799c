package services

import (
	"math"
	"sync"

	"gigmarket_backend/internal/repositories"

	"gorm.io/gorm"
)

// RatingAggregator полностью пересчитывает рейтинг пользователя или гига
// по всем отзывам. Пересчёты одного субъекта сериализуются внутри процесса.
type RatingAggregator struct {
	reviewRepo repositories.ReviewRepository
	userRepo   repositories.UserRepository
	gigRepo    repositories.GigRepository
	locks      *keyedMutex
}

func NewRatingAggregator(
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
	gigRepo repositories.GigRepository,
) *RatingAggregator {
	return &RatingAggregator{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		gigRepo:    gigRepo,
		locks:      newKeyedMutex(),
	}
}

func userSubject(id string) string { return "user:" + id }
func gigSubject(id string) string  { return "gig:" + id }

// LockSubjects берет блокировки пользователя и гига. Порядок всегда
// user, затем gig, поэтому два вызова не могут взаимно заблокироваться.
func (a *RatingAggregator) LockSubjects(userID, gigID string) (unlock func()) {
	unlockUser := a.locks.Lock(userSubject(userID))
	unlockGig := a.locks.Lock(gigSubject(gigID))
	return func() {
		unlockGig()
		unlockUser()
	}
}

// LockUser и LockGig - блокировка одного субъекта (для фонового пересчёта)
func (a *RatingAggregator) LockUser(userID string) (unlock func()) {
	return a.locks.Lock(userSubject(userID))
}

func (a *RatingAggregator) LockGig(gigID string) (unlock func()) {
	return a.locks.Lock(gigSubject(gigID))
}

// RecomputeUser пересчитывает рейтинг по отзывам с revieweeId == userID.
// Вызывающий держит блокировку субъекта. Если отзывов нет, запись не
// меняется и возвращается false.
func (a *RatingAggregator) RecomputeUser(db *gorm.DB, userID string) (bool, error) {
	stats, err := a.reviewRepo.UserRatingStats(db, userID)
	if err != nil {
		return false, err
	}
	if stats.Count == 0 {
		return false, nil
	}
	return true, a.userRepo.SetRating(db, userID, roundRating(stats), int(stats.Count))
}

// RecomputeGig пересчитывает рейтинг по отзывам заказов этого гига
func (a *RatingAggregator) RecomputeGig(db *gorm.DB, gigID string) (bool, error) {
	stats, err := a.reviewRepo.GigRatingStats(db, gigID)
	if err != nil {
		return false, err
	}
	if stats.Count == 0 {
		return false, nil
	}
	return true, a.gigRepo.SetRating(db, gigID, roundRating(stats), int(stats.Count))
}

// roundRating - среднее с округлением до одного знака
func roundRating(stats repositories.RatingStats) float64 {
	mean := float64(stats.Sum) / float64(stats.Count)
	return math.Round(mean*10) / 10
}

// keyedMutex - набор мьютексов по ключу. Запись удаляется, когда её
// больше никто не держит и не ждёт.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.Unlock()
			k.mu.Lock()
			m.refs--
			if m.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}

// size - число активных ключей (для тестов)
func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

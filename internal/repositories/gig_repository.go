package repositories

import (
	"errors"

	"gigmarket_backend/internal/models"

	"gorm.io/gorm"
)

var ErrGigNotFound = errors.New("gig not found")

// gigSortColumns - разрешенные поля сортировки
var gigSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"rating":    "rating",
	"orders":    "orders",
	"views":     "views",
}

type GigRepository interface {
	Create(db *gorm.DB, gig *models.Gig) error
	FindByID(db *gorm.DB, id string) (*models.Gig, error)
	FindByIDWithFreelancer(db *gorm.DB, id string) (*models.Gig, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.Gig, error)
	UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error
	Delete(db *gorm.DB, id string) error
	List(db *gorm.DB, filter GigFilter) ([]models.Gig, int64, error)
	FindByFreelancer(db *gorm.DB, freelancerID string, activeOnly bool) ([]models.Gig, error)

	// Производные поля
	IncrementViews(db *gorm.DB, id string) error
	IncrementOrders(db *gorm.DB, id string) error
	SetRating(db *gorm.DB, id string, rating float64, total int) error
	ListIDs(db *gorm.DB) ([]string, error)
}

type GigFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	SortBy   string
	Asc      bool
	Offset   int
	Limit    int
}

type GigRepositoryImpl struct{}

func NewGigRepository() GigRepository {
	return &GigRepositoryImpl{}
}

func (r *GigRepositoryImpl) Create(db *gorm.DB, gig *models.Gig) error {
	return db.Create(gig).Error
}

func (r *GigRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Gig, error) {
	var gig models.Gig
	if err := db.First(&gig, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGigNotFound
		}
		return nil, err
	}
	return &gig, nil
}

func (r *GigRepositoryImpl) FindByIDWithFreelancer(db *gorm.DB, id string) (*models.Gig, error) {
	var gig models.Gig
	if err := db.Preload("Freelancer").First(&gig, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGigNotFound
		}
		return nil, err
	}
	return &gig, nil
}

func (r *GigRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.Gig, error) {
	var gigs []models.Gig
	if len(ids) == 0 {
		return gigs, nil
	}
	err := db.Where("id IN ?", ids).Find(&gigs).Error
	return gigs, err
}

func (r *GigRepositoryImpl) UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.Gig{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGigNotFound
	}
	return nil
}

func (r *GigRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Gig{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGigNotFound
	}
	return nil
}

func (r *GigRepositoryImpl) List(db *gorm.DB, filter GigFilter) ([]models.Gig, int64, error) {
	query := db.Model(&models.Gig{}).Where("status = ?", models.GigStatusActive)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where(
			`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := gigSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := " DESC"
	if filter.Asc {
		direction = " ASC"
	}

	var gigs []models.Gig
	err := query.Preload("Freelancer").
		Order(column + direction).Order("id").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&gigs).Error
	return gigs, total, err
}

func (r *GigRepositoryImpl) FindByFreelancer(db *gorm.DB, freelancerID string, activeOnly bool) ([]models.Gig, error) {
	query := db.Where("freelancer_id = ?", freelancerID)
	if activeOnly {
		query = query.Where("status = ?", models.GigStatusActive)
	}
	var gigs []models.Gig
	err := query.Order("created_at DESC").Find(&gigs).Error
	return gigs, err
}

func (r *GigRepositoryImpl) IncrementViews(db *gorm.DB, id string) error {
	return r.increment(db, id, "views")
}

func (r *GigRepositoryImpl) IncrementOrders(db *gorm.DB, id string) error {
	return r.increment(db, id, "orders")
}

func (r *GigRepositoryImpl) increment(db *gorm.DB, id, column string) error {
	result := db.Model(&models.Gig{}).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGigNotFound
	}
	return nil
}

func (r *GigRepositoryImpl) SetRating(db *gorm.DB, id string, rating float64, total int) error {
	return db.Model(&models.Gig{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"rating": rating, "total_reviews": total}).Error
}

func (r *GigRepositoryImpl) ListIDs(db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.Model(&models.Gig{}).Pluck("id", &ids).Error
	return ids, err
}

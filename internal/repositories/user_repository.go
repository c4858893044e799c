package repositories

import (
	"encoding/json"
	"errors"

	"gigmarket_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.User, error)
	UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error
	Delete(db *gorm.DB, id string) error
	SearchFreelancers(db *gorm.DB, filter FreelancerFilter) ([]models.User, int64, error)

	// Производные поля
	CreditWallet(db *gorm.DB, id string, amount float64) error
	SetRating(db *gorm.DB, id string, rating float64, total int) error
	ListIDsByRole(db *gorm.DB, role models.UserRole) ([]string, error)
}

type FreelancerFilter struct {
	Category  string
	Skill     string
	MinRating float64
	Offset    int
	Limit     int
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SearchFreelancers(db *gorm.DB, filter FreelancerFilter) ([]models.User, int64, error) {
	query := db.Model(&models.User{}).Where("role = ?", models.UserRoleFreelancer)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Skill != "" {
		// skills хранится JSON-массивом, ищем точный элемент
		encoded, err := json.Marshal(filter.Skill)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where(`skills LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(string(encoded))+"%")
	}
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.Order("rating DESC").Order("created_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&users).Error
	return users, total, err
}

// CreditWallet атомарно увеличивает баланс
func (r *UserRepositoryImpl) CreditWallet(db *gorm.DB, id string, amount float64) error {
	result := db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SetRating(db *gorm.DB, id string, rating float64, total int) error {
	return db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"rating": rating, "total_reviews": total}).Error
}

func (r *UserRepositoryImpl) ListIDsByRole(db *gorm.DB, role models.UserRole) ([]string, error) {
	var ids []string
	err := db.Model(&models.User{}).Where("role = ?", role).Pluck("id", &ids).Error
	return ids, err
}

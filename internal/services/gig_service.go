package services

import (
	"errors"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/repositories"
	"gigmarket_backend/internal/services/dto"
	"gigmarket_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type GigService interface {
	CreateGig(db *gorm.DB, caller auth.CallerContext, req *dto.CreateGigRequest) (*models.Gig, error)
	ListGigs(db *gorm.DB, query *dto.GigListQuery) (*dto.GigListResponse, error)
	GetGig(db *gorm.DB, gigID string) (*models.Gig, error)
	UpdateGig(db *gorm.DB, caller auth.CallerContext, gigID string, req *dto.UpdateGigRequest) (*models.Gig, error)
	DeleteGig(db *gorm.DB, caller auth.CallerContext, gigID string) error
	GetMyGigs(db *gorm.DB, caller auth.CallerContext) ([]models.Gig, error)
	GetFreelancerGigs(db *gorm.DB, freelancerID string) ([]models.Gig, error)
}

type gigService struct {
	gigRepo repositories.GigRepository
}

func NewGigService(gigRepo repositories.GigRepository) GigService {
	return &gigService{gigRepo: gigRepo}
}

func (s *gigService) CreateGig(db *gorm.DB, caller auth.CallerContext, req *dto.CreateGigRequest) (*models.Gig, error) {
	if !caller.IsFreelancer() {
		return nil, apperrors.ErrOnlyFreelancers
	}

	revisions := 1
	if req.Revisions != nil {
		revisions = *req.Revisions
	}

	gig := &models.Gig{
		FreelancerID: caller.UserID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		DeliveryDays: req.DeliveryDays,
		Revisions:    revisions,
		Images:       nonNil(req.Images),
		Tags:         nonNil(req.Tags),
		Status:       models.GigStatusActive,
	}
	if err := s.gigRepo.Create(db, gig); err != nil {
		return nil, handleGigError(err)
	}
	logger.CtxInfo(dbContext(db), "gig created", "gig_id", gig.ID)
	return gig, nil
}

func (s *gigService) ListGigs(db *gorm.DB, query *dto.GigListQuery) (*dto.GigListResponse, error) {
	page, limit := query.Normalize()
	filter := repositories.GigFilter{
		Category: query.Category,
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
		Search:   query.Search,
		SortBy:   query.SortBy,
		Asc:      query.Order == "asc",
		Offset:   query.Offset(),
		Limit:    limit,
	}

	gigs, total, err := s.gigRepo.List(db, filter)
	if err != nil {
		return nil, handleGigError(err)
	}
	return &dto.GigListResponse{
		Count:      len(gigs),
		Total:      total,
		Page:       page,
		TotalPages: dto.TotalPages(total, limit),
		Gigs:       gigs,
	}, nil
}

// GetGig увеличивает счетчик просмотров и возвращает гиг с фрилансером
func (s *gigService) GetGig(db *gorm.DB, gigID string) (*models.Gig, error) {
	if err := s.gigRepo.IncrementViews(db, gigID); err != nil {
		return nil, handleGigError(err)
	}
	gig, err := s.gigRepo.FindByIDWithFreelancer(db, gigID)
	if err != nil {
		return nil, handleGigError(err)
	}
	return gig, nil
}

func (s *gigService) UpdateGig(db *gorm.DB, caller auth.CallerContext, gigID string, req *dto.UpdateGigRequest) (*models.Gig, error) {
	gig, err := s.gigRepo.FindByID(db, gigID)
	if err != nil {
		return nil, handleGigError(err)
	}
	if !caller.Is(gig.FreelancerID) {
		return nil, apperrors.ErrNotGigOwner
	}

	if err := s.gigRepo.UpdateFields(db, gig.ID, gigUpdates(req)); err != nil {
		return nil, handleGigError(err)
	}

	updated, err := s.gigRepo.FindByID(db, gig.ID)
	if err != nil {
		return nil, handleGigError(err)
	}
	return updated, nil
}

func (s *gigService) DeleteGig(db *gorm.DB, caller auth.CallerContext, gigID string) error {
	gig, err := s.gigRepo.FindByID(db, gigID)
	if err != nil {
		return handleGigError(err)
	}
	if !caller.Is(gig.FreelancerID) {
		return apperrors.ErrNotGigDeleter
	}
	if err := s.gigRepo.Delete(db, gig.ID); err != nil {
		return handleGigError(err)
	}
	logger.CtxInfo(dbContext(db), "gig deleted", "gig_id", gig.ID)
	return nil
}

func (s *gigService) GetMyGigs(db *gorm.DB, caller auth.CallerContext) ([]models.Gig, error) {
	gigs, err := s.gigRepo.FindByFreelancer(db, caller.UserID, false)
	if err != nil {
		return nil, handleGigError(err)
	}
	return gigs, nil
}

func (s *gigService) GetFreelancerGigs(db *gorm.DB, freelancerID string) ([]models.Gig, error) {
	gigs, err := s.gigRepo.FindByFreelancer(db, freelancerID, true)
	if err != nil {
		return nil, handleGigError(err)
	}
	return gigs, nil
}

// gigUpdates переводит заданные поля запроса в колонки
func gigUpdates(req *dto.UpdateGigRequest) map[string]interface{} {
	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.DeliveryDays != nil {
		fields["delivery_days"] = *req.DeliveryDays
	}
	if req.Revisions != nil {
		fields["revisions"] = *req.Revisions
	}
	if req.Images != nil {
		fields["images"] = jsonColumn(*req.Images)
	}
	if req.Tags != nil {
		fields["tags"] = jsonColumn(*req.Tags)
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	return fields
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func handleGigError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repositories.ErrGigNotFound):
		return apperrors.ErrGigNotFound
	}
	return apperrors.ErrDatabase(err)
}

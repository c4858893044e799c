package handlers

import (
	"net/http"

	"gigmarket_backend/internal/services"
	"gigmarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	reviews := rg.Group("/reviews")
	{
		reviews.POST("", requireAuth, h.CreateReview)
		reviews.GET("/gig/:gigId", h.GetGigReviews)
		reviews.GET("/user/:userId", h.GetUserReviews)
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Review submitted successfully",
		"review":  review,
	})
}

func (h *ReviewHandler) GetGigReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetGigReviews(h.GetDB(c), c.Param("gigId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.respondList(c, reviews)
}

func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetUserReviews(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.respondList(c, reviews)
}

func (h *ReviewHandler) respondList(c *gin.Context, reviews []*dto.ReviewResponse) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(reviews),
		"reviews": reviews,
	})
}

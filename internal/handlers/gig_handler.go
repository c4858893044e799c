package handlers

import (
	"net/http"

	"gigmarket_backend/internal/services"
	"gigmarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type GigHandler struct {
	*BaseHandler
	gigService services.GigService
}

func NewGigHandler(base *BaseHandler, gigService services.GigService) *GigHandler {
	return &GigHandler{
		BaseHandler: base,
		gigService:  gigService,
	}
}

func (h *GigHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	gigs := rg.Group("/gigs")
	{
		gigs.GET("/my", requireAuth, h.GetMyGigs)
		gigs.GET("/freelancer/:freelancerId", h.GetFreelancerGigs)
		gigs.POST("", requireAuth, h.CreateGig)
		gigs.GET("", h.ListGigs)
		gigs.GET("/:id", h.GetGig)
		gigs.PUT("/:id", requireAuth, h.UpdateGig)
		gigs.DELETE("/:id", requireAuth, h.DeleteGig)
	}
}

func (h *GigHandler) CreateGig(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateGigRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	gig, err := h.gigService.CreateGig(h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Gig created successfully",
		"gig":     gig,
	})
}

func (h *GigHandler) ListGigs(c *gin.Context) {
	var query dto.GigListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.gigService.ListGigs(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      resp.Count,
		"total":      resp.Total,
		"page":       resp.Page,
		"totalPages": resp.TotalPages,
		"gigs":       resp.Gigs,
	})
}

func (h *GigHandler) GetGig(c *gin.Context) {
	gig, err := h.gigService.GetGig(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"gig":     gig,
	})
}

func (h *GigHandler) UpdateGig(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateGigRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	gig, err := h.gigService.UpdateGig(h.GetDB(c), caller, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gig updated successfully",
		"gig":     gig,
	})
}

func (h *GigHandler) DeleteGig(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	if err := h.gigService.DeleteGig(h.GetDB(c), caller, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gig deleted successfully",
	})
}

func (h *GigHandler) GetMyGigs(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	gigs, err := h.gigService.GetMyGigs(h.GetDB(c), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(gigs),
		"gigs":    gigs,
	})
}

func (h *GigHandler) GetFreelancerGigs(c *gin.Context) {
	gigs, err := h.gigService.GetFreelancerGigs(h.GetDB(c), c.Param("freelancerId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(gigs),
		"gigs":    gigs,
	})
}

package handlers

import (
	"net/http"

	"gigmarket_backend/internal/services"
	"gigmarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// RegisterRoutes: статические пути регистрируются раньше /:id
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.GET("/freelancers", h.SearchFreelancers)
		users.GET("/wallet", requireAuth, h.GetWallet)
		users.PUT("/profile", requireAuth, h.UpdateProfile)
		users.DELETE("/profile", requireAuth, h.DeleteAccount)
		users.GET("/:id", h.GetProfile)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteAccount(h.GetDB(c), caller); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deleted successfully",
	})
}

func (h *UserHandler) SearchFreelancers(c *gin.Context) {
	var query dto.FreelancerSearchQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.userService.SearchFreelancers(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       resp.Count,
		"total":       resp.Total,
		"page":        resp.Page,
		"totalPages":  resp.TotalPages,
		"freelancers": resp.Freelancers,
	})
}

func (h *UserHandler) GetWallet(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	wallet, err := h.userService.GetWallet(h.GetDB(c), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"walletBalance":   wallet.WalletBalance,
		"completedOrders": wallet.CompletedOrders,
	})
}

package handlers

import (
	"net/http"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/services"
	"gigmarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderHandler struct {
	*BaseHandler
	orderService services.OrderService
}

func NewOrderHandler(base *BaseHandler, orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		BaseHandler:  base,
		orderService: orderService,
	}
}

// RegisterRoutes: все маршруты заказов приватные
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	orders := rg.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.GET("/my", h.GetMyOrders)
		orders.GET("/received", h.GetReceivedOrders)
		orders.POST("", h.CreateOrder)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id/status", h.UpdateStatus)
		orders.PUT("/:id/complete", h.CompleteOrder)
		orders.PUT("/:id/cancel", h.CancelOrder)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	h.listOrders(c, h.orderService.GetClientOrders)
}

func (h *OrderHandler) GetReceivedOrders(c *gin.Context) {
	h.listOrders(c, h.orderService.GetFreelancerOrders)
}

type orderLister func(db *gorm.DB, caller auth.CallerContext, status models.OrderStatus) ([]*dto.OrderResponse, error)

func (h *OrderHandler) listOrders(c *gin.Context, list orderLister) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var query dto.OrderListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	orders, err := list(h.GetDB(c), caller, models.OrderStatus(query.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"orders":  orders,
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(h.GetDB(c), caller, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(h.GetDB(c), caller, c.Param("id"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order " + string(order.Status),
		"order":   order,
	})
}

func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	order, err := h.orderService.CompleteOrder(h.GetDB(c), caller, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order completed successfully",
		"order":   order,
	})
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(h.GetDB(c), caller, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order cancelled",
		"order":   order,
	})
}

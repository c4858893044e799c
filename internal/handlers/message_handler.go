package handlers

import (
	"net/http"

	"gigmarket_backend/internal/services"
	"gigmarket_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	*BaseHandler
	messageService services.MessageService
}

func NewMessageHandler(base *BaseHandler, messageService services.MessageService) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    base,
		messageService: messageService,
	}
}

func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	messages := rg.Group("/messages")
	messages.Use(requireAuth)
	{
		messages.GET("/unread", h.GetUnreadCount)
		messages.GET("/conversations", h.GetConversations)
		messages.GET("/order/:orderId", h.GetOrderMessages)
		messages.GET("/gig/:gigId", h.GetGigMessages)
		messages.POST("", h.SendMessage)
		messages.PUT("/:id/read", h.MarkAsRead)
	}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.messageService.SendMessage(h.GetDB(c), caller, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Message sent",
		"data":    msg,
	})
}

func (h *MessageHandler) GetOrderMessages(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	messages, err := h.messageService.GetOrderMessages(h.GetDB(c), caller, c.Param("orderId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.respondList(c, messages)
}

func (h *MessageHandler) GetGigMessages(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var query dto.GigMessagesQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	messages, err := h.messageService.GetGigMessages(h.GetDB(c), caller, c.Param("gigId"), query.ClientID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.respondList(c, messages)
}

func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	if err := h.messageService.MarkAsRead(h.GetDB(c), caller, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message marked as read",
	})
}

func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	count, err := h.messageService.GetUnreadCount(h.GetDB(c), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"unreadCount": count,
	})
}

func (h *MessageHandler) GetConversations(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	conversations, err := h.messageService.GetConversations(h.GetDB(c), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"count":         len(conversations),
		"conversations": conversations,
	})
}

func (h *MessageHandler) respondList(c *gin.Context, messages []*dto.MessageResponse) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(messages),
		"messages": messages,
	})
}

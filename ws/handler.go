package ws

import (
	"context"
	"net/http"
	"strings"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/middleware"
	"gigmarket_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// RoomAuthorizer решает, может ли пользователь войти в комнату и писать в нее
type RoomAuthorizer func(ctx context.Context, userID, room string) error

type WebSocketHandler struct {
	Manager   *WebSocketManager
	tokens    *auth.TokenManager
	authorize RoomAuthorizer
	upgrader  websocket.Upgrader
}

// NewWebSocketHandler: allowedOrigin "" или "*" пускает любой origin.
// authorize == nil пускает в любую комнату.
func NewWebSocketHandler(manager *WebSocketManager, tokens *auth.TokenManager, authorize RoomAuthorizer, allowedOrigin string) *WebSocketHandler {
	return &WebSocketHandler{
		Manager:   manager,
		tokens:    tokens,
		authorize: authorize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return strings.EqualFold(origin, allowedOrigin)
			},
		},
	}
}

// ServeWS проверяет токен (?token= или Authorization: Bearer) до апгрейда
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token, _ = middleware.BearerToken(c.GetHeader("Authorization"))
	}
	if token == "" {
		apperrors.HandleError(c, apperrors.ErrNoToken)
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "ws: upgrade failed", "error", err)
		return
	}

	// контекст запроса завершается вместе с хэндлером, сокет живет дольше
	ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
	client := newClient(context.WithoutCancel(ctx), h.Manager, conn, claims.UserID, h.authorize)
	if !h.Manager.Register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

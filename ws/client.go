package ws

import (
	"context"
	"encoding/json"
	"time"

	"gigmarket_backend/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// Client - одно подключение. userID берется из проверенного токена.
type Client struct {
	id      string
	userID  string
	conn    *websocket.Conn
	send    chan []byte
	manager *WebSocketManager
	ctx     context.Context

	// rooms меняется только в горутине менеджера
	rooms map[string]bool

	// allowed - кэш проверенных комнат, только для readPump
	authorize RoomAuthorizer
	allowed   map[string]bool
}

func newClient(ctx context.Context, manager *WebSocketManager, conn *websocket.Conn, userID string, authorize RoomAuthorizer) *Client {
	return &Client{
		id:        uuid.NewString(),
		userID:    userID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		manager:   manager,
		ctx:       ctx,
		rooms:     make(map[string]bool),
		authorize: authorize,
		allowed:   make(map[string]bool),
	}
}

// canUse проверяет доступ к комнате один раз на подключение
func (c *Client) canUse(room string) bool {
	if c.authorize == nil || c.allowed[room] {
		return true
	}
	if err := c.authorize(c.ctx, c.userID, room); err != nil {
		logger.CtxWarn(c.ctx, "ws: room access denied", "room", room, "error", err)
		return false
	}
	c.allowed[room] = true
	return true
}

func (c *Client) readPump() {
	defer func() {
		c.manager.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.CtxWarn(c.ctx, "ws: unexpected close", "error", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			logger.CtxDebug(c.ctx, "ws: malformed frame", "error", err)
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

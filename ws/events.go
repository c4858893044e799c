package ws

import (
	"encoding/json"

	"gigmarket_backend/internal/logger"
)

// Входящие и исходящие события
const (
	EventJoinRoom       = "joinRoom"
	EventSendMessage    = "sendMessage"
	EventTyping         = "typing"
	EventReceiveMessage = "receiveMessage"
	EventUserTyping     = "userTyping"
)

// Frame - кадр {event, data} в обе стороны
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// roomTarget - поля, по которым выбирается комната
type roomTarget struct {
	OrderID  string `json:"orderId"`
	GigID    string `json:"gigId"`
	ClientID string `json:"clientId"`
}

// room: комната заказа, иначе inquiry_<gigId>_<clientId>.
// fallbackClient используется, когда clientId не передан.
func (t roomTarget) room(fallbackClient string) string {
	if t.OrderID != "" {
		return t.OrderID
	}
	if t.GigID == "" {
		return ""
	}
	client := t.ClientID
	if client == "" {
		client = fallbackClient
	}
	return "inquiry_" + t.GigID + "_" + client
}

type relayedMessage struct {
	roomTarget
	SenderID string `json:"senderId"`
}

type typingPayload struct {
	roomTarget
	IsTyping bool `json:"isTyping"`
}

type userTyping struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

func (c *Client) handleFrame(frame Frame) {
	switch frame.Event {
	case EventJoinRoom:
		var room string
		if err := json.Unmarshal(frame.Data, &room); err != nil || room == "" {
			logger.CtxDebug(c.ctx, "ws: invalid joinRoom payload")
			return
		}
		if !c.canUse(room) {
			return
		}
		c.manager.Join(c, room)

	case EventSendMessage:
		var msg relayedMessage
		if err := json.Unmarshal(frame.Data, &msg); err != nil {
			logger.CtxDebug(c.ctx, "ws: invalid sendMessage payload", "error", err)
			return
		}
		// чужое сообщение от имени другого пользователя не ретранслируется
		if msg.SenderID != "" && msg.SenderID != c.userID {
			logger.CtxWarn(c.ctx, "ws: sender mismatch, frame dropped", "sender_id", msg.SenderID)
			return
		}
		sender := msg.SenderID
		if sender == "" {
			sender = c.userID
		}
		room := msg.room(sender)
		if room == "" || !c.canUse(room) {
			return
		}
		c.broadcast(room, Frame{Event: EventReceiveMessage, Data: frame.Data}, "")

	case EventTyping:
		var typing typingPayload
		if err := json.Unmarshal(frame.Data, &typing); err != nil {
			logger.CtxDebug(c.ctx, "ws: invalid typing payload", "error", err)
			return
		}
		room := typing.room(c.userID)
		if room == "" || !c.canUse(room) {
			return
		}
		data, err := json.Marshal(userTyping{UserID: c.userID, IsTyping: typing.IsTyping})
		if err != nil {
			return
		}
		c.broadcast(room, Frame{Event: EventUserTyping, Data: data}, c.id)

	default:
		logger.CtxDebug(c.ctx, "ws: unhandled event", "event", frame.Event)
	}
}

func (c *Client) broadcast(room string, frame Frame, exclude string) {
	encoded, err := json.Marshal(frame)
	if err != nil {
		logger.CtxWarn(c.ctx, "ws: encode frame failed", "error", err)
		return
	}
	c.manager.Broadcast(c.ctx, RoomEvent{Room: room, Frame: encoded, Exclude: exclude})
}

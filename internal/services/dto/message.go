package dto

import (
	"time"

	"gigmarket_backend/internal/models"
)

// SendMessageRequest: ровно одно из orderId/gigId определяет получателя.
// receiverId нужен только владельцу гига, когда он отвечает на запрос.
type SendMessageRequest struct {
	OrderID     *string  `json:"orderId" validate:"omitempty,min=1"`
	GigID       *string  `json:"gigId" validate:"omitempty,min=1"`
	ReceiverID  *string  `json:"receiverId" validate:"omitempty,min=1"`
	Message     string   `json:"message" validate:"required,max=5000"`
	Attachments []string `json:"attachments" validate:"omitempty,max=10,dive,url"`
}

type GigMessagesQuery struct {
	ClientID string `form:"clientId"`
}

type MessageResponse struct {
	ID          string              `json:"id"`
	OrderID     *string             `json:"orderId"`
	GigID       *string             `json:"gigId"`
	ClientID    *string             `json:"clientId,omitempty"`
	SenderID    string              `json:"senderId"`
	ReceiverID  string              `json:"receiverId"`
	Message     string              `json:"message"`
	Attachments []string            `json:"attachments"`
	IsRead      bool                `json:"isRead"`
	CreatedAt   time.Time           `json:"createdAt"`
	Sender      *models.UserSummary `json:"sender,omitempty"`
}

func NewMessageResponse(m *models.Message) *MessageResponse {
	attachments := m.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return &MessageResponse{
		ID:          m.ID,
		OrderID:     m.OrderID,
		GigID:       m.GigID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		Message:     m.Message,
		Attachments: attachments,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
		Sender:      m.Sender.Summary(),
	}
}

func NewMessageList(messages []models.Message) []*MessageResponse {
	out := make([]*MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, NewMessageResponse(&messages[i]))
	}
	return out
}

// WithClient проставляет клиента переписки по гигу: по нему выбирается
// комната inquiry_<gigId>_<clientId>
func (r *MessageResponse) WithClient(clientID string) *MessageResponse {
	if r.GigID != nil && clientID != "" {
		r.ClientID = &clientID
	}
	return r
}

// Package conversation собирает список диалогов пользователя из заказов и
// сообщений. Пакет не ходит в базу: на вход получает уже загруженные данные.
package conversation

import (
	"sort"
	"time"

	"gigmarket_backend/internal/models"
)

type Kind string

const (
	KindOrder   Kind = "order"
	KindInquiry Kind = "inquiry"
)

// noGig - ключ группы для запросов без гига
const noGig = "none"

type LastMessage struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	IsRead    bool      `json:"isRead"`
}

type Conversation struct {
	Type        Kind                `json:"type"`
	OrderID     string              `json:"orderId,omitempty"`
	GigID       string              `json:"gigId,omitempty"`
	Gig         *models.GigSummary  `json:"gig"`
	OtherUser   *models.UserSummary `json:"otherUser"`
	LastMessage LastMessage         `json:"lastMessage"`
	UnreadCount int                 `json:"unreadCount"`
}

// Input - срез хранилища для одного пользователя.
//
// Orders - заказы, где пользователь клиент или фрилансер.
// OrderMessages - сообщения этих заказов.
// InquiryMessages - сообщения без заказа, где пользователь отправитель или получатель.
// Users и Gigs нужны для карточек собеседника и гига, если связи не загружены.
type Input struct {
	Orders          []models.Order
	OrderMessages   []models.Message
	InquiryMessages []models.Message
	Users           map[string]*models.User
	Gigs            map[string]*models.Gig
}

// Derive возвращает диалоги пользователя callerID, новые сверху.
//
// Диалог заказа попадает в список, только если в заказе есть сообщения.
// Запросы группируются по паре (собеседник, гиг). Диалоги заказа и запроса
// с одним и тем же собеседником не склеиваются.
func Derive(callerID string, in Input) []Conversation {
	out := make([]Conversation, 0)
	out = append(out, orderConversations(callerID, in)...)
	out = append(out, inquiryConversations(callerID, in)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt)
	})
	return out
}

func orderConversations(callerID string, in Input) []Conversation {
	byOrder := make(map[string][]*models.Message)
	for i := range in.OrderMessages {
		m := &in.OrderMessages[i]
		if m.OrderID == nil {
			continue
		}
		byOrder[*m.OrderID] = append(byOrder[*m.OrderID], m)
	}

	orders := make([]*models.Order, 0, len(in.Orders))
	for i := range in.Orders {
		if in.Orders[i].HasParty(callerID) {
			orders = append(orders, &in.Orders[i])
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].UpdatedAt.After(orders[j].UpdatedAt)
	})

	var out []Conversation
	for _, order := range orders {
		messages := byOrder[order.ID]
		if len(messages) == 0 {
			continue
		}

		last := latest(messages)
		unread := 0
		for _, m := range messages {
			if m.ReceiverID == callerID && !m.IsRead {
				unread++
			}
		}

		gig := order.Gig
		if gig == nil {
			gig = in.Gigs[order.GigID]
		}

		out = append(out, Conversation{
			Type:        KindOrder,
			OrderID:     order.ID,
			GigID:       order.GigID,
			Gig:         gig.Summary(),
			OtherUser:   orderCounterpart(order, callerID, in.Users),
			LastMessage: lastMessage(last),
			UnreadCount: unread,
		})
	}
	return out
}

func orderCounterpart(order *models.Order, callerID string, users map[string]*models.User) *models.UserSummary {
	if order.ClientID == callerID {
		if order.Freelancer != nil {
			return order.Freelancer.Summary()
		}
		return userSummary(users, order.FreelancerID)
	}
	if order.Client != nil {
		return order.Client.Summary()
	}
	return userSummary(users, order.ClientID)
}

type inquiryGroup struct {
	counterpart string
	gigID       string
	last        *models.Message
	unread      int
}

func inquiryConversations(callerID string, in Input) []Conversation {
	groups := make(map[string]*inquiryGroup)
	var keys []string

	for i := range in.InquiryMessages {
		m := &in.InquiryMessages[i]
		if !m.IsInquiry() || (m.SenderID != callerID && m.ReceiverID != callerID) {
			continue
		}

		counterpart := m.Counterpart(callerID)
		gigID := noGig
		if m.GigID != nil && *m.GigID != "" {
			gigID = *m.GigID
		}

		key := counterpart + "-" + gigID
		g, ok := groups[key]
		if !ok {
			g = &inquiryGroup{counterpart: counterpart, gigID: gigID}
			groups[key] = g
			keys = append(keys, key)
		}
		if g.last == nil || m.CreatedAt.After(g.last.CreatedAt) {
			g.last = m
		}
		if m.ReceiverID == callerID && !m.IsRead {
			g.unread++
		}
	}

	out := make([]Conversation, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		conv := Conversation{
			Type:        KindInquiry,
			OtherUser:   userSummary(in.Users, g.counterpart),
			LastMessage: lastMessage(g.last),
			UnreadCount: g.unread,
		}
		if g.gigID != noGig {
			conv.GigID = g.gigID
			conv.Gig = in.Gigs[g.gigID].Summary()
		}
		out = append(out, conv)
	}
	return out
}

func latest(messages []*models.Message) *models.Message {
	var last *models.Message
	for _, m := range messages {
		if last == nil || m.CreatedAt.After(last.CreatedAt) {
			last = m
		}
	}
	return last
}

func lastMessage(m *models.Message) LastMessage {
	return LastMessage{Message: m.Message, CreatedAt: m.CreatedAt, IsRead: m.IsRead}
}

// userSummary возвращает карточку без email. Удалённый пользователь
// отдаётся как карточка с одним id.
func userSummary(users map[string]*models.User, id string) *models.UserSummary {
	if u, ok := users[id]; ok && u != nil {
		return u.Summary()
	}
	return &models.UserSummary{ID: id}
}

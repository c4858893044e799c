package services

import (
	"errors"
	"strings"

	"gigmarket_backend/internal/auth"
	"gigmarket_backend/internal/conversation"
	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/metrics"
	"gigmarket_backend/internal/models"
	"gigmarket_backend/internal/repositories"
	"gigmarket_backend/internal/services/dto"
	"gigmarket_backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type MessageService interface {
	SendMessage(db *gorm.DB, caller auth.CallerContext, req *dto.SendMessageRequest) (*dto.MessageResponse, error)

	// Чтение переписки помечает входящие сообщения прочитанными
	GetOrderMessages(db *gorm.DB, caller auth.CallerContext, orderID string) ([]*dto.MessageResponse, error)
	GetGigMessages(db *gorm.DB, caller auth.CallerContext, gigID, clientID string) ([]*dto.MessageResponse, error)

	MarkAsRead(db *gorm.DB, caller auth.CallerContext, messageID string) error
	GetUnreadCount(db *gorm.DB, caller auth.CallerContext) (int64, error)
	GetConversations(db *gorm.DB, caller auth.CallerContext) ([]conversation.Conversation, error)

	// AuthorizeRoom проверяет, что пользователь - участник комнаты сокета
	AuthorizeRoom(db *gorm.DB, caller auth.CallerContext, room string) error
}

// InquiryRoomPrefix - префикс комнат переписки по гигу: inquiry_<gigId>_<clientId>
const InquiryRoomPrefix = "inquiry_"

type messageService struct {
	messageRepo repositories.MessageRepository
	orderRepo   repositories.OrderRepository
	gigRepo     repositories.GigRepository
	userRepo    repositories.UserRepository
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	orderRepo repositories.OrderRepository,
	gigRepo repositories.GigRepository,
	userRepo repositories.UserRepository,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		orderRepo:   orderRepo,
		gigRepo:     gigRepo,
		userRepo:    userRepo,
	}
}

func (s *messageService) SendMessage(db *gorm.DB, caller auth.CallerContext, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	message := &models.Message{
		SenderID:    caller.UserID,
		Message:     req.Message,
		Attachments: req.Attachments,
	}
	if message.Attachments == nil {
		message.Attachments = []string{}
	}

	kind := "order"
	clientID := ""
	switch {
	case nonEmpty(req.OrderID):
		order, err := s.orderRepo.FindByID(db, *req.OrderID)
		if err != nil {
			return nil, handleMessageError(err)
		}
		if !order.HasParty(caller.UserID) {
			return nil, apperrors.ErrNotOrderMember
		}
		message.OrderID = &order.ID
		message.ReceiverID = order.Counterpart(caller.UserID)

	case nonEmpty(req.GigID):
		kind = "inquiry"
		gig, err := s.gigRepo.FindByID(db, *req.GigID)
		if err != nil {
			return nil, handleMessageError(err)
		}
		receiverID, err := s.inquiryReceiver(db, caller, gig, req.ReceiverID)
		if err != nil {
			return nil, err
		}
		message.GigID = &gig.ID
		message.ReceiverID = receiverID
		clientID = inquiryClient(gig, caller.UserID, receiverID)

	default:
		return nil, apperrors.ErrMessageTarget
	}

	if err := s.messageRepo.Create(db, message); err != nil {
		return nil, handleMessageError(err)
	}
	metrics.MessagesSent.WithLabelValues(kind).Inc()
	logger.CtxDebug(dbContext(db), "message sent", "message_id", message.ID, "kind", kind)

	full, err := s.messageRepo.FindByIDWithSender(db, message.ID)
	if err != nil {
		return nil, handleMessageError(err)
	}
	return dto.NewMessageResponse(full).WithClient(clientID), nil
}

// inquiryClient - клиент переписки по гигу: тот из двух участников,
// кто не владеет гигом
func inquiryClient(gig *models.Gig, a, b string) string {
	if a == gig.FreelancerID {
		return b
	}
	return a
}

// inquiryReceiver: клиент пишет владельцу гига; владелец отвечает клиенту,
// указанному в receiverId.
func (s *messageService) inquiryReceiver(db *gorm.DB, caller auth.CallerContext, gig *models.Gig, receiverID *string) (string, error) {
	if gig.FreelancerID != caller.UserID {
		return gig.FreelancerID, nil
	}
	if !nonEmpty(receiverID) || *receiverID == caller.UserID {
		return "", apperrors.ErrContactYourself
	}
	if _, err := s.userRepo.FindByID(db, *receiverID); err != nil {
		return "", handleMessageError(err)
	}
	return *receiverID, nil
}

func (s *messageService) GetOrderMessages(db *gorm.DB, caller auth.CallerContext, orderID string) ([]*dto.MessageResponse, error) {
	order, err := s.orderRepo.FindByID(db, orderID)
	if err != nil {
		return nil, handleMessageError(err)
	}
	if !order.HasParty(caller.UserID) {
		return nil, apperrors.ErrNotOrderMember
	}

	messages, err := s.messageRepo.FindByOrder(db, order.ID)
	if err != nil {
		return nil, handleMessageError(err)
	}

	if _, err := s.messageRepo.MarkOrderRead(db, order.ID, caller.UserID); err != nil {
		return nil, handleMessageError(err)
	}
	return dto.NewMessageList(messages), nil
}

// GetGigMessages возвращает переписку по гигу с одним собеседником.
// Владелец гига обязан указать clientId: у него может быть несколько клиентов.
func (s *messageService) GetGigMessages(db *gorm.DB, caller auth.CallerContext, gigID, clientID string) ([]*dto.MessageResponse, error) {
	gig, err := s.gigRepo.FindByID(db, gigID)
	if err != nil {
		return nil, handleMessageError(err)
	}

	counterpart := gig.FreelancerID
	if gig.FreelancerID == caller.UserID {
		if clientID == "" {
			return nil, apperrors.ErrClientIDRequired
		}
		counterpart = clientID
	}

	messages, err := s.messageRepo.FindInquiryThread(db, gig.ID, caller.UserID, counterpart)
	if err != nil {
		return nil, handleMessageError(err)
	}

	if _, err := s.messageRepo.MarkInquiryRead(db, gig.ID, counterpart, caller.UserID); err != nil {
		return nil, handleMessageError(err)
	}
	out := dto.NewMessageList(messages)
	client := inquiryClient(gig, caller.UserID, counterpart)
	for _, m := range out {
		m.WithClient(client)
	}
	return out, nil
}

// AuthorizeRoom: в комнату заказа пускаются его стороны, в комнату
// inquiry_<gigId>_<clientId> - этот клиент и владелец гига.
func (s *messageService) AuthorizeRoom(db *gorm.DB, caller auth.CallerContext, room string) error {
	if rest, ok := strings.CutPrefix(room, InquiryRoomPrefix); ok {
		gigID, clientID, found := strings.Cut(rest, "_")
		if !found || gigID == "" || clientID == "" {
			return apperrors.ErrRoomForbidden
		}
		gig, err := s.gigRepo.FindByID(db, gigID)
		if err != nil {
			return handleMessageError(err)
		}
		if caller.Is(clientID) || caller.Is(gig.FreelancerID) {
			return nil
		}
		return apperrors.ErrRoomForbidden
	}

	order, err := s.orderRepo.FindByID(db, room)
	if err != nil {
		return handleMessageError(err)
	}
	if !order.HasParty(caller.UserID) {
		return apperrors.ErrRoomForbidden
	}
	return nil
}

func (s *messageService) MarkAsRead(db *gorm.DB, caller auth.CallerContext, messageID string) error {
	message, err := s.messageRepo.FindByID(db, messageID)
	if err != nil {
		return handleMessageError(err)
	}
	if !caller.Is(message.ReceiverID) {
		return apperrors.ErrNotMessageReceiver
	}
	if err := s.messageRepo.MarkRead(db, message.ID); err != nil {
		return handleMessageError(err)
	}
	return nil
}

func (s *messageService) GetUnreadCount(db *gorm.DB, caller auth.CallerContext) (int64, error) {
	count, err := s.messageRepo.CountUnread(db, caller.UserID)
	if err != nil {
		return 0, handleMessageError(err)
	}
	return count, nil
}

// GetConversations загружает заказы и сообщения пользователя параллельно
// и собирает из них список диалогов.
func (s *messageService) GetConversations(db *gorm.DB, caller auth.CallerContext) ([]conversation.Conversation, error) {
	var (
		orders        []models.Order
		orderMessages []models.Message
		inquiries     []models.Message
		users         []models.User
		gigs          []models.Gig
	)

	g, ctx := errgroup.WithContext(dbContext(db))
	gdb := db.WithContext(ctx)

	g.Go(func() error {
		var err error
		orders, err = s.orderRepo.FindByParticipant(gdb, caller.UserID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(orders))
		for i := range orders {
			ids = append(ids, orders[i].ID)
		}
		orderMessages, err = s.messageRepo.FindByOrders(gdb, ids)
		return err
	})

	g.Go(func() error {
		var err error
		inquiries, err = s.messageRepo.FindInquiriesForUser(gdb, caller.UserID)
		if err != nil {
			return err
		}

		userIDs := make(map[string]struct{})
		gigIDs := make(map[string]struct{})
		for i := range inquiries {
			userIDs[inquiries[i].Counterpart(caller.UserID)] = struct{}{}
			if inquiries[i].GigID != nil {
				gigIDs[*inquiries[i].GigID] = struct{}{}
			}
		}

		if users, err = s.userRepo.FindByIDs(gdb, keys(userIDs)); err != nil {
			return err
		}
		gigs, err = s.gigRepo.FindByIDs(gdb, keys(gigIDs))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, handleMessageError(err)
	}

	in := conversation.Input{
		Orders:          orders,
		OrderMessages:   orderMessages,
		InquiryMessages: inquiries,
		Users:           make(map[string]*models.User, len(users)),
		Gigs:            make(map[string]*models.Gig, len(gigs)),
	}
	for i := range users {
		in.Users[users[i].ID] = &users[i]
	}
	for i := range gigs {
		in.Gigs[gigs[i].ID] = &gigs[i]
	}

	return conversation.Derive(caller.UserID, in), nil
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func handleMessageError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repositories.ErrOrderNotFound):
		return apperrors.ErrOrderNotFound
	case errors.Is(err, repositories.ErrGigNotFound):
		return apperrors.ErrGigNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrMessageNotFound):
		return apperrors.ErrMessageNotFound
	}
	return apperrors.ErrDatabase(err)
}

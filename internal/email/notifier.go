package email

import (
	"context"
	"strings"
	"sync"

	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/models"
)

// Notifier отправляет фрилансеру письма о заказах. Ошибки только логируются:
// уведомление никогда не ломает основной запрос.
type Notifier struct {
	provider  Provider
	clientURL string

	// фоновые отправки, Wait дожидается их при остановке
	pending sync.WaitGroup
}

func NewNotifier(provider Provider, clientURL string) *Notifier {
	return &Notifier{provider: provider, clientURL: strings.TrimRight(clientURL, "/")}
}

// OrderEvent - данные для письма о заказе
type OrderEvent struct {
	Order      *models.Order
	Gig        *models.Gig
	Client     *models.User
	Freelancer *models.User
}

func (n *Notifier) OrderPlaced(ctx context.Context, ev OrderEvent) {
	n.send(ctx, ev, "New order: "+ev.Gig.Title, TemplateOrderPlaced)
}

func (n *Notifier) OrderCompleted(ctx context.Context, ev OrderEvent) {
	n.send(ctx, ev, "Order completed: "+ev.Gig.Title, TemplateOrderCompleted)
}

// OrderPlacedAsync и OrderCompletedAsync отправляют письмо в фоне
func (n *Notifier) OrderPlacedAsync(ctx context.Context, ev OrderEvent) {
	n.goSend(func() { n.OrderPlaced(ctx, ev) })
}

func (n *Notifier) OrderCompletedAsync(ctx context.Context, ev OrderEvent) {
	n.goSend(func() { n.OrderCompleted(ctx, ev) })
}

// Wait блокируется до завершения всех фоновых отправок
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.pending.Wait()
}

func (n *Notifier) goSend(fn func()) {
	if n == nil {
		return
	}
	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		fn()
	}()
}

func (n *Notifier) send(ctx context.Context, ev OrderEvent, subject, templateName string) {
	if n == nil || n.provider == nil || ev.Freelancer == nil || ev.Freelancer.Email == "" {
		return
	}

	clientName := ""
	if ev.Client != nil {
		clientName = ev.Client.Name
	}

	data := TemplateData{
		"FreelancerName": ev.Freelancer.Name,
		"ClientName":     clientName,
		"GigTitle":       ev.Gig.Title,
		"Price":          ev.Order.Price,
		"Requirements":   ev.Order.Requirements,
		"OrderURL":       n.clientURL + "/orders/" + ev.Order.ID,
	}

	if err := n.provider.SendTemplate(ctx, []string{ev.Freelancer.Email}, subject, templateName, data); err != nil {
		logger.CtxWarn(ctx, "order notification failed",
			"order_id", ev.Order.ID,
			"template", templateName,
			"error", err,
		)
	}
}

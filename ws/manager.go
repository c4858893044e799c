package ws

import (
	"context"
	"encoding/json"

	"gigmarket_backend/internal/logger"
	"gigmarket_backend/internal/metrics"
)

// RoomEvent - готовый кадр для всех сокетов комнаты, кроме Exclude
type RoomEvent struct {
	Room    string          `json:"room"`
	Frame   json.RawMessage `json:"frame"`
	Exclude string          `json:"exclude,omitempty"`
}

// Backplane разносит события комнат между инстансами API.
// Subscribe блокируется до отмены ctx.
type Backplane interface {
	Publish(ctx context.Context, ev RoomEvent) error
	Subscribe(ctx context.Context, handle func(RoomEvent)) error
}

type joinRequest struct {
	client *Client
	room   string
}

// WebSocketManager держит подключения и комнаты. Состояние меняется только
// в горутине Run, остальные общаются с ним через каналы.
type WebSocketManager struct {
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	deliver    chan RoomEvent
	done       chan struct{}

	backplane Backplane
}

// NewWebSocketManager создает менеджер. backplane может быть nil:
// тогда события доставляются только локальным сокетам.
func NewWebSocketManager(backplane Backplane) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		deliver:    make(chan RoomEvent, 256),
		done:       make(chan struct{}),
		backplane:  backplane,
	}
}

func (m *WebSocketManager) Run(ctx context.Context) {
	defer close(m.done)

	if m.backplane != nil {
		go func() {
			err := m.backplane.Subscribe(ctx, m.deliverRemote)
			if err != nil && ctx.Err() == nil {
				logger.Error("ws: backplane subscription stopped", "error", err)
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			for client := range m.clients {
				m.remove(client)
			}
			logger.Info("ws: manager stopped")
			return

		case client := <-m.register:
			m.clients[client] = true
			metrics.RelayClients.Inc()
			logger.Debug("ws: client connected", "user_id", client.userID, "total", len(m.clients))

		case client := <-m.unregister:
			m.remove(client)

		case req := <-m.join:
			if !m.clients[req.client] {
				continue
			}
			members, ok := m.rooms[req.room]
			if !ok {
				members = make(map[*Client]bool)
				m.rooms[req.room] = members
			}
			members[req.client] = true
			req.client.rooms[req.room] = true

		case ev := <-m.deliver:
			m.deliverLocal(ev)
		}
	}
}

func (m *WebSocketManager) remove(client *Client) {
	if !m.clients[client] {
		return
	}
	for room := range client.rooms {
		if members, ok := m.rooms[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(m.rooms, room)
			}
		}
	}
	delete(m.clients, client)
	close(client.send)
	metrics.RelayClients.Dec()
	logger.Debug("ws: client disconnected", "user_id", client.userID, "total", len(m.clients))
}

func (m *WebSocketManager) deliverLocal(ev RoomEvent) {
	for client := range m.rooms[ev.Room] {
		if client.id == ev.Exclude {
			continue
		}
		select {
		case client.send <- ev.Frame:
		default:
			// медленный клиент отключается
			m.remove(client)
		}
	}
}

func (m *WebSocketManager) deliverRemote(ev RoomEvent) {
	select {
	case m.deliver <- ev:
	case <-m.done:
	}
}

// Broadcast отправляет событие в комнату. С backplane событие уходит через
// него и возвращается всем инстансам, включая текущий.
func (m *WebSocketManager) Broadcast(ctx context.Context, ev RoomEvent) {
	if m.backplane != nil {
		err := m.backplane.Publish(ctx, ev)
		if err == nil {
			return
		}
		logger.CtxWarn(ctx, "ws: backplane publish failed, delivering locally", "room", ev.Room, "error", err)
	}
	select {
	case m.deliver <- ev:
	case <-m.done:
	}
}

// Join добавляет клиента в комнату
func (m *WebSocketManager) Join(client *Client, room string) {
	select {
	case m.join <- joinRequest{client: client, room: room}:
	case <-m.done:
	}
}

func (m *WebSocketManager) Register(client *Client) bool {
	select {
	case m.register <- client:
		return true
	case <-m.done:
		return false
	}
}

func (m *WebSocketManager) Unregister(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

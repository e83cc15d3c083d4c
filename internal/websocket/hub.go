package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/voxus/internal/coordinator"
)

// MessageType определяет типы сообщений
type MessageType string

const (
	// Системные типы
	TypePing  MessageType = "ping"
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"

	// Команды клиента
	TypeJoin           MessageType = "join"
	TypeLeave          MessageType = "leave"
	TypeMessage        MessageType = "message"
	TypeEditMessage    MessageType = "edit_message"
	TypeDeleteMessage  MessageType = "delete_message"
	TypeReact          MessageType = "react"
	TypeTyping         MessageType = "typing"
	TypeCreateRoom     MessageType = "create_room"
	TypeInvite         MessageType = "invite"
	TypeInviteResponse MessageType = "invite_response"
)

// Message - конверт, общий для команд и событий
type Message struct {
	Type      MessageType     `json:"type"`
	Room      string          `json:"room,omitempty"`
	UserID    string          `json:"user_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type Client struct {
	ID   uuid.UUID
	User coordinator.User
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub держит живые соединения и раздаёт им события координатора.
// Составом комнат он не владеет: получателей называет само событие.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Клиенты по UserID (один пользователь может иметь несколько соединений)
	userClients map[string]map[uuid.UUID]*Client

	unregister chan *Client

	// Вызывается после снятия клиента, вне блокировки хаба
	onClose func(*Client)

	mu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[string]map[uuid.UUID]*Client),
		unregister:  make(chan *Client),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// OnClose задаёт обработчик отключения. Вызывать до Run.
func (h *Hub) OnClose(fn func(*Client)) {
	h.onClose = fn
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub и закрывает все соединения
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
		delete(h.clients, id)
	}
	h.userClients = make(map[string]map[uuid.UUID]*Client)
}

// Register регистрирует нового клиента. После возврата клиент уже получает события.
func (h *Hub) Register(client *Client) error {
	return h.registerClient(client)
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Stop отменяет контекст до захвата mu
	if h.ctx.Err() != nil {
		return ErrHubStopped
	}
	h.clients[client.ID] = client

	if _, ok := h.userClients[client.User.ID]; !ok {
		h.userClients[client.User.ID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[client.User.ID][client.ID] = client

	slog.Info("client registered", "client", client.ID, "user", client.User.ID)
	return nil
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.ID]
	if ok {
		if userClients, found := h.userClients[client.User.ID]; found {
			delete(userClients, client.ID)
			if len(userClients) == 0 {
				delete(h.userClients, client.User.ID)
			}
		}
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	slog.Info("client unregistered", "client", client.ID, "user", client.User.ID)
	if h.onClose != nil {
		h.onClose(client)
	}
}

// Publish реализует coordinator.Publisher. Не блокируется: переполненный
// буфер клиента означает потерю события для этого клиента.
func (h *Hub) Publish(ev coordinator.Event) {
	data, err := encodeEvent(ev)
	if err != nil {
		slog.Error("encode event", "type", ev.Type, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if ev.Broadcast {
		for _, client := range h.clients {
			h.deliver(client, data)
		}
		return
	}
	for _, userID := range ev.Recipients {
		for _, client := range h.userClients[userID] {
			h.deliver(client, data)
		}
	}
}

func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		slog.Warn("client send channel full", "client", client.ID, "user", client.User.ID)
	}
}

func (h *Hub) ping() {
	data, err := json.Marshal(Message{Type: TypePing, Timestamp: time.Now()})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		h.deliver(client, data)
	}
}

// ConnectionCount возвращает число живых соединений
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func encodeEvent(ev coordinator.Event) ([]byte, error) {
	msg := Message{
		Type:      MessageType(ev.Type),
		Room:      ev.Room,
		Timestamp: time.Now(),
	}
	if ev.Payload != nil {
		data, err := json.Marshal(ev.Payload)
		if err != nil {
			return nil, err
		}
		msg.Data = data
	}
	return json.Marshal(msg)
}

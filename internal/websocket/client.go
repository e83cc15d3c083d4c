package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/voxus/internal/coordinator"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения
	maxMessageSize = 512 * 1024 // 512KB

	sendBuffer = 256
)

// ClientMessageHandler исполняет команды клиента. Ошибка уходит только этому клиенту.
type ClientMessageHandler interface {
	HandleMessage(client *Client, msg *Message) error
}

func NewClient(hub *Hub, conn *websocket.Conn, user coordinator.User) *Client {
	return &Client{
		ID:   uuid.New(),
		User: user,
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
		Hub:  hub,
	}
}

// ReadPump читает команды клиента по одной, поэтому команды одного
// соединения исполняются в порядке отправки.
func (c *Client) ReadPump(handler ClientMessageHandler) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "client", c.ID, "err", err)
			}
			break
		}

		// Кадр прочитан целиком: любой мусор в нём - ошибка команды, а не разрыв
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.SendError("", ErrInvalidMessage)
			continue
		}

		msg.UserID = c.User.ID
		if msg.Type == TypePong {
			continue
		}

		if handler != nil {
			if err := handler.HandleMessage(c, &msg); err != nil {
				slog.Debug("command failed", "type", msg.Type, "user", c.User.ID, "err", err)
				c.SendError(msg.Type, err)
			}
		}
	}
}

// WritePump отправляет сообщения клиенту
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) SendMessage(msgType MessageType, room string, data interface{}) error {
	msg := Message{
		Type:      msgType,
		Room:      room,
		Timestamp: time.Now(),
	}

	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return err
		}
		msg.Data = jsonData
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.Hub.sendTo(c, msgData)
}

// SendError отправляет клиенту ошибку команды
func (c *Client) SendError(command MessageType, err error) {
	c.SendMessage(TypeError, "", ErrorBody(command, err))
}

// ErrorBody - данные события error: стабильный код, текст и команда
func ErrorBody(command MessageType, err error) map[string]string {
	code := coordinator.Code(err)
	switch {
	case errors.Is(err, ErrInvalidMessage):
		code = "invalid_message"
	case errors.Is(err, ErrUnknownCommand):
		code = "unknown_command"
	case errors.Is(err, ErrHubStopped):
		code = "unavailable"
	}

	return map[string]string{
		"code":    code,
		"error":   err.Error(),
		"command": string(command),
	}
}

// sendTo пишет в канал клиента, только пока тот зарегистрирован
func (h *Hub) sendTo(c *Client, data []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.clients[c.ID] != c {
		return ErrClientGone
	}
	select {
	case c.Send <- data:
		return nil
	default:
		return ErrClientQueueFull
	}
}

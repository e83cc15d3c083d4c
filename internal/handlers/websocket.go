package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/internal/middleware"
	ws "github.com/thereayou/voxus/internal/websocket"
)

// UserTracker запоминает пользователей и время их последнего визита
type UserTracker interface {
	TouchUser(id, username string) error
	UpdateLastSeen(id string) error
}

// WebSocketHandler управляет WebSocket соединениями
type WebSocketHandler struct {
	hub      *ws.Hub
	coord    *coordinator.Coordinator
	commands *CommandHandler
	users    UserTracker
	// Комната, в которую попадает только что подключившийся пользователь
	defaultRoom string
	upgrader    websocket.Upgrader
}

// NewWebSocketHandler создает новый WebSocket handler и подписывается на
// отключения клиентов хаба
func NewWebSocketHandler(hub *ws.Hub, coord *coordinator.Coordinator, users UserTracker, defaultRoom string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:         hub,
		coord:       coord,
		commands:    NewCommandHandler(coord),
		users:       users,
		defaultRoom: defaultRoom,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	hub.OnClose(h.onClose)
	return h
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	ctx := context.Background()
	if err := h.coord.Connect(ctx, user); err != nil {
		rejectConnection(conn, err)
		return
	}

	client := ws.NewClient(h.hub, conn, user)
	if err := h.hub.Register(client); err != nil {
		h.coord.Disconnect(ctx, user.ID)
		rejectConnection(conn, err)
		return
	}

	if h.users != nil {
		go func() {
			if err := h.users.TouchUser(user.ID, user.Username); err != nil {
				slog.Warn("touch user", "user", user.ID, "err", err)
			}
		}()
	}

	go client.WritePump()

	if cur, _ := h.coord.CurrentRoom(user.ID); cur == "" && h.defaultRoom != "" {
		if err := h.coord.Join(ctx, user.ID, h.defaultRoom); err != nil {
			slog.Warn("join default room", "user", user.ID, "room", h.defaultRoom, "err", err)
		}
	}

	go client.ReadPump(h.commands)
}

// onClose переводит обрыв соединения в неявный выход из комнаты
func (h *WebSocketHandler) onClose(client *ws.Client) {
	h.coord.Disconnect(context.Background(), client.User.ID)
	if h.users != nil {
		go h.users.UpdateLastSeen(client.User.ID)
	}
}

// rejectConnection отправляет ошибку и закрывает соединение, которое не попало в хаб
func rejectConnection(conn *websocket.Conn, err error) {
	data, _ := json.Marshal(ws.ErrorBody("", err))
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	conn.WriteJSON(ws.Message{
		Type:      ws.TypeError,
		Timestamp: time.Now(),
		Data:      data,
	})
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
	conn.Close()
}

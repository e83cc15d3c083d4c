package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/internal/middleware"
	"github.com/thereayou/voxus/internal/models"
)

type UserStore interface {
	GetUser(id string) (*models.User, error)
}

type UserHandler struct {
	coord *coordinator.Coordinator
	users UserStore
}

func NewUserHandler(coord *coordinator.Coordinator, users UserStore) *UserHandler {
	return &UserHandler{coord: coord, users: users}
}

// GetMe возвращает информацию о текущем пользователе
func (h *UserHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	room, online := h.coord.CurrentRoom(user.ID)

	resp := gin.H{
		"id":       user.ID,
		"username": user.Username,
		"online":   online,
		"room":     room,
	}

	if h.users != nil {
		if stored, err := h.users.GetUser(user.ID); err == nil {
			resp["created_at"] = stored.CreatedAt
			resp["last_seen_at"] = stored.LastSeenAt
		}
	}

	c.JSON(http.StatusOK, resp)
}

// OnlineUsers возвращает всех подключённых пользователей
func (h *UserHandler) OnlineUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.coord.Online()})
}

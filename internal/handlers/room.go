package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/middleware"
)

const maxPageSize = 100

type RoomHandler struct {
	coord *coordinator.Coordinator
}

func NewRoomHandler(coord *coordinator.Coordinator) *RoomHandler {
	return &RoomHandler{coord: coord}
}

// ListRooms возвращает каталог комнат: имя -> описание и число участников
func (h *RoomHandler) ListRooms(c *gin.Context) {
	dir := h.coord.Directory(c.Request.Context())

	result := make(map[string]dto.RoomInfo, len(dir))
	for _, r := range dir {
		result[r.Name] = dto.RoomInfo{
			Description: r.Description,
			Category:    string(r.Category),
			CreatedBy:   r.CreatedBy,
			UsersCount:  r.UsersCount,
			IsPrivate:   r.IsPrivate,
			CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, result)
}

// CreateRoom создает новую комнату
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.coord.CreateRoom(c.Request.Context(), middleware.CurrentUser(c), coordinator.RoomSpec{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// GetRoomUsers возвращает состав комнаты
func (h *RoomHandler) GetRoomUsers(c *gin.Context) {
	name := c.Param("name")

	users, err := h.coord.Roster(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": name, "users": users})
}

// GetRoomMessages получает историю сообщений комнаты. Читать историю может
// только тот, кто сейчас в комнате.
func (h *RoomHandler) GetRoomMessages(c *gin.Context) {
	user := middleware.CurrentUser(c)
	name := c.Param("name")

	if cur, _ := h.coord.CurrentRoom(user.ID); cur != name {
		respondError(c, coordinator.ErrNotMember)
		return
	}

	// Параметры пагинации
	limit := 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxPageSize {
			limit = parsed
		}
	}

	var before uint64
	if b := c.Query("before"); b != "" {
		if seq, err := strconv.ParseUint(b, 10, 64); err == nil {
			before = seq
		}
	}

	messages, err := h.coord.History(c.Request.Context(), name, limit, before)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"has_more": limit > 0 && len(messages) == limit,
	})
}

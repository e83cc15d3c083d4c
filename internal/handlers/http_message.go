package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/voxus/internal/coordinator"
	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/middleware"
)

// HTTPMessageHandler - те же операции с сообщениями, что и по WebSocket.
// События уходят подписчикам комнаты так же, как для команд сокета.
type HTTPMessageHandler struct {
	coord *coordinator.Coordinator
}

func NewHTTPMessageHandler(coord *coordinator.Coordinator) *HTTPMessageHandler {
	return &HTTPMessageHandler{coord: coord}
}

func (h *HTTPMessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.coord.Send(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("name"), coordinator.Draft{
		Type:    coordinator.MessageType(req.Type),
		Body:    req.Content,
		FileRef: req.FileRef,
		Mime:    req.Mime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func (h *HTTPMessageHandler) EditMessage(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	var req dto.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.coord.Edit(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

// DeleteMessage помечает сообщение удалённым; ?room= сверяется с комнатой сообщения
func (h *HTTPMessageHandler) DeleteMessage(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	if err := h.coord.Delete(c.Request.Context(), middleware.CurrentUser(c).ID, id, c.Query("room")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPMessageHandler) React(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	var req struct {
		Emoji string `json:"emoji" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reaction, err := h.coord.React(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.Emoji)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reaction)
}

func messageID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return uuid.Nil, false
	}
	return id, true
}

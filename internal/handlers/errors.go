package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/internal/coordinator"
)

var statusByCode = map[string]int{
	"duplicate_name":       http.StatusConflict,
	"room_not_found":       http.StatusNotFound,
	"not_found":            http.StatusNotFound,
	"not_member":           http.StatusForbidden,
	"not_author":           http.StatusForbidden,
	"already_deleted":      http.StatusGone,
	"target_offline":       http.StatusConflict,
	"invalid_room_name":    http.StatusBadRequest,
	"empty_message":        http.StatusBadRequest,
	"message_too_long":     http.StatusBadRequest,
	"invalid_message_type": http.StatusBadRequest,
	"invalid_emoji":        http.StatusBadRequest,
	"not_connected":        http.StatusConflict,
	"username_taken":       http.StatusConflict,
}

// respondError отвечает ошибкой координатора с подходящим HTTP статусом
func respondError(c *gin.Context, err error) {
	code := coordinator.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

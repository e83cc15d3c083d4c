package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/internal/handlers"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Rooms     *handlers.RoomHandler
	Messages  *handlers.HTTPMessageHandler
	Users     *handlers.UserHandler
	Uploads   *handlers.UploadHandler
	WebSocket *handlers.WebSocketHandler
}

func APIEndpoints(r *gin.Engine, h Handlers, authMW gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Ссылки на файлы вставляются в <img>, заголовок авторизации туда не передать
	r.GET("/files/:id", h.Uploads.Download)

	api := r.Group("/", authMW)
	{
		api.GET("/ws", h.WebSocket.HandleWebSocket)

		api.POST("/auth/logout", h.Auth.Logout)

		api.GET("/me", h.Users.GetMe)
		api.GET("/users/online", h.Users.OnlineUsers)

		api.GET("/rooms", h.Rooms.ListRooms)
		api.POST("/rooms", h.Rooms.CreateRoom)
		api.GET("/rooms/:name/users", h.Rooms.GetRoomUsers)
		api.GET("/rooms/:name/messages", h.Rooms.GetRoomMessages)
		api.POST("/rooms/:name/messages", h.Messages.SendMessage)

		api.PATCH("/messages/:id", h.Messages.EditMessage)
		api.DELETE("/messages/:id", h.Messages.DeleteMessage)
		api.POST("/messages/:id/reactions", h.Messages.React)

		api.POST("/upload", h.Uploads.Upload)
	}
}

package dto

// Запросы HTTP API. Проверяются биндингом gin.

type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"max=500"`
	Category    string `json:"category" binding:"max=50"`
	IsPrivate   bool   `json:"isPrivate"`
}

type SendMessageRequest struct {
	Type    string `json:"type" binding:"omitempty,oneof=text image file"`
	Content string `json:"content"`
	FileRef string `json:"fileRef" binding:"max=512"`
	Mime    string `json:"mime" binding:"max=255"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type RoomInfo struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	CreatedBy   string `json:"createdBy"`
	UsersCount  int    `json:"usersCount"`
	IsPrivate   bool   `json:"isPrivate"`
	CreatedAt   string `json:"createdAt"`
}

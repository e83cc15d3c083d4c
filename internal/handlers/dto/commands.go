package dto

import "github.com/google/uuid"

// Полезные нагрузки команд WebSocket. Поле room, если его нет в data,
// берётся из конверта сообщения.

type RoomPayload struct {
	Room string `json:"room" validate:"required,max=100"`
}

type MessagePayload struct {
	Room    string `json:"room" validate:"required,max=100"`
	Type    string `json:"type,omitempty" validate:"omitempty,oneof=text image file"`
	Content string `json:"content"`
	FileRef string `json:"fileRef,omitempty" validate:"omitempty,max=512"`
	Mime    string `json:"mime,omitempty" validate:"omitempty,max=255"`
}

type EditPayload struct {
	MessageID uuid.UUID `json:"messageId" validate:"required"`
	Content   string    `json:"content"`
}

type DeletePayload struct {
	MessageID uuid.UUID `json:"messageId" validate:"required"`
	Room      string    `json:"room,omitempty" validate:"max=100"`
}

type ReactPayload struct {
	MessageID uuid.UUID `json:"messageId" validate:"required"`
	Emoji     string    `json:"emoji" validate:"required"`
}

type TypingPayload struct {
	Room   string `json:"room" validate:"required,max=100"`
	Typing bool   `json:"typing"`
}

type CreateRoomPayload struct {
	Name        string `json:"name"`
	Description string `json:"description" validate:"max=500"`
	Category    string `json:"category" validate:"max=50"`
	IsPrivate   bool   `json:"isPrivate"`
}

type InvitePayload struct {
	ToUser string `json:"toUser" validate:"required"`
	Room   string `json:"room" validate:"required,max=100"`
}

type InviteResponsePayload struct {
	Room   string `json:"room" validate:"required,max=100"`
	Accept bool   `json:"accept"`
}

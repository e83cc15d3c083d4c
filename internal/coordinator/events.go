package coordinator

import (
	"time"

	"github.com/google/uuid"
)

// EventType - имя исходящего события
type EventType string

const (
	EventMessage        EventType = "message"
	EventMessageEdited  EventType = "message_edited"
	EventMessageDeleted EventType = "message_deleted"
	EventReactionUpdate EventType = "reaction_update"
	EventStatus         EventType = "status"
	EventUpdateUsers    EventType = "update_users"
	EventRoomCreated    EventType = "room_created"
	EventInvited        EventType = "invited"
	EventTypingStatus   EventType = "typing_status"
	EventHistory        EventType = "history"
	EventUserStatus     EventType = "user_status"
)

// Event адресуется либо списку пользователей (Recipients), либо всем сессиям (Broadcast)
type Event struct {
	Type       EventType
	Room       string
	Recipients []string
	Broadcast  bool
	Payload    any
}

// Publisher доставляет события подписчикам. Publish не должен блокироваться:
// он вызывается под блокировкой комнаты.
type Publisher interface {
	Publish(ev Event)
}

type StatusPayload struct {
	Msg       string `json:"msg"`
	Timestamp string `json:"timestamp"`
}

type UsersPayload struct {
	Room  string `json:"room"`
	Users []User `json:"users"`
}

type RoomCreatedPayload struct {
	Room        string   `json:"room"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	CreatedBy   string   `json:"createdBy"`
	IsPrivate   bool     `json:"isPrivate"`
}

type InvitedPayload struct {
	From     string    `json:"from"`
	FromID   string    `json:"fromId"`
	Room     string    `json:"room"`
	IssuedAt time.Time `json:"issuedAt"`
}

type TypingPayload struct {
	Room     string `json:"room"`
	ByUser   string `json:"byUser"`
	Username string `json:"username"`
	Typing   bool   `json:"typing"`
}

type MessageDeletedPayload struct {
	MessageID uuid.UUID `json:"messageId"`
	Room      string    `json:"room"`
	Seq       uint64    `json:"seq"`
}

type HistoryPayload struct {
	Room     string    `json:"room"`
	Messages []Message `json:"messages"`
}

type UserStatusPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Status   string `json:"status"`
}

func statusNow(msg string) StatusPayload {
	return StatusPayload{Msg: msg, Timestamp: time.Now().Format("15:04:05")}
}

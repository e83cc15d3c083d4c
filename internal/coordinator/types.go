package coordinator

import (
	"time"

	"github.com/google/uuid"
)

// Category комнаты. Набор открытый: неизвестные значения сводятся к CategoryOther.
type Category string

const (
	CategoryGeneral    Category = "General"
	CategoryGaming     Category = "Gaming"
	CategoryTechnology Category = "Technology"
	CategoryStudy      Category = "Study"
	CategoryOther      Category = "Other"
)

// ParseCategory нормализует категорию из клиентского ввода
func ParseCategory(s string) Category {
	switch c := Category(s); c {
	case CategoryGeneral, CategoryGaming, CategoryTechnology, CategoryStudy, CategoryOther:
		return c
	default:
		return CategoryOther
	}
}

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageFile  MessageType = "file"
)

func (t MessageType) valid() bool {
	return t == MessageText || t == MessageImage || t == MessageFile
}

// User - лёгкий дескриптор подключённого пользователя, без учётных данных
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Room описывает комнату без состава участников
type Room struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	CreatedBy   string    `json:"createdBy"`
	IsPrivate   bool      `json:"isPrivate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RoomSummary - строка снимка каталога комнат
type RoomSummary struct {
	Room
	UsersCount int `json:"usersCount"`
}

type Message struct {
	ID         uuid.UUID   `json:"id"`
	Seq        uint64      `json:"seq"`
	Room       string      `json:"room"`
	AuthorID   string      `json:"authorId"`
	AuthorName string      `json:"username"`
	Type       MessageType `json:"type"`
	Body       string      `json:"content,omitempty"`
	FileRef    string      `json:"fileRef,omitempty"`
	Mime       string      `json:"mime,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	EditedAt   *time.Time  `json:"editedAt,omitempty"`
	Deleted    bool        `json:"deleted,omitempty"`
	Reactions  []Reaction  `json:"reactions,omitempty"`
}

type Reaction struct {
	MessageID uuid.UUID `json:"messageId"`
	Room      string    `json:"room"`
	Emoji     string    `json:"emoji"`
	ByUser    string    `json:"byUser"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft - входные данные нового сообщения
type Draft struct {
	Type    MessageType
	Body    string
	FileRef string
	Mime    string
}

// clone возвращает копию, которую безопасно отдавать за пределы блокировки комнаты
func (m *Message) clone() Message {
	c := *m
	if m.EditedAt != nil {
		t := *m.EditedAt
		c.EditedAt = &t
	}
	if len(m.Reactions) > 0 {
		c.Reactions = append([]Reaction(nil), m.Reactions...)
	}
	return c
}
